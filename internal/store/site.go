package store

import (
	"context"

	"github.com/olegiv/easycms-go/internal/model"
)

// GetPublishedHomePage returns the published page flagged as home
// page. Uniqueness is enforced at write time; the deterministic order
// guards against legacy rows carrying a stale flag.
func (q *Queries) GetPublishedHomePage(ctx context.Context) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages
		 WHERE is_home_page = 1 AND is_published = 1
		 ORDER BY id LIMIT 1`)
	return scanPage(row)
}

// GetPublishedPage returns a page by ID only when it is published.
func (q *Queries) GetPublishedPage(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ? AND is_published = 1`, id)
	return scanPage(row)
}

// ListPublishedContentsByPage returns the published content blocks
// placed on the given page, with their full joined associations. Rows
// come back in insertion order; display ordering by position number is
// applied by the caller.
func (q *Queries) ListPublishedContentsByPage(ctx context.Context, pageID int64) ([]model.Content, error) {
	rows, err := q.db.QueryContext(ctx,
		contentSelect+` WHERE c.is_published = 1 AND pos.id_page = ? ORDER BY c.id`,
		pageID)
	if err != nil {
		return nil, err
	}
	return collectContents(rows)
}

// ListPublishedNavigations returns the published navigation entries
// with their target page, ordered by the optional position hint.
func (q *Queries) ListPublishedNavigations(ctx context.Context) ([]model.Navigation, error) {
	rows, err := q.db.QueryContext(ctx,
		navigationSelect+` WHERE n.is_published = 1
		 ORDER BY (n.id_position IS NULL OR n.id_position = 0), n.id_position, n.id`)
	if err != nil {
		return nil, err
	}
	return collectNavigations(rows)
}
