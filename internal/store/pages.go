package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/easycms-go/internal/model"
)

const pageColumns = `id, page_name, is_home_page, creation_date, modification_date, is_published, id_user`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.IsHomePage,
		&p.CreationDate,
		&p.ModificationDate,
		&p.IsPublished,
		&p.UserID,
	)
	return p, err
}

// ListPages returns all pages ordered by name.
func (q *Queries) ListPages(ctx context.Context) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY page_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// GetPage returns a single page by ID.
func (q *Queries) GetPage(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// CountPages returns the total number of pages.
func (q *Queries) CountPages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&n)
	return n, err
}

// CreatePageParams holds the fields for a new page.
type CreatePageParams struct {
	Name        string
	IsHomePage  bool
	IsPublished bool
	UserID      int64
}

// CreatePage inserts a page and provisions its four content positions
// in a single transaction. When the page is marked as home page, the
// flag is cleared on every other page so at most one home page exists.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	var page model.Page
	err := q.execTx(ctx, func(tx *Queries) error {
		now := time.Now().UTC()

		if arg.IsHomePage {
			if err := tx.clearHomePage(ctx, 0); err != nil {
				return fmt.Errorf("clearing home page flag: %w", err)
			}
		}

		res, err := tx.db.ExecContext(ctx,
			`INSERT INTO pages (page_name, is_home_page, creation_date, modification_date, is_published, id_user)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			arg.Name, arg.IsHomePage, now, now, arg.IsPublished, arg.UserID)
		if err != nil {
			return fmt.Errorf("inserting page: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for n := 1; n <= model.PositionsPerPage; n++ {
			if _, err := tx.db.ExecContext(ctx,
				`INSERT INTO positions (id_page, position_number) VALUES (?, ?)`,
				id, n); err != nil {
				return fmt.Errorf("provisioning position %d: %w", n, err)
			}
		}

		page, err = tx.GetPage(ctx, id)
		return err
	})
	return page, err
}

// UpdatePageParams holds the fields for a page update.
type UpdatePageParams struct {
	ID          int64
	Name        string
	IsHomePage  bool
	IsPublished bool
	UserID      int64
}

// UpdatePage persists all page fields and refreshes the modification
// date. Marking the page as home page clears the flag elsewhere.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (model.Page, error) {
	var page model.Page
	err := q.execTx(ctx, func(tx *Queries) error {
		if arg.IsHomePage {
			if err := tx.clearHomePage(ctx, arg.ID); err != nil {
				return fmt.Errorf("clearing home page flag: %w", err)
			}
		}

		res, err := tx.db.ExecContext(ctx,
			`UPDATE pages
			 SET page_name = ?, is_home_page = ?, modification_date = ?, is_published = ?, id_user = ?
			 WHERE id = ?`,
			arg.Name, arg.IsHomePage, time.Now().UTC(), arg.IsPublished, arg.UserID, arg.ID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}

		page, err = tx.GetPage(ctx, arg.ID)
		return err
	})
	return page, err
}

// clearHomePage resets is_home_page on all pages except the given one.
func (q *Queries) clearHomePage(ctx context.Context, exceptID int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET is_home_page = 0 WHERE is_home_page = 1 AND id != ?`, exceptID)
	return err
}

// DeletePage removes a page. Its positions and navigation entries are
// deleted and its contents unassigned via foreign key actions.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	return q.deleteOne(ctx, `DELETE FROM pages WHERE id = ?`, id)
}

// ListPositionsByPage returns the page's positions ordered by number.
func (q *Queries) ListPositionsByPage(ctx context.Context, pageID int64) ([]model.Position, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, id_page, position_number FROM positions WHERE id_page = ? ORDER BY position_number`,
		pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.ID, &p.PageID, &p.Number); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// ListPositions returns every position with its owning page, ordered
// by page name then position number. Used to build placement choices.
func (q *Queries) ListPositions(ctx context.Context) ([]model.Position, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT pos.id, pos.id_page, pos.position_number, `+prefixedPageColumns("p")+`
		 FROM positions pos
		 JOIN pages p ON p.id = pos.id_page
		 ORDER BY p.page_name, p.id, pos.position_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var pos model.Position
		var page model.Page
		if err := rows.Scan(
			&pos.ID, &pos.PageID, &pos.Number,
			&page.ID, &page.Name, &page.IsHomePage,
			&page.CreationDate, &page.ModificationDate,
			&page.IsPublished, &page.UserID,
		); err != nil {
			return nil, err
		}
		pos.Page = &page
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

// GetPosition returns a position with its owning page.
func (q *Queries) GetPosition(ctx context.Context, id int64) (model.Position, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT pos.id, pos.id_page, pos.position_number, `+prefixedPageColumns("p")+`
		 FROM positions pos
		 JOIN pages p ON p.id = pos.id_page
		 WHERE pos.id = ?`, id)

	var pos model.Position
	var page model.Page
	err := row.Scan(
		&pos.ID, &pos.PageID, &pos.Number,
		&page.ID, &page.Name, &page.IsHomePage,
		&page.CreationDate, &page.ModificationDate,
		&page.IsPublished, &page.UserID,
	)
	if err != nil {
		return model.Position{}, err
	}
	pos.Page = &page
	return pos, nil
}

func prefixedPageColumns(alias string) string {
	return alias + ".id, " + alias + ".page_name, " + alias + ".is_home_page, " +
		alias + ".creation_date, " + alias + ".modification_date, " +
		alias + ".is_published, " + alias + ".id_user"
}
