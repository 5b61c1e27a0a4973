package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/util"
)

const navigationSelect = `
SELECT n.id, n.nav_name, n.creation_date, n.modification_date, n.is_published,
       n.id_page, n.id_user, n.id_position,
       p.id, p.page_name, p.is_home_page, p.creation_date, p.modification_date, p.is_published, p.id_user
FROM navigations n
JOIN pages p ON p.id = n.id_page`

func scanNavigation(row interface{ Scan(...any) error }) (model.Navigation, error) {
	var (
		n          model.Navigation
		positionID sql.NullInt64
		page       model.Page
	)

	err := row.Scan(
		&n.ID, &n.Name, &n.CreationDate, &n.ModificationDate, &n.IsPublished,
		&n.PageID, &n.UserID, &positionID,
		&page.ID, &page.Name, &page.IsHomePage,
		&page.CreationDate, &page.ModificationDate,
		&page.IsPublished, &page.UserID,
	)
	if err != nil {
		return model.Navigation{}, err
	}

	n.PositionID = positionID.Int64
	n.Page = &page
	return n, nil
}

func collectNavigations(rows *sql.Rows) ([]model.Navigation, error) {
	defer rows.Close()

	var navs []model.Navigation
	for rows.Next() {
		n, err := scanNavigation(rows)
		if err != nil {
			return nil, err
		}
		navs = append(navs, n)
	}
	return navs, rows.Err()
}

// ListNavigations returns all navigation entries with their target page.
func (q *Queries) ListNavigations(ctx context.Context) ([]model.Navigation, error) {
	rows, err := q.db.QueryContext(ctx, navigationSelect+` ORDER BY n.nav_name, n.id`)
	if err != nil {
		return nil, err
	}
	return collectNavigations(rows)
}

// GetNavigation returns a single navigation entry by ID.
func (q *Queries) GetNavigation(ctx context.Context, id int64) (model.Navigation, error) {
	row := q.db.QueryRowContext(ctx, navigationSelect+` WHERE n.id = ?`, id)
	return scanNavigation(row)
}

// CountNavigations returns the total number of navigation entries.
func (q *Queries) CountNavigations(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM navigations`).Scan(&n)
	return n, err
}

// CreateNavigationParams holds the fields for a new navigation entry.
type CreateNavigationParams struct {
	Name        string
	IsPublished bool
	PageID      int64
	UserID      int64
	PositionID  int64
}

// CreateNavigation inserts a navigation entry pointing at a page.
func (q *Queries) CreateNavigation(ctx context.Context, arg CreateNavigationParams) (model.Navigation, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO navigations
		   (nav_name, creation_date, modification_date, is_published, id_page, id_user, id_position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, now, now, arg.IsPublished, arg.PageID, arg.UserID, util.NullInt64FromID(arg.PositionID))
	if err != nil {
		return model.Navigation{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Navigation{}, err
	}
	return q.GetNavigation(ctx, id)
}

// UpdateNavigationParams holds the fields for a navigation update.
type UpdateNavigationParams struct {
	ID          int64
	Name        string
	IsPublished bool
	PageID      int64
	UserID      int64
	PositionID  int64
}

// UpdateNavigation persists all navigation fields and refreshes the
// modification date.
func (q *Queries) UpdateNavigation(ctx context.Context, arg UpdateNavigationParams) (model.Navigation, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE navigations
		 SET nav_name = ?, modification_date = ?, is_published = ?, id_page = ?, id_user = ?, id_position = ?
		 WHERE id = ?`,
		arg.Name, time.Now().UTC(), arg.IsPublished, arg.PageID, arg.UserID,
		util.NullInt64FromID(arg.PositionID), arg.ID)
	if err != nil {
		return model.Navigation{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Navigation{}, err
	}
	if affected == 0 {
		return model.Navigation{}, ErrNotFound
	}
	return q.GetNavigation(ctx, arg.ID)
}

// DeleteNavigation removes a navigation entry.
func (q *Queries) DeleteNavigation(ctx context.Context, id int64) error {
	return q.deleteOne(ctx, `DELETE FROM navigations WHERE id = ?`, id)
}
