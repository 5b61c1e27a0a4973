package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/util"
)

// contentSelect joins each content row with its optional position,
// the position's owning page, and its content type, so a single read
// rehydrates the full object graph.
const contentSelect = `
SELECT c.id, c.content_name, c.content_description,
       c.creation_date, c.modification_date, c.is_published,
       c.id_user, c.id_position, c.id_content_type,
       pos.id, pos.id_page, pos.position_number,
       p.id, p.page_name, p.is_home_page, p.creation_date, p.modification_date, p.is_published, p.id_user,
       ct.id, ct.content_type_name, ct.content_type_description
FROM contents c
LEFT JOIN positions pos ON pos.id = c.id_position
LEFT JOIN pages p ON p.id = pos.id_page
JOIN content_types ct ON ct.id = c.id_content_type`

func scanContent(row interface{ Scan(...any) error }) (model.Content, error) {
	var (
		c          model.Content
		positionID sql.NullInt64

		posID, posPageID, posNumber sql.NullInt64

		pageID, pageUserID         sql.NullInt64
		pageName                   sql.NullString
		pageHome, pagePublished    sql.NullBool
		pageCreated, pageModified  sql.NullTime

		ct model.ContentType
	)

	err := row.Scan(
		&c.ID, &c.Name, &c.Description,
		&c.CreationDate, &c.ModificationDate, &c.IsPublished,
		&c.UserID, &positionID, &c.ContentTypeID,
		&posID, &posPageID, &posNumber,
		&pageID, &pageName, &pageHome, &pageCreated, &pageModified, &pagePublished, &pageUserID,
		&ct.ID, &ct.Name, &ct.Description,
	)
	if err != nil {
		return model.Content{}, err
	}

	c.PositionID = positionID.Int64
	c.ContentType = &ct

	if posID.Valid {
		pos := &model.Position{
			ID:     posID.Int64,
			PageID: posPageID.Int64,
			Number: posNumber.Int64,
		}
		if pageID.Valid {
			pos.Page = &model.Page{
				ID:               pageID.Int64,
				Name:             pageName.String,
				IsHomePage:       pageHome.Bool,
				CreationDate:     pageCreated.Time,
				ModificationDate: pageModified.Time,
				IsPublished:      pagePublished.Bool,
				UserID:           pageUserID.Int64,
			}
		}
		c.Position = pos
	}

	return c, nil
}

func collectContents(rows *sql.Rows) ([]model.Content, error) {
	defer rows.Close()

	var contents []model.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// ListContents returns all content blocks with joined associations.
func (q *Queries) ListContents(ctx context.Context) ([]model.Content, error) {
	rows, err := q.db.QueryContext(ctx, contentSelect+` ORDER BY c.content_name, c.id`)
	if err != nil {
		return nil, err
	}
	return collectContents(rows)
}

// GetContent returns a single content block by ID with its joined
// position, page, and content type.
func (q *Queries) GetContent(ctx context.Context, id int64) (model.Content, error) {
	row := q.db.QueryRowContext(ctx, contentSelect+` WHERE c.id = ?`, id)
	return scanContent(row)
}

// CountContents returns the total number of content blocks.
func (q *Queries) CountContents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents`).Scan(&n)
	return n, err
}

// CreateContentParams holds the fields for a new content block.
// PositionID zero means unassigned.
type CreateContentParams struct {
	Name          string
	Description   string
	IsPublished   bool
	UserID        int64
	PositionID    int64
	ContentTypeID int64
}

// CreateContent inserts a content block. When a position is given, any
// other content holding that position is unassigned first, inside the
// same transaction, so a position never carries two content blocks.
func (q *Queries) CreateContent(ctx context.Context, arg CreateContentParams) (model.Content, error) {
	var content model.Content
	err := q.execTx(ctx, func(tx *Queries) error {
		now := time.Now().UTC()

		if arg.PositionID != 0 {
			if err := tx.vacatePosition(ctx, arg.PositionID, 0); err != nil {
				return fmt.Errorf("vacating position: %w", err)
			}
		}

		res, err := tx.db.ExecContext(ctx,
			`INSERT INTO contents
			   (content_name, content_description, creation_date, modification_date,
			    is_published, id_user, id_position, id_content_type)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			arg.Name, arg.Description, now, now,
			arg.IsPublished, arg.UserID, util.NullInt64FromID(arg.PositionID), arg.ContentTypeID)
		if err != nil {
			return fmt.Errorf("inserting content: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		content, err = tx.GetContent(ctx, id)
		return err
	})
	return content, err
}

// UpdateContentParams holds the fields for a content update.
type UpdateContentParams struct {
	ID            int64
	Name          string
	Description   string
	IsPublished   bool
	UserID        int64
	PositionID    int64
	ContentTypeID int64
}

// UpdateContent persists all content fields, vacating the target
// position from any other content row in the same transaction.
func (q *Queries) UpdateContent(ctx context.Context, arg UpdateContentParams) (model.Content, error) {
	var content model.Content
	err := q.execTx(ctx, func(tx *Queries) error {
		if arg.PositionID != 0 {
			if err := tx.vacatePosition(ctx, arg.PositionID, arg.ID); err != nil {
				return fmt.Errorf("vacating position: %w", err)
			}
		}

		res, err := tx.db.ExecContext(ctx,
			`UPDATE contents
			 SET content_name = ?, content_description = ?, modification_date = ?,
			     is_published = ?, id_user = ?, id_position = ?, id_content_type = ?
			 WHERE id = ?`,
			arg.Name, arg.Description, time.Now().UTC(),
			arg.IsPublished, arg.UserID, util.NullInt64FromID(arg.PositionID), arg.ContentTypeID, arg.ID)
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

		content, err = tx.GetContent(ctx, arg.ID)
		return err
	})
	return content, err
}

// vacatePosition unassigns the position from every content row other
// than exceptID.
func (q *Queries) vacatePosition(ctx context.Context, positionID, exceptID int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE contents SET id_position = NULL WHERE id_position = ? AND id != ?`,
		positionID, exceptID)
	return err
}

// DeleteContent removes a content block.
func (q *Queries) DeleteContent(ctx context.Context, id int64) error {
	return q.deleteOne(ctx, `DELETE FROM contents WHERE id = ?`, id)
}

// ListContentTypes returns all content types ordered by name.
func (q *Queries) ListContentTypes(ctx context.Context) ([]model.ContentType, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, content_type_name, content_type_description FROM content_types ORDER BY content_type_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []model.ContentType
	for rows.Next() {
		var ct model.ContentType
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Description); err != nil {
			return nil, err
		}
		types = append(types, ct)
	}
	return types, rows.Err()
}

// GetContentType returns a single content type by ID.
func (q *Queries) GetContentType(ctx context.Context, id int64) (model.ContentType, error) {
	var ct model.ContentType
	err := q.db.QueryRowContext(ctx,
		`SELECT id, content_type_name, content_type_description FROM content_types WHERE id = ?`, id).
		Scan(&ct.ID, &ct.Name, &ct.Description)
	return ct, err
}
