package store

import (
	"context"

	"github.com/olegiv/easycms-go/internal/model"
)

const userSelect = `
SELECT u.id, u.login, u.password, u.id_right, r.right_name
FROM users u
JOIN rights r ON r.id = u.id_right`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Login, &u.PasswordHash, &u.RightID, &u.RightName)
	return u, err
}

// ListUsers returns all users with their right name.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, userSelect+` ORDER BY u.login`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser returns a single user by ID.
func (q *Queries) GetUser(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, userSelect+` WHERE u.id = ?`, id))
}

// GetUserByLogin returns the user with the given login.
func (q *Queries) GetUserByLogin(ctx context.Context, login string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, userSelect+` WHERE u.login = ?`, login))
}

// CountUsers returns the total number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CreateUserParams holds the fields for a new user. PasswordHash must
// already be hashed; the store never sees plaintext passwords.
type CreateUserParams struct {
	Login        string
	PasswordHash string
	RightID      int64
}

// CreateUser inserts a user.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (login, password, id_right) VALUES (?, ?, ?)`,
		arg.Login, arg.PasswordHash, arg.RightID)
	if err != nil {
		return model.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUser(ctx, id)
}

// UpdateUserParams holds the fields for a user update.
type UpdateUserParams struct {
	ID           int64
	Login        string
	PasswordHash string
	RightID      int64
}

// UpdateUser persists all user fields.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE users SET login = ?, password = ?, id_right = ? WHERE id = ?`,
		arg.Login, arg.PasswordHash, arg.RightID, arg.ID)
	if err != nil {
		return model.User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.User{}, err
	}
	if affected == 0 {
		return model.User{}, ErrNotFound
	}
	return q.GetUser(ctx, arg.ID)
}

// DeleteUser removes a user.
func (q *Queries) DeleteUser(ctx context.Context, id int64) error {
	return q.deleteOne(ctx, `DELETE FROM users WHERE id = ?`, id)
}

// ListRights returns all rights ordered by ID.
func (q *Queries) ListRights(ctx context.Context) ([]model.Right, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, right_name FROM rights ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rights []model.Right
	for rows.Next() {
		var r model.Right
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		rights = append(rights, r)
	}
	return rights, rows.Err()
}

// GetRight returns a single right by ID.
func (q *Queries) GetRight(ctx context.Context, id int64) (model.Right, error) {
	var r model.Right
	err := q.db.QueryRowContext(ctx, `SELECT id, right_name FROM rights WHERE id = ?`, id).
		Scan(&r.ID, &r.Name)
	return r, err
}
