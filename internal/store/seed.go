package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/easycms-go/internal/auth"
	"github.com/olegiv/easycms-go/internal/model"
)

// Default admin credentials
const (
	DefaultAdminLogin    = "admin"
	DefaultAdminPassword = "Changeme1!"
)

// Seed creates initial data: the fixed rights enumeration, the content
// type lookup rows, and a default administrator account.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	if err := seedRights(ctx, db); err != nil {
		return err
	}
	if err := seedContentTypes(ctx, db); err != nil {
		return err
	}

	// Check if admin user already exists
	_, err := queries.GetUserByLogin(ctx, DefaultAdminLogin)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Login:        DefaultAdminLogin,
		PasswordHash: passwordHash,
		RightID:      model.RightAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"login", user.Login,
		"password", DefaultAdminPassword,
	)

	return nil
}

func seedRights(ctx context.Context, db *sql.DB) error {
	rights := map[int64]string{
		model.RightAdmin:  "administrator",
		model.RightEditor: "editor",
	}
	for id, name := range rights {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO rights (id, right_name) VALUES (?, ?)
			 ON CONFLICT (id) DO NOTHING`, id, name); err != nil {
			return fmt.Errorf("seeding right %q: %w", name, err)
		}
	}
	return nil
}

func seedContentTypes(ctx context.Context, db *sql.DB) error {
	types := []struct {
		name, description string
	}{
		{"text", "Plain text block"},
		{"image", "Uploaded image, the description holds the stored filename"},
	}
	for _, ct := range types {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO content_types (content_type_name, content_type_description)
			 VALUES (?, ?) ON CONFLICT (content_type_name) DO NOTHING`,
			ct.name, ct.description); err != nil {
			return fmt.Errorf("seeding content type %q: %w", ct.name, err)
		}
	}
	return nil
}
