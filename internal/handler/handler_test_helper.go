package handler

import (
	"database/sql"
	"io/fs"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "modernc.org/sqlite"

	"github.com/olegiv/easycms-go/internal/auth"
	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/render"
	"github.com/olegiv/easycms-go/web"
)

// testDB creates an in-memory SQLite database with the tables the auth
// flow touches. The pool is pinned to one connection because every
// connection to :memory: gets its own database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE rights (
			id INTEGER PRIMARY KEY,
			right_name TEXT NOT NULL UNIQUE
		);
		INSERT INTO rights (id, right_name) VALUES (1, 'administrator'), (2, 'editor');

		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			login TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			id_right INTEGER NOT NULL REFERENCES rights (id)
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			category TEXT NOT NULL,
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager backed by the default
// in-memory store.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer creates a renderer over the embedded templates.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
	})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}

	return renderer
}

// createTestUser inserts a user with a real password hash.
func createTestUser(t *testing.T, db *sql.DB, login, password string, rightID int64) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	res, err := db.Exec(`INSERT INTO users (login, password, id_right) VALUES (?, ?, ?)`,
		login, hash, rightID)
	if err != nil {
		t.Fatalf("inserting user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}

	return model.User{ID: id, Login: login, PasswordHash: hash, RightID: rightID}
}
