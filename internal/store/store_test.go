package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/olegiv/easycms-go/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "easycms-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	ctx := context.Background()
	if err := seedRights(ctx, db); err != nil {
		t.Fatalf("seeding rights: %v", err)
	}
	if err := seedContentTypes(ctx, db); err != nil {
		t.Fatalf("seeding content types: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	return db
}

// createTestUser inserts a user for foreign key references.
func createTestUser(t *testing.T, q *Queries, login string) model.User {
	t.Helper()

	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Login:        login,
		PasswordHash: "not-a-real-hash",
		RightID:      model.RightEditor,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func textContentTypeID(t *testing.T, q *Queries) int64 {
	t.Helper()

	types, err := q.ListContentTypes(context.Background())
	if err != nil {
		t.Fatalf("ListContentTypes: %v", err)
	}
	for _, ct := range types {
		if ct.Name == "text" {
			return ct.ID
		}
	}
	t.Fatal("text content type not seeded")
	return 0
}

func TestCreateUser(t *testing.T) {
	db := testDB(t)
	q := New(db)

	user := createTestUser(t, q, "alice")

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Login != "alice" {
		t.Errorf("Login = %q, want %q", user.Login, "alice")
	}
	if user.RightName != "editor" {
		t.Errorf("RightName = %q, want %q", user.RightName, "editor")
	}
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	db := testDB(t)
	q := New(db)

	_, err := q.GetUserByLogin(context.Background(), "nobody")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestCreatePage_ProvisionsPositions(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")

	page, err := q.CreatePage(ctx, CreatePageParams{
		Name:   "About",
		UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if page.ID == 0 {
		t.Fatal("page.ID should not be 0")
	}
	if page.CreationDate.IsZero() {
		t.Error("CreationDate should be set")
	}

	positions, err := q.ListPositionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPositionsByPage: %v", err)
	}
	if len(positions) != model.PositionsPerPage {
		t.Fatalf("got %d positions, want %d", len(positions), model.PositionsPerPage)
	}
	for i, pos := range positions {
		want := int64(i + 1)
		if pos.Number != want {
			t.Errorf("positions[%d].Number = %d, want %d", i, pos.Number, want)
		}
		if pos.PageID != page.ID {
			t.Errorf("positions[%d].PageID = %d, want %d", i, pos.PageID, page.ID)
		}
	}
}

func TestCreatePage_HomePageUniqueness(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")

	first, err := q.CreatePage(ctx, CreatePageParams{
		Name:       "First Home",
		IsHomePage: true,
		UserID:     user.ID,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	second, err := q.CreatePage(ctx, CreatePageParams{
		Name:       "Second Home",
		IsHomePage: true,
		UserID:     user.ID,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if !second.IsHomePage {
		t.Error("second page should be the home page")
	}

	first, err = q.GetPage(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if first.IsHomePage {
		t.Error("first page should no longer be the home page")
	}
}

func TestUpdatePage_HomePageUniqueness(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")

	home, err := q.CreatePage(ctx, CreatePageParams{
		Name:       "Home",
		IsHomePage: true,
		UserID:     user.ID,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	other, err := q.CreatePage(ctx, CreatePageParams{
		Name:   "Other",
		UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	updated, err := q.UpdatePage(ctx, UpdatePageParams{
		ID:         other.ID,
		Name:       "Other",
		IsHomePage: true,
		UserID:     user.ID,
	})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if !updated.IsHomePage {
		t.Error("updated page should be the home page")
	}

	home, err = q.GetPage(ctx, home.ID)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if home.IsHomePage {
		t.Error("previous home page should have lost the flag")
	}
}

func TestUpdatePage_NotFound(t *testing.T) {
	db := testDB(t)
	q := New(db)
	user := createTestUser(t, q, "editor")

	_, err := q.UpdatePage(context.Background(), UpdatePageParams{
		ID:     9999,
		Name:   "Ghost",
		UserID: user.ID,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePage_NotFound(t *testing.T) {
	db := testDB(t)
	q := New(db)

	err := q.DeletePage(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeletePage_Cascades(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")
	typeID := textContentTypeID(t, q)

	page, err := q.CreatePage(ctx, CreatePageParams{Name: "Doomed", UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	positions, err := q.ListPositionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPositionsByPage: %v", err)
	}

	content, err := q.CreateContent(ctx, CreateContentParams{
		Name:          "Block",
		UserID:        user.ID,
		PositionID:    positions[0].ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	nav, err := q.CreateNavigation(ctx, CreateNavigationParams{
		Name:   "Link",
		PageID: page.ID,
		UserID: user.ID,
	})
	if err != nil {
		t.Fatalf("CreateNavigation: %v", err)
	}

	if err := q.DeletePage(ctx, page.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}

	// Positions go with the page
	remaining, err := q.ListPositionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPositionsByPage: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("got %d positions after delete, want 0", len(remaining))
	}

	// Navigations go with the page
	_, err = q.GetNavigation(ctx, nav.ID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetNavigation err = %v, want sql.ErrNoRows", err)
	}

	// Content survives, unassigned
	content, err = q.GetContent(ctx, content.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if content.PositionID != 0 {
		t.Errorf("content.PositionID = %d, want 0 after page delete", content.PositionID)
	}
}

func TestCreateContent_VacatesPosition(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")
	typeID := textContentTypeID(t, q)

	page, err := q.CreatePage(ctx, CreatePageParams{Name: "Home", UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	positions, err := q.ListPositionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPositionsByPage: %v", err)
	}
	pos := positions[0]

	first, err := q.CreateContent(ctx, CreateContentParams{
		Name:          "First",
		UserID:        user.ID,
		PositionID:    pos.ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	second, err := q.CreateContent(ctx, CreateContentParams{
		Name:          "Second",
		UserID:        user.ID,
		PositionID:    pos.ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if second.PositionID != pos.ID {
		t.Errorf("second.PositionID = %d, want %d", second.PositionID, pos.ID)
	}

	first, err = q.GetContent(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if first.PositionID != 0 {
		t.Errorf("first.PositionID = %d, want 0 after displacement", first.PositionID)
	}
}

func TestUpdateContent_KeepsOwnPosition(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")
	typeID := textContentTypeID(t, q)

	page, err := q.CreatePage(ctx, CreatePageParams{Name: "Home", UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	positions, err := q.ListPositionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPositionsByPage: %v", err)
	}

	content, err := q.CreateContent(ctx, CreateContentParams{
		Name:          "Block",
		UserID:        user.ID,
		PositionID:    positions[0].ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	// Saving without moving must not unassign the block from itself
	updated, err := q.UpdateContent(ctx, UpdateContentParams{
		ID:            content.ID,
		Name:          "Block renamed",
		UserID:        user.ID,
		PositionID:    positions[0].ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if updated.PositionID != positions[0].ID {
		t.Errorf("PositionID = %d, want %d", updated.PositionID, positions[0].ID)
	}
	if updated.Name != "Block renamed" {
		t.Errorf("Name = %q, want %q", updated.Name, "Block renamed")
	}
}

func TestUpdateContent_MoveLeavesOldPositionEmpty(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")
	typeID := textContentTypeID(t, q)

	page, err := q.CreatePage(ctx, CreatePageParams{Name: "Home", UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	positions, err := q.ListPositionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPositionsByPage: %v", err)
	}

	occupant, err := q.CreateContent(ctx, CreateContentParams{
		Name:          "Occupant",
		UserID:        user.ID,
		PositionID:    positions[1].ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	mover, err := q.CreateContent(ctx, CreateContentParams{
		Name:          "Mover",
		UserID:        user.ID,
		PositionID:    positions[0].ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	// Move onto the occupied position
	mover, err = q.UpdateContent(ctx, UpdateContentParams{
		ID:            mover.ID,
		Name:          "Mover",
		UserID:        user.ID,
		PositionID:    positions[1].ID,
		ContentTypeID: typeID,
	})
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if mover.PositionID != positions[1].ID {
		t.Errorf("mover.PositionID = %d, want %d", mover.PositionID, positions[1].ID)
	}

	occupant, err = q.GetContent(ctx, occupant.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if occupant.PositionID != 0 {
		t.Errorf("occupant.PositionID = %d, want 0 after displacement", occupant.PositionID)
	}

	// The old position is free again
	contents, err := q.ListContents(ctx)
	if err != nil {
		t.Fatalf("ListContents: %v", err)
	}
	for _, c := range contents {
		if c.PositionID == positions[0].ID {
			t.Errorf("position %d still occupied by content %d", positions[0].ID, c.ID)
		}
	}
}

func TestGetPublishedPage_FiltersDrafts(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")

	draft, err := q.CreatePage(ctx, CreatePageParams{Name: "Draft", UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	_, err = q.GetPublishedPage(ctx, draft.ID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows for unpublished page", err)
	}

	published, err := q.CreatePage(ctx, CreatePageParams{Name: "Live", IsPublished: true, UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	got, err := q.GetPublishedPage(ctx, published.ID)
	if err != nil {
		t.Fatalf("GetPublishedPage: %v", err)
	}
	if got.Name != "Live" {
		t.Errorf("Name = %q, want %q", got.Name, "Live")
	}
}

func TestGetPublishedHomePage(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")

	_, err := q.GetPublishedHomePage(ctx)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows with no home page", err)
	}

	// A draft home page is still not served
	if _, err := q.CreatePage(ctx, CreatePageParams{Name: "Hidden Home", IsHomePage: true, UserID: user.ID}); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	_, err = q.GetPublishedHomePage(ctx)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows for draft home page", err)
	}

	if _, err := q.CreatePage(ctx, CreatePageParams{Name: "Home", IsHomePage: true, IsPublished: true, UserID: user.ID}); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	home, err := q.GetPublishedHomePage(ctx)
	if err != nil {
		t.Fatalf("GetPublishedHomePage: %v", err)
	}
	if home.Name != "Home" {
		t.Errorf("Name = %q, want %q", home.Name, "Home")
	}
}

func TestListPublishedContentsByPage(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")
	typeID := textContentTypeID(t, q)

	page, err := q.CreatePage(ctx, CreatePageParams{Name: "Home", IsPublished: true, UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	positions, err := q.ListPositionsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPositionsByPage: %v", err)
	}

	// Published on position 3, published on position 1, draft on position 2
	if _, err := q.CreateContent(ctx, CreateContentParams{
		Name: "Third", IsPublished: true, UserID: user.ID,
		PositionID: positions[2].ID, ContentTypeID: typeID,
	}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if _, err := q.CreateContent(ctx, CreateContentParams{
		Name: "First", IsPublished: true, UserID: user.ID,
		PositionID: positions[0].ID, ContentTypeID: typeID,
	}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if _, err := q.CreateContent(ctx, CreateContentParams{
		Name: "Draft", UserID: user.ID,
		PositionID: positions[1].ID, ContentTypeID: typeID,
	}); err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	contents, err := q.ListPublishedContentsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListPublishedContentsByPage: %v", err)
	}
	if len(contents) != 2 {
		t.Fatalf("got %d contents, want 2", len(contents))
	}
	for _, c := range contents {
		if !c.IsPublished {
			t.Errorf("content %q is not published", c.Name)
		}
		if c.Position == nil {
			t.Errorf("content %q has no joined position", c.Name)
		}
	}
}

func TestNavigationRoundTrip(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")

	page, err := q.CreatePage(ctx, CreatePageParams{Name: "Target", UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	nav, err := q.CreateNavigation(ctx, CreateNavigationParams{
		Name:        "Main link",
		IsPublished: true,
		PageID:      page.ID,
		UserID:      user.ID,
		PositionID:  2,
	})
	if err != nil {
		t.Fatalf("CreateNavigation: %v", err)
	}
	if nav.Page == nil || nav.Page.Name != "Target" {
		t.Error("navigation should carry its joined page")
	}

	updated, err := q.UpdateNavigation(ctx, UpdateNavigationParams{
		ID:          nav.ID,
		Name:        "Renamed link",
		IsPublished: false,
		PageID:      page.ID,
		UserID:      user.ID,
		PositionID:  1,
	})
	if err != nil {
		t.Fatalf("UpdateNavigation: %v", err)
	}
	if updated.Name != "Renamed link" {
		t.Errorf("Name = %q, want %q", updated.Name, "Renamed link")
	}
	if updated.IsPublished {
		t.Error("IsPublished should be false after update")
	}

	if err := q.DeleteNavigation(ctx, nav.ID); err != nil {
		t.Fatalf("DeleteNavigation: %v", err)
	}
	if err := q.DeleteNavigation(ctx, nav.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListPublishedNavigations_Ordering(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	user := createTestUser(t, q, "editor")

	page, err := q.CreatePage(ctx, CreatePageParams{Name: "Target", UserID: user.ID})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	mk := func(name string, published bool, position int64) {
		t.Helper()
		if _, err := q.CreateNavigation(ctx, CreateNavigationParams{
			Name: name, IsPublished: published, PageID: page.ID,
			UserID: user.ID, PositionID: position,
		}); err != nil {
			t.Fatalf("CreateNavigation: %v", err)
		}
	}

	mk("second", true, 2)
	mk("first", true, 1)
	mk("hidden", false, 3)
	mk("unordered", true, 0)

	navs, err := q.ListPublishedNavigations(ctx)
	if err != nil {
		t.Fatalf("ListPublishedNavigations: %v", err)
	}
	if len(navs) != 3 {
		t.Fatalf("got %d navigations, want 3", len(navs))
	}

	want := []string{"first", "second", "unordered"}
	for i, name := range want {
		if navs[i].Name != name {
			t.Errorf("navs[%d].Name = %q, want %q", i, navs[i].Name, name)
		}
	}
}

func TestEventRoundTrip(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	ev, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelWarning,
		Category:  model.EventCategoryAuth,
		Message:   "failed login",
		Metadata:  `{"login":"alice"}`,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if ev.ID == 0 {
		t.Error("ev.ID should not be 0")
	}

	events, err := q.ListEvents(ctx, ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Message != "failed login" {
		t.Errorf("Message = %q, want %q", events[0].Message, "failed login")
	}

	count, err := q.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if count != 1 {
		t.Errorf("CountEvents = %d, want 1", count)
	}
}
