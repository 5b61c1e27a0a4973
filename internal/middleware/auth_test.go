package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/easycms-go/internal/model"
)

// requestWithUser returns a request with the given user stored in context,
// mirroring what LoadUser does.
func requestWithUser(user model.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	ctx := context.WithValue(req.Context(), ContextKeyUser, user)
	return req.WithContext(ctx)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user := GetUser(req); user != nil {
		t.Errorf("GetUser = %v, want nil without context value", user)
	}

	want := model.User{ID: 7, Login: "alice", RightID: model.RightEditor}
	got := GetUser(requestWithUser(want))
	if got == nil {
		t.Fatal("GetUser = nil, want user")
	}
	if got.ID != want.ID || got.Login != want.Login {
		t.Errorf("GetUser = %+v, want %+v", got, want)
	}
}

func TestGetUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetUserID(req); id != 0 {
		t.Errorf("GetUserID = %d, want 0 without user", id)
	}

	req = requestWithUser(model.User{ID: 42, Login: "alice"})
	if id := GetUserID(req); id != 42 {
		t.Errorf("GetUserID = %d, want 42", id)
	}
}

func TestRequireRightRedirectsAnonymous(t *testing.T) {
	var called bool
	handler := RequireRight(model.RightEditor)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("handler should not be called for anonymous user")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireRightHierarchy(t *testing.T) {
	tests := []struct {
		name     string
		minRight int64
		userRight int64
		allowed  bool
	}{
		{"editor allowed on editor routes", model.RightEditor, model.RightEditor, true},
		{"admin allowed on editor routes", model.RightEditor, model.RightAdmin, true},
		{"admin allowed on admin routes", model.RightAdmin, model.RightAdmin, true},
		{"editor denied on admin routes", model.RightAdmin, model.RightEditor, false},
		{"unknown right denied", model.RightEditor, 99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := RequireRight(tt.minRight)(okHandler(&called))

			req := requestWithUser(model.User{ID: 1, Login: "alice", RightID: tt.userRight})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if called != tt.allowed {
				t.Errorf("handler called = %v, want %v", called, tt.allowed)
			}
			if tt.allowed {
				if rec.Code != http.StatusOK {
					t.Errorf("status = %d, want 200", rec.Code)
				}
			} else {
				if rec.Code != http.StatusSeeOther {
					t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
				}
				if loc := rec.Header().Get("Location"); loc != "/" {
					t.Errorf("Location = %q, want /", loc)
				}
			}
		})
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/pages/3", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "/admin/pages/3" {
		t.Errorf("GetRequestPath = %q, want /admin/pages/3", got)
	}
}

func TestStripTrailingSlash(t *testing.T) {
	var called bool
	handler := StripTrailingSlash(okHandler(&called))

	// Root path passes through
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Error("root path should pass through")
	}

	// Trailing slash redirects, preserving the query string
	called = false
	req = httptest.NewRequest(http.MethodGet, "/admin/pages/?page=2", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if called {
		t.Error("trailing slash path should redirect, not pass through")
	}
	if rec.Code != http.StatusMovedPermanently {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMovedPermanently)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/pages?page=2" {
		t.Errorf("Location = %q, want /admin/pages?page=2", loc)
	}
}
