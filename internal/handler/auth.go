// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/easycms-go/internal/auth"
	"github.com/olegiv/easycms-go/internal/middleware"
	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/render"
	"github.com/olegiv/easycms-go/internal/service"
	"github.com/olegiv/easycms-go/internal/store"
)

// SessionKeyUserID is the session key for storing the authenticated user ID.
const SessionKeyUserID = "user_id"

// Login failure messages. Distinct on purpose: the original behavior
// tells an unknown login apart from a wrong password.
const (
	msgLoginIncorrect    = "login incorrect"
	msgPasswordIncorrect = "password incorrect"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
	}
}

// LoginFormData holds data for the login template.
type LoginFormData struct {
	Login string
}

// LoginForm renders the login page.
// Already-authenticated users are redirected: admin/editor to the
// dashboard, everyone else to the public site.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID); userID > 0 {
		user, err := h.queries.GetUser(r.Context(), userID)
		if err == nil {
			if user.RightID == model.RightAdmin || user.RightID == model.RightEditor {
				http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
			return
		}
	}

	// Redisplay the last attempted login after a failure
	data := LoginFormData{
		Login: h.sessionManager.PopString(r.Context(), "attempted_login"),
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Log In",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	login := strings.TrimSpace(r.FormValue("login"))
	password := r.FormValue("password")

	if login == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Login and password are required")
		return
	}

	// Check if account is locked
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(login); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login attempt on locked account", nil, map[string]any{"login": login})
			flashError(w, r, h.renderer, redirectLogin,
				"Account temporarily locked. Try again in "+formatDuration(remaining))
			return
		}
	}

	user, err := h.queries.GetUserByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "login", login)
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login failed: user not found", nil, map[string]any{"login": login})
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Record failed attempt even for non-existent users to slow enumeration
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(login); locked {
				flashError(w, r, h.renderer, redirectLogin,
					"Too many failed attempts. Account locked for "+formatDuration(lockDuration))
				return
			}
		}
		h.sessionManager.Put(r.Context(), "attempted_login", login)
		flashError(w, r, h.renderer, redirectLogin, msgLoginIncorrect)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, redirectLogin, msgPasswordIncorrect)
		return
	}

	if !valid {
		slog.Debug("invalid password attempt", "login", login)
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Login failed: invalid password", &user.ID, map[string]any{"login": login})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(login); locked {
				_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
					"Account locked due to failed attempts", &user.ID,
					map[string]any{"login": login, "duration": lockDuration.String()})
				flashError(w, r, h.renderer, redirectLogin,
					"Too many failed attempts. Account locked for "+formatDuration(lockDuration))
				return
			}
		}
		// Remember the attempted login for redisplay
		h.sessionManager.Put(r.Context(), "attempted_login", login)
		flashError(w, r, h.renderer, redirectLogin, msgPasswordIncorrect)
		return
	}

	// Clear failed attempts on successful login
	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(login)
	}

	// Re-hash password if it uses outdated parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if _, err := h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
				ID:           user.ID,
				Login:        user.Login,
				PasswordHash: newHash,
				RightID:      user.RightID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), SessionKeyUserID, user.ID)
	h.sessionManager.Put(r.Context(), middleware.SessionKeyLogin, user.Login)

	slog.Info("user logged in", "user_id", user.ID, "login", user.Login)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User logged in", &user.ID, map[string]any{"login": user.Login})

	h.renderer.SetFlash(r, "Welcome back, "+user.Login, "success")

	if user.IsAdmin() {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
	} else {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
	}
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), SessionKeyUserID)

	// Log the event before destroying the session
	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
			"User logged out", &userID, nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)

	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been logged out", "info")
}

// RegisterFormData holds data for the registration template.
type RegisterFormData struct {
	Errors     map[string]string
	FormValues map[string]string
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	data := RegisterFormData{
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	}

	if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{
		Title: "Register",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Register handles the registration form submission. New accounts get
// the editor right; the password policy is enforced before hashing.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	login := strings.TrimSpace(r.FormValue("login"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	formValues := map[string]string{"login": login}
	errs := make(map[string]string)

	if login == "" {
		errs["login"] = "Login is required"
	} else {
		_, err := h.queries.GetUserByLogin(r.Context(), login)
		switch {
		case err == nil:
			errs["login"] = "This login is already taken"
		case !errors.Is(err, sql.ErrNoRows):
			slog.Error("database error checking login", "error", err)
			errs["login"] = "Error checking login"
		}
	}

	if err := auth.ValidatePassword(password, confirm); err != nil {
		errs["password"] = err.Error()
	}

	if len(errs) > 0 {
		data := RegisterFormData{
			Errors:     errs,
			FormValues: formValues,
		}
		if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{
			Title: "Register",
			Data:  data,
		}); err != nil {
			logAndInternalError(w, "render error", "error", err)
		}
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		flashError(w, r, h.renderer, redirectRegister, "Error creating account")
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Login:        login,
		PasswordHash: passwordHash,
		RightID:      model.RightEditor,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		flashError(w, r, h.renderer, redirectRegister, "Error creating account")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "login", user.Login)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User registered", &user.ID, map[string]any{"login": user.Login})

	flashSuccess(w, r, h.renderer, redirectLogin, "Account created, you can now log in")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
