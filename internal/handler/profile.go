// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/olegiv/easycms-go/internal/auth"
	"github.com/olegiv/easycms-go/internal/middleware"
	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/render"
	"github.com/olegiv/easycms-go/internal/service"
	"github.com/olegiv/easycms-go/internal/store"
)

// ProfileHandler lets a signed-in user view their account and change
// their own password.
type ProfileHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	events   *service.EventService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(db *sql.DB, renderer *render.Renderer, events *service.EventService) *ProfileHandler {
	return &ProfileHandler{
		queries:  store.New(db),
		renderer: renderer,
		events:   events,
	}
}

// ProfileData holds data for the profile template.
type ProfileData struct {
	Errors map[string]string
}

// Show handles GET /admin/profile - displays the current user's account.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if err := h.renderer.Render(w, r, "admin/profile", render.TemplateData{
		Title: "Profile",
		User:  user,
		Data:  ProfileData{Errors: make(map[string]string)},
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// ChangePassword handles POST /admin/profile/password - changes the
// current user's password after verifying the current one.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}

	current := r.FormValue("current_password")
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")

	errs := make(map[string]string)

	ok, err := auth.CheckPassword(current, user.PasswordHash)
	if err != nil {
		slog.Error("failed to verify password", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectProfile, "Error changing password")
		return
	}
	if !ok {
		errs["current_password"] = "Current password is incorrect"
	}

	if err := auth.ValidatePassword(password, confirm); err != nil {
		errs["password"] = err.Error()
	}

	if len(errs) > 0 {
		if err := h.renderer.Render(w, r, "admin/profile", render.TemplateData{
			Title: "Profile",
			User:  user,
			Data:  ProfileData{Errors: errs},
		}); err != nil {
			logAndInternalError(w, "render error", "error", err)
		}
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectProfile, "Error changing password")
		return
	}

	if _, err := h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
		ID:           user.ID,
		Login:        user.Login,
		PasswordHash: hash,
		RightID:      user.RightID,
	}); err != nil {
		slog.Error("failed to update password", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, redirectProfile, "Error changing password")
		return
	}

	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "password changed", &user.ID, nil)
	flashSuccess(w, r, h.renderer, redirectProfile, "Password changed")
}
