// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/easycms-go/internal/auth"
	"github.com/olegiv/easycms-go/internal/middleware"
	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/render"
	"github.com/olegiv/easycms-go/internal/store"
)

// UsersHandler handles admin CRUD routes for users. All routes are
// restricted to administrators.
type UsersHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, renderer *render.Renderer) *UsersHandler {
	return &UsersHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// UsersListData holds data for the users list template.
type UsersListData struct {
	Users      []model.User
	Pagination AdminPagination
}

// List handles GET /admin/users - displays the users list.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	page := parsePageParam(r)

	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	total := len(users)
	users = paginate(users, page, adminPerPage)

	data := UsersListData{
		Users:      users,
		Pagination: BuildAdminPagination(page, total, adminPerPage, redirectUsers, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/users_list", render.TemplateData{
		Title: "Users",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// UserFormData holds data for the user form template.
type UserFormData struct {
	User       *model.User
	Rights     []model.Right
	Errors     map[string]string
	FormValues map[string]string
	IsEdit     bool
}

// NewForm handles GET /admin/users/new - displays the new user form.
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	rights, err := h.queries.ListRights(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list rights", "error", err)
		return
	}

	data := UserFormData{
		Rights:     rights,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	}

	if err := h.renderer.Render(w, r, "admin/users_form", render.TemplateData{
		Title: "New User",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Create handles POST /admin/users - creates a user.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	currentUser := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectUsers+RouteSuffixNew) {
		return
	}

	login := strings.TrimSpace(r.FormValue("login"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")
	rightID := formID(r, "id_right")

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
	if rightID == 0 {
		errs["id_right"] = "Right is required"
	} else if !h.validRight(r, rightID) {
		errs["id_right"] = "Unknown right"
	}
	if err := auth.ValidatePassword(password, confirm); err != nil {
		errs["password"] = err.Error()
	}

	if len(errs) > 0 {
		h.renderFormWithErrors(w, r, "New User", nil, errs, map[string]string{"login": login})
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		flashError(w, r, h.renderer, redirectUsers, "Error creating user")
		return
	}

	created, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Login:        login,
		PasswordHash: passwordHash,
		RightID:      rightID,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		flashError(w, r, h.renderer, redirectUsers, "Error creating user")
		return
	}

	slog.Info("user created", "user_id", created.ID, "login", created.Login, "by_user_id", currentUser.ID)
	flashSuccess(w, r, h.renderer, redirectUsers, "User created")
}

// EditForm handles GET /admin/users/{id} - displays the edit user form.
func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	currentUser := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectUsers, "Invalid user ID")
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectUsers, "user", id,
		func(id int64) (model.User, error) { return h.queries.GetUser(r.Context(), id) })
	if !ok {
		return
	}

	rights, err := h.queries.ListRights(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list rights", "error", err)
		return
	}

	data := UserFormData{
		User:       &user,
		Rights:     rights,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
		IsEdit:     true,
	}

	if err := h.renderer.Render(w, r, "admin/users_form", render.TemplateData{
		Title: "Edit User",
		User:  currentUser,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Update handles POST /admin/users/{id} - updates a user. An empty
// password keeps the stored hash.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	currentUser := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectUsers, "Invalid user ID")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectUsers) {
		return
	}

	user, ok := requireEntityWithRedirect(w, r, h.renderer, redirectUsers, "user", id,
		func(id int64) (model.User, error) { return h.queries.GetUser(r.Context(), id) })
	if !ok {
		return
	}

	login := strings.TrimSpace(r.FormValue("login"))
	password := r.FormValue("password")
	confirm := r.FormValue("password_confirm")
	rightID := formID(r, "id_right")

	errs := make(map[string]string)
	if login == "" {
		errs["login"] = "Login is required"
	} else if login != user.Login {
		_, err := h.queries.GetUserByLogin(r.Context(), login)
		switch {
		case err == nil:
			errs["login"] = "This login is already taken"
		case !errors.Is(err, sql.ErrNoRows):
			slog.Error("database error checking login", "error", err)
			errs["login"] = "Error checking login"
		}
	}
	if rightID == 0 {
		errs["id_right"] = "Right is required"
	} else if !h.validRight(r, rightID) {
		errs["id_right"] = "Unknown right"
	}

	passwordHash := user.PasswordHash
	if password != "" {
		if err := auth.ValidatePassword(password, confirm); err != nil {
			errs["password"] = err.Error()
		} else if hash, err := auth.HashPassword(password); err != nil {
			slog.Error("failed to hash password", "error", err)
			errs["password"] = "Error updating password"
		} else {
			passwordHash = hash
		}
	}

	if len(errs) > 0 {
		h.renderFormWithErrors(w, r, "Edit User", &user, errs, map[string]string{"login": login})
		return
	}

	if _, err := h.queries.UpdateUser(r.Context(), store.UpdateUserParams{
		ID:           id,
		Login:        login,
		PasswordHash: passwordHash,
		RightID:      rightID,
	}); err != nil {
		slog.Error("failed to update user", "error", err, "user_id", id)
		flashError(w, r, h.renderer, redirectUsers, "Error updating user")
		return
	}

	slog.Info("user updated", "user_id", id, "by_user_id", currentUser.ID)
	flashSuccess(w, r, h.renderer, redirectUsers, "User updated")
}

// Delete handles POST /admin/users/{id}/delete - deletes a user.
// Administrators cannot delete their own account.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	currentUser := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectUsers, "Invalid user ID")
		return
	}

	if currentUser != nil && currentUser.ID == id {
		flashError(w, r, h.renderer, redirectUsers, "You cannot delete your own account")
		return
	}

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashError(w, r, h.renderer, redirectUsers, "user not found")
			return
		}
		slog.Error("failed to delete user", "error", err, "user_id", id)
		flashError(w, r, h.renderer, redirectUsers, "Error deleting user")
		return
	}

	slog.Info("user deleted", "user_id", id, "by_user_id", currentUser.ID)
	flashSuccess(w, r, h.renderer, redirectUsers, "User deleted")
}

// validRight reports whether the submitted right ID refers to a stored right.
func (h *UsersHandler) validRight(r *http.Request, rightID int64) bool {
	_, err := h.queries.GetRight(r.Context(), rightID)
	return err == nil
}

// renderFormWithErrors re-renders the user form with validation
// errors and the submitted values.
func (h *UsersHandler) renderFormWithErrors(w http.ResponseWriter, r *http.Request, title string, user *model.User, errs, values map[string]string) {
	currentUser := middleware.GetUser(r)

	rights, err := h.queries.ListRights(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list rights", "error", err)
		return
	}

	data := UserFormData{
		User:       user,
		Rights:     rights,
		Errors:     errs,
		FormValues: values,
		IsEdit:     user != nil,
	}

	if err := h.renderer.Render(w, r, "admin/users_form", render.TemplateData{
		Title: title,
		User:  currentUser,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
