// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/easycms-go/internal/middleware"
	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/render"
	"github.com/olegiv/easycms-go/internal/store"
)

// NavigationsHandler handles admin CRUD routes for navigation entries.
type NavigationsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewNavigationsHandler creates a new NavigationsHandler.
func NewNavigationsHandler(db *sql.DB, renderer *render.Renderer) *NavigationsHandler {
	return &NavigationsHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// NavigationsListData holds data for the navigations list template.
type NavigationsListData struct {
	Navigations []model.Navigation
	Pagination  AdminPagination
}

// List handles GET /admin/navigations - displays the navigations list.
func (h *NavigationsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	page := parsePageParam(r)

	navs, err := h.queries.ListNavigations(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list navigations", "error", err)
		return
	}

	total := len(navs)
	navs = paginate(navs, page, adminPerPage)

	data := NavigationsListData{
		Navigations: navs,
		Pagination:  BuildAdminPagination(page, total, adminPerPage, redirectNavigations, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/navigations_list", render.TemplateData{
		Title: "Navigations",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// NavigationFormData holds data for the navigation form template.
type NavigationFormData struct {
	Navigation *model.Navigation
	Pages      []model.Page
	Errors     map[string]string
	FormValues map[string]string
	IsEdit     bool
}

// NewForm handles GET /admin/navigations/new - displays the new navigation form.
func (h *NavigationsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	pages, err := h.queries.ListPages(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list pages", "error", err)
		return
	}

	data := NavigationFormData{
		Pages:      pages,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	}

	if err := h.renderer.Render(w, r, "admin/navigations_form", render.TemplateData{
		Title: "New Navigation",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Create handles POST /admin/navigations - creates a navigation entry.
func (h *NavigationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectNavigations+RouteSuffixNew) {
		return
	}

	name := strings.TrimSpace(r.FormValue("nav_name"))
	pageID := formID(r, "id_page")
	positionID := formID(r, "id_position")
	isPublished := formCheckbox(r, "is_published")

	if errs := validateNavigation(name, pageID); len(errs) > 0 {
		h.renderFormWithErrors(w, r, "New Navigation", nil, errs,
			map[string]string{"nav_name": name})
		return
	}

	created, err := h.queries.CreateNavigation(r.Context(), store.CreateNavigationParams{
		Name:        name,
		IsPublished: isPublished,
		PageID:      pageID,
		UserID:      user.ID,
		PositionID:  positionID,
	})
	if err != nil {
		slog.Error("failed to create navigation", "error", err)
		flashError(w, r, h.renderer, redirectNavigations, "Error creating navigation")
		return
	}

	slog.Info("navigation created", "navigation_id", created.ID, "name", created.Name, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectNavigations, "Navigation created")
}

// EditForm handles GET /admin/navigations/{id} - displays the edit form.
func (h *NavigationsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectNavigations, "Invalid navigation ID")
		return
	}

	nav, ok := requireEntityWithRedirect(w, r, h.renderer, redirectNavigations, "navigation", id,
		func(id int64) (model.Navigation, error) { return h.queries.GetNavigation(r.Context(), id) })
	if !ok {
		return
	}

	pages, err := h.queries.ListPages(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list pages", "error", err)
		return
	}

	data := NavigationFormData{
		Navigation: &nav,
		Pages:      pages,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
		IsEdit:     true,
	}

	if err := h.renderer.Render(w, r, "admin/navigations_form", render.TemplateData{
		Title: "Edit Navigation",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Update handles POST /admin/navigations/{id} - updates a navigation entry.
func (h *NavigationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectNavigations, "Invalid navigation ID")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectNavigations) {
		return
	}

	nav, ok := requireEntityWithRedirect(w, r, h.renderer, redirectNavigations, "navigation", id,
		func(id int64) (model.Navigation, error) { return h.queries.GetNavigation(r.Context(), id) })
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("nav_name"))
	pageID := formID(r, "id_page")
	positionID := formID(r, "id_position")
	isPublished := formCheckbox(r, "is_published")

	if errs := validateNavigation(name, pageID); len(errs) > 0 {
		h.renderFormWithErrors(w, r, "Edit Navigation", &nav, errs,
			map[string]string{"nav_name": name})
		return
	}

	if _, err := h.queries.UpdateNavigation(r.Context(), store.UpdateNavigationParams{
		ID:          id,
		Name:        name,
		IsPublished: isPublished,
		PageID:      pageID,
		UserID:      user.ID,
		PositionID:  positionID,
	}); err != nil {
		slog.Error("failed to update navigation", "error", err, "navigation_id", id)
		flashError(w, r, h.renderer, redirectNavigations, "Error updating navigation")
		return
	}

	slog.Info("navigation updated", "navigation_id", id, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectNavigations, "Navigation updated")
}

// Delete handles POST /admin/navigations/{id}/delete - deletes a navigation entry.
func (h *NavigationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectNavigations, "Invalid navigation ID")
		return
	}

	if err := h.queries.DeleteNavigation(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashError(w, r, h.renderer, redirectNavigations, "navigation not found")
			return
		}
		slog.Error("failed to delete navigation", "error", err, "navigation_id", id)
		flashError(w, r, h.renderer, redirectNavigations, "Error deleting navigation")
		return
	}

	slog.Info("navigation deleted", "navigation_id", id, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectNavigations, "Navigation deleted")
}

// validateNavigation checks required navigation fields.
func validateNavigation(name string, pageID int64) map[string]string {
	errs := make(map[string]string)
	if name == "" {
		errs["nav_name"] = "Navigation name is required"
	}
	if pageID == 0 {
		errs["id_page"] = "Target page is required"
	}
	return errs
}

// renderFormWithErrors re-renders the navigation form with validation
// errors and the submitted values.
func (h *NavigationsHandler) renderFormWithErrors(w http.ResponseWriter, r *http.Request, title string, nav *model.Navigation, errs, values map[string]string) {
	user := middleware.GetUser(r)

	pages, err := h.queries.ListPages(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list pages", "error", err)
		return
	}

	data := NavigationFormData{
		Navigation: nav,
		Pages:      pages,
		Errors:     errs,
		FormValues: values,
		IsEdit:     nav != nil,
	}

	if err := h.renderer.Render(w, r, "admin/navigations_form", render.TemplateData{
		Title: title,
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
