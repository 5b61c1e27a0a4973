// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the admin area, the
// authentication flow, and the public site.
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

// PagesHandler handles admin CRUD routes for pages.
type PagesHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(db *sql.DB, renderer *render.Renderer) *PagesHandler {
	return &PagesHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// PagesListData holds data for the pages list template.
type PagesListData struct {
	Pages      []model.Page
	Pagination AdminPagination
}

// List handles GET /admin/pages - displays the pages list.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	page := parsePageParam(r)

	pages, err := h.queries.ListPages(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list pages", "error", err)
		return
	}

	total := len(pages)
	pages = paginate(pages, page, adminPerPage)

	data := PagesListData{
		Pages:      pages,
		Pagination: BuildAdminPagination(page, total, adminPerPage, redirectPages, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/pages_list", render.TemplateData{
		Title: "Pages",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// PageFormData holds data for the page form template.
type PageFormData struct {
	Page       *model.Page
	Errors     map[string]string
	FormValues map[string]string
	IsEdit     bool
}

// NewForm handles GET /admin/pages/new - displays the new page form.
func (h *PagesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	data := PageFormData{
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	}

	if err := h.renderer.Render(w, r, "admin/pages_form", render.TemplateData{
		Title: "New Page",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Create handles POST /admin/pages - creates a new page and its four
// content positions.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectPages+RouteSuffixNew) {
		return
	}

	name := strings.TrimSpace(r.FormValue("page_name"))
	isHome := formCheckbox(r, "is_home_page")
	isPublished := formCheckbox(r, "is_published")

	if name == "" {
		data := PageFormData{
			Errors:     map[string]string{"page_name": "Page name is required"},
			FormValues: map[string]string{"page_name": name},
		}
		if err := h.renderer.Render(w, r, "admin/pages_form", render.TemplateData{
			Title: "New Page",
			User:  user,
			Data:  data,
		}); err != nil {
			logAndInternalError(w, "render error", "error", err)
		}
		return
	}

	created, err := h.queries.CreatePage(r.Context(), store.CreatePageParams{
		Name:        name,
		IsHomePage:  isHome,
		IsPublished: isPublished,
		UserID:      user.ID,
	})
	if err != nil {
		slog.Error("failed to create page", "error", err)
		flashError(w, r, h.renderer, redirectPages, "Error creating page")
		return
	}

	slog.Info("page created", "page_id", created.ID, "name", created.Name, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectPages, "Page created")
}

// EditForm handles GET /admin/pages/{id} - displays the edit page form.
func (h *PagesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectPages, "Invalid page ID")
		return
	}

	page, ok := requireEntityWithRedirect(w, r, h.renderer, redirectPages, "page", id,
		func(id int64) (model.Page, error) { return h.queries.GetPage(r.Context(), id) })
	if !ok {
		return
	}

	data := PageFormData{
		Page:       &page,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
		IsEdit:     true,
	}

	if err := h.renderer.Render(w, r, "admin/pages_form", render.TemplateData{
		Title: "Edit Page",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Update handles POST /admin/pages/{id} - updates a page.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectPages, "Invalid page ID")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectPages) {
		return
	}

	page, ok := requireEntityWithRedirect(w, r, h.renderer, redirectPages, "page", id,
		func(id int64) (model.Page, error) { return h.queries.GetPage(r.Context(), id) })
	if !ok {
		return
	}

	name := strings.TrimSpace(r.FormValue("page_name"))
	isHome := formCheckbox(r, "is_home_page")
	isPublished := formCheckbox(r, "is_published")

	if name == "" {
		data := PageFormData{
			Page:       &page,
			Errors:     map[string]string{"page_name": "Page name is required"},
			FormValues: map[string]string{"page_name": name},
			IsEdit:     true,
		}
		if err := h.renderer.Render(w, r, "admin/pages_form", render.TemplateData{
			Title: "Edit Page",
			User:  user,
			Data:  data,
		}); err != nil {
			logAndInternalError(w, "render error", "error", err)
		}
		return
	}

	if _, err := h.queries.UpdatePage(r.Context(), store.UpdatePageParams{
		ID:          id,
		Name:        name,
		IsHomePage:  isHome,
		IsPublished: isPublished,
		UserID:      user.ID,
	}); err != nil {
		slog.Error("failed to update page", "error", err, "page_id", id)
		flashError(w, r, h.renderer, redirectPages, "Error updating page")
		return
	}

	slog.Info("page updated", "page_id", id, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectPages, "Page updated")
}

// Delete handles POST /admin/pages/{id}/delete - deletes a page. The
// page's positions and navigation entries go with it; content blocks
// placed on the page become unassigned.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectPages, "Invalid page ID")
		return
	}

	if err := h.queries.DeletePage(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashError(w, r, h.renderer, redirectPages, "page not found")
			return
		}
		slog.Error("failed to delete page", "error", err, "page_id", id)
		flashError(w, r, h.renderer, redirectPages, "Error deleting page")
		return
	}

	slog.Info("page deleted", "page_id", id, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectPages, "Page deleted")
}

// paginate slices a full result set down to the requested page.
func paginate[T any](items []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
