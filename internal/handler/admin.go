// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/olegiv/easycms-go/internal/middleware"
	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/render"
	"github.com/olegiv/easycms-go/internal/store"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// DashboardData holds data for the dashboard template.
type DashboardData struct {
	PageCount       int64
	ContentCount    int64
	NavigationCount int64
	UserCount       int64
	RecentEvents    []model.Event
}

// recentEventCount is the number of events shown on the dashboard.
const recentEventCount = 5

// Dashboard handles GET /admin - displays entity counts and the most
// recent event log entries.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	ctx := r.Context()

	var data DashboardData
	var err error

	if data.PageCount, err = h.queries.CountPages(ctx); err != nil {
		logAndInternalError(w, "failed to count pages", "error", err)
		return
	}
	if data.ContentCount, err = h.queries.CountContents(ctx); err != nil {
		logAndInternalError(w, "failed to count contents", "error", err)
		return
	}
	if data.NavigationCount, err = h.queries.CountNavigations(ctx); err != nil {
		logAndInternalError(w, "failed to count navigations", "error", err)
		return
	}
	if data.UserCount, err = h.queries.CountUsers(ctx); err != nil {
		logAndInternalError(w, "failed to count users", "error", err)
		return
	}
	if data.RecentEvents, err = h.queries.ListEvents(ctx, store.ListEventsParams{
		Limit: recentEventCount,
	}); err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
