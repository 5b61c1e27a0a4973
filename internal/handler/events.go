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

// EventsHandler displays the admin event log.
type EventsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB, renderer *render.Renderer) *EventsHandler {
	return &EventsHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// EventsListData holds data for the events list template.
type EventsListData struct {
	Events     []model.Event
	Pagination AdminPagination
}

// List handles GET /admin/events - displays the event log, newest first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	page := parsePageParam(r)

	total, err := h.queries.CountEvents(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count events", "error", err)
		return
	}

	events, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Limit:  int64(adminPerPage),
		Offset: int64((page - 1) * adminPerPage),
	})
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	data := EventsListData{
		Events:     events,
		Pagination: BuildAdminPagination(page, int(total), adminPerPage, "/admin"+RouteEvents, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/events_list", render.TemplateData{
		Title: "Event Log",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
