// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/easycms-go/internal/middleware"
	"github.com/olegiv/easycms-go/internal/render"
	"github.com/olegiv/easycms-go/internal/service"
)

// FrontendHandler serves the public site: the home page and
// individual published pages.
type FrontendHandler struct {
	site     *service.SiteService
	renderer *render.Renderer
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(site *service.SiteService, renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{
		site:     site,
		renderer: renderer,
	}
}

// Home handles GET / - displays the published home page.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	view, err := h.site.HomePage(r.Context())
	if err != nil {
		h.renderPageError(w, r, err)
		return
	}
	h.renderPage(w, r, view)
}

// Page handles GET /page/{id} - displays a published page by ID.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	view, err := h.site.Page(r.Context(), id)
	if err != nil {
		h.renderPageError(w, r, err)
		return
	}
	h.renderPage(w, r, view)
}

// NotFound renders the public 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "site/404", render.TemplateData{
		Title: "Page Not Found",
		User:  middleware.GetUser(r),
	}); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *FrontendHandler) renderPage(w http.ResponseWriter, r *http.Request, view *service.PageView) {
	if err := h.renderer.Render(w, r, "site/page", render.TemplateData{
		Title: view.Page.Name,
		User:  middleware.GetUser(r),
		Data:  view,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

func (h *FrontendHandler) renderPageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrPageNotFound) {
		h.NotFound(w, r)
		return
	}
	logAndInternalError(w, "failed to assemble page", "error", err)
}
