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
	"github.com/olegiv/easycms-go/internal/service"
	"github.com/olegiv/easycms-go/internal/store"
)

// maxContentFormMemory bounds multipart form parsing. Uploads above
// service.MaxUploadSize are rejected later with a user-facing message.
const maxContentFormMemory = 1 << 20

// ContentsHandler handles admin CRUD routes for content blocks.
type ContentsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	media    *service.MediaService
}

// NewContentsHandler creates a new ContentsHandler.
func NewContentsHandler(db *sql.DB, renderer *render.Renderer, media *service.MediaService) *ContentsHandler {
	return &ContentsHandler{
		queries:  store.New(db),
		renderer: renderer,
		media:    media,
	}
}

// ContentsListData holds data for the contents list template.
type ContentsListData struct {
	Contents   []model.Content
	Pagination AdminPagination
}

// List handles GET /admin/contents - displays the content blocks list.
func (h *ContentsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	page := parsePageParam(r)

	contents, err := h.queries.ListContents(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list contents", "error", err)
		return
	}

	total := len(contents)
	contents = paginate(contents, page, adminPerPage)

	data := ContentsListData{
		Contents:   contents,
		Pagination: BuildAdminPagination(page, total, adminPerPage, redirectContents, r.URL.Query()),
	}

	if err := h.renderer.Render(w, r, "admin/contents_list", render.TemplateData{
		Title: "Contents",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// ContentFormData holds data for the content form template.
type ContentFormData struct {
	Content      *model.Content
	Positions    []model.Position
	ContentTypes []model.ContentType
	Errors       map[string]string
	FormValues   map[string]string
	IsEdit       bool
}

// formChoices loads the placement and type choices for the content form.
func (h *ContentsHandler) formChoices(r *http.Request) ([]model.Position, []model.ContentType, error) {
	positions, err := h.queries.ListPositions(r.Context())
	if err != nil {
		return nil, nil, err
	}
	types, err := h.queries.ListContentTypes(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return positions, types, nil
}

// NewForm handles GET /admin/contents/new - displays the new content form.
func (h *ContentsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	positions, types, err := h.formChoices(r)
	if err != nil {
		logAndInternalError(w, "failed to load content form choices", "error", err)
		return
	}

	data := ContentFormData{
		Positions:    positions,
		ContentTypes: types,
		Errors:       make(map[string]string),
		FormValues:   make(map[string]string),
	}

	if err := h.renderer.Render(w, r, "admin/contents_form", render.TemplateData{
		Title: "New Content",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// contentForm holds the parsed content form fields.
type contentForm struct {
	name          string
	description   string
	isPublished   bool
	positionID    int64
	contentTypeID int64
}

// parseContentForm reads the multipart content form. When an image
// was uploaded and accepted, the stored filename replaces the
// description. A rejected upload returns the user-facing cause.
func (h *ContentsHandler) parseContentForm(r *http.Request) (contentForm, error) {
	if err := r.ParseMultipartForm(maxContentFormMemory); err != nil {
		// Plain forms without a file part are still fine
		if err := r.ParseForm(); err != nil {
			return contentForm{}, service.ErrUploadFailed
		}
	}

	form := contentForm{
		name:          strings.TrimSpace(r.FormValue("content_name")),
		description:   r.FormValue("content_description"),
		isPublished:   formCheckbox(r, "is_published"),
		positionID:    formID(r, "id_position"),
		contentTypeID: formID(r, "id_content_type"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, nil
	}
	if err != nil {
		return contentForm{}, service.ErrUploadFailed
	}
	defer file.Close()

	filename, err := h.media.SaveContentImage(file, header)
	if err != nil {
		return contentForm{}, err
	}

	form.description = filename
	return form, nil
}

// validate checks required content fields and that the submitted
// placement and type refer to stored rows.
func (h *ContentsHandler) validate(r *http.Request, f contentForm) map[string]string {
	errs := make(map[string]string)
	if f.name == "" {
		errs["content_name"] = "Content name is required"
	}
	if f.contentTypeID == 0 {
		errs["id_content_type"] = "Content type is required"
	} else if _, err := h.queries.GetContentType(r.Context(), f.contentTypeID); err != nil {
		errs["id_content_type"] = "Unknown content type"
	}
	if f.positionID != 0 {
		if _, err := h.queries.GetPosition(r.Context(), f.positionID); err != nil {
			errs["id_position"] = "Unknown position"
		}
	}
	return errs
}

func (f contentForm) values() map[string]string {
	return map[string]string{
		"content_name":        f.name,
		"content_description": f.description,
	}
}

// Create handles POST /admin/contents - creates a content block.
func (h *ContentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	form, err := h.parseContentForm(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectContents+RouteSuffixNew, err.Error())
		return
	}

	if errs := h.validate(r, form); len(errs) > 0 {
		h.renderFormWithErrors(w, r, "New Content", nil, errs, form.values())
		return
	}

	created, err := h.queries.CreateContent(r.Context(), store.CreateContentParams{
		Name:          form.name,
		Description:   form.description,
		IsPublished:   form.isPublished,
		UserID:        user.ID,
		PositionID:    form.positionID,
		ContentTypeID: form.contentTypeID,
	})
	if err != nil {
		slog.Error("failed to create content", "error", err)
		flashError(w, r, h.renderer, redirectContents, "Error creating content")
		return
	}

	slog.Info("content created", "content_id", created.ID, "name", created.Name, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectContents, "Content created")
}

// EditForm handles GET /admin/contents/{id} - displays the edit form.
func (h *ContentsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectContents, "Invalid content ID")
		return
	}

	content, ok := requireEntityWithRedirect(w, r, h.renderer, redirectContents, "content", id,
		func(id int64) (model.Content, error) { return h.queries.GetContent(r.Context(), id) })
	if !ok {
		return
	}

	positions, types, err := h.formChoices(r)
	if err != nil {
		logAndInternalError(w, "failed to load content form choices", "error", err)
		return
	}

	data := ContentFormData{
		Content:      &content,
		Positions:    positions,
		ContentTypes: types,
		Errors:       make(map[string]string),
		FormValues:   make(map[string]string),
		IsEdit:       true,
	}

	if err := h.renderer.Render(w, r, "admin/contents_form", render.TemplateData{
		Title: "Edit Content",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Update handles POST /admin/contents/{id} - updates a content block.
// Assigning a position that another block holds unassigns that block.
func (h *ContentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectContents, "Invalid content ID")
		return
	}

	content, ok := requireEntityWithRedirect(w, r, h.renderer, redirectContents, "content", id,
		func(id int64) (model.Content, error) { return h.queries.GetContent(r.Context(), id) })
	if !ok {
		return
	}

	form, err := h.parseContentForm(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectContents, err.Error())
		return
	}

	if errs := h.validate(r, form); len(errs) > 0 {
		h.renderFormWithErrors(w, r, "Edit Content", &content, errs, form.values())
		return
	}

	if _, err := h.queries.UpdateContent(r.Context(), store.UpdateContentParams{
		ID:            id,
		Name:          form.name,
		Description:   form.description,
		IsPublished:   form.isPublished,
		UserID:        user.ID,
		PositionID:    form.positionID,
		ContentTypeID: form.contentTypeID,
	}); err != nil {
		slog.Error("failed to update content", "error", err, "content_id", id)
		flashError(w, r, h.renderer, redirectContents, "Error updating content")
		return
	}

	slog.Info("content updated", "content_id", id, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectContents, "Content updated")
}

// Delete handles POST /admin/contents/{id}/delete - deletes a content block.
func (h *ContentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectContents, "Invalid content ID")
		return
	}

	if err := h.queries.DeleteContent(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			flashError(w, r, h.renderer, redirectContents, "content not found")
			return
		}
		slog.Error("failed to delete content", "error", err, "content_id", id)
		flashError(w, r, h.renderer, redirectContents, "Error deleting content")
		return
	}

	slog.Info("content deleted", "content_id", id, "user_id", user.ID)
	flashSuccess(w, r, h.renderer, redirectContents, "Content deleted")
}

// renderFormWithErrors re-renders the content form with validation
// errors and the submitted values.
func (h *ContentsHandler) renderFormWithErrors(w http.ResponseWriter, r *http.Request, title string, content *model.Content, errs, values map[string]string) {
	user := middleware.GetUser(r)

	positions, types, err := h.formChoices(r)
	if err != nil {
		logAndInternalError(w, "failed to load content form choices", "error", err)
		return
	}

	data := ContentFormData{
		Content:      content,
		Positions:    positions,
		ContentTypes: types,
		Errors:       errs,
		FormValues:   values,
		IsEdit:       content != nil,
	}

	if err := h.renderer.Render(w, r, "admin/contents_form", render.TemplateData{
		Title: title,
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
