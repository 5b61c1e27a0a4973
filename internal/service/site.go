// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/olegiv/easycms-go/internal/model"
	"github.com/olegiv/easycms-go/internal/store"
)

// ErrPageNotFound is returned when no published page matches a public
// request, including the case of a missing home page.
var ErrPageNotFound = errors.New("page not found")

// PageView is an assembled public page: the page record plus its
// published content blocks in display order and the published
// navigation entries.
type PageView struct {
	Page        model.Page
	Contents    []model.Content
	Navigations []model.Navigation
}

// SiteService assembles published pages for the public site.
type SiteService struct {
	queries *store.Queries
}

// NewSiteService creates a new SiteService.
func NewSiteService(db *sql.DB) *SiteService {
	return &SiteService{
		queries: store.New(db),
	}
}

// HomePage assembles the published home page.
func (s *SiteService) HomePage(ctx context.Context) (*PageView, error) {
	page, err := s.queries.GetPublishedHomePage(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading home page: %w", err)
	}
	return s.assemble(ctx, page)
}

// Page assembles a published page by ID. Unpublished and unknown
// pages both yield ErrPageNotFound.
func (s *SiteService) Page(ctx context.Context, id int64) (*PageView, error) {
	page, err := s.queries.GetPublishedPage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading page %d: %w", id, err)
	}
	return s.assemble(ctx, page)
}

func (s *SiteService) assemble(ctx context.Context, page model.Page) (*PageView, error) {
	contents, err := s.queries.ListPublishedContentsByPage(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("loading contents for page %d: %w", page.ID, err)
	}
	SortContents(contents)

	navs, err := s.queries.ListPublishedNavigations(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading navigation: %w", err)
	}

	return &PageView{
		Page:        page,
		Contents:    contents,
		Navigations: navs,
	}, nil
}

// SortContents orders content blocks ascending by their position
// number. The sort is stable: blocks on the same position keep the
// order the store returned them in.
func SortContents(contents []model.Content) {
	sort.SliceStable(contents, func(i, j int) bool {
		return positionNumber(contents[i]) < positionNumber(contents[j])
	})
}

func positionNumber(c model.Content) int64 {
	if c.Position == nil {
		return 0
	}
	return c.Position.Number
}
