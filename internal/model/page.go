// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PositionsPerPage is the fixed number of content slots provisioned
// for every page at creation time.
const PositionsPerPage = 4

// Page represents a CMS page.
type Page struct {
	ID               int64     `json:"id"`
	Name             string    `json:"page_name"`
	IsHomePage       bool      `json:"is_home_page"`
	IsPublished      bool      `json:"is_published"`
	CreationDate     time.Time `json:"creation_date"`
	ModificationDate time.Time `json:"modification_date"`
	UserID           int64     `json:"id_user"`
}

// Position is one of a page's four fixed content slots.
type Position struct {
	ID     int64 `json:"id"`
	PageID int64 `json:"id_page"`
	Number int64 `json:"position_number"`
	Page   *Page `json:"page,omitempty"`
}
