// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Navigation is a named link pointing at a page, shown in site
// navigation when published. PositionID is an optional ordering hint.
type Navigation struct {
	ID               int64     `json:"id"`
	Name             string    `json:"nav_name"`
	IsPublished      bool      `json:"is_published"`
	CreationDate     time.Time `json:"creation_date"`
	ModificationDate time.Time `json:"modification_date"`
	PageID           int64     `json:"id_page"`
	UserID           int64     `json:"id_user"`
	PositionID       int64     `json:"id_position"`

	Page *Page `json:"page,omitempty"`
}
