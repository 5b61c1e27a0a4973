// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ContentType is static lookup data classifying content blocks.
type ContentType struct {
	ID          int64  `json:"id"`
	Name        string `json:"content_type_name"`
	Description string `json:"content_type_description"`
}

// Content is a titled, described unit of material, optionally placed
// into a page position. A content block with no position is not shown
// on any page. Description may hold an uploaded image filename when
// the content type is an image.
type Content struct {
	ID               int64     `json:"id"`
	Name             string    `json:"content_name"`
	Description      string    `json:"content_description"`
	IsPublished      bool      `json:"is_published"`
	CreationDate     time.Time `json:"creation_date"`
	ModificationDate time.Time `json:"modification_date"`
	UserID           int64     `json:"id_user"`

	// PositionID is zero when the content is unassigned.
	PositionID    int64 `json:"id_position"`
	ContentTypeID int64 `json:"id_content_type"`

	// Joined associations, populated by store reads.
	Position    *Position    `json:"position,omitempty"`
	ContentType *ContentType `json:"content_type,omitempty"`
}

// IsPlaced returns true if the content occupies a page position.
func (c *Content) IsPlaced() bool {
	return c.PositionID != 0
}
