// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Page, Content, Navigation, User, and Right.
package model

// Right IDs. The rights table is a small fixed enumeration seeded at
// startup; these constants mirror its rows.
const (
	RightAdmin  int64 = 1
	RightEditor int64 = 2
)

// User represents a CMS user.
type User struct {
	ID           int64  `json:"id"`
	Login        string `json:"login"`
	PasswordHash string `json:"-"` // Never expose in JSON
	RightID      int64  `json:"id_right"`
	RightName    string `json:"right_name,omitempty"`
}

// IsAdmin returns true if the user holds the administrator right.
func (u *User) IsAdmin() bool {
	return u.RightID == RightAdmin
}

// Right represents a coarse role gating privileged actions.
type Right struct {
	ID   int64  `json:"id"`
	Name string `json:"right_name"`
}

// RightName returns the display name for a right ID.
func RightName(id int64) string {
	switch id {
	case RightAdmin:
		return "administrator"
	case RightEditor:
		return "editor"
	default:
		return "unknown"
	}
}
