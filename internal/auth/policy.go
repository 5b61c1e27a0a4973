// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"unicode"
)

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

// passwordSymbols is the punctuation set of which at least one
// character is required.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// Password policy violations, surfaced verbatim to the user.
var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordNoDigit  = errors.New("password must contain at least one digit")
	ErrPasswordNoLetter = errors.New("password must contain at least one letter")
	ErrPasswordNoSymbol = errors.New(`password must contain at least one symbol (!@#$%^&*(),.?":{}|<>)`)
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
)

// ValidatePassword checks a candidate password against the policy:
// minimum length, at least one digit, one letter, one symbol from the
// fixed punctuation set, and equality with its confirmation. The first
// violation found is returned.
func ValidatePassword(password, confirm string) error {
	if len(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}

	var hasDigit, hasLetter, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
		}
		if strings.ContainsRune(passwordSymbols, r) {
			hasSymbol = true
		}
	}

	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if !hasLetter {
		return ErrPasswordNoLetter
	}
	if !hasSymbol {
		return ErrPasswordNoSymbol
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
