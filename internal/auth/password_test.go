package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Changeme1!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty hash")
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash %q does not use argon2id", hash)
	}
}

func TestCheckPassword_Correct(t *testing.T) {
	hash, err := HashPassword("Changeme1!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("Changeme1!", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Fatal("Correct password was rejected")
	}
}

func TestCheckPassword_Wrong(t *testing.T) {
	hash, err := HashPassword("Changeme1!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	valid, err := CheckPassword("wrongpassword", hash)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if valid {
		t.Fatal("Wrong password was accepted")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	_, err := CheckPassword("anything", "not-a-phc-string")
	if err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
	}{
		{"valid", "Changeme1!", "Changeme1!", nil},
		{"too short", "Ab1!", "Ab1!", ErrPasswordTooShort},
		{"no digit", "Changeme!", "Changeme!", ErrPasswordNoDigit},
		{"no letter", "12345678!", "12345678!", ErrPasswordNoLetter},
		{"no symbol", "Changeme1", "Changeme1", ErrPasswordNoSymbol},
		{"mismatch", "Changeme1!", "Changeme2!", ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.confirm)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword(%q, %q) = %v, want %v",
					tt.password, tt.confirm, err, tt.wantErr)
			}
		})
	}
}
