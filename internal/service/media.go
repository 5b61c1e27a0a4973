// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Upload limits
const (
	MaxUploadSize  = 128 * 1024 // 128 KiB
	ThumbnailWidth = 200
)

// allowedExtensions defines the image extensions that can be uploaded.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Upload rejection causes, surfaced verbatim to the user.
var (
	ErrUploadExtension = errors.New("only jpg, jpeg and png files are accepted")
	ErrUploadTooLarge  = errors.New("file is too large, the maximum size is 128 KiB")
	ErrUploadFailed    = errors.New("an error occurred during the upload")
)

// MediaService stores uploaded content images on disk.
type MediaService struct {
	mediaDir string
}

// NewMediaService creates a media service rooted at mediaDir. The
// directory is created if it does not exist.
func NewMediaService(mediaDir string) (*MediaService, error) {
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &MediaService{mediaDir: mediaDir}, nil
}

// Dir returns the media directory path.
func (s *MediaService) Dir() string {
	return s.mediaDir
}

// SaveContentImage validates and stores an uploaded content image.
// It returns the stored filename, which callers persist as the
// content block's description. A thumbnail with a "thumb_" prefix is
// written alongside the original.
func (s *MediaService) SaveContentImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUploadExtension
	}

	if header.Size > MaxUploadSize {
		return "", ErrUploadTooLarge
	}

	// Decode to verify the payload really is an image of the claimed
	// type, not just a renamed file.
	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrUploadFailed
	}

	filename := uuid.New().String() + ext
	path := filepath.Join(s.mediaDir, filename)

	if err := imaging.Save(img, path); err != nil {
		return "", ErrUploadFailed
	}

	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(s.mediaDir, "thumb_"+filename)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		// The original is stored; a missing thumbnail is not fatal
		_ = os.Remove(thumbPath)
	}

	return filename, nil
}

// Remove deletes a stored image and its thumbnail, ignoring files
// that are already gone.
func (s *MediaService) Remove(filename string) error {
	if filename == "" || strings.ContainsAny(filename, "/\\") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.mediaDir, filename)); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(filepath.Join(s.mediaDir, "thumb_"+filename)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
