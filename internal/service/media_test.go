package service

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFile adapts a bytes.Reader to the multipart.File interface.
type fakeFile struct {
	*bytes.Reader
}

func (fakeFile) Close() error { return nil }

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func newMediaService(t *testing.T) *MediaService {
	t.Helper()

	svc, err := NewMediaService(t.TempDir())
	require.NoError(t, err)
	return svc
}

func TestSaveContentImage_RejectsExtension(t *testing.T) {
	svc := newMediaService(t)

	data := pngBytes(t, 4, 4)
	header := &multipart.FileHeader{Filename: "payload.gif", Size: int64(len(data))}

	_, err := svc.SaveContentImage(fakeFile{bytes.NewReader(data)}, header)
	assert.ErrorIs(t, err, ErrUploadExtension)
}

func TestSaveContentImage_RejectsOversize(t *testing.T) {
	svc := newMediaService(t)

	data := pngBytes(t, 4, 4)
	header := &multipart.FileHeader{Filename: "big.png", Size: MaxUploadSize + 1}

	_, err := svc.SaveContentImage(fakeFile{bytes.NewReader(data)}, header)
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestSaveContentImage_RejectsRenamedNonImage(t *testing.T) {
	svc := newMediaService(t)

	data := []byte("not an image at all")
	header := &multipart.FileHeader{Filename: "fake.png", Size: int64(len(data))}

	_, err := svc.SaveContentImage(fakeFile{bytes.NewReader(data)}, header)
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestSaveContentImage_StoresOriginalAndThumbnail(t *testing.T) {
	svc := newMediaService(t)

	data := pngBytes(t, 400, 300)
	header := &multipart.FileHeader{Filename: "photo.png", Size: int64(len(data))}

	filename, err := svc.SaveContentImage(fakeFile{bytes.NewReader(data)}, header)
	require.NoError(t, err)
	assert.NotEqual(t, "photo.png", filename, "stored name must be generated, not the upload name")
	assert.Equal(t, ".png", filepath.Ext(filename))

	_, err = os.Stat(filepath.Join(svc.Dir(), filename))
	assert.NoError(t, err, "original should exist")
	_, err = os.Stat(filepath.Join(svc.Dir(), "thumb_"+filename))
	assert.NoError(t, err, "thumbnail should exist")
}

func TestRemove(t *testing.T) {
	svc := newMediaService(t)

	data := pngBytes(t, 16, 16)
	header := &multipart.FileHeader{Filename: "gone.png", Size: int64(len(data))}
	filename, err := svc.SaveContentImage(fakeFile{bytes.NewReader(data)}, header)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(filename))

	_, err = os.Stat(filepath.Join(svc.Dir(), filename))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(svc.Dir(), "thumb_"+filename))
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_IgnoresPathTraversal(t *testing.T) {
	svc := newMediaService(t)

	assert.NoError(t, svc.Remove("../escape.png"))
	assert.NoError(t, svc.Remove(""))
}
