package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDownloadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(pngHeader)
		case "/text":
			_, _ = w.Write([]byte("hello world"))
		case "/empty":
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	data, contentType, err := DownloadImage(context.Background(), server.URL+"/ok.png", 1024)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
	assert.Equal(t, "image/png", contentType)

	_, _, err = DownloadImage(context.Background(), server.URL+"/text", 1024)
	assert.ErrorContains(t, err, "invalid content type")

	_, _, err = DownloadImage(context.Background(), server.URL+"/empty", 1024)
	assert.ErrorContains(t, err, "empty image data")

	_, _, err = DownloadImage(context.Background(), server.URL+"/missing", 1024)
	assert.ErrorContains(t, err, "status 404")
}

func TestIsValidImageType(t *testing.T) {
	assert.True(t, IsValidImageType("image/png"))
	assert.True(t, IsValidImageType("IMAGE/JPEG"))
	assert.False(t, IsValidImageType("text/plain; charset=utf-8"))
}

func TestDetectFileContentType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	assert.Equal(t, "image/png", DetectFileContentType(path))
	assert.Equal(t, "application/octet-stream", DetectFileContentType(filepath.Join(dir, "missing")))
}

func TestGeneratedNames(t *testing.T) {
	assert.NotEqual(t, GenerateUploadName(), GenerateUploadName())
	assert.Len(t, GenerateUploadName(), 36)

	assert.Equal(t, "kraked_job-1.png", GenerateFilename("job-1", "png"))
	assert.Equal(t, "kraked_job-1.jpeg", GenerateFilename("job-1", ""))

	key := GenerateStorageKey("photo.jpg")
	assert.Regexp(t, regexp.MustCompile(`^kraked/photo_\d+_[0-9a-f-]{8}\.jpg$`), key)
}
