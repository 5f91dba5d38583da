package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// smallest valid PNG: signature plus IHDR chunk header is enough for sniffing
var pngHeader = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

func TestDetectImage(t *testing.T) {
	mtype, err := DetectImage(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mtype.String())

	_, err = DetectImage([]byte("plain text, definitely not a picture"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = DetectImage(nil)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLocalUploader_Upload(t *testing.T) {
	root := t.TempDir()
	u := NewLocalUploader(root, "http://cdn.test/uploads/", zap.NewNop())

	url, err := u.Upload(context.Background(), FolderAvatars, pngHeader)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://cdn.test/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := url[strings.LastIndex(url, "/")+1:]
	stored, err := os.ReadFile(filepath.Join(root, FolderAvatars, name))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestLocalUploader_RejectsNonImage(t *testing.T) {
	u := NewLocalUploader(t.TempDir(), "http://cdn.test", zap.NewNop())

	_, err := u.Upload(context.Background(), FolderLicenses, []byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestFilesOnly_HidesDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, FolderAadhars), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FolderAadhars, "doc.png"), pngHeader, 0o644))

	server := http.FileServer(FilesOnly{FS: http.Dir(root)})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+FolderAadhars+"/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "doc.png")

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+FolderAadhars+"/doc.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader, rec.Body.Bytes())
}
