package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Upload folders.
const (
	FolderAvatars  = "avatars"
	FolderLicenses = "licenses"
	FolderAadhars  = "aadhars"
)

var ErrNotImage = errors.New("file is not an image")

// Uploader stores an uploaded file and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, folder string, data []byte) (string, error)
}

// DetectImage sniffs the content and rejects anything that is not an image.
func DetectImage(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, ErrNotImage
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}
	return mtype, nil
}

type LocalUploader struct {
	rootDir string
	baseURL string
	log     *zap.Logger
}

func NewLocalUploader(rootDir, baseURL string, log *zap.Logger) *LocalUploader {
	return &LocalUploader{
		rootDir: rootDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With(zap.String("component", "storage")),
	}
}

func (u *LocalUploader) Upload(ctx context.Context, folder string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mtype, err := DetectImage(data)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(u.rootDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		u.log.Error("Failed to create upload dir", zap.Error(err), zap.String("dir", dir))
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := strings.ToLower(ulid.Make().String()) + mtype.Extension()
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		u.log.Error("Failed to write upload", zap.Error(err), zap.String("folder", folder))
		return "", fmt.Errorf("write upload: %w", err)
	}

	url := u.baseURL + "/" + path.Join(folder, filename)
	u.log.Debug("File stored", zap.String("url", url), zap.String("mime", mtype.String()))
	return url, nil
}

// FilesOnly serves regular files and reports directories as missing, so a
// file server in front of it never renders a folder index.
type FilesOnly struct {
	FS http.FileSystem
}

func (f FilesOnly) Open(name string) (http.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}

	return file, nil
}
