package usecase

import (
	"context"
	"errors"

	"ride-hailing/pkg/storage"

	"golang.org/x/sync/errgroup"
)

var errUploadFailed = errors.New("upload failed")

// imageUpload is one file headed for a storage folder; URL is filled in on success.
type imageUpload struct {
	Folder string
	Data   []byte
	URL    string
}

// uploadImages stores every non-empty upload concurrently. The first failure
// cancels the rest.
func uploadImages(ctx context.Context, uploader storage.Uploader, uploads ...*imageUpload) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, up := range uploads {
		if up == nil || len(up.Data) == 0 {
			continue
		}
		up := up
		g.Go(func() error {
			url, err := uploader.Upload(gctx, up.Folder, up.Data)
			if err != nil {
				return errors.Join(errUploadFailed, err)
			}
			up.URL = url
			return nil
		})
	}
	return g.Wait()
}

// urlOrNil returns a pointer to the uploaded URL, or nil when nothing was stored.
func (u *imageUpload) urlOrNil() *string {
	if u == nil || u.URL == "" {
		return nil
	}
	url := u.URL
	return &url
}
