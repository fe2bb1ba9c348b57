package tasks

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/services"
	"github.com/jlwilt7/lockedin-music/internal/shared"
)

// FileTransfer uploads queue item payloads to the object store.
//
// Audio files land at {owner}/{uuid}.{ext}; extracted cover art lands at
// {owner}/covers/{uuid}.jpg. The random path segment makes collisions for
// repeated uploads of the same file a non-issue.
type FileTransfer struct {
	store   services.ObjectStore
	session services.SessionProvider
	logger  *log.Logger
}

// NewFileTransfer creates a FileTransfer over the given object store.
func NewFileTransfer(store services.ObjectStore, session services.SessionProvider, logger *log.Logger) *FileTransfer {
	return &FileTransfer{store: store, session: session, logger: logger}
}

// UploadItem stores the item's audio payload and, when present, its cover
// art. The audio upload is mandatory; a cover upload failure is logged and
// swallowed, returning an empty cover URL, since the track itself is intact
// without it.
func (t *FileTransfer) UploadItem(ctx context.Context, item *models.QueueItem) (fileURL, coverURL string, err error) {
	owner := t.session.OwnerID()
	if owner == "" {
		return "", "", shared.ErrNotAuthenticated
	}

	fileURL, err = t.uploadAudio(ctx, owner, item)
	if err != nil {
		return "", "", err
	}

	if item.Metadata.CoverArt != nil {
		coverURL, err = t.uploadCover(ctx, owner, item.Metadata.CoverArt)
		if err != nil {
			t.logger.Warn("cover upload failed, continuing without art", "file", item.File.Name, "error", err)
			coverURL = ""
		}
	}

	return fileURL, coverURL, nil
}

func (t *FileTransfer) uploadAudio(ctx context.Context, owner string, item *models.QueueItem) (string, error) {
	f, err := os.Open(item.File.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	defer f.Close()

	ext := item.File.Ext()
	if ext == "" {
		ext = "mp3"
	}
	path := fmt.Sprintf("%s/%s.%s", owner, shared.GenerateID(), ext)

	contentType := item.File.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := t.store.Upload(ctx, path, f, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}

	t.logger.Debug("uploaded audio", "path", path, "size", item.File.Size)
	return url, nil
}

func (t *FileTransfer) uploadCover(ctx context.Context, owner string, art *models.CoverArt) (string, error) {
	path := fmt.Sprintf("%s/covers/%s.jpg", owner, shared.GenerateID())

	mime := art.MIME
	if mime == "" {
		mime = "image/jpeg"
	}

	url, err := t.store.Upload(ctx, path, bytes.NewReader(art.Data), mime)
	if err != nil {
		return "", err
	}

	t.logger.Debug("uploaded cover art", "path", path, "bytes", len(art.Data))
	return url, nil
}
