package tasks

import (
	"context"

	"github.com/jlwilt7/lockedin-music/internal/models"
)

// Upload progress milestones. Values are percentages of a single item's
// pipeline, chosen so the big file transfer dominates the bar.
const (
	progressUploaded       = 50
	progressArtistResolved = 70
	progressAlbumResolved  = 85
	progressDone           = 100
)

// Process drives every pending item through the upload pipeline in queue
// order, one at a time.
//
// Each item advances uploading -> file transfer -> artist resolution ->
// album resolution -> track creation -> complete. A failure at any step
// marks that item errored, freezes its progress, and moves on to the next
// item. Exactly one queue_complete event ends the pass, including the
// empty-queue and already-processing no-op cases where it is the only event.
func (q *UploadQueue) Process(ctx context.Context, emit Emit) {
	q.mu.Lock()
	if q.processing {
		q.mu.Unlock()
		send(emit, queueCompleteEvent())
		return
	}
	q.processing = true
	pending := make([]*models.QueueItem, 0, len(q.items))
	for _, item := range q.items {
		if item.Status == models.StatusPending {
			pending = append(pending, item)
		}
	}
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.processing = false
		q.mu.Unlock()
		send(emit, queueCompleteEvent())
	}()

	for _, item := range pending {
		if ctx.Err() != nil {
			q.fail(item, emit, ctx.Err().Error())
			continue
		}
		q.processItem(ctx, item, emit)
	}
}

func (q *UploadQueue) processItem(ctx context.Context, item *models.QueueItem, emit Emit) {
	q.setStatus(item, models.StatusUploading)
	send(emit, statusEvent(item))

	fileURL, coverURL, err := q.transfer.UploadItem(ctx, item)
	if err != nil {
		q.fail(item, emit, err.Error())
		return
	}
	q.setProgress(item, progressUploaded)
	send(emit, progressEvent(item))

	artistID, err := q.resolver.ResolveArtist(ctx, item.Metadata.Artist)
	if err != nil {
		q.fail(item, emit, err.Error())
		return
	}
	q.setProgress(item, progressArtistResolved)
	send(emit, progressEvent(item))

	albumID, err := q.resolver.ResolveAlbum(ctx, item.Metadata.Album, artistID, coverURL)
	if err != nil {
		q.fail(item, emit, err.Error())
		return
	}
	q.setProgress(item, progressAlbumResolved)
	send(emit, progressEvent(item))

	track := models.Track{
		Title:    item.Metadata.Title,
		ArtistID: artistID,
		AlbumID:  albumID,
		Duration: item.Metadata.Duration,
		FileURL:  fileURL,
		Owner:    q.session.OwnerID(),
	}
	if _, err := q.records.CreateTrack(ctx, track); err != nil {
		q.fail(item, emit, err.Error())
		return
	}

	q.mu.Lock()
	item.Status = models.StatusComplete
	item.Progress = progressDone
	q.mu.Unlock()

	q.logger.Info("uploaded track", "title", item.Metadata.Title, "artist", item.Metadata.Artist)
	send(emit, progressEvent(item))
	send(emit, completeEvent(item))
}

// fail marks an item errored without touching its progress, so the display
// layer shows where in the pipeline it stopped.
func (q *UploadQueue) fail(item *models.QueueItem, emit Emit, message string) {
	q.mu.Lock()
	item.Status = models.StatusError
	item.Err = message
	q.mu.Unlock()

	q.logger.Error("upload failed", "file", item.File.Name, "error", message)
	send(emit, itemErrorEvent(item, message))
}

func (q *UploadQueue) setStatus(item *models.QueueItem, status models.Status) {
	q.mu.Lock()
	item.Status = status
	q.mu.Unlock()
}

func (q *UploadQueue) setProgress(item *models.QueueItem, progress int) {
	q.mu.Lock()
	if progress > item.Progress {
		item.Progress = progress
	}
	q.mu.Unlock()
}
