package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jlwilt7/lockedin-music/internal/metadata"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/services"
	"github.com/jlwilt7/lockedin-music/internal/shared"
)

// MetadataSource extracts metadata and duration from local audio files.
// Implemented by [metadata.Extractor]; abstracted for tests.
type MetadataSource interface {
	Parse(ref models.FileRef) models.Metadata
	Duration(ref models.FileRef) int
}

// UploadQueue owns the ordered upload items and their lifecycle.
//
// The queue is an explicit object constructed per session, not shared module
// state: callers hold a reference and all mutation goes through its methods.
// Items transition status only via [UploadQueue.Process].
type UploadQueue struct {
	extractor MetadataSource
	transfer  *FileTransfer
	resolver  *EntityResolver
	records   services.RecordStore
	session   services.SessionProvider
	logger    *log.Logger

	mu         sync.Mutex
	items      []*models.QueueItem
	processing bool
}

// NewUploadQueue creates an empty queue with the provided collaborators.
func NewUploadQueue(extractor MetadataSource, transfer *FileTransfer, resolver *EntityResolver, records services.RecordStore, session services.SessionProvider, logger *log.Logger) *UploadQueue {
	return &UploadQueue{
		extractor: extractor,
		transfer:  transfer,
		resolver:  resolver,
		records:   records,
		session:   session,
		logger:    logger,
	}
}

// Enqueue validates and appends files to the queue in input order.
//
// Rejected files emit exactly one error event each and never enter the
// queue. Accepted files are enriched with tag metadata and a duration probe,
// then appended with status pending and progress 0, emitting an added event.
func (q *UploadQueue) Enqueue(ctx context.Context, files []models.FileRef, emit Emit) {
	for _, file := range files {
		if ctx.Err() != nil {
			return
		}

		if !metadata.ValidAudioFile(file) {
			send(emit, fileErrorEvent(fmt.Sprintf("%s %v", file.Name, shared.ErrInvalidAudioFile)))
			continue
		}

		meta := q.extractor.Parse(file)
		meta.Duration = q.extractor.Duration(file)

		item := &models.QueueItem{
			ID:       shared.GenerateID(),
			File:     file,
			Metadata: meta,
			Status:   models.StatusPending,
		}

		q.mu.Lock()
		q.items = append(q.items, item)
		q.mu.Unlock()

		send(emit, addedEvent(item))
	}
}

// Clear empties the queue unconditionally, discarding all items regardless
// of status.
func (q *UploadQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// ClearFinished removes items that reached a terminal state, keeping pending
// and in-flight items.
func (q *UploadQueue) ClearFinished() {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	for _, item := range q.items {
		if !item.Status.Terminal() {
			kept = append(kept, item)
		}
	}
	q.items = kept
}

// Remove deletes exactly one item by id; a no-op when the id is absent.
func (q *UploadQueue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, item := range q.items {
		if item.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Retry resets a single errored item to pending so the next processing pass
// picks it up again. Items in any other state are left untouched.
func (q *UploadQueue) Retry(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, item := range q.items {
		if item.ID != id {
			continue
		}
		if item.Status != models.StatusError {
			return fmt.Errorf("%w: item %s is %s, not %s", shared.ErrInvalidArgument, id, item.Status, models.StatusError)
		}
		item.Status = models.StatusPending
		item.Progress = 0
		item.Err = ""
		return nil
	}

	return fmt.Errorf("%w: %s", shared.ErrItemNotFound, id)
}

// Items returns a snapshot of the queue in order.
func (q *UploadQueue) Items() []models.QueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]models.QueueItem, len(q.items))
	for i, item := range q.items {
		items[i] = *item
	}
	return items
}

// Len returns the number of queued items.
func (q *UploadQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Processing reports whether a processing pass is in flight.
func (q *UploadQueue) Processing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing
}
