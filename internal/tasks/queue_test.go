package tasks

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	mtest "github.com/jlwilt7/lockedin-music/internal/testing"
)

type fakeExtractor struct{}

func (fakeExtractor) Parse(ref models.FileRef) models.Metadata {
	return models.Metadata{
		Title:  ref.Name,
		Artist: "Test Artist",
		Album:  "Test Album",
	}
}

func (fakeExtractor) Duration(ref models.FileRef) int { return 185 }

// newTestQueue wires a queue over in-memory fakes, returning the fakes for
// assertions.
func newTestQueue(t *testing.T) (*UploadQueue, *mtest.FakeRecordStore, *mtest.FakeObjectStore) {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	session := &mtest.FakeSession{UserID: "user-1", Token: "tok"}
	records := &mtest.FakeRecordStore{}
	store := &mtest.FakeObjectStore{}
	transfer := NewFileTransfer(store, session, logger)
	resolver := NewEntityResolver(records, session, nil, logger)
	return NewUploadQueue(fakeExtractor{}, transfer, resolver, records, session, logger), records, store
}

// writeAudioFile drops a small fake mp3 on disk and returns its FileRef.
func writeAudioFile(t *testing.T, dir, name string) models.FileRef {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("not really audio"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return models.FileRef{Path: path, Name: name, Size: 16, ContentType: "audio/mpeg"}
}

// collectEvents returns an Emit that appends into the given slice.
func collectEvents(events *[]Event) Emit {
	return func(e Event) { *events = append(*events, e) }
}

func TestEnqueue(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid files enter in input order", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		files := []models.FileRef{
			writeAudioFile(t, dir, "01 first.mp3"),
			writeAudioFile(t, dir, "02 second.flac"),
			writeAudioFile(t, dir, "03 third.wav"),
		}

		var events []Event
		q.Enqueue(context.Background(), files, collectEvents(&events))

		items := q.Items()
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		for i, item := range items {
			if item.File.Name != files[i].Name {
				t.Errorf("item %d out of order: got %s, want %s", i, item.File.Name, files[i].Name)
			}
			if item.Status != models.StatusPending {
				t.Errorf("item %d status = %s, want pending", i, item.Status)
			}
			if item.Progress != 0 {
				t.Errorf("item %d progress = %d, want 0", i, item.Progress)
			}
			if item.ID == "" {
				t.Errorf("item %d has no id", i)
			}
			if item.Metadata.Duration != 185 {
				t.Errorf("item %d duration = %d, want 185", i, item.Metadata.Duration)
			}
		}
		if len(events) != 3 {
			t.Fatalf("expected 3 added events, got %d", len(events))
		}
		for i, e := range events {
			if e.Kind != EventAdded {
				t.Errorf("event %d kind = %s, want added", i, e.Kind)
			}
		}
	})

	t.Run("invalid files emit one error and never enter", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		files := []models.FileRef{
			{Path: filepath.Join(dir, "notes.txt"), Name: "notes.txt", ContentType: "text/plain"},
			writeAudioFile(t, dir, "song.mp3"),
			{Path: filepath.Join(dir, "cover.png"), Name: "cover.png", ContentType: "image/png"},
		}

		var events []Event
		q.Enqueue(context.Background(), files, collectEvents(&events))

		if q.Len() != 1 {
			t.Fatalf("expected 1 queued item, got %d", q.Len())
		}
		if q.Items()[0].File.Name != "song.mp3" {
			t.Errorf("wrong item queued: %s", q.Items()[0].File.Name)
		}

		errCount := 0
		for _, e := range events {
			if e.Kind == EventError {
				errCount++
				if e.Item != nil {
					t.Error("validation error event should not carry an item")
				}
			}
		}
		if errCount != 2 {
			t.Errorf("expected 2 error events, got %d", errCount)
		}
	})

	t.Run("nil emit is safe", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		q.Enqueue(context.Background(), []models.FileRef{writeAudioFile(t, dir, "quiet.mp3")}, nil)
		if q.Len() != 1 {
			t.Errorf("expected 1 item, got %d", q.Len())
		}
	})
}

func TestQueueMutation(t *testing.T) {
	dir := t.TempDir()

	t.Run("clear empties regardless of status", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		q.Enqueue(context.Background(), []models.FileRef{
			writeAudioFile(t, dir, "a.mp3"),
			writeAudioFile(t, dir, "b.mp3"),
		}, nil)
		q.Process(context.Background(), nil)

		q.Clear()
		if q.Len() != 0 {
			t.Errorf("expected empty queue, got %d items", q.Len())
		}
	})

	t.Run("clear finished keeps pending items", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		q.Enqueue(context.Background(), []models.FileRef{writeAudioFile(t, dir, "done.mp3")}, nil)
		q.Process(context.Background(), nil)
		q.Enqueue(context.Background(), []models.FileRef{writeAudioFile(t, dir, "waiting.mp3")}, nil)

		q.ClearFinished()
		items := q.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].File.Name != "waiting.mp3" {
			t.Errorf("kept wrong item: %s", items[0].File.Name)
		}
	})

	t.Run("remove deletes exactly one item by id", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		q.Enqueue(context.Background(), []models.FileRef{
			writeAudioFile(t, dir, "keep1.mp3"),
			writeAudioFile(t, dir, "drop.mp3"),
			writeAudioFile(t, dir, "keep2.mp3"),
		}, nil)

		target := q.Items()[1].ID
		q.Remove(target)

		items := q.Items()
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		for _, item := range items {
			if item.ID == target {
				t.Error("removed item still present")
			}
		}

		q.Remove("no-such-id")
		if q.Len() != 2 {
			t.Errorf("remove of unknown id changed the queue")
		}
	})
}

func TestRetry(t *testing.T) {
	dir := t.TempDir()

	t.Run("errored item resets to pending", func(t *testing.T) {
		q, records, _ := newTestQueue(t)
		records.CreateTrackErr = errContrived
		q.Enqueue(context.Background(), []models.FileRef{writeAudioFile(t, dir, "flaky.mp3")}, nil)
		q.Process(context.Background(), nil)

		item := q.Items()[0]
		if item.Status != models.StatusError {
			t.Fatalf("precondition: item status = %s, want error", item.Status)
		}

		if err := q.Retry(item.ID); err != nil {
			t.Fatalf("Retry failed: %v", err)
		}
		item = q.Items()[0]
		if item.Status != models.StatusPending || item.Progress != 0 || item.Err != "" {
			t.Errorf("item not reset: status=%s progress=%d err=%q", item.Status, item.Progress, item.Err)
		}

		// Next pass picks it up again once the fault clears.
		records.CreateTrackErr = nil
		q.Process(context.Background(), nil)
		if got := q.Items()[0].Status; got != models.StatusComplete {
			t.Errorf("status after retry pass = %s, want complete", got)
		}
	})

	t.Run("non-errored item is rejected", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		q.Enqueue(context.Background(), []models.FileRef{writeAudioFile(t, dir, "fresh.mp3")}, nil)
		if err := q.Retry(q.Items()[0].ID); err == nil {
			t.Error("expected error retrying a pending item")
		}
	})

	t.Run("unknown id is rejected", func(t *testing.T) {
		q, _, _ := newTestQueue(t)
		if err := q.Retry("missing"); err == nil {
			t.Error("expected error for unknown id")
		}
	})
}
