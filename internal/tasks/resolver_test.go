package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	mtest "github.com/jlwilt7/lockedin-music/internal/testing"
)

func newTestResolver(t *testing.T) (*EntityResolver, *mtest.FakeRecordStore) {
	t.Helper()
	records := &mtest.FakeRecordStore{}
	session := &mtest.FakeSession{UserID: "user-1", Token: "tok"}
	return NewEntityResolver(records, session, nil, shared.NewLogger(io.Discard)), records
}

func TestResolveArtist(t *testing.T) {
	t.Run("creates then memoizes", func(t *testing.T) {
		r, records := newTestResolver(t)

		first, err := r.ResolveArtist(context.Background(), "Daft Punk")
		if err != nil {
			t.Fatalf("ResolveArtist failed: %v", err)
		}
		second, err := r.ResolveArtist(context.Background(), "Daft Punk")
		if err != nil {
			t.Fatalf("ResolveArtist failed: %v", err)
		}

		if first != second {
			t.Errorf("ids differ across resolutions: %s vs %s", first, second)
		}
		if records.CreateArtistCalls != 1 {
			t.Errorf("create calls = %d, want 1", records.CreateArtistCalls)
		}
		if records.FindArtistCalls != 1 {
			t.Errorf("find calls = %d, want 1 (second resolution memoized)", records.FindArtistCalls)
		}
	})

	t.Run("normalization collapses case and whitespace", func(t *testing.T) {
		r, records := newTestResolver(t)

		first, _ := r.ResolveArtist(context.Background(), "Daft Punk")
		second, err := r.ResolveArtist(context.Background(), "  daft punk ")
		if err != nil {
			t.Fatalf("ResolveArtist failed: %v", err)
		}
		if first != second {
			t.Errorf("case variants resolved to different ids")
		}
		if records.CreateArtistCalls != 1 {
			t.Errorf("create calls = %d, want 1", records.CreateArtistCalls)
		}
	})

	t.Run("finds existing remote record", func(t *testing.T) {
		r, records := newTestResolver(t)
		records.Artists = append(records.Artists, models.Artist{ID: "existing-1", Name: "Aphex Twin", Owner: "user-1"})

		id, err := r.ResolveArtist(context.Background(), "Aphex Twin")
		if err != nil {
			t.Fatalf("ResolveArtist failed: %v", err)
		}
		if id != "existing-1" {
			t.Errorf("id = %s, want existing-1", id)
		}
		if records.CreateArtistCalls != 0 {
			t.Error("existing artist should not be recreated")
		}
	})

	t.Run("requires a live session", func(t *testing.T) {
		records := &mtest.FakeRecordStore{}
		r := NewEntityResolver(records, &mtest.FakeSession{}, nil, shared.NewLogger(io.Discard))

		if _, err := r.ResolveArtist(context.Background(), "Nobody"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("err = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("propagates remote failures", func(t *testing.T) {
		r, records := newTestResolver(t)
		records.FindArtistErr = errContrived

		if _, err := r.ResolveArtist(context.Background(), "Broken"); !errors.Is(err, errContrived) {
			t.Errorf("err = %v, want wrapped contrived failure", err)
		}
	})
}

func TestResolveAlbum(t *testing.T) {
	t.Run("cover url applies only on creation", func(t *testing.T) {
		r, records := newTestResolver(t)

		id, err := r.ResolveAlbum(context.Background(), "Discovery", "artist-1", "https://cdn/cover.jpg")
		if err != nil {
			t.Fatalf("ResolveAlbum failed: %v", err)
		}
		if records.Albums[0].CoverURL != "https://cdn/cover.jpg" {
			t.Errorf("created album cover = %s", records.Albums[0].CoverURL)
		}

		// A later track with different art resolves to the same album and
		// never overwrites the stored cover.
		again, err := r.ResolveAlbum(context.Background(), "Discovery", "artist-1", "https://cdn/other.jpg")
		if err != nil {
			t.Fatalf("ResolveAlbum failed: %v", err)
		}
		if again != id {
			t.Errorf("ids differ: %s vs %s", again, id)
		}
		if records.Albums[0].CoverURL != "https://cdn/cover.jpg" {
			t.Errorf("existing album cover overwritten: %s", records.Albums[0].CoverURL)
		}
		if records.CreateAlbumCalls != 1 {
			t.Errorf("create calls = %d, want 1", records.CreateAlbumCalls)
		}
	})

	t.Run("same title under different artists stays distinct", func(t *testing.T) {
		r, records := newTestResolver(t)

		a, _ := r.ResolveAlbum(context.Background(), "Greatest Hits", "artist-1", "")
		b, err := r.ResolveAlbum(context.Background(), "Greatest Hits", "artist-2", "")
		if err != nil {
			t.Fatalf("ResolveAlbum failed: %v", err)
		}
		if a == b {
			t.Error("albums under different artists share an id")
		}
		if records.CreateAlbumCalls != 2 {
			t.Errorf("create calls = %d, want 2", records.CreateAlbumCalls)
		}
	})
}

func TestResolverForget(t *testing.T) {
	r, records := newTestResolver(t)

	if _, err := r.ResolveArtist(context.Background(), "Burial"); err != nil {
		t.Fatalf("ResolveArtist failed: %v", err)
	}
	r.Forget()
	if _, err := r.ResolveArtist(context.Background(), "Burial"); err != nil {
		t.Fatalf("ResolveArtist failed: %v", err)
	}

	if records.FindArtistCalls != 2 {
		t.Errorf("find calls = %d, want 2 after Forget", records.FindArtistCalls)
	}
	if records.CreateArtistCalls != 1 {
		t.Errorf("create calls = %d, want 1 (record already remote)", records.CreateArtistCalls)
	}
}
