package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jlwilt7/lockedin-music/internal/models"
)

func TestValidAudioFile(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		want        bool
	}{
		{"mp3 by content type", "anything.bin", "audio/mpeg", true},
		{"flac by content type", "x", "audio/flac", true},
		{"uppercase content type", "x", "AUDIO/MPEG", true},
		{"mp3 by extension", "song.mp3", "", true},
		{"uppercase extension", "SONG.MP3", "", true},
		{"m4a by extension", "song.m4a", "application/octet-stream", true},
		{"text file", "notes.txt", "text/plain", false},
		{"image", "cover.png", "image/png", false},
		{"no hints at all", "mystery", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := models.FileRef{Name: tt.fileName, ContentType: tt.contentType}
			if got := ValidAudioFile(ref); got != tt.want {
				t.Errorf("ValidAudioFile(%q, %q) = %v, want %v", tt.fileName, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"song.mp3", "song"},
		{"03 - My Track.mp3", "My Track"},
		{"12.Another_Song.flac", "Another Song"},
		{"01_intro.wav", "intro"},
		{"no_extension", "no extension"},
		{"  spaced.mp3", "spaced"},
		{"2024 vision.mp3", "vision"},
	}

	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Run("untagged file falls back to filename", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "04 - Fallback_Track.mp3")
		if err := os.WriteFile(path, []byte("not a real mp3"), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		e := NewExtractor(nil)
		meta := e.Parse(models.FileRef{Path: path, Name: filepath.Base(path)})

		if meta.Title != "Fallback Track" {
			t.Errorf("title = %q, want %q", meta.Title, "Fallback Track")
		}
		if meta.Artist != models.UnknownArtist {
			t.Errorf("artist = %q, want %q", meta.Artist, models.UnknownArtist)
		}
		if meta.Album != models.UnknownAlbum {
			t.Errorf("album = %q, want %q", meta.Album, models.UnknownAlbum)
		}
		if meta.CoverArt != nil {
			t.Error("expected no cover art from untagged file")
		}
	})

	t.Run("missing file falls back to filename", func(t *testing.T) {
		e := NewExtractor(nil)
		meta := e.Parse(models.FileRef{Path: "/nonexistent/file.mp3", Name: "file.mp3"})

		if meta.Title != "file" {
			t.Errorf("title = %q, want %q", meta.Title, "file")
		}
		if meta.Artist != models.UnknownArtist {
			t.Errorf("artist = %q, want %q", meta.Artist, models.UnknownArtist)
		}
	})
}

func TestDuration(t *testing.T) {
	t.Run("undecodable file returns zero", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.mp3")
		if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		e := NewExtractor(nil)
		if got := e.Duration(models.FileRef{Path: path, Name: "bad.mp3"}); got != 0 {
			t.Errorf("Duration = %d, want 0", got)
		}
	})

	t.Run("missing file returns zero", func(t *testing.T) {
		e := NewExtractor(nil)
		if got := e.Duration(models.FileRef{Path: "/nonexistent.mp3", Name: "nonexistent.mp3"}); got != 0 {
			t.Errorf("Duration = %d, want 0", got)
		}
	})
}
