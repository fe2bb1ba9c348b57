package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jlwilt7/lockedin-music/internal/shared"
	tu "github.com/jlwilt7/lockedin-music/internal/testing"
)

func TestStorageService(t *testing.T) {
	t.Run("Upload", func(t *testing.T) {
		t.Run("stores the object and returns the public url", func(t *testing.T) {
			var gotPath, gotAuth, gotAPIKey, gotUpsert string
			var gotBody []byte

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				gotAPIKey = r.Header.Get("apikey")
				gotUpsert = r.Header.Get("x-upsert")
				gotBody, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			session := &tu.FakeSession{UserID: "user-1", Token: "token-1"}
			store := NewStorageService(server.URL, "anon-key", "music", session, nil)

			publicURL, err := store.Upload(context.Background(), "user-1/track.mp3", strings.NewReader("audio bytes"), "audio/mpeg")
			if err != nil {
				t.Fatalf("Upload failed: %v", err)
			}

			if gotPath != "/storage/v1/object/music/user-1/track.mp3" {
				t.Errorf("request path = %s", gotPath)
			}
			if gotAuth != "Bearer token-1" {
				t.Errorf("Authorization = %s", gotAuth)
			}
			if gotAPIKey != "anon-key" {
				t.Errorf("apikey = %s", gotAPIKey)
			}
			if gotUpsert != "false" {
				t.Errorf("x-upsert = %s", gotUpsert)
			}
			if string(gotBody) != "audio bytes" {
				t.Errorf("body = %s", gotBody)
			}

			want := server.URL + "/storage/v1/object/public/music/user-1/track.mp3"
			if publicURL != want {
				t.Errorf("publicURL = %s, want %s", publicURL, want)
			}
		})

		t.Run("requires a valid session", func(t *testing.T) {
			store := NewStorageService("http://unused", "anon-key", "music", &tu.FakeSession{}, nil)
			if _, err := store.Upload(context.Background(), "x", strings.NewReader(""), "audio/mpeg"); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("err = %v, want ErrNotAuthenticated", err)
			}
		})

		t.Run("wraps error responses", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"message":"The resource already exists"}`))
			}))
			defer server.Close()

			session := &tu.FakeSession{UserID: "user-1", Token: "token-1"}
			store := NewStorageService(server.URL, "anon-key", "music", session, nil)

			_, err := store.Upload(context.Background(), "x", strings.NewReader(""), "audio/mpeg")
			if !errors.Is(err, shared.ErrUploadFailed) {
				t.Errorf("err = %v, want ErrUploadFailed", err)
			}
			if !strings.Contains(err.Error(), "409") {
				t.Errorf("error should carry the status: %v", err)
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		t.Run("deletes by prefix list", func(t *testing.T) {
			var gotMethod string
			var gotPrefixes map[string][]string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				json.NewDecoder(r.Body).Decode(&gotPrefixes)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			session := &tu.FakeSession{UserID: "user-1", Token: "token-1"}
			store := NewStorageService(server.URL, "anon-key", "music", session, nil)

			paths := []string{"user-1/a.mp3", "user-1/covers/b.jpg"}
			if err := store.Remove(context.Background(), paths); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}

			if gotMethod != http.MethodDelete {
				t.Errorf("method = %s, want DELETE", gotMethod)
			}
			if len(gotPrefixes["prefixes"]) != 2 || gotPrefixes["prefixes"][0] != "user-1/a.mp3" {
				t.Errorf("prefixes = %v", gotPrefixes["prefixes"])
			}
		})

		t.Run("empty path list is a no-op", func(t *testing.T) {
			store := NewStorageService("http://unused", "anon-key", "music", &tu.FakeSession{}, nil)
			if err := store.Remove(context.Background(), nil); err != nil {
				t.Errorf("Remove of nothing should succeed: %v", err)
			}
		})
	})

	t.Run("ObjectPathFromURL", func(t *testing.T) {
		store := NewStorageService("https://proj.supabase.co", "anon-key", "music", &tu.FakeSession{}, nil)

		path := "user-1/my track.mp3"
		roundTripped := store.ObjectPathFromURL(store.PublicURL(path))
		if roundTripped != path {
			t.Errorf("round trip = %q, want %q", roundTripped, path)
		}

		if got := store.ObjectPathFromURL("https://elsewhere.example/file.mp3"); got != "" {
			t.Errorf("foreign url should yield empty path, got %q", got)
		}
	})
}
