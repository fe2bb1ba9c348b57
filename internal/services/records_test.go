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

	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	tu "github.com/jlwilt7/lockedin-music/internal/testing"
)

func newTestRecords(t *testing.T, handler http.HandlerFunc) *RecordsService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	session := &tu.FakeSession{UserID: "user-1", Token: "token-1"}
	return NewRecordsService(server.URL, "anon-key", session, nil, 0)
}

func TestRecordsService(t *testing.T) {
	t.Run("FindArtist", func(t *testing.T) {
		t.Run("returns the first matching row", func(t *testing.T) {
			records := newTestRecords(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/rest/v1/artists" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("name"); got != "eq.Daft Punk" {
					t.Errorf("name filter = %s", got)
				}
				if got := r.URL.Query().Get("user_id"); got != "eq.user-1" {
					t.Errorf("owner filter = %s", got)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
					t.Errorf("Authorization = %s", got)
				}
				json.NewEncoder(w).Encode([]models.Artist{{ID: "a1", Name: "Daft Punk", Owner: "user-1"}})
			})

			artist, err := records.FindArtist(context.Background(), "Daft Punk", "user-1")
			if err != nil {
				t.Fatalf("FindArtist failed: %v", err)
			}
			if artist == nil || artist.ID != "a1" {
				t.Errorf("artist = %+v, want id a1", artist)
			}
		})

		t.Run("empty row set means not found", func(t *testing.T) {
			records := newTestRecords(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "[]")
			})

			artist, err := records.FindArtist(context.Background(), "Nobody", "user-1")
			if err != nil {
				t.Fatalf("FindArtist failed: %v", err)
			}
			if artist != nil {
				t.Errorf("expected nil artist, got %+v", artist)
			}
		})
	})

	t.Run("CreateArtist", func(t *testing.T) {
		t.Run("asks for the created representation back", func(t *testing.T) {
			records := newTestRecords(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				if got := r.Header.Get("Prefer"); got != "return=representation" {
					t.Errorf("Prefer = %s", got)
				}

				var sent models.Artist
				json.NewDecoder(r.Body).Decode(&sent)
				if sent.Name != "Burial" {
					t.Errorf("sent name = %s", sent.Name)
				}

				sent.ID = "a2"
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode([]models.Artist{sent})
			})

			artist, err := records.CreateArtist(context.Background(), models.Artist{Name: "Burial", Owner: "user-1"})
			if err != nil {
				t.Fatalf("CreateArtist failed: %v", err)
			}
			if artist.ID != "a2" {
				t.Errorf("artist id = %s, want a2", artist.ID)
			}
		})

		t.Run("empty representation is an error", func(t *testing.T) {
			records := newTestRecords(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				io.WriteString(w, "[]")
			})

			_, err := records.CreateArtist(context.Background(), models.Artist{Name: "X", Owner: "user-1"})
			if !errors.Is(err, shared.ErrRemoteRequest) {
				t.Errorf("err = %v, want ErrRemoteRequest", err)
			}
		})
	})

	t.Run("ListTracks flattens embedded artist and album fields", func(t *testing.T) {
		records := newTestRecords(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("select"); got != "*,artists(name),albums(title,cover_url)" {
				t.Errorf("select = %s", got)
			}
			if got := r.URL.Query().Get("order"); got != "title.asc" {
				t.Errorf("order = %s", got)
			}
			io.WriteString(w, `[
				{"id":"t1","title":"Archangel","user_id":"user-1","duration":234,
				 "artists":{"name":"Burial"},
				 "albums":{"title":"Untrue","cover_url":"https://x/cover.jpg"}},
				{"id":"t2","title":"Loner","user_id":"user-1","duration":200,
				 "artists":null,"albums":null}
			]`)
		})

		tracks, err := records.ListTracks(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("ListTracks failed: %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].ArtistName != "Burial" {
			t.Errorf("artist name = %s, want Burial", tracks[0].ArtistName)
		}
		if tracks[0].AlbumTitle != "Untrue" || tracks[0].CoverURL != "https://x/cover.jpg" {
			t.Errorf("album fields not flattened: %+v", tracks[0])
		}
		if tracks[1].ArtistName != "" || tracks[1].AlbumTitle != "" {
			t.Errorf("missing joins should stay empty: %+v", tracks[1])
		}
	})

	t.Run("DeleteTrack filters by id and owner", func(t *testing.T) {
		records := newTestRecords(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("method = %s, want DELETE", r.Method)
			}
			if got := r.URL.Query().Get("id"); got != "eq.t1" {
				t.Errorf("id filter = %s", got)
			}
			if got := r.URL.Query().Get("user_id"); got != "eq.user-1" {
				t.Errorf("owner filter = %s", got)
			}
			w.WriteHeader(http.StatusNoContent)
		})

		if err := records.DeleteTrack(context.Background(), "t1", "user-1"); err != nil {
			t.Fatalf("DeleteTrack failed: %v", err)
		}
	})

	t.Run("requests require a valid session", func(t *testing.T) {
		records := NewRecordsService("http://unused", "anon-key", &tu.FakeSession{}, nil, 0)
		if _, err := records.FindArtist(context.Background(), "x", "y"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("err = %v, want ErrNotAuthenticated", err)
		}
	})

	t.Run("non-2xx responses wrap ErrRemoteRequest", func(t *testing.T) {
		records := newTestRecords(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"message":"permission denied"}`)
		})

		_, err := records.ListAlbums(context.Background(), "user-1")
		if !errors.Is(err, shared.ErrRemoteRequest) {
			t.Errorf("err = %v, want ErrRemoteRequest", err)
		}
		if !strings.Contains(err.Error(), "permission denied") {
			t.Errorf("error should carry the response body: %v", err)
		}
	})
}
