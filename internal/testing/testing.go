// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/jlwilt7/lockedin-music/internal/models"
)

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FakeSession is a test double for [services.SessionProvider]
type FakeSession struct {
	UserID string
	Token  string
}

func (s *FakeSession) OwnerID() string     { return s.UserID }
func (s *FakeSession) AccessToken() string { return s.Token }

// FakeObjectStore is a test double for [services.ObjectStore]. It records
// uploaded paths and returns fake public URLs, or fails when UploadErr is set.
type FakeObjectStore struct {
	mu        sync.Mutex
	Uploads   []string
	Removed   []string
	UploadErr error
}

func (s *FakeObjectStore) Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.Uploads = append(s.Uploads, path)
	s.mu.Unlock()
	return s.PublicURL(path), nil
}

func (s *FakeObjectStore) Remove(ctx context.Context, paths []string) error {
	s.mu.Lock()
	s.Removed = append(s.Removed, paths...)
	s.mu.Unlock()
	return nil
}

func (s *FakeObjectStore) PublicURL(path string) string {
	return "https://fake.storage/music/" + path
}

func (s *FakeObjectStore) ObjectPathFromURL(publicURL string) string {
	return strings.TrimPrefix(publicURL, "https://fake.storage/music/")
}

// FakeRecordStore is an in-memory test double for [services.RecordStore].
//
// Records are stored in insertion order with synthetic sequential ids.
// Per-method error fields force failures at specific pipeline steps, and the
// call counters let tests assert how many remote round-trips a scenario cost.
type FakeRecordStore struct {
	mu      sync.Mutex
	nextID  int
	Artists []models.Artist
	Albums  []models.Album
	Tracks  []models.Track

	FindArtistCalls   int
	CreateArtistCalls int
	FindAlbumCalls    int
	CreateAlbumCalls  int
	CreateTrackCalls  int

	FindArtistErr   error
	CreateArtistErr error
	FindAlbumErr    error
	CreateAlbumErr  error
	CreateTrackErr  error
	DeleteErr       error
}

func (s *FakeRecordStore) id() string {
	s.nextID++
	return fmt.Sprintf("fake-%04d", s.nextID)
}

func (s *FakeRecordStore) FindArtist(ctx context.Context, name, owner string) (*models.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindArtistCalls++
	if s.FindArtistErr != nil {
		return nil, s.FindArtistErr
	}
	for _, a := range s.Artists {
		if a.Name == name && a.Owner == owner {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (s *FakeRecordStore) CreateArtist(ctx context.Context, artist models.Artist) (*models.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateArtistCalls++
	if s.CreateArtistErr != nil {
		return nil, s.CreateArtistErr
	}
	artist.ID = s.id()
	s.Artists = append(s.Artists, artist)
	created := artist
	return &created, nil
}

func (s *FakeRecordStore) FindAlbum(ctx context.Context, title, artistID, owner string) (*models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindAlbumCalls++
	if s.FindAlbumErr != nil {
		return nil, s.FindAlbumErr
	}
	for _, a := range s.Albums {
		if a.Title == title && a.ArtistID == artistID && a.Owner == owner {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (s *FakeRecordStore) CreateAlbum(ctx context.Context, album models.Album) (*models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateAlbumCalls++
	if s.CreateAlbumErr != nil {
		return nil, s.CreateAlbumErr
	}
	album.ID = s.id()
	s.Albums = append(s.Albums, album)
	created := album
	return &created, nil
}

func (s *FakeRecordStore) CreateTrack(ctx context.Context, track models.Track) (*models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateTrackCalls++
	if s.CreateTrackErr != nil {
		return nil, s.CreateTrackErr
	}
	track.ID = s.id()
	s.Tracks = append(s.Tracks, track)
	created := track
	return &created, nil
}

func (s *FakeRecordStore) ListTracks(ctx context.Context, owner string) ([]models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tracks []models.Track
	for _, t := range s.Tracks {
		if t.Owner == owner {
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

func (s *FakeRecordStore) ListAlbums(ctx context.Context, owner string) ([]models.Album, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var albums []models.Album
	for _, a := range s.Albums {
		if a.Owner == owner {
			albums = append(albums, a)
		}
	}
	return albums, nil
}

func (s *FakeRecordStore) GetTrack(ctx context.Context, id, owner string) (*models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.Tracks {
		if t.ID == id && t.Owner == owner {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (s *FakeRecordStore) TracksByAlbum(ctx context.Context, albumID, owner string) ([]models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tracks []models.Track
	for _, t := range s.Tracks {
		if t.AlbumID == albumID && t.Owner == owner {
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

func (s *FakeRecordStore) DeleteTrack(ctx context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for i, t := range s.Tracks {
		if t.ID == id && t.Owner == owner {
			s.Tracks = append(s.Tracks[:i], s.Tracks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *FakeRecordStore) DeleteTracksByAlbum(ctx context.Context, albumID, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	kept := s.Tracks[:0]
	for _, t := range s.Tracks {
		if !(t.AlbumID == albumID && t.Owner == owner) {
			kept = append(kept, t)
		}
	}
	s.Tracks = kept
	return nil
}

func (s *FakeRecordStore) DeleteAlbum(ctx context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for i, a := range s.Albums {
		if a.ID == id && a.Owner == owner {
			s.Albums = append(s.Albums[:i], s.Albums[i+1:]...)
			return nil
		}
	}
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
