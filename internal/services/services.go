// Boundary interfaces for the hosted backend (auth, object storage, records)
package services

import (
	"context"
	"io"

	"github.com/jlwilt7/lockedin-music/internal/models"
)

// SessionProvider resolves the authenticated identity scoping all writes.
type SessionProvider interface {
	// OwnerID returns the current user's id, or "" when no live session exists.
	OwnerID() string

	// AccessToken returns the bearer token for authenticated requests, or ""
	// when no live session exists.
	AccessToken() string
}

// ObjectStore uploads binary payloads to blob storage and returns
// publicly dereferenceable locators.
type ObjectStore interface {
	// Upload stores the payload at the given bucket-relative path and returns
	// its public URL.
	Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error)

	// Remove deletes the objects at the given bucket-relative paths.
	Remove(ctx context.Context, paths []string) error

	// PublicURL derives the public locator for a stored object without a
	// network round-trip.
	PublicURL(path string) string

	// ObjectPathFromURL inverts PublicURL, recovering the bucket-relative
	// path. Returns "" for URLs outside the bucket.
	ObjectPathFromURL(publicURL string) string
}

// RecordStore performs exact-match lookups and mutations against the three
// remote record kinds, each scoped by owner.
type RecordStore interface {
	// FindArtist looks up an artist by (name, owner). Returns (nil, nil) when
	// no match exists.
	FindArtist(ctx context.Context, name, owner string) (*models.Artist, error)

	// CreateArtist inserts a new artist record and returns it with its id set.
	CreateArtist(ctx context.Context, artist models.Artist) (*models.Artist, error)

	// FindAlbum looks up an album by (title, artistID, owner). Returns
	// (nil, nil) when no match exists.
	FindAlbum(ctx context.Context, title, artistID, owner string) (*models.Album, error)

	// CreateAlbum inserts a new album record and returns it with its id set.
	CreateAlbum(ctx context.Context, album models.Album) (*models.Album, error)

	// CreateTrack inserts a new track record and returns it with its id set.
	CreateTrack(ctx context.Context, track models.Track) (*models.Track, error)

	// ListTracks returns the owner's tracks with artist and album display
	// fields joined in.
	ListTracks(ctx context.Context, owner string) ([]models.Track, error)

	// ListAlbums returns the owner's albums.
	ListAlbums(ctx context.Context, owner string) ([]models.Album, error)

	// GetTrack retrieves one of the owner's tracks by id. Returns (nil, nil)
	// when no match exists.
	GetTrack(ctx context.Context, id, owner string) (*models.Track, error)

	// TracksByAlbum returns the owner's tracks belonging to the given album.
	TracksByAlbum(ctx context.Context, albumID, owner string) ([]models.Track, error)

	// DeleteTrack removes one of the owner's tracks by id.
	DeleteTrack(ctx context.Context, id, owner string) error

	// DeleteTracksByAlbum removes all of the owner's tracks in the given album.
	DeleteTracksByAlbum(ctx context.Context, albumID, owner string) error

	// DeleteAlbum removes one of the owner's albums by id.
	DeleteAlbum(ctx context.Context, id, owner string) error
}
