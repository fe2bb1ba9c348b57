package models

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
)

// Fallback display strings used when embedded tags are absent.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Status enumerates the lifecycle states of a [QueueItem].
//
// pending -> uploading -> {complete | error}. Terminal states do not
// transition further except via explicit queue clear/remove.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// Terminal reports whether the status is one the processor never leaves.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// FileRef is an opaque handle to a local audio file queued for upload.
type FileRef struct {
	Path        string // Absolute or working-directory-relative path on disk
	Name        string // Base name, used for validation and title fallback
	Size        int64  // Byte size
	ContentType string // Declared MIME type; may be empty when unknown
}

// Ext returns the file extension without the leading dot, lowercased.
func (f FileRef) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
}

// CoverArt is an embedded picture extracted from audio tags.
type CoverArt struct {
	MIME string // Source format, e.g. image/jpeg
	Data []byte // Raw image bytes
}

// DataURI renders the picture as a self-contained inline image payload for
// display layers.
func (c *CoverArt) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", c.MIME, base64.StdEncoding.EncodeToString(c.Data))
}

// Metadata is the normalized per-file description produced by the extractor.
//
// Title, Artist, and Album always carry display strings; the extractor fills
// fallbacks (cleaned filename, [UnknownArtist], [UnknownAlbum]) when tags are
// absent. Year, Genre, and TrackNumber are zero-valued when unavailable.
type Metadata struct {
	Title       string
	Artist      string
	Album       string
	Year        int
	Genre       string
	TrackNumber int
	CoverArt    *CoverArt // nil when no embedded picture
	Duration    int       // Seconds, resolved by a header probe, not tag parsing
}

// QueueItem is the unit of work in the upload pipeline.
//
// Progress is an integer percentage in [0,100], monotonically non-decreasing
// while uploading. Err is set only when Status is [StatusError].
type QueueItem struct {
	ID       string
	File     FileRef
	Metadata Metadata
	Status   Status
	Progress int
	Err      string
}

// Artist is a remote artist record, unique per (name, owner).
type Artist struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Owner string `json:"user_id"`
}

// Album is a remote album record, unique per (title, artist_id, owner).
//
// CoverURL is set once, by the first uploaded track carrying cover art;
// later uploads to the same album never overwrite it.
type Album struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	ArtistID string `json:"artist_id"`
	Owner    string `json:"user_id"`
	CoverURL string `json:"cover_url,omitempty"`
}

// Track is a remote track record referencing its artist, album, and the
// public locator of the uploaded audio file.
type Track struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	ArtistID string `json:"artist_id"`
	AlbumID  string `json:"album_id"`
	Duration int    `json:"duration"`
	FileURL  string `json:"file_url"`
	Owner    string `json:"user_id"`

	// Joined display fields populated by library listings only.
	ArtistName string `json:"artist_name,omitempty"`
	AlbumTitle string `json:"album_title,omitempty"`
	CoverURL   string `json:"cover_url,omitempty"`
}
