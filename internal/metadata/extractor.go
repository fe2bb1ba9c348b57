package metadata

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dhowden/tag"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"go.senan.xyz/taglib"
)

// trackPrefixPattern strips leading track numbers like "03 - " or "12." from filenames.
var trackPrefixPattern = regexp.MustCompile(`^\d+[\s._-]+`)

var validContentTypes = map[string]struct{}{
	"audio/mpeg":   {},
	"audio/mp3":    {},
	"audio/flac":   {},
	"audio/x-flac": {},
	"audio/wav":    {},
	"audio/ogg":    {},
	"audio/aac":    {},
	"audio/m4a":    {},
	"audio/x-m4a":  {},
	"audio/mp4":    {},
}

var validExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".wav":  {},
	".ogg":  {},
	".aac":  {},
	".m4a":  {},
	".mp4":  {},
}

// ValidAudioFile reports whether the file's declared content type or filename
// extension matches the audio allow-list.
func ValidAudioFile(ref models.FileRef) bool {
	if _, ok := validContentTypes[strings.ToLower(ref.ContentType)]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(ref.Name))
	_, ok := validExtensions[ext]
	return ok
}

// Extractor reads embedded tags and media properties from local audio files.
type Extractor struct {
	logger *log.Logger
}

// NewExtractor creates an Extractor. A nil logger disables parse-failure logging.
func NewExtractor(logger *log.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Parse extracts a normalized [models.Metadata] from the file at ref.Path.
//
// Parse never fails: tag read errors yield filename-derived fallback values.
// Duration is not set here; callers resolve it separately via [Extractor.Duration].
func (e *Extractor) Parse(ref models.FileRef) models.Metadata {
	meta := fallbackMetadata(ref.Name)

	f, err := os.Open(ref.Path)
	if err != nil {
		e.warn("metadata parse failed, using filename fallback", "file", ref.Name, "err", err)
		return meta
	}
	defer f.Close()

	tags, err := tag.ReadFrom(f)
	if err != nil {
		e.warn("metadata parse failed, using filename fallback", "file", ref.Name, "err", err)
		return meta
	}

	if title := strings.TrimSpace(tags.Title()); title != "" {
		meta.Title = title
	}
	if artist := strings.TrimSpace(tags.Artist()); artist != "" {
		meta.Artist = artist
	}
	if album := strings.TrimSpace(tags.Album()); album != "" {
		meta.Album = album
	}
	if year := tags.Year(); year != 0 {
		meta.Year = year
	}
	if genre := strings.TrimSpace(tags.Genre()); genre != "" {
		meta.Genre = genre
	}
	if trackNo, _ := tags.Track(); trackNo != 0 {
		meta.TrackNumber = trackNo
	}

	if pic := tags.Picture(); pic != nil && len(pic.Data) > 0 {
		mime := pic.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		meta.CoverArt = &models.CoverArt{MIME: mime, Data: pic.Data}
	}

	return meta
}

// Duration probes the file's media properties and returns its length in whole
// seconds. Decode failures return 0 rather than failing the pipeline.
func (e *Extractor) Duration(ref models.FileRef) int {
	properties, err := taglib.ReadProperties(ref.Path)
	if err != nil {
		e.warn("duration probe failed", "file", ref.Name, "err", err)
		return 0
	}
	if properties.Length <= 0 {
		return 0
	}
	return int(properties.Length.Round(time.Second).Seconds())
}

func (e *Extractor) warn(msg string, kv ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, kv...)
	}
}

// fallbackMetadata derives display values from the filename alone.
func fallbackMetadata(name string) models.Metadata {
	return models.Metadata{
		Title:  CleanFileName(name),
		Artist: models.UnknownArtist,
		Album:  models.UnknownAlbum,
	}
}

// CleanFileName converts a filename into a usable track title: the extension
// is stripped, a leading track-number prefix is removed, underscores become
// spaces, and the result is trimmed.
func CleanFileName(name string) string {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	title = trackPrefixPattern.ReplaceAllString(title, "")
	title = strings.ReplaceAll(title, "_", " ")
	return strings.TrimSpace(title)
}
