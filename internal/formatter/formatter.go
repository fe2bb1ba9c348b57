// package formatter renders library listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
)

// TracksToCSV converts a track listing to CSV with columns: ID, Title, Artist, Album, Duration, FileURL
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "FileURL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.ArtistName,
			track.AlbumTitle,
			strconv.Itoa(track.Duration),
			track.FileURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToMarkdown converts a track listing to Markdown under the given heading
func TracksToMarkdown(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.AlbumTitle != "" {
			albumPart = fmt.Sprintf(" (%s)", track.AlbumTitle)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.ArtistName, track.Title, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// TracksToText converts a track listing to plain text format
func TracksToText(title string, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Library: %s\n", title))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.ArtistName, track.Title))
	}

	return buf.Bytes(), nil
}

// TracksToJSON generates an indented JSON representation of a track listing
func TracksToJSON(tracks []models.Track) ([]byte, error) {
	return shared.MarshalJSON(tracks, true)
}

// WriteExport renders a track listing in the given format and writes it to
// baseFilepath plus a format-appropriate extension. Returns the path written.
//
// Supported formats: csv, md, txt, json.
func WriteExport(title string, tracks []models.Track, format, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "library"
	}

	var data []byte
	var err error
	var path string

	switch format {
	case "csv":
		data, err = TracksToCSV(tracks)
		path = baseFilepath + ".csv"
	case "md", "markdown":
		data, err = TracksToMarkdown(title, tracks)
		path = baseFilepath + ".md"
	case "txt", "text":
		data, err = TracksToText(title, tracks)
		path = baseFilepath + ".txt"
	case "json":
		data, err = TracksToJSON(tracks)
		path = baseFilepath + ".json"
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
