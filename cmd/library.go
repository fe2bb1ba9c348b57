package main

import (
	"context"
	"fmt"

	"github.com/jlwilt7/lockedin-music/internal/formatter"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryTracks lists the signed-in user's tracks with joined display fields.
func (r *Runner) LibraryTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	tracks, err := r.records.ListTracks(ctx, r.auth.OwnerID())
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Library (%d tracks)", len(tracks)))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s", i+1, track.ArtistName, track.Title)
		if track.AlbumTitle != "" {
			r.writePlain(" (%s)", track.AlbumTitle)
		}
		r.writePlain(" [%s]\n", shared.FormatDuration(track.Duration))
	}
	return nil
}

// LibraryAlbums lists the signed-in user's albums.
func (r *Runner) LibraryAlbums(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	albums, err := r.records.ListAlbums(ctx, r.auth.OwnerID())
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(albums, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Albums (%d)", len(albums)))
	for i, album := range albums {
		r.writePlain("%d. %s (id: %s)\n", i+1, album.Title, album.ID)
	}
	return nil
}

// LibraryExport writes the track listing to a file in the requested format.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	tracks, err := r.records.ListTracks(ctx, r.auth.OwnerID())
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	title := "Library"
	if session := r.auth.Session(); session != nil && session.DisplayName != "" {
		title = fmt.Sprintf("%s's Library", session.DisplayName)
	}

	path, err := formatter.WriteExport(title, tracks, cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), path)
	return nil
}

// LibraryDeleteTrack removes a track record and its stored audio object.
func (r *Runner) LibraryDeleteTrack(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	owner := r.auth.OwnerID()
	id := cmd.String("id")

	track, err := r.records.GetTrack(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("failed to fetch track: %w", err)
	}
	if track == nil {
		return fmt.Errorf("%w: track %s", shared.ErrRecordNotFound, id)
	}

	if err := r.records.DeleteTrack(ctx, id, owner); err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	r.removeStoredFiles(ctx, []models.Track{*track})

	r.writePlain("✓ Deleted: %s\n", track.Title)
	return nil
}

// LibraryDeleteAlbum removes an album, its tracks, and their stored objects.
func (r *Runner) LibraryDeleteAlbum(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}
	owner := r.auth.OwnerID()
	id := cmd.String("id")

	tracks, err := r.records.TracksByAlbum(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("failed to fetch album tracks: %w", err)
	}

	if err := r.records.DeleteTracksByAlbum(ctx, id, owner); err != nil {
		return fmt.Errorf("failed to delete album tracks: %w", err)
	}
	if err := r.records.DeleteAlbum(ctx, id, owner); err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}

	r.removeStoredFiles(ctx, tracks)

	r.writePlain("✓ Deleted album and %d track(s)\n", len(tracks))
	return nil
}

// removeStoredFiles deletes the storage objects behind the given tracks.
// Failures are logged, not returned: the records are already gone and a
// leaked object is preferable to a half-deleted library.
func (r *Runner) removeStoredFiles(ctx context.Context, tracks []models.Track) {
	var paths []string
	for _, track := range tracks {
		if path := r.store.ObjectPathFromURL(track.FileURL); path != "" {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return
	}

	if err := r.store.Remove(ctx, paths); err != nil {
		r.logger.Warn("failed to remove stored files", "count", len(paths), "error", err)
	}
}
