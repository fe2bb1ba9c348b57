package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	"github.com/jlwilt7/lockedin-music/internal/tasks"
	"github.com/jlwilt7/lockedin-music/internal/ui"
	"github.com/urfave/cli/v3"
)

// fileRefs stats the given paths and builds upload handles for them.
// Unreadable paths are reported and skipped.
func (r *Runner) fileRefs(paths []string) []models.FileRef {
	refs := make([]models.FileRef, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			r.writePlain("✗ %s: %v\n", path, err)
			continue
		}
		refs = append(refs, models.FileRef{
			Path:        path,
			Name:        filepath.Base(path),
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
		})
	}
	return refs
}

// UploadRun uploads the given files sequentially, printing progress per item.
func (r *Runner) UploadRun(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.StringArgs("files")
	if len(paths) == 0 {
		return fmt.Errorf("%w: no files given", shared.ErrMissingArgument)
	}

	if err := r.requireSession(ctx); err != nil {
		return err
	}

	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	queue := r.buildQueue(cache)

	emit := func(e tasks.Event) {
		switch e.Kind {
		case tasks.EventAdded:
			r.writePlain("• Queued: %s - %s\n", e.Item.Metadata.Artist, e.Item.Metadata.Title)
		case tasks.EventStatus:
			r.writePlain("⇡ Uploading %s...\n", e.Item.File.Name)
		case tasks.EventProgress:
			r.writePlain("  %d%%\n", e.Item.Progress)
		case tasks.EventComplete:
			r.writePlain("✓ Done: %s\n", e.Item.Metadata.Title)
		case tasks.EventError:
			if e.Item != nil {
				r.writePlain("✗ Failed: %s (%s)\n", e.Item.File.Name, e.Message)
			} else {
				r.writePlain("✗ Skipped: %s\n", e.Message)
			}
		}
	}

	queue.Enqueue(ctx, r.fileRefs(paths), emit)
	if queue.Len() == 0 {
		return fmt.Errorf("%w: no valid audio files to upload", shared.ErrInvalidInput)
	}

	r.writePlain("\n")
	queue.Process(ctx, emit)

	done, failed := 0, 0
	for _, item := range queue.Items() {
		switch item.Status {
		case models.StatusComplete:
			done++
		case models.StatusError:
			failed++
		}
	}

	r.writePlain("\n")
	r.writePlainHeader("Upload Complete!")
	r.writePlain("Uploaded: %d\n", done)
	if failed > 0 {
		r.writePlain("Failed: %d (rerun with the same files to retry)\n", failed)
	}

	return nil
}

// UploadUI launches the interactive terminal UI for reviewing and uploading
// a batch of files.
func (r *Runner) UploadUI(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.StringArgs("files")
	if len(paths) == 0 {
		return fmt.Errorf("%w: no files given", shared.ErrMissingArgument)
	}

	if err := r.requireSession(ctx); err != nil {
		return err
	}

	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lockedin-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	queue := r.buildQueue(cache)
	queue.Enqueue(ctx, r.fileRefs(paths), func(e tasks.Event) {
		if e.Kind == tasks.EventError {
			r.writePlain("✗ Skipped: %s\n", e.Message)
		}
	})
	if queue.Len() == 0 {
		return fmt.Errorf("%w: no valid audio files to upload", shared.ErrInvalidInput)
	}

	model := ui.NewModel(ctx, queue)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
