package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// CacheList prints the signed-in user's cached entity resolutions.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	if cache == nil {
		r.writePlain("No cache database; run 'lockedin setup database' first\n")
		return nil
	}
	defer db.Close()

	entries, err := cache.List(r.auth.OwnerID())
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Resolution Cache (%d entries)", len(entries)))
	for _, entry := range entries {
		r.writePlain("%4d. [%s] %s → %s\n", entry.Sequence, entry.Kind, entry.Key, entry.RemoteID)
	}
	return nil
}

// CachePurge removes all cached resolutions for the signed-in user.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	cache, db, err := r.openCache()
	if err != nil {
		return err
	}
	if cache == nil {
		r.writePlain("No cache database; nothing to purge\n")
		return nil
	}
	defer db.Close()

	removed, err := cache.Purge(r.auth.OwnerID())
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	r.writePlain("✓ Purged %d cache entries\n", removed)
	return nil
}
