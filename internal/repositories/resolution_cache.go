package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jlwilt7/lockedin-music/internal/shared"
)

// Entity kinds stored in the resolution cache.
const (
	KindArtist = "artist"
	KindAlbum  = "album"
)

// CachedResolution is one memoized remote resolution.
type CachedResolution struct {
	ID        string
	Sequence  int
	Kind      string
	Owner     string
	Key       string
	RemoteID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResolutionCache memoizes remote entity ids in SQLite.
//
// Keys are the normalized uniqueness keys from the remote schema: the artist
// name for artists, title|artist_id for albums, always scoped by owner.
type ResolutionCache struct {
	db *sql.DB
}

// NewResolutionCache creates a ResolutionCache with the given database connection
func NewResolutionCache(db *sql.DB) *ResolutionCache {
	return &ResolutionCache{db: db}
}

// NextSequence atomically increments and returns the next cache sequence number.
func NextSequence(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE entity_cache_sequence SET value = value + 1 WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow("SELECT value FROM entity_cache_sequence WHERE id = 1").Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// Lookup returns the memoized remote id for (kind, owner, key), or "" on a
// cache miss. Misses are not errors.
func (c *ResolutionCache) Lookup(kind, owner, key string) (string, error) {
	query := `
		SELECT remote_id
		FROM entity_cache
		WHERE kind = ? AND owner = ? AND key = ? AND deleted_at IS NULL
		LIMIT 1
	`

	var remoteID string
	err := c.db.QueryRow(query, kind, owner, key).Scan(&remoteID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query resolution cache: %w", err)
	}
	return remoteID, nil
}

// Store memoizes a resolved remote id. Storing an already-cached key is a
// no-op (UNIQUE constraint treated as success).
func (c *ResolutionCache) Store(kind, owner, key, remoteID string) error {
	sequence, err := NextSequence(c.db)
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO entity_cache (id, sequence, kind, owner, key, remote_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = c.db.Exec(query, shared.GenerateID(), sequence, kind, owner, key, remoteID, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Invalidate soft-deletes the entry for (kind, owner, key); a no-op when no
// entry exists. Used when a cached id turns out to be stale (remote record
// deleted out of band).
func (c *ResolutionCache) Invalidate(kind, owner, key string) error {
	query := `
		UPDATE entity_cache
		SET deleted_at = ?, updated_at = ?
		WHERE kind = ? AND owner = ? AND key = ? AND deleted_at IS NULL
	`

	now := time.Now()
	if _, err := c.db.Exec(query, now, now, kind, owner, key); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

// List returns all live cache entries for an owner ordered by sequence.
func (c *ResolutionCache) List(owner string) ([]CachedResolution, error) {
	query := `
		SELECT id, sequence, kind, owner, key, remote_id, created_at, updated_at
		FROM entity_cache
		WHERE owner = ? AND deleted_at IS NULL
		ORDER BY sequence ASC
	`

	rows, err := c.db.Query(query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer rows.Close()

	var entries []CachedResolution
	for rows.Next() {
		var entry CachedResolution
		err := rows.Scan(&entry.ID, &entry.Sequence, &entry.Kind, &entry.Owner, &entry.Key, &entry.RemoteID, &entry.CreatedAt, &entry.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// Purge hard-deletes all cache entries for an owner. Returns rows removed.
func (c *ResolutionCache) Purge(owner string) (int64, error) {
	result, err := c.db.Exec("DELETE FROM entity_cache WHERE owner = ?", owner)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return result.RowsAffected()
}
