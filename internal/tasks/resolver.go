package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/repositories"
	"github.com/jlwilt7/lockedin-music/internal/services"
	"github.com/jlwilt7/lockedin-music/internal/shared"
)

// EntityResolver performs owner-scoped get-or-create resolution of artists
// and albums.
//
// Resolution order: in-process memo, local SQLite cache, remote exact-match
// lookup, remote create. Results land back in both cache layers, so a batch
// of tracks sharing one artist costs at most one remote round-trip for that
// artist. The SQLite cache is optional; without it resolution still works,
// just with more remote lookups across runs.
type EntityResolver struct {
	records services.RecordStore
	session services.SessionProvider
	cache   *repositories.ResolutionCache
	logger  *log.Logger

	mu       sync.Mutex
	resolved map[string]string
}

// NewEntityResolver creates an EntityResolver. cache may be nil.
func NewEntityResolver(records services.RecordStore, session services.SessionProvider, cache *repositories.ResolutionCache, logger *log.Logger) *EntityResolver {
	return &EntityResolver{
		records:  records,
		session:  session,
		cache:    cache,
		logger:   logger,
		resolved: make(map[string]string),
	}
}

// ResolveArtist returns the id of the owner's artist with the given name,
// creating the record when none exists.
func (r *EntityResolver) ResolveArtist(ctx context.Context, name string) (string, error) {
	owner := r.session.OwnerID()
	if owner == "" {
		return "", shared.ErrNotAuthenticated
	}

	key := shared.NormalizeEntityKey(name)
	if id := r.lookup(repositories.KindArtist, owner, key); id != "" {
		return id, nil
	}

	artist, err := r.records.FindArtist(ctx, name, owner)
	if err != nil {
		return "", fmt.Errorf("artist lookup failed: %w", err)
	}

	if artist == nil {
		artist, err = r.records.CreateArtist(ctx, models.Artist{Name: name, Owner: owner})
		if err != nil {
			return "", fmt.Errorf("artist create failed: %w", err)
		}
		r.logger.Debug("created artist", "name", name, "id", artist.ID)
	}

	r.remember(repositories.KindArtist, owner, key, artist.ID)
	return artist.ID, nil
}

// ResolveAlbum returns the id of the owner's album with the given title under
// the given artist, creating the record when none exists. coverURL is only
// applied on creation; an existing album keeps its cover.
func (r *EntityResolver) ResolveAlbum(ctx context.Context, title, artistID, coverURL string) (string, error) {
	owner := r.session.OwnerID()
	if owner == "" {
		return "", shared.ErrNotAuthenticated
	}

	key := shared.NormalizeEntityKey(title, artistID)
	if id := r.lookup(repositories.KindAlbum, owner, key); id != "" {
		return id, nil
	}

	album, err := r.records.FindAlbum(ctx, title, artistID, owner)
	if err != nil {
		return "", fmt.Errorf("album lookup failed: %w", err)
	}

	if album == nil {
		album, err = r.records.CreateAlbum(ctx, models.Album{
			Title:    title,
			ArtistID: artistID,
			Owner:    owner,
			CoverURL: coverURL,
		})
		if err != nil {
			return "", fmt.Errorf("album create failed: %w", err)
		}
		r.logger.Debug("created album", "title", title, "id", album.ID)
	}

	r.remember(repositories.KindAlbum, owner, key, album.ID)
	return album.ID, nil
}

// Forget drops all memoized resolutions, forcing the next resolution of each
// entity back to the cache and remote layers.
func (r *EntityResolver) Forget() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = make(map[string]string)
}

func memoKey(kind, owner, key string) string {
	return kind + "|" + owner + "|" + key
}

func (r *EntityResolver) lookup(kind, owner, key string) string {
	r.mu.Lock()
	if id, ok := r.resolved[memoKey(kind, owner, key)]; ok {
		r.mu.Unlock()
		return id
	}
	r.mu.Unlock()

	if r.cache == nil {
		return ""
	}

	id, err := r.cache.Lookup(kind, owner, key)
	if err != nil {
		r.logger.Warn("resolution cache lookup failed", "kind", kind, "error", err)
		return ""
	}
	if id != "" {
		r.mu.Lock()
		r.resolved[memoKey(kind, owner, key)] = id
		r.mu.Unlock()
	}
	return id
}

func (r *EntityResolver) remember(kind, owner, key, id string) {
	r.mu.Lock()
	r.resolved[memoKey(kind, owner, key)] = id
	r.mu.Unlock()

	if r.cache == nil {
		return
	}
	if err := r.cache.Store(kind, owner, key, id); err != nil {
		r.logger.Warn("resolution cache store failed", "kind", kind, "error", err)
	}
}
