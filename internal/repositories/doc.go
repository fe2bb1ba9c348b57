// Package repositories implements SQLite persistence for the local
// resolution cache.
//
// The remote record store is the source of truth for artists, albums, and
// tracks; the cache only memoizes the outcome of get-or-create resolutions
// (remote ids keyed by the entity uniqueness key and owner) so repeated
// uploads skip a remote lookup round-trip. Entries carry an atomic sequence
// number for stable human-readable ordering and soft-delete timestamps,
// matching the rest of the local schema conventions.
//
// Cache misses are never errors, and a cold or absent cache only costs extra
// remote lookups.
package repositories
