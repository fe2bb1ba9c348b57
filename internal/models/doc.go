// Package models defines domain entities for the music library upload pipeline.
//
// The package contains two categories of types:
//
// 1. Upload pipeline values: state carried by the queue for each enqueued file
//   - [FileRef] : opaque handle to a local audio file (path, size, content type)
//   - [Metadata] : normalized per-file description extracted from embedded tags
//   - [CoverArt] : embedded picture payload with its source MIME type
//   - [QueueItem] : one file's worth of upload state, tracked independently
//
// 2. Remote records: rows owned by the hosted record store, referenced by id
//   - [Artist] : unique per (name, owner)
//   - [Album] : unique per (title, artist_id, owner)
//   - [Track] : the uploaded song referencing artist, album, and file locator
//
// Every remote record is scoped by an owner column (the authenticated user id);
// the resolver must honor the uniqueness keys before creating new records.
// Queue items transition status only via the queue processor; see [Status].
package models
