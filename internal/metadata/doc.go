// Package metadata extracts normalized audio metadata for the upload queue.
//
// [Extractor.Parse] reads embedded tags (title, artist, album, year, genre,
// track number, cover picture) and never fails: any parser-level error falls
// back to values derived from the filename (extension stripped, leading
// track-number prefix stripped, underscores converted to spaces, trimmed).
//
// [Extractor.Duration] probes the file's media properties only far enough to
// learn its duration in seconds, returning 0 on decode failure rather than
// propagating an error into the pipeline.
//
// [ValidAudioFile] gates enqueueing on a fixed allow-list of audio MIME types
// and extensions; rejected files never enter the queue.
package metadata
