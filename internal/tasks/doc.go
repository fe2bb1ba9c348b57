// Package tasks implements the upload queue and its processing pipeline.
//
// # Core Operations
//
// The [UploadQueue] owns the ordered items and their lifecycle:
//
//  1. [UploadQueue.Enqueue] : validate, extract metadata, probe duration,
//     append items in input order with status pending and progress 0
//  2. [UploadQueue.Process] : sequentially drive each pending item through
//     transfer → artist resolution → album resolution → track creation,
//     isolating per-item failure so one error never aborts the batch
//  3. [UploadQueue.Clear] / [UploadQueue.Remove] / [UploadQueue.Retry] :
//     caller-driven queue mutation; Retry resets a single errored item to
//     pending for the next processing pass
//
// # Progress Reporting
//
// Operations report through an [Emit] callback receiving typed [Event]
// values (added, status, progress, complete, error, queue_complete). Events
// carry a snapshot copy of the item, so consumers observe a consistent view
// regardless of later queue mutation. Delivery is synchronous and in order:
// a test harness can assert the exact event sequence for a scenario.
//
// # Collaborators
//
// [FileTransfer] uploads the audio payload (and, best effort, the extracted
// cover image) through a [services.ObjectStore]. [EntityResolver] performs
// owner-scoped get-or-create resolution of artists and albums against a
// [services.RecordStore], memoizing results in-process and optionally in the
// local SQLite cache. Metadata extraction is abstracted behind
// [MetadataSource] so tests run without real audio files.
package tasks
