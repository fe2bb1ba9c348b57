// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for uploading a batch of audio files:
//  1. [QueueView] : Review queued files with their extracted metadata
//  2. [ConfirmView] : Confirm the upload batch
//  3. [UploadView] : Monitor per-item progress as the queue processes
//  4. [ResultView] : Display per-item outcomes and retry failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Queue events flow through a channel bridged from the processor's callback,
// providing non-blocking status reporting during uploads.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
