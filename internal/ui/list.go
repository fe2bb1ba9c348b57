package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
)

var _ list.Item = queueItem{}

// queueItem wraps [models.QueueItem] to implement [list.Item].
type queueItem struct {
	item models.QueueItem
}

func (i queueItem) FilterValue() string { return i.item.Metadata.Title }
func (i queueItem) Title() string       { return i.item.Metadata.Title }
func (i queueItem) Description() string {
	desc := i.item.Metadata.Artist
	if i.item.Metadata.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Metadata.Album)
	}
	if i.item.Metadata.Duration > 0 {
		desc = fmt.Sprintf("%s [%s]", desc, shared.FormatDuration(i.item.Metadata.Duration))
	}

	switch i.item.Status {
	case models.StatusUploading:
		desc = fmt.Sprintf("%s • %d%%", desc, i.item.Progress)
	case models.StatusComplete:
		desc = fmt.Sprintf("%s • done", desc)
	case models.StatusError:
		desc = fmt.Sprintf("%s • failed: %s", desc, i.item.Err)
	}
	return desc
}

// queueListItems converts a queue snapshot into list items.
func queueListItems(items []models.QueueItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = queueItem{item: item}
	}
	return out
}
