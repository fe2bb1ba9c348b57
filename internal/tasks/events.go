package tasks

import (
	"github.com/jlwilt7/lockedin-music/internal/models"
)

// EventKind enumerates the queue event types.
type EventKind int

const (
	EventAdded         EventKind = iota // Item appended to the queue
	EventStatus                         // Item status changed (pending -> uploading)
	EventProgress                       // Item progress advanced
	EventComplete                       // Item finished successfully
	EventError                          // Item or file failed
	EventQueueComplete                  // Processing pass finished (batch-scoped)
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventStatus:
		return "status"
	case EventProgress:
		return "progress"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	case EventQueueComplete:
		return "queue_complete"
	default:
		return ""
	}
}

// Event is one progress notification from the queue.
//
// Item is a snapshot copy taken at emission time; it is nil for
// queue_complete and for validation errors of files that never became items.
// Message is set on error events.
type Event struct {
	Kind    EventKind
	Item    *models.QueueItem
	Message string
}

// Emit receives queue events. Delivery is synchronous and ordered; a nil
// Emit disables reporting.
type Emit func(Event)

// send invokes the callback when one is set.
func send(emit Emit, event Event) {
	if emit != nil {
		emit(event)
	}
}

// snapshot copies an item for event payloads.
func snapshot(item *models.QueueItem) *models.QueueItem {
	copied := *item
	return &copied
}

func addedEvent(item *models.QueueItem) Event {
	return Event{Kind: EventAdded, Item: snapshot(item)}
}

func statusEvent(item *models.QueueItem) Event {
	return Event{Kind: EventStatus, Item: snapshot(item)}
}

func progressEvent(item *models.QueueItem) Event {
	return Event{Kind: EventProgress, Item: snapshot(item)}
}

func completeEvent(item *models.QueueItem) Event {
	return Event{Kind: EventComplete, Item: snapshot(item)}
}

func itemErrorEvent(item *models.QueueItem, message string) Event {
	return Event{Kind: EventError, Item: snapshot(item), Message: message}
}

func fileErrorEvent(message string) Event {
	return Event{Kind: EventError, Message: message}
}

func queueCompleteEvent() Event {
	return Event{Kind: EventQueueComplete}
}
