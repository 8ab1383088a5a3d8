package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the item repository, each in the same
// transaction as the write it describes.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// ItemCreatedEvent is published after a new Item is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	EventID     uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version     int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID      int64     `json:"item_id"`
	OwnerID     int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ItemUpdatedEvent carries the full state of an Item after an update.
type ItemUpdatedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	Version     int       `json:"version"`
	ItemID      int64     `json:"item_id"`
	OwnerID     int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ItemDeletedEvent is published after an Item is removed.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     int64     `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
