package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicUserRegistered is the Watermill topic published when a User is created,
// including the default owner synthesized for ownerless items.
const TopicUserRegistered = "account.user_registered"

// UserRegisteredEvent is published in the same transaction as the user insert.
// It never carries the password hash.
type UserRegisteredEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}
