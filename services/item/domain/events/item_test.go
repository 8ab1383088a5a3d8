package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/itemtracker/services/item/domain/events"
)

func TestItemCreatedEvent_JSONFieldNames(t *testing.T) {
	desc := "a widget"
	evt := events.ItemCreatedEvent{
		EventID:     uuid.New(),
		Version:     1,
		ItemID:      12,
		OwnerID:     3,
		Name:        "Widget",
		Description: &desc,
		OccurredAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "item_id", "user_id", "name", "description", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}

func TestItemUpdatedEvent_NullDescription(t *testing.T) {
	data, err := json.Marshal(events.ItemUpdatedEvent{ItemID: 1, Name: "n"})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded events.ItemUpdatedEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if decoded.Description != nil {
		t.Fatalf("expected nil description, got %q", *decoded.Description)
	}
}

func TestTopics(t *testing.T) {
	tests := map[string]string{
		events.TopicItemCreated: "item.created",
		events.TopicItemUpdated: "item.updated",
		events.TopicItemDeleted: "item.deleted",
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
