package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names an event. It doubles as the last token of the NATS subject.
type Type string

const (
	TypePickMade           Type = "PickMade"
	TypeDraftReset         Type = "DraftReset"
	TypeDraftDuplicated    Type = "DraftDuplicated"
	TypeDraftStatusChanged Type = "DraftStatusChanged"
)

// Event is the envelope every draft event travels in.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       Type            `json:"type"`
	DraftID    uuid.UUID       `json:"draft_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// New wraps payload in an envelope with a fresh ID.
func New(t Type, draftID uuid.UUID, payload any, at time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
	}
	return Event{
		ID:         uuid.New(),
		Type:       t,
		DraftID:    draftID,
		OccurredAt: at.UTC(),
		Payload:    raw,
	}, nil
}

// Decode unmarshals the payload into dst.
func (e Event) Decode(dst any) error {
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
	}
	return nil
}

// Publisher delivers events. Implementations must not block the caller for long.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
