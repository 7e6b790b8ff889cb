package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
)

// TypeSnapshot is the first message a client receives after connecting.
const TypeSnapshot events.Type = "Snapshot"

const snapshotTimeout = 5 * time.Second

// SnapshotFunc builds the encoded snapshot frame for a newly connected client.
type SnapshotFunc func(ctx context.Context) ([]byte, error)

// StateProvider returns the current state of a draft for newly connected
// clients. An error rejects the connection.
type StateProvider interface {
	DraftState(ctx context.Context, draftID uuid.UUID) (any, error)
}

// StateProviderFunc adapts a function to a StateProvider.
type StateProviderFunc func(ctx context.Context, draftID uuid.UUID) (any, error)

func (f StateProviderFunc) DraftState(ctx context.Context, draftID uuid.UUID) (any, error) {
	return f(ctx, draftID)
}

func snapshotMessage(ctx context.Context, p StateProvider, draftID uuid.UUID) ([]byte, error) {
	state, err := p.DraftState(ctx, draftID)
	if err != nil {
		return nil, err
	}
	evt, err := events.New(TypeSnapshot, draftID, state, time.Now())
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}
