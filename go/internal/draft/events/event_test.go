package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	draftID := uuid.New()
	at := time.Date(2025, 3, 1, 7, 30, 0, 0, time.FixedZone("EST", -5*3600))

	evt, err := New(TypePickMade, draftID, PickMadePayload{
		PlayerName:  "Bobby Witt Jr.",
		Positions:   []string{"SS"},
		Round:       1,
		Pick:        3,
		OverallPick: 3,
	}, at)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, evt.ID)
	assert.Equal(t, TypePickMade, evt.Type)
	assert.Equal(t, draftID, evt.DraftID)
	assert.Equal(t, time.UTC, evt.OccurredAt.Location())
	assert.True(t, at.Equal(evt.OccurredAt))

	var payload PickMadePayload
	require.NoError(t, evt.Decode(&payload))
	assert.Equal(t, "Bobby Witt Jr.", payload.PlayerName)
	assert.Equal(t, []string{"SS"}, payload.Positions)
	assert.Equal(t, 3, payload.OverallPick)
}

func TestNew_UniqueIDs(t *testing.T) {
	a, err := New(TypeDraftReset, uuid.New(), DraftResetPayload{}, time.Now())
	require.NoError(t, err)
	b, err := New(TypeDraftReset, uuid.New(), DraftResetPayload{}, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNew_UnmarshalablePayload(t *testing.T) {
	_, err := New(TypePickMade, uuid.New(), map[string]any{"ch": make(chan int)}, time.Now())
	assert.Error(t, err)
}

func TestEvent_JSONEnvelope(t *testing.T) {
	evt, err := New(TypeDraftStatusChanged, uuid.New(), DraftStatusChangedPayload{From: "setup", To: "in_progress"}, time.Now())
	require.NoError(t, err)

	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "DraftStatusChanged", generic["type"])
	payload, ok := generic["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "in_progress", payload["to"])
}

func TestEvent_DecodeError(t *testing.T) {
	evt := Event{Type: TypePickMade, Payload: json.RawMessage(`{"round":"one"}`)}
	var payload PickMadePayload
	assert.Error(t, evt.Decode(&payload))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
