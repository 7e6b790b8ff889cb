package events

import (
	"time"
)

// Event payload types that are shared between the draft, outbox, gateway and
// history packages

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID      string    `json:"pick_id"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Positions   []string  `json:"positions"`
	Round       int       `json:"round"`
	Pick        int       `json:"pick"`
	OverallPick int       `json:"overall_pick"`
	Slot        int       `json:"slot"`
	AutoPick    bool      `json:"auto_pick"`
	MadeAt      time.Time `json:"made_at"`
}

// DraftResetPayload is the payload for a DraftReset event
type DraftResetPayload struct {
	DraftID      string    `json:"draft_id"`
	PicksDeleted int       `json:"picks_deleted"`
	ResetAt      time.Time `json:"reset_at"`
}

// DraftDuplicatedPayload is the payload for a DraftDuplicated event
type DraftDuplicatedPayload struct {
	SourceDraftID string    `json:"source_draft_id"`
	NewDraftID    string    `json:"new_draft_id"`
	Name          string    `json:"name"`
	TeamCount     int       `json:"team_count"`
	KeeperCount   int       `json:"keeper_count"`
	DuplicatedAt  time.Time `json:"duplicated_at"`
}

// DraftStatusChangedPayload is the payload for a DraftStatusChanged event
type DraftStatusChangedPayload struct {
	DraftID   string    `json:"draft_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}
