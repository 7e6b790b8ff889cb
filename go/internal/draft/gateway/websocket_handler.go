package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for draft connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	stateProvider     StateProvider
}

// NewWebSocketHandler creates a new WebSocket handler. stateProvider may be nil.
func NewWebSocketHandler(cm *ConnectionManager, stateProvider StateProvider) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		stateProvider:     stateProvider,
	}
}

// HandleDraftConnection serves /ws/draft?draft_id=<uuid>
func (h *WebSocketHandler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	draftIDStr := r.URL.Query().Get("draft_id")
	if draftIDStr == "" {
		http.Error(w, "draft_id is required", http.StatusBadRequest)
		return
	}
	draftID, err := uuid.Parse(draftIDStr)
	if err != nil {
		http.Error(w, "invalid draft_id format", http.StatusBadRequest)
		return
	}

	var snapshot SnapshotFunc
	if h.stateProvider != nil {
		snapshot = func(ctx context.Context) ([]byte, error) {
			return snapshotMessage(ctx, h.stateProvider, draftID)
		}
		// unknown drafts are rejected before the upgrade
		ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
		_, err = snapshot(ctx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("rejected WebSocket connection")
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}
	}

	// Upgrade writes its own error response on failure
	if err := h.connectionManager.UpgradeConnection(w, r, draftID, snapshot); err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to write connection stats")
	}
}
