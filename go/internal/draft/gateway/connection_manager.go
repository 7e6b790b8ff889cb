package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
)

// ConnectionConfig tunes the websocket watchers.
type ConnectionConfig struct {
	WriteWait   time.Duration
	PongWait    time.Duration
	PingPeriod  time.Duration
	ReadLimit   int64
	BufferSize  int
	SendBuffer  int
	QueueSize   int
	CheckOrigin func(r *http.Request) bool
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: 30 * time.Second,
		ReadLimit:  1024,
		BufferSize: 1024,
		SendBuffer: 256,
		QueueSize:  1000,
		// the board is served to a local single-user UI
		CheckOrigin: func(*http.Request) bool { return true },
	}
}

// ConnectionManager fans draft events out to the websocket clients watching
// each draft. Clients only listen; every command goes through the HTTP API.
type ConnectionManager struct {
	cfg      ConnectionConfig
	upgrader websocket.Upgrader
	queue    chan events.Event

	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*watcher]struct{}
}

type watcher struct {
	id      string
	draftID uuid.UUID
	ws      *websocket.Conn
	first   []byte // snapshot, written before anything queued on out
	out     chan []byte
	since   time.Time
}

func NewConnectionManager(cfg ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.BufferSize,
			WriteBufferSize: cfg.BufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		queue: make(chan events.Event, cfg.QueueSize),
		rooms: make(map[uuid.UUID]map[*watcher]struct{}),
	}
}

// Start delivers queued events until ctx is done, then disconnects everyone.
func (cm *ConnectionManager) Start(ctx context.Context) {
	log.Info().Msg("draft watcher hub started")
	for {
		select {
		case <-ctx.Done():
			cm.dropAll()
			log.Info().Msg("draft watcher hub stopped")
			return
		case evt := <-cm.queue:
			cm.deliver(evt)
		}
	}
}

// Publish lets the manager act as an outbox sink.
func (cm *ConnectionManager) Publish(_ context.Context, evt events.Event) error {
	cm.BroadcastToDraft(evt)
	return nil
}

// BroadcastToDraft queues evt for the draft's watchers without blocking.
func (cm *ConnectionManager) BroadcastToDraft(evt events.Event) {
	select {
	case cm.queue <- evt:
	default:
		log.Warn().
			Str("draft_id", evt.DraftID.String()).
			Str("event_type", string(evt.Type)).
			Msg("watcher queue full, dropping event")
	}
}

// UpgradeConnection upgrades the request and subscribes the client to a
// draft. The watcher joins its room before snapshot runs, so an event
// published meanwhile is queued behind the snapshot instead of lost. Clients
// may see such an event twice and dedupe by event ID.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request, draftID uuid.UUID, snapshot SnapshotFunc) error {
	ws, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	wt := &watcher{
		id:      uuid.NewString(),
		draftID: draftID,
		ws:      ws,
		out:     make(chan []byte, cm.cfg.SendBuffer),
		since:   time.Now(),
	}
	cm.join(wt)

	if snapshot != nil {
		ctx, cancel := context.WithTimeout(r.Context(), snapshotTimeout)
		wt.first, err = snapshot(ctx)
		cancel()
		if err != nil {
			cm.leave(wt)
			_ = ws.Close()
			return fmt.Errorf("failed to build snapshot: %w", err)
		}
	}

	go cm.writeLoop(wt)
	go cm.readLoop(wt)
	return nil
}

func (cm *ConnectionManager) join(wt *watcher) {
	cm.mu.Lock()
	room := cm.rooms[wt.draftID]
	if room == nil {
		room = make(map[*watcher]struct{})
		cm.rooms[wt.draftID] = room
	}
	room[wt] = struct{}{}
	n := len(room)
	cm.mu.Unlock()

	log.Info().
		Str("connection_id", wt.id).
		Str("draft_id", wt.draftID.String()).
		Int("watchers", n).
		Msg("draft watcher joined")
}

// leave is safe to call more than once; only the first call closes out.
func (cm *ConnectionManager) leave(wt *watcher) {
	cm.mu.Lock()
	room := cm.rooms[wt.draftID]
	if _, ok := room[wt]; !ok {
		cm.mu.Unlock()
		return
	}
	delete(room, wt)
	if len(room) == 0 {
		delete(cm.rooms, wt.draftID)
	}
	close(wt.out)
	cm.mu.Unlock()

	log.Info().
		Str("connection_id", wt.id).
		Str("draft_id", wt.draftID.String()).
		Dur("connected_for", time.Since(wt.since)).
		Msg("draft watcher left")
}

func (cm *ConnectionManager) dropAll() {
	cm.mu.RLock()
	var all []*watcher
	for _, room := range cm.rooms {
		for wt := range room {
			all = append(all, wt)
		}
	}
	cm.mu.RUnlock()

	for _, wt := range all {
		cm.leave(wt)
	}
}

func (cm *ConnectionManager) deliver(evt events.Event) {
	frame, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("event_id", evt.ID.String()).Msg("failed to encode event for watchers")
		return
	}

	var slow []*watcher
	cm.mu.RLock()
	room := cm.rooms[evt.DraftID]
	for wt := range room {
		select {
		case wt.out <- frame:
		default:
			slow = append(slow, wt)
		}
	}
	delivered := len(room) - len(slow)
	cm.mu.RUnlock()

	// a watcher that cannot keep up is dropped; it resyncs from the snapshot on reconnect
	for _, wt := range slow {
		log.Warn().Str("connection_id", wt.id).Msg("watcher send buffer full, disconnecting")
		cm.leave(wt)
	}

	log.Debug().
		Str("event_type", string(evt.Type)).
		Str("draft_id", evt.DraftID.String()).
		Int("delivered", delivered).
		Msg("event delivered to watchers")
}

// ConnectionStats summarises who is watching which draft.
type ConnectionStats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveDrafts     int            `json:"active_drafts"`
	DraftConnections map[string]int `json:"draft_connections"`
}

func (cm *ConnectionManager) GetConnectionStats() ConnectionStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := ConnectionStats{
		ActiveDrafts:     len(cm.rooms),
		DraftConnections: make(map[string]int, len(cm.rooms)),
	}
	for draftID, room := range cm.rooms {
		stats.TotalConnections += len(room)
		stats.DraftConnections[draftID.String()] = len(room)
	}
	return stats
}

// ConnectionCount returns the number of clients watching a draft.
func (cm *ConnectionManager) ConnectionCount(draftID uuid.UUID) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.rooms[draftID])
}

func (cm *ConnectionManager) writeLoop(wt *watcher) {
	ping := time.NewTicker(cm.cfg.PingPeriod)
	defer func() {
		ping.Stop()
		_ = wt.ws.Close()
		cm.leave(wt)
	}()

	if wt.first != nil {
		_ = wt.ws.SetWriteDeadline(time.Now().Add(cm.cfg.WriteWait))
		if err := wt.ws.WriteMessage(websocket.TextMessage, wt.first); err != nil {
			log.Debug().Err(err).Str("connection_id", wt.id).Msg("watcher snapshot write failed")
			return
		}
	}

	for {
		var (
			kind = websocket.TextMessage
			data []byte
		)
		select {
		case frame, ok := <-wt.out:
			if !ok {
				_ = wt.ws.SetWriteDeadline(time.Now().Add(cm.cfg.WriteWait))
				_ = wt.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			data = frame
		case <-ping.C:
			kind = websocket.PingMessage
		}

		_ = wt.ws.SetWriteDeadline(time.Now().Add(cm.cfg.WriteWait))
		if err := wt.ws.WriteMessage(kind, data); err != nil {
			log.Debug().Err(err).Str("connection_id", wt.id).Msg("watcher write failed")
			return
		}
	}
}

// readLoop discards client frames and keeps the read deadline fresh on pongs.
func (cm *ConnectionManager) readLoop(wt *watcher) {
	defer func() {
		cm.leave(wt)
		_ = wt.ws.Close()
	}()

	wt.ws.SetReadLimit(cm.cfg.ReadLimit)
	extend := func(string) error {
		return wt.ws.SetReadDeadline(time.Now().Add(cm.cfg.PongWait))
	}
	_ = extend("")
	wt.ws.SetPongHandler(extend)

	for {
		if _, _, err := wt.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("connection_id", wt.id).Msg("unexpected websocket close")
			}
			return
		}
		_ = extend("")
	}
}
