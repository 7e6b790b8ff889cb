package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

// MemoryStore keeps every record in process memory. It implements the same
// contract as SQLStore and backs tests and the MCP binary.
type MemoryStore struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	leagues map[uuid.UUID]models.League
	players map[uuid.UUID]models.Player
	drafts  map[uuid.UUID]models.Draft
	teams   map[uuid.UUID]models.Team
	picks   map[uuid.UUID][]models.DraftPick // by draft
	keepers map[uuid.UUID][]models.Keeper    // by draft
	plans   map[uuid.UUID][]models.DraftPlan // by draft

	teamOrder []uuid.UUID // insertion order for stable listings
}

// NewMemoryStore creates an empty MemoryStore using the real clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(clockwork.NewRealClock())
}

// NewMemoryStoreWithClock creates an empty MemoryStore stamping records with clock.
func NewMemoryStoreWithClock(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clock,
		leagues: make(map[uuid.UUID]models.League),
		players: make(map[uuid.UUID]models.Player),
		drafts:  make(map[uuid.UUID]models.Draft),
		teams:   make(map[uuid.UUID]models.Team),
		picks:   make(map[uuid.UUID][]models.DraftPick),
		keepers: make(map[uuid.UUID][]models.Keeper),
		plans:   make(map[uuid.UUID][]models.DraftPlan),
	}
}

// Leagues

func (m *MemoryStore) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now().UTC()
	league := models.League{
		ID:                     uuid.New(),
		Name:                   req.Name,
		NumberOfTeams:          req.NumberOfTeams,
		RosterSize:             req.RosterSize,
		PositionalRequirements: cloneRequirements(req.PositionalRequirements),
		ScoringCategories:      req.ScoringCategories,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	m.leagues[league.ID] = league
	return cloneLeague(league), nil
}

func (m *MemoryStore) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	league, ok := m.leagues[id]
	if !ok {
		return nil, fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	return cloneLeague(league), nil
}

func (m *MemoryStore) ListLeagues(ctx context.Context) ([]models.League, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	leagues := make([]models.League, 0, len(m.leagues))
	for _, l := range m.leagues {
		leagues = append(leagues, *cloneLeague(l))
	}
	sort.Slice(leagues, func(i, j int) bool {
		return leagues[i].CreatedAt.After(leagues[j].CreatedAt)
	})
	return leagues, nil
}

func (m *MemoryStore) UpdateLeague(ctx context.Context, id uuid.UUID, req UpdateLeagueRequest) (*models.League, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	league, ok := m.leagues[id]
	if !ok {
		return nil, fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	league.Name = req.Name
	league.NumberOfTeams = req.NumberOfTeams
	league.RosterSize = req.RosterSize
	league.PositionalRequirements = cloneRequirements(req.PositionalRequirements)
	league.ScoringCategories = req.ScoringCategories
	league.UpdatedAt = m.clock.Now().UTC()
	m.leagues[id] = league
	return cloneLeague(league), nil
}

func (m *MemoryStore) DeleteLeague(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.leagues[id]; !ok {
		return fmt.Errorf("league %s: %w", id, ErrNotFound)
	}
	for draftID, d := range m.drafts {
		if d.LeagueID == id {
			m.deleteDraftLocked(draftID)
		}
	}
	delete(m.leagues, id)
	return nil
}

// Players

func (m *MemoryStore) UpsertPlayers(ctx context.Context, reqs []UpsertPlayerRequest) ([]models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byName := make(map[string]uuid.UUID, len(m.players))
	for id, p := range m.players {
		byName[playerKey(p.Name)] = id
	}

	now := m.clock.Now().UTC()
	out := make([]models.Player, 0, len(reqs))
	for _, req := range reqs {
		key := playerKey(req.Name)
		if id, ok := byName[key]; ok {
			existing := m.players[id]
			applyUpsert(&existing, req)
			existing.UpdatedAt = now
			m.players[id] = existing
			out = append(out, clonePlayer(existing))
			continue
		}

		p := models.Player{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
		applyUpsert(&p, req)
		m.players[p.ID] = p
		byName[key] = p.ID
		out = append(out, clonePlayer(p))
	}
	return out, nil
}

func (m *MemoryStore) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	cp := clonePlayer(p)
	return &cp, nil
}

func (m *MemoryStore) ListPlayers(ctx context.Context) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	players := make([]models.Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, clonePlayer(p))
	}
	sortPlayersByADP(players)
	return players, nil
}

func (m *MemoryStore) ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.drafts[draftID]; !ok {
		return nil, fmt.Errorf("draft %s: %w", draftID, ErrNotFound)
	}
	drafted := make(map[uuid.UUID]bool, len(m.picks[draftID]))
	for _, pk := range m.picks[draftID] {
		drafted[pk.PlayerID] = true
	}

	players := make([]models.Player, 0, len(m.players))
	for id, p := range m.players {
		if drafted[id] {
			continue
		}
		players = append(players, clonePlayer(p))
	}
	sortPlayersByADP(players)
	return players, nil
}

func (m *MemoryStore) UpdatePlayerTier(ctx context.Context, id uuid.UUID, tier *int) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[id]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	p.Tier = cloneInt(tier)
	p.UpdatedAt = m.clock.Now().UTC()
	m.players[id] = p
	cp := clonePlayer(p)
	return &cp, nil
}

// Drafts

func (m *MemoryStore) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.leagues[req.LeagueID]; !ok {
		return nil, fmt.Errorf("league %s: %w", req.LeagueID, ErrNotFound)
	}

	now := m.clock.Now().UTC()
	d := models.Draft{
		ID:         uuid.New(),
		LeagueID:   req.LeagueID,
		Name:       req.Name,
		Status:     req.Status,
		DraftOrder: cloneIDs(req.DraftOrder),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.drafts[d.ID] = d
	return cloneDraft(d), nil
}

func (m *MemoryStore) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return cloneDraft(d), nil
}

func (m *MemoryStore) ListDraftsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var drafts []models.Draft
	for _, d := range m.drafts {
		if d.LeagueID == leagueID {
			drafts = append(drafts, *cloneDraft(d))
		}
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
	})
	return drafts, nil
}

func (m *MemoryStore) UpdateDraft(ctx context.Context, id uuid.UUID, req UpdateDraftRequest) (*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Status != nil {
		d.Status = *req.Status
	}
	if req.CurrentPick != nil {
		d.CurrentPick = *req.CurrentPick
	}
	if req.DraftOrder != nil {
		d.DraftOrder = cloneIDs(req.DraftOrder)
	}
	d.UpdatedAt = m.clock.Now().UTC()
	m.drafts[id] = d
	return cloneDraft(d), nil
}

func (m *MemoryStore) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[id]; !ok {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	m.deleteDraftLocked(id)
	return nil
}

// deleteDraftLocked cascades a draft delete to its teams, picks, keepers and plans.
func (m *MemoryStore) deleteDraftLocked(id uuid.UUID) {
	for teamID, t := range m.teams {
		if t.DraftID == id {
			delete(m.teams, teamID)
		}
	}
	delete(m.picks, id)
	delete(m.keepers, id)
	delete(m.plans, id)
	delete(m.drafts, id)
}

// Teams

func (m *MemoryStore) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[req.DraftID]; !ok {
		return nil, fmt.Errorf("draft %s: %w", req.DraftID, ErrNotFound)
	}
	if req.IsUserTeam {
		for _, t := range m.teams {
			if t.DraftID == req.DraftID && t.IsUserTeam {
				return nil, fmt.Errorf("draft %s already has a user team: %w", req.DraftID, ErrConflict)
			}
		}
	}

	team := models.Team{
		ID:         uuid.New(),
		DraftID:    req.DraftID,
		Name:       req.Name,
		IsUserTeam: req.IsUserTeam,
		CreatedAt:  m.clock.Now().UTC(),
	}
	m.teams[team.ID] = team
	m.teamOrder = append(m.teamOrder, team.ID)
	return &team, nil
}

func (m *MemoryStore) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.teams[id]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	return &t, nil
}

func (m *MemoryStore) GetTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var teams []models.Team
	for _, id := range m.teamOrder {
		if t, ok := m.teams[id]; ok && t.DraftID == draftID {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

// Picks

func (m *MemoryStore) CreateDraftPick(ctx context.Context, req CreateDraftPickRequest) (*models.DraftPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[req.DraftID]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", req.DraftID, ErrNotFound)
	}
	for _, existing := range m.picks[req.DraftID] {
		if existing.PlayerID == req.PlayerID {
			return nil, fmt.Errorf("player %s already picked: %w", req.PlayerID, ErrConflict)
		}
		if existing.PickNumber == req.PickNumber {
			return nil, fmt.Errorf("pick %d already recorded: %w", req.PickNumber, ErrConflict)
		}
	}

	now := m.clock.Now().UTC()
	pk := models.DraftPick{
		ID:         uuid.New(),
		DraftID:    req.DraftID,
		TeamID:     req.TeamID,
		PlayerID:   req.PlayerID,
		PickNumber: req.PickNumber,
		Slot:       req.Slot,
		CreatedAt:  now,
	}
	m.picks[req.DraftID] = append(m.picks[req.DraftID], pk)

	d.CurrentPick = req.PickNumber
	d.UpdatedAt = now
	m.drafts[req.DraftID] = d
	return &pk, nil
}

func (m *MemoryStore) GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	picks := append([]models.DraftPick(nil), m.picks[draftID]...)
	sort.Slice(picks, func(i, j int) bool { return picks[i].PickNumber < picks[j].PickNumber })
	return picks, nil
}

// ResetDraftPicks deletes every pick of a draft and puts the draft back into
// setup with a zero pick counter.
func (m *MemoryStore) ResetDraftPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[draftID]
	if !ok {
		return 0, fmt.Errorf("draft %s: %w", draftID, ErrNotFound)
	}
	deleted := len(m.picks[draftID])
	delete(m.picks, draftID)

	d.Status = models.DraftStatusSetup
	d.CurrentPick = 0
	d.UpdatedAt = m.clock.Now().UTC()
	m.drafts[draftID] = d
	return deleted, nil
}

// Keepers

func (m *MemoryStore) CreateKeeper(ctx context.Context, req CreateKeeperRequest) (*models.Keeper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[req.DraftID]; !ok {
		return nil, fmt.Errorf("draft %s: %w", req.DraftID, ErrNotFound)
	}
	for _, k := range m.keepers[req.DraftID] {
		if k.PlayerID == req.PlayerID {
			return nil, fmt.Errorf("player %s is already a keeper: %w", req.PlayerID, ErrConflict)
		}
	}

	k := models.Keeper{
		ID:        uuid.New(),
		DraftID:   req.DraftID,
		TeamID:    req.TeamID,
		PlayerID:  req.PlayerID,
		DraftSlot: req.DraftSlot,
		CreatedAt: m.clock.Now().UTC(),
	}
	m.keepers[req.DraftID] = append(m.keepers[req.DraftID], k)
	return &k, nil
}

func (m *MemoryStore) GetKeepersByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Keeper, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keepers := append([]models.Keeper(nil), m.keepers[draftID]...)
	sort.SliceStable(keepers, func(i, j int) bool { return keepers[i].DraftSlot < keepers[j].DraftSlot })
	return keepers, nil
}

func (m *MemoryStore) DeleteKeeper(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for draftID, keepers := range m.keepers {
		for i, k := range keepers {
			if k.ID == id {
				m.keepers[draftID] = append(keepers[:i:i], keepers[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("keeper %s: %w", id, ErrNotFound)
}

// Plans

func (m *MemoryStore) GetDraftPlans(ctx context.Context, draftID uuid.UUID) ([]models.DraftPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return clonePlans(m.plans[draftID]), nil
}

// ReplaceDraftPlans swaps the full plan set for a draft.
func (m *MemoryStore) ReplaceDraftPlans(ctx context.Context, draftID uuid.UUID, inputs []DraftPlanInput) ([]models.DraftPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drafts[draftID]; !ok {
		return nil, fmt.Errorf("draft %s: %w", draftID, ErrNotFound)
	}

	now := m.clock.Now().UTC()
	plans := make([]models.DraftPlan, 0, len(inputs))
	for _, in := range inputs {
		plans = append(plans, models.DraftPlan{
			ID:              uuid.New(),
			DraftID:         draftID,
			PickNumber:      in.PickNumber,
			PlannedPosition: clonePosition(in.PlannedPosition),
			Notes:           in.Notes,
			CreatedAt:       now,
		})
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].PickNumber < plans[j].PickNumber })
	m.plans[draftID] = plans
	return clonePlans(plans), nil
}

// copy helpers keep callers from mutating stored records

func applyUpsert(p *models.Player, req UpsertPlayerRequest) {
	p.Name = req.Name
	p.Positions = append([]models.Position(nil), req.Positions...)
	p.Team = req.Team
	p.ADP = cloneFloat(req.ADP)
	p.Tier = cloneInt(req.Tier)
	p.AuctionValue = cloneFloat(req.AuctionValue)
	p.Stats = cloneStats(req.Stats)
}

func clonePlayer(p models.Player) models.Player {
	p.Positions = append([]models.Position(nil), p.Positions...)
	p.ADP = cloneFloat(p.ADP)
	p.Tier = cloneInt(p.Tier)
	p.AuctionValue = cloneFloat(p.AuctionValue)
	p.Stats = cloneStats(p.Stats)
	return p
}

func cloneLeague(l models.League) *models.League {
	l.PositionalRequirements = cloneRequirements(l.PositionalRequirements)
	return &l
}

func cloneDraft(d models.Draft) *models.Draft {
	d.DraftOrder = cloneIDs(d.DraftOrder)
	return &d
}

func clonePlans(plans []models.DraftPlan) []models.DraftPlan {
	out := make([]models.DraftPlan, len(plans))
	for i, p := range plans {
		p.PlannedPosition = clonePosition(p.PlannedPosition)
		out[i] = p
	}
	return out
}

func cloneRequirements(reqs []models.PositionalRequirement) []models.PositionalRequirement {
	return append([]models.PositionalRequirement(nil), reqs...)
}

func cloneIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return append([]uuid.UUID{}, ids...)
}

func cloneStats(stats map[string]float64) map[string]float64 {
	if stats == nil {
		return nil
	}
	out := make(map[string]float64, len(stats))
	for k, v := range stats {
		out[k] = v
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func clonePosition(v *models.Position) *models.Position {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
