package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/pick"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

// DraftRepository defines what the app layer needs from the draft store
type DraftRepository interface {
	CreateDraft(ctx context.Context, req repository.CreateDraftRequest) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ListDraftsByLeague(ctx context.Context, leagueID uuid.UUID) ([]models.Draft, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, req repository.UpdateDraftRequest) (*models.Draft, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error

	CreateTeam(ctx context.Context, req repository.CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Team, error)

	CreateDraftPick(ctx context.Context, req repository.CreateDraftPickRequest) (*models.DraftPick, error)
	GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	ResetDraftPicks(ctx context.Context, draftID uuid.UUID) (int, error)

	CreateKeeper(ctx context.Context, req repository.CreateKeeperRequest) (*models.Keeper, error)
	GetKeepersByDraft(ctx context.Context, draftID uuid.UUID) ([]models.Keeper, error)
	DeleteKeeper(ctx context.Context, id uuid.UUID) error

	GetDraftPlans(ctx context.Context, draftID uuid.UUID) ([]models.DraftPlan, error)
	ReplaceDraftPlans(ctx context.Context, draftID uuid.UUID, inputs []repository.DraftPlanInput) ([]models.DraftPlan, error)
}

// PlayerRepository defines the player reads the draft needs
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.Player, error)
}

// LeaguesRepository defines what the app layer needs from the leagues repository
type LeaguesRepository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
}

// Option configures an App
type Option func(*App)

// WithClock overrides the clock used for event timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(a *App) { a.clock = clock }
}

// WithPublisher sets where draft events go. The default drops them.
func WithPublisher(p events.Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// WithStrategy replaces the auto-pick strategy. The default is NeedBasedStrategy.
func WithStrategy(s AutoPickStrategy) Option {
	return func(a *App) { a.strategy = s }
}

// WithTurnEnforcement makes MakePick reject teams that are not on the clock.
// Off by default so keepers and manual corrections can be entered out of turn.
func WithTurnEnforcement(enforce bool) Option {
	return func(a *App) { a.enforceTurn = enforce }
}

// App handles draft business logic
type App struct {
	repo        DraftRepository
	players     PlayerRepository
	leaguesRepo LeaguesRepository

	clock       clockwork.Clock
	publisher   events.Publisher
	strategy    AutoPickStrategy
	enforceTurn bool
	locks       *draftLocks
}

// NewApp creates a new draft App
func NewApp(repo DraftRepository, players PlayerRepository, leaguesRepo LeaguesRepository, opts ...Option) *App {
	a := &App{
		repo:        repo,
		players:     players,
		leaguesRepo: leaguesRepo,
		clock:       clockwork.NewRealClock(),
		publisher:   events.NopPublisher{},
		strategy:    NeedBasedStrategy{},
		locks:       newDraftLocks(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateDraft creates a new draft in setup with an empty order
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, err
	}

	league, err := a.loadLeague(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}

	d, err := a.repo.CreateDraft(ctx, repository.CreateDraftRequest{
		LeagueID:   league.ID,
		Name:       strings.TrimSpace(req.Name),
		Status:     models.DraftStatusSetup,
		DraftOrder: []uuid.UUID{},
	})
	if err != nil {
		return nil, storeErr("create draft", err)
	}

	log.Info().
		Str("draft_id", d.ID.String()).
		Str("league", league.Name).
		Msg("created draft")
	return d, nil
}

// GetDraft retrieves a draft by ID
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return a.loadDraft(ctx, id)
}

// ListDrafts returns a league's drafts, newest first
func (a *App) ListDrafts(ctx context.Context, leagueID uuid.UUID) ([]models.Draft, error) {
	if _, err := a.loadLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	drafts, err := a.repo.ListDraftsByLeague(ctx, leagueID)
	if err != nil {
		return nil, storeErr("list drafts", err)
	}
	return drafts, nil
}

// DeleteDraft deletes a draft along with its teams, picks, keepers and plans
func (a *App) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	unlock := a.locks.lock(id)
	defer unlock()

	if err := a.repo.DeleteDraft(ctx, id); err != nil {
		return storeErr("delete draft", err)
	}
	a.locks.forget(id)

	log.Info().Str("draft_id", id.String()).Msg("deleted draft")
	return nil
}

// UpdateDraftStatus moves a draft to a new status with validation. Going back
// to setup is only possible through ResetDraft.
func (a *App) UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus) (*models.Draft, error) {
	if err := a.validateDraftStatus(status); err != nil {
		return nil, err
	}

	unlock := a.locks.lock(id)
	defer unlock()

	current, err := a.loadDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.validateStatusTransition(current.Status, status); err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	return a.setStatus(ctx, current, status)
}

// SetDraftOrder replaces the first-round order. The order must be a
// permutation of the draft's teams and can only change before the first pick.
func (a *App) SetDraftOrder(ctx context.Context, draftID uuid.UUID, order []uuid.UUID) (*models.Draft, error) {
	unlock := a.locks.lock(draftID)
	defer unlock()

	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.CurrentPick > 0 {
		return nil, validationErr("draft order cannot change after %d picks", d.CurrentPick)
	}

	teams, err := a.repo.GetTeamsByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list teams", err)
	}
	teamIDs := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}
	if err := pick.ValidateOrder(order, teamIDs); err != nil {
		return nil, err
	}

	updated, err := a.repo.UpdateDraft(ctx, draftID, repository.UpdateDraftRequest{DraftOrder: order})
	if err != nil {
		return nil, storeErr("update draft order", err)
	}

	log.Info().Str("draft_id", draftID.String()).Int("teams", len(order)).Msg("set draft order")
	return updated, nil
}

// TeamOnClock reports the team expected to make the next pick
func (a *App) TeamOnClock(ctx context.Context, draftID uuid.UUID) (*ClockStatus, error) {
	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	league, err := a.loadLeague(ctx, d.LeagueID)
	if err != nil {
		return nil, err
	}
	teams, err := a.repo.GetTeamsByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list teams", err)
	}

	numTeams := len(d.DraftOrder)
	status := &ClockStatus{
		DraftID:     draftID,
		PickNumber:  d.CurrentPick + 1,
		Round:       pick.Round(d.CurrentPick+1, numTeams),
		PickInRound: pick.PickInRound(d.CurrentPick+1, numTeams),
		PicksMade:   d.CurrentPick,
		TotalPicks:  league.TotalPicks(),
	}
	if status.TotalPicks > 0 && d.CurrentPick >= status.TotalPicks {
		status.Complete = true
		return status, nil
	}

	teamID, err := pick.TeamOnClock(d.DraftOrder, d.CurrentPick)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		if teams[i].ID == teamID {
			status.Team = &teams[i]
		}
	}
	if status.Team == nil {
		return nil, fmt.Errorf("team %s from the draft order: %w", teamID, ErrNotFound)
	}

	if user := userTeam(teams); user != nil {
		until, err := pick.PicksUntil(d.DraftOrder, d.CurrentPick, user.ID)
		if err == nil {
			status.PicksUntilUser = &until
			status.UserOnClock = until == 0
		}
	}
	return status, nil
}

// PicksUntilUserTurn returns the forward distance in the draft order from the
// team on the clock to the user team. Zero means the user is on the clock.
func (a *App) PicksUntilUserTurn(ctx context.Context, draftID uuid.UUID) (int, error) {
	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return 0, err
	}
	teams, err := a.repo.GetTeamsByDraft(ctx, draftID)
	if err != nil {
		return 0, storeErr("list teams", err)
	}
	user := userTeam(teams)
	if user == nil {
		return 0, fmt.Errorf("user team for draft %s: %w", draftID, ErrNotFound)
	}
	return pick.PicksUntil(d.DraftOrder, d.CurrentPick, user.ID)
}

// CreateTeam adds a team to a draft in setup
func (a *App) CreateTeam(ctx context.Context, draftID uuid.UUID, name string, isUserTeam bool) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("team name is required")
	}

	unlock := a.locks.lock(draftID)
	defer unlock()

	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftStatusSetup {
		return nil, validationErr("teams can only be added during setup, draft is %s", d.Status)
	}

	team, err := a.repo.CreateTeam(ctx, repository.CreateTeamRequest{
		DraftID:    draftID,
		Name:       name,
		IsUserTeam: isUserTeam,
	})
	if err != nil {
		return nil, storeErr("create team", err)
	}
	return team, nil
}

// ListTeams returns a draft's teams in creation order
func (a *App) ListTeams(ctx context.Context, draftID uuid.UUID) ([]models.Team, error) {
	if _, err := a.loadDraft(ctx, draftID); err != nil {
		return nil, err
	}
	teams, err := a.repo.GetTeamsByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list teams", err)
	}
	return teams, nil
}

// CreateKeeper records a keeper. Keepers are informational: they never skip
// or pre-fill a pick and their players stay in the available pool.
func (a *App) CreateKeeper(ctx context.Context, req CreateKeeperRequest) (*models.Keeper, error) {
	if req.DraftSlot <= 0 {
		return nil, validationErr("draft_slot must be greater than 0")
	}

	unlock := a.locks.lock(req.DraftID)
	defer unlock()

	if _, err := a.loadDraft(ctx, req.DraftID); err != nil {
		return nil, err
	}
	if _, err := a.loadTeam(ctx, req.DraftID, req.TeamID); err != nil {
		return nil, err
	}
	if _, err := a.players.GetPlayer(ctx, req.PlayerID); err != nil {
		return nil, storeErr("get player", err)
	}

	k, err := a.repo.CreateKeeper(ctx, repository.CreateKeeperRequest{
		DraftID:   req.DraftID,
		TeamID:    req.TeamID,
		PlayerID:  req.PlayerID,
		DraftSlot: req.DraftSlot,
	})
	if err != nil {
		return nil, storeErr("create keeper", err)
	}
	return k, nil
}

// ListKeepers returns a draft's keepers ordered by draft slot
func (a *App) ListKeepers(ctx context.Context, draftID uuid.UUID) ([]models.Keeper, error) {
	if _, err := a.loadDraft(ctx, draftID); err != nil {
		return nil, err
	}
	keepers, err := a.repo.GetKeepersByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list keepers", err)
	}
	return keepers, nil
}

func (a *App) DeleteKeeper(ctx context.Context, keeperID uuid.UUID) error {
	if err := a.repo.DeleteKeeper(ctx, keeperID); err != nil {
		return storeErr("delete keeper", err)
	}
	return nil
}

// ListPlans returns the user's draft plan ordered by pick number
func (a *App) ListPlans(ctx context.Context, draftID uuid.UUID) ([]models.DraftPlan, error) {
	if _, err := a.loadDraft(ctx, draftID); err != nil {
		return nil, err
	}
	plans, err := a.repo.GetDraftPlans(ctx, draftID)
	if err != nil {
		return nil, storeErr("list draft plans", err)
	}
	return plans, nil
}

// SaveDraftPlans replaces the whole plan for a draft
func (a *App) SaveDraftPlans(ctx context.Context, draftID uuid.UUID, inputs []repository.DraftPlanInput) ([]models.DraftPlan, error) {
	if err := a.validateDraftPlans(inputs); err != nil {
		return nil, err
	}
	plans, err := a.repo.ReplaceDraftPlans(ctx, draftID, inputs)
	if err != nil {
		return nil, storeErr("save draft plans", err)
	}
	return plans, nil
}

// UpcomingPlans returns up to limit plans for picks not yet made
func (a *App) UpcomingPlans(ctx context.Context, draftID uuid.UUID, limit int) ([]models.DraftPlan, error) {
	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	plans, err := a.repo.GetDraftPlans(ctx, draftID)
	if err != nil {
		return nil, storeErr("list draft plans", err)
	}

	upcoming := make([]models.DraftPlan, 0, len(plans))
	for _, p := range plans {
		if p.PickNumber > d.CurrentPick {
			upcoming = append(upcoming, p)
		}
		if limit > 0 && len(upcoming) == limit {
			break
		}
	}
	return upcoming, nil
}

// loaders

func (a *App) loadDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, storeErr("get draft", err)
	}
	return d, nil
}

func (a *App) loadLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	l, err := a.leaguesRepo.GetLeague(ctx, id)
	if err != nil {
		return nil, storeErr("get league", err)
	}
	return l, nil
}

// loadTeam fetches a team and checks it belongs to draftID
func (a *App) loadTeam(ctx context.Context, draftID, teamID uuid.UUID) (*models.Team, error) {
	t, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, storeErr("get team", err)
	}
	if t.DraftID != draftID {
		return nil, fmt.Errorf("team %s in draft %s: %w", teamID, draftID, ErrNotFound)
	}
	return t, nil
}

func (a *App) setStatus(ctx context.Context, d *models.Draft, status models.DraftStatus) (*models.Draft, error) {
	from := d.Status
	updated, err := a.repo.UpdateDraft(ctx, d.ID, repository.UpdateDraftRequest{Status: &status})
	if err != nil {
		return nil, storeErr("update draft status", err)
	}

	a.publish(ctx, events.TypeDraftStatusChanged, d.ID, events.DraftStatusChangedPayload{
		DraftID:   d.ID.String(),
		From:      string(from),
		To:        string(status),
		ChangedAt: a.clock.Now(),
	})
	log.Info().
		Str("draft_id", d.ID.String()).
		Str("from", string(from)).
		Str("to", string(status)).
		Msg("updated draft status")
	return updated, nil
}

// publish hands an event to the publisher. Delivery failures are logged and
// never fail the command that produced the event.
func (a *App) publish(ctx context.Context, t events.Type, draftID uuid.UUID, payload any) {
	evt, err := events.New(t, draftID, payload, a.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to build event")
		return
	}
	if err := a.publisher.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).
			Str("draft_id", draftID.String()).
			Str("event_type", string(t)).
			Msg("failed to publish event")
	}
}

func userTeam(teams []models.Team) *models.Team {
	for i := range teams {
		if teams[i].IsUserTeam {
			return &teams[i]
		}
	}
	return nil
}

// validation

func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.LeagueID == uuid.Nil {
		return validationErr("league_id is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return validationErr("name is required")
	}
	return nil
}

func (a *App) validateDraftStatus(status models.DraftStatus) error {
	switch status {
	case models.DraftStatusSetup, models.DraftStatusInProgress, models.DraftStatusCompleted:
		return nil
	default:
		return validationErr("invalid draft status: %s", status)
	}
}

// validateStatusTransition checks a status change against the allowed
// transitions. Same-status updates are a no-op.
func (a *App) validateStatusTransition(currentStatus, newStatus models.DraftStatus) error {
	if currentStatus == newStatus {
		return nil
	}

	allowedTransitions := map[models.DraftStatus][]models.DraftStatus{
		models.DraftStatusSetup:      {models.DraftStatusInProgress},
		models.DraftStatusInProgress: {models.DraftStatusCompleted},
		models.DraftStatusCompleted:  {}, // terminal; reset to start over
	}

	allowedNext, exists := allowedTransitions[currentStatus]
	if !exists {
		return fmt.Errorf("%w: unknown current status %s", ErrInvalidTransition, currentStatus)
	}
	for _, allowed := range allowedNext {
		if newStatus == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, currentStatus, newStatus)
}

func (a *App) validateDraftPlans(inputs []repository.DraftPlanInput) error {
	seen := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if in.PickNumber <= 0 {
			return validationErr("pick_number must be greater than 0")
		}
		if seen[in.PickNumber] {
			return validationErr("pick %d is planned more than once", in.PickNumber)
		}
		seen[in.PickNumber] = true
		if in.PlannedPosition != nil && !models.ValidPosition(*in.PlannedPosition) {
			return validationErr("invalid planned position: %s", *in.PlannedPosition)
		}
	}
	return nil
}
