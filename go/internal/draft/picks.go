package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/events"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/pick"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/roster"
)

// MakePick records a player for a team as the next overall pick. The first
// pick moves a draft out of setup and the last pick completes it.
func (a *App) MakePick(ctx context.Context, req MakePickRequest) (*models.DraftPick, error) {
	if req.Slot < 0 {
		return nil, validationErr("slot cannot be negative")
	}

	unlock := a.locks.lock(req.DraftID)
	defer unlock()

	return a.makePick(ctx, req, false)
}

func (a *App) makePick(ctx context.Context, req MakePickRequest, auto bool) (*models.DraftPick, error) {
	d, err := a.loadDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	if d.Status == models.DraftStatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrDraftCompleted, d.ID)
	}
	league, err := a.loadLeague(ctx, d.LeagueID)
	if err != nil {
		return nil, err
	}
	team, err := a.loadTeam(ctx, req.DraftID, req.TeamID)
	if err != nil {
		return nil, err
	}
	player, err := a.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, storeErr("get player", err)
	}

	picks, err := a.repo.GetDraftPicksByDraft(ctx, req.DraftID)
	if err != nil {
		return nil, storeErr("list picks", err)
	}
	teamPicks := 0
	for _, p := range picks {
		if p.PlayerID == req.PlayerID {
			return nil, fmt.Errorf("%w: %s went at pick %d", ErrPlayerAlreadyDrafted, player.Name, p.PickNumber)
		}
		if p.TeamID == team.ID {
			teamPicks++
		}
	}

	if a.enforceTurn {
		onClock, err := pick.TeamOnClock(d.DraftOrder, len(picks))
		if err != nil {
			return nil, err
		}
		if onClock != team.ID {
			return nil, fmt.Errorf("%w: %s", ErrNotOnClock, team.Name)
		}
	}

	slot := req.Slot
	if slot == 0 {
		slot = teamPicks + 1
	}
	pickNumber := len(picks) + 1

	created, err := a.repo.CreateDraftPick(ctx, repository.CreateDraftPickRequest{
		DraftID:    req.DraftID,
		TeamID:     team.ID,
		PlayerID:   player.ID,
		PickNumber: pickNumber,
		Slot:       slot,
	})
	if err != nil {
		return nil, storeErr("record pick", err)
	}

	switch {
	case league.TotalPicks() > 0 && pickNumber >= league.TotalPicks():
		if d.Status == models.DraftStatusSetup {
			d.Status = models.DraftStatusInProgress
		}
		if _, err := a.setStatus(ctx, d, models.DraftStatusCompleted); err != nil {
			return nil, err
		}
	case d.Status == models.DraftStatusSetup:
		if _, err := a.setStatus(ctx, d, models.DraftStatusInProgress); err != nil {
			return nil, err
		}
	}

	numTeams := len(d.DraftOrder)
	positions := make([]string, len(player.Positions))
	for i, pos := range player.Positions {
		positions[i] = string(pos)
	}
	a.publish(ctx, events.TypePickMade, d.ID, events.PickMadePayload{
		PickID:      created.ID.String(),
		TeamID:      team.ID.String(),
		TeamName:    team.Name,
		PlayerID:    player.ID.String(),
		PlayerName:  player.Name,
		Positions:   positions,
		Round:       pick.Round(pickNumber, numTeams),
		Pick:        pick.PickInRound(pickNumber, numTeams),
		OverallPick: pickNumber,
		Slot:        slot,
		AutoPick:    auto,
		MadeAt:      created.CreatedAt,
	})

	log.Info().
		Str("draft_id", d.ID.String()).
		Str("team", team.Name).
		Str("player", player.Name).
		Int("pick", pickNumber).
		Bool("auto", auto).
		Msg("pick made")
	return created, nil
}

// AutoDraftPick chooses a player for the team from the available pool using
// its remaining roster needs, then records the pick in the team's next slot.
func (a *App) AutoDraftPick(ctx context.Context, draftID, teamID uuid.UUID) (*AutoPickResult, error) {
	unlock := a.locks.lock(draftID)
	defer unlock()

	return a.autoDraftPick(ctx, draftID, teamID)
}

func (a *App) autoDraftPick(ctx context.Context, draftID, teamID uuid.UUID) (*AutoPickResult, error) {
	choice, needs, teamPicks, err := a.suggest(ctx, draftID, teamID)
	if err != nil {
		return nil, err
	}

	created, err := a.makePick(ctx, MakePickRequest{
		DraftID:  draftID,
		TeamID:   teamID,
		PlayerID: choice.ID,
		Slot:     len(teamPicks) + 1,
	}, true)
	if err != nil {
		return nil, err
	}
	return &AutoPickResult{Pick: created, Player: choice, Needs: needs}, nil
}

// SuggestPick returns the player AutoDraftPick would take without recording it.
func (a *App) SuggestPick(ctx context.Context, draftID, teamID uuid.UUID) (*models.Player, roster.Needs, error) {
	choice, needs, _, err := a.suggest(ctx, draftID, teamID)
	return choice, needs, err
}

func (a *App) suggest(ctx context.Context, draftID, teamID uuid.UUID) (*models.Player, roster.Needs, []models.DraftPick, error) {
	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, nil, nil, err
	}
	league, err := a.loadLeague(ctx, d.LeagueID)
	if err != nil {
		return nil, nil, nil, err
	}
	team, err := a.loadTeam(ctx, draftID, teamID)
	if err != nil {
		return nil, nil, nil, err
	}

	picks, err := a.repo.GetDraftPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, nil, nil, storeErr("list picks", err)
	}
	teamPicks := picksForTeam(picks, team.ID)

	available, err := a.players.ListAvailablePlayers(ctx, draftID)
	if err != nil {
		return nil, nil, nil, storeErr("list available players", err)
	}
	lookup, err := a.playerLookup(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	choice, needs, err := ChoosePick(a.strategy, league.PositionalRequirements, teamPicks, available, lookup)
	if err != nil {
		return nil, needs, teamPicks, fmt.Errorf("failed to choose a player for %s: %w", team.Name, err)
	}
	return choice, needs, teamPicks, nil
}

// ResetDraft deletes every pick and returns the draft to setup. Teams, draft
// order, keepers and plans are kept.
func (a *App) ResetDraft(ctx context.Context, draftID uuid.UUID) (int, error) {
	unlock := a.locks.lock(draftID)
	defer unlock()

	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return 0, err
	}
	deleted, err := a.repo.ResetDraftPicks(ctx, draftID)
	if err != nil {
		return 0, storeErr("reset draft", err)
	}

	now := a.clock.Now()
	a.publish(ctx, events.TypeDraftReset, draftID, events.DraftResetPayload{
		DraftID:      draftID.String(),
		PicksDeleted: deleted,
		ResetAt:      now,
	})
	if d.Status != models.DraftStatusSetup {
		a.publish(ctx, events.TypeDraftStatusChanged, draftID, events.DraftStatusChangedPayload{
			DraftID:   draftID.String(),
			From:      string(d.Status),
			To:        string(models.DraftStatusSetup),
			ChangedAt: now,
		})
	}

	log.Info().Str("draft_id", draftID.String()).Int("picks_deleted", deleted).Msg("reset draft")
	return deleted, nil
}

// DuplicateDraft copies a draft's teams, draft order and keepers into a new
// draft in setup with no picks. If any copy step fails the new draft is
// removed and the error returned.
func (a *App) DuplicateDraft(ctx context.Context, draftID uuid.UUID, newName string) (*models.Draft, error) {
	source, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	teams, err := a.repo.GetTeamsByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list teams", err)
	}
	keepers, err := a.repo.GetKeepersByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list keepers", err)
	}

	name := strings.TrimSpace(newName)
	if name == "" {
		name = source.Name + " (Copy)"
	}

	created, err := a.repo.CreateDraft(ctx, repository.CreateDraftRequest{
		LeagueID:   source.LeagueID,
		Name:       name,
		Status:     models.DraftStatusSetup,
		DraftOrder: []uuid.UUID{},
	})
	if err != nil {
		return nil, storeErr("create draft copy", err)
	}

	teamMap := make(map[uuid.UUID]uuid.UUID, len(teams))
	for _, t := range teams {
		clone, err := a.repo.CreateTeam(ctx, repository.CreateTeamRequest{
			DraftID:    created.ID,
			Name:       t.Name,
			IsUserTeam: t.IsUserTeam,
		})
		if err != nil {
			a.discardDraft(ctx, created.ID)
			return nil, storeErr(fmt.Sprintf("copy team %q", t.Name), err)
		}
		teamMap[t.ID] = clone.ID
	}

	order := make([]uuid.UUID, 0, len(source.DraftOrder))
	for _, oldID := range source.DraftOrder {
		if newID, ok := teamMap[oldID]; ok {
			order = append(order, newID)
		}
	}
	newID := created.ID
	created, err = a.repo.UpdateDraft(ctx, newID, repository.UpdateDraftRequest{DraftOrder: order})
	if err != nil {
		a.discardDraft(ctx, newID)
		return nil, storeErr("copy draft order", err)
	}

	copied := 0
	for _, k := range keepers {
		newTeamID, ok := teamMap[k.TeamID]
		if !ok {
			continue
		}
		_, err := a.repo.CreateKeeper(ctx, repository.CreateKeeperRequest{
			DraftID:   created.ID,
			TeamID:    newTeamID,
			PlayerID:  k.PlayerID,
			DraftSlot: k.DraftSlot,
		})
		if err != nil {
			a.discardDraft(ctx, created.ID)
			return nil, storeErr("copy keeper", err)
		}
		copied++
	}

	a.publish(ctx, events.TypeDraftDuplicated, created.ID, events.DraftDuplicatedPayload{
		SourceDraftID: draftID.String(),
		NewDraftID:    created.ID.String(),
		Name:          name,
		TeamCount:     len(teamMap),
		KeeperCount:   copied,
		DuplicatedAt:  a.clock.Now(),
	})

	log.Info().
		Str("draft_id", draftID.String()).
		Str("new_draft_id", created.ID.String()).
		Int("teams", len(teamMap)).
		Msg("duplicated draft")
	return created, nil
}

// discardDraft removes a partially copied draft.
func (a *App) discardDraft(ctx context.Context, id uuid.UUID) {
	if err := a.repo.DeleteDraft(ctx, id); err != nil {
		log.Error().Err(err).Str("draft_id", id.String()).Msg("failed to remove partial draft copy")
	}
}

// ListPicks returns a draft's picks in pick order
func (a *App) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	if _, err := a.loadDraft(ctx, draftID); err != nil {
		return nil, err
	}
	picks, err := a.repo.GetDraftPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list picks", err)
	}
	return picks, nil
}

// TeamRoster returns a team's drafted players and remaining needs
func (a *App) TeamRoster(ctx context.Context, draftID, teamID uuid.UUID) (*RosterView, error) {
	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	league, err := a.loadLeague(ctx, d.LeagueID)
	if err != nil {
		return nil, err
	}
	team, err := a.loadTeam(ctx, draftID, teamID)
	if err != nil {
		return nil, err
	}
	picks, err := a.repo.GetDraftPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list picks", err)
	}
	lookup, err := a.playerLookup(ctx)
	if err != nil {
		return nil, err
	}

	teamPicks := picksForTeam(picks, team.ID)
	return &RosterView{
		Team:    *team,
		Entries: roster.TeamRoster(teamPicks, lookup),
		Needs:   roster.RemainingNeeds(league.PositionalRequirements, teamPicks, lookup),
	}, nil
}

// Board lays the recorded picks over the snake schedule for the league's
// roster size.
func (a *App) Board(ctx context.Context, draftID uuid.UUID) (*Board, error) {
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
	picks, err := a.repo.GetDraftPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list picks", err)
	}
	keepers, err := a.repo.GetKeepersByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list keepers", err)
	}
	lookup, err := a.playerLookup(ctx)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]models.DraftPick, len(picks))
	for _, p := range picks {
		byNumber[p.PickNumber] = p
	}

	slots := pick.Schedule(d.DraftOrder, league.RosterSize)
	cells := make([]BoardCell, 0, len(slots))
	for _, s := range slots {
		cell := BoardCell{Slot: s}
		if p, ok := byNumber[s.OverallPick]; ok {
			cell.Pick = &p
			if pl, ok := lookup(p.PlayerID); ok {
				cell.Player = pl
			}
		}
		cells = append(cells, cell)
	}

	return &Board{
		DraftID: draftID,
		Rounds:  league.RosterSize,
		Teams:   orderTeams(teams, d.DraftOrder),
		Cells:   cells,
		Keepers: keepers,
	}, nil
}

func (a *App) playerLookup(ctx context.Context) (roster.PlayerLookup, error) {
	players, err := a.players.ListPlayers(ctx)
	if err != nil {
		return nil, storeErr("list players", err)
	}
	return roster.LookupFromSlice(players), nil
}

func picksForTeam(picks []models.DraftPick, teamID uuid.UUID) []models.DraftPick {
	var out []models.DraftPick
	for _, p := range picks {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out
}

// orderTeams returns teams in draft order, followed by any team missing from it.
func orderTeams(teams []models.Team, order []uuid.UUID) []models.Team {
	byID := make(map[uuid.UUID]models.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	out := make([]models.Team, 0, len(teams))
	placed := make(map[uuid.UUID]bool, len(order))
	for _, id := range order {
		if t, ok := byID[id]; ok && !placed[id] {
			out = append(out, t)
			placed[id] = true
		}
	}
	for _, t := range teams {
		if !placed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
