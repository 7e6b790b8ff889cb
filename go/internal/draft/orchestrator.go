package draft

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/pick"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
)

// AdvanceToUserTurn auto-drafts for computer teams until the user team is on
// the clock or the board is full. A draft without a user team runs to the end.
// Picks made before a failure are returned alongside the error.
func (a *App) AdvanceToUserTurn(ctx context.Context, draftID uuid.UUID) ([]AutoPickResult, error) {
	unlock := a.locks.lock(draftID)
	defer unlock()

	d, err := a.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Status == models.DraftStatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrDraftCompleted, draftID)
	}
	league, err := a.loadLeague(ctx, d.LeagueID)
	if err != nil {
		return nil, err
	}
	totalPicks := league.TotalPicks()
	if totalPicks <= 0 {
		return nil, validationErr("league %s has no roster spots", league.Name)
	}
	teams, err := a.repo.GetTeamsByDraft(ctx, draftID)
	if err != nil {
		return nil, storeErr("list teams", err)
	}
	user := userTeam(teams)

	var results []AutoPickResult
	for picksMade := d.CurrentPick; picksMade < totalPicks; picksMade++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		onClock, err := pick.TeamOnClock(d.DraftOrder, picksMade)
		if err != nil {
			return results, err
		}
		if user != nil && onClock == user.ID {
			break
		}

		res, err := a.autoDraftPick(ctx, draftID, onClock)
		if err != nil {
			return results, err
		}
		results = append(results, *res)
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("auto_picks", len(results)).
		Msg("advanced draft to user turn")
	return results, nil
}
