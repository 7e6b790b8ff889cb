package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/roster"
)

type updateStatusRequest struct {
	Status models.DraftStatus `json:"status"`
}

type setOrderRequest struct {
	TeamIDs []uuid.UUID `json:"team_ids"`
}

type createTeamRequest struct {
	Name       string `json:"name"`
	IsUserTeam bool   `json:"is_user_team"`
}

type createKeeperRequest struct {
	TeamID    uuid.UUID `json:"team_id"`
	PlayerID  uuid.UUID `json:"player_id"`
	DraftSlot int       `json:"draft_slot"`
}

type makePickRequest struct {
	TeamID   uuid.UUID `json:"team_id"`
	PlayerID uuid.UUID `json:"player_id"`
	Slot     int       `json:"slot"`
}

type autoPickRequest struct {
	TeamID uuid.UUID `json:"team_id"`
}

type duplicateRequest struct {
	Name string `json:"name"`
}

type resetResponse struct {
	PicksDeleted int `json:"picks_deleted"`
}

type suggestionResponse struct {
	Player *models.Player `json:"player"`
	Needs  roster.Needs   `json:"needs"`
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req draft.CreateDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := s.drafts.CreateDraft(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, d)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	d, err := s.drafts.GetDraft(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	if err := s.drafts.DeleteDraft(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateDraftStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := s.drafts.UpdateDraftStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, d)
}

func (s *Server) handleSetDraftOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var req setOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := s.drafts.SetDraftOrder(r.Context(), id, req.TeamIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, d)
}

// Teams

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	teams, err := s.drafts.ListTeams(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, teams)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var req createTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	team, err := s.drafts.CreateTeam(r.Context(), id, req.Name, req.IsUserTeam)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, team)
}

func (s *Server) handleTeamRoster(w http.ResponseWriter, r *http.Request) {
	draftID, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	teamID, ok := pathUUID(w, r, "teamID")
	if !ok {
		return
	}
	view, err := s.drafts.TeamRoster(r.Context(), draftID, teamID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, view)
}

func (s *Server) handleSuggestPick(w http.ResponseWriter, r *http.Request) {
	draftID, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	teamID, ok := pathUUID(w, r, "teamID")
	if !ok {
		return
	}
	p, needs, err := s.drafts.SuggestPick(r.Context(), draftID, teamID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, suggestionResponse{Player: p, Needs: needs})
}

// Keepers

func (s *Server) handleListKeepers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	keepers, err := s.drafts.ListKeepers(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, keepers)
}

func (s *Server) handleCreateKeeper(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var req createKeeperRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	k, err := s.drafts.CreateKeeper(r.Context(), draft.CreateKeeperRequest{
		DraftID:   id,
		TeamID:    req.TeamID,
		PlayerID:  req.PlayerID,
		DraftSlot: req.DraftSlot,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, k)
}

func (s *Server) handleDeleteKeeper(w http.ResponseWriter, r *http.Request) {
	keeperID, ok := pathUUID(w, r, "keeperID")
	if !ok {
		return
	}
	if err := s.drafts.DeleteKeeper(r.Context(), keeperID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Plans

// handleListPlans returns every plan, or with ?upcoming=true only plans for
// picks not yet made, capped by ?limit=.
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("upcoming") != "true" {
		plans, err := s.drafts.ListPlans(r.Context(), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, plans)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(w, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	plans, err := s.drafts.UpcomingPlans(r.Context(), id, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, plans)
}

func (s *Server) handleSaveDraftPlans(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var inputs []repository.DraftPlanInput
	if !decodeJSON(w, r, &inputs) {
		return
	}
	plans, err := s.drafts.SaveDraftPlans(r.Context(), id, inputs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, plans)
}

// Picks

func (s *Server) handleListPicks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	picks, err := s.drafts.ListPicks(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, picks)
}

func (s *Server) handleMakePick(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var req makePickRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := s.drafts.MakePick(r.Context(), draft.MakePickRequest{
		DraftID:  id,
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
		Slot:     req.Slot,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

func (s *Server) handleAutoPick(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var req autoPickRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.drafts.AutoDraftPick(r.Context(), id, req.TeamID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, res)
}

// handleAdvance auto-drafts until the user team is on the clock. Picks made
// before a failure are returned in data next to the error.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	results, err := s.drafts.AdvanceToUserTurn(r.Context(), id)
	if results == nil {
		results = []draft.AutoPickResult{}
	}
	if err != nil {
		respondErrorWithData(w, r, err, results)
		return
	}
	respondData(w, http.StatusOK, results)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	deleted, err := s.drafts.ResetDraft(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, resetResponse{PicksDeleted: deleted})
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	var req duplicateRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	d, err := s.drafts.DuplicateDraft(r.Context(), id, req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, d)
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	status, err := s.drafts.TeamOnClock(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, status)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	board, err := s.drafts.Board(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, board)
}
