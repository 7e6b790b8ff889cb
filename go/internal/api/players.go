package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
	"github.com/spragsdale/mockdraftapp/go/internal/models"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

type updateTierRequest struct {
	Tier *int `json:"tier"`
}

// playerFilter reads ?position=&search=&limit= into a player.Filter.
func playerFilter(r *http.Request) (player.Filter, error) {
	q := r.URL.Query()
	f := player.Filter{
		Position: models.Position(q.Get("position")),
		Search:   q.Get("search"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("invalid limit %q", raw)
		}
		f.Limit = limit
	}
	return f, nil
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	f, err := playerFilter(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	players, err := s.players.ListPlayers(r.Context(), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, players)
}

func (s *Server) handleAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	draftID, ok := pathUUID(w, r, "draftID")
	if !ok {
		return
	}
	f, err := playerFilter(r)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	players, err := s.players.ListAvailablePlayers(r.Context(), draftID, f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, players)
}

func (s *Server) handleUpsertPlayers(w http.ResponseWriter, r *http.Request) {
	var reqs []repository.UpsertPlayerRequest
	if !decodeJSON(w, r, &reqs) {
		return
	}
	players, err := s.players.UpsertPlayers(r.Context(), reqs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, players)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "playerID")
	if !ok {
		return
	}
	p, err := s.players.GetPlayer(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePlayerTier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "playerID")
	if !ok {
		return
	}
	var req updateTierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.players.UpdatePlayerTier(r.Context(), id, req.Tier)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, p)
}

func (s *Server) handleHistoryADP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(w, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	adp, err := s.history.AverageDraftPositions(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, adp)
}
