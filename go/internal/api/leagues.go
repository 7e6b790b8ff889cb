package api

import (
	"net/http"

	"github.com/spragsdale/mockdraftapp/go/internal/draft/repository"
)

func (s *Server) handleListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := s.leagues.ListLeagues(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, leagues)
}

func (s *Server) handleCreateLeague(w http.ResponseWriter, r *http.Request) {
	var req repository.CreateLeagueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	league, err := s.leagues.CreateLeague(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, league)
}

func (s *Server) handleGetLeague(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "leagueID")
	if !ok {
		return
	}
	league, err := s.leagues.GetLeague(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, league)
}

func (s *Server) handleUpdateLeague(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "leagueID")
	if !ok {
		return
	}
	var req repository.UpdateLeagueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	league, err := s.leagues.UpdateLeague(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, league)
}

func (s *Server) handleDeleteLeague(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "leagueID")
	if !ok {
		return
	}
	if err := s.leagues.DeleteLeague(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "leagueID")
	if !ok {
		return
	}
	drafts, err := s.drafts.ListDrafts(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, drafts)
}
