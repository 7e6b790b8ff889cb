package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/leagues"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

const maxBodyBytes = 1 << 20

// Error is the error half of the response envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope wraps every JSON response.
type Envelope struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

type errorKind struct {
	err    error
	status int
	code   string
}

// Checked in order. Specific draft errors come before ErrConflict because a
// storage conflict can be wrapped alongside them.
var errorKinds = []errorKind{
	{draft.ErrNotFound, http.StatusNotFound, "not_found"},
	{draft.ErrPlayerAlreadyDrafted, http.StatusConflict, "player_already_drafted"},
	{draft.ErrNotOnClock, http.StatusConflict, "not_on_clock"},
	{draft.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{draft.ErrDraftCompleted, http.StatusConflict, "draft_completed"},
	{draft.ErrConflict, http.StatusConflict, "conflict"},
	{draft.ErrEmptyPool, http.StatusUnprocessableEntity, "empty_pool"},
	{draft.ErrInvalidOrder, http.StatusUnprocessableEntity, "invalid_order"},
	{draft.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
	{leagues.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
	{player.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
	{draft.ErrUpstreamIO, http.StatusBadGateway, "upstream_error"},
}

// statusFor maps an app error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

func respondJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, Envelope{Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorWithData(w, r, err, nil)
}

// respondErrorWithData reports err while still returning partial results.
func respondErrorWithData(w http.ResponseWriter, r *http.Request, err error, data any) {
	status, code := statusFor(err)
	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	respondJSON(w, status, Envelope{Data: data, Error: &Error{Code: code, Message: err.Error()}})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, Envelope{Error: &Error{Code: "bad_request", Message: msg}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondBadRequest(w, fmt.Sprintf("request body must be valid JSON: %v", err))
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid %s", param))
		return uuid.Nil, false
	}
	return id, true
}
