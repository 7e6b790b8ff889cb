package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/spragsdale/mockdraftapp/go/internal/draft"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/gateway"
	"github.com/spragsdale/mockdraftapp/go/internal/draft/history"
	"github.com/spragsdale/mockdraftapp/go/internal/leagues"
	"github.com/spragsdale/mockdraftapp/go/internal/player"
)

// ADPSource reports average draft positions across recorded mock drafts.
type ADPSource interface {
	AverageDraftPositions(ctx context.Context, limit int) ([]history.PlayerADP, error)
}

// Deps holds everything the router needs. WebSocket, Health and History are
// optional and their routes are skipped when nil.
type Deps struct {
	Drafts    *draft.App
	Leagues   *leagues.App
	Players   *player.App
	WebSocket *gateway.WebSocketHandler
	Health    http.Handler
	History   ADPSource

	AllowedOrigins []string
}

// Server is the HTTP API
type Server struct {
	drafts  *draft.App
	leagues *leagues.App
	players *player.App
	history ADPSource

	router chi.Router
}

// New creates a new API server
func New(deps Deps) *Server {
	s := &Server{
		drafts:  deps.Drafts,
		leagues: deps.Leagues,
		players: deps.Players,
		history: deps.History,
		router:  chi.NewRouter(),
	}

	s.setupMiddleware(deps.AllowedOrigins)
	s.setupRoutes(deps)
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: origins,
		AllowedHeaders: []string{"*"},
	})

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(c.Handler)
}

func (s *Server) setupRoutes(deps Deps) {
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", s.handleListLeagues)
			r.Post("/", s.handleCreateLeague)
			r.Get("/{leagueID}", s.handleGetLeague)
			r.Put("/{leagueID}", s.handleUpdateLeague)
			r.Delete("/{leagueID}", s.handleDeleteLeague)
			r.Get("/{leagueID}/drafts", s.handleListDrafts)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.handleListPlayers)
			r.Post("/", s.handleUpsertPlayers)
			r.Get("/{playerID}", s.handleGetPlayer)
			r.Put("/{playerID}/tier", s.handleUpdatePlayerTier)
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", s.handleCreateDraft)
			r.Route("/{draftID}", func(r chi.Router) {
				r.Get("/", s.handleGetDraft)
				r.Delete("/", s.handleDeleteDraft)
				r.Put("/status", s.handleUpdateDraftStatus)
				r.Put("/order", s.handleSetDraftOrder)

				r.Get("/teams", s.handleListTeams)
				r.Post("/teams", s.handleCreateTeam)
				r.Get("/teams/{teamID}/roster", s.handleTeamRoster)
				r.Get("/teams/{teamID}/suggestion", s.handleSuggestPick)

				r.Get("/keepers", s.handleListKeepers)
				r.Post("/keepers", s.handleCreateKeeper)
				r.Delete("/keepers/{keeperID}", s.handleDeleteKeeper)

				r.Get("/plans", s.handleListPlans)
				r.Put("/plans", s.handleSaveDraftPlans)

				r.Get("/picks", s.handleListPicks)
				r.Post("/picks", s.handleMakePick)
				r.Post("/autopick", s.handleAutoPick)
				r.Post("/advance", s.handleAdvance)
				r.Post("/reset", s.handleReset)
				r.Post("/duplicate", s.handleDuplicate)

				r.Get("/clock", s.handleClock)
				r.Get("/board", s.handleBoard)
				r.Get("/players", s.handleAvailablePlayers)
			})
		})

		if s.history != nil {
			r.Get("/history/adp", s.handleHistoryADP)
		}
	})

	if deps.WebSocket != nil {
		s.router.Get("/ws/draft", deps.WebSocket.HandleDraftConnection)
		s.router.Get("/ws/stats", deps.WebSocket.HandleConnectionStats)
	}

	if deps.Health != nil {
		s.router.Method(http.MethodGet, "/health", deps.Health)
	} else {
		s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte("OK")); err != nil {
				log.Error().Err(err).Msg("failed to write health check response")
			}
		})
	}
}

// requestLogger logs one line per request through zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}
