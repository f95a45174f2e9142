// internal/httpserver/server.go
//
// HTTP server wiring for the color-matching backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/modes", "/leaderboard".
//   - Game endpoints (player token): see routes_game.go.
//   - History endpoint (player token): GET /history/mine.
//   - Idle-game sweep on the shared scheduler.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The engine owns game rules; handlers only forward events and return
//     snapshots. Rejected moves are a normal 200 with accepted=false.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormatch/internal/config"
	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/history"
	"github.com/robalobadob/colormatch/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config    config.Config
	Store     store.Store
	History   *history.Memory
	Modes     *config.Difficulties
	Scheduler game.Scheduler
	Now       func() time.Time // defaults to time.Now
}

// Server bundles router, live games, history and difficulty presets.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	history *history.Memory
	modes   *config.Difficulties
	sched   game.Scheduler
	now     func() time.Time
	dailies sync.Map // ids of live daily games
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     d.Config,
		store:   d.Store,
		history: d.History,
		modes:   d.Modes,
		sched:   d.Scheduler,
		now:     d.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"colormatch","endpoints":["/health","/modes","POST /game/new","/game/{id}","/history/mine","/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/modes", s.handleModes)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	// Player-scoped endpoints
	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		s.mountGame(r)
		r.Get("/history/mine", s.handleHistoryMine)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// StartSweeper closes games idle for longer than SESSION_IDLE_TTL, checking
// every interval. The returned func stops the sweep.
func (s *Server) StartSweeper(every time.Duration) func() {
	return s.sched.Every(every, func() { s.SweepIdle() })
}

// SweepIdle closes and forgets idle games, returning how many were removed.
func (s *Server) SweepIdle() int {
	cutoff := s.now().Add(-s.cfg.SessionIdleTTL)
	games := s.store.SweepIdle(context.Background(), cutoff)
	for _, g := range games {
		s.forget(g)
		log.Info().Str("gameId", g.ID).Msg("closed idle game")
	}
	return len(games)
}

// forget closes a game already removed from the store.
func (s *Server) forget(g *game.Game) {
	g.Close()
	s.dailies.Delete(g.ID)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", playerTokenHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ MODES --------------------------------------

type modesRes struct {
	Modes []game.Difficulty `json:"modes"`
}

// handleModes lists the difficulty presets.
func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modesRes{Modes: s.modes.All()})
}

// ----------------------------- HISTORY -------------------------------------

type historyRes struct {
	Entries []history.Entry `json:"entries"`
}

// handleHistoryMine returns the caller's finished sessions, most recent first.
func (s *Server) handleHistoryMine(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	entries, err := s.history.Recent(r.Context(), playerID(r), mode, queryInt(r, "limit"))
	if err != nil {
		log.Error().Err(err).Msg("history")
		jsonError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, historyRes{Entries: entries})
}

type lbRes struct {
	Mode string          `json:"mode"`
	Top  []history.Entry `json:"top"`
}

// handleLeaderboard returns the best sessions for a mode (default: first preset).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = s.modes.Default().Mode
	}
	if _, ok := s.modes.Get(mode); !ok {
		jsonError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	top, err := s.history.Leaderboard(r.Context(), mode, queryInt(r, "limit"))
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		jsonError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Mode: mode, Top: top})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// jsonError writes {"error": code} with the given status.
func jsonError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// queryInt parses an optional integer query parameter; 0 when absent or bad.
func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
