// internal/httpserver/routes_game.go
//
// HTTP routes for a live game. Each route forwards one inbound event to the
// engine and answers with the resulting snapshot:
//   - POST   /game/new            → start a game (optionally the daily board)
//   - GET    /game/{id}           → current snapshot
//   - POST   /game/{id}/select    → tile selected
//   - POST   /game/{id}/hint      → one-time hint
//   - POST   /game/{id}/restart   → new session, same or another mode
//   - DELETE /game/{id}           → stop timers and forget the game
//
// Games are owned by the player token that created them; other players get 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormatch/internal/daily"
	"github.com/robalobadob/colormatch/internal/game"
	"github.com/robalobadob/colormatch/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.withGame(s.handleGetGame))
		r.Delete("/", s.handleDeleteGame)
		r.Post("/select", s.withGame(s.handleSelect))
		r.Post("/hint", s.withGame(s.handleHint))
		r.Post("/restart", s.withGame(s.handleRestart))
	})
}

// gameHandler is a handler that already resolved the caller's game.
type gameHandler func(w http.ResponseWriter, r *http.Request, g *game.Game)

// withGame loads the game named in the URL for the calling player.
func (s *Server) withGame(h gameHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.store.Get(r.Context(), playerID(r), chi.URLParam(r, "id"))
		if err != nil {
			jsonError(w, http.StatusNotFound, "not_found")
			return
		}
		h(w, r, g)
	}
}

// -----------------------------------------------------------------------------
// /game/new

// newGameReq selects the mode; an empty mode means the first preset.
type newGameReq struct {
	Mode  string `json:"mode"`
	Daily bool   `json:"daily"` // shared board of the day for this mode
}

type newGameRes struct {
	GameID   string        `json:"gameId"`
	Daily    bool          `json:"daily,omitempty"`
	Date     string        `json:"date,omitempty"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// handleNewGame creates a game, wires its results into the player's history
// and stores it.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeOptional(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	d, ok := s.difficulty(req.Mode)
	if !ok {
		jsonError(w, http.StatusBadRequest, "unknown_mode")
		return
	}

	uid := playerID(r)
	id := uuid.NewString()
	opts := []game.Option{
		game.WithID(id),
		game.WithRecorder(s.history.Recorder(uid, id, req.Daily)),
		game.WithClock(s.now),
	}
	res := newGameRes{GameID: id, Daily: req.Daily}
	if req.Daily {
		now := s.now()
		res.Date = daily.DateKey(now)
		opts = append(opts, game.WithDeck(s.dailyDeck(now, d.Mode)))
	}

	g, err := game.New(d, s.sched, opts...)
	if err != nil {
		log.Error().Err(err).Str("mode", d.Mode).Msg("new game")
		jsonError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	if err := s.store.Save(r.Context(), uid, g); err != nil {
		g.Close()
		log.Error().Err(err).Msg("save game")
		jsonError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if req.Daily {
		s.dailies.Store(id, struct{}{})
	}
	log.Info().Str("gameId", id).Str("player", uid).Str("mode", d.Mode).Bool("daily", req.Daily).Msg("game started")

	res.Snapshot = g.Snapshot()
	writeJSON(w, http.StatusCreated, res)
}

// dailyDeck lays out the shared board of the day for mode.
func (s *Server) dailyDeck(now time.Time, mode string) game.DeckFunc {
	return game.SeededDeck(daily.Seed(now, s.cfg.DailySalt, mode))
}

// difficulty resolves a mode name, defaulting to the first preset.
func (s *Server) difficulty(mode string) (game.Difficulty, bool) {
	if mode == "" {
		return s.modes.Default(), true
	}
	return s.modes.Get(mode)
}

// -----------------------------------------------------------------------------
// /game/{id}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request, g *game.Game) {
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// handleDeleteGame closes the game so its timers stop, then forgets it.
func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Delete(r.Context(), playerID(r), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "server_error")
		return
	}
	s.forget(g)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// actionRes is returned by select and hint. Accepted is false when the
// engine ignored the input (busy, matched tile, hint spent, ...).
type actionRes struct {
	Accepted bool          `json:"accepted"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type selectReq struct {
	Index *int `json:"index"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, g *game.Game) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	accepted := g.Select(*req.Index)
	writeJSON(w, http.StatusOK, actionRes{Accepted: accepted, Snapshot: g.Snapshot()})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request, g *game.Game) {
	accepted := g.Hint()
	writeJSON(w, http.StatusOK, actionRes{Accepted: accepted, Snapshot: g.Snapshot()})
}

type restartReq struct {
	Mode string `json:"mode"` // empty keeps the current mode
}

// handleRestart starts a new session on the same game id. An unknown mode is
// rejected before the running session is touched. A daily game gets the
// day's board for the chosen mode.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request, g *game.Game) {
	var req restartReq
	if err := decodeOptional(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = g.Difficulty().Mode
	}
	d, ok := s.modes.Get(mode)
	if !ok {
		jsonError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	var deck game.DeckFunc
	if _, isDaily := s.dailies.Load(g.ID); isDaily {
		deck = s.dailyDeck(s.now(), d.Mode)
	}
	if err := g.RestartWithDeck(d, deck); err != nil {
		if errors.Is(err, game.ErrClosed) {
			jsonError(w, http.StatusGone, "closed")
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Info().Str("gameId", g.ID).Str("mode", mode).Msg("game restarted")
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// decodeOptional decodes a JSON body that may be empty, chunked or not.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
