// internal/httpserver/routes_session.go
//
// HTTP routes for playing a session:
//   - POST /session/new      → start a session for {category, mode}; returns its token
//   - GET  /session          → current view
//   - POST /session/place    → {tile}: move a pool tile into the first empty slot
//   - POST /session/clear    → {slot}: return a slot's letter to the pool
//   - POST /session/reset    → return every placed letter to the pool
//   - POST /session/shuffle  → reorder the pool
//   - POST /session/submit   → check the filled board
//   - POST /session/advance  → next question, or the summary after the last one
//
// Every action responds with the new view plus the events and audio cues it produced.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/internal/daily"
	"github.com/robalobadob/susunkata/internal/event"
	"github.com/robalobadob/susunkata/internal/game"
	"github.com/robalobadob/susunkata/internal/random"
	"github.com/robalobadob/susunkata/internal/sound"
)

var errBadMode = errors.New("bad_mode")

func (s *Server) mountSession(r chi.Router) {
	r.Post("/session/new", s.handleNewSession)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession())
		r.Get("/session", s.action(func(context.Context, *liveSession, *http.Request) (*game.Check, error) {
			return nil, nil
		}))
		r.Post("/session/place", s.action(s.place))
		r.Post("/session/clear", s.action(s.clearSlot))
		r.Post("/session/reset", s.action(func(_ context.Context, ls *liveSession, _ *http.Request) (*game.Check, error) {
			return nil, ls.sess.ClearAll()
		}))
		r.Post("/session/shuffle", s.action(func(_ context.Context, ls *liveSession, _ *http.Request) (*game.Check, error) {
			return nil, ls.sess.ShuffleTiles()
		}))
		r.Post("/session/submit", s.action(func(ctx context.Context, ls *liveSession, _ *http.Request) (*game.Check, error) {
			c, err := ls.sess.Submit(ctx)
			if err != nil {
				return nil, err
			}
			return &c, nil
		}))
		r.Post("/session/advance", s.action(s.advance))
	})
}

// -----------------------------------------------------------------------------
// /session/new

type newSessionReq struct {
	Category string `json:"category"`
	Mode     string `json:"mode"` // "normal" (default) | "daily"
}

type newSessionRes struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	View      game.Snapshot `json:"view"`
	Events    []event.Event `json:"events"`
	Cues      []sound.Cue   `json:"cues"`
}

// handleNewSession builds a session for the caller's player namespace and starts it.
// Daily sessions draw from a seed shared by every player and may be finished once a day.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadJSON)
		return
	}
	mode := game.Mode(req.Mode)
	switch mode {
	case "":
		mode = game.ModeNormal
	case game.ModeNormal, game.ModeDaily:
	default:
		writeError(w, errBadMode)
		return
	}
	player := s.ensurePlayerID(w, r)

	now := s.clock.Now()
	selector := random.New()
	if mode == game.ModeDaily {
		played, err := s.daily.AlreadyPlayed(r.Context(), player, req.Category, daily.DateKey(now))
		if err != nil {
			log.Warn().Err(err).Str("player", player).Msg("daily lookup")
		}
		if played {
			writeError(w, errDailyPlayed)
			return
		}
		selector = random.NewSeeded(daily.Seed(now, s.cfg.DailySalt, req.Category))
	}

	ls := &liveSession{events: &event.Recorder{}, cues: &sound.Recorder{}, player: player, mode: mode, date: daily.DateKey(now)}
	ls.sess = game.New(game.Deps{
		Catalog:     s.catalog,
		Selector:    selector,
		Store:       s.playerStore(player),
		Leaderboard: s.leaderboardFor(player),
		Events:      ls.events,
		Sounds:      ls.cues,
		Clock:       s.clock,
		Preloader:   s.preload,
	}, game.Options{
		QuestionsPerGame: s.cfg.QuestionsPerGame,
		MinQuestions:     s.cfg.MinQuestions,
		Mode:             mode,
	})
	if err := ls.sess.Start(r.Context(), req.Category); err != nil {
		writeError(w, err)
		return
	}
	s.sessions.put(ls)

	tok, exp, err := s.signSessionToken(ls.sess.ID(), player)
	if err != nil {
		writeError(w, err)
		return
	}
	setSessionCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, newSessionRes{
		SessionID: ls.sess.ID(),
		Token:     tok,
		ExpiresAt: exp,
		View:      ls.sess.Snapshot(),
		Events:    ls.events.Drain(),
		Cues:      ls.cues.Drain(),
	})
}

// -----------------------------------------------------------------------------
// actions

type actionRes struct {
	View   game.Snapshot `json:"view"`
	Check  *game.Check   `json:"check,omitempty"`
	Events []event.Event `json:"events"`
	Cues   []sound.Cue   `json:"cues"`
}

type actionFunc func(ctx context.Context, ls *liveSession, r *http.Request) (*game.Check, error)

// action runs fn under the session lock and writes the resulting view.
func (s *Server) action(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls := sessionFrom(r.Context())
		if ls == nil {
			writeError(w, errSessionNotFound)
			return
		}
		ls.mu.Lock()
		defer ls.mu.Unlock()

		check, err := fn(r.Context(), ls, r)
		if err != nil {
			ls.events.Drain()
			ls.cues.Drain()
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, actionRes{
			View:   ls.sess.Snapshot(),
			Check:  check,
			Events: ls.events.Drain(),
			Cues:   ls.cues.Drain(),
		})
	}
}

type placeReq struct {
	Tile *int `json:"tile"`
}

func (s *Server) place(_ context.Context, ls *liveSession, r *http.Request) (*game.Check, error) {
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tile == nil {
		return nil, errBadJSON
	}
	return nil, ls.sess.PlaceTile(*req.Tile)
}

type clearReq struct {
	Slot *int `json:"slot"`
}

func (s *Server) clearSlot(_ context.Context, ls *liveSession, r *http.Request) (*game.Check, error) {
	var req clearReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Slot == nil {
		return nil, errBadJSON
	}
	return nil, ls.sess.ClearSlot(*req.Slot)
}

// advance moves on and, when a daily round completes, records the player's result
// under the date the round was dealt for.
func (s *Server) advance(ctx context.Context, ls *liveSession, _ *http.Request) (*game.Check, error) {
	if err := ls.sess.Advance(ctx); err != nil {
		return nil, err
	}
	sum := ls.sess.Summary()
	if ls.mode != game.ModeDaily || sum == nil {
		return nil, nil
	}
	res := sum.Result
	err := s.daily.InsertResult(ctx, daily.Result{
		PlayerID:   ls.player,
		Date:       ls.date,
		Category:   res.Category,
		Score:      res.Score,
		Total:      res.TotalQuestions,
		ElapsedMs:  res.TotalTime.Milliseconds(),
		FinishedAt: res.CompletedAt,
	})
	if err != nil {
		log.Warn().Err(err).Str("player", ls.player).Msg("insert daily result")
	}
	return nil, nil
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && n >= 0 {
		return n
	}
	return def
}
