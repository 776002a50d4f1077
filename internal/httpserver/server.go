// internal/httpserver/server.go
//
// HTTP server wiring for the Susun Kata backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/categories", "/leaderboard/{category}", "/stats/me".
//   - Session endpoints (session token required): mounted under /session.
//   - Daily challenge endpoints: mounted under /daily.
//   - Mapping engine errors to JSON error codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Every player is anonymous, identified by a long-lived cookie. Their
//     key-value data (scores, last session) lives under "player:<id>:".

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/internal/board"
	"github.com/robalobadob/susunkata/internal/catalog"
	"github.com/robalobadob/susunkata/internal/clock"
	"github.com/robalobadob/susunkata/internal/config"
	"github.com/robalobadob/susunkata/internal/daily"
	"github.com/robalobadob/susunkata/internal/game"
	"github.com/robalobadob/susunkata/internal/leaderboard"
	"github.com/robalobadob/susunkata/internal/store"
)

// Deps are the collaborators a Server is built from.
type Deps struct {
	Config    *config.Config
	Catalog   catalog.Catalog
	Store     store.Store
	Preloader game.Preloader
	Clock     clock.Clock
}

// Server bundles the router, live sessions and persistence.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	catalog  catalog.Catalog
	kv       store.Store
	preload  game.Preloader
	clock    clock.Clock
	sessions *registry
	daily    *daily.Store

	boardsMu sync.Mutex
	boards   map[string]*leaderboard.Board // players with live sessions
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Config == nil {
		d.Config = config.Load()
	}
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Store == nil {
		d.Store = store.NewMemoryStore()
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		catalog:  d.Catalog,
		kv:       d.Store,
		preload:  d.Preloader,
		clock:    d.Clock,
		sessions: newRegistry(d.Config.SessionTTL, d.Clock),
		daily:    daily.NewStore(d.Store),
		boards:   make(map[string]*leaderboard.Board),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(d.Config.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"susunkata","endpoints":["/health","/categories","POST /session/new","/session/*","/leaderboard/{category}","/stats/me","/daily/{category}"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/categories", s.handleCategories)
	s.r.Get("/leaderboard/{category}", s.handleLeaderboard)
	s.r.Get("/stats/me", s.handleMyStats)
	s.mountSession(s.r)
	s.mountDaily(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ catalog ------------------------------------

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := []catalog.Category{}
	if s.catalog != nil {
		cats = s.catalog.Categories()
	}
	writeJSON(w, http.StatusOK, cats)
}

// ----------------------------- leaderboard ---------------------------------

// playerStore namespaces the shared store for one player.
func (s *Server) playerStore(playerID string) store.Store {
	return store.Prefixed(s.kv, "player:"+playerID)
}

// leaderboardFor returns the board shared by the player's sessions, so its in-memory
// fallback survives between requests. Boards of players with no live session are
// dropped first.
func (s *Server) leaderboardFor(playerID string) *leaderboard.Board {
	live := s.sessions.players()
	s.boardsMu.Lock()
	defer s.boardsMu.Unlock()
	for id := range s.boards {
		if id != playerID && !live[id] {
			delete(s.boards, id)
		}
	}
	b, ok := s.boards[playerID]
	if !ok {
		b = leaderboard.New(s.playerStore(playerID))
		s.boards[playerID] = b
	}
	return b
}

// readLeaderboard returns the player's cached board, or a fresh one that is not kept.
func (s *Server) readLeaderboard(playerID string) *leaderboard.Board {
	s.boardsMu.Lock()
	defer s.boardsMu.Unlock()
	if b, ok := s.boards[playerID]; ok {
		return b
	}
	return leaderboard.New(s.playerStore(playerID))
}

// handleLeaderboard returns the caller's top entries for a category (?n=, default all).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if s.catalog == nil {
		writeError(w, game.ErrCategoryNotFound)
		return
	}
	if _, ok := s.catalog.Get(category); !ok {
		writeError(w, game.ErrCategoryNotFound)
		return
	}
	player := s.ensurePlayerID(w, r)
	entries := s.readLeaderboard(player).Top(r.Context(), category, queryInt(r, "n", 0))
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "entries": entries})
}

// handleMyStats returns the caller's last category and last completed session.
func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	kv := s.playerStore(s.ensurePlayerID(w, r))
	var category string
	if _, err := store.GetJSON(r.Context(), kv, game.KeySelectedCategory, &category); err != nil {
		log.Warn().Err(err).Msg("read selected category")
	}
	last, found, err := game.LoadLastSession(r.Context(), kv)
	if err != nil {
		log.Warn().Err(err).Msg("read last session")
	}
	out := map[string]any{"selectedCategory": category, "lastSession": nil}
	if found {
		out["lastSession"] = last
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

var (
	errBadJSON         = errors.New("bad_json")
	errSessionNotFound = errors.New("session_not_found")
	errUnauthorized    = errors.New("unauthorized")
	errDailyPlayed     = errors.New("daily_already_played")
)

// errorCode maps err to an HTTP status and a stable error code.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrCategoryNotFound):
		return http.StatusNotFound, "category_not_found"
	case errors.Is(err, errSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, game.ErrInsufficientQuestions):
		return http.StatusUnprocessableEntity, "insufficient_questions"
	case errors.Is(err, game.ErrInvalidAnswer):
		return http.StatusUnprocessableEntity, "invalid_answer"
	case errors.Is(err, game.ErrIncompleteAnswer):
		return http.StatusConflict, "incomplete_answer"
	case errors.Is(err, game.ErrNoEmptySlot):
		return http.StatusConflict, "no_empty_slot"
	case errors.Is(err, game.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, game.ErrSessionFailed):
		return http.StatusConflict, "session_failed"
	case errors.Is(err, errDailyPlayed):
		return http.StatusConflict, "daily_already_played"
	case errors.Is(err, board.ErrTileOutOfRange), errors.Is(err, board.ErrSlotOutOfRange):
		return http.StatusBadRequest, "out_of_range"
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest, "bad_json"
	case errors.Is(err, errBadMode):
		return http.StatusBadRequest, "bad_mode"
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := errorCode(err)
	if status >= 500 {
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": code})
}
