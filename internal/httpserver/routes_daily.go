// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
//   - GET /daily/{category}             → today's date and whether the caller has played it
//   - GET /daily/{category}/leaderboard → top results across players (?date=YYYY-MM-DD, ?n=)
//
// Daily sessions themselves are started with POST /session/new {"mode":"daily"}.
// Each player may finish a category's daily round once per UTC date.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/susunkata/internal/daily"
	"github.com/robalobadob/susunkata/internal/game"
)

const dailyLeaderboardSize = 20

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily/{category}", func(r chi.Router) {
		r.Get("/", s.handleDailyStatus)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

type dailyStatusRes struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Played   bool   `json:"played"`
}

func (s *Server) handleDailyStatus(w http.ResponseWriter, r *http.Request) {
	category, ok := s.dailyCategory(w, r)
	if !ok {
		return
	}
	player := s.ensurePlayerID(w, r)
	date := daily.DateKey(s.clock.Now())
	played, err := s.daily.AlreadyPlayed(r.Context(), player, category, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyStatusRes{Date: date, Category: category, Played: played})
}

func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	category, ok := s.dailyCategory(w, r)
	if !ok {
		return
	}
	date := daily.DateKey(s.clock.Now())
	if q := r.URL.Query().Get("date"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_date"})
			return
		}
		date = daily.DateKey(t)
	}
	rows, err := s.daily.Leaderboard(r.Context(), category, date, queryInt(r, "n", dailyLeaderboardSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "category": category, "results": rows})
}

// dailyCategory validates the {category} URL parameter.
func (s *Server) dailyCategory(w http.ResponseWriter, r *http.Request) (string, bool) {
	category := chi.URLParam(r, "category")
	if s.catalog == nil {
		writeError(w, game.ErrCategoryNotFound)
		return "", false
	}
	if _, ok := s.catalog.Get(category); !ok {
		writeError(w, game.ErrCategoryNotFound)
		return "", false
	}
	return category, true
}
