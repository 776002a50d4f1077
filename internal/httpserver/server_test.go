package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/robalobadob/susunkata/internal/catalog"
	"github.com/robalobadob/susunkata/internal/clock"
	"github.com/robalobadob/susunkata/internal/config"
	"github.com/robalobadob/susunkata/internal/game"
	"github.com/robalobadob/susunkata/internal/store"
)

func newTestServer(t *testing.T) (*Server, *clock.Fake) {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}
	clk := clock.NewFake(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	cfg := &config.Config{
		QuestionsPerGame: 5,
		MinQuestions:     5,
		SessionSecret:    "test-secret",
		SessionTTL:       time.Hour,
		DailySalt:        "test-salt",
		ClientOrigin:     "http://localhost:5173",
	}
	return New(Deps{Config: cfg, Catalog: cat, Store: store.NewMemoryStore(), Clock: clk}), clk
}

type client struct {
	t      *testing.T
	srv    *Server
	token  string
	player *http.Cookie
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.player != nil {
		req.AddCookie(c.player)
	}
	rec := httptest.NewRecorder()
	c.srv.Router().ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == playerCookieName {
			c.player = ck
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

// start opens a session and remembers its token.
func (c *client) start(category, mode string) newSessionRes {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/session/new", map[string]string{"category": category, "mode": mode})
	if rec.Code != http.StatusOK {
		c.t.Fatalf("new session: %d %s", rec.Code, rec.Body.String())
	}
	res := decode[newSessionRes](c.t, rec)
	c.token = res.Token
	return res
}

// solve fills the board of sessionID correctly.
func (c *client) solve(sessionID string) {
	c.t.Helper()
	ls, ok := c.srv.sessions.get(sessionID)
	if !ok {
		c.t.Fatalf("session %s not live", sessionID)
	}
	for _, ch := range ls.sess.Board().Target() {
		idx := ls.sess.Board().TileIndex(string(ch))
		if rec := c.do(http.MethodPost, "/session/place", map[string]int{"tile": idx}); rec.Code != http.StatusOK {
			c.t.Fatalf("place: %d %s", rec.Code, rec.Body.String())
		}
	}
}

// play answers every question correctly and returns the final response.
func (c *client) play(sessionID string, total int) actionRes {
	c.t.Helper()
	var last actionRes
	for i := 0; i < total; i++ {
		c.solve(sessionID)
		rec := c.do(http.MethodPost, "/session/submit", nil)
		if rec.Code != http.StatusOK {
			c.t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
		}
		if res := decode[actionRes](c.t, rec); res.Check == nil || !res.Check.Correct {
			c.t.Fatalf("submit q%d: %+v", i, res.Check)
		}
		rec = c.do(http.MethodPost, "/session/advance", nil)
		if rec.Code != http.StatusOK {
			c.t.Fatalf("advance: %d %s", rec.Code, rec.Body.String())
		}
		last = decode[actionRes](c.t, rec)
	}
	return last
}

func TestHealthAndCategories(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &client{t: t, srv: srv}

	if rec := c.do(http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	rec := c.do(http.MethodGet, "/categories", nil)
	cats := decode[[]catalog.Category](t, rec)
	if len(cats) == 0 || cats[0].ID != "animals" {
		t.Fatalf("categories = %+v", cats)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("CORS origin = %q", got)
	}
}

func TestSessionPlaythrough(t *testing.T) {
	srv, clk := newTestServer(t)
	c := &client{t: t, srv: srv}

	res := c.start("animals", "")
	if res.View.State != game.StatePlaying || res.View.Total != 5 || res.View.Question == nil {
		t.Fatalf("view = %+v", res.View)
	}
	if len(res.Events) == 0 {
		t.Fatal("no events on start")
	}

	rec := c.do(http.MethodGet, "/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session: %d", rec.Code)
	}

	clk.Advance(10 * time.Second)
	final := c.play(res.SessionID, 5)
	if final.View.State != game.StateCompleted || final.View.Summary == nil {
		t.Fatalf("final view = %+v", final.View)
	}
	if final.View.Summary.Result.Score != 5 {
		t.Fatalf("summary = %+v", final.View.Summary)
	}
	if fmt.Sprint(final.Cues) != "[score]" {
		t.Fatalf("final cues = %v", final.Cues)
	}

	rec = c.do(http.MethodGet, "/leaderboard/animals?n=5", nil)
	lb := decode[struct {
		Entries []struct {
			Score int `json:"score"`
		} `json:"entries"`
	}](t, rec)
	if len(lb.Entries) != 1 || lb.Entries[0].Score != 5 {
		t.Fatalf("leaderboard = %+v", lb)
	}

	rec = c.do(http.MethodGet, "/stats/me", nil)
	me := decode[struct {
		SelectedCategory string            `json:"selectedCategory"`
		LastSession      *game.LastSession `json:"lastSession"`
	}](t, rec)
	if me.SelectedCategory != "animals" || me.LastSession == nil || me.LastSession.Result.Score != 5 {
		t.Fatalf("stats/me = %+v", me)
	}

	// another player sees an empty board
	other := &client{t: t, srv: srv}
	rec = other.do(http.MethodGet, "/leaderboard/animals", nil)
	if body := rec.Body.String(); !bytes.Contains([]byte(body), []byte(`"entries":[]`)) {
		t.Fatalf("other player leaderboard = %s", body)
	}
}

func TestSessionErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &client{t: t, srv: srv}

	rec := c.do(http.MethodPost, "/session/new", map[string]string{"category": "planets"})
	if rec.Code != http.StatusNotFound || errorOf(t, rec) != "category_not_found" {
		t.Fatalf("unknown category: %d %s", rec.Code, rec.Body.String())
	}
	rec = c.do(http.MethodPost, "/session/new", map[string]string{"category": "animals", "mode": "blitz"})
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "bad_mode" {
		t.Fatalf("bad mode: %d %s", rec.Code, rec.Body.String())
	}
	if rec := c.do(http.MethodPost, "/session/submit", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}

	c.start("animals", "normal")
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"incomplete submit", "/session/submit", nil, http.StatusConflict, "incomplete_answer"},
		{"advance before submit", "/session/advance", nil, http.StatusConflict, "invalid_transition"},
		{"tile out of range", "/session/place", map[string]int{"tile": 99}, http.StatusBadRequest, "out_of_range"},
		{"missing tile", "/session/place", map[string]string{}, http.StatusBadRequest, "bad_json"},
		{"slot out of range", "/session/clear", map[string]int{"slot": -1}, http.StatusBadRequest, "out_of_range"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := c.do(http.MethodPost, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
			if got := errorOf(t, rec); got != tc.code {
				t.Fatalf("error = %q, want %q", got, tc.code)
			}
		})
	}

	c.token = "not-a-token"
	if rec := c.do(http.MethodGet, "/session", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: %d", rec.Code)
	}
}

func TestEditingActions(t *testing.T) {
	srv, _ := newTestServer(t)
	c := &client{t: t, srv: srv}
	c.start("animals", "")

	rec := c.do(http.MethodPost, "/session/place", map[string]int{"tile": 0})
	res := decode[actionRes](t, rec)
	if res.View.Slots[0] == "" || fmt.Sprint(res.Cues) != "[click]" {
		t.Fatalf("place: slots=%v cues=%v", res.View.Slots, res.Cues)
	}
	rec = c.do(http.MethodPost, "/session/clear", map[string]int{"slot": 0})
	res = decode[actionRes](t, rec)
	if res.View.Slots[0] != "" || fmt.Sprint(res.Cues) != "[undo]" {
		t.Fatalf("clear: slots=%v cues=%v", res.View.Slots, res.Cues)
	}
	rec = c.do(http.MethodPost, "/session/shuffle", nil)
	res = decode[actionRes](t, rec)
	if fmt.Sprint(res.Cues) != "[shuffle]" {
		t.Fatalf("shuffle cues = %v", res.Cues)
	}
	c.do(http.MethodPost, "/session/place", map[string]int{"tile": 0})
	rec = c.do(http.MethodPost, "/session/reset", nil)
	res = decode[actionRes](t, rec)
	for _, s := range res.View.Slots {
		if s != "" {
			t.Fatalf("reset left %v", res.View.Slots)
		}
	}
}

func TestDailyOncePerDay(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := &client{t: t, srv: srv}
	bob := &client{t: t, srv: srv}

	a := alice.start("fruits", "daily")
	b := bob.start("fruits", "daily")
	if a.View.Question.Translation != b.View.Question.Translation {
		t.Fatalf("daily rounds differ: %q vs %q", a.View.Question.Translation, b.View.Question.Translation)
	}

	alice.play(a.SessionID, 5)

	rec := alice.do(http.MethodGet, "/daily/fruits", nil)
	status := decode[dailyStatusRes](t, rec)
	if !status.Played || status.Date != "2026-10-19" {
		t.Fatalf("status = %+v", status)
	}
	rec = alice.do(http.MethodPost, "/session/new", map[string]string{"category": "fruits", "mode": "daily"})
	if rec.Code != http.StatusConflict || errorOf(t, rec) != "daily_already_played" {
		t.Fatalf("second daily: %d %s", rec.Code, rec.Body.String())
	}
	// normal mode is unaffected
	alice.start("fruits", "normal")

	rec = bob.do(http.MethodGet, "/daily/fruits/leaderboard", nil)
	lb := decode[struct {
		Results []struct {
			Score int `json:"score"`
		} `json:"results"`
	}](t, rec)
	if len(lb.Results) != 1 || lb.Results[0].Score != 5 {
		t.Fatalf("daily leaderboard = %+v", lb)
	}

	if rec := bob.do(http.MethodGet, "/daily/planets", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown daily category: %d", rec.Code)
	}
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))
	reg := newRegistry(time.Minute, clk)

	stale := &liveSession{sess: game.New(game.Deps{}, game.Options{})}
	fresh := &liveSession{sess: game.New(game.Deps{}, game.Options{})}
	reg.put(stale)
	clk.Advance(45 * time.Second)
	reg.put(fresh)
	clk.Advance(30 * time.Second)

	if _, ok := reg.get(stale.sess.ID()); ok {
		t.Fatal("stale session survived")
	}
	if _, ok := reg.get(fresh.sess.ID()); !ok {
		t.Fatal("fresh session evicted")
	}
	if n := reg.len(); n != 1 {
		t.Fatalf("len = %d", n)
	}
}

func TestLeaderboardCacheStaysBounded(t *testing.T) {
	srv, clk := newTestServer(t)
	for i := 0; i < 200; i++ {
		anon := &client{t: t, srv: srv}
		if rec := anon.do(http.MethodGet, "/leaderboard/animals", nil); rec.Code != http.StatusOK {
			t.Fatalf("leaderboard: %d", rec.Code)
		}
	}
	if n := len(srv.boards); n != 0 {
		t.Fatalf("read-only requests cached %d boards", n)
	}

	alice := &client{t: t, srv: srv}
	alice.start("animals", "normal")
	clk.Advance(2 * time.Hour)
	bob := &client{t: t, srv: srv}
	bob.start("animals", "normal")
	if n := len(srv.boards); n != 1 {
		t.Fatalf("boards = %d, want only the live player's", n)
	}
}

func TestDailyResultKeepsStartDate(t *testing.T) {
	srv, clk := newTestServer(t)
	clk.Advance(15*time.Hour + 58*time.Minute) // 23:58 UTC
	c := &client{t: t, srv: srv}
	res := c.start("fruits", "daily")
	clk.Advance(5 * time.Minute)
	c.play(res.SessionID, 5)

	rec := c.do(http.MethodGet, "/daily/fruits/leaderboard?date=2026-10-19", nil)
	lb := decode[struct {
		Results []struct {
			Score int `json:"score"`
		} `json:"results"`
	}](t, rec)
	if len(lb.Results) != 1 {
		t.Fatalf("results for the dealt date = %+v", lb)
	}
	status := decode[dailyStatusRes](t, c.do(http.MethodGet, "/daily/fruits", nil))
	if status.Date != "2026-10-20" || status.Played {
		t.Fatalf("next day status = %+v", status)
	}
}
