// internal/httpserver/token.go
//
// Session tokens and player cookies.
//   - Session token: HS256 JWT carrying the session and player IDs, handed back by
//     POST /session/new and accepted as a bearer token or cookie.
//   - Player cookie: long-lived anonymous ID that namespaces a player's scores.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "susunkata_session"
	playerCookieName  = "susunkata_player"
	playerCookieTTL   = 180 * 24 * time.Hour
)

// sessionClaims is the payload of a session token.
type sessionClaims struct {
	SessionID string `json:"sid"`
	PlayerID  string `json:"pid"`
	jwt.RegisteredClaims
}

// signSessionToken creates an HS256 JWT for sessionID, expiring after the session TTL.
func (s *Server) signSessionToken(sessionID, playerID string) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.cfg.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sessionID,
		PlayerID:  playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	ss, err := t.SignedString([]byte(s.cfg.SessionSecret))
	return ss, exp, err
}

// parseSessionToken validates tok and returns its claims.
func (s *Server) parseSessionToken(tok string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SessionSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !t.Valid {
		return nil, errUnauthorized
	}
	if claims.SessionID == "" || claims.PlayerID == "" {
		return nil, errors.New("token without session")
	}
	return claims, nil
}

// setSessionCookie writes the session token cookie.
func setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookies(),
		SameSite: sameSite(),
		Expires:  exp,
	})
}

// bearerOrCookie extracts a session token from the Authorization header or cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensurePlayerID returns the player cookie, setting a new one when absent.
func (s *Server) ensurePlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookies(),
		SameSite: sameSite(),
		Expires:  s.clock.Now().Add(playerCookieTTL),
	})
	return id
}

func secureCookies() bool {
	ok, _ := strconv.ParseBool(os.Getenv("COOKIE_SECURE"))
	return ok
}

func sameSite() http.SameSite {
	if secureCookies() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// ---------------------------- session middleware ----------------------------

type ctxSessionKey struct{}

// requireSession resolves the session token to a live session and puts it in the
// request context.
func (s *Server) requireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeError(w, errUnauthorized)
				return
			}
			claims, err := s.parseSessionToken(tok)
			if err != nil {
				writeError(w, errUnauthorized)
				return
			}
			live, ok := s.sessions.get(claims.SessionID)
			if !ok || live.player != claims.PlayerID {
				writeError(w, errSessionNotFound)
				return
			}
			ctx := context.WithValue(r.Context(), ctxSessionKey{}, live)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(ctx context.Context) *liveSession {
	live, _ := ctx.Value(ctxSessionKey{}).(*liveSession)
	return live
}
