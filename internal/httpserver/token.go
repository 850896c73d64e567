// internal/httpserver/token.go
//
// Game tokens: an HS256 JWT naming the hosted session ("gid").
// Clients send it back as "Authorization: Bearer <token>" or in the
// akinator_game cookie.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/akinator-go/internal/store"
)

const gameCookieName = "akinator_game"

// ctxEntryKey is the context key type for the authorised store entry.
type ctxEntryKey struct{}

var errInvalidToken = errors.New("invalid token")

// signGameToken creates an HS256 JWT for game id, valid for cfg.TokenTTL.
func (s *Server) signGameToken(gameID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": gameID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.TokenSecret))
	return ss, exp, err
}

// parseGameToken validates tok and returns its game id.
func (s *Server) parseGameToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.TokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !t.Valid {
		return "", errInvalidToken
	}
	gid, _ := claims["gid"].(string)
	if gid == "" {
		return "", errInvalidToken
	}
	return gid, nil
}

// setGameCookie writes the token cookie with appropriate security attributes.
func (s *Server) setGameCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.CookieSecure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     gameCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearGameCookie deletes the token cookie.
func (s *Server) clearGameCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     gameCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or game cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(gameCookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireGame enforces a valid game token and injects the store entry into
// the request context.
func (s *Server) requireGame() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing game token")
				return
			}
			gid, err := s.parseGameToken(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
				return
			}
			e, err := s.store.Get(r.Context(), gid)
			if err != nil {
				writeError(w, http.StatusNotFound, "game_not_found", "game expired or unknown")
				return
			}
			ctx := context.WithValue(r.Context(), ctxEntryKey{}, e)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// entryFrom returns the entry placed by requireGame.
func entryFrom(ctx context.Context) *store.Entry {
	e, _ := ctx.Value(ctxEntryKey{}).(*store.Entry)
	return e
}
