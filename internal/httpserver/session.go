package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
)

// ctxSessionKey is the context key for the authenticated game ID.
type ctxSessionKey struct{}

// sessionHeader carries a refreshed token on every authenticated response,
// keeping the token expiry in step with the store's sliding idle timeout.
const sessionHeader = "X-Session-Token"

// signSession creates an HS256 JWT whose subject is the game ID.
func signSession(secret, gameID string, now time.Time, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return t.SignedString([]byte(secret))
}

// parseSession verifies tok and returns the game ID it was issued for.
func parseSession(secret, tok string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}

// requireSession enforces a valid session token, stores its game ID in
// the request context and returns a refreshed token in sessionHeader.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearer(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session token")
			return
		}
		now := s.opts.Now()
		id, err := parseSession(s.opts.JWTSecret, tok, now)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid session token")
			return
		}
		if fresh, err := signSession(s.opts.JWTSecret, id, now, s.opts.SessionTTL); err == nil {
			w.Header().Set(sessionHeader, fresh)
		} else {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", id).Msg("refresh session token")
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the game ID placed in ctx by requireSession.
func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxSessionKey{}).(string)
	return id
}

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}
