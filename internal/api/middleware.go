package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/tilespeak/tilespeak-server/internal/http/response"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	emailKey  contextKey = "email"
)

// requireAuth authenticates the request from the session cookie or a bearer
// token. A missing token is 401; a present but invalid or expired token
// is 403.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.extractToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := s.tokens.VerifySessionToken(token)
		if err != nil {
			response.Error(w, http.StatusForbidden, "invalid or expired session")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, emailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the caller's identity when a valid token is present
// and lets the request through anonymously otherwise.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := s.extractToken(r); token != "" {
			if claims, err := s.tokens.VerifySessionToken(token); err == nil {
				ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
				ctx = context.WithValue(ctx, emailKey, claims.Email)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// extractToken reads the session token from the cookie, falling back to an
// Authorization bearer header for non-browser clients.
func (s *Server) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(s.cfg.Auth.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// clientIP returns the caller's address without the port, so rate limit
// buckets track a host rather than a single TCP connection. RealIP has
// already substituted proxy headers into RemoteAddr, which carry no port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// getUserID returns the authenticated user's ID, or "" if the request is
// anonymous.
func getUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
