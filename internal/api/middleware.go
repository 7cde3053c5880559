package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Chunsinee/expenseTracker/internal/auth"
)

type contextKey int

const userIDKey contextKey = iota

// authenticate verifies the bearer token and puts the caller's user id on
// the request context.
func (s *Server) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			s.respondError(w, errUnauthorized("No token, authorization denied"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		uid, err := auth.ParseToken(tokenStr, s.cfg.JWTSecret)
		if err != nil {
			s.respondError(w, errUnauthorized("Token is not valid"))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, uid)
		next(w, r.WithContext(ctx))
	}
}

// userID returns the authenticated user id stored by the middleware.
func userID(r *http.Request) int64 {
	uid, _ := r.Context().Value(userIDKey).(int64)
	return uid
}
