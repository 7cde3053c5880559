package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Chunsinee/expenseTracker/internal/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	t.Run("rejects missing header", func(t *testing.T) {
		resp := doJSON(t, ts, http.MethodGet, "/api/categories", "", nil, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/categories", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Basic abc123")

		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		resp := doJSON(t, ts, http.MethodGet, "/api/categories", "not.a.token", nil, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired, err := auth.NewToken(1, testJWTSecret, -time.Minute)
		require.NoError(t, err)

		resp := doJSON(t, ts, http.MethodGet, "/api/categories", expired, nil, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		forged, err := auth.NewToken(1, "other-secret", time.Hour)
		require.NoError(t, err)

		resp := doJSON(t, ts, http.MethodGet, "/api/categories", forged, nil, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepts a valid token", func(t *testing.T) {
		token := registerAndLogin(t, ts, "middleware-user")
		resp := doJSON(t, ts, http.MethodGet, "/api/categories", token, nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
