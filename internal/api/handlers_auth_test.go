package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleRegister(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	t.Run("creates user with default categories", func(t *testing.T) {
		var body struct {
			Message string `json:"message"`
			User    struct {
				ID       int64  `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		}
		resp := doJSON(t, ts, http.MethodPost, "/api/auth/register", "",
			map[string]string{"username": "newuser", "password": "pw"}, &body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, "newuser", body.User.Username)
		require.NotZero(t, body.User.ID)

		token := registerAndLoginExisting(t, ts, "newuser")
		var cats []struct {
			Name string `json:"name"`
		}
		resp = doJSON(t, ts, http.MethodGet, "/api/categories", token, nil, &cats)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, cats, 3)
		require.Equal(t, "Food", cats[0].Name)
		require.Equal(t, "Transport", cats[1].Name)
		require.Equal(t, "Credit Card", cats[2].Name)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		resp := doJSON(t, ts, http.MethodPost, "/api/auth/register", "",
			map[string]string{"username": "nopass"}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		creds := map[string]string{"username": "twice", "password": "pw"}
		resp := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", creds, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Message string `json:"message"`
		}
		resp = doJSON(t, ts, http.MethodPost, "/api/auth/register", "", creds, &body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "Username already exists", body.Message)
	})
}

// registerAndLoginExisting logs in a user created earlier in the test.
func registerAndLoginExisting(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	var login struct {
		Token string `json:"token"`
	}
	resp := doJSON(t, ts, http.MethodPost, "/api/auth/login", "",
		map[string]string{"username": username, "password": "pw"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return login.Token
}

func TestHandleLogin(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	creds := map[string]string{"username": "loginuser", "password": "right-password"}
	resp := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", creds, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("issues token for valid credentials", func(t *testing.T) {
		var body struct {
			Token string `json:"token"`
			User  struct {
				ID       int64  `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		}
		resp := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", creds, &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotEmpty(t, body.Token)
		require.Equal(t, "loginuser", body.User.Username)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		var body struct {
			Message string `json:"message"`
		}
		resp := doJSON(t, ts, http.MethodPost, "/api/auth/login", "",
			map[string]string{"username": "loginuser", "password": "right-passwore"}, &body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "Invalid credentials", body.Message)
	})

	t.Run("rejects unknown username", func(t *testing.T) {
		var body struct {
			Message string `json:"message"`
		}
		resp := doJSON(t, ts, http.MethodPost, "/api/auth/login", "",
			map[string]string{"username": "ghost", "password": "pw"}, &body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "Invalid credentials", body.Message)
	})
}
