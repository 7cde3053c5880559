package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a minimal in-memory stand-in for the server.
type fakeAPI struct {
	t          *testing.T
	categories []Category
	expenses   []Expense
	nextID     int64
	token      string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	f := &fakeAPI{t: t, nextID: 1, token: "valid-token"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "pw" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": f.token,
			"user":  map[string]any{"id": 1, "username": creds["username"]},
		})
	})
	mux.HandleFunc("GET /api/categories", f.authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(f.categories)
	}))
	mux.HandleFunc("POST /api/categories", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		cat := Category{ID: f.nextID, Name: req["name"], UserID: 1}
		f.nextID++
		f.categories = append(f.categories, cat)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(cat)
	}))
	mux.HandleFunc("GET /api/expenses", f.authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(f.expenses)
	}))
	mux.HandleFunc("POST /api/expenses", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var exp Expense
		require.NoError(t, json.NewDecoder(r.Body).Decode(&exp))
		exp.ID = f.nextID
		f.nextID++
		f.expenses = append(f.expenses, exp)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(exp)
	}))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return f, ts
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.token {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Token is not valid"})
			return
		}
		next(w, r)
	}
}

func TestClientLogin(t *testing.T) {
	_, ts := newFakeAPI(t)
	store := NewMemoryTokenStore()
	client := NewClient(ts.URL, store)
	ctx := context.Background()

	t.Run("stores token on success", func(t *testing.T) {
		session, err := client.Login(ctx, "alice", "pw")
		require.NoError(t, err)
		require.Equal(t, "alice", session.Username)
		require.Equal(t, int64(1), session.UserID)

		token, err := store.Token()
		require.NoError(t, err)
		require.Equal(t, "valid-token", token)
	})

	t.Run("surfaces API error on bad credentials", func(t *testing.T) {
		_, err := client.Login(ctx, "alice", "wrong")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.Status)
		require.Equal(t, "Invalid credentials", apiErr.Message)
	})
}

func TestClientUnauthorized(t *testing.T) {
	_, ts := newFakeAPI(t)
	store := NewMemoryTokenStore()
	client := NewClient(ts.URL, store)
	ctx := context.Background()

	t.Run("missing token fails without a request", func(t *testing.T) {
		_, err := client.FetchCategories(ctx)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("rejected token is cleared from the store", func(t *testing.T) {
		require.NoError(t, store.SetToken("stale-token"))

		_, err := client.FetchCategories(ctx)
		require.ErrorIs(t, err, ErrUnauthorized)

		_, err = store.Token()
		require.ErrorIs(t, err, ErrNoToken)
	})
}

func TestClientLoadDashboard(t *testing.T) {
	f, ts := newFakeAPI(t)
	client := NewClient(ts.URL, NewMemoryTokenStore())
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	catID := int64(42)
	f.categories = []Category{{ID: 42, Name: "Food", UserID: 1}}
	f.expenses = []Expense{
		{ID: 1, CategoryID: &catID, Amount: Amount{decimal.NewFromInt(10)}, Date: "2024-03-05"},
		{ID: 2, Amount: Amount{decimal.NewFromInt(5)}, Date: "2024-03-06"},
	}

	entries, categories, err := client.LoadDashboard(ctx, 100)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, entries, 2)
	require.Equal(t, "Food", entries[0].Category)
	require.Equal(t, UncategorizedName, entries[1].Category)
}

func TestClientAddExpense(t *testing.T) {
	f, ts := newFakeAPI(t)
	client := NewClient(ts.URL, NewMemoryTokenStore())
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	f.categories = []Category{{ID: 1, Name: "Food", UserID: 1}}

	t.Run("reuses existing category case-insensitively", func(t *testing.T) {
		err := client.AddExpense(ctx, AddExpenseInput{
			Category: "food",
			Amount:   decimal.NewFromInt(12),
			Date:     "2024-03-05",
			Note:     "lunch",
		})
		require.NoError(t, err)
		require.Len(t, f.categories, 1)
		require.Len(t, f.expenses, 1)
		require.NotNil(t, f.expenses[0].CategoryID)
		require.Equal(t, int64(1), *f.expenses[0].CategoryID)
	})

	t.Run("creates new category on demand", func(t *testing.T) {
		err := client.AddExpense(ctx, AddExpenseInput{
			Category: "Travel",
			Amount:   decimal.NewFromInt(80),
			Date:     "2024-03-06",
		})
		require.NoError(t, err)
		require.Len(t, f.categories, 2)
		require.Equal(t, "Travel", f.categories[1].Name)
	})

	t.Run("blank category submits uncategorized", func(t *testing.T) {
		err := client.AddExpense(ctx, AddExpenseInput{
			Category: "  ",
			Amount:   decimal.NewFromInt(3),
			Date:     "2024-03-07",
		})
		require.NoError(t, err)
		require.Nil(t, f.expenses[len(f.expenses)-1].CategoryID)
	})
}
