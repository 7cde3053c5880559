package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrUnauthorized indicates the stored token was missing, invalid or
// expired. The client clears the token store before returning it, so the
// caller can redirect to login.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Session identifies the logged-in user.
type Session struct {
	UserID   int64
	Username string
}

// Category mirrors the server's category representation.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"user_id"`
}

// Amount is a decimal that tolerates malformed values by coercing them to
// zero, matching how the dashboard treats unparseable amounts.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON coerces null or non-numeric amounts to zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// Expense mirrors the server's expense representation.
type Expense struct {
	ID         int64  `json:"id"`
	CategoryID *int64 `json:"category_id"`
	Amount     Amount `json:"amount"`
	Date       string `json:"date"`
	Note       string `json:"note"`
}

// CategoryTotal is one row of the server-side summary.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// Summary is the server-side spending summary.
type Summary struct {
	TotalExpense decimal.Decimal `json:"total_expense"`
	ByCategory   []CategoryTotal `json:"by_category"`
}

// Client talks to the expense tracker API. Tokens are persisted through the
// injected TokenStore so the storage backend can be swapped.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenStore
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil, false)
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp, false); err != nil {
		return Session{}, err
	}
	if err := c.tokens.SetToken(resp.Token); err != nil {
		return Session{}, fmt.Errorf("failed to store token: %w", err)
	}
	return Session{UserID: resp.User.ID, Username: resp.User.Username}, nil
}

// FetchCategories retrieves the user's categories.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories, true); err != nil {
		return nil, err
	}
	return categories, nil
}

// FetchExpenses retrieves a page of the user's expenses.
func (c *Client) FetchExpenses(ctx context.Context, limit, offset int) ([]Expense, error) {
	path := fmt.Sprintf("/api/expenses?limit=%d&offset=%d", limit, offset)
	var expenses []Expense
	if err := c.do(ctx, http.MethodGet, path, nil, &expenses, true); err != nil {
		return nil, err
	}
	return expenses, nil
}

// FetchSummary retrieves the server-side spending summary.
func (c *Client) FetchSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, http.MethodGet, "/api/expenses/summary", nil, &summary, true); err != nil {
		return nil, err
	}
	return &summary, nil
}

// LoadDashboard fetches expenses and categories concurrently, then joins
// category names onto the expenses.
func (c *Client) LoadDashboard(ctx context.Context, limit int) ([]Entry, []Category, error) {
	var (
		expenses   []Expense
		categories []Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = c.FetchExpenses(gctx, limit, 0)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.FetchCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return JoinCategories(expenses, categories), categories, nil
}

// AddExpenseInput is the add-expense form: the category arrives as a typed
// name and is resolved (or created) before the expense is submitted.
type AddExpenseInput struct {
	Category string
	Amount   decimal.Decimal
	Date     string
	Note     string
}

// AddExpense resolves the category name case-insensitively against the
// user's categories, creating it on demand, then records the expense.
func (c *Client) AddExpense(ctx context.Context, input AddExpenseInput) error {
	categories, err := c.FetchCategories(ctx)
	if err != nil {
		return err
	}

	var categoryID *int64
	for i := range categories {
		if strings.EqualFold(categories[i].Name, input.Category) {
			categoryID = &categories[i].ID
			break
		}
	}
	if categoryID == nil && strings.TrimSpace(input.Category) != "" {
		var created Category
		body := map[string]string{"name": input.Category}
		if err := c.do(ctx, http.MethodPost, "/api/categories", body, &created, true); err != nil {
			return err
		}
		categoryID = &created.ID
	}

	body := map[string]any{
		"amount": input.Amount,
		"date":   input.Date,
		"note":   input.Note,
	}
	if categoryID != nil {
		body["category_id"] = *categoryID
	}
	return c.do(ctx, http.MethodPost, "/api/expenses", body, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.tokens.Clear()
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiMessage(resp))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: apiMessage(resp)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func apiMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		return resp.Status
	}
	return body.Message
}
