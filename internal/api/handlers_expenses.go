package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Chunsinee/expenseTracker/internal/models"
	"github.com/Chunsinee/expenseTracker/internal/repository"
)

// dateLayout is the wire format for expense dates.
const dateLayout = "2006-01-02"

const defaultListLimit = 20

type expenseResponse struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	CategoryID   *int64          `json:"category_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Note         string          `json:"note"`
	CategoryName *string         `json:"category_name"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toExpenseResponse(exp models.ExpenseWithCategory) expenseResponse {
	return expenseResponse{
		ID:           exp.ID,
		UserID:       exp.UserID,
		CategoryID:   exp.CategoryID,
		Amount:       exp.Amount,
		Date:         exp.Date.Format(dateLayout),
		Note:         exp.Note,
		CategoryName: exp.CategoryName,
		CreatedAt:    exp.CreatedAt,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	limit, offset := defaultListLimit, 0

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, errValidation("Invalid pagination values"))
			return
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, errValidation("Invalid pagination values"))
			return
		}
		offset = n
	}
	if limit < 1 || offset < 0 {
		s.respondError(w, errValidation("Invalid pagination values"))
		return
	}

	expenses, err := s.expenses.ListByUser(r.Context(), userID(r), limit, offset)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for _, exp := range expenses {
		resp = append(resp, toExpenseResponse(exp))
	}
	s.respond(w, http.StatusOK, resp)
}

type categoryTotalResponse struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type summaryResponse struct {
	TotalExpense decimal.Decimal         `json:"total_expense"`
	ByCategory   []categoryTotalResponse `json:"by_category"`
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.expenses.Summarize(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := summaryResponse{
		TotalExpense: summary.Total,
		ByCategory:   make([]categoryTotalResponse, 0, len(summary.ByCategory)),
	}
	for _, ct := range summary.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotalResponse{Name: ct.Name, Total: ct.Total})
	}
	s.respond(w, http.StatusOK, resp)
}

type createExpenseRequest struct {
	CategoryID *int64           `json:"category_id"`
	Amount     *decimal.Decimal `json:"amount"`
	Date       string           `json:"date"`
	Note       string           `json:"note"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errValidation("Invalid request body"))
		return
	}
	if req.Amount == nil || req.Date == "" {
		s.respondError(w, errValidation("Amount and date are required"))
		return
	}
	if req.Amount.IsNegative() {
		s.respondError(w, errValidation("Invalid amount"))
		return
	}

	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		s.respondError(w, errValidation("Invalid date"))
		return
	}

	uid := userID(r)
	ctx := r.Context()

	if req.CategoryID != nil {
		if _, err := s.categories.GetOwned(ctx, *req.CategoryID, uid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondError(w, errForbidden("Invalid category"))
				return
			}
			s.respondError(w, err)
			return
		}
	}

	exp := models.Expense{
		UserID:     uid,
		CategoryID: req.CategoryID,
		Amount:     *req.Amount,
		Date:       day,
		Note:       req.Note,
	}
	if err := s.expenses.Create(ctx, &exp); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, toExpenseResponse(models.ExpenseWithCategory{Expense: exp}))
}
