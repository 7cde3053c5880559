package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Chunsinee/expenseTracker/internal/database"
	"github.com/Chunsinee/expenseTracker/internal/models"
)

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db database.PGXDB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.PGXDB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create adds a new expense and fills in the server-assigned fields.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (user_id, category_id, amount, date, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, expense.UserID, expense.CategoryID, expense.Amount, expense.Date, expense.Note,
	).Scan(&expense.ID, &expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// ListByUser retrieves a page of a user's expenses left-joined with the
// category name, newest date first, then newest created first.
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.ExpenseWithCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.user_id, e.category_id, e.amount, e.date, e.note, e.created_at,
		       c.name
		FROM expenses e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE e.user_id = $1
		ORDER BY e.date DESC, e.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.ExpenseWithCategory
	for rows.Next() {
		var exp models.ExpenseWithCategory
		var note *string
		if err := rows.Scan(
			&exp.ID, &exp.UserID, &exp.CategoryID, &exp.Amount, &exp.Date, &note,
			&exp.CreatedAt, &exp.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if note != nil {
			exp.Note = *note
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

// Summarize returns the user's total spending and per-category subtotals
// ordered largest first. Expenses without a category group under the
// uncategorized label; grouping is keyed by category name.
func (r *ExpenseRepository) Summarize(ctx context.Context, userID int64) (*models.Summary, error) {
	summary := &models.Summary{Total: decimal.Zero}

	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1
	`, userID).Scan(&summary.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to get total: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(c.name, $2) AS name, SUM(e.amount) AS total
		FROM expenses e
		LEFT JOIN categories c ON e.category_id = c.id
		WHERE e.user_id = $1
		GROUP BY c.name
		ORDER BY total DESC
	`, userID, models.UncategorizedName)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return summary, nil
}
