// Package models defines the domain entities for the expense tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedName labels expenses that have no category attached.
const UncategorizedName = "Uncategorized"

// DefaultCategories are created for every user at registration.
var DefaultCategories = []string{"Food", "Transport", "Credit Card"}

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Category is a per-user named expense bucket. (UserID, Name) is unique.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt time.Time
}

// Expense represents a single expense entry. Date carries a calendar date
// only (midnight UTC); CategoryID is nil for uncategorized expenses.
type Expense struct {
	ID         int64
	UserID     int64
	CategoryID *int64
	Amount     decimal.Decimal
	Date       time.Time
	Note       string
	CreatedAt  time.Time
}

// ExpenseWithCategory is the read projection of an expense left-joined with
// its category name.
type ExpenseWithCategory struct {
	Expense
	CategoryName *string
}

// DisplayCategory resolves the category name, falling back to the
// uncategorized label.
func (e ExpenseWithCategory) DisplayCategory() string {
	if e.CategoryName == nil || *e.CategoryName == "" {
		return UncategorizedName
	}
	return *e.CategoryName
}

// CategoryTotal is one row of the per-category summary.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// Summary aggregates a user's spending across all expenses.
type Summary struct {
	Total      decimal.Decimal
	ByCategory []CategoryTotal
}
