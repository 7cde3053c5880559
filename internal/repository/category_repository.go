package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Chunsinee/expenseTracker/internal/database"
	"github.com/Chunsinee/expenseTracker/internal/models"
)

// CategoryRepository handles category database operations.
type CategoryRepository struct {
	db database.PGXDB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db database.PGXDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser retrieves all categories owned by a user in insertion order.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, created_at FROM categories
		WHERE user_id = $1
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// Create adds a new category for a user. The (user_id, name) unique
// constraint is the single source of duplicate detection; a violation
// surfaces as ErrDuplicate.
func (r *CategoryRepository) Create(ctx context.Context, userID int64, name string) (*models.Category, error) {
	cat := &models.Category{UserID: userID, Name: name}
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (user_id, name) VALUES ($1, $2)
		RETURNING id, created_at
	`, userID, name).Scan(&cat.ID, &cat.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("category %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return cat, nil
}

// GetOwned retrieves a category by ID only if it belongs to the given user.
// Returns ErrNotFound otherwise.
func (r *CategoryRepository) GetOwned(ctx context.Context, id, userID int64) (*models.Category, error) {
	var cat models.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, created_at FROM categories
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}
