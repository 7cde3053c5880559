package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Chunsinee/expenseTracker/internal/models"
	"github.com/Chunsinee/expenseTracker/internal/repository"
)

type categoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryResponse(cat models.Category) categoryResponse {
	return categoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		UserID:    cat.UserID,
		CreatedAt: cat.CreatedAt,
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListByUser(r.Context(), userID(r))
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, toCategoryResponse(cat))
	}
	s.respond(w, http.StatusOK, resp)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errValidation("Invalid request body"))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.respondError(w, errValidation("Please provide a category name"))
		return
	}

	cat, err := s.categories.Create(r.Context(), userID(r), name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.respondError(w, errConflict("Category already exists"))
			return
		}
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, toCategoryResponse(*cat))
}
