package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Chunsinee/expenseTracker/internal/auth"
	"github.com/Chunsinee/expenseTracker/internal/logger"
	"github.com/Chunsinee/expenseTracker/internal/models"
	"github.com/Chunsinee/expenseTracker/internal/repository"
)

// tokenTTL is the lifetime of issued bearer tokens.
const tokenTTL = time.Hour

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// handleRegister creates the user plus their default categories in a single
// transaction.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errValidation("Invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		s.respondError(w, errValidation("Please provide username and password"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, err)
		return
	}

	ctx := r.Context()
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.respondError(w, err)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := repository.NewUserRepository(tx)
	categories := repository.NewCategoryRepository(tx)

	user, err := users.Create(ctx, req.Username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.respondError(w, errValidation("Username already exists"))
			return
		}
		s.respondError(w, err)
		return
	}

	for _, name := range models.DefaultCategories {
		if _, err := categories.Create(ctx, user.ID, name); err != nil {
			s.respondError(w, err)
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.respondError(w, err)
		return
	}

	logger.Log.Info().Int64("user_id", user.ID).Msg("User registered")

	s.respond(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User: userResponse{
			ID:        user.ID,
			Username:  user.Username,
			CreatedAt: &user.CreatedAt,
		},
	})
}

// handleLogin verifies credentials and issues a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errValidation("Invalid request body"))
		return
	}

	user, err := s.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, errValidation("Invalid credentials"))
			return
		}
		s.respondError(w, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, errValidation("Invalid credentials"))
		return
	}

	token, err := auth.NewToken(user.ID, s.cfg.JWTSecret, tokenTTL)
	if err != nil {
		s.respondError(w, err)
		return
	}

	logger.Log.Info().Int64("user_id", user.ID).Msg("User logged in")

	s.respond(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username},
	})
}
