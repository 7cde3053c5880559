package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Chunsinee/expenseTracker/internal/config"
	"github.com/Chunsinee/expenseTracker/internal/database"
	"github.com/Chunsinee/expenseTracker/internal/logger"
	"github.com/Chunsinee/expenseTracker/internal/repository"
)

// Server is the expense tracker HTTP API.
type Server struct {
	cfg        *config.Config
	db         database.DB
	http       *http.Server
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	expenses   *repository.ExpenseRepository
}

// New creates an API server backed by the given database.
func New(cfg *config.Config, db database.DB) *Server {
	s := &Server{
		cfg:        cfg,
		db:         db,
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		expenses:   repository.NewExpenseRepository(db),
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(s.Handler(), "expense-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.authenticate(s.handleListCategories)).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.authenticate(s.handleCreateCategory)).Methods(http.MethodPost)
	api.HandleFunc("/expenses/summary", s.authenticate(s.handleExpenseSummary)).Methods(http.MethodGet)
	api.HandleFunc("/expenses", s.authenticate(s.handleListExpenses)).Methods(http.MethodGet)
	api.HandleFunc("/expenses", s.authenticate(s.handleCreateExpense)).Methods(http.MethodPost)

	return s.cors(router)
}

// Start runs the server until it is stopped or fails.
func (s *Server) Start() error {
	logger.Log.Info().Int("port", s.cfg.Port).Msg("Starting API server")
	return s.http.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	defer logger.Log.Info().Msg("Server stopped")
	return s.http.Shutdown(ctx)
}

// cors allows the configured client origin to call the API from a browser.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
