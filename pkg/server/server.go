// Package server exposes the dashboard's read-only JSON/CSV contract over
// HTTP. All endpoints read from an immutable snapshot built after ingestion;
// POST /api/reload swaps the snapshot atomically.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/bcnw/spendboard/pkg/categorize"
	"github.com/bcnw/spendboard/pkg/csvexport"
	"github.com/bcnw/spendboard/pkg/dataset"
	"github.com/bcnw/spendboard/pkg/models"
)

// Loader fetches the persisted dataset for snapshot construction.
type Loader interface {
	FetchAll(ctx context.Context) ([]models.Transaction, error)
}

type Server struct {
	logger      *log.Logger
	mux         *http.ServeMux
	loader      Loader
	categorizer *categorize.Categorizer
	snapshot    atomic.Pointer[dataset.Snapshot]
}

// New creates the dashboard server. Call Reload before serving so the first
// request already sees data.
func New(loader Loader, categorizer *categorize.Categorizer, logger *log.Logger) *Server {
	s := &Server{
		logger:      logger,
		mux:         http.NewServeMux(),
		loader:      loader,
		categorizer: categorizer,
	}
	s.setupRoutes()
	return s
}

// Reload builds a fresh snapshot from the store and swaps it in atomically.
// In-flight requests keep reading the snapshot they started with.
func (s *Server) Reload(ctx context.Context) error {
	transactions, err := s.loader.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("error loading dataset: %w", err)
	}
	snap := dataset.New(transactions, s.categorizer)
	s.snapshot.Store(snap)
	s.logger.Info("snapshot reloaded", "rows", snap.Len())
	return nil
}

// Start loads the initial snapshot and serves until the listener fails.
func (s *Server) Start(addr string) error {
	if err := s.Reload(context.Background()); err != nil {
		return err
	}
	s.logger.Info("dashboard server listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/months", s.withLogging(s.handleMonths))
	s.mux.HandleFunc("/api/summary", s.withLogging(s.handleSummary))
	s.mux.HandleFunc("/api/categories", s.withLogging(s.handleCategories))
	s.mux.HandleFunc("/api/channels", s.withLogging(s.handleChannels))
	s.mux.HandleFunc("/api/trend", s.withLogging(s.handleTrend))
	s.mux.HandleFunc("/api/savings", s.withLogging(s.handleSavings))
	s.mux.HandleFunc("/api/transactions", s.withLogging(s.handleTransactions))
	s.mux.HandleFunc("/api/transactions.csv", s.withLogging(s.handleTransactionsCSV))
	s.mux.HandleFunc("/api/reload", s.withLogging(s.handleReload))
}

func (s *Server) current() *dataset.Snapshot {
	if snap := s.snapshot.Load(); snap != nil {
		return snap
	}
	return dataset.New(nil, s.categorizer)
}

// month returns the active month filter; empty and "All" both select the
// whole dataset.
func month(r *http.Request) string {
	return r.URL.Query().Get("month")
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	snap := s.current()
	months := append([]string{dataset.MonthAll}, snap.Months()...)
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "success",
		"months": months,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	snap := s.current()
	if snap.Len() == 0 {
		s.writeNoData(w, r)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "success",
		"month":  month(r),
		"kpi":    snap.KPIs(month(r)),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	snap := s.current()
	if snap.Len() == 0 {
		s.writeNoData(w, r)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"month":      month(r),
		"categories": snap.CategoryTotals(month(r)),
	})
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	snap := s.current()
	if snap.Len() == 0 {
		s.writeNoData(w, r)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"month":    month(r),
		"channels": snap.ChannelTotals(month(r)),
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	snap := s.current()
	if snap.Len() == 0 {
		s.writeNoData(w, r)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "success",
		"trend":  snap.MonthlyTrend(),
	})
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	savings := s.current().SavingsNet()
	if len(savings.Transactions) == 0 {
		s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
			"status":  "no_data",
			"message": "no savings transactions found yet",
		})
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"savings": savings,
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	snap := s.current()
	if snap.Len() == 0 {
		s.writeNoData(w, r)
		return
	}
	transactions := snap.Transactions(month(r))
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"month":        month(r),
		"count":        len(transactions),
		"transactions": transactions,
	})
}

func (s *Server) handleTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	m := month(r)
	data, err := csvexport.Bytes(s.current().Transactions(m))
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to render csv", err)
		return
	}

	if m == "" {
		m = dataset.MonthAll
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=transactions_%s.csv", m))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := s.Reload(r.Context()); err != nil {
		s.respondError(w, r, http.StatusBadGateway, "failed to reload dataset", err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "success",
		"rows":   s.current().Len(),
	})
}

// ---------------- helpers ----------------

func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next(w, r)
	}
}

func (s *Server) writeNoData(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":  "no_data",
		"message": "no transactions ingested yet",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("failed to write json response", "path", r.URL.Path, "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Error(message, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, r, status, map[string]interface{}{
		"status": "error",
		"error":  message,
	})
}
