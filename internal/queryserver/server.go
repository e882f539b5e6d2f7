// Package queryserver implements the query surface spec.md §1 mentions but
// excludes from the core: a thin, read-only HTTP API over whatever
// internal/store.Index a classify run has populated. Adapted from the
// teacher's cmd/explorer (router/handler/writeJSON shape), generalized
// from ledger queries to block/transaction document queries. Both
// cmd/queryserver and cmd/classify's serve subcommand wrap this package,
// the way the teacher keeps HTTP logic in core/ and cmd/ as thin flag
// wiring.
package queryserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"solmev/internal/metrics"
	"solmev/internal/store"
)

// Server exposes internal/store's in-memory index over HTTP (SPEC_FULL.md
// §A.5). It never depends on internal/classify directly; a classify run
// populates the Index it's handed, and this server only reads it.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	index      *store.Index
	metrics    *metrics.Registry
	log        *logrus.Logger
}

// NewServer constructs the router and HTTP server.
func NewServer(addr string, index *store.Index, metricsReg *metrics.Registry, log *logrus.Logger) *Server {
	s := &Server{router: mux.NewRouter(), index: index, metrics: metricsReg, log: log}
	s.routes()
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	return s
}

func (s *Server) Start() error { return s.httpServer.ListenAndServe() }

func (s *Server) routes() {
	s.router.Use(s.loggingMiddleware)
	s.router.HandleFunc("/blocks/{slot:[0-9]+}", s.handleBlock).Methods(http.MethodGet)
	s.router.HandleFunc("/transactions/{signature}", s.handleTransaction).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.log != nil {
			s.log.WithField("method", r.Method).WithField("path", r.URL.Path).Debug("queryserver: request")
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	slot, err := strconv.ParseUint(mux.Vars(r)["slot"], 10, 64)
	if err != nil {
		http.Error(w, "bad slot", http.StatusBadRequest)
		return
	}

	blockDoc, ok := s.index.GetBlock(slot)
	if !ok {
		http.Error(w, "block not found", http.StatusNotFound)
		return
	}
	transactions, err := s.index.BlockTransactions(slot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"block":        blockDoc,
		"transactions": transactions,
	})
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	signature := mux.Vars(r)["signature"]
	tx, ok := s.index.GetTransaction(signature)
	if !ok {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}
	writeJSON(w, tx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
