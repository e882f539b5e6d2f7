package queryserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"solmev/internal/metrics"
	"solmev/internal/store"
)

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(t *testing.T) (*Server, *store.Index) {
	t.Helper()
	idx := store.NewIndex()
	return NewServer(":0", idx, metrics.New(), silentLogger()), idx
}

func TestHandleBlockNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/blocks/7", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHandleBlockBadSlot(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/blocks/not-a-number", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		// The {slot:[0-9]+} route constraint rejects non-numeric slots
		// before the handler runs, so gorilla/mux reports no matching route.
		t.Fatalf("expected 404 for a non-matching route, got %d", rr.Code)
	}
}

func TestHandleBlockSuccess(t *testing.T) {
	srv, idx := newTestServer(t)
	block := store.BlockDocument{Slot: 7, BlockTime: 111}
	txs := []store.TransactionDocument{{ID: "sigA", Signature: "sigA", BlockID: 7, BlockOrder: 0}}
	if err := idx.WriteBlockDocuments(block, txs, nil); err != nil {
		t.Fatalf("WriteBlockDocuments: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/blocks/7", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	blockField, ok := body["block"].(map[string]any)
	if !ok || blockField["_id"].(float64) != 7 {
		t.Fatalf("unexpected block field: %+v", body["block"])
	}
}

func TestHandleTransactionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/transactions/unknown", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHandleTransactionSuccess(t *testing.T) {
	srv, idx := newTestServer(t)
	block := store.BlockDocument{Slot: 7, BlockTime: 111}
	txs := []store.TransactionDocument{{ID: "sigA", Signature: "sigA", BlockID: 7, BlockOrder: 0}}
	if err := idx.WriteBlockDocuments(block, txs, nil); err != nil {
		t.Fatalf("WriteBlockDocuments: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/transactions/sigA", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestHandleHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestHandleMetrics(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
