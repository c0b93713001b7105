package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/storage/memory"
)

func fixedClock() time.Time {
	return time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
}

func newTestServer() (*Server, *memory.Store) {
	store := memory.New()
	svc := ledger.NewService(store, &ledger.SequenceGenerator{}, fixedClock)
	return NewServer(":0", svc, nil), store
}

// downStore simulates an unreachable backing medium.
type downStore struct{}

func (downStore) Put(context.Context, core.Transaction) error { return core.ErrStoreUnavailable }
func (downStore) Get(context.Context, string) (core.Transaction, error) {
	return core.Transaction{}, core.ErrStoreUnavailable
}
func (downStore) Delete(context.Context, string) error { return core.ErrStoreUnavailable }
func (downStore) ListAll(context.Context) ([]core.Transaction, error) {
	return nil, core.ErrStoreUnavailable
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer()
	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := do(t, srv, http.MethodGet, path, ""); rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestListEmptyCollection(t *testing.T) {
	srv, _ := newTestServer()
	rr := do(t, srv, http.MethodGet, "/transactions", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("empty collection must serialize as [], got %s", got)
	}
}

func TestCreateTransaction(t *testing.T) {
	srv, store := newTestServer()

	rr := do(t, srv, http.MethodPost, "/transactions",
		`{"description":"Paycheck","amount":2500.00,"category":"Salary","type":"income"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var created core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "tx-1" {
		t.Fatalf("expected assigned id, got %q", created.ID)
	}
	if created.Date.String() != "2025-04-10" {
		t.Fatalf("date should default to today, got %s", created.Date)
	}
	if created.Amount.Cents != 250000 {
		t.Fatalf("amount: %d", created.Amount.Cents)
	}
	if store.Len() != 1 {
		t.Fatalf("record not persisted")
	}
}

func TestCreateValidationFailure(t *testing.T) {
	srv, store := newTestServer()

	rr := do(t, srv, http.MethodPost, "/transactions",
		`{"description":"","amount":10,"category":"Salary","type":"expense"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Error      string   `json:"error"`
		Violations []string `json:"violations"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Both the empty description and the Salary/expense pairing are listed.
	if len(resp.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %v", resp.Violations)
	}
	if store.Len() != 0 {
		t.Fatalf("rejected create must not persist")
	}
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	srv, _ := newTestServer()
	for _, body := range []string{
		`{"description":"x","amount":0,"category":"Groceries","type":"expense"}`,
		`{"description":"x","amount":-5,"category":"Groceries","type":"expense"}`,
	} {
		rr := do(t, srv, http.MethodPost, "/transactions", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("amount<=0 must 400, got %d for %s", rr.Code, body)
		}
	}
}

func TestUpdateTransaction(t *testing.T) {
	srv, _ := newTestServer()

	do(t, srv, http.MethodPost, "/transactions",
		`{"description":"Dinner","amount":30,"category":"Dining Out","type":"expense"}`)

	rr := do(t, srv, http.MethodPut, "/transactions/tx-1",
		`{"description":"Team dinner","amount":45.50,"category":"Dining Out","type":"expense","date":"2025-04-09"}`)
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var updated core.Transaction
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.ID != "tx-1" || updated.Amount.Cents != 4550 || updated.Date.String() != "2025-04-09" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestUpdateErrors(t *testing.T) {
	srv, _ := newTestServer()
	body := `{"description":"x","amount":1,"category":"Groceries","type":"expense","date":"2025-04-01"}`

	if rr := do(t, srv, http.MethodPut, "/transactions/ghost", body); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown id expected 404, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodPut, "/transactions/", body); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing id expected 400, got %d", rr.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv, store := newTestServer()

	do(t, srv, http.MethodPost, "/transactions",
		`{"description":"Bus pass","amount":40,"category":"Transport","type":"expense"}`)

	rr := do(t, srv, http.MethodDelete, "/transactions/tx-1", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Transaction deleted") {
		t.Fatalf("expected confirmation message, got %s", rr.Body.String())
	}
	if store.Len() != 0 {
		t.Fatalf("record not removed")
	}

	// Deleting again surfaces not-found, not a silent success.
	if rr := do(t, srv, http.MethodDelete, "/transactions/tx-1", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete expected 404, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodDelete, "/transactions/", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing id expected 400, got %d", rr.Code)
	}
}

func TestListWithFilters(t *testing.T) {
	srv, _ := newTestServer()

	seeds := []string{
		`{"description":"Paycheck","amount":2500,"category":"Salary","type":"income","date":"2025-04-01"}`,
		`{"description":"Groceries run","amount":62,"category":"Groceries","type":"expense","date":"2025-04-03"}`,
		`{"description":"Cinema","amount":15,"category":"Entertainment","type":"expense","date":"2025-04-05"}`,
	}
	for _, s := range seeds {
		if rr := do(t, srv, http.MethodPost, "/transactions", s); rr.Code != http.StatusCreated {
			t.Fatalf("seed failed: %s", rr.Body.String())
		}
	}

	var got []core.Transaction

	rr := do(t, srv, http.MethodGet, "/transactions?type=expense", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil || len(got) != 2 {
		t.Fatalf("type filter: %d items, err=%v", len(got), err)
	}
	// Newest first.
	if got[0].Description != "Cinema" {
		t.Fatalf("expected newest first, got %q", got[0].Description)
	}

	rr = do(t, srv, http.MethodGet, "/transactions?search=groceries", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil || len(got) != 1 {
		t.Fatalf("search filter: %d items, err=%v", len(got), err)
	}

	rr = do(t, srv, http.MethodGet, "/transactions?from=2025-04-02&to=2025-04-04", "")
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil || len(got) != 1 || got[0].Category != core.Groceries {
		t.Fatalf("date range filter: %+v, err=%v", got, err)
	}

	if rr := do(t, srv, http.MethodGet, "/transactions?from=bad-date", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed date bound expected 400, got %d", rr.Code)
	}
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	svc := ledger.NewService(downStore{}, &ledger.SequenceGenerator{}, fixedClock)
	srv := NewServer(":0", svc, nil)

	if rr := do(t, srv, http.MethodGet, "/transactions", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET expected 503, got %d", rr.Code)
	}
	rr := do(t, srv, http.MethodPost, "/transactions",
		`{"description":"x","amount":1,"category":"Groceries","type":"expense"}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("POST expected 503, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/readyz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz expected 503, got %d", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer()
	if rr := do(t, srv, http.MethodPatch, "/transactions", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if rr := do(t, srv, http.MethodPost, "/transactions/tx-1", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestMalformedBody(t *testing.T) {
	srv, _ := newTestServer()
	rr := do(t, srv, http.MethodPost, "/transactions", `{"description": `)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
