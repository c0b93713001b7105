package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/ledger"
	applog "cashflow/internal/log"
)

// handleTransactions serves the collection endpoints:
// GET /transactions (list, optionally pre-filtered) and POST /transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTransactionByID serves PUT /transactions/{id} and DELETE /transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := ledger.CanonicalID(strings.TrimPrefix(r.URL.Path, "/transactions/"))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTransaction(w, r, id)
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.ledger.List(r.Context(), query)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if items == nil {
		items = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(r.Body)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	created, err := s.ledger.Create(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request, id string) {
	tx, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	in, err := decodeInput(r.Body)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	updated, err := s.ledger.Update(r.Context(), id, in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.ledger.Delete(r.Context(), id); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}

// transactionBody is the wire shape of a create/update request. The id and
// date are optional on create; the service assigns them.
type transactionBody struct {
	ID          string               `json:"id"`
	Description string               `json:"description"`
	Amount      core.Money           `json:"amount"`
	Category    core.Category        `json:"category"`
	Type        core.TransactionType `json:"type"`
	Date        core.Date            `json:"date"`
}

func decodeInput(body io.Reader) (ledger.Input, error) {
	var b transactionBody
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		// Malformed domain values surface their own constraint message;
		// anything else is just a bad body.
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDate) {
			return ledger.Input{}, &core.ValidationError{Violations: []string{err.Error()}}
		}
		return ledger.Input{}, &core.ValidationError{Violations: []string{"invalid request body"}}
	}
	return ledger.Input{
		ID:          b.ID,
		Description: b.Description,
		Amount:      b.Amount,
		Category:    b.Category,
		Type:        b.Type,
		Date:        b.Date,
	}, nil
}

// parseListQuery builds a view projection query from the request's query
// string: search, category, type, from/to date bounds or a named preset.
func parseListQuery(r *http.Request) (*core.Query, error) {
	values := r.URL.Query()
	if len(values) == 0 {
		return nil, nil
	}

	q := &core.Query{
		Search:   strings.TrimSpace(values.Get("search")),
		Category: strings.TrimSpace(values.Get("category")),
		Type:     strings.TrimSpace(values.Get("type")),
	}

	if preset := strings.TrimSpace(values.Get("preset")); preset != "" {
		q.Range = core.PresetRange(core.Preset(preset), core.DateOf(time.Now()))
	}
	if from := strings.TrimSpace(values.Get("from")); from != "" {
		d, err := core.ParseDate(from)
		if err != nil {
			return nil, err
		}
		q.Range.Start = d
	}
	if to := strings.TrimSpace(values.Get("to")); to != "" {
		d, err := core.ParseDate(to)
		if err != nil {
			return nil, err
		}
		q.Range.End = d
	}

	return q, nil
}

// writeFailure maps the error taxonomy onto the response contract: 400 for
// validation, 404 for unknown ids, 503 when the store is down, 500 for the
// rest. Failures are never converted into fabricated successes.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	logger := applog.FromContext(r.Context())

	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		logger.WarnContext(r.Context(), "Validation failed", applog.FieldError, err.Error())
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"violations": ve.Violations,
		})
	case errors.Is(err, core.ErrNotFound):
		logger.WarnContext(r.Context(), "Transaction not found", applog.FieldError, err.Error())
		writeError(w, http.StatusNotFound, core.ErrNotFound.Error())
	case errors.Is(err, core.ErrStoreUnavailable):
		logger.ErrorContext(r.Context(), "Store unavailable", applog.FieldError, err.Error())
		writeError(w, http.StatusServiceUnavailable, core.ErrStoreUnavailable.Error())
	default:
		logger.ErrorContext(r.Context(), "Request failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
