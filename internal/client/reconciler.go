package client

import (
	"context"
	"sync"

	"cashflow/internal/core"
	applog "cashflow/internal/log"
)

// State describes where the local collection stands relative to the server.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Reconciler owns a local copy of the transaction collection. Every mutation
// is sent to the server first; the local copy changes only after the server
// acknowledges. A failed round trip leaves the collection exactly as it was.
type Reconciler struct {
	mu  sync.RWMutex
	api API
	log *applog.Logger

	state         State
	lastErr       error
	transactions  []core.Transaction
	pendingDelete string
}

func NewReconciler(api API, logger *applog.Logger) *Reconciler {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Reconciler{
		api:   api,
		log:   logger.WithComponent(applog.ComponentReconciler),
		state: StateLoading,
	}
}

// Load fetches the full collection from the server. On failure the state
// moves to error and any previously loaded data is kept for display.
func (r *Reconciler) Load(ctx context.Context) error {
	r.mu.Lock()
	r.state = StateLoading
	r.mu.Unlock()

	txs, err := r.api.List(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.state = StateError
		r.lastErr = err
		r.log.ErrorContext(ctx, "Failed to load transactions", applog.FieldError, err)
		return err
	}
	r.transactions = txs
	r.state = StateReady
	r.lastErr = nil
	return nil
}

// Add submits a new transaction. The acknowledged record, with its
// server-assigned id and date, is prepended so it shows up first.
func (r *Reconciler) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := r.api.Create(ctx, tx)
	if err != nil {
		r.fail(ctx, "Failed to create transaction", err)
		return core.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append([]core.Transaction{created}, r.transactions...)
	r.state = StateReady
	r.lastErr = nil
	return created, nil
}

// Update replaces an existing transaction in place, keeping its position
// in the collection.
func (r *Reconciler) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	updated, err := r.api.Update(ctx, tx)
	if err != nil {
		r.fail(ctx, "Failed to update transaction", err)
		return core.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.transactions {
		if r.transactions[i].ID == updated.ID {
			r.transactions[i] = updated
			break
		}
	}
	r.state = StateReady
	r.lastErr = nil
	return updated, nil
}

// RequestDelete marks a transaction for deletion. Nothing is sent to the
// server until ConfirmDelete.
func (r *Reconciler) RequestDelete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDelete = id
}

// PendingDelete reports which id, if any, awaits confirmation.
func (r *Reconciler) PendingDelete() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pendingDelete
}

// CancelDelete drops the pending request without touching the server.
func (r *Reconciler) CancelDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDelete = ""
}

// ConfirmDelete performs the pending deletion. The record leaves the local
// collection only after the server confirms.
func (r *Reconciler) ConfirmDelete(ctx context.Context) error {
	r.mu.Lock()
	id := r.pendingDelete
	r.mu.Unlock()
	if id == "" {
		return nil
	}

	if err := r.api.Delete(ctx, id); err != nil {
		r.fail(ctx, "Failed to delete transaction", err)
		r.mu.Lock()
		r.pendingDelete = ""
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	filtered := r.transactions[:0:0]
	for _, tx := range r.transactions {
		if tx.ID != id {
			filtered = append(filtered, tx)
		}
	}
	r.transactions = filtered
	r.pendingDelete = ""
	r.state = StateReady
	r.lastErr = nil
	return nil
}

// Snapshot returns a copy of the collection with the current state.
func (r *Reconciler) Snapshot() ([]core.Transaction, State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.Transaction, len(r.transactions))
	copy(out, r.transactions)
	return out, r.state, r.lastErr
}

// Summary aggregates the local collection.
func (r *Reconciler) Summary() core.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return core.Summarize(r.transactions)
}

// Project applies filters, sorting and pagination to the local collection.
// A page beyond the filtered result resets to the first page rather than
// showing nothing.
func (r *Reconciler) Project(q core.Query) core.Page {
	r.mu.RLock()
	txs := make([]core.Transaction, len(r.transactions))
	copy(txs, r.transactions)
	r.mu.RUnlock()

	page := q.Apply(txs)
	if len(page.Items) == 0 && page.TotalItems > 0 && q.Page > 1 {
		q.Page = 1
		page = q.Apply(txs)
	}
	return page
}

func (r *Reconciler) fail(ctx context.Context, msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateError
	r.lastErr = err
	r.log.ErrorContext(ctx, msg, applog.FieldError, err)
}
