// Package ledger implements the transaction ledger service: it validates
// mutations, assigns identity, and applies them against a Store.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cashflow/internal/core"
)

// Store is the persistence contract the service writes through. Put is an
// upsert keyed by id; Delete of a missing id must report core.ErrNotFound;
// an unreachable backing medium must surface core.ErrStoreUnavailable.
type Store interface {
	Put(ctx context.Context, tx core.Transaction) error
	Get(ctx context.Context, id string) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]core.Transaction, error)
}

// IDGenerator produces unique transaction ids. Injected so tests can be
// deterministic and the production strategy stays swappable.
type IDGenerator interface {
	NewID() string
}

// Input carries the caller-supplied fields of a mutation. ID is optional on
// create; Date is optional on create and defaults to today.
type Input struct {
	ID          string
	Description string
	Amount      core.Money
	Category    core.Category
	Type        core.TransactionType
	Date        core.Date
}

type Service struct {
	store Store
	ids   IDGenerator
	now   func() time.Time
}

// NewService wires the service's collaborators explicitly; there are no
// package-level singletons. now is the clock used for date defaulting.
func NewService(store Store, ids IDGenerator, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, ids: ids, now: now}
}

// CanonicalID coerces a caller-supplied identifier to the single string
// form the store accepts.
func CanonicalID(id string) string {
	return strings.TrimSpace(id)
}

// Create validates the input, assigns identity and date defaults, and
// persists the new transaction. A caller-supplied id is honored after
// coercion but must not collide with an existing record.
func (s *Service) Create(ctx context.Context, in Input) (core.Transaction, error) {
	tx := core.Transaction{
		ID:          CanonicalID(in.ID),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Category:    in.Category,
		Type:        in.Type,
		Date:        in.Date,
	}
	if tx.ID == "" {
		tx.ID = s.ids.NewID()
	} else {
		_, err := s.store.Get(ctx, tx.ID)
		switch {
		case err == nil:
			return core.Transaction{}, &core.ValidationError{Violations: []string{fmt.Sprintf("id %q already in use", tx.ID)}}
		case !errors.Is(err, core.ErrNotFound):
			return core.Transaction{}, fmt.Errorf("check id %q: %w", tx.ID, err)
		}
	}
	if tx.Date.IsZero() {
		tx.Date = core.DateOf(s.now())
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.Put(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("persist transaction %s: %w", tx.ID, err)
	}
	slog.InfoContext(ctx, "Transaction created",
		"id", tx.ID,
		"type", tx.Type,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())
	return tx, nil
}

// Update replaces every field except the id of an existing transaction and
// revalidates the result. The date must be supplied; full-replace semantics
// leave nothing to inherit from the previous record.
func (s *Service) Update(ctx context.Context, id string, in Input) (core.Transaction, error) {
	id = CanonicalID(id)
	if id == "" {
		return core.Transaction{}, &core.ValidationError{Violations: []string{"id is required"}}
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return core.Transaction{}, fmt.Errorf("load transaction %s: %w", id, err)
	}
	tx := core.Transaction{
		ID:          id,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Category:    in.Category,
		Type:        in.Type,
		Date:        in.Date,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.Put(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("persist transaction %s: %w", tx.ID, err)
	}
	slog.InfoContext(ctx, "Transaction updated", "id", tx.ID, "type", tx.Type, "category", tx.Category)
	return tx, nil
}

// Delete removes a transaction permanently. Deleting an unknown id surfaces
// core.ErrNotFound, never a silent success.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = CanonicalID(id)
	if id == "" {
		return &core.ValidationError{Violations: []string{"id is required"}}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// Get fetches a single transaction by id.
func (s *Service) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.Get(ctx, CanonicalID(id))
}

// List returns the stored collection newest first, pre-filtered through the
// view projection when a query is supplied.
func (s *Service) List(ctx context.Context, q *core.Query) ([]core.Transaction, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if q == nil {
		q = &core.Query{}
	}
	return q.Filter(items), nil
}
