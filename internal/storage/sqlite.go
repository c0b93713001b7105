// Package storage provides the durable SQLite-backed ledger store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cashflow/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable ledger store. Records are keyed by id; the id
// column doubles as the lookup key the service addresses records with.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", core.ErrStoreUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStoreUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// classify distinguishes "the medium is down" from ordinary data errors so
// callers can react per the error taxonomy.
func (s *SQLiteStore) classify(ctx context.Context, err error) error {
	if pingErr := s.db.PingContext(ctx); pingErr != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreUnavailable, err)
	}
	return err
}

// Put upserts a transaction by id: an existing record is fully replaced,
// otherwise a new one is inserted.
func (s *SQLiteStore) Put(ctx context.Context, tx core.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, description, amount_cents, category, type, date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			amount_cents = excluded.amount_cents,
			category = excluded.category,
			type = excluded.type,
			date = excluded.date`,
		tx.ID, tx.Description, tx.Amount.Cents, string(tx.Category), string(tx.Type), tx.Date.String())
	if err != nil {
		return fmt.Errorf("put transaction %s: %w", tx.ID, s.classify(ctx, err))
	}
	slog.DebugContext(ctx, "Transaction persisted", "id", tx.ID)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, description, amount_cents, category, type, date
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, s.classify(ctx, err))
	}
	return tx, nil
}

// Delete removes a record permanently. A missing id is reported as not
// found, never as a silent success.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, s.classify(ctx, err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListAll returns every record ordered by date descending, with same-date
// ties in insertion order.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, category, type, date
		FROM transactions ORDER BY date DESC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", s.classify(ctx, err))
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", s.classify(ctx, err))
	}
	return out, nil
}

func scanTransaction(scan func(dest ...any) error) (core.Transaction, error) {
	var (
		tx       core.Transaction
		cents    int64
		category string
		txType   string
		date     string
	)
	if err := scan(&tx.ID, &tx.Description, &cents, &category, &txType, &date); err != nil {
		return core.Transaction{}, err
	}
	parsed, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	tx.Amount = core.Money{Cents: cents}
	tx.Category = core.Category(category)
	tx.Type = core.TransactionType(txType)
	tx.Date = parsed
	return tx, nil
}
