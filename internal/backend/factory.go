package backend

import (
	"fmt"
	"log/slog"

	"cashflow/internal/log"
	"cashflow/internal/storage"
	"cashflow/internal/storage/memory"
)

// Factory creates ledger stores from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the configured store and its cleanup function.
func (f *Factory) CreateStore(cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized sqlite backend",
			log.FieldBackend, cfg.Type.String(),
			"db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case Memory:
		store := memory.New()
		f.logger.Info("Initialized memory backend", log.FieldBackend, cfg.Type.String())
		return &Result{Store: store, Cleanup: nil}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
