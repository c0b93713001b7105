package backend

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateMemoryStore(t *testing.T) {
	res, err := NewFactory(nil).CreateStore(Config{Type: Memory})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if res.Store == nil {
		t.Fatalf("expected a store")
	}
	if res.Cleanup != nil {
		t.Fatalf("memory backend needs no cleanup")
	}
}

func TestCreateSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	res, err := NewFactory(nil).CreateStore(Config{Type: SQLite, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	if res.Cleanup == nil {
		t.Fatalf("sqlite backend must hand back a cleanup")
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestCreateStoreRejectsBadConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateStore(Config{Type: "sheets"}); err == nil || !strings.Contains(err.Error(), "invalid backend type") {
		t.Fatalf("unknown type must be rejected, got %v", err)
	}
	if _, err := NewFactory(nil).CreateStore(Config{Type: SQLite}); err == nil || !strings.Contains(err.Error(), "database path") {
		t.Fatalf("sqlite without a path must be rejected, got %v", err)
	}
}
