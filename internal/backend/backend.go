// Package backend selects and constructs the ledger store a deployment
// runs against. Selection is explicit configuration; a misconfigured
// backend is a startup error, never a silent fallback.
package backend

import (
	"fmt"

	"cashflow/internal/ledger"
)

type Type string

const (
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Memory:
		return true
	}
	return false
}

// CleanupFunc releases the backend's resources.
type CleanupFunc func() error

// Result bundles a ready store with its cleanup.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Config holds what each backend needs to come up.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

func (c Config) validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == SQLite && c.SQLiteDBPath == "" {
		return fmt.Errorf("sqlite backend requires a database path")
	}
	return nil
}
