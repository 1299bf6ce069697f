package backend

import (
	"context"
	"time"

	"bilan/internal/session"
	"bilan/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the created session store and optional extras.
type BackendResult struct {
	Store session.Store

	// Archive is the SQLite repository when the sqlite backend is active.
	// It doubles as the analysis archive for the export pipeline.
	Archive *storage.SQLiteRepository

	Cleanup CleanupFunc
}

// Factory creates session backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Memory backend
	SessionTTL   time.Duration
	SessionLimit int

	// SQLite backend
	SQLiteDBPath string
}

// BackendType represents the type of session backend
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
