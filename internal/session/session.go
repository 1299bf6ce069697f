// Package session stores uploaded transaction sets between requests.
//
// A session is created when a CSV is analyzed and is looked up again for
// period drill-downs. Stores may evict sessions (TTL, LRU); callers must
// treat ErrNotFound as "upload your file again".
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"bilan/internal/core"
)

var ErrNotFound = errors.New("session not found")

// Store is the port for keeping a session's transactions.
type Store interface {
	Save(ctx context.Context, id string, txns []core.Transaction) error
	Get(ctx context.Context, id string) ([]core.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// NewID generates a random session identifier.
func NewID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("sess_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
