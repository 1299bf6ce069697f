// Package memory is an in-process SummaryAppender used for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bilan/internal/core"
)

// Appended is one recorded AppendSummary call.
type Appended struct {
	SessionID string
	Cycle     string
	Rows      []core.MonthlySummary
}

type Store struct {
	mu      sync.Mutex
	batches []Appended
}

func New() *Store {
	return &Store{}
}

// AppendSummary records the batch and returns a synthetic reference.
func (s *Store) AppendSummary(_ context.Context, sessionID string, cycle string, rows []core.MonthlySummary) (string, error) {
	if len(rows) == 0 {
		return "", core.ErrNoTransactions
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, Appended{
		SessionID: sessionID,
		Cycle:     cycle,
		Rows:      append([]core.MonthlySummary(nil), rows...),
	})
	return fmt.Sprintf("mem:%d", len(s.batches)), nil
}

// Batches returns a copy of everything appended so far.
func (s *Store) Batches() []Appended {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Appended, len(s.batches))
	copy(out, s.batches)
	return out
}
