// Package memory provides in-process implementations of the message and
// vote store ports. They back the web apps in the local profile and in
// tests; data is lost on restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/message"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

var (
	_ ports.MessageStore  = (*MessageStore)(nil)
	_ ports.VoteStore     = (*VoteStore)(nil)
	_ ports.HealthChecker = (*VoteStore)(nil)
)

// MessageStore keeps received Pub/Sub messages in memory.
type MessageStore struct {
	mu   sync.RWMutex
	msgs []message.Message
	max  int
}

// NewMessageStore creates a store retaining at most max messages; older
// ones are dropped first. A max of zero keeps everything.
func NewMessageStore(maxMessages int) *MessageStore {
	return &MessageStore{max: maxMessages}
}

// Save appends msg.
func (s *MessageStore) Save(_ context.Context, msg message.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = append(s.msgs, msg)
	if s.max > 0 && len(s.msgs) > s.max {
		s.msgs = slices.Delete(s.msgs, 0, len(s.msgs)-s.max)
	}
	return nil
}

// Recent returns up to limit messages, newest first.
func (s *MessageStore) Recent(_ context.Context, limit int) ([]message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.msgs, limit), nil
}

// VoteStore keeps votes in memory.
type VoteStore struct {
	mu    sync.RWMutex
	votes []vote.Vote
	tally vote.Tally
}

// NewVoteStore creates an empty VoteStore.
func NewVoteStore() *VoteStore {
	return &VoteStore{}
}

// EnsureSchema is a no-op.
func (s *VoteStore) EnsureSchema(context.Context) error { return nil }

// Insert records v.
func (s *VoteStore) Insert(_ context.Context, v vote.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.votes = append(s.votes, v)
	s.tally.Add(v.Candidate)
	return nil
}

// Recent returns up to limit votes, newest first.
func (s *VoteStore) Recent(_ context.Context, limit int) ([]vote.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestFirst(s.votes, limit), nil
}

// Tally returns the running counts.
func (s *VoteStore) Tally(context.Context) (vote.Tally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tally, nil
}

// Name implements ports.HealthChecker.
func (s *VoteStore) Name() string { return "votes-memory" }

// HealthCheck implements ports.HealthChecker; memory is always ready.
func (s *VoteStore) HealthCheck(context.Context) error { return nil }

// newestFirst copies the last limit items of items in reverse order.
func newestFirst[T any](items []T, limit int) []T {
	n := len(items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i])
	}
	return out
}
