package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/gcp-samples/internal/adapters/store/memory"
	"github.com/jsamuelsen11/gcp-samples/internal/domain"
	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
)

// failingVoteStore fails every call.
type failingVoteStore struct{ err error }

func (f failingVoteStore) EnsureSchema(context.Context) error { return f.err }

func (f failingVoteStore) Insert(context.Context, vote.Vote) error { return f.err }

func (f failingVoteStore) Recent(context.Context, int) ([]vote.Vote, error) { return nil, f.err }

func (f failingVoteStore) Tally(context.Context) (vote.Tally, error) { return vote.Tally{}, f.err }

func TestVoteService_CastAndSummary(t *testing.T) {
	t.Parallel()
	svc := NewVoteService(memory.NewVoteStore(), discardLogger())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	require.NoError(t, svc.EnsureSchema(ctx))
	for _, c := range []vote.Candidate{"tabs", vote.Spaces, vote.Tabs, "Tabs", vote.Spaces, vote.Tabs} {
		require.NoError(t, svc.Cast(ctx, c))
	}

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, vote.Tally{Tabs: 4, Spaces: 2}, sum.Tally)
	assert.Equal(t, "TABS are winning by 2 votes!", sum.Tally.Leader())

	require.Len(t, sum.Recent, vote.RecentLimit)
	assert.Equal(t, vote.Tabs, sum.Recent[0].Candidate, "newest first")
	assert.Equal(t, time.UTC, sum.Recent[0].CastAt.Location())
	assert.True(t, sum.Recent[0].CastAt.After(sum.Recent[1].CastAt))
}

func TestVoteService_CastRejectsUnknownCandidate(t *testing.T) {
	t.Parallel()
	store := memory.NewVoteStore()
	svc := NewVoteService(store, nil)

	err := svc.Cast(context.Background(), vote.Candidate("EMACS"))
	require.ErrorIs(t, err, domain.ErrValidation)

	tally, err := store.Tally(context.Background())
	require.NoError(t, err)
	assert.Zero(t, tally.Total())
}

func TestVoteService_StoreErrors(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	svc := NewVoteService(failingVoteStore{err: cause}, discardLogger())
	ctx := context.Background()

	assert.ErrorIs(t, svc.EnsureSchema(ctx), cause)
	assert.ErrorIs(t, svc.Cast(ctx, vote.Tabs), cause)

	sum, err := svc.Summary(ctx)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, sum)
}
