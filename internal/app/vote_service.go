package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain/vote"
	"github.com/jsamuelsen11/gcp-samples/internal/ports"
)

// Compile-time check that VoteService implements ports.VoteService.
var _ ports.VoteService = (*VoteService)(nil)

// VoteService backs the Cloud SQL "tabs versus spaces" web app.
type VoteService struct {
	store  ports.VoteStore
	now    func() time.Time
	logger *slog.Logger
}

// NewVoteService creates a VoteService over store.
func NewVoteService(store ports.VoteStore, logger *slog.Logger) *VoteService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &VoteService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// EnsureSchema creates the votes table if it does not exist.
func (s *VoteService) EnsureSchema(ctx context.Context) error {
	if err := s.store.EnsureSchema(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to prepare vote storage",
			slog.String("operation", "EnsureSchema"),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// Cast records a vote for candidate at the current time.
func (s *VoteService) Cast(ctx context.Context, candidate vote.Candidate) error {
	// Re-parse so callers cannot smuggle in an arbitrary Candidate value.
	c, err := vote.ParseCandidate(string(candidate))
	if err != nil {
		return err
	}

	v := vote.Vote{Candidate: c, CastAt: s.now().UTC()}
	if err := s.store.Insert(ctx, v); err != nil {
		s.logger.ErrorContext(ctx, "failed to cast vote",
			slog.String("operation", "Cast"),
			slog.String("candidate", string(c)),
			slog.Any("error", err),
		)
		return err
	}

	s.logger.InfoContext(ctx, "vote cast", slog.String("candidate", string(c)))
	return nil
}

// Summary returns the tally and the vote.RecentLimit most recent votes.
func (s *VoteService) Summary(ctx context.Context) (*vote.Summary, error) {
	tally, err := s.store.Tally(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to tally votes",
			slog.String("operation", "Summary"),
			slog.Any("error", err),
		)
		return nil, err
	}

	recent, err := s.store.Recent(ctx, vote.RecentLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch recent votes",
			slog.String("operation", "Summary"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &vote.Summary{Tally: tally, Recent: recent}, nil
}
