package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/langtogether/langtogether-api/internal/store"
)

// InvitationSweeper deletes invitations older than a time to live.
type InvitationSweeper struct {
	invitations store.InvitationStore
	ttl         time.Duration
	now         func() time.Time
	onExpired   func(n int64)
	logger      *slog.Logger
}

// SweeperOption configures an InvitationSweeper.
type SweeperOption func(*InvitationSweeper)

// WithSweepClock replaces time.Now.
func WithSweepClock(now func() time.Time) SweeperOption {
	return func(s *InvitationSweeper) { s.now = now }
}

// WithExpiredCallback is called with the number of removed invitations
// after every successful sweep.
func WithExpiredCallback(fn func(n int64)) SweeperOption {
	return func(s *InvitationSweeper) { s.onExpired = fn }
}

// NewInvitationSweeper creates a sweeper for invitations older than ttl.
func NewInvitationSweeper(
	invitations store.InvitationStore,
	ttl time.Duration,
	logger *slog.Logger,
	opts ...SweeperOption,
) (*InvitationSweeper, error) {
	if invitations == nil {
		return nil, errors.New("invitation store cannot be nil")
	}
	if ttl <= 0 {
		return nil, errors.New("invitation ttl must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &InvitationSweeper{
		invitations: invitations,
		ttl:         ttl,
		now:         time.Now,
		logger:      logger.With(slog.String("job", "invitation_expiry")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sweep removes expired invitations and returns how many were removed.
func (s *InvitationSweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.ttl)

	n, err := s.invitations.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to expire invitations",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff))
		return 0, err
	}

	if s.onExpired != nil {
		s.onExpired(n)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "expired invitations removed",
			slog.Int64("count", n),
			slog.Time("cutoff", cutoff))
	}
	return n, nil
}
