package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
)

// StatisticsStore persists the daily review counters of progress decks.
type StatisticsStore interface {
	// GetForDay returns the statistic of progressDeckID on day.
	// Returns ErrStatisticNotFound when nothing was reviewed that day.
	GetForDay(ctx context.Context, progressDeckID uuid.UUID, day time.Time) (*domain.DailyStatistic, error)

	// ApplyIncrement creates the day's row if needed and bumps the counters
	// selected by inc. A zero increment still creates the row.
	ApplyIncrement(ctx context.Context, inc domain.StatIncrement) error

	// ListByProgressDeck returns a deck's statistics ordered by date.
	ListByProgressDeck(ctx context.Context, progressDeckID uuid.UUID) ([]domain.DailyStatistic, error)

	// CombinedByUser sums the statistics of all of userID's progress decks
	// per date, ordered by date.
	CombinedByUser(ctx context.Context, userID uuid.UUID) ([]domain.CombinedStatistic, error)

	// ListByGroup returns one row per member and date for groupID, with the
	// member's user name, ordered by date then user name.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.CombinedStatistic, error)

	// WithTx returns a StatisticsStore that runs on tx.
	WithTx(tx *sql.Tx) StatisticsStore
}
