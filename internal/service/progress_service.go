package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/domain/srs"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/store"
)

// ReviewObserver is told about every committed review.
type ReviewObserver interface {
	ObserveReview(quality int, inc domain.StatIncrement)
}

// Session is a progress deck together with today's review queue.
type Session struct {
	Deck  *domain.ProgressDeck  `json:"progress_deck"`
	Cards []domain.ProgressCard `json:"cards"`
}

// ProgressService manages a user's progress decks and review sessions.
type ProgressService interface {
	ListProgressDecks(ctx context.Context, userID uuid.UUID) ([]domain.ProgressDeck, error)

	// GetProgressDeck returns one of the caller's progress decks with cards.
	GetProgressDeck(ctx context.Context, userID, progressDeckID uuid.UUID) (*domain.ProgressDeck, error)

	// CreateProgressDeck copies every card of a visible deck into a new
	// progress deck. A dailyCardLimit <= 0 selects the configured default.
	// Returns ErrEmptyDeck when the deck has no cards.
	CreateProgressDeck(
		ctx context.Context,
		userID, deckID uuid.UUID,
		name, description string,
		dailyCardLimit int,
	) (*domain.ProgressDeck, error)

	UpdateDailyCardLimit(ctx context.Context, userID, progressDeckID uuid.UUID, limit int) (*domain.ProgressDeck, error)

	DeleteProgressDeck(ctx context.Context, userID, progressDeckID uuid.UUID) error

	// GetSession returns today's ordered queue: new cards up to the
	// remaining daily quota, then due reviews, then failed cards.
	GetSession(ctx context.Context, userID, progressDeckID uuid.UUID) (*Session, error)

	// NextCard returns the head of today's queue, or ErrNoCardsDue.
	NextCard(ctx context.Context, userID, progressDeckID uuid.UUID) (*domain.ProgressCard, error)

	// CountCards returns today's new/learning/review summary.
	CountCards(ctx context.Context, userID, progressDeckID uuid.UUID) (srs.CardCounts, error)

	// SubmitReview grades a progress card and records the day's statistic,
	// atomically. The card row stays locked for the duration.
	SubmitReview(ctx context.Context, userID, progressCardID uuid.UUID, quality int) (*domain.ProgressCard, error)

	DeckStatistics(ctx context.Context, userID, progressDeckID uuid.UUID) ([]domain.DailyStatistic, error)

	// CombinedStatistics sums the caller's statistics per day over all of
	// their progress decks.
	CombinedStatistics(ctx context.Context, userID uuid.UUID) ([]domain.CombinedStatistic, error)
}

// ProgressOption configures a ProgressService.
type ProgressOption func(*progressServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProgressOption {
	return func(s *progressServiceImpl) { s.now = now }
}

// WithReviewObserver registers an observer for committed reviews.
func WithReviewObserver(o ReviewObserver) ProgressOption {
	return func(s *progressServiceImpl) { s.observer = o }
}

// WithDefaultDailyCardLimit sets the limit used when a progress deck is
// created without one.
func WithDefaultDailyCardLimit(limit int) ProgressOption {
	return func(s *progressServiceImpl) {
		if domain.ValidateDailyCardLimit(limit) == nil {
			s.defaultLimit = limit
		}
	}
}

type progressServiceImpl struct {
	db           store.TxBeginner
	progress     store.ProgressDeckStore
	decks        store.DeckStore
	stats        store.StatisticsStore
	srs          srs.Service
	observer     ReviewObserver
	now          func() time.Time
	defaultLimit int
	logger       *slog.Logger
}

var _ ProgressService = (*progressServiceImpl)(nil)

// NewProgressService creates a ProgressService.
func NewProgressService(
	db store.TxBeginner,
	progress store.ProgressDeckStore,
	decks store.DeckStore,
	stats store.StatisticsStore,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...ProgressOption,
) (ProgressService, error) {
	switch {
	case db == nil:
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	case progress == nil:
		return nil, domain.NewValidationError("progress", "cannot be nil", domain.ErrValidation)
	case decks == nil:
		return nil, domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	case stats == nil:
		return nil, domain.NewValidationError("stats", "cannot be nil", domain.ErrValidation)
	case srsService == nil:
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &progressServiceImpl{
		db:           db,
		progress:     progress,
		decks:        decks,
		stats:        stats,
		srs:          srsService,
		now:          time.Now,
		defaultLimit: domain.DefaultDailyCardLimit,
		logger:       logger.With(slog.String("component", "progress_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *progressServiceImpl) ListProgressDecks(ctx context.Context, userID uuid.UUID) ([]domain.ProgressDeck, error) {
	return s.progress.ListByUser(ctx, userID)
}

func (s *progressServiceImpl) GetProgressDeck(ctx context.Context, userID, progressDeckID uuid.UUID) (*domain.ProgressDeck, error) {
	pd, err := s.ownedProgressDeck(ctx, s.progress, userID, progressDeckID)
	if err != nil {
		return nil, err
	}
	pd.Cards, err = s.progress.ListCards(ctx, pd.ID)
	if err != nil {
		return nil, err
	}
	return pd, nil
}

func (s *progressServiceImpl) CreateProgressDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	name, description string,
	dailyCardLimit int,
) (*domain.ProgressDeck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if !deck.IsVisibleTo(userID) {
		return nil, store.ErrDeckNotFound
	}
	if len(deck.Cards) == 0 {
		return nil, ErrEmptyDeck
	}

	if strings.TrimSpace(name) == "" {
		name = deck.Name
	}
	if dailyCardLimit <= 0 {
		dailyCardLimit = s.defaultLimit
	}

	pd, err := domain.NewProgressDeck(userID, deck.ID, name, description, dailyCardLimit)
	if err != nil {
		return nil, err
	}
	pd.Cards, err = domain.ProgressCardsFromDeck(pd.ID, deck.Cards)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.progress.WithTx(tx).Create(ctx, pd)
	})
	if err != nil {
		log.Error("failed to create progress deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, err
	}

	log.Info("progress deck created",
		slog.String("progress_deck_id", pd.ID.String()),
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(pd.Cards)))
	return pd, nil
}

func (s *progressServiceImpl) UpdateDailyCardLimit(
	ctx context.Context,
	userID, progressDeckID uuid.UUID,
	limit int,
) (*domain.ProgressDeck, error) {
	if err := domain.ValidateDailyCardLimit(limit); err != nil {
		return nil, domain.NewValidationError("daily_card_limit", err.Error(), err)
	}
	pd, err := s.ownedProgressDeck(ctx, s.progress, userID, progressDeckID)
	if err != nil {
		return nil, err
	}
	if err := s.progress.UpdateDailyCardLimit(ctx, pd.ID, limit); err != nil {
		return nil, err
	}
	pd.DailyCardLimit = limit
	return pd, nil
}

func (s *progressServiceImpl) DeleteProgressDeck(ctx context.Context, userID, progressDeckID uuid.UUID) error {
	if _, err := s.ownedProgressDeck(ctx, s.progress, userID, progressDeckID); err != nil {
		return err
	}
	return s.progress.Delete(ctx, progressDeckID)
}

func (s *progressServiceImpl) GetSession(ctx context.Context, userID, progressDeckID uuid.UUID) (*Session, error) {
	pd, cards, learned, err := s.loadForToday(ctx, userID, progressDeckID)
	if err != nil {
		return nil, err
	}
	pd.Cards = cards
	queue := s.srs.SelectForSession(cards, pd.DailyCardLimit, learned, s.now().UTC())
	return &Session{Deck: pd, Cards: queue}, nil
}

func (s *progressServiceImpl) NextCard(ctx context.Context, userID, progressDeckID uuid.UUID) (*domain.ProgressCard, error) {
	pd, cards, learned, err := s.loadForToday(ctx, userID, progressDeckID)
	if err != nil {
		return nil, err
	}
	queue := s.srs.SelectForSession(cards, pd.DailyCardLimit, learned, s.now().UTC())
	if len(queue) == 0 {
		return nil, ErrNoCardsDue
	}
	return &queue[0], nil
}

func (s *progressServiceImpl) CountCards(ctx context.Context, userID, progressDeckID uuid.UUID) (srs.CardCounts, error) {
	pd, cards, learned, err := s.loadForToday(ctx, userID, progressDeckID)
	if err != nil {
		return srs.CardCounts{}, err
	}
	return s.srs.CountCards(cards, pd.DailyCardLimit, learned, s.now().UTC()), nil
}

func (s *progressServiceImpl) SubmitReview(
	ctx context.Context,
	userID, progressCardID uuid.UUID,
	quality int,
) (*domain.ProgressCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now().UTC()

	var (
		updated *domain.ProgressCard
		inc     domain.StatIncrement
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progress := s.progress.WithTx(tx)

		card, err := progress.GetCardForUpdate(ctx, progressCardID)
		if err != nil {
			return err
		}
		if _, err := s.ownedProgressDeck(ctx, progress, userID, card.ProgressDeckID); err != nil {
			return err
		}

		updated, inc, err = s.srs.ApplyReview(card, quality, now)
		if err != nil {
			return NewServiceError("submit_review", "failed to schedule card", err)
		}
		if err := progress.UpdateCardState(ctx, updated); err != nil {
			return err
		}
		// Every review creates the day's statistic row, even when nothing
		// is counted.
		return s.stats.WithTx(tx).ApplyIncrement(ctx, inc)
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !errors.Is(err, ErrNotOwned) {
			log.Error("failed to submit review",
				slog.String("error", err.Error()),
				slog.String("progress_card_id", progressCardID.String()))
		}
		return nil, err
	}

	if s.observer != nil {
		s.observer.ObserveReview(quality, inc)
	}

	log.Debug("review recorded",
		slog.String("progress_card_id", updated.ID.String()),
		slog.Int("quality", quality),
		slog.Int("repetitions", updated.Repetitions),
		slog.Float64("interval", updated.Interval),
		slog.Float64("easiness_factor", updated.EasinessFactor))
	return updated, nil
}

func (s *progressServiceImpl) DeckStatistics(
	ctx context.Context,
	userID, progressDeckID uuid.UUID,
) ([]domain.DailyStatistic, error) {
	if _, err := s.ownedProgressDeck(ctx, s.progress, userID, progressDeckID); err != nil {
		return nil, err
	}
	return s.stats.ListByProgressDeck(ctx, progressDeckID)
}

func (s *progressServiceImpl) CombinedStatistics(ctx context.Context, userID uuid.UUID) ([]domain.CombinedStatistic, error) {
	return s.stats.CombinedByUser(ctx, userID)
}

// loadForToday loads an owned progress deck, its cards and the number of
// new words already learned today.
func (s *progressServiceImpl) loadForToday(
	ctx context.Context,
	userID, progressDeckID uuid.UUID,
) (*domain.ProgressDeck, []domain.ProgressCard, int, error) {
	pd, err := s.ownedProgressDeck(ctx, s.progress, userID, progressDeckID)
	if err != nil {
		return nil, nil, 0, err
	}
	cards, err := s.progress.ListCards(ctx, pd.ID)
	if err != nil {
		return nil, nil, 0, err
	}

	learned := 0
	stat, err := s.stats.GetForDay(ctx, pd.ID, s.now().UTC())
	switch {
	case err == nil:
		learned = stat.NewWordsLearned
	case !errors.Is(err, store.ErrStatisticNotFound):
		return nil, nil, 0, err
	}
	return pd, cards, learned, nil
}

func (s *progressServiceImpl) ownedProgressDeck(
	ctx context.Context,
	progress store.ProgressDeckStore,
	userID, progressDeckID uuid.UUID,
) (*domain.ProgressDeck, error) {
	pd, err := progress.GetByID(ctx, progressDeckID)
	if err != nil {
		return nil, err
	}
	if pd.UserID != userID {
		return nil, ErrNotOwned
	}
	return pd, nil
}
