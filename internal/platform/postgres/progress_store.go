package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/store"
)

// PostgresProgressDeckStore implements store.ProgressDeckStore on PostgreSQL.
type PostgresProgressDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressDeckStore creates a progress deck store on db. If
// logger is nil, a default logger will be used.
func NewPostgresProgressDeckStore(db store.DBTX, logger *slog.Logger) *PostgresProgressDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_deck_store")),
	}
}

var _ store.ProgressDeckStore = (*PostgresProgressDeckStore)(nil)

// WithTx implements store.ProgressDeckStore.WithTx
func (s *PostgresProgressDeckStore) WithTx(tx *sql.Tx) store.ProgressDeckStore {
	return &PostgresProgressDeckStore{db: tx, logger: s.logger}
}

const progressDeckColumns = `id, user_id, deck_id, group_id, name, description, daily_card_limit, created_at, updated_at`

const progressCardColumns = `id, progress_deck_id, front, back, repetitions, review_interval,
	easiness_factor, quality_of_recall, last_reviewed_at, next_review_at`

// Create implements store.ProgressDeckStore.Create. Cards are stored in
// slice order.
func (s *PostgresProgressDeckStore) Create(ctx context.Context, deck *domain.ProgressDeck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_decks (id, user_id, deck_id, group_id, name, description, daily_card_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		deck.ID, deck.UserID, deck.DeckID, nullableUUID(deck.GroupID), deck.Name, deck.Description,
		deck.DailyCardLimit, deck.CreatedAt, deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create progress deck",
			slog.String("error", err.Error()),
			slog.String("progress_deck_id", deck.ID.String()))
		return MapError(err)
	}

	if err := s.insertCards(ctx, deck.Cards); err != nil {
		log.Error("failed to create progress cards",
			slog.String("error", err.Error()),
			slog.String("progress_deck_id", deck.ID.String()))
		return err
	}

	log.Info("progress deck created",
		slog.String("progress_deck_id", deck.ID.String()),
		slog.Int("card_count", len(deck.Cards)))
	return nil
}

func (s *PostgresProgressDeckStore) insertCards(ctx context.Context, cards []domain.ProgressCard) error {
	if len(cards) == 0 {
		return nil
	}

	const insert = `INSERT INTO progress_cards (id, progress_deck_id, position, front, back, repetitions,
		review_interval, easiness_factor, quality_of_recall, last_reviewed_at, next_review_at)`
	err := insertRows(ctx, s.db, insert, 11, len(cards), maxBindParams, func(i int) []any {
		c := &cards[i]
		return []any{
			c.ID, c.ProgressDeckID, i, c.Front, c.Back, c.Repetitions, c.Interval,
			c.EasinessFactor, c.QualityOfRecall, nullableTime(c.LastReviewedAt), nullableTime(c.NextReviewAt),
		}
	})
	if err != nil {
		return MapError(err)
	}
	return nil
}

// GetByID implements store.ProgressDeckStore.GetByID. Cards are not loaded.
func (s *PostgresProgressDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressDeck, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+progressDeckColumns+` FROM progress_decks WHERE id = $1`, id)
	deck, err := scanProgressDeck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress deck",
			slog.String("error", err.Error()),
			slog.String("progress_deck_id", id.String()))
		return nil, MapError(err)
	}
	return deck, nil
}

// ListByUser implements store.ProgressDeckStore.ListByUser
func (s *PostgresProgressDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ProgressDeck, error) {
	decks, err := s.listDecks(ctx, `
		SELECT `+progressDeckColumns+` FROM progress_decks
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	for i := range decks {
		cards, err := s.ListCards(ctx, decks[i].ID)
		if err != nil {
			return nil, err
		}
		decks[i].Cards = cards
	}
	return decks, nil
}

// ListByGroup implements store.ProgressDeckStore.ListByGroup
func (s *PostgresProgressDeckStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.ProgressDeck, error) {
	return s.listDecks(ctx, `
		SELECT `+progressDeckColumns+` FROM progress_decks
		WHERE group_id = $1
		ORDER BY created_at, id`, groupID)
}

// FindInGroup implements store.ProgressDeckStore.FindInGroup
func (s *PostgresProgressDeckStore) FindInGroup(ctx context.Context, groupID, userID uuid.UUID) (*domain.ProgressDeck, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+progressDeckColumns+` FROM progress_decks
		WHERE group_id = $1 AND user_id = $2
		ORDER BY created_at, id
		LIMIT 1`, groupID, userID)
	deck, err := scanProgressDeck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressDeckNotFound
		}
		return nil, MapError(err)
	}
	return deck, nil
}

// UpdateDailyCardLimit implements store.ProgressDeckStore.UpdateDailyCardLimit
func (s *PostgresProgressDeckStore) UpdateDailyCardLimit(ctx context.Context, id uuid.UUID, limit int) error {
	if err := domain.ValidateDailyCardLimit(limit); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE progress_decks SET daily_card_limit = $1, updated_at = $2 WHERE id = $3`,
		limit, time.Now().UTC(), id,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProgressDeckNotFound)
}

// SetGroup implements store.ProgressDeckStore.SetGroup. A nil groupID
// detaches the deck from its group.
func (s *PostgresProgressDeckStore) SetGroup(ctx context.Context, id uuid.UUID, groupID *uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE progress_decks SET group_id = $1, updated_at = $2 WHERE id = $3`,
		nullableUUID(groupID), time.Now().UTC(), id,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProgressDeckNotFound)
}

// Delete implements store.ProgressDeckStore.Delete. Cards and statistics
// are removed by cascade.
func (s *PostgresProgressDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM progress_decks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete progress deck",
			slog.String("error", err.Error()),
			slog.String("progress_deck_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProgressDeckNotFound)
}

// ListCards implements store.ProgressDeckStore.ListCards. Cards come back
// earliest-due first with unscheduled cards last, ties broken by deck
// order.
func (s *PostgresProgressDeckStore) ListCards(ctx context.Context, progressDeckID uuid.UUID) ([]domain.ProgressCard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+progressCardColumns+` FROM progress_cards
		WHERE progress_deck_id = $1
		ORDER BY next_review_at NULLS LAST, position`, progressDeckID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list progress cards",
			slog.String("error", err.Error()),
			slog.String("progress_deck_id", progressDeckID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []domain.ProgressCard{}
	for rows.Next() {
		card, err := scanProgressCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// GetCardForUpdate implements store.ProgressDeckStore.GetCardForUpdate.
// Inside a transaction the row stays locked until commit.
func (s *PostgresProgressDeckStore) GetCardForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.ProgressCard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+progressCardColumns+` FROM progress_cards WHERE id = $1 FOR UPDATE`, cardID)
	card, err := scanProgressCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to lock progress card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// UpdateCardState implements store.ProgressDeckStore.UpdateCardState
func (s *PostgresProgressDeckStore) UpdateCardState(ctx context.Context, card *domain.ProgressCard) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE progress_cards
		SET repetitions = $1, review_interval = $2, easiness_factor = $3, quality_of_recall = $4,
			last_reviewed_at = $5, next_review_at = $6
		WHERE id = $7`,
		card.Repetitions, card.Interval, card.EasinessFactor, card.QualityOfRecall,
		nullableTime(card.LastReviewedAt), nullableTime(card.NextReviewAt), card.ID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update progress card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProgressCardNotFound)
}

func (s *PostgresProgressDeckStore) listDecks(ctx context.Context, query string, id uuid.UUID) ([]domain.ProgressDeck, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list progress decks",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := []domain.ProgressDeck{}
	for rows.Next() {
		deck, err := scanProgressDeck(rows)
		if err != nil {
			return nil, MapError(err)
		}
		decks = append(decks, *deck)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return decks, nil
}

func scanProgressDeck(row rowScanner) (*domain.ProgressDeck, error) {
	var (
		d       domain.ProgressDeck
		groupID uuid.NullUUID
	)
	err := row.Scan(&d.ID, &d.UserID, &d.DeckID, &groupID, &d.Name, &d.Description,
		&d.DailyCardLimit, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		id := groupID.UUID
		d.GroupID = &id
	}
	return &d, nil
}

func scanProgressCard(row rowScanner) (*domain.ProgressCard, error) {
	var (
		c            domain.ProgressCard
		lastReviewed sql.NullTime
		nextReview   sql.NullTime
	)
	err := row.Scan(&c.ID, &c.ProgressDeckID, &c.Front, &c.Back, &c.Repetitions, &c.Interval,
		&c.EasinessFactor, &c.QualityOfRecall, &lastReviewed, &nextReview)
	if err != nil {
		return nil, err
	}
	c.LastReviewedAt = timePtr(lastReviewed)
	c.NextReviewAt = timePtr(nextReview)
	return &c, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
