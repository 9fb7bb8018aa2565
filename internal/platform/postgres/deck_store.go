package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/store"
)

// PostgresDeckStore implements store.DeckStore on PostgreSQL.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a deck store on db. If logger is nil, a
// default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

const deckColumns = `id, user_id, name, description, is_published, created_at, updated_at`

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (id, user_id, name, description, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.IsPublished, deck.CreatedAt, deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	if err := s.AddCards(ctx, deck.Cards); err != nil {
		return err
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(deck.Cards)))
	return nil
}

// GetByID implements store.DeckStore.GetByID
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = $1`, id)
	deck, err := scanDeck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, MapError(err)
	}

	cards, err := s.listCards(ctx, id)
	if err != nil {
		return nil, err
	}
	deck.Cards = cards
	return deck, nil
}

// ListVisible implements store.DeckStore.ListVisible
func (s *PostgresDeckStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return s.listDecks(ctx, `
		SELECT `+deckColumns+` FROM decks
		WHERE user_id = $1 OR is_published
		ORDER BY created_at DESC, id`, userID)
}

// ListByOwner implements store.DeckStore.ListByOwner
func (s *PostgresDeckStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return s.listDecks(ctx, `
		SELECT `+deckColumns+` FROM decks
		WHERE user_id = $1
		ORDER BY created_at DESC, id`, userID)
}

// ListPublished implements store.DeckStore.ListPublished
func (s *PostgresDeckStore) ListPublished(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return s.listDecks(ctx, `
		SELECT `+deckColumns+` FROM decks
		WHERE is_published AND user_id <> $1
		ORDER BY created_at DESC, id`, userID)
}

// Update implements store.DeckStore.Update
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}
	deck.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE decks SET name = $1, description = $2, is_published = $3, updated_at = $4
		WHERE id = $5`,
		deck.Name, deck.Description, deck.IsPublished, deck.UpdatedAt, deck.ID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// Delete implements store.DeckStore.Delete
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: deck is still referenced: %v", store.ErrDeleteFailed, err)
		}
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// ReplaceCards implements store.DeckStore.ReplaceCards
func (s *PostgresDeckStore) ReplaceCards(ctx context.Context, deckID uuid.UUID, cards []domain.Card) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = $1`, deckID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to clear deck cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return MapError(err)
	}
	return s.AddCards(ctx, cards)
}

// AddCards implements store.DeckStore.AddCards
func (s *PostgresDeckStore) AddCards(ctx context.Context, cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return err
		}
	}

	err := insertRows(ctx, s.db, `INSERT INTO cards (id, deck_id, position, front, back)`, 5, len(cards), maxBindParams,
		func(i int) []any {
			c := &cards[i]
			return []any{c.ID, c.DeckID, c.Index, c.Front, c.Back}
		})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert cards",
			slog.String("error", err.Error()),
			slog.Int("card_count", len(cards)))
		return MapError(err)
	}
	return nil
}

// NextCardIndex implements store.DeckStore.NextCardIndex
func (s *PostgresDeckStore) NextCardIndex(ctx context.Context, deckID uuid.UUID) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE deck_id = $1`, deckID,
	).Scan(&next)
	if err != nil {
		return 0, MapError(err)
	}
	return next, nil
}

// GetCard implements store.DeckStore.GetCard
func (s *PostgresDeckStore) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	var c domain.Card
	err := s.db.QueryRowContext(ctx,
		`SELECT id, deck_id, position, front, back FROM cards WHERE id = $1`, cardID,
	).Scan(&c.ID, &c.DeckID, &c.Index, &c.Front, &c.Back)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}
	return &c, nil
}

// UpdateCard implements store.DeckStore.UpdateCard
func (s *PostgresDeckStore) UpdateCard(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET front = $1, back = $2 WHERE id = $3`,
		card.Front, card.Back, card.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// DeleteCard implements store.DeckStore.DeleteCard
func (s *PostgresDeckStore) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, cardID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

func (s *PostgresDeckStore) listDecks(ctx context.Context, query string, userID uuid.UUID) ([]domain.Deck, error) {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := []domain.Deck{}
	for rows.Next() {
		deck, err := scanDeck(rows)
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

func (s *PostgresDeckStore) listCards(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, deck_id, position, front, back FROM cards
		WHERE deck_id = $1
		ORDER BY position, id`, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := []domain.Card{}
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Index, &c.Front, &c.Back); err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var d domain.Deck
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.IsPublished, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
