package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/generation"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/store"
)

// CardSheetReader extracts card contents from a spreadsheet.
type CardSheetReader interface {
	ReadCards(r io.Reader, hasHeader bool) ([]domain.CardContent, error)
}

// CardGenerator produces card contents from a source text.
type CardGenerator interface {
	GenerateCards(ctx context.Context, sourceText string, count int) ([]domain.CardContent, error)
}

// DeckService manages decks and their cards. Every operation takes the
// calling user's id; decks the caller cannot see are reported as not found
// and changes to decks the caller does not own fail with ErrNotOwned.
type DeckService interface {
	// ListDecks returns the caller's decks and every published deck.
	ListDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// ListOwnDecks returns the decks the caller created.
	ListOwnDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// ListPublishedDecks returns published decks created by other users.
	ListPublishedDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// GetDeck returns a visible deck with its cards in index order.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// CreateDeck creates a deck owned by the caller with optional cards.
	CreateDeck(ctx context.Context, userID uuid.UUID, name, description string, cards []domain.CardContent) (*domain.Deck, error)

	// UpdateDeck renames a deck. A non-nil cards slice replaces every card.
	UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, name, description string, cards []domain.CardContent) (*domain.Deck, error)

	// DeleteDeck removes a deck and its cards.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error

	// SetPublished publishes or unpublishes a deck.
	SetPublished(ctx context.Context, userID, deckID uuid.UUID, published bool) (*domain.Deck, error)

	// AddCard appends a card to a deck.
	AddCard(ctx context.Context, userID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)

	// UpdateCard changes the text of a card.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, content domain.CardContent) (*domain.Card, error)

	// DeleteCard removes a card from its deck.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// ImportCards appends the rows of an XLSX sheet to a deck.
	ImportCards(ctx context.Context, userID, deckID uuid.UUID, r io.Reader, hasHeader bool) ([]domain.Card, error)

	// GenerateCards asks the configured LLM for count cards about
	// sourceText and appends them to a deck. Returns ErrGenerationDisabled
	// when no generator is configured.
	GenerateCards(ctx context.Context, userID, deckID uuid.UUID, sourceText string, count int) ([]domain.Card, error)
}

type deckServiceImpl struct {
	db        store.TxBeginner
	decks     store.DeckStore
	sheets    CardSheetReader
	generator CardGenerator
	logger    *slog.Logger
}

var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a DeckService. sheets and generator may be nil, in
// which case imports or generation are unavailable.
func NewDeckService(
	db store.TxBeginner,
	decks store.DeckStore,
	sheets CardSheetReader,
	generator CardGenerator,
	logger *slog.Logger,
) (DeckService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if decks == nil {
		return nil, domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		db:        db,
		decks:     decks,
		sheets:    sheets,
		generator: generator,
		logger:    logger.With(slog.String("component", "deck_service")),
	}, nil
}

func (s *deckServiceImpl) ListDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return s.decks.ListVisible(ctx, userID)
}

func (s *deckServiceImpl) ListOwnDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return s.decks.ListByOwner(ctx, userID)
}

func (s *deckServiceImpl) ListPublishedDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return s.decks.ListPublished(ctx, userID)
}

func (s *deckServiceImpl) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if !deck.IsVisibleTo(userID) {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
	contents []domain.CardContent,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		return nil, err
	}
	deck.Cards, err = domain.CardsFromContent(deck.ID, 0, contents)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.decks.WithTx(tx).Create(ctx, deck)
	})
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.Int("card_count", len(deck.Cards)))
	return deck, nil
}

func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	name, description string,
	contents []domain.CardContent,
) (*domain.Deck, error) {
	var updated *domain.Deck
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		decks := s.decks.WithTx(tx)

		deck, err := s.ownedDeck(ctx, decks, userID, deckID)
		if err != nil {
			return err
		}

		deck.Name = strings.TrimSpace(name)
		deck.Description = strings.TrimSpace(description)
		if err := decks.Update(ctx, deck); err != nil {
			return err
		}

		if contents != nil {
			cards, err := domain.CardsFromContent(deck.ID, 0, contents)
			if err != nil {
				return err
			}
			if err := decks.ReplaceCards(ctx, deck.ID, cards); err != nil {
				return err
			}
			deck.Cards = cards
		}

		updated = deck
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *deckServiceImpl) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	if _, err := s.ownedDeck(ctx, s.decks, userID, deckID); err != nil {
		return err
	}
	if err := s.decks.Delete(ctx, deckID); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("deck deleted",
		slog.String("deck_id", deckID.String()))
	return nil
}

func (s *deckServiceImpl) SetPublished(ctx context.Context, userID, deckID uuid.UUID, published bool) (*domain.Deck, error) {
	deck, err := s.ownedDeck(ctx, s.decks, userID, deckID)
	if err != nil {
		return nil, err
	}
	deck.IsPublished = published
	if err := s.decks.Update(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

func (s *deckServiceImpl) AddCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	cards, err := s.appendCards(ctx, userID, deckID, []domain.CardContent{content})
	if err != nil {
		return nil, err
	}
	return &cards[0], nil
}

func (s *deckServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	updated, err := domain.NewCard(card.DeckID, card.Index, content.Front, content.Back)
	if err != nil {
		return nil, err
	}
	updated.ID = card.ID

	if err := s.decks.UpdateCard(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *deckServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := s.ownedCard(ctx, userID, cardID); err != nil {
		return err
	}
	return s.decks.DeleteCard(ctx, cardID)
}

func (s *deckServiceImpl) ImportCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	r io.Reader,
	hasHeader bool,
) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.sheets == nil {
		return nil, NewServiceError("import_cards", "no sheet reader configured", nil)
	}
	// Ownership is checked before the upload is parsed.
	if _, err := s.ownedDeck(ctx, s.decks, userID, deckID); err != nil {
		return nil, err
	}

	contents, err := s.sheets.ReadCards(r, hasHeader)
	if err != nil {
		log.Warn("failed to read card sheet",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, domain.NewValidationError("file", "could not read spreadsheet", err)
	}
	if len(contents) == 0 {
		return nil, ErrNoCardsImported
	}

	cards, err := s.appendCards(ctx, userID, deckID, contents)
	if err != nil {
		return nil, err
	}
	log.Info("cards imported",
		slog.String("deck_id", deckID.String()),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

func (s *deckServiceImpl) GenerateCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	sourceText string,
	count int,
) ([]domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.generator == nil {
		return nil, ErrGenerationDisabled
	}
	if err := generation.ValidateRequest(sourceText, count); err != nil {
		return nil, err
	}
	if _, err := s.ownedDeck(ctx, s.decks, userID, deckID); err != nil {
		return nil, err
	}

	contents, err := s.generator.GenerateCards(ctx, sourceText, count)
	if err != nil {
		log.Error("card generation failed",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, NewServiceError("generate_cards", "failed to generate cards", err)
	}

	cards, err := s.appendCards(ctx, userID, deckID, contents)
	if err != nil {
		return nil, err
	}
	log.Info("cards generated",
		slog.String("deck_id", deckID.String()),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// appendCards adds contents after the last card of an owned deck.
func (s *deckServiceImpl) appendCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	contents []domain.CardContent,
) ([]domain.Card, error) {
	var cards []domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		decks := s.decks.WithTx(tx)

		if _, err := s.ownedDeck(ctx, decks, userID, deckID); err != nil {
			return err
		}
		next, err := decks.NextCardIndex(ctx, deckID)
		if err != nil {
			return err
		}
		cards, err = domain.CardsFromContent(deckID, next, contents)
		if err != nil {
			return err
		}
		return decks.AddCards(ctx, cards)
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ownedDeck loads a deck and checks the caller owns it. Decks the caller
// cannot see are reported as not found.
func (s *deckServiceImpl) ownedDeck(
	ctx context.Context,
	decks store.DeckStore,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := decks.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if !deck.IsOwnedBy(userID) {
		if deck.IsVisibleTo(userID) {
			return nil, ErrNotOwned
		}
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (s *deckServiceImpl) ownedCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.decks.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDeck(ctx, s.decks, userID, card.DeckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, store.ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}
