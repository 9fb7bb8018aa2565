package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
)

// DeckStore persists decks and their cards.
//
// Reads that return a single deck include its cards ordered by index.
// List reads return decks without cards.
type DeckStore interface {
	// Create saves a deck and any cards attached to it.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck with its cards. Visibility is checked by
	// the caller. Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListVisible returns the decks userID owns plus every published deck,
	// newest first.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// ListByOwner returns the decks authored by userID, newest first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// ListPublished returns published decks not authored by userID.
	ListPublished(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// Update saves name, description and published flag.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck, its cards and the progress decks derived from it.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceCards deletes every card of deckID and inserts cards.
	ReplaceCards(ctx context.Context, deckID uuid.UUID, cards []domain.Card) error

	// AddCards appends cards to their deck. Indexes are taken as given.
	AddCards(ctx context.Context, cards []domain.Card) error

	// NextCardIndex returns the index a card appended to deckID should get.
	NextCardIndex(ctx context.Context, deckID uuid.UUID) (int, error)

	// GetCard retrieves a single card. Returns ErrCardNotFound if missing.
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)

	// UpdateCard saves a card's front and back.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateCard(ctx context.Context, card *domain.Card) error

	// DeleteCard removes a card. Returns ErrCardNotFound if missing.
	DeleteCard(ctx context.Context, cardID uuid.UUID) error

	// WithTx returns a DeckStore that runs on tx.
	WithTx(tx *sql.Tx) DeckStore
}
