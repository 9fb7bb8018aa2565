package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
)

// ProgressDeckStore persists progress decks and their SM-2 card state.
type ProgressDeckStore interface {
	// Create saves a progress deck together with its Cards.
	Create(ctx context.Context, deck *domain.ProgressDeck) error

	// GetByID retrieves a progress deck without its cards.
	// Returns ErrProgressDeckNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressDeck, error)

	// ListByUser returns every progress deck owned by userID, with cards.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ProgressDeck, error)

	// ListByGroup returns the progress decks shared with groupID.
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.ProgressDeck, error)

	// FindInGroup returns userID's progress deck in groupID.
	// Returns ErrProgressDeckNotFound when the user is not a member.
	FindInGroup(ctx context.Context, groupID, userID uuid.UUID) (*domain.ProgressDeck, error)

	// UpdateDailyCardLimit changes a deck's new-card quota.
	UpdateDailyCardLimit(ctx context.Context, id uuid.UUID, limit int) error

	// SetGroup links the deck to groupID, or unlinks it when groupID is nil.
	SetGroup(ctx context.Context, id uuid.UUID, groupID *uuid.UUID) error

	// Delete removes a progress deck with its cards and statistics.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListCards returns a deck's cards ordered by next review time, with
	// never-scheduled cards last in creation order.
	ListCards(ctx context.Context, progressDeckID uuid.UUID) ([]domain.ProgressCard, error)

	// GetCardForUpdate retrieves a card and locks its row until the
	// surrounding transaction ends. Returns ErrProgressCardNotFound.
	GetCardForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.ProgressCard, error)

	// UpdateCardState saves the SM-2 fields of a card.
	UpdateCardState(ctx context.Context, card *domain.ProgressCard) error

	// WithTx returns a ProgressDeckStore that runs on tx.
	WithTx(tx *sql.Tx) ProgressDeckStore
}
