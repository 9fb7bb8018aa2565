package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck validation errors
var (
	ErrDeckNameEmpty          = NewRuleError("deck name cannot be empty")
	ErrDeckNameTooLong        = NewRuleError("deck name must be at most 200 characters long")
	ErrDeckDescriptionTooLong = NewRuleError("deck description must be at most 2000 characters long")
	ErrDeckOwnerEmpty         = NewRuleError("deck owner cannot be empty")
)

const (
	maxDeckNameLength        = 200
	maxDeckDescriptionLength = 2000
)

// Deck is a named, ordered collection of cards authored by a user. A deck
// can be published, which makes it visible to every user as a template for
// their own progress decks.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
	Cards       []Card    `json:"cards,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates an unpublished deck owned by userID.
func NewDeck(userID uuid.UUID, name, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks the deck's own fields. Cards are validated separately.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrInvalidID
	}
	if d.UserID == uuid.Nil {
		return ErrDeckOwnerEmpty
	}
	if d.Name == "" {
		return ErrDeckNameEmpty
	}
	if len(d.Name) > maxDeckNameLength {
		return ErrDeckNameTooLong
	}
	if len(d.Description) > maxDeckDescriptionLength {
		return ErrDeckDescriptionTooLong
	}
	return nil
}

// IsOwnedBy reports whether userID authored the deck.
func (d *Deck) IsOwnedBy(userID uuid.UUID) bool {
	return d.UserID == userID
}

// IsVisibleTo reports whether userID may read the deck.
func (d *Deck) IsVisibleTo(userID uuid.UUID) bool {
	return d.IsPublished || d.IsOwnedBy(userID)
}
