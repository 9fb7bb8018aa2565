package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = NewRuleError("card ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card is not attached to a deck.
	ErrCardDeckIDEmpty = NewRuleError("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when the prompt side of a card is blank.
	ErrCardFrontEmpty = NewRuleError("card front cannot be empty")

	// ErrCardBackEmpty is returned when the answer side of a card is blank.
	ErrCardBackEmpty = NewRuleError("card back cannot be empty")

	// ErrCardTextTooLong is returned when either side exceeds maxCardTextLength.
	ErrCardTextTooLong = NewRuleError("card text must be at most 1000 characters long")

	// ErrCardIndexNegative is returned for a negative position in the deck.
	ErrCardIndexNegative = NewRuleError("card index cannot be negative")
)

const maxCardTextLength = 1000

// Card is one front/back pair of a deck. Index is the card's position in
// the deck and defines the order in which cards are copied into progress
// decks.
type Card struct {
	ID     uuid.UUID `json:"id"`
	DeckID uuid.UUID `json:"deck_id"`
	Index  int       `json:"index"`
	Front  string    `json:"front"`
	Back   string    `json:"back"`
}

// CardContent is the text of a card before it is placed in a deck. Imports,
// generated cards and API payloads all produce it.
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// CardsFromContent turns contents into cards of deckID, numbered from
// firstIndex.
func CardsFromContent(deckID uuid.UUID, firstIndex int, contents []CardContent) ([]Card, error) {
	cards := make([]Card, 0, len(contents))
	for i, c := range contents {
		card, err := NewCard(deckID, firstIndex+i, c.Front, c.Back)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

// NewCard creates a card at position index of deckID.
func NewCard(deckID uuid.UUID, index int, front, back string) (*Card, error) {
	card := &Card{
		ID:     uuid.New(),
		DeckID: deckID,
		Index:  index,
		Front:  strings.TrimSpace(front),
		Back:   strings.TrimSpace(back),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}
	if c.Index < 0 {
		return ErrCardIndexNegative
	}
	if c.Front == "" {
		return ErrCardFrontEmpty
	}
	if c.Back == "" {
		return ErrCardBackEmpty
	}
	if len(c.Front) > maxCardTextLength || len(c.Back) > maxCardTextLength {
		return ErrCardTextTooLong
	}
	return nil
}
