package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Progress deck validation errors
var (
	ErrProgressDeckNameEmpty  = NewRuleError("progress deck name cannot be empty")
	ErrInvalidDailyCardLimit  = NewRuleError("daily card limit must be between 1 and 1000")
	ErrProgressDeckOwnerEmpty = NewRuleError("progress deck owner cannot be empty")
	ErrProgressCardDeckEmpty  = NewRuleError("progress card deck ID cannot be empty")
)

const (
	// DefaultDailyCardLimit is used when a progress deck is created without
	// an explicit limit, and for decks created by accepting an invitation.
	DefaultDailyCardLimit = 20

	// DefaultEasinessFactor is the SM-2 starting easiness of every new card.
	DefaultEasinessFactor = 2.5

	// DefaultInterval is the interval stored on cards that were never reviewed.
	DefaultInterval = 1.0

	maxDailyCardLimit = 1000
)

// ProgressDeck is a learner's personal review copy of a deck. GroupID is set
// when the deck is shared with a study group.
type ProgressDeck struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	DeckID         uuid.UUID      `json:"deck_id"`
	GroupID        *uuid.UUID     `json:"group_id,omitempty"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	DailyCardLimit int            `json:"daily_card_limit"`
	Cards          []ProgressCard `json:"cards,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewProgressDeck creates a progress deck for userID derived from deckID.
// A non-positive dailyCardLimit selects DefaultDailyCardLimit.
func NewProgressDeck(userID, deckID uuid.UUID, name, description string, dailyCardLimit int) (*ProgressDeck, error) {
	if dailyCardLimit <= 0 {
		dailyCardLimit = DefaultDailyCardLimit
	}

	now := time.Now().UTC()
	pd := &ProgressDeck{
		ID:             uuid.New(),
		UserID:         userID,
		DeckID:         deckID,
		Name:           strings.TrimSpace(name),
		Description:    strings.TrimSpace(description),
		DailyCardLimit: dailyCardLimit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := pd.Validate(); err != nil {
		return nil, err
	}

	return pd, nil
}

// Validate checks the progress deck's own fields.
func (pd *ProgressDeck) Validate() error {
	if pd.ID == uuid.Nil || pd.DeckID == uuid.Nil {
		return ErrInvalidID
	}
	if pd.UserID == uuid.Nil {
		return ErrProgressDeckOwnerEmpty
	}
	if pd.Name == "" {
		return ErrProgressDeckNameEmpty
	}
	if len(pd.Name) > maxDeckNameLength {
		return ErrDeckNameTooLong
	}
	if len(pd.Description) > maxDeckDescriptionLength {
		return ErrDeckDescriptionTooLong
	}
	return ValidateDailyCardLimit(pd.DailyCardLimit)
}

// ValidateDailyCardLimit checks that limit is in the accepted range.
func ValidateDailyCardLimit(limit int) error {
	if limit < 1 || limit > maxDailyCardLimit {
		return ErrInvalidDailyCardLimit
	}
	return nil
}

// ProgressCard is one learner's SM-2 review state for one card.
//
// LastReviewedAt is nil until the first review. NextReviewAt is nil while
// the card has never been scheduled; a nil NextReviewAt is never due.
// A card is new exactly when Repetitions == 0 and LastReviewedAt is nil.
type ProgressCard struct {
	ID              uuid.UUID  `json:"id"`
	ProgressDeckID  uuid.UUID  `json:"progress_deck_id"`
	Front           string     `json:"front"`
	Back            string     `json:"back"`
	Repetitions     int        `json:"repetitions"`
	Interval        float64    `json:"interval"`
	EasinessFactor  float64    `json:"easiness_factor"`
	QualityOfRecall int        `json:"quality_of_recall"`
	LastReviewedAt  *time.Time `json:"last_reviewed_at"`
	NextReviewAt    *time.Time `json:"next_review_at"`
}

// NewProgressCard creates a card in the "new" state for progressDeckID.
func NewProgressCard(progressDeckID uuid.UUID, front, back string) (*ProgressCard, error) {
	if progressDeckID == uuid.Nil {
		return nil, ErrProgressCardDeckEmpty
	}
	if strings.TrimSpace(front) == "" {
		return nil, ErrCardFrontEmpty
	}
	if strings.TrimSpace(back) == "" {
		return nil, ErrCardBackEmpty
	}

	return &ProgressCard{
		ID:             uuid.New(),
		ProgressDeckID: progressDeckID,
		Front:          front,
		Back:           back,
		Interval:       DefaultInterval,
		EasinessFactor: DefaultEasinessFactor,
	}, nil
}

// ProgressCardsFromDeck copies every card of a deck into progressDeckID in
// deck order, each one reset to the new state.
func ProgressCardsFromDeck(progressDeckID uuid.UUID, cards []Card) ([]ProgressCard, error) {
	result := make([]ProgressCard, 0, len(cards))
	for _, c := range cards {
		pc, err := NewProgressCard(progressDeckID, c.Front, c.Back)
		if err != nil {
			return nil, err
		}
		result = append(result, *pc)
	}
	return result, nil
}

// IsNew reports whether the card has never been reviewed.
func (c *ProgressCard) IsNew() bool {
	return c.Repetitions == 0 && c.LastReviewedAt == nil
}

// Clone returns a deep copy of the card, including its time pointers.
func (c *ProgressCard) Clone() *ProgressCard {
	clone := *c
	if c.LastReviewedAt != nil {
		t := *c.LastReviewedAt
		clone.LastReviewedAt = &t
	}
	if c.NextReviewAt != nil {
		t := *c.NextReviewAt
		clone.NextReviewAt = &t
	}
	return &clone
}
