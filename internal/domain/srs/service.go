package srs

import (
	"errors"
	"time"

	"github.com/langtogether/langtogether-api/internal/domain"
)

// Common errors
var (
	ErrNilCard = errors.New("progress card cannot be nil")
)

// Service defines the spaced-repetition operations used by the review
// workflow. Implementations are pure and safe for concurrent use.
type Service interface {
	// ApplyReview computes a card's new state after a review graded quality
	// at time now, together with the daily statistic increment the review
	// causes. The input card is not modified. quality is not validated:
	// anything below 1 is a failed recall.
	ApplyReview(
		card *domain.ProgressCard,
		quality int,
		now time.Time,
	) (*domain.ProgressCard, domain.StatIncrement, error)

	// SelectForSession returns today's ordered review queue for a deck.
	SelectForSession(
		cards []domain.ProgressCard,
		dailyCardLimit int,
		newWordsLearned int,
		today time.Time,
	) []domain.ProgressCard

	// CountCards returns the new/learning/review summary for a deck.
	CountCards(
		cards []domain.ProgressCard,
		dailyCardLimit int,
		newWordsLearned int,
		today time.Time,
	) CardCounts
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// ApplyReview implements the Service interface.
func (s *defaultService) ApplyReview(
	card *domain.ProgressCard,
	quality int,
	now time.Time,
) (*domain.ProgressCard, domain.StatIncrement, error) {
	if card == nil {
		return nil, domain.StatIncrement{}, ErrNilCard
	}

	// The increment is derived from the state before the update.
	inc := statIncrementFor(card, quality, now)
	return applyReview(card, quality, now, s.params), inc, nil
}

// SelectForSession implements the Service interface.
func (s *defaultService) SelectForSession(
	cards []domain.ProgressCard,
	dailyCardLimit int,
	newWordsLearned int,
	today time.Time,
) []domain.ProgressCard {
	return SelectForSession(cards, dailyCardLimit, newWordsLearned, today)
}

// CountCards implements the Service interface.
func (s *defaultService) CountCards(
	cards []domain.ProgressCard,
	dailyCardLimit int,
	newWordsLearned int,
	today time.Time,
) CardCounts {
	return CountCards(cards, dailyCardLimit, newWordsLearned, today)
}
