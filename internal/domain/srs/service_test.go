package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultService(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	require.NotNil(t, service)

	impl, ok := service.(*defaultService)
	require.True(t, ok, "Expected *defaultService type")
	assert.Equal(t, NewDefaultParams(), impl.params)
}

func TestNewServiceWithParams_NilUsesDefaults(t *testing.T) {
	t.Parallel()
	impl, ok := NewServiceWithParams(nil).(*defaultService)
	require.True(t, ok)
	assert.Equal(t, NewDefaultParams(), impl.params)
}

func TestService_ApplyReview(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

	t.Run("nil card", func(t *testing.T) {
		t.Parallel()
		updated, inc, err := service.ApplyReview(nil, 3, now)
		assert.ErrorIs(t, err, ErrNilCard)
		assert.Nil(t, updated)
		assert.True(t, inc.IsZero())
	})

	t.Run("first review of a new card", func(t *testing.T) {
		t.Parallel()
		card, err := domain.NewProgressCard(uuid.New(), "el gato", "the cat")
		require.NoError(t, err)

		updated, inc, err := service.ApplyReview(card, 3, now)
		require.NoError(t, err)

		assert.Equal(t, 1, updated.Repetitions)
		assert.Equal(t, 1.0, updated.Interval)
		assert.True(t, inc.IncrementNewWords)
		assert.False(t, inc.IncrementReviewed)
		assert.Equal(t, card.ProgressDeckID, inc.ProgressDeckID)
		assert.True(t, card.IsNew(), "input card must stay untouched")
	})

	t.Run("increment uses state before the update", func(t *testing.T) {
		t.Parallel()
		// One successful review takes Repetitions from 0 to 1, but the
		// repeat check must see the old 0.
		last := now.AddDate(0, 0, -1)
		card := &domain.ProgressCard{
			ProgressDeckID: uuid.New(),
			Interval:       0.01,
			EasinessFactor: 2.5,
			LastReviewedAt: &last,
			NextReviewAt:   &last,
		}

		updated, inc, err := service.ApplyReview(card, 4, now)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Repetitions)
		assert.True(t, inc.IsZero())
	})

	t.Run("stale quality after failure", func(t *testing.T) {
		t.Parallel()
		last := now.AddDate(0, 0, -6)
		card := &domain.ProgressCard{
			ProgressDeckID:  uuid.New(),
			Repetitions:     2,
			Interval:        6,
			EasinessFactor:  2.5,
			QualityOfRecall: 4,
			LastReviewedAt:  &last,
			NextReviewAt:    &now,
		}

		updated, inc, err := service.ApplyReview(card, 0, now)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.QualityOfRecall)
		assert.Equal(t, 0, updated.Repetitions)
		assert.True(t, inc.IsZero())

		// The card drops out of every queue group. Only the review count
		// still sees it.
		queue := service.SelectForSession([]domain.ProgressCard{*updated}, 10, 0, now)
		assert.Empty(t, queue)
		counts := service.CountCards([]domain.ProgressCard{*updated}, 10, 0, now)
		assert.Equal(t, 0, counts.LearningCards)
		assert.Equal(t, 1, counts.ReviewCards)
	})
}

func TestService_ReviewLoop(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	today := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	deckID := uuid.New()

	cards := make([]domain.ProgressCard, 3)
	for i := range cards {
		c, err := domain.NewProgressCard(deckID, "front", "back")
		require.NoError(t, err)
		cards[i] = *c
	}

	learned := 0
	limit := 2
	seen := 0
	for {
		queue := service.SelectForSession(cards, limit, learned, today)
		if len(queue) == 0 {
			break
		}
		next := queue[0]
		quality := 4
		if seen == 0 {
			quality = 0
		}
		seen++
		updated, inc, err := service.ApplyReview(&next, quality, today.Add(time.Duration(seen)*time.Minute))
		require.NoError(t, err)
		if inc.IncrementNewWords {
			learned++
		}
		for i := range cards {
			if cards[i].ID == updated.ID {
				cards[i] = *updated
			}
		}
		require.Less(t, seen, 10, "session did not converge")
	}

	// Two new cards were introduced; the first failed and was retried.
	assert.Equal(t, 2, learned)
	assert.Equal(t, 3, seen)
	counts := service.CountCards(cards, limit, learned, today)
	assert.Equal(t, CardCounts{NewCards: 0, LearningCards: 0, ReviewCards: 0}, counts)
}
