package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/domain/srs"
	"github.com/langtogether/langtogether-api/internal/service"
	"github.com/langtogether/langtogether-api/internal/store"
)

func TestProgressHandler_CreateProgressDeck(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		a := newTestAPI(t)
		deckID := uuid.New()
		pd := &domain.ProgressDeck{ID: uuid.New(), UserID: a.userID, DeckID: deckID, DailyCardLimit: 20}
		a.progress.On("CreateProgressDeck", mock.Anything, a.userID, deckID, "Mine", "", 0).Return(pd, nil)

		rec := a.do(http.MethodPost, "/api/progress-decks", `{"deck_id":"`+deckID.String()+`","name":"Mine"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("empty deck", func(t *testing.T) {
		a := newTestAPI(t)
		deckID := uuid.New()
		a.progress.On("CreateProgressDeck", mock.Anything, a.userID, deckID, "", "", 5).Return(nil, service.ErrEmptyDeck)

		rec := a.do(http.MethodPost, "/api/progress-decks", `{"deck_id":"`+deckID.String()+`","daily_card_limit":5}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Deck has no cards", errorMessage(t, rec))
	})

	t.Run("deck id required", func(t *testing.T) {
		a := newTestAPI(t)
		rec := a.do(http.MethodPost, "/api/progress-decks", `{"name":"Mine"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProgressHandler_UpdateProgressDeck(t *testing.T) {
	a := newTestAPI(t)
	pdID := uuid.New()
	a.progress.On("UpdateDailyCardLimit", mock.Anything, a.userID, pdID, 35).
		Return(&domain.ProgressDeck{ID: pdID, DailyCardLimit: 35}, nil)

	rec := a.do(http.MethodPut, "/api/progress-decks/"+pdID.String(), `{"daily_card_limit":35}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodPut, "/api/progress-decks/"+pdID.String(), `{"daily_card_limit":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressHandler_Session(t *testing.T) {
	a := newTestAPI(t)
	pdID := uuid.New()
	session := &service.Session{Deck: &domain.ProgressDeck{ID: pdID}}
	a.progress.On("GetSession", mock.Anything, a.userID, pdID).Return(session, nil)

	rec := a.do(http.MethodGet, "/api/progress-decks/"+pdID.String()+"/session", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cards":[]`)
}

func TestProgressHandler_GetNextCard(t *testing.T) {
	t.Run("nothing due", func(t *testing.T) {
		a := newTestAPI(t)
		pdID := uuid.New()
		a.progress.On("NextCard", mock.Anything, a.userID, pdID).Return(nil, service.ErrNoCardsDue)

		rec := a.do(http.MethodGet, "/api/progress-decks/"+pdID.String()+"/next", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("next card", func(t *testing.T) {
		a := newTestAPI(t)
		pdID := uuid.New()
		card := &domain.ProgressCard{ID: uuid.New(), ProgressDeckID: pdID, Front: "luna", Back: "moon", EasinessFactor: 2.5}
		a.progress.On("NextCard", mock.Anything, a.userID, pdID).Return(card, nil)

		rec := a.do(http.MethodGet, "/api/progress-decks/"+pdID.String()+"/next", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got domain.ProgressCard
		decodeBody(t, rec, &got)
		assert.Equal(t, "luna", got.Front)
		assert.Nil(t, got.LastReviewedAt)
	})

	t.Run("someone else's deck", func(t *testing.T) {
		a := newTestAPI(t)
		pdID := uuid.New()
		a.progress.On("NextCard", mock.Anything, a.userID, pdID).Return(nil, service.ErrNotOwned)

		rec := a.do(http.MethodGet, "/api/progress-decks/"+pdID.String()+"/next", "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestProgressHandler_GetCounts(t *testing.T) {
	a := newTestAPI(t)
	pdID := uuid.New()
	a.progress.On("CountCards", mock.Anything, a.userID, pdID).
		Return(srs.CardCounts{NewCards: 18, LearningCards: 1, ReviewCards: 4}, nil)

	rec := a.do(http.MethodGet, "/api/progress-decks/"+pdID.String()+"/counts", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"new_cards":18,"learning_cards":1,"review_cards":4}`, rec.Body.String())
}

func TestProgressHandler_SubmitReview(t *testing.T) {
	t.Run("failed recall is a valid answer", func(t *testing.T) {
		a := newTestAPI(t)
		cardID := uuid.New()
		next := time.Date(2024, 3, 10, 9, 44, 0, 0, time.UTC)
		updated := &domain.ProgressCard{ID: cardID, Interval: 0.01, NextReviewAt: &next, EasinessFactor: 2.5}
		a.progress.On("SubmitReview", mock.Anything, a.userID, cardID, 0).Return(updated, nil)

		rec := a.do(http.MethodPost, "/api/progress-decks/reviews",
			`{"progress_card_id":"`+cardID.String()+`","quality":0}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got domain.ProgressCard
		decodeBody(t, rec, &got)
		assert.InDelta(t, 0.01, got.Interval, 1e-9)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "quality above five", body: `{"progress_card_id":"` + uuid.NewString() + `","quality":6}`},
		{name: "negative quality", body: `{"progress_card_id":"` + uuid.NewString() + `","quality":-1}`},
		{name: "missing quality", body: `{"progress_card_id":"` + uuid.NewString() + `"}`},
		{name: "missing card", body: `{"quality":3}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI(t)
			rec := a.do(http.MethodPost, "/api/progress-decks/reviews", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("unknown card", func(t *testing.T) {
		a := newTestAPI(t)
		cardID := uuid.New()
		a.progress.On("SubmitReview", mock.Anything, a.userID, cardID, 4).Return(nil, store.ErrProgressCardNotFound)

		rec := a.do(http.MethodPost, "/api/progress-decks/reviews",
			`{"progress_card_id":"`+cardID.String()+`","quality":4}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Progress card not found", errorMessage(t, rec))
	})
}

func TestProgressHandler_Statistics(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("combined route is not parsed as an id", func(t *testing.T) {
		a := newTestAPI(t)
		a.progress.On("CombinedStatistics", mock.Anything, a.userID).
			Return([]domain.CombinedStatistic{{Date: day, NewWordsLearned: 3, WordsReviewed: 7}}, nil)

		rec := a.do(http.MethodGet, "/api/progress-decks/statistics", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []domain.CombinedStatistic
		decodeBody(t, rec, &got)
		assert.Equal(t, 7, got[0].WordsReviewed)
	})

	t.Run("per deck", func(t *testing.T) {
		a := newTestAPI(t)
		pdID := uuid.New()
		a.progress.On("DeckStatistics", mock.Anything, a.userID, pdID).Return(nil, nil)

		rec := a.do(http.MethodGet, "/api/progress-decks/"+pdID.String()+"/statistics", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestProgressHandler_DeleteProgressDeck(t *testing.T) {
	a := newTestAPI(t)
	pdID := uuid.New()
	a.progress.On("DeleteProgressDeck", mock.Anything, a.userID, pdID).Return(nil)

	rec := a.do(http.MethodDelete, "/api/progress-decks/"+pdID.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
