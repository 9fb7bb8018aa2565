package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressDeck(t *testing.T) {
	t.Parallel()
	userID, deckID := uuid.New(), uuid.New()

	pd, err := NewProgressDeck(userID, deckID, "My verbs", "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDailyCardLimit, pd.DailyCardLimit)
	assert.Nil(t, pd.GroupID)

	_, err = NewProgressDeck(userID, deckID, "My verbs", "", 1001)
	assert.ErrorIs(t, err, ErrInvalidDailyCardLimit)

	_, err = NewProgressDeck(userID, deckID, "", "", 10)
	assert.ErrorIs(t, err, ErrProgressDeckNameEmpty)

	_, err = NewProgressDeck(uuid.Nil, deckID, "x", "", 10)
	assert.ErrorIs(t, err, ErrProgressDeckOwnerEmpty)
}

func TestValidateDailyCardLimit(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, ValidateDailyCardLimit(0), ErrInvalidDailyCardLimit)
	assert.NoError(t, ValidateDailyCardLimit(1))
	assert.NoError(t, ValidateDailyCardLimit(1000))
	assert.ErrorIs(t, ValidateDailyCardLimit(1001), ErrInvalidDailyCardLimit)
}

func TestProgressCardsFromDeck(t *testing.T) {
	t.Parallel()
	pdID := uuid.New()
	cards := []Card{
		{ID: uuid.New(), Index: 0, Front: "uno", Back: "one"},
		{ID: uuid.New(), Index: 1, Front: "dos", Back: "two"},
	}

	got, err := ProgressCardsFromDeck(pdID, cards)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, pc := range got {
		assert.Equal(t, pdID, pc.ProgressDeckID)
		assert.Equal(t, cards[i].Front, pc.Front)
		assert.True(t, pc.IsNew())
		assert.Nil(t, pc.NextReviewAt)
		assert.Equal(t, DefaultEasinessFactor, pc.EasinessFactor)
		assert.Equal(t, 0, pc.QualityOfRecall)
	}
	assert.NotEqual(t, got[0].ID, got[1].ID)

	_, err = ProgressCardsFromDeck(pdID, []Card{{Front: "", Back: "x"}})
	assert.ErrorIs(t, err, ErrCardFrontEmpty)
}

func TestProgressCard_Clone(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	card := ProgressCard{ID: uuid.New(), LastReviewedAt: &now, NextReviewAt: &now}

	clone := card.Clone()
	*clone.LastReviewedAt = now.Add(time.Hour)

	assert.Equal(t, now, *card.LastReviewedAt)
	assert.Equal(t, card.ID, clone.ID)
}

func TestDay(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC+9", 9*3600)
	local := time.Date(2024, 1, 2, 3, 0, 0, 0, loc) // 2024-01-01 18:00 UTC

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Day(local))
}

func TestGroupAndInvitation(t *testing.T) {
	t.Parallel()

	_, err := NewGroup("", "", "owner")
	assert.ErrorIs(t, err, ErrGroupNameEmpty)
	_, err = NewGroup("Evening class", "", "")
	assert.ErrorIs(t, err, ErrGroupOwnerEmpty)

	group, err := NewGroup("Evening class", "Tuesdays", "maria")
	require.NoError(t, err)

	deck := &Deck{ID: uuid.New(), Name: "Verbs", Description: "Irregular verbs"}
	invitee := uuid.New()
	inv := NewInvitation(invitee, group, deck, 12, "maria")

	assert.Equal(t, invitee, inv.UserID)
	assert.Equal(t, deck.ID, inv.DeckID)
	assert.Equal(t, group.ID, inv.GroupID)
	assert.Equal(t, 12, inv.NumberOfCards)
	assert.Equal(t, "Evening class", inv.GroupName)
	assert.Equal(t, "Verbs - created from group: Evening class", inv.ProgressDeckName(deck.Name))
}
