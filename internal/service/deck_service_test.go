package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/mocks"
	"github.com/langtogether/langtogether-api/internal/store"
)

type mockSheetReader struct {
	mock.Mock
}

func (m *mockSheetReader) ReadCards(r io.Reader, hasHeader bool) ([]domain.CardContent, error) {
	args := m.Called(r, hasHeader)
	c, _ := args.Get(0).([]domain.CardContent)
	return c, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateCards(ctx context.Context, sourceText string, count int) ([]domain.CardContent, error) {
	args := m.Called(ctx, sourceText, count)
	c, _ := args.Get(0).([]domain.CardContent)
	return c, args.Error(1)
}

func testDeck(t *testing.T, owner uuid.UUID, published bool) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(owner, "Spanish verbs", "common verbs")
	require.NoError(t, err)
	deck.IsPublished = published
	return deck
}

func TestNewDeckService(t *testing.T) {
	db, _ := mocks.NewTxDB(t)

	_, err := NewDeckService(nil, &mocks.MockDeckStore{}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewDeckService(db, nil, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := NewDeckService(db, &mocks.MockDeckStore{}, nil, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestDeckService_CreateDeck(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates deck with cards in a transaction", func(t *testing.T) {
		db, sqlMock := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		decks.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Deck) bool {
			return d.UserID == userID && len(d.Cards) == 2 && d.Cards[1].Index == 1
		})).Return(nil)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		deck, err := svc.CreateDeck(ctx, userID, " Spanish ", "", []domain.CardContent{
			{Front: "hola", Back: "hello"},
			{Front: "adiós", Back: "goodbye"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Spanish", deck.Name)
		assert.False(t, deck.IsPublished)
		decks.AssertExpectations(t)
	})

	t.Run("invalid card is rejected before the transaction", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		svc, err := NewDeckService(db, &mocks.MockDeckStore{}, nil, nil, nil)
		require.NoError(t, err)

		_, err = svc.CreateDeck(ctx, userID, "Spanish", "", []domain.CardContent{{Front: "hola"}})
		assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		db, sqlMock := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		decks.On("Create", mock.Anything, mock.Anything).Return(store.ErrInvalidEntity)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		_, err = svc.CreateDeck(ctx, userID, "Spanish", "", nil)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestDeckService_GetDeck(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name      string
		published bool
		caller    uuid.UUID
		wantErr   error
	}{
		{name: "owner sees private deck", caller: owner},
		{name: "other user sees published deck", published: true, caller: other},
		{name: "private deck is hidden from others", caller: other, wantErr: store.ErrDeckNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := mocks.NewTxDB(t)
			decks := &mocks.MockDeckStore{}
			deck := testDeck(t, owner, tt.published)
			decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

			svc, err := NewDeckService(db, decks, nil, nil, nil)
			require.NoError(t, err)

			got, err := svc.GetDeck(ctx, tt.caller, deck.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, deck.ID, got.ID)
		})
	}
}

func TestDeckService_Ownership(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	t.Run("published deck of another user cannot be deleted", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		deck := testDeck(t, owner, true)
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		err = svc.DeleteDeck(ctx, other, deck.ID)
		assert.ErrorIs(t, err, ErrNotOwned)
		decks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("private deck of another user is not found", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		deck := testDeck(t, owner, false)
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		_, err = svc.SetPublished(ctx, other, deck.ID, true)
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})

	t.Run("card of a hidden deck is reported as missing card", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		deck := testDeck(t, owner, false)
		card, err := domain.NewCard(deck.ID, 0, "hola", "hello")
		require.NoError(t, err)
		decks.On("GetCard", mock.Anything, card.ID).Return(card, nil)
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		err = svc.DeleteCard(ctx, other, card.ID)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("owner deletes deck", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		deck := testDeck(t, owner, false)
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		decks.On("Delete", mock.Anything, deck.ID).Return(nil)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteDeck(ctx, owner, deck.ID))
		decks.AssertExpectations(t)
	})
}

func TestDeckService_UpdateDeck(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("nil cards keep existing cards", func(t *testing.T) {
		db, sqlMock := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		deck := testDeck(t, owner, false)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		decks.On("Update", mock.Anything, mock.Anything).Return(nil)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		got, err := svc.UpdateDeck(ctx, owner, deck.ID, "  Verbs ", "new", nil)
		require.NoError(t, err)
		assert.Equal(t, "Verbs", got.Name)
		decks.AssertNotCalled(t, "ReplaceCards", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cards replace the deck content", func(t *testing.T) {
		db, sqlMock := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		deck := testDeck(t, owner, false)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		decks.On("Update", mock.Anything, mock.Anything).Return(nil)
		decks.On("ReplaceCards", mock.Anything, deck.ID, mock.MatchedBy(func(c []domain.Card) bool {
			return len(c) == 1 && c[0].Front == "ser"
		})).Return(nil)

		svc, err := NewDeckService(db, decks, nil, nil, nil)
		require.NoError(t, err)

		got, err := svc.UpdateDeck(ctx, owner, deck.ID, "Verbs", "", []domain.CardContent{{Front: "ser", Back: "to be"}})
		require.NoError(t, err)
		assert.Len(t, got.Cards, 1)
		decks.AssertExpectations(t)
	})
}

func TestDeckService_AddCard(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	db, sqlMock := mocks.NewTxDB(t)
	decks := &mocks.MockDeckStore{}
	deck := testDeck(t, owner, false)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
	decks.On("NextCardIndex", mock.Anything, deck.ID).Return(7, nil)
	decks.On("AddCards", mock.Anything, mock.Anything).Return(nil)

	svc, err := NewDeckService(db, decks, nil, nil, nil)
	require.NoError(t, err)

	card, err := svc.AddCard(ctx, owner, deck.ID, domain.CardContent{Front: "gato", Back: "cat"})
	require.NoError(t, err)
	assert.Equal(t, 7, card.Index)
	assert.Equal(t, deck.ID, card.DeckID)
}

func TestDeckService_ImportCards(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("rows are appended", func(t *testing.T) {
		db, sqlMock := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		sheets := &mockSheetReader{}
		deck := testDeck(t, owner, false)
		body := strings.NewReader("xlsx")

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		decks.On("NextCardIndex", mock.Anything, deck.ID).Return(0, nil)
		decks.On("AddCards", mock.Anything, mock.Anything).Return(nil)
		sheets.On("ReadCards", body, true).Return([]domain.CardContent{
			{Front: "perro", Back: "dog"},
			{Front: "gato", Back: "cat"},
		}, nil)

		svc, err := NewDeckService(db, decks, sheets, nil, nil)
		require.NoError(t, err)

		cards, err := svc.ImportCards(ctx, owner, deck.ID, body, true)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, 1, cards[1].Index)
	})

	t.Run("unreadable file is a validation error", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		sheets := &mockSheetReader{}
		deck := testDeck(t, owner, false)
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		sheets.On("ReadCards", mock.Anything, false).Return(nil, errors.New("zip: not a valid zip file"))

		svc, err := NewDeckService(db, decks, sheets, nil, nil)
		require.NoError(t, err)

		_, err = svc.ImportCards(ctx, owner, deck.ID, strings.NewReader("nope"), false)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("empty sheet", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		sheets := &mockSheetReader{}
		deck := testDeck(t, owner, false)
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		sheets.On("ReadCards", mock.Anything, true).Return([]domain.CardContent{}, nil)

		svc, err := NewDeckService(db, decks, sheets, nil, nil)
		require.NoError(t, err)

		_, err = svc.ImportCards(ctx, owner, deck.ID, strings.NewReader(""), true)
		assert.ErrorIs(t, err, ErrNoCardsImported)
	})
}

func TestDeckService_GenerateCards(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("disabled without generator", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		svc, err := NewDeckService(db, &mocks.MockDeckStore{}, nil, nil, nil)
		require.NoError(t, err)

		_, err = svc.GenerateCards(ctx, owner, uuid.New(), "la casa", 5)
		assert.ErrorIs(t, err, ErrGenerationDisabled)
	})

	t.Run("generated cards are appended", func(t *testing.T) {
		db, sqlMock := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		gen := &mockGenerator{}
		deck := testDeck(t, owner, false)

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		decks.On("NextCardIndex", mock.Anything, deck.ID).Return(3, nil)
		decks.On("AddCards", mock.Anything, mock.Anything).Return(nil)
		gen.On("GenerateCards", mock.Anything, "la casa", 1).
			Return([]domain.CardContent{{Front: "la casa", Back: "the house"}}, nil)

		svc, err := NewDeckService(db, decks, nil, gen, nil)
		require.NoError(t, err)

		cards, err := svc.GenerateCards(ctx, owner, deck.ID, "la casa", 1)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, 3, cards[0].Index)
	})

	t.Run("generator failure is wrapped", func(t *testing.T) {
		db, _ := mocks.NewTxDB(t)
		decks := &mocks.MockDeckStore{}
		gen := &mockGenerator{}
		deck := testDeck(t, owner, false)
		cause := errors.New("quota exceeded")
		decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		gen.On("GenerateCards", mock.Anything, "x", 2).Return(nil, cause)

		svc, err := NewDeckService(db, decks, nil, gen, nil)
		require.NoError(t, err)

		_, err = svc.GenerateCards(ctx, owner, deck.ID, "x", 2)
		assert.ErrorIs(t, err, cause)
		var se *ServiceError
		assert.ErrorAs(t, err, &se)
	})
}

func TestDeckService_GenerateCardsValidatesRequest(t *testing.T) {
	db, _ := mocks.NewTxDB(t)
	gen := &mockGenerator{}
	svc, err := NewDeckService(db, &mocks.MockDeckStore{}, nil, gen, nil)
	require.NoError(t, err)

	_, err = svc.GenerateCards(context.Background(), uuid.New(), uuid.New(), "la casa", 51)
	assert.ErrorIs(t, err, domain.ErrValidation)
	gen.AssertNotCalled(t, "GenerateCards", mock.Anything, mock.Anything, mock.Anything)
}
