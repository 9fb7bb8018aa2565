package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/generation"
	"github.com/langtogether/langtogether-api/internal/service"
	"github.com/langtogether/langtogether-api/internal/store"
)

func TestDeckHandler_ListDecks(t *testing.T) {
	t.Run("empty list is an array", func(t *testing.T) {
		a := newTestAPI(t)
		a.decks.On("ListDecks", mock.Anything, a.userID).Return(nil, nil)

		rec := a.do(http.MethodGet, "/api/decks", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("published excludes own", func(t *testing.T) {
		a := newTestAPI(t)
		decks := []domain.Deck{{ID: uuid.New(), Name: "Spanish verbs", IsPublished: true}}
		a.decks.On("ListPublishedDecks", mock.Anything, a.userID).Return(decks, nil)

		rec := a.do(http.MethodGet, "/api/decks/published", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []domain.Deck
		decodeBody(t, rec, &got)
		assert.Len(t, got, 1)
	})

	t.Run("anonymous", func(t *testing.T) {
		a := newTestAPI(t)
		rec := a.do(http.MethodGet, "/api/decks/mine", "", "X-Anonymous", "1")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDeckHandler_GetDeck(t *testing.T) {
	t.Run("not visible", func(t *testing.T) {
		a := newTestAPI(t)
		deckID := uuid.New()
		a.decks.On("GetDeck", mock.Anything, a.userID, deckID).Return(nil, store.ErrDeckNotFound)

		rec := a.do(http.MethodGet, "/api/decks/"+deckID.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Deck not found", errorMessage(t, rec))
	})

	t.Run("invalid id", func(t *testing.T) {
		a := newTestAPI(t)
		rec := a.do(http.MethodGet, "/api/decks/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid id: has invalid format", errorMessage(t, rec))
	})
}

func TestDeckHandler_CreateDeck(t *testing.T) {
	t.Run("with cards", func(t *testing.T) {
		a := newTestAPI(t)
		contents := []domain.CardContent{{Front: "hola", Back: "hello"}}
		deck := &domain.Deck{ID: uuid.New(), UserID: a.userID, Name: "Basics"}
		a.decks.On("CreateDeck", mock.Anything, a.userID, "Basics", "first words", contents).Return(deck, nil)

		rec := a.do(http.MethodPost, "/api/decks",
			`{"name":"Basics","description":"first words","cards":[{"front":"hola","back":"hello"}]}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		a := newTestAPI(t)
		rec := a.do(http.MethodPost, "/api/decks", `{"description":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid name: required field", errorMessage(t, rec))
	})

	t.Run("card missing back", func(t *testing.T) {
		a := newTestAPI(t)
		rec := a.do(http.MethodPost, "/api/decks", `{"name":"Basics","cards":[{"front":"hola"}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too many cards", func(t *testing.T) {
		a := newTestAPI(t)
		cards := strings.TrimSuffix(strings.Repeat(`{"front":"a","back":"b"},`, 2001), ",")

		rec := a.do(http.MethodPost, "/api/decks", `{"name":"Huge","cards":[`+cards+`]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		a.decks.AssertNotCalled(t, "CreateDeck", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("domain rule surfaces as 400", func(t *testing.T) {
		a := newTestAPI(t)
		a.decks.On("CreateDeck", mock.Anything, a.userID, "   ", "", []domain.CardContent(nil)).
			Return(nil, fmt.Errorf("failed to create deck: %w", domain.ErrDeckNameEmpty))

		rec := a.do(http.MethodPost, "/api/decks", `{"name":"   "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request: deck name cannot be empty", errorMessage(t, rec))
	})
}

func TestDeckHandler_UpdateDeck(t *testing.T) {
	a := newTestAPI(t)
	deckID := uuid.New()
	a.decks.On("UpdateDeck", mock.Anything, a.userID, deckID, "Renamed", "", []domain.CardContent(nil)).
		Return(nil, service.ErrNotOwned)

	rec := a.do(http.MethodPut, "/api/decks/"+deckID.String(), `{"name":"Renamed"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You do not own this resource", errorMessage(t, rec))
}

func TestDeckHandler_SetPublished(t *testing.T) {
	t.Run("publish", func(t *testing.T) {
		a := newTestAPI(t)
		deckID := uuid.New()
		a.decks.On("SetPublished", mock.Anything, a.userID, deckID, false).
			Return(&domain.Deck{ID: deckID}, nil)

		rec := a.do(http.MethodPut, "/api/decks/"+deckID.String()+"/publish", `{"published":false}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("flag required", func(t *testing.T) {
		a := newTestAPI(t)
		rec := a.do(http.MethodPut, "/api/decks/"+uuid.NewString()+"/publish", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeckHandler_Cards(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		a := newTestAPI(t)
		deckID := uuid.New()
		content := domain.CardContent{Front: "gato", Back: "cat"}
		a.decks.On("AddCard", mock.Anything, a.userID, deckID, content).
			Return(&domain.Card{ID: uuid.New(), DeckID: deckID, Index: 4, Front: "gato", Back: "cat"}, nil)

		rec := a.do(http.MethodPost, "/api/decks/"+deckID.String()+"/cards", `{"front":"gato","back":"cat"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var card domain.Card
		decodeBody(t, rec, &card)
		assert.Equal(t, 4, card.Index)
	})

	t.Run("update missing card", func(t *testing.T) {
		a := newTestAPI(t)
		cardID := uuid.New()
		a.decks.On("UpdateCard", mock.Anything, a.userID, cardID, domain.CardContent{Front: "a", Back: "b"}).
			Return(nil, store.ErrCardNotFound)

		rec := a.do(http.MethodPut, "/api/cards/"+cardID.String(), `{"front":"a","back":"b"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		a := newTestAPI(t)
		cardID := uuid.New()
		a.decks.On("DeleteCard", mock.Anything, a.userID, cardID).Return(nil)

		rec := a.do(http.MethodDelete, "/api/cards/"+cardID.String(), "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func multipartUpload(t *testing.T, url string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if content != nil {
		fw, err := mw.CreateFormFile("file", "words.xlsx")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDeckHandler_ImportCards(t *testing.T) {
	t.Run("ok with header", func(t *testing.T) {
		a := newTestAPI(t)
		deckID := uuid.New()
		cards := []domain.Card{{ID: uuid.New(), DeckID: deckID, Front: "perro", Back: "dog"}}
		a.decks.On("ImportCards", mock.Anything, a.userID, deckID, mock.Anything, true).Return(cards, nil)

		req := multipartUpload(t, "/api/decks/"+deckID.String()+"/import?has_header=true", []byte("xlsx-bytes"))
		rec := a.doRequest(req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp ImportResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, 1, resp.Added)
	})

	t.Run("missing file", func(t *testing.T) {
		a := newTestAPI(t)
		req := multipartUpload(t, "/api/decks/"+uuid.NewString()+"/import", nil)
		rec := a.doRequest(req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad header flag", func(t *testing.T) {
		a := newTestAPI(t)
		req := multipartUpload(t, "/api/decks/"+uuid.NewString()+"/import?has_header=maybe", []byte("x"))
		rec := a.doRequest(req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nothing imported", func(t *testing.T) {
		a := newTestAPI(t)
		deckID := uuid.New()
		a.decks.On("ImportCards", mock.Anything, a.userID, deckID, mock.Anything, false).
			Return(nil, service.ErrNoCardsImported)

		rec := a.doRequest(multipartUpload(t, "/api/decks/"+deckID.String()+"/import", []byte("x")))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestDeckHandler_GenerateCards(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "disabled", err: service.ErrGenerationDisabled, wantStatus: http.StatusServiceUnavailable},
		{name: "blocked", err: generation.ErrContentBlocked, wantStatus: http.StatusUnprocessableEntity},
		{
			name:       "retries exhausted",
			err:        service.NewServiceError("generate cards", "llm call failed", generation.ErrTransientFailure),
			wantStatus: http.StatusServiceUnavailable,
		},
		{name: "ok", wantStatus: http.StatusCreated},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAPI(t)
			deckID := uuid.New()
			var cards []domain.Card
			if tc.err == nil {
				cards = []domain.Card{{ID: uuid.New()}, {ID: uuid.New()}}
			}
			a.decks.On("GenerateCards", mock.Anything, a.userID, deckID, "el sol brilla", 2).Return(cards, tc.err)

			rec := a.do(http.MethodPost, "/api/decks/"+deckID.String()+"/generate",
				`{"source_text":"el sol brilla","count":2}`)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}

	t.Run("count over limit", func(t *testing.T) {
		a := newTestAPI(t)
		rec := a.do(http.MethodPost, "/api/decks/"+uuid.NewString()+"/generate",
			`{"source_text":"text","count":51}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
