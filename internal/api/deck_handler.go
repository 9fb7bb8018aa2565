package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/langtogether/langtogether-api/internal/api/shared"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/service"
)

// maxImportBytes caps XLSX uploads.
const maxImportBytes = 5 << 20

// DeckHandler handles deck and card requests.
type DeckHandler struct {
	decks  service.DeckService
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(decks service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DeckHandler")
	}
	return &DeckHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /decks: the caller's decks and all published ones.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.decks.ListDecks)
}

// ListOwnDecks handles GET /decks/mine.
func (h *DeckHandler) ListOwnDecks(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.decks.ListOwnDecks)
}

// ListPublishedDecks handles GET /decks/published.
func (h *DeckHandler) ListPublishedDecks(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.decks.ListPublishedDecks)
}

// GetDeck handles GET /decks/{id}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), userID, req.Name, req.Description, toCardContents(req.Cards))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	log.Debug("deck created", slog.String("deck_id", deck.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// UpdateDeck handles PUT /decks/{id}.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	deck, err := h.decks.UpdateDeck(r.Context(), userID, deckID, req.Name, req.Description, toCardContents(req.Cards))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DeleteDeck handles DELETE /decks/{id}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPublished handles PUT /decks/{id}/publish.
func (h *DeckHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PublishRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	deck, err := h.decks.SetPublished(r.Context(), userID, deckID, *req.Published)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// AddCard handles POST /decks/{id}/cards.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.decks.AddCard(r.Context(), userID, deckID, domain.CardContent{Front: req.Front, Back: req.Back})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// UpdateCard handles PUT /cards/{cardID}.
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "cardID", log)
	if !ok {
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.decks.UpdateCard(r.Context(), userID, cardID, domain.CardContent{Front: req.Front, Back: req.Back})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{cardID}.
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "cardID", log)
	if !ok {
		return
	}

	if err := h.decks.DeleteCard(r.Context(), userID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportCards handles POST /decks/{id}/import, a multipart upload with the
// workbook in the "file" field. ?has_header=true skips the first row.
func (h *DeckHandler) ImportCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	hasHeader := false
	if v := r.URL.Query().Get("has_header"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("has_header", "must be a boolean", domain.ErrInvalidFormat), "")
			return
		}
		hasHeader = parsed
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		log.Debug("missing upload", slog.String("error", err.Error()))
		HandleAPIError(w, r, domain.NewValidationError("file", "an .xlsx upload is required", domain.ErrValidation), "")
		return
	}
	defer func() { _ = file.Close() }()

	cards, err := h.decks.ImportCards(r.Context(), userID, deckID, file, hasHeader)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import cards")
		return
	}

	log.Info("cards imported",
		slog.String("deck_id", deckID.String()),
		slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{Added: len(cards), Cards: cards})
}

// GenerateCards handles POST /decks/{id}/generate.
func (h *DeckHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req GenerateCardsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	cards, err := h.decks.GenerateCards(r.Context(), userID, deckID, req.SourceText, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, ImportResponse{Added: len(cards), Cards: cards})
}

func (h *DeckHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	fetch func(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	decks, err := fetch(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}
	if decks == nil {
		decks = []domain.Deck{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}
