package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/langtogether/langtogether-api/internal/api/shared"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/service"
)

// ProgressHandler handles progress decks, review sessions and statistics.
type ProgressHandler struct {
	progress service.ProgressService
	logger   *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progress service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}
	return &ProgressHandler{
		progress: progress,
		logger:   logger.With(slog.String("component", "progress_handler")),
	}
}

// ListProgressDecks handles GET /progress-decks.
func (h *ProgressHandler) ListProgressDecks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	decks, err := h.progress.ListProgressDecks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list progress decks")
		return
	}
	if decks == nil {
		decks = []domain.ProgressDeck{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// GetProgressDeck handles GET /progress-decks/{id}.
func (h *ProgressHandler) GetProgressDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	deck, err := h.progress.GetProgressDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get progress deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// CreateProgressDeck handles POST /progress-decks.
func (h *ProgressHandler) CreateProgressDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateProgressDeckRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	deck, err := h.progress.CreateProgressDeck(r.Context(), userID, req.DeckID, req.Name, req.Description, req.DailyCardLimit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create progress deck")
		return
	}

	log.Debug("progress deck created",
		slog.String("progress_deck_id", deck.ID.String()),
		slog.Int("cards", len(deck.Cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// UpdateProgressDeck handles PUT /progress-decks/{id}. Only the daily card
// limit can change.
func (h *ProgressHandler) UpdateProgressDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateProgressDeckRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	deck, err := h.progress.UpdateDailyCardLimit(r.Context(), userID, deckID, req.DailyCardLimit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update progress deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DeleteProgressDeck handles DELETE /progress-decks/{id}.
func (h *ProgressHandler) DeleteProgressDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.progress.DeleteProgressDeck(r.Context(), userID, deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete progress deck")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /progress-decks/{id}/session.
func (h *ProgressHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	session, err := h.progress.GetSession(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build review session")
		return
	}
	if session.Cards == nil {
		session.Cards = []domain.ProgressCard{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// GetNextCard handles GET /progress-decks/{id}/next. An empty queue is 204.
func (h *ProgressHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.progress.NextCard(r.Context(), userID, deckID)
	if errors.Is(err, service.ErrNoCardsDue) {
		log.Debug("no cards due for review", slog.String("progress_deck_id", deckID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next review card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// GetCounts handles GET /progress-decks/{id}/counts.
func (h *ProgressHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	counts, err := h.progress.CountCards(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, counts)
}

// SubmitReview handles POST /progress-decks/reviews.
func (h *ProgressHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req ReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.progress.SubmitReview(r.Context(), userID, req.ProgressCardID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("review submitted",
		slog.String("progress_card_id", card.ID.String()),
		slog.Int("quality", *req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// GetDeckStatistics handles GET /progress-decks/{id}/statistics.
func (h *ProgressHandler) GetDeckStatistics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	stats, err := h.progress.DeckStatistics(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get statistics")
		return
	}
	if stats == nil {
		stats = []domain.DailyStatistic{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetCombinedStatistics handles GET /progress-decks/statistics.
func (h *ProgressHandler) GetCombinedStatistics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	stats, err := h.progress.CombinedStatistics(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get statistics")
		return
	}
	if stats == nil {
		stats = []domain.CombinedStatistic{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
