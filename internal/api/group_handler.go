package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/langtogether/langtogether-api/internal/api/shared"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/service"
)

// GroupHandler handles groups and invitations.
type GroupHandler struct {
	groups service.GroupService
	logger *slog.Logger
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groups service.GroupService, logger *slog.Logger) *GroupHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GroupHandler")
	}
	return &GroupHandler{
		groups: groups,
		logger: logger.With(slog.String("component", "group_handler")),
	}
}

// ListGroups handles GET /groups.
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	groups, err := h.groups.ListGroups(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list groups")
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, groups)
}

// GetGroup handles GET /groups/{id}.
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, groupID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	group, err := h.groups.GetGroup(r.Context(), userID, groupID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get group")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, group)
}

// ListGroupUsers handles GET /groups/{id}/users.
func (h *GroupHandler) ListGroupUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, groupID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	users, err := h.groups.ListGroupUsers(r.Context(), userID, groupID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list group users")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toUserResponses(users))
}

// ListGroupProgressDecks handles GET /groups/{id}/progress-decks.
func (h *GroupHandler) ListGroupProgressDecks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, groupID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	decks, err := h.groups.ListGroupProgressDecks(r.Context(), userID, groupID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list group decks")
		return
	}
	if decks == nil {
		decks = []domain.ProgressDeck{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// GetGroupStatistics handles GET /groups/{id}/statistics.
func (h *GroupHandler) GetGroupStatistics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, groupID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	stats, err := h.groups.GroupStatistics(r.Context(), userID, groupID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get group statistics")
		return
	}
	if stats == nil {
		stats = []domain.CombinedStatistic{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), userID, req.Name, req.Description, req.ProgressDeckID, req.Members)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create group")
		return
	}

	log.Info("group created",
		slog.String("group_id", group.ID.String()),
		slog.Int("invited", len(req.Members)))
	shared.RespondWithJSON(w, r, http.StatusCreated, group)
}

// AddUser handles POST /groups/{id}/users.
func (h *GroupHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, groupID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AddUserRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	inv, err := h.groups.AddUserToGroup(r.Context(), userID, groupID, req.UserName)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to invite user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, inv)
}

// RemoveUser handles DELETE /groups/{id}/users/{userName}.
func (h *GroupHandler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, groupID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	userName := chi.URLParam(r, "userName")
	if userName == "" {
		HandleAPIError(w, r, domain.NewValidationError("user_name", "is required", domain.ErrValidation), "")
		return
	}

	if err := h.groups.RemoveUserFromGroup(r.Context(), userID, groupID, userName); err != nil {
		HandleAPIError(w, r, err, "Failed to remove user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInvitations handles GET /invitations.
func (h *GroupHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	invitations, err := h.groups.ListInvitations(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list invitations")
		return
	}
	if invitations == nil {
		invitations = []domain.Invitation{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, invitations)
}

// AcceptInvitation handles POST /invitations/{id}/accept and returns the new
// progress deck.
func (h *GroupHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, invitationID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	deck, err := h.groups.AcceptInvitation(r.Context(), userID, invitationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to accept invitation")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// DeclineInvitation handles DELETE /invitations/{id}.
func (h *GroupHandler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, invitationID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.groups.DeclineInvitation(r.Context(), userID, invitationID); err != nil {
		HandleAPIError(w, r, err, "Failed to decline invitation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
