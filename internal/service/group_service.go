package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/store"
)

// GroupService manages study groups and the invitations that grow them.
//
// A user is a member of a group while one of their progress decks is linked
// to it. Only members can see a group, its members, decks and statistics.
type GroupService interface {
	// ListGroups returns the groups the caller belongs to.
	ListGroups(ctx context.Context, userID uuid.UUID) ([]domain.Group, error)

	GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*domain.Group, error)

	ListGroupUsers(ctx context.Context, userID, groupID uuid.UUID) ([]domain.User, error)

	ListGroupProgressDecks(ctx context.Context, userID, groupID uuid.UUID) ([]domain.ProgressDeck, error)

	// CreateGroup creates a group owned by the caller around one of the
	// caller's progress decks and invites every known user in memberNames.
	// Unknown names and the caller's own name are skipped.
	CreateGroup(
		ctx context.Context,
		userID uuid.UUID,
		name, description string,
		progressDeckID uuid.UUID,
		memberNames []string,
	) (*domain.Group, error)

	// AddUserToGroup invites userName to a group the caller belongs to.
	AddUserToGroup(ctx context.Context, userID, groupID uuid.UUID, userName string) (*domain.Invitation, error)

	// RemoveUserFromGroup unlinks userName's progress decks from the group.
	// The group owner can remove anyone; other members only themselves.
	RemoveUserFromGroup(ctx context.Context, userID, groupID uuid.UUID, userName string) error

	// ListInvitations returns the invitations addressed to the caller.
	ListInvitations(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error)

	// AcceptInvitation creates the caller's progress deck for the invited
	// group and removes the invitation. When the offered deck no longer
	// exists the invitation is removed and ErrDeckNotFound is returned.
	AcceptInvitation(ctx context.Context, userID, invitationID uuid.UUID) (*domain.ProgressDeck, error)

	DeclineInvitation(ctx context.Context, userID, invitationID uuid.UUID) error

	// GroupStatistics returns every member's daily statistics.
	GroupStatistics(ctx context.Context, userID, groupID uuid.UUID) ([]domain.CombinedStatistic, error)
}

// GroupStores bundles the stores a GroupService works on.
type GroupStores struct {
	Users       store.UserStore
	Groups      store.GroupStore
	Invitations store.InvitationStore
	Progress    store.ProgressDeckStore
	Decks       store.DeckStore
	Stats       store.StatisticsStore
}

func (s GroupStores) validate() error {
	switch {
	case s.Users == nil:
		return domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	case s.Groups == nil:
		return domain.NewValidationError("groups", "cannot be nil", domain.ErrValidation)
	case s.Invitations == nil:
		return domain.NewValidationError("invitations", "cannot be nil", domain.ErrValidation)
	case s.Progress == nil:
		return domain.NewValidationError("progress", "cannot be nil", domain.ErrValidation)
	case s.Decks == nil:
		return domain.NewValidationError("decks", "cannot be nil", domain.ErrValidation)
	case s.Stats == nil:
		return domain.NewValidationError("stats", "cannot be nil", domain.ErrValidation)
	}
	return nil
}

type groupServiceImpl struct {
	db     store.TxBeginner
	stores GroupStores
	logger *slog.Logger
}

var _ GroupService = (*groupServiceImpl)(nil)

// NewGroupService creates a GroupService.
func NewGroupService(db store.TxBeginner, stores GroupStores, logger *slog.Logger) (GroupService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if err := stores.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &groupServiceImpl{
		db:     db,
		stores: stores,
		logger: logger.With(slog.String("component", "group_service")),
	}, nil
}

func (s *groupServiceImpl) ListGroups(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	return s.stores.Groups.ListByUser(ctx, userID)
}

func (s *groupServiceImpl) GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*domain.Group, error) {
	return s.memberGroup(ctx, userID, groupID)
}

func (s *groupServiceImpl) ListGroupUsers(ctx context.Context, userID, groupID uuid.UUID) ([]domain.User, error) {
	if _, err := s.memberGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.stores.Groups.ListMembers(ctx, groupID)
}

func (s *groupServiceImpl) ListGroupProgressDecks(
	ctx context.Context,
	userID, groupID uuid.UUID,
) ([]domain.ProgressDeck, error) {
	if _, err := s.memberGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.stores.Progress.ListByGroup(ctx, groupID)
}

func (s *groupServiceImpl) CreateGroup(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
	progressDeckID uuid.UUID,
	memberNames []string,
) (*domain.Group, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		group   *domain.Group
		invited int
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.stores.Users.WithTx(tx)
		progress := s.stores.Progress.WithTx(tx)
		invitations := s.stores.Invitations.WithTx(tx)

		owner, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		pd, err := progress.GetByID(ctx, progressDeckID)
		if err != nil {
			return err
		}
		if pd.UserID != userID {
			return ErrNotOwned
		}
		deck, err := s.stores.Decks.WithTx(tx).GetByID(ctx, pd.DeckID)
		if err != nil {
			return err
		}

		group, err = domain.NewGroup(name, description, owner.UserName)
		if err != nil {
			return err
		}
		if err := s.stores.Groups.WithTx(tx).Create(ctx, group); err != nil {
			return err
		}
		if err := progress.SetGroup(ctx, pd.ID, &group.ID); err != nil {
			return err
		}

		seen := map[uuid.UUID]bool{owner.ID: true}
		for _, memberName := range memberNames {
			memberName = strings.TrimSpace(memberName)
			if memberName == "" {
				continue
			}
			member, err := users.GetByUserName(ctx, memberName)
			if errors.Is(err, store.ErrUserNotFound) {
				log.Debug("skipping unknown group member", slog.String("user_name", memberName))
				continue
			}
			if err != nil {
				return err
			}
			if seen[member.ID] {
				continue
			}
			seen[member.ID] = true

			inv := domain.NewInvitation(member.ID, group, deck, len(deck.Cards), owner.UserName)
			if err := invitations.Create(ctx, inv); err != nil {
				return err
			}
			invited++
		}
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !errors.Is(err, ErrNotOwned) {
			log.Error("failed to create group",
				slog.String("error", err.Error()),
				slog.String("progress_deck_id", progressDeckID.String()))
		}
		return nil, err
	}

	log.Info("group created",
		slog.String("group_id", group.ID.String()),
		slog.Int("invitations", invited))
	return group, nil
}

func (s *groupServiceImpl) AddUserToGroup(
	ctx context.Context,
	userID, groupID uuid.UUID,
	userName string,
) (*domain.Invitation, error) {
	group, err := s.memberGroup(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	invitee, err := s.stores.Users.GetByUserName(ctx, strings.TrimSpace(userName))
	if err != nil {
		return nil, err
	}
	if invitee.ID == userID {
		return nil, ErrSelfInvitation
	}
	_, err = s.stores.Progress.FindInGroup(ctx, groupID, invitee.ID)
	switch {
	case err == nil:
		return nil, ErrAlreadyMember
	case !errors.Is(err, store.ErrProgressDeckNotFound):
		return nil, err
	}

	members, err := s.stores.Progress.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, store.ErrGroupNotFound
	}
	deck, err := s.stores.Decks.GetByID(ctx, members[0].DeckID)
	if err != nil {
		return nil, err
	}

	inv := domain.NewInvitation(invitee.ID, group, deck, len(deck.Cards), group.OwnerName)
	if err := s.stores.Invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user invited to group",
		slog.String("group_id", groupID.String()),
		slog.String("invitation_id", inv.ID.String()))
	return inv, nil
}

func (s *groupServiceImpl) RemoveUserFromGroup(
	ctx context.Context,
	userID, groupID uuid.UUID,
	userName string,
) error {
	group, err := s.memberGroup(ctx, userID, groupID)
	if err != nil {
		return err
	}
	caller, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if caller.UserName != group.OwnerName && caller.UserName != userName {
		return ErrNotOwned
	}
	target, err := s.stores.Users.GetByUserName(ctx, userName)
	if err != nil {
		return err
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		progress := s.stores.Progress.WithTx(tx)

		decks, err := progress.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		removed := 0
		for _, pd := range decks {
			if pd.UserID != target.ID {
				continue
			}
			if err := progress.SetGroup(ctx, pd.ID, nil); err != nil {
				return err
			}
			removed++
		}
		if removed == 0 {
			return ErrNotGroupMember
		}
		return nil
	})
}

func (s *groupServiceImpl) ListInvitations(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error) {
	return s.stores.Invitations.ListByUser(ctx, userID)
}

func (s *groupServiceImpl) AcceptInvitation(
	ctx context.Context,
	userID, invitationID uuid.UUID,
) (*domain.ProgressDeck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		pd          *domain.ProgressDeck
		deckMissing bool
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		invitations := s.stores.Invitations.WithTx(tx)

		inv, err := s.ownInvitation(ctx, invitations, userID, invitationID)
		if err != nil {
			return err
		}

		deck, err := s.stores.Decks.WithTx(tx).GetByID(ctx, inv.DeckID)
		if errors.Is(err, store.ErrDeckNotFound) {
			// The stale invitation is dropped and the transaction commits.
			deckMissing = true
			return invitations.Delete(ctx, inv.ID)
		}
		if err != nil {
			return err
		}

		pd, err = domain.NewProgressDeck(userID, deck.ID, inv.ProgressDeckName(deck.Name),
			deck.Description, domain.DefaultDailyCardLimit)
		if err != nil {
			return err
		}
		groupID := inv.GroupID
		pd.GroupID = &groupID
		pd.Cards, err = domain.ProgressCardsFromDeck(pd.ID, deck.Cards)
		if err != nil {
			return err
		}

		if err := s.stores.Progress.WithTx(tx).Create(ctx, pd); err != nil {
			return err
		}
		return invitations.Delete(ctx, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	if deckMissing {
		log.Warn("invitation deck no longer exists",
			slog.String("invitation_id", invitationID.String()))
		return nil, store.ErrDeckNotFound
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", invitationID.String()),
		slog.String("progress_deck_id", pd.ID.String()))
	return pd, nil
}

func (s *groupServiceImpl) DeclineInvitation(ctx context.Context, userID, invitationID uuid.UUID) error {
	inv, err := s.ownInvitation(ctx, s.stores.Invitations, userID, invitationID)
	if err != nil {
		return err
	}
	return s.stores.Invitations.Delete(ctx, inv.ID)
}

func (s *groupServiceImpl) GroupStatistics(
	ctx context.Context,
	userID, groupID uuid.UUID,
) ([]domain.CombinedStatistic, error) {
	if _, err := s.memberGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.stores.Stats.ListByGroup(ctx, groupID)
}

// memberGroup loads a group and checks the caller has a progress deck in it.
func (s *groupServiceImpl) memberGroup(ctx context.Context, userID, groupID uuid.UUID) (*domain.Group, error) {
	group, err := s.stores.Groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	_, err = s.stores.Progress.FindInGroup(ctx, groupID, userID)
	if errors.Is(err, store.ErrProgressDeckNotFound) {
		return nil, ErrNotGroupMember
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ownInvitation hides invitations addressed to other users.
func (s *groupServiceImpl) ownInvitation(
	ctx context.Context,
	invitations store.InvitationStore,
	userID, invitationID uuid.UUID,
) (*domain.Invitation, error) {
	inv, err := invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, store.ErrInvitationNotFound
	}
	return inv, nil
}
