package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
)

// GroupStore persists study groups. Membership is stored on progress decks.
type GroupStore interface {
	Create(ctx context.Context, group *domain.Group) error

	// GetByID returns ErrGroupNotFound when the group does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)

	// ListByUser returns the groups userID belongs to through a progress deck.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error)

	// ListMembers returns the users with a progress deck in groupID.
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.User, error)

	// WithTx returns a GroupStore that runs on tx.
	WithTx(tx *sql.Tx) GroupStore
}

// InvitationStore persists pending group invitations.
type InvitationStore interface {
	Create(ctx context.Context, invitation *domain.Invitation) error

	// GetByID returns ErrInvitationNotFound when the invitation does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)

	// ListByUser returns the invitations addressed to userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error)

	// Delete returns ErrInvitationNotFound when the invitation does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteOlderThan removes invitations sent before cutoff and returns
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns an InvitationStore that runs on tx.
	WithTx(tx *sql.Tx) InvitationStore
}
