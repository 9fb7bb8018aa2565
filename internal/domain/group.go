package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Group validation errors
var (
	ErrGroupNameEmpty   = NewRuleError("group name cannot be empty")
	ErrGroupOwnerEmpty  = NewRuleError("group owner name cannot be empty")
	ErrGroupNameTooLong = NewRuleError("group name must be at most 200 characters long")
)

// Group is a study group. Membership is implied: a user belongs to a group
// while one of their progress decks references it.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerName   string    `json:"owner_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewGroup creates a group owned by the user called ownerName.
func NewGroup(name, description, ownerName string) (*Group, error) {
	g := &Group{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		OwnerName:   ownerName,
		CreatedAt:   time.Now().UTC(),
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks if the Group has valid data.
func (g *Group) Validate() error {
	if g.ID == uuid.Nil {
		return ErrInvalidID
	}
	if g.Name == "" {
		return ErrGroupNameEmpty
	}
	if len(g.Name) > maxDeckNameLength {
		return ErrGroupNameTooLong
	}
	if len(g.Description) > maxDeckDescriptionLength {
		return ErrDeckDescriptionTooLong
	}
	if g.OwnerName == "" {
		return ErrGroupOwnerEmpty
	}
	return nil
}

// Invitation asks a user to join a group by creating their own progress deck
// from the group's deck. Deck and group details are captured when the
// invitation is sent so the invitee sees what they are accepting.
type Invitation struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	DeckID           uuid.UUID `json:"deck_id"`
	GroupID          uuid.UUID `json:"group_id"`
	InvitationDate   time.Time `json:"invitation_date"`
	SenderName       string    `json:"sender_name"`
	DeckName         string    `json:"deck_name"`
	DeckDescription  string    `json:"deck_description"`
	NumberOfCards    int       `json:"number_of_cards"`
	GroupName        string    `json:"group_name"`
	GroupDescription string    `json:"group_description"`
}

// NewInvitation invites userID to group, offering deck. sender is the user
// name shown to the invitee.
func NewInvitation(userID uuid.UUID, group *Group, deck *Deck, cardCount int, sender string) *Invitation {
	return &Invitation{
		ID:               uuid.New(),
		UserID:           userID,
		DeckID:           deck.ID,
		GroupID:          group.ID,
		InvitationDate:   time.Now().UTC(),
		SenderName:       sender,
		DeckName:         deck.Name,
		DeckDescription:  deck.Description,
		NumberOfCards:    cardCount,
		GroupName:        group.Name,
		GroupDescription: group.Description,
	}
}

// ProgressDeckName is the name of the progress deck created when the
// invitation is accepted.
func (i *Invitation) ProgressDeckName(deckName string) string {
	return deckName + " - created from group: " + i.GroupName
}
