package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/langtogether/langtogether-api/internal/domain"
)

// RegisterRequest is the payload of POST /auth/register. An empty user
// name defaults to the email.
type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email,max=254"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	UserName string `json:"user_name" validate:"omitempty,max=64"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    string    `json:"expires_at"` // RFC 3339
}

// RefreshTokenRequest is the payload of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CardRequest is the text of one card.
type CardRequest struct {
	Front string `json:"front" validate:"required,max=1000"`
	Back  string `json:"back"  validate:"required,max=1000"`
}

// DeckRequest is the payload for creating and updating decks. On update a
// nil cards list leaves the cards alone, an empty one removes them all.
type DeckRequest struct {
	Name        string        `json:"name"        validate:"required,max=200"`
	Description string        `json:"description" validate:"max=2000"`
	Cards       []CardRequest `json:"cards"       validate:"omitempty,max=2000,dive"`
}

// PublishRequest is the payload of PUT /decks/{id}/publish.
type PublishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

// GenerateCardsRequest is the payload of POST /decks/{id}/generate.
type GenerateCardsRequest struct {
	SourceText string `json:"source_text" validate:"required,max=10000"`
	Count      int    `json:"count"       validate:"required,min=1,max=50"`
}

// CreateProgressDeckRequest is the payload of POST /progress-decks.
type CreateProgressDeckRequest struct {
	DeckID         uuid.UUID `json:"deck_id"          validate:"required"`
	Name           string    `json:"name"             validate:"max=200"`
	Description    string    `json:"description"      validate:"max=2000"`
	DailyCardLimit int       `json:"daily_card_limit" validate:"min=0,max=1000"`
}

// UpdateProgressDeckRequest is the payload of PUT /progress-decks/{id}.
type UpdateProgressDeckRequest struct {
	DailyCardLimit int `json:"daily_card_limit" validate:"required,min=1,max=1000"`
}

// ReviewRequest is the payload of POST /progress-decks/reviews. Quality is
// a pointer so that 0, a failed recall, passes the required check.
type ReviewRequest struct {
	ProgressCardID uuid.UUID `json:"progress_card_id" validate:"required"`
	Quality        *int      `json:"quality"          validate:"required,min=0,max=5"`
}

// CreateGroupRequest is the payload of POST /groups.
type CreateGroupRequest struct {
	Name           string    `json:"name"             validate:"required,max=200"`
	Description    string    `json:"description"      validate:"max=2000"`
	ProgressDeckID uuid.UUID `json:"progress_deck_id" validate:"required"`
	Members        []string  `json:"members"          validate:"omitempty,max=100,dive,required,max=50"`
}

// AddUserRequest is the payload of POST /groups/{id}/users.
type AddUserRequest struct {
	UserName string `json:"user_name" validate:"required,max=50"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
}

// ImportResponse reports the cards added by an import or generation.
type ImportResponse struct {
	Added int           `json:"added"`
	Cards []domain.Card `json:"cards"`
}

func toCardContents(cards []CardRequest) []domain.CardContent {
	if cards == nil {
		return nil
	}
	contents := make([]domain.CardContent, len(cards))
	for i, c := range cards {
		contents[i] = domain.CardContent{Front: c.Front, Back: c.Back}
	}
	return contents
}

func toUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = UserResponse{ID: u.ID, UserName: u.UserName}
	}
	return out
}

func formatExpiry(now time.Time, lifetime time.Duration) string {
	return now.Add(lifetime).UTC().Format(time.RFC3339)
}
