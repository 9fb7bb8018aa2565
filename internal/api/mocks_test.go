package api

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/domain/srs"
	"github.com/langtogether/langtogether-api/internal/service"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserService) Register(ctx context.Context, email, userName, password string) (*domain.User, error) {
	args := m.Called(ctx, email, userName, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockDeckService struct{ mock.Mock }

func (m *mockDeckService) decks(args mock.Arguments) ([]domain.Deck, error) {
	d, _ := args.Get(0).([]domain.Deck)
	return d, args.Error(1)
}

func (m *mockDeckService) deck(args mock.Arguments) (*domain.Deck, error) {
	d, _ := args.Get(0).(*domain.Deck)
	return d, args.Error(1)
}

func (m *mockDeckService) cards(args mock.Arguments) ([]domain.Card, error) {
	c, _ := args.Get(0).([]domain.Card)
	return c, args.Error(1)
}

func (m *mockDeckService) ListDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return m.decks(m.Called(ctx, userID))
}

func (m *mockDeckService) ListOwnDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return m.decks(m.Called(ctx, userID))
}

func (m *mockDeckService) ListPublishedDecks(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	return m.decks(m.Called(ctx, userID))
}

func (m *mockDeckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, userID, deckID))
}

func (m *mockDeckService) CreateDeck(
	ctx context.Context, userID uuid.UUID, name, description string, cards []domain.CardContent,
) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, userID, name, description, cards))
}

func (m *mockDeckService) UpdateDeck(
	ctx context.Context, userID, deckID uuid.UUID, name, description string, cards []domain.CardContent,
) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, userID, deckID, name, description, cards))
}

func (m *mockDeckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	return m.Called(ctx, userID, deckID).Error(0)
}

func (m *mockDeckService) SetPublished(ctx context.Context, userID, deckID uuid.UUID, published bool) (*domain.Deck, error) {
	return m.deck(m.Called(ctx, userID, deckID, published))
}

func (m *mockDeckService) AddCard(
	ctx context.Context, userID, deckID uuid.UUID, content domain.CardContent,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, deckID, content)
	c, _ := args.Get(0).(*domain.Card)
	return c, args.Error(1)
}

func (m *mockDeckService) UpdateCard(
	ctx context.Context, userID, cardID uuid.UUID, content domain.CardContent,
) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID, content)
	c, _ := args.Get(0).(*domain.Card)
	return c, args.Error(1)
}

func (m *mockDeckService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	return m.Called(ctx, userID, cardID).Error(0)
}

func (m *mockDeckService) ImportCards(
	ctx context.Context, userID, deckID uuid.UUID, r io.Reader, hasHeader bool,
) ([]domain.Card, error) {
	return m.cards(m.Called(ctx, userID, deckID, r, hasHeader))
}

func (m *mockDeckService) GenerateCards(
	ctx context.Context, userID, deckID uuid.UUID, sourceText string, count int,
) ([]domain.Card, error) {
	return m.cards(m.Called(ctx, userID, deckID, sourceText, count))
}

type mockProgressService struct{ mock.Mock }

func (m *mockProgressService) deck(args mock.Arguments) (*domain.ProgressDeck, error) {
	d, _ := args.Get(0).(*domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *mockProgressService) ListProgressDecks(ctx context.Context, userID uuid.UUID) ([]domain.ProgressDeck, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).([]domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *mockProgressService) GetProgressDeck(ctx context.Context, userID, progressDeckID uuid.UUID) (*domain.ProgressDeck, error) {
	return m.deck(m.Called(ctx, userID, progressDeckID))
}

func (m *mockProgressService) CreateProgressDeck(
	ctx context.Context, userID, deckID uuid.UUID, name, description string, dailyCardLimit int,
) (*domain.ProgressDeck, error) {
	return m.deck(m.Called(ctx, userID, deckID, name, description, dailyCardLimit))
}

func (m *mockProgressService) UpdateDailyCardLimit(
	ctx context.Context, userID, progressDeckID uuid.UUID, limit int,
) (*domain.ProgressDeck, error) {
	return m.deck(m.Called(ctx, userID, progressDeckID, limit))
}

func (m *mockProgressService) DeleteProgressDeck(ctx context.Context, userID, progressDeckID uuid.UUID) error {
	return m.Called(ctx, userID, progressDeckID).Error(0)
}

func (m *mockProgressService) GetSession(ctx context.Context, userID, progressDeckID uuid.UUID) (*service.Session, error) {
	args := m.Called(ctx, userID, progressDeckID)
	s, _ := args.Get(0).(*service.Session)
	return s, args.Error(1)
}

func (m *mockProgressService) NextCard(ctx context.Context, userID, progressDeckID uuid.UUID) (*domain.ProgressCard, error) {
	args := m.Called(ctx, userID, progressDeckID)
	c, _ := args.Get(0).(*domain.ProgressCard)
	return c, args.Error(1)
}

func (m *mockProgressService) CountCards(ctx context.Context, userID, progressDeckID uuid.UUID) (srs.CardCounts, error) {
	args := m.Called(ctx, userID, progressDeckID)
	c, _ := args.Get(0).(srs.CardCounts)
	return c, args.Error(1)
}

func (m *mockProgressService) SubmitReview(
	ctx context.Context, userID, progressCardID uuid.UUID, quality int,
) (*domain.ProgressCard, error) {
	args := m.Called(ctx, userID, progressCardID, quality)
	c, _ := args.Get(0).(*domain.ProgressCard)
	return c, args.Error(1)
}

func (m *mockProgressService) DeckStatistics(
	ctx context.Context, userID, progressDeckID uuid.UUID,
) ([]domain.DailyStatistic, error) {
	args := m.Called(ctx, userID, progressDeckID)
	s, _ := args.Get(0).([]domain.DailyStatistic)
	return s, args.Error(1)
}

func (m *mockProgressService) CombinedStatistics(ctx context.Context, userID uuid.UUID) ([]domain.CombinedStatistic, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]domain.CombinedStatistic)
	return s, args.Error(1)
}

type mockGroupService struct{ mock.Mock }

func (m *mockGroupService) ListGroups(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	g, _ := args.Get(0).([]domain.Group)
	return g, args.Error(1)
}

func (m *mockGroupService) GetGroup(ctx context.Context, userID, groupID uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, userID, groupID)
	g, _ := args.Get(0).(*domain.Group)
	return g, args.Error(1)
}

func (m *mockGroupService) ListGroupUsers(ctx context.Context, userID, groupID uuid.UUID) ([]domain.User, error) {
	args := m.Called(ctx, userID, groupID)
	u, _ := args.Get(0).([]domain.User)
	return u, args.Error(1)
}

func (m *mockGroupService) ListGroupProgressDecks(ctx context.Context, userID, groupID uuid.UUID) ([]domain.ProgressDeck, error) {
	args := m.Called(ctx, userID, groupID)
	d, _ := args.Get(0).([]domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *mockGroupService) CreateGroup(
	ctx context.Context, userID uuid.UUID, name, description string, progressDeckID uuid.UUID, memberNames []string,
) (*domain.Group, error) {
	args := m.Called(ctx, userID, name, description, progressDeckID, memberNames)
	g, _ := args.Get(0).(*domain.Group)
	return g, args.Error(1)
}

func (m *mockGroupService) AddUserToGroup(
	ctx context.Context, userID, groupID uuid.UUID, userName string,
) (*domain.Invitation, error) {
	args := m.Called(ctx, userID, groupID, userName)
	i, _ := args.Get(0).(*domain.Invitation)
	return i, args.Error(1)
}

func (m *mockGroupService) RemoveUserFromGroup(ctx context.Context, userID, groupID uuid.UUID, userName string) error {
	return m.Called(ctx, userID, groupID, userName).Error(0)
}

func (m *mockGroupService) ListInvitations(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error) {
	args := m.Called(ctx, userID)
	i, _ := args.Get(0).([]domain.Invitation)
	return i, args.Error(1)
}

func (m *mockGroupService) AcceptInvitation(ctx context.Context, userID, invitationID uuid.UUID) (*domain.ProgressDeck, error) {
	args := m.Called(ctx, userID, invitationID)
	d, _ := args.Get(0).(*domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *mockGroupService) DeclineInvitation(ctx context.Context, userID, invitationID uuid.UUID) error {
	return m.Called(ctx, userID, invitationID).Error(0)
}

func (m *mockGroupService) GroupStatistics(ctx context.Context, userID, groupID uuid.UUID) ([]domain.CombinedStatistic, error) {
	args := m.Called(ctx, userID, groupID)
	s, _ := args.Get(0).([]domain.CombinedStatistic)
	return s, args.Error(1)
}
