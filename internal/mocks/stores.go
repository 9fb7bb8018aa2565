package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockUserStore is a mock of store.UserStore.
type MockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserStore) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	args := m.Called(ctx, userName)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore { return m }

func userOrNil(v any) *domain.User {
	u, _ := v.(*domain.User)
	return u
}

// MockDeckStore is a mock of store.DeckStore.
type MockDeckStore struct {
	mock.Mock
}

var _ store.DeckStore = (*MockDeckStore)(nil)

func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *MockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*domain.Deck)
	return d, args.Error(1)
}

func (m *MockDeckStore) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).([]domain.Deck)
	return d, args.Error(1)
}

func (m *MockDeckStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).([]domain.Deck)
	return d, args.Error(1)
}

func (m *MockDeckStore) ListPublished(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).([]domain.Deck)
	return d, args.Error(1)
}

func (m *MockDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *MockDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDeckStore) ReplaceCards(ctx context.Context, deckID uuid.UUID, cards []domain.Card) error {
	return m.Called(ctx, deckID, cards).Error(0)
}

func (m *MockDeckStore) AddCards(ctx context.Context, cards []domain.Card) error {
	return m.Called(ctx, cards).Error(0)
}

func (m *MockDeckStore) NextCardIndex(ctx context.Context, deckID uuid.UUID) (int, error) {
	args := m.Called(ctx, deckID)
	return args.Int(0), args.Error(1)
}

func (m *MockDeckStore) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, cardID)
	c, _ := args.Get(0).(*domain.Card)
	return c, args.Error(1)
}

func (m *MockDeckStore) UpdateCard(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockDeckStore) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	return m.Called(ctx, cardID).Error(0)
}

func (m *MockDeckStore) WithTx(*sql.Tx) store.DeckStore { return m }

// MockProgressDeckStore is a mock of store.ProgressDeckStore.
type MockProgressDeckStore struct {
	mock.Mock
}

var _ store.ProgressDeckStore = (*MockProgressDeckStore)(nil)

func (m *MockProgressDeckStore) Create(ctx context.Context, deck *domain.ProgressDeck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *MockProgressDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressDeck, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *MockProgressDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ProgressDeck, error) {
	args := m.Called(ctx, userID)
	d, _ := args.Get(0).([]domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *MockProgressDeckStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.ProgressDeck, error) {
	args := m.Called(ctx, groupID)
	d, _ := args.Get(0).([]domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *MockProgressDeckStore) FindInGroup(ctx context.Context, groupID, userID uuid.UUID) (*domain.ProgressDeck, error) {
	args := m.Called(ctx, groupID, userID)
	d, _ := args.Get(0).(*domain.ProgressDeck)
	return d, args.Error(1)
}

func (m *MockProgressDeckStore) UpdateDailyCardLimit(ctx context.Context, id uuid.UUID, limit int) error {
	return m.Called(ctx, id, limit).Error(0)
}

func (m *MockProgressDeckStore) SetGroup(ctx context.Context, id uuid.UUID, groupID *uuid.UUID) error {
	return m.Called(ctx, id, groupID).Error(0)
}

func (m *MockProgressDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProgressDeckStore) ListCards(ctx context.Context, progressDeckID uuid.UUID) ([]domain.ProgressCard, error) {
	args := m.Called(ctx, progressDeckID)
	c, _ := args.Get(0).([]domain.ProgressCard)
	return c, args.Error(1)
}

func (m *MockProgressDeckStore) GetCardForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.ProgressCard, error) {
	args := m.Called(ctx, cardID)
	c, _ := args.Get(0).(*domain.ProgressCard)
	return c, args.Error(1)
}

func (m *MockProgressDeckStore) UpdateCardState(ctx context.Context, card *domain.ProgressCard) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockProgressDeckStore) WithTx(*sql.Tx) store.ProgressDeckStore { return m }

// MockStatisticsStore is a mock of store.StatisticsStore.
type MockStatisticsStore struct {
	mock.Mock
}

var _ store.StatisticsStore = (*MockStatisticsStore)(nil)

func (m *MockStatisticsStore) GetForDay(ctx context.Context, progressDeckID uuid.UUID, day time.Time) (*domain.DailyStatistic, error) {
	args := m.Called(ctx, progressDeckID, day)
	s, _ := args.Get(0).(*domain.DailyStatistic)
	return s, args.Error(1)
}

func (m *MockStatisticsStore) ApplyIncrement(ctx context.Context, inc domain.StatIncrement) error {
	return m.Called(ctx, inc).Error(0)
}

func (m *MockStatisticsStore) ListByProgressDeck(ctx context.Context, progressDeckID uuid.UUID) ([]domain.DailyStatistic, error) {
	args := m.Called(ctx, progressDeckID)
	s, _ := args.Get(0).([]domain.DailyStatistic)
	return s, args.Error(1)
}

func (m *MockStatisticsStore) CombinedByUser(ctx context.Context, userID uuid.UUID) ([]domain.CombinedStatistic, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]domain.CombinedStatistic)
	return s, args.Error(1)
}

func (m *MockStatisticsStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.CombinedStatistic, error) {
	args := m.Called(ctx, groupID)
	s, _ := args.Get(0).([]domain.CombinedStatistic)
	return s, args.Error(1)
}

func (m *MockStatisticsStore) WithTx(*sql.Tx) store.StatisticsStore { return m }

// MockGroupStore is a mock of store.GroupStore.
type MockGroupStore struct {
	mock.Mock
}

var _ store.GroupStore = (*MockGroupStore)(nil)

func (m *MockGroupStore) Create(ctx context.Context, group *domain.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*domain.Group)
	return g, args.Error(1)
}

func (m *MockGroupStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	g, _ := args.Get(0).([]domain.Group)
	return g, args.Error(1)
}

func (m *MockGroupStore) ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.User, error) {
	args := m.Called(ctx, groupID)
	u, _ := args.Get(0).([]domain.User)
	return u, args.Error(1)
}

func (m *MockGroupStore) WithTx(*sql.Tx) store.GroupStore { return m }

// MockInvitationStore is a mock of store.InvitationStore.
type MockInvitationStore struct {
	mock.Mock
}

var _ store.InvitationStore = (*MockInvitationStore)(nil)

func (m *MockInvitationStore) Create(ctx context.Context, invitation *domain.Invitation) error {
	return m.Called(ctx, invitation).Error(0)
}

func (m *MockInvitationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*domain.Invitation)
	return i, args.Error(1)
}

func (m *MockInvitationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error) {
	args := m.Called(ctx, userID)
	i, _ := args.Get(0).([]domain.Invitation)
	return i, args.Error(1)
}

func (m *MockInvitationStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockInvitationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockInvitationStore) WithTx(*sql.Tx) store.InvitationStore { return m }
