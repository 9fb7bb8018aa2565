package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

// MockJWTService is a mock of auth.JWTService.
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID, userName string) (string, error) {
	args := m.Called(ctx, userID, userName)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID, userName string) (string, error) {
	args := m.Called(ctx, userID, userName)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func (m *MockJWTService) AccessTokenLifetime() time.Duration {
	return time.Hour
}
