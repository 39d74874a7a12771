package mocks

import (
	"context"

	"creation-server/internal/models"
	"creation-server/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock CreationService
type CreationService struct {
	mock.Mock
}

func (m *CreationService) ListUserCreations(ctx context.Context, userID string) ([]models.Creation, error) {
	args := m.Called(ctx, userID)
	creations, _ := args.Get(0).([]models.Creation)
	return creations, args.Error(1)
}

func (m *CreationService) ListPublished(ctx context.Context) ([]models.Creation, error) {
	args := m.Called(ctx)
	creations, _ := args.Get(0).([]models.Creation)
	return creations, args.Error(1)
}

func (m *CreationService) ToggleLike(ctx context.Context, userID string, creationID uuid.UUID) (string, []string, error) {
	args := m.Called(ctx, userID, creationID)
	likes, _ := args.Get(1).([]string)
	return args.String(0), likes, args.Error(2)
}

var _ service.CreationService = (*CreationService)(nil)
