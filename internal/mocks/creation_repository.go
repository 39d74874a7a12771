package mocks

import (
	"context"

	"creation-server/internal/models"
	"creation-server/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock CreationRepository
type CreationRepository struct {
	mock.Mock
}

func (m *CreationRepository) Create(ctx context.Context, creation *models.Creation) error {
	args := m.Called(ctx, creation)
	return args.Error(0)
}

func (m *CreationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Creation, error) {
	args := m.Called(ctx, id)
	creation, _ := args.Get(0).(*models.Creation)
	return creation, args.Error(1)
}

func (m *CreationRepository) ListByUser(ctx context.Context, userID string) ([]models.Creation, error) {
	args := m.Called(ctx, userID)
	creations, _ := args.Get(0).([]models.Creation)
	return creations, args.Error(1)
}

func (m *CreationRepository) ListPublished(ctx context.Context) ([]models.Creation, error) {
	args := m.Called(ctx)
	creations, _ := args.Get(0).([]models.Creation)
	return creations, args.Error(1)
}

func (m *CreationRepository) ToggleLike(ctx context.Context, id uuid.UUID, userID string) (bool, []string, error) {
	args := m.Called(ctx, id, userID)
	likes, _ := args.Get(1).([]string)
	return args.Bool(0), likes, args.Error(2)
}

var _ repository.CreationRepository = (*CreationRepository)(nil)
