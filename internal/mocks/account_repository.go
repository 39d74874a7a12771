package mocks

import (
	"context"

	"creation-server/internal/models"
	"creation-server/internal/repository"

	"github.com/stretchr/testify/mock"
)

// Mock AccountRepository
type AccountRepository struct {
	mock.Mock
}

func (m *AccountRepository) GetByUserID(ctx context.Context, userID string) (*models.UserAccount, error) {
	args := m.Called(ctx, userID)
	account, _ := args.Get(0).(*models.UserAccount)
	return account, args.Error(1)
}

func (m *AccountRepository) Create(ctx context.Context, account *models.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepository) UpsertPlan(ctx context.Context, userID string, plan models.Plan) error {
	args := m.Called(ctx, userID, plan)
	return args.Error(0)
}

func (m *AccountRepository) IncrementFreeUsage(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
