package mocks

import (
	"context"

	"creation-server/internal/models"
	"creation-server/internal/service"

	"github.com/stretchr/testify/mock"
)

// Mock AccountService
type AccountService struct {
	mock.Mock
}

func (m *AccountService) GetOrProvision(ctx context.Context, userID string) (*models.UserAccount, error) {
	args := m.Called(ctx, userID)
	account, _ := args.Get(0).(*models.UserAccount)
	return account, args.Error(1)
}

func (m *AccountService) SyncPlan(ctx context.Context, userID string, plan models.Plan) error {
	args := m.Called(ctx, userID, plan)
	return args.Error(0)
}

func (m *AccountService) AdvanceUsage(ctx context.Context, account *models.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

var _ service.AccountService = (*AccountService)(nil)
