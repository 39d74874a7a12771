package mocks

import (
	"context"

	"creation-server/internal/clients"

	"github.com/stretchr/testify/mock"
)

// IdentityClient is a mock type for the IdentityClient type
type IdentityClient struct {
	mock.Mock
}

func (m *IdentityClient) GetUser(ctx context.Context, userID string) (*clients.IdentityUser, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*clients.IdentityUser)
	return user, args.Error(1)
}

var _ clients.IdentityClient = (*IdentityClient)(nil)
