package mocks

import (
	"context"

	"creation-server/internal/service"

	"github.com/stretchr/testify/mock"
)

// AIClient is a mock type for the AIClient type
type AIClient struct {
	mock.Mock
}

func (m *AIClient) GenerateText(ctx context.Context, userID string, prompt string, params service.GenerationParams) (string, error) {
	args := m.Called(ctx, userID, prompt, params)
	return args.String(0), args.Error(1)
}

var _ service.AIClient = (*AIClient)(nil)
