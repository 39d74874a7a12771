package mocks

import (
	"context"

	"creation-server/internal/messaging"

	"github.com/stretchr/testify/mock"
)

// Mock CreationEventPublisher
type CreationEventPublisher struct {
	mock.Mock
}

func (m *CreationEventPublisher) PublishCreationEvent(ctx context.Context, payload messaging.CreationEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

var _ messaging.CreationEventPublisher = (*CreationEventPublisher)(nil)
