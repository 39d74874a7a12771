package mocks

import (
	"context"

	"creation-server/internal/cache"
	"creation-server/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock FeedCache
type FeedCache struct {
	mock.Mock
}

func (m *FeedCache) GetPublished(ctx context.Context) ([]models.Creation, error) {
	args := m.Called(ctx)
	creations, _ := args.Get(0).([]models.Creation)
	return creations, args.Error(1)
}

func (m *FeedCache) SetPublished(ctx context.Context, creations []models.Creation) error {
	args := m.Called(ctx, creations)
	return args.Error(0)
}

func (m *FeedCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ cache.FeedCache = (*FeedCache)(nil)
