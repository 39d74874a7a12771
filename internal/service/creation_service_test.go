package service_test

import (
	"context"
	"errors"
	"testing"

	"creation-server/internal/messaging"
	"creation-server/internal/mocks"
	"creation-server/internal/models"
	"creation-server/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestListUserCreations(t *testing.T) {
	ctx := context.Background()
	userID := "user_123"

	t.Run("Returns user creations from repository", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		svc := service.NewCreationService(mockRepo, nil, nil, zap.NewNop())
		expected := []models.Creation{
			{ID: uuid.New(), UserID: userID, Type: models.TypeArticle},
			{ID: uuid.New(), UserID: userID, Type: models.TypeImage},
		}

		mockRepo.On("ListByUser", ctx, userID).Return(expected, nil).Once()

		creations, err := svc.ListUserCreations(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, expected, creations)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Propagates repository error", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		svc := service.NewCreationService(mockRepo, nil, nil, zap.NewNop())

		mockRepo.On("ListByUser", ctx, userID).Return(nil, errors.New("db down")).Once()

		creations, err := svc.ListUserCreations(ctx, userID)

		assert.Error(t, err)
		assert.Nil(t, creations)
	})
}

func TestListPublished(t *testing.T) {
	ctx := context.Background()
	published := []models.Creation{
		{ID: uuid.New(), Type: models.TypeImage, Publish: true},
	}

	t.Run("Cache hit skips the database", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		mockCache := new(mocks.FeedCache)
		svc := service.NewCreationService(mockRepo, mockCache, nil, zap.NewNop())

		mockCache.On("GetPublished", ctx).Return(published, nil).Once()

		creations, err := svc.ListPublished(ctx)

		assert.NoError(t, err)
		assert.Equal(t, published, creations)
		mockRepo.AssertNotCalled(t, "ListPublished", mock.Anything)
	})

	t.Run("Cache miss falls through to the database and repopulates", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		mockCache := new(mocks.FeedCache)
		svc := service.NewCreationService(mockRepo, mockCache, nil, zap.NewNop())

		mockCache.On("GetPublished", ctx).Return(nil, models.ErrNotFound).Once()
		mockRepo.On("ListPublished", ctx).Return(published, nil).Once()
		mockCache.On("SetPublished", ctx, published).Return(nil).Once()

		creations, err := svc.ListPublished(ctx)

		assert.NoError(t, err)
		assert.Equal(t, published, creations)
		mockRepo.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Redis failure is treated as a cache miss", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		mockCache := new(mocks.FeedCache)
		svc := service.NewCreationService(mockRepo, mockCache, nil, zap.NewNop())

		mockCache.On("GetPublished", ctx).Return(nil, errors.New("redis down")).Once()
		mockRepo.On("ListPublished", ctx).Return(published, nil).Once()
		mockCache.On("SetPublished", ctx, published).Return(errors.New("redis down")).Once()

		creations, err := svc.ListPublished(ctx)

		// Ошибка кэша не фатальна, лента отдается из БД.
		assert.NoError(t, err)
		assert.Equal(t, published, creations)
	})
}

func TestToggleLikeService(t *testing.T) {
	ctx := context.Background()
	userID := "user_123"
	creationID := uuid.New()

	t.Run("Like added returns liked message and publishes event", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		mockCache := new(mocks.FeedCache)
		mockEvents := new(mocks.CreationEventPublisher)
		svc := service.NewCreationService(mockRepo, mockCache, mockEvents, zap.NewNop())
		newLikes := []string{"user_a", userID}

		mockRepo.On("ToggleLike", ctx, creationID, userID).Return(true, newLikes, nil).Once()
		mockEvents.On("PublishCreationEvent", ctx, mock.MatchedBy(func(p messaging.CreationEventPayload) bool {
			return p.Event == messaging.EventCreationLiked && p.CreationID == creationID.String() && p.UserID == userID
		})).Return(nil).Once()
		mockCache.On("Invalidate", ctx).Return(nil).Once()

		message, likes, err := svc.ToggleLike(ctx, userID, creationID)

		assert.NoError(t, err)
		assert.Equal(t, "Creation Liked", message)
		assert.Equal(t, newLikes, likes)
		mockRepo.AssertExpectations(t)
		mockEvents.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("Like removed returns unliked message", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		mockCache := new(mocks.FeedCache)
		mockEvents := new(mocks.CreationEventPublisher)
		svc := service.NewCreationService(mockRepo, mockCache, mockEvents, zap.NewNop())

		mockRepo.On("ToggleLike", ctx, creationID, userID).Return(false, []string{"user_a"}, nil).Once()
		mockEvents.On("PublishCreationEvent", ctx, mock.MatchedBy(func(p messaging.CreationEventPayload) bool {
			return p.Event == messaging.EventCreationUnliked
		})).Return(nil).Once()
		mockCache.On("Invalidate", ctx).Return(nil).Once()

		message, likes, err := svc.ToggleLike(ctx, userID, creationID)

		assert.NoError(t, err)
		assert.Equal(t, "Creation Unliked", message)
		assert.Equal(t, []string{"user_a"}, likes)
	})

	t.Run("Missing creation returns not found", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		mockEvents := new(mocks.CreationEventPublisher)
		svc := service.NewCreationService(mockRepo, nil, mockEvents, zap.NewNop())

		mockRepo.On("ToggleLike", ctx, creationID, userID).Return(false, nil, models.ErrNotFound).Once()

		message, likes, err := svc.ToggleLike(ctx, userID, creationID)

		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, message)
		assert.Nil(t, likes)
		mockEvents.AssertNotCalled(t, "PublishCreationEvent", mock.Anything, mock.Anything)
	})

	t.Run("Event failure does not fail the toggle", func(t *testing.T) {
		mockRepo := new(mocks.CreationRepository)
		mockCache := new(mocks.FeedCache)
		mockEvents := new(mocks.CreationEventPublisher)
		svc := service.NewCreationService(mockRepo, mockCache, mockEvents, zap.NewNop())

		mockRepo.On("ToggleLike", ctx, creationID, userID).Return(true, []string{userID}, nil).Once()
		mockEvents.On("PublishCreationEvent", ctx, mock.Anything).Return(errors.New("broker down")).Once()
		mockCache.On("Invalidate", ctx).Return(nil).Once()

		message, _, err := svc.ToggleLike(ctx, userID, creationID)

		assert.NoError(t, err)
		assert.Equal(t, "Creation Liked", message)
	})
}
