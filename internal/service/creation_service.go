package service

import (
	"context"
	"errors"
	"fmt"

	"creation-server/internal/cache"
	"creation-server/internal/messaging"
	"creation-server/internal/models"
	"creation-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Сообщения, возвращаемые при переключении лайка.
const (
	likedMessage   = "Creation Liked"
	unlikedMessage = "Creation Unliked"
)

// CreationService реализует чтение лент и переключение лайков.
//
//go:generate mockery --name CreationService --output ../mocks --outpkg mocks --case=underscore
type CreationService interface {
	// ListUserCreations возвращает все записи пользователя, новые первыми.
	ListUserCreations(ctx context.Context, userID string) ([]models.Creation, error)

	// ListPublished возвращает опубликованные записи, новые первыми.
	// Результат кэшируется с коротким TTL.
	ListPublished(ctx context.Context) ([]models.Creation, error)

	// ToggleLike переключает лайк пользователя на записи.
	// Возвращает человекочитаемое сообщение и итоговый список лайков.
	// Возвращает models.ErrNotFound, если записи нет.
	ToggleLike(ctx context.Context, userID string, creationID uuid.UUID) (message string, likes []string, err error)
}

type creationServiceImpl struct {
	repo      repository.CreationRepository
	feedCache cache.FeedCache
	events    messaging.CreationEventPublisher
	logger    *zap.Logger
}

// Compile-time check
var _ CreationService = (*creationServiceImpl)(nil)

// NewCreationService создает новый экземпляр CreationService.
func NewCreationService(
	repo repository.CreationRepository,
	feedCache cache.FeedCache,
	events messaging.CreationEventPublisher,
	logger *zap.Logger,
) CreationService {
	return &creationServiceImpl{
		repo:      repo,
		feedCache: feedCache,
		events:    events,
		logger:    logger.Named("CreationService"),
	}
}

// ListUserCreations возвращает все записи пользователя.
func (s *creationServiceImpl) ListUserCreations(ctx context.Context, userID string) ([]models.Creation, error) {
	creations, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list user creations", zap.String("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list user creations: %w", err)
	}
	return creations, nil
}

// ListPublished возвращает опубликованные записи, используя кэш ленты.
func (s *creationServiceImpl) ListPublished(ctx context.Context) ([]models.Creation, error) {
	if s.feedCache != nil {
		cached, err := s.feedCache.GetPublished(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			// Ошибка Redis не фатальна: считаем промахом и идем в БД.
			s.logger.Warn("Published feed cache unavailable, falling back to DB", zap.Error(err))
		}
	}

	creations, err := s.repo.ListPublished(ctx)
	if err != nil {
		s.logger.Error("Failed to list published creations", zap.Error(err))
		return nil, fmt.Errorf("failed to list published creations: %w", err)
	}

	if s.feedCache != nil {
		if err := s.feedCache.SetPublished(ctx, creations); err != nil {
			s.logger.Warn("Failed to cache published feed", zap.Error(err))
		}
	}

	return creations, nil
}

// ToggleLike переключает лайк пользователя на записи.
func (s *creationServiceImpl) ToggleLike(ctx context.Context, userID string, creationID uuid.UUID) (string, []string, error) {
	logFields := []zap.Field{
		zap.String("userID", userID),
		zap.String("creationID", creationID.String()),
	}

	liked, likes, err := s.repo.ToggleLike(ctx, creationID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Creation not found for like toggle", logFields...)
			return "", nil, models.ErrNotFound
		}
		s.logger.Error("Failed to toggle like", append(logFields, zap.Error(err))...)
		return "", nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	message := unlikedMessage
	event := messaging.EventCreationUnliked
	if liked {
		message = likedMessage
		event = messaging.EventCreationLiked
	}

	if s.events != nil {
		if err := s.events.PublishCreationEvent(ctx, messaging.CreationEventPayload{
			Event:      event,
			CreationID: creationID.String(),
			UserID:     userID,
		}); err != nil {
			s.logger.Warn("Failed to publish like event", append(logFields, zap.Error(err))...)
		}
	}

	// Лайки видны в публичной ленте, сбрасываем кэш.
	if s.feedCache != nil {
		if err := s.feedCache.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate published feed cache", append(logFields, zap.Error(err))...)
		}
	}

	s.logger.Info("Like toggled", append(logFields, zap.Bool("liked", liked))...)
	return message, likes, nil
}
