package service

import (
	"context"
	"errors"
	"fmt"

	"creation-server/internal/clients"
	"creation-server/internal/models"
	"creation-server/internal/repository"

	"go.uber.org/zap"
)

// AccountService управляет аккаунтами пользователей: планом подписки и
// счетчиком бесплатных генераций. Счетчик принадлежит этому сервису;
// identity-провайдер используется только для первичного заполнения плана.
//
//go:generate mockery --name AccountService --output ../mocks --outpkg mocks --case=underscore
type AccountService interface {
	// GetOrProvision возвращает аккаунт, создавая его при первом обращении.
	// Начальный план берется из метаданных identity-провайдера.
	GetOrProvision(ctx context.Context, userID string) (*models.UserAccount, error)

	// SyncPlan обновляет план аккаунта (вызывается вебхуком identity-провайдера).
	SyncPlan(ctx context.Context, userID string, plan models.Plan) error

	// AdvanceUsage продвигает счетчик бесплатных генераций после успешной операции.
	// Для premium-аккаунтов это no-op.
	AdvanceUsage(ctx context.Context, account *models.UserAccount) error
}

type accountServiceImpl struct {
	repo     repository.AccountRepository
	identity clients.IdentityClient
	logger   *zap.Logger
}

// Compile-time check
var _ AccountService = (*accountServiceImpl)(nil)

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(repo repository.AccountRepository, identity clients.IdentityClient, logger *zap.Logger) AccountService {
	return &accountServiceImpl{
		repo:     repo,
		identity: identity,
		logger:   logger.Named("AccountService"),
	}
}

// GetOrProvision возвращает аккаунт, лениво создавая его при первом обращении.
func (s *accountServiceImpl) GetOrProvision(ctx context.Context, userID string) (*models.UserAccount, error) {
	log := s.logger.With(zap.String("userID", userID))

	account, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		log.Error("Failed to get account", zap.Error(err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	// Аккаунта еще нет: заполняем начальное состояние из identity-провайдера.
	log.Info("Account not found, provisioning from identity provider")
	plan := models.PlanFree
	freeUsage := 0

	user, err := s.identity.GetUser(ctx, userID)
	switch {
	case err == nil:
		plan = models.ResolvePlan(user.PrivateMetadata, user.PublicMetadata)
		freeUsage = models.ResolveFreeUsage(user.PrivateMetadata)
	case errors.Is(err, models.ErrNotFound):
		// Провайдер не знает пользователя: стартуем с бесплатного плана.
		log.Warn("User unknown to identity provider, provisioning free account")
	default:
		log.Error("Failed to fetch user from identity provider", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch user from identity provider: %w", err)
	}

	newAccount := &models.UserAccount{
		UserID:    userID,
		Plan:      plan,
		FreeUsage: freeUsage,
	}
	if err := s.repo.Create(ctx, newAccount); err != nil {
		log.Error("Failed to create account", zap.Error(err))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Перечитываем строку: при гонке ON CONFLICT DO NOTHING мог победить
	// конкурентный запрос, и авторитетное состояние лежит в БД.
	account, err = s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Error("Failed to re-read provisioned account", zap.Error(err))
		return nil, fmt.Errorf("failed to re-read provisioned account: %w", err)
	}

	log.Info("Account provisioned",
		zap.String("plan", string(account.Plan)),
		zap.Int("freeUsage", account.FreeUsage),
	)
	return account, nil
}

// SyncPlan обновляет план аккаунта по событию от identity-провайдера.
func (s *accountServiceImpl) SyncPlan(ctx context.Context, userID string, plan models.Plan) error {
	log := s.logger.With(zap.String("userID", userID), zap.String("plan", string(plan)))

	if err := s.repo.UpsertPlan(ctx, userID, plan); err != nil {
		log.Error("Failed to sync account plan", zap.Error(err))
		return fmt.Errorf("failed to sync account plan: %w", err)
	}

	log.Info("Account plan synced")
	return nil
}

// AdvanceUsage продвигает счетчик бесплатных генераций после успешной операции.
func (s *accountServiceImpl) AdvanceUsage(ctx context.Context, account *models.UserAccount) error {
	if account.Plan == models.PlanPremium {
		// Premium-аккаунты не тратят бесплатную квоту.
		return nil
	}

	freeUsage, err := s.repo.IncrementFreeUsage(ctx, account.UserID)
	if err != nil {
		s.logger.Error("Failed to advance free usage counter",
			zap.String("userID", account.UserID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to advance free usage counter: %w", err)
	}

	if freeUsage > 0 {
		account.FreeUsage = freeUsage
	}
	return nil
}
