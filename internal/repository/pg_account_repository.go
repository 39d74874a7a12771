package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creation-server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	getAccountByUserIDQuery = `
		SELECT user_id, plan, free_usage, created_at, updated_at
		FROM user_accounts
		WHERE user_id = $1`

	createAccountQuery = `
		INSERT INTO user_accounts (user_id, plan, free_usage, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING`

	upsertAccountPlanQuery = `
		INSERT INTO user_accounts (user_id, plan, free_usage, created_at, updated_at)
		VALUES ($1, $2, 0, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, updated_at = NOW()`

	// Инкремент применяется только к не-premium аккаунтам, одним запросом,
	// чтобы конкурентные генерации не теряли обновления счетчика.
	incrementFreeUsageQuery = `
		UPDATE user_accounts
		SET free_usage = free_usage + 1, updated_at = NOW()
		WHERE user_id = $1 AND plan <> 'premium'
		RETURNING free_usage`
)

// pgAccountRepository реализует интерфейс AccountRepository для PostgreSQL.
type pgAccountRepository struct {
	db     DBTX
	logger *zap.Logger
}

// Compile-time check
var _ AccountRepository = (*pgAccountRepository)(nil)

// NewPgAccountRepository создает новый экземпляр репозитория аккаунтов.
func NewPgAccountRepository(db DBTX, logger *zap.Logger) AccountRepository {
	return &pgAccountRepository{
		db:     db,
		logger: logger.Named("PgAccountRepo"),
	}
}

// GetByUserID возвращает аккаунт по ID пользователя.
func (r *pgAccountRepository) GetByUserID(ctx context.Context, userID string) (*models.UserAccount, error) {
	logFields := []zap.Field{zap.String("userID", userID)}
	r.logger.Debug("Getting account by user ID", logFields...)

	var account models.UserAccount
	err := r.db.QueryRow(ctx, getAccountByUserIDQuery, userID).Scan(
		&account.UserID,
		&account.Plan,
		&account.FreeUsage,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Account not found", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get account", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

// Create создает аккаунт, если его еще нет.
func (r *pgAccountRepository) Create(ctx context.Context, account *models.UserAccount) error {
	logFields := []zap.Field{
		zap.String("userID", account.UserID),
		zap.String("plan", string(account.Plan)),
		zap.Int("freeUsage", account.FreeUsage),
	}
	r.logger.Debug("Creating account record", logFields...)

	commandTag, err := r.db.Exec(ctx, createAccountQuery, account.UserID, account.Plan, account.FreeUsage)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
			r.logger.Warn("Account violates table constraints", append(logFields, zap.Error(err))...)
			return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
		}
		r.logger.Error("Failed to create account record", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create account: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		r.logger.Debug("Account already exists, insert skipped", logFields...)
		return nil
	}

	account.CreatedAt = time.Now().UTC()
	account.UpdatedAt = account.CreatedAt
	r.logger.Info("Account record created successfully", logFields...)
	return nil
}

// UpsertPlan создает аккаунт или обновляет план существующего.
// Счетчик free_usage при обновлении плана не трогаем.
func (r *pgAccountRepository) UpsertPlan(ctx context.Context, userID string, plan models.Plan) error {
	logFields := []zap.Field{
		zap.String("userID", userID),
		zap.String("plan", string(plan)),
	}
	r.logger.Debug("Upserting account plan", logFields...)

	_, err := r.db.Exec(ctx, upsertAccountPlanQuery, userID, plan)
	if err != nil {
		r.logger.Error("Failed to upsert account plan", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to upsert account plan: %w", err)
	}

	r.logger.Info("Account plan upserted successfully", logFields...)
	return nil
}

// IncrementFreeUsage атомарно увеличивает счетчик бесплатных генераций.
func (r *pgAccountRepository) IncrementFreeUsage(ctx context.Context, userID string) (int, error) {
	logFields := []zap.Field{zap.String("userID", userID)}
	r.logger.Debug("Incrementing free usage counter", logFields...)

	var freeUsage int
	err := r.db.QueryRow(ctx, incrementFreeUsageQuery, userID).Scan(&freeUsage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Аккаунт premium или отсутствует: счетчик не меняется.
			r.logger.Debug("Free usage increment skipped (premium or missing account)", logFields...)
			return 0, nil
		}
		r.logger.Error("Failed to increment free usage", append(logFields, zap.Error(err))...)
		return 0, fmt.Errorf("failed to increment free usage: %w", err)
	}

	r.logger.Debug("Free usage incremented", append(logFields, zap.Int("freeUsage", freeUsage))...)
	return freeUsage, nil
}
