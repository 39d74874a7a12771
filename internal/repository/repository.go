package repository

import (
	"context"

	"creation-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX абстрагирует исполнителя запросов: может быть *pgxpool.Pool или pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreationRepository определяет методы для работы с сохраненными результатами генерации.
//
//go:generate mockery --name CreationRepository --output ../mocks --outpkg mocks --case=underscore
type CreationRepository interface {
	// Create сохраняет новую запись. Если ID не задан, генерируется новый.
	Create(ctx context.Context, creation *models.Creation) error

	// GetByID возвращает запись по ID.
	// Возвращает models.ErrNotFound, если записи нет.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Creation, error)

	// ListByUser возвращает все записи пользователя, новые первыми.
	ListByUser(ctx context.Context, userID string) ([]models.Creation, error)

	// ListPublished возвращает все опубликованные записи, новые первыми.
	ListPublished(ctx context.Context) ([]models.Creation, error)

	// ToggleLike атомарно переключает лайк пользователя на записи.
	// Возвращает liked=true, если лайк был добавлен, и итоговый список лайков.
	// Возвращает models.ErrNotFound, если записи нет.
	ToggleLike(ctx context.Context, id uuid.UUID, userID string) (liked bool, likes []string, err error)
}

// AccountRepository определяет методы для работы с аккаунтами пользователей
// (план подписки и счетчик бесплатных генераций).
//
//go:generate mockery --name AccountRepository --output ../mocks --outpkg mocks --case=underscore
type AccountRepository interface {
	// GetByUserID возвращает аккаунт по ID пользователя.
	// Возвращает models.ErrNotFound, если аккаунта нет.
	GetByUserID(ctx context.Context, userID string) (*models.UserAccount, error)

	// Create создает аккаунт, если его еще нет (ON CONFLICT DO NOTHING).
	Create(ctx context.Context, account *models.UserAccount) error

	// UpsertPlan создает аккаунт или обновляет план существующего.
	UpsertPlan(ctx context.Context, userID string, plan models.Plan) error

	// IncrementFreeUsage атомарно увеличивает счетчик бесплатных генераций.
	// Инкремент применяется только к аккаунтам без premium-плана; для premium
	// это no-op. Возвращает итоговое значение счетчика (0 для premium).
	IncrementFreeUsage(ctx context.Context, userID string) (int, error)
}
