package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creation-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	createCreationQuery = `
		INSERT INTO creations (id, user_id, prompt, content, type, publish, likes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getCreationByIDQuery = `
		SELECT id, user_id, prompt, content, type, publish, likes, created_at
		FROM creations
		WHERE id = $1`

	listCreationsByUserQuery = `
		SELECT id, user_id, prompt, content, type, publish, likes, created_at
		FROM creations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	listPublishedCreationsQuery = `
		SELECT id, user_id, prompt, content, type, publish, likes, created_at
		FROM creations
		WHERE publish = TRUE
		ORDER BY created_at DESC`

	selectLikesForUpdateQuery = `
		SELECT likes
		FROM creations
		WHERE id = $1
		FOR UPDATE`

	updateLikesQuery = `
		UPDATE creations
		SET likes = $2
		WHERE id = $1`
)

// pgCreationRepository реализует интерфейс CreationRepository для PostgreSQL.
type pgCreationRepository struct {
	db     DBTX // Can be *pgxpool.Pool or pgx.Tx
	logger *zap.Logger
}

// Compile-time check
var _ CreationRepository = (*pgCreationRepository)(nil)

// NewPgCreationRepository создает новый экземпляр репозитория генераций.
func NewPgCreationRepository(db DBTX, logger *zap.Logger) CreationRepository {
	return &pgCreationRepository{
		db:     db,
		logger: logger.Named("PgCreationRepo"),
	}
}

// Create сохраняет новую запись о генерации.
func (r *pgCreationRepository) Create(ctx context.Context, creation *models.Creation) error {
	if creation.ID == uuid.Nil {
		creation.ID = uuid.New()
	}
	if creation.CreatedAt.IsZero() {
		creation.CreatedAt = time.Now().UTC()
	}
	if creation.Likes == nil {
		creation.Likes = []string{}
	}

	logFields := []zap.Field{
		zap.String("creationID", creation.ID.String()),
		zap.String("userID", creation.UserID),
		zap.String("type", string(creation.Type)),
	}
	r.logger.Debug("Creating creation record", logFields...)

	_, err := r.db.Exec(ctx, createCreationQuery,
		creation.ID,
		creation.UserID,
		creation.Prompt,
		creation.Content,
		creation.Type,
		creation.Publish,
		creation.Likes,
		creation.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create creation record", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create creation: %w", err)
	}

	r.logger.Info("Creation record created successfully", logFields...)
	return nil
}

// GetByID возвращает запись по ее ID.
func (r *pgCreationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Creation, error) {
	logFields := []zap.Field{zap.String("creationID", id.String())}
	r.logger.Debug("Getting creation by ID", logFields...)

	var creation models.Creation
	err := r.db.QueryRow(ctx, getCreationByIDQuery, id).Scan(
		&creation.ID,
		&creation.UserID,
		&creation.Prompt,
		&creation.Content,
		&creation.Type,
		&creation.Publish,
		&creation.Likes,
		&creation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Creation not found", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get creation by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get creation: %w", err)
	}

	return &creation, nil
}

// ListByUser возвращает все записи пользователя, новые первыми.
func (r *pgCreationRepository) ListByUser(ctx context.Context, userID string) ([]models.Creation, error) {
	logFields := []zap.Field{zap.String("userID", userID)}
	r.logger.Debug("Listing creations by user", logFields...)

	rows, err := r.db.Query(ctx, listCreationsByUserQuery, userID)
	if err != nil {
		r.logger.Error("Failed to query user creations", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to list user creations: %w", err)
	}
	defer rows.Close()

	creations, err := scanCreations(rows)
	if err != nil {
		r.logger.Error("Failed to scan user creations", append(logFields, zap.Error(err))...)
		return nil, err
	}

	r.logger.Debug("User creations listed", append(logFields, zap.Int("count", len(creations)))...)
	return creations, nil
}

// ListPublished возвращает все опубликованные записи, новые первыми.
func (r *pgCreationRepository) ListPublished(ctx context.Context) ([]models.Creation, error) {
	r.logger.Debug("Listing published creations")

	rows, err := r.db.Query(ctx, listPublishedCreationsQuery)
	if err != nil {
		r.logger.Error("Failed to query published creations", zap.Error(err))
		return nil, fmt.Errorf("failed to list published creations: %w", err)
	}
	defer rows.Close()

	creations, err := scanCreations(rows)
	if err != nil {
		r.logger.Error("Failed to scan published creations", zap.Error(err))
		return nil, err
	}

	r.logger.Debug("Published creations listed", zap.Int("count", len(creations)))
	return creations, nil
}

// ToggleLike атомарно переключает лайк пользователя на записи.
// Выполняется в транзакции: строка блокируется через SELECT ... FOR UPDATE,
// чтобы одновременные переключения не теряли чужие лайки.
func (r *pgCreationRepository) ToggleLike(ctx context.Context, id uuid.UUID, userID string) (bool, []string, error) {
	logFields := []zap.Field{
		zap.String("creationID", id.String()),
		zap.String("userID", userID),
	}
	r.logger.Debug("Toggling like", logFields...)

	pool, ok := r.db.(*pgxpool.Pool)
	if !ok {
		r.logger.Error("r.db is not *pgxpool.Pool, cannot begin transaction for like toggle", logFields...)
		return false, nil, fmt.Errorf("внутренняя ошибка: невозможно начать транзакцию (неверный тип DBTX)")
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction for like toggle", append(logFields, zap.Error(err))...)
		return false, nil, fmt.Errorf("ошибка начала транзакции для лайка: %w", err)
	}
	defer tx.Rollback(ctx) // Откат по умолчанию

	var likes []string
	err = tx.QueryRow(ctx, selectLikesForUpdateQuery, id).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Creation not found for like toggle", logFields...)
			return false, nil, models.ErrNotFound
		}
		r.logger.Error("Failed to lock creation row for like toggle", append(logFields, zap.Error(err))...)
		return false, nil, fmt.Errorf("ошибка блокировки записи для лайка: %w", err)
	}

	newLikes, liked := models.ToggleLike(likes, userID)

	if _, err := tx.Exec(ctx, updateLikesQuery, id, newLikes); err != nil {
		r.logger.Error("Failed to update likes", append(logFields, zap.Error(err))...)
		return false, nil, fmt.Errorf("ошибка обновления лайков: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit like toggle transaction", append(logFields, zap.Error(err))...)
		return false, nil, fmt.Errorf("ошибка коммита транзакции для лайка: %w", err)
	}

	r.logger.Info("Like toggled successfully", append(logFields, zap.Bool("liked", liked))...)
	return liked, newLikes, nil
}

// scanCreations читает строки результата в срез моделей.
func scanCreations(rows pgx.Rows) ([]models.Creation, error) {
	creations := make([]models.Creation, 0)
	for rows.Next() {
		var c models.Creation
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Prompt,
			&c.Content,
			&c.Type,
			&c.Publish,
			&c.Likes,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan creation row: %w", err)
		}
		creations = append(creations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating creation rows: %w", err)
	}
	return creations, nil
}
