package repository_test // Используем _test пакет для изоляции

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"creation-server/internal/database"
	"creation-server/internal/models"
	"creation-server/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	// Докер клиент для проверки доступности
	"github.com/docker/docker/client"
)

// RepositoryTestSuite содержит состояние интеграционных тестов репозиториев
type RepositoryTestSuite struct {
	suite.Suite
	ctx          context.Context
	pgContainer  *postgres.PostgresContainer
	pgPool       *pgxpool.Pool
	creationRepo repository.CreationRepository
	accountRepo  repository.AccountRepository
	logger       *zap.Logger
}

// SetupSuite выполняется один раз перед всеми тестами в наборе
func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")
	s.logger.Info("Setting up repository test suite...")

	// Запускаем контейнер PostgreSQL
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")
	s.logger.Info("PostgreSQL container started")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")
	s.logger.Info("Connected to test PostgreSQL")

	// Применяем миграции из встроенных SQL файлов
	err = database.ApplyMigrations(s.ctx, s.pgPool)
	require.NoError(s.T(), err, "Failed to run migrations")
	s.logger.Info("Database migrations applied")

	s.creationRepo = repository.NewPgCreationRepository(s.pgPool, s.logger)
	s.accountRepo = repository.NewPgAccountRepository(s.pgPool, s.logger)
	s.logger.Info("Test suite setup complete.")
}

// TearDownSuite выполняется один раз после всех тестов в наборе
func (s *RepositoryTestSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate postgres container", zap.Error(err))
		}
	}
}

// Перед каждым тестом очищаем таблицы БД
func (s *RepositoryTestSuite) SetupTest() {
	_, err := s.pgPool.Exec(s.ctx, "TRUNCATE TABLE creations, user_accounts")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

// newCreation создает тестовую запись с заданным смещением времени для проверки сортировки.
func newCreation(userID string, offset time.Duration, publish bool) *models.Creation {
	return &models.Creation{
		UserID:    userID,
		Prompt:    "test prompt",
		Content:   "test content",
		Type:      models.TypeArticle,
		Publish:   publish,
		CreatedAt: time.Now().UTC().Add(offset),
	}
}

func (s *RepositoryTestSuite) TestCreateAndGetCreation() {
	creation := newCreation("user_a", 0, false)

	err := s.creationRepo.Create(s.ctx, creation)
	s.Require().NoError(err)
	s.Require().NotEqual(uuid.Nil, creation.ID, "ID должен быть сгенерирован")

	fetched, err := s.creationRepo.GetByID(s.ctx, creation.ID)
	s.Require().NoError(err)
	s.Equal(creation.ID, fetched.ID)
	s.Equal("user_a", fetched.UserID)
	s.Equal("test prompt", fetched.Prompt)
	s.Equal("test content", fetched.Content)
	s.Equal(models.TypeArticle, fetched.Type)
	s.False(fetched.Publish)
	s.NotNil(fetched.Likes, "Likes не должен быть nil")
	s.Empty(fetched.Likes)
}

func (s *RepositoryTestSuite) TestGetCreationNotFound() {
	_, err := s.creationRepo.GetByID(s.ctx, uuid.New())
	s.Require().ErrorIs(err, models.ErrNotFound)
}

func (s *RepositoryTestSuite) TestListByUserOrderingAndIsolation() {
	oldest := newCreation("user_a", -2*time.Hour, false)
	newest := newCreation("user_a", 0, false)
	foreign := newCreation("user_b", -time.Hour, false)

	for _, c := range []*models.Creation{oldest, newest, foreign} {
		s.Require().NoError(s.creationRepo.Create(s.ctx, c))
	}

	creations, err := s.creationRepo.ListByUser(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Require().Len(creations, 2)
	// Новые записи идут первыми
	s.Equal(newest.ID, creations[0].ID)
	s.Equal(oldest.ID, creations[1].ID)
}

func (s *RepositoryTestSuite) TestListPublishedOnlyReturnsPublished() {
	published := newCreation("user_a", 0, true)
	private := newCreation("user_a", -time.Minute, false)
	olderPublished := newCreation("user_b", -time.Hour, true)

	for _, c := range []*models.Creation{published, private, olderPublished} {
		s.Require().NoError(s.creationRepo.Create(s.ctx, c))
	}

	creations, err := s.creationRepo.ListPublished(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(creations, 2)
	s.Equal(published.ID, creations[0].ID)
	s.Equal(olderPublished.ID, creations[1].ID)
}

func (s *RepositoryTestSuite) TestToggleLike() {
	creation := newCreation("user_a", 0, true)
	s.Require().NoError(s.creationRepo.Create(s.ctx, creation))

	// Первый вызов добавляет лайк
	liked, likes, err := s.creationRepo.ToggleLike(s.ctx, creation.ID, "user_b")
	s.Require().NoError(err)
	s.True(liked)
	s.Equal([]string{"user_b"}, likes)

	// Повторный вызов снимает лайк
	liked, likes, err = s.creationRepo.ToggleLike(s.ctx, creation.ID, "user_b")
	s.Require().NoError(err)
	s.False(liked)
	s.Empty(likes)
}

func (s *RepositoryTestSuite) TestToggleLikeNotFound() {
	_, _, err := s.creationRepo.ToggleLike(s.ctx, uuid.New(), "user_a")
	s.Require().ErrorIs(err, models.ErrNotFound)
}

// TestToggleLikeConcurrent проверяет, что одновременные лайки разных
// пользователей не теряются (строка блокируется через FOR UPDATE).
func (s *RepositoryTestSuite) TestToggleLikeConcurrent() {
	creation := newCreation("user_a", 0, true)
	s.Require().NoError(s.creationRepo.Create(s.ctx, creation))

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, err := s.creationRepo.ToggleLike(s.ctx, creation.ID, fmt.Sprintf("user_%d", n))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	fetched, err := s.creationRepo.GetByID(s.ctx, creation.ID)
	s.Require().NoError(err)
	s.Len(fetched.Likes, workers, "Все лайки должны сохраниться")
}

func (s *RepositoryTestSuite) TestAccountLifecycle() {
	_, err := s.accountRepo.GetByUserID(s.ctx, "user_a")
	s.Require().ErrorIs(err, models.ErrNotFound)

	account := &models.UserAccount{UserID: "user_a", Plan: models.PlanFree, FreeUsage: 2}
	s.Require().NoError(s.accountRepo.Create(s.ctx, account))

	fetched, err := s.accountRepo.GetByUserID(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Equal(models.PlanFree, fetched.Plan)
	s.Equal(2, fetched.FreeUsage)

	// Повторное создание не перетирает существующую строку
	duplicate := &models.UserAccount{UserID: "user_a", Plan: models.PlanPremium, FreeUsage: 0}
	s.Require().NoError(s.accountRepo.Create(s.ctx, duplicate))

	fetched, err = s.accountRepo.GetByUserID(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Equal(models.PlanFree, fetched.Plan, "ON CONFLICT DO NOTHING не должен менять план")
	s.Equal(2, fetched.FreeUsage)
}

func (s *RepositoryTestSuite) TestUpsertPlan() {
	// Создает аккаунт, если его не было
	s.Require().NoError(s.accountRepo.UpsertPlan(s.ctx, "user_a", models.PlanPremium))

	fetched, err := s.accountRepo.GetByUserID(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Equal(models.PlanPremium, fetched.Plan)

	// Понижение плана сохраняет счетчик
	_, err = s.pgPool.Exec(s.ctx, "UPDATE user_accounts SET free_usage = 7 WHERE user_id = $1", "user_a")
	s.Require().NoError(err)

	s.Require().NoError(s.accountRepo.UpsertPlan(s.ctx, "user_a", models.PlanFree))

	fetched, err = s.accountRepo.GetByUserID(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Equal(models.PlanFree, fetched.Plan)
	s.Equal(7, fetched.FreeUsage, "Смена плана не должна трогать счетчик")
}

func (s *RepositoryTestSuite) TestIncrementFreeUsage() {
	account := &models.UserAccount{UserID: "user_a", Plan: models.PlanFree, FreeUsage: 0}
	s.Require().NoError(s.accountRepo.Create(s.ctx, account))

	freeUsage, err := s.accountRepo.IncrementFreeUsage(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Equal(1, freeUsage)

	freeUsage, err = s.accountRepo.IncrementFreeUsage(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Equal(2, freeUsage)
}

func (s *RepositoryTestSuite) TestIncrementFreeUsagePremiumNoop() {
	account := &models.UserAccount{UserID: "user_p", Plan: models.PlanPremium, FreeUsage: 0}
	s.Require().NoError(s.accountRepo.Create(s.ctx, account))

	freeUsage, err := s.accountRepo.IncrementFreeUsage(s.ctx, "user_p")
	s.Require().NoError(err)
	s.Equal(0, freeUsage, "Premium аккаунт не тратит квоту")

	fetched, err := s.accountRepo.GetByUserID(s.ctx, "user_p")
	s.Require().NoError(err)
	s.Equal(0, fetched.FreeUsage)
}

// TestIncrementFreeUsageConcurrent проверяет, что конкурентные генерации
// не теряют обновления счетчика (инкремент одним UPDATE).
func (s *RepositoryTestSuite) TestIncrementFreeUsageConcurrent() {
	account := &models.UserAccount{UserID: "user_a", Plan: models.PlanFree, FreeUsage: 0}
	s.Require().NoError(s.accountRepo.Create(s.ctx, account))

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.accountRepo.IncrementFreeUsage(s.ctx, "user_a")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	fetched, err := s.accountRepo.GetByUserID(s.ctx, "user_a")
	s.Require().NoError(err)
	s.Equal(workers, fetched.FreeUsage)
}

// TestRepositoryTestSuite запускает набор тестов
func TestRepositoryTestSuite(t *testing.T) {
	// Пропускаем тесты, если запущены с флагом -short
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	// Проверяем доступность Docker перед запуском
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(RepositoryTestSuite))
}
