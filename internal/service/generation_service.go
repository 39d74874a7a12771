package service

import (
	"context"
	"fmt"
	"strings"

	"creation-server/internal/cache"
	"creation-server/internal/clients"
	"creation-server/internal/messaging"
	"creation-server/internal/models"
	"creation-server/internal/repository"

	"go.uber.org/zap"
)

const (
	// defaultArticleMaxTokens используется, если клиент не передал длину статьи.
	defaultArticleMaxTokens = 800
	blogTitleMaxTokens      = 100
	resumeReviewMaxTokens   = 1000
)

// Промпты, сохраняемые вместо пользовательского ввода для файловых операций.
const (
	backgroundRemovalPrompt = "Remove background from image"
	resumeReviewPrompt      = "Review the uploaded resume"
)

// resumeReviewPromptTemplate - промпт для AI ревью резюме. Текст резюме подставляется в конец.
const resumeReviewPromptTemplate = `Review the following resume and provide a detailed, constructive evaluation. Highlight its strengths,
weaknesses, and areas for improvement. Offer actionable suggestions for making it more effective, clear, and professional.
Please organize your feedback in sections for readability. Resume Content

%s`

// GenerationService реализует операции генерации контента.
// Общий порядок каждой операции: авторизация по плану/квоте, вызов внешнего
// генератора, сохранение результата, продвижение счетчика. При ошибке
// генератора ничего не сохраняется и счетчик не двигается.
//
//go:generate mockery --name GenerationService --output ../mocks --outpkg mocks --case=underscore
type GenerationService interface {
	// GenerateArticle генерирует статью по промпту. Доступно бесплатному тарифу в пределах квоты.
	GenerateArticle(ctx context.Context, userID, prompt string, length int) (*models.Creation, error)

	// GenerateBlogTitle генерирует заголовок блога по промпту. Доступно бесплатному тарифу в пределах квоты.
	GenerateBlogTitle(ctx context.Context, userID, prompt string) (*models.Creation, error)

	// GenerateImage генерирует изображение по промпту. Только premium.
	GenerateImage(ctx context.Context, userID, prompt string, publish bool) (*models.Creation, error)

	// RemoveBackground удаляет фон с загруженного изображения. Только premium.
	RemoveBackground(ctx context.Context, userID string, image []byte, fileName string) (*models.Creation, error)

	// RemoveObject удаляет указанный объект с загруженного изображения. Только premium.
	// object должен быть одним словом.
	RemoveObject(ctx context.Context, userID string, image []byte, fileName, object string) (*models.Creation, error)

	// ReviewResume делает AI-ревью загруженного PDF резюме. Только premium.
	ReviewResume(ctx context.Context, userID string, resume []byte) (*models.Creation, error)
}

type generationServiceImpl struct {
	accounts       AccountService
	creations      repository.CreationRepository
	ai             AIClient
	media          clients.MediaClient
	events         messaging.CreationEventPublisher
	feedCache      cache.FeedCache
	freeUsageLimit int
	maxResumeSize  int64
	logger         *zap.Logger
}

// Compile-time check
var _ GenerationService = (*generationServiceImpl)(nil)

// NewGenerationService создает новый экземпляр GenerationService.
func NewGenerationService(
	accounts AccountService,
	creations repository.CreationRepository,
	ai AIClient,
	media clients.MediaClient,
	events messaging.CreationEventPublisher,
	feedCache cache.FeedCache,
	freeUsageLimit int,
	maxResumeSize int64,
	logger *zap.Logger,
) GenerationService {
	if freeUsageLimit <= 0 {
		freeUsageLimit = DefaultFreeUsageLimit
	}
	return &generationServiceImpl{
		accounts:       accounts,
		creations:      creations,
		ai:             ai,
		media:          media,
		events:         events,
		feedCache:      feedCache,
		freeUsageLimit: freeUsageLimit,
		maxResumeSize:  maxResumeSize,
		logger:         logger.Named("GenerationService"),
	}
}

// GenerateArticle генерирует статью по промпту.
func (s *generationServiceImpl) GenerateArticle(ctx context.Context, userID, prompt string, length int) (*models.Creation, error) {
	log := s.logger.With(zap.String("userID", userID), zap.String("type", string(models.TypeArticle)))

	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", models.ErrInvalidInput)
	}
	if length <= 0 {
		length = defaultArticleMaxTokens
	}

	account, err := s.authorizeFreeTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.ai.GenerateText(ctx, userID, prompt, GenerationParams{MaxTokens: &length})
	if err != nil {
		log.Warn("Article generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	creation := &models.Creation{
		UserID:  userID,
		Prompt:  prompt,
		Content: content,
		Type:    models.TypeArticle,
	}
	if err := s.finalize(ctx, account, creation); err != nil {
		return nil, err
	}

	log.Info("Article generated", zap.String("creationID", creation.ID.String()))
	return creation, nil
}

// GenerateBlogTitle генерирует заголовок блога по промпту.
func (s *generationServiceImpl) GenerateBlogTitle(ctx context.Context, userID, prompt string) (*models.Creation, error) {
	log := s.logger.With(zap.String("userID", userID), zap.String("type", string(models.TypeBlogTitle)))

	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", models.ErrInvalidInput)
	}

	account, err := s.authorizeFreeTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	maxTokens := blogTitleMaxTokens
	content, err := s.ai.GenerateText(ctx, userID, prompt, GenerationParams{MaxTokens: &maxTokens})
	if err != nil {
		log.Warn("Blog title generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	creation := &models.Creation{
		UserID:  userID,
		Prompt:  prompt,
		Content: content,
		Type:    models.TypeBlogTitle,
	}
	if err := s.finalize(ctx, account, creation); err != nil {
		return nil, err
	}

	log.Info("Blog title generated", zap.String("creationID", creation.ID.String()))
	return creation, nil
}

// GenerateImage генерирует изображение по промпту и публикует его в ленте по флагу.
func (s *generationServiceImpl) GenerateImage(ctx context.Context, userID, prompt string, publish bool) (*models.Creation, error) {
	log := s.logger.With(zap.String("userID", userID), zap.String("type", string(models.TypeImage)))

	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", models.ErrInvalidInput)
	}

	account, err := s.authorizePremiumTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	imageData, err := s.media.TextToImage(ctx, prompt)
	if err != nil {
		log.Warn("Text-to-image generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	imageURL, err := s.media.UploadImage(ctx, imageData, "generated.png", "")
	if err != nil {
		log.Warn("Generated image upload failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	creation := &models.Creation{
		UserID:  userID,
		Prompt:  prompt,
		Content: imageURL,
		Type:    models.TypeImage,
		Publish: publish,
	}
	if err := s.finalize(ctx, account, creation); err != nil {
		return nil, err
	}

	log.Info("Image generated", zap.String("creationID", creation.ID.String()), zap.Bool("publish", publish))
	return creation, nil
}

// RemoveBackground удаляет фон с загруженного изображения.
func (s *generationServiceImpl) RemoveBackground(ctx context.Context, userID string, image []byte, fileName string) (*models.Creation, error) {
	log := s.logger.With(zap.String("userID", userID), zap.String("type", string(models.TypeImage)))

	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image file is required", models.ErrInvalidInput)
	}

	account, err := s.authorizePremiumTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.media.UploadImage(ctx, image, fileName, "background_removal")
	if err != nil {
		log.Warn("Background removal failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	creation := &models.Creation{
		UserID:  userID,
		Prompt:  backgroundRemovalPrompt,
		Content: imageURL,
		Type:    models.TypeImage,
	}
	if err := s.finalize(ctx, account, creation); err != nil {
		return nil, err
	}

	log.Info("Background removed", zap.String("creationID", creation.ID.String()))
	return creation, nil
}

// RemoveObject удаляет указанный объект с загруженного изображения.
func (s *generationServiceImpl) RemoveObject(ctx context.Context, userID string, image []byte, fileName, object string) (*models.Creation, error) {
	log := s.logger.With(zap.String("userID", userID), zap.String("type", string(models.TypeImage)))

	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image file is required", models.ErrInvalidInput)
	}
	object = strings.TrimSpace(object)
	if object == "" || len(strings.Fields(object)) != 1 {
		return nil, fmt.Errorf("%w: object must be a single word", models.ErrInvalidInput)
	}

	account, err := s.authorizePremiumTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.media.UploadImage(ctx, image, fileName, "gen_remove:"+object)
	if err != nil {
		log.Warn("Object removal failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	creation := &models.Creation{
		UserID:  userID,
		Prompt:  fmt.Sprintf("Removed %s from image", object),
		Content: imageURL,
		Type:    models.TypeImage,
	}
	if err := s.finalize(ctx, account, creation); err != nil {
		return nil, err
	}

	log.Info("Object removed", zap.String("creationID", creation.ID.String()), zap.String("object", object))
	return creation, nil
}

// ReviewResume делает AI-ревью загруженного PDF резюме.
func (s *generationServiceImpl) ReviewResume(ctx context.Context, userID string, resume []byte) (*models.Creation, error) {
	log := s.logger.With(zap.String("userID", userID), zap.String("type", string(models.TypeResumeReview)))

	if len(resume) == 0 {
		return nil, fmt.Errorf("%w: resume file is required", models.ErrInvalidInput)
	}
	if s.maxResumeSize > 0 && int64(len(resume)) > s.maxResumeSize {
		log.Warn("Resume file too large", zap.Int("size_bytes", len(resume)))
		return nil, ErrResumeTooLarge
	}

	account, err := s.authorizePremiumTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	resumeText, err := extractPDFText(resume)
	if err != nil {
		log.Warn("Failed to extract text from resume PDF", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	maxTokens := resumeReviewMaxTokens
	prompt := fmt.Sprintf(resumeReviewPromptTemplate, resumeText)
	content, err := s.ai.GenerateText(ctx, userID, prompt, GenerationParams{MaxTokens: &maxTokens})
	if err != nil {
		log.Warn("Resume review generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	creation := &models.Creation{
		UserID:  userID,
		Prompt:  resumeReviewPrompt,
		Content: content,
		Type:    models.TypeResumeReview,
	}
	if err := s.finalize(ctx, account, creation); err != nil {
		return nil, err
	}

	log.Info("Resume reviewed", zap.String("creationID", creation.ID.String()))
	return creation, nil
}

// authorizeFreeTier загружает аккаунт и проверяет бесплатную квоту.
func (s *generationServiceImpl) authorizeFreeTier(ctx context.Context, userID string) (*models.UserAccount, error) {
	account, err := s.accounts.GetOrProvision(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !Authorize(account.Plan, account.FreeUsage, s.freeUsageLimit) {
		s.logger.Info("Free usage quota exceeded",
			zap.String("userID", userID),
			zap.Int("freeUsage", account.FreeUsage),
			zap.Int("limit", s.freeUsageLimit),
		)
		return nil, ErrQuotaExceeded
	}
	return account, nil
}

// authorizePremiumTier загружает аккаунт и проверяет premium-план.
func (s *generationServiceImpl) authorizePremiumTier(ctx context.Context, userID string) (*models.UserAccount, error) {
	account, err := s.accounts.GetOrProvision(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !AuthorizePremium(account.Plan) {
		s.logger.Info("Premium plan required", zap.String("userID", userID), zap.String("plan", string(account.Plan)))
		return nil, ErrPremiumRequired
	}
	return account, nil
}

// finalize сохраняет результат, продвигает счетчик и рассылает событие.
// Ошибка сохранения фатальна; ошибки события и кэша только логируются.
func (s *generationServiceImpl) finalize(ctx context.Context, account *models.UserAccount, creation *models.Creation) error {
	if err := s.creations.Create(ctx, creation); err != nil {
		return fmt.Errorf("failed to persist creation: %w", err)
	}

	// Счетчик двигается только после успешного сохранения.
	if err := s.accounts.AdvanceUsage(ctx, account); err != nil {
		// Результат уже сохранен и отдан пользователю, поэтому не фейлим операцию.
		s.logger.Error("Failed to advance usage after successful generation",
			zap.String("userID", account.UserID),
			zap.String("creationID", creation.ID.String()),
			zap.Error(err),
		)
	}

	if s.events != nil {
		if err := s.events.PublishCreationEvent(ctx, messaging.CreationEventPayload{
			Event:      messaging.EventCreationCreated,
			CreationID: creation.ID.String(),
			UserID:     creation.UserID,
			Type:       string(creation.Type),
			Publish:    creation.Publish,
		}); err != nil {
			s.logger.Warn("Failed to publish creation event", zap.Error(err))
		}
	}

	if creation.Publish && s.feedCache != nil {
		if err := s.feedCache.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate published feed cache", zap.Error(err))
		}
	}

	return nil
}
