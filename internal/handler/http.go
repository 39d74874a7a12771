package handler

import (
	"errors"
	"net/http"

	"creation-server/internal/authutils"
	"creation-server/internal/middleware"
	"creation-server/internal/models"
	"creation-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Сообщения API, на которые завязаны клиенты.
const (
	quotaExceededMessage   = "Limit reached. Upgrade to continue"
	premiumRequiredMessage = "This feature is only available for premium subscriptions"
	resumeTooLargeMessage  = "Resume file size exceeds allowed size (5MB)."
	notFoundMessage        = "Creation not found"
)

// Handler обрабатывает HTTP запросы сервиса генерации контента.
type Handler struct {
	generation        service.GenerationService
	creations         service.CreationService
	accounts          service.AccountService
	logger            *zap.Logger
	userTokenVerifier *authutils.JWTVerifier
	interServiceToken string
}

// NewHandler создает новый Handler.
func NewHandler(
	generation service.GenerationService,
	creations service.CreationService,
	accounts service.AccountService,
	logger *zap.Logger,
	jwtSecret string,
	interServiceToken string,
) *Handler {
	userVerifier, err := authutils.NewJWTVerifier(jwtSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create User JWT Verifier", zap.Error(err))
	}

	return &Handler{
		generation:        generation,
		creations:         creations,
		accounts:          accounts,
		logger:            logger.Named("Handler"),
		userTokenVerifier: userVerifier,
		interServiceToken: interServiceToken,
	}
}

// RegisterRoutes регистрирует маршруты сервиса.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	authMiddleware := middleware.AuthMiddleware(h.userTokenVerifier.VerifyToken, h.logger)
	interServiceMiddleware := middleware.InterServiceAuthMiddleware(h.interServiceToken, h.logger)

	// --- Операции генерации (API для пользователей) ---
	aiGroup := r.Group("/api/ai", authMiddleware)
	{
		aiGroup.POST("/generate-article", h.generateArticle)
		aiGroup.POST("/generate-blog-title", h.generateBlogTitle)
		aiGroup.POST("/generate-image", h.generateImage)
		aiGroup.POST("/remove-image-background", h.removeImageBackground)
		aiGroup.POST("/remove-image-object", h.removeImageObject)
		aiGroup.POST("/resume-review", h.reviewResume)
	}

	// --- Ленты и лайки (API для пользователей) ---
	userGroup := r.Group("/api/user", authMiddleware)
	{
		userGroup.GET("/get-user-info", h.getUserInfo)
		userGroup.GET("/get-user-creations", h.getUserCreations)
		userGroup.GET("/get-published-creations", h.getPublishedCreations)
		userGroup.POST("/toggle-like-creation", h.toggleLikeCreation)
	}

	// --- Внутренние маршруты (защищены межсервисным токеном) ---
	internalGroup := r.Group("/internal", interServiceMiddleware)
	{
		internalGroup.POST("/identity/webhook", h.identityWebhook)
	}

	r.GET("/health", h.healthCheck)
}

// healthCheck возвращает состояние сервиса.
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getUserID извлекает ID пользователя из контекста запроса.
func getUserID(c *gin.Context) (string, bool) {
	userID, ok := models.GetUserIDFromContext(c.Request.Context())
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// handleServiceError отображает ошибки сервисного слоя на HTTP статусы
// и сообщения, на которые завязаны клиенты.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, service.ErrQuotaExceeded):
		statusCode = http.StatusForbidden
		message = quotaExceededMessage
	case errors.Is(err, service.ErrPremiumRequired):
		statusCode = http.StatusForbidden
		message = premiumRequiredMessage
	case errors.Is(err, service.ErrResumeTooLarge):
		statusCode = http.StatusBadRequest
		message = resumeTooLargeMessage
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		message = notFoundMessage
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrGenerationFailed):
		statusCode = http.StatusBadGateway
		message = "Failed to generate content"
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Unauthorized"
	default:
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.NewAPIError(message))
}
