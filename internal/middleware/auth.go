package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"creation-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenVerifier определяет функцию, которая проверяет строку токена и возвращает claims.
// Ошибки могут быть models.ErrTokenInvalid, models.ErrTokenExpired, models.ErrTokenMalformed и т.д.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// AuthMiddleware создает Gin middleware для проверки JWT.
// Оно извлекает токен из заголовка Authorization, верифицирует его с помощью
// предоставленного verifier и добавляет UserID в контекст запроса.
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized: Missing token"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Malformed Authorization header", zap.String("header", authHeader))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized: Malformed token header"))
			return
		}
		tokenString := parts[1]

		claims, err := verifier(c.Request.Context(), tokenString)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Unauthorized: Invalid token"
			if errors.Is(err, models.ErrTokenExpired) {
				msg = "Unauthorized: Token expired"
			} else if errors.Is(err, models.ErrTokenMalformed) || errors.Is(err, models.ErrTokenInvalid) {
				// Используем одинаковое сообщение для невалидного и некорректного формата
			} else {
				// Для неожиданных ошибок верификации
				log.Error("Unexpected token verification error", zap.Error(err))
				status = http.StatusInternalServerError
				msg = "Internal server error during token verification"
			}
			// Логгируем начало токена для отладки, не весь токен
			tokenSnippet := tokenString
			if len(tokenString) > 10 {
				tokenSnippet = tokenString[:10] + "..."
			}
			log.Warn("Token verification failed", zap.Error(err), zap.String("tokenSnippet", tokenSnippet))
			c.AbortWithStatusJSON(status, models.NewAPIError(msg))
			return
		}

		userID := claims.ResolveUserID()

		// Добавляем информацию в контекст запроса, чтобы сервисный слой
		// мог достать ее через models.GetUserIDFromContext.
		ctx := context.WithValue(c.Request.Context(), models.UserContextKey, userID)
		c.Request = c.Request.WithContext(ctx)

		log.Debug("User authorized", zap.String("userID", userID))
		c.Next()
	}
}

// InternalServiceTokenHeader - заголовок для аутентификации межсервисных запросов.
const InternalServiceTokenHeader = "X-Internal-Service-Token"

// InterServiceAuthMiddleware создает Gin middleware для внутренних эндпоинтов
// (например, вебхука синхронизации планов). Запрос допускается только при
// совпадении токена из заголовка с ожидаемым значением.
func InterServiceAuthMiddleware(expectedToken string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(InternalServiceTokenHeader)
		if expectedToken == "" || token != expectedToken {
			logger.Warn("Inter-service token mismatch",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
			return
		}
		c.Next()
	}
}
