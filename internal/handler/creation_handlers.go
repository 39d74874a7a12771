package handler

import (
	"net/http"

	"creation-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type toggleLikeRequest struct {
	ID string `json:"id" binding:"required"`
}

// getUserCreations возвращает все записи текущего пользователя.
func (h *Handler) getUserCreations(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	creations, err := h.creations.ListUserCreations(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list user creations", zap.String("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CreationsResponse{Success: true, Creations: models.NewCreationViews(creations, userID)})
}

// getPublishedCreations возвращает публичную ленту с признаком liked
// для текущего пользователя.
func (h *Handler) getPublishedCreations(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	creations, err := h.creations.ListPublished(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list published creations", zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CreationsResponse{Success: true, Creations: models.NewCreationViews(creations, userID)})
}

// getUserInfo возвращает тариф и счетчик бесплатного использования.
// Для premium счетчик всегда 0.
func (h *Handler) getUserInfo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	account, err := h.accounts.GetOrProvision(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load user account", zap.String("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UserInfoResponse{
		Success:   true,
		Plan:      account.Plan,
		FreeUsage: account.DisplayFreeUsage(),
	})
}

// toggleLikeCreation переключает лайк текущего пользователя на записи.
func (h *Handler) toggleLikeCreation(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Invalid request body: "+err.Error()))
		return
	}

	creationID, err := uuid.Parse(req.ID)
	if err != nil {
		h.logger.Warn("Invalid creation ID format in toggleLikeCreation", zap.String("id", req.ID), zap.Error(err))
		c.JSON(http.StatusBadRequest, models.NewAPIError("Invalid creation ID format"))
		return
	}

	message, likes, err := h.creations.ToggleLike(c.Request.Context(), userID, creationID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"likes":   likes,
	})
}
