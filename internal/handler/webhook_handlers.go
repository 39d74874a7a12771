package handler

import (
	"net/http"
	"strings"

	"creation-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type identityWebhookRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Plan   string `json:"plan" binding:"required"`
}

// identityWebhook синхронизирует план аккаунта по событию identity-провайдера
// (покупка или отмена подписки).
func (h *Handler) identityWebhook(c *gin.Context) {
	var req identityWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Invalid request body: "+err.Error()))
		return
	}

	// Любое значение кроме premium приводится к free.
	plan := models.PlanFree
	if strings.EqualFold(strings.TrimSpace(req.Plan), string(models.PlanPremium)) {
		plan = models.PlanPremium
	}

	if err := h.accounts.SyncPlan(c.Request.Context(), req.UserID, plan); err != nil {
		h.logger.Error("Failed to sync plan from identity webhook",
			zap.String("userID", req.UserID),
			zap.String("plan", string(plan)),
			zap.Error(err),
		)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Plan synced"})
}
