package service_test

import (
	"testing"

	"creation-server/internal/models"
	"creation-server/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	t.Run("Premium plan bypasses the limit", func(t *testing.T) {
		assert.True(t, service.Authorize(models.PlanPremium, 9999, service.DefaultFreeUsageLimit))
	})

	t.Run("Free plan below limit is allowed", func(t *testing.T) {
		assert.True(t, service.Authorize(models.PlanFree, 0, 10))
		assert.True(t, service.Authorize(models.PlanFree, 9, 10))
	})

	t.Run("Free plan at or above limit is denied", func(t *testing.T) {
		assert.False(t, service.Authorize(models.PlanFree, 10, 10))
		assert.False(t, service.Authorize(models.PlanFree, 11, 10))
	})
}

func TestAuthorizePremium(t *testing.T) {
	assert.True(t, service.AuthorizePremium(models.PlanPremium))
	assert.False(t, service.AuthorizePremium(models.PlanFree))
	assert.False(t, service.AuthorizePremium(models.Plan("enterprise")))
}
