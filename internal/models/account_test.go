package models_test

import (
	"testing"

	"creation-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolvePlan(t *testing.T) {
	t.Run("Private plan has highest priority", func(t *testing.T) {
		private := map[string]interface{}{"plan": "premium", "userPlan": "free"}
		public := map[string]interface{}{"plan": "free"}

		assert.Equal(t, models.PlanPremium, models.ResolvePlan(private, public))
	})

	t.Run("Falls back to private userPlan", func(t *testing.T) {
		private := map[string]interface{}{"userPlan": "premium"}

		assert.Equal(t, models.PlanPremium, models.ResolvePlan(private, nil))
	})

	t.Run("Falls back to public plan", func(t *testing.T) {
		public := map[string]interface{}{"plan": "premium"}

		assert.Equal(t, models.PlanPremium, models.ResolvePlan(nil, public))
	})

	t.Run("Unknown values are treated as free", func(t *testing.T) {
		private := map[string]interface{}{"plan": "enterprise"}
		public := map[string]interface{}{"plan": "premium"}

		// Первое непустое значение выигрывает, даже если оно не premium.
		assert.Equal(t, models.PlanFree, models.ResolvePlan(private, public))
	})

	t.Run("Value is normalized before comparison", func(t *testing.T) {
		private := map[string]interface{}{"plan": "  Premium  "}

		assert.Equal(t, models.PlanPremium, models.ResolvePlan(private, nil))
	})

	t.Run("Non-string values are skipped", func(t *testing.T) {
		private := map[string]interface{}{"plan": 42}
		public := map[string]interface{}{"plan": "premium"}

		assert.Equal(t, models.PlanPremium, models.ResolvePlan(private, public))
	})

	t.Run("Missing metadata defaults to free", func(t *testing.T) {
		assert.Equal(t, models.PlanFree, models.ResolvePlan(nil, nil))
	})
}

func TestResolveFreeUsage(t *testing.T) {
	t.Run("Reads float64 from decoded JSON", func(t *testing.T) {
		private := map[string]interface{}{"free_usage": float64(7)}
		assert.Equal(t, 7, models.ResolveFreeUsage(private))
	})

	t.Run("Reads int value", func(t *testing.T) {
		private := map[string]interface{}{"free_usage": 3}
		assert.Equal(t, 3, models.ResolveFreeUsage(private))
	})

	t.Run("Negative and invalid values are treated as zero", func(t *testing.T) {
		assert.Equal(t, 0, models.ResolveFreeUsage(map[string]interface{}{"free_usage": float64(-5)}))
		assert.Equal(t, 0, models.ResolveFreeUsage(map[string]interface{}{"free_usage": "ten"}))
		assert.Equal(t, 0, models.ResolveFreeUsage(nil))
	})
}

func TestDisplayFreeUsage(t *testing.T) {
	premium := models.UserAccount{Plan: models.PlanPremium, FreeUsage: 8}
	assert.Equal(t, 0, premium.DisplayFreeUsage())

	free := models.UserAccount{Plan: models.PlanFree, FreeUsage: 8}
	assert.Equal(t, 8, free.DisplayFreeUsage())
}
