package service

import "creation-server/internal/models"

// DefaultFreeUsageLimit - лимит бесплатных генераций по умолчанию.
const DefaultFreeUsageLimit = 10

// Authorize решает, допускается ли операция с бесплатной квотой.
// Premium-план снимает лимит; для остальных счетчик должен быть ниже лимита.
func Authorize(plan models.Plan, freeUsage, limit int) bool {
	if plan == models.PlanPremium {
		return true
	}
	return freeUsage < limit
}

// AuthorizePremium решает, допускается ли premium-операция.
func AuthorizePremium(plan models.Plan) bool {
	return plan == models.PlanPremium
}
