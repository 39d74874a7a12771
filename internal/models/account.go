package models

import (
	"strings"
	"time"
)

// Plan определяет тариф пользователя.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// UserAccount представляет аккаунт пользователя, которым владеет сервис.
// Тариф и счетчик бесплатного использования хранятся здесь, а не в metadata
// identity provider'а, чтобы инкремент счетчика был атомарным на уровне БД.
type UserAccount struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Plan      Plan      `json:"plan" db:"plan"`
	FreeUsage int       `json:"free_usage" db:"free_usage"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayFreeUsage возвращает счетчик для отображения клиенту.
// Premium-аккаунты безлимитны, для них всегда 0.
func (a *UserAccount) DisplayFreeUsage() int {
	if a.Plan == PlanPremium {
		return 0
	}
	return a.FreeUsage
}

// ResolvePlan определяет тариф по metadata identity provider'а.
// Порядок приоритета: private "plan" -> private "userPlan" -> public "plan".
// Любое значение кроме "premium" (после trim/lower) трактуется как free.
func ResolvePlan(privateMetadata, publicMetadata map[string]interface{}) Plan {
	candidates := []interface{}{}
	if privateMetadata != nil {
		candidates = append(candidates, privateMetadata["plan"], privateMetadata["userPlan"])
	}
	if publicMetadata != nil {
		candidates = append(candidates, publicMetadata["plan"])
	}

	for _, candidate := range candidates {
		value := normalizePlanValue(candidate)
		if value == "" {
			continue
		}
		if value == string(PlanPremium) {
			return PlanPremium
		}
		return PlanFree
	}
	return PlanFree
}

// ResolveFreeUsage извлекает счетчик free_usage из private metadata.
// Отсутствующее или некорректное значение трактуется как 0.
func ResolveFreeUsage(privateMetadata map[string]interface{}) int {
	if privateMetadata == nil {
		return 0
	}
	switch v := privateMetadata["free_usage"].(type) {
	case float64: // encoding/json декодирует числа как float64
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return 0
}

func normalizePlanValue(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}
