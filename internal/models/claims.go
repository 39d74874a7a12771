package models

import "github.com/golang-jwt/jwt/v5"

// Claims представляет стандартные поля JWT и пользовательские данные,
// которые мы ожидаем в токене identity provider'а.
type Claims struct {
	UserID               string `json:"user_id,omitempty"` // Opaque id пользователя; fallback на Subject
	jwt.RegisteredClaims        // Встраиваем стандартные поля: Issuer, Subject, Audience, ExpiresAt, NotBefore, IssuedAt, ID (JTI)
}

// ResolveUserID возвращает идентификатор пользователя из claims.
// Некоторые identity provider'ы кладут его в кастомное поле user_id,
// остальные — в стандартный Subject.
func (c *Claims) ResolveUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
