package models

import (
	"time"

	"github.com/google/uuid"
)

// CreationType определяет тип сгенерированного артефакта.
// Совпадает со значениями колонки 'type' в таблице creations.
type CreationType string

const (
	TypeArticle      CreationType = "article"
	TypeBlogTitle    CreationType = "blog-title"
	TypeImage        CreationType = "image"
	TypeResumeReview CreationType = "resume-review"
)

// Creation представляет одну запись сгенерированного контента в базе данных.
type Creation struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	UserID    string       `json:"user_id" db:"user_id"` // Opaque идентификатор владельца из identity provider
	Prompt    string       `json:"prompt" db:"prompt"`
	Content   string       `json:"content" db:"content"` // Сгенерированный текст или URL медиа
	Type      CreationType `json:"type" db:"type"`
	Publish   bool         `json:"publish" db:"publish"`
	Likes     []string     `json:"likes" db:"likes"` // Набор user id, без дубликатов
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// LikedBy сообщает, лайкнул ли пользователь эту запись.
func (c *Creation) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike вычисляет новый набор лайков после переключения лайка пользователем.
// Если userID уже в наборе — он удаляется (liked=false), иначе добавляется (liked=true).
// Исходный срез не изменяется; двойное применение возвращает исходный набор.
func ToggleLike(likes []string, userID string) (newLikes []string, liked bool) {
	newLikes = make([]string, 0, len(likes)+1)
	for _, id := range likes {
		if id == userID {
			liked = true
			continue
		}
		newLikes = append(newLikes, id)
	}
	if liked {
		// Пользователь уже лайкал — лайк снят.
		return newLikes, false
	}
	return append(newLikes, userID), true
}
