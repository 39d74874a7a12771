package models

// APIError - стандартная структура для ответа об ошибке в формате JSON.
// Клиенты ориентируются на поле success и человекочитаемое message.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewAPIError создает тело ответа об ошибке.
func NewAPIError(message string) APIError {
	return APIError{Success: false, Message: message}
}

// ContentResponse - успешный ответ генерации с текстовым или URL-содержимым.
type ContentResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
}

// CreationView - элемент ленты: запись плюс счетчик лайков и признак того,
// что текущий пользователь её лайкнул. UI рисует сердечко по полю liked.
type CreationView struct {
	Creation
	LikesCount int  `json:"likes_count"`
	Liked      bool `json:"liked"`
}

// NewCreationViews собирает ленту для конкретного пользователя.
func NewCreationViews(creations []Creation, viewerID string) []CreationView {
	views := make([]CreationView, 0, len(creations))
	for _, c := range creations {
		views = append(views, CreationView{
			Creation:   c,
			LikesCount: len(c.Likes),
			Liked:      c.LikedBy(viewerID),
		})
	}
	return views
}

// CreationsResponse - успешный ответ со списком работ пользователя или публичной лентой.
type CreationsResponse struct {
	Success   bool           `json:"success"`
	Creations []CreationView `json:"creations"`
}

// UserInfoResponse - тариф и счетчик бесплатного использования текущего пользователя.
type UserInfoResponse struct {
	Success   bool `json:"success"`
	Plan      Plan `json:"plan"`
	FreeUsage int  `json:"free_usage"`
}

// MessageResponse - успешный ответ, содержащий только сообщение (например, лайк/анлайк).
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
