package service

import "errors"

// --- Ошибки авторизации операций генерации ---

// ErrQuotaExceeded - бесплатный лимит генераций исчерпан.
var ErrQuotaExceeded = errors.New("free usage limit reached")

// ErrPremiumRequired - операция доступна только premium-подписчикам.
var ErrPremiumRequired = errors.New("premium subscription required")

// --- Ошибки выполнения операций ---

// ErrGenerationFailed - внешний генератор (AI или media API) вернул ошибку.
// Запись в этом случае не сохраняется, счетчик не двигается.
var ErrGenerationFailed = errors.New("content generation failed")

// ErrResumeTooLarge - загруженный PDF резюме превышает допустимый размер.
var ErrResumeTooLarge = errors.New("resume file size exceeds allowed size")
