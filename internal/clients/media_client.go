package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MediaClient определяет методы для работы с media-пайплайном:
// генерация изображений по тексту, загрузка и трансформации.
//
//go:generate mockery --name MediaClient --output ../mocks --outpkg mocks --case=underscore
type MediaClient interface {
	// TextToImage генерирует изображение по текстовому промпту и возвращает его байты.
	TextToImage(ctx context.Context, prompt string) ([]byte, error)

	// UploadImage загружает изображение, опционально применяя трансформацию
	// (например, "background_removal" или "gen_remove:car").
	// Возвращает публичный URL загруженного изображения.
	UploadImage(ctx context.Context, image []byte, fileName string, transformation string) (string, error)
}

// Compile-time check to ensure implementation satisfies the interface.
var _ MediaClient = (*HTTPMediaClient)(nil)

type HTTPMediaClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPMediaClient creates a new HTTP client for the media pipeline.
func NewHTTPMediaClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPMediaClient {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &HTTPMediaClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("HTTPMediaClient"),
	}
}

// TextToImage генерирует изображение по текстовому промпту.
func (c *HTTPMediaClient) TextToImage(ctx context.Context, prompt string) ([]byte, error) {
	log := c.logger.With(zap.Int("prompt_len", len(prompt)))
	log.Debug("Requesting text-to-image generation")

	// Тело запроса - multipart форма с единственным полем prompt
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("failed to write prompt field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpointURL := c.baseURL + "/text-to-image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, &body)
	if err != nil {
		log.Error("Failed to create text-to-image request", zap.Error(err))
		return nil, fmt.Errorf("failed to create text-to-image request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "image/*")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Failed to execute text-to-image request", zap.Error(err))
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Error("Media API returned non-OK status for text-to-image",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", bodyBytes),
		)
		return nil, fmt.Errorf("media API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	if readErr != nil {
		log.Error("Failed to read text-to-image response body", zap.Error(readErr))
		return nil, fmt.Errorf("failed to read response body: %w", readErr)
	}
	if len(bodyBytes) == 0 {
		log.Error("Media API returned empty image data")
		return nil, fmt.Errorf("media API returned empty image data")
	}

	log.Debug("Text-to-image generation successful", zap.Int("size_bytes", len(bodyBytes)))
	return bodyBytes, nil
}

// UploadImage загружает изображение с опциональной трансформацией и возвращает публичный URL.
func (c *HTTPMediaClient) UploadImage(ctx context.Context, image []byte, fileName string, transformation string) (string, error) {
	log := c.logger.With(
		zap.String("file_name", fileName),
		zap.String("transformation", transformation),
		zap.Int("size_bytes", len(image)),
	)
	log.Debug("Uploading image to media storage")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create image form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if transformation != "" {
		if err := writer.WriteField("transformation", transformation); err != nil {
			return "", fmt.Errorf("failed to write transformation field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpointURL := c.baseURL + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, &body)
	if err != nil {
		log.Error("Failed to create upload request", zap.Error(err))
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Failed to execute upload request", zap.Error(err))
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Error("Media API returned non-OK status for upload",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", bodyBytes),
		)
		return "", fmt.Errorf("media API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	// Ожидаем { "secure_url": "..." }
	var responsePayload struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&responsePayload); err != nil {
		log.Error("Failed to decode upload response", zap.Error(err))
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if responsePayload.SecureURL == "" {
		log.Error("Media API response missing secure_url")
		return "", fmt.Errorf("media API response missing secure_url")
	}

	log.Debug("Image uploaded successfully", zap.String("url", responsePayload.SecureURL))
	return responsePayload.SecureURL, nil
}
