package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creation-server/internal/models"

	"go.uber.org/zap"
)

// IdentityUser - данные пользователя от identity-провайдера.
// Метаданные хранятся как свободные карты, т.к. провайдер не гарантирует схему.
type IdentityUser struct {
	ID              string                 `json:"id"`
	PrivateMetadata map[string]interface{} `json:"private_metadata"`
	PublicMetadata  map[string]interface{} `json:"public_metadata"`
}

// IdentityClient определяет методы для чтения данных пользователя из identity-провайдера.
//
//go:generate mockery --name IdentityClient --output ../mocks --outpkg mocks --case=underscore
type IdentityClient interface {
	// GetUser возвращает пользователя по ID.
	// Возвращает models.ErrNotFound, если провайдер не знает такого пользователя.
	GetUser(ctx context.Context, userID string) (*IdentityUser, error)
}

// Compile-time check to ensure implementation satisfies the interface.
var _ IdentityClient = (*HTTPIdentityClient)(nil)

type HTTPIdentityClient struct {
	baseURL    string // Base URL of the identity provider (e.g., "https://api.identity.example.com")
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPIdentityClient creates a new HTTP client for the identity provider.
func NewHTTPIdentityClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPIdentityClient {
	// Ensure base URL doesn't have a trailing slash
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &HTTPIdentityClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("HTTPIdentityClient"),
	}
}

// GetUser возвращает пользователя identity-провайдера вместе с метаданными.
func (c *HTTPIdentityClient) GetUser(ctx context.Context, userID string) (*IdentityUser, error) {
	log := c.logger.With(zap.String("userID", userID))
	log.Debug("Requesting user from identity provider")

	endpointURL := c.baseURL + "/v1/users/" + url.PathEscape(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		log.Error("Failed to create identity provider request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request for identity provider: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Failed to execute request to identity provider", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request to identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Warn("Identity provider does not know this user")
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Identity provider returned non-OK status",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", body),
		)
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user IdentityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		log.Error("Failed to decode identity provider response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode identity provider response: %w", err)
	}

	log.Debug("Successfully received user from identity provider")
	return &user, nil
}
