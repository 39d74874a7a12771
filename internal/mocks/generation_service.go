package mocks

import (
	"context"

	"creation-server/internal/models"
	"creation-server/internal/service"

	"github.com/stretchr/testify/mock"
)

// Mock GenerationService
type GenerationService struct {
	mock.Mock
}

func (m *GenerationService) GenerateArticle(ctx context.Context, userID, prompt string, length int) (*models.Creation, error) {
	args := m.Called(ctx, userID, prompt, length)
	creation, _ := args.Get(0).(*models.Creation)
	return creation, args.Error(1)
}

func (m *GenerationService) GenerateBlogTitle(ctx context.Context, userID, prompt string) (*models.Creation, error) {
	args := m.Called(ctx, userID, prompt)
	creation, _ := args.Get(0).(*models.Creation)
	return creation, args.Error(1)
}

func (m *GenerationService) GenerateImage(ctx context.Context, userID, prompt string, publish bool) (*models.Creation, error) {
	args := m.Called(ctx, userID, prompt, publish)
	creation, _ := args.Get(0).(*models.Creation)
	return creation, args.Error(1)
}

func (m *GenerationService) RemoveBackground(ctx context.Context, userID string, image []byte, fileName string) (*models.Creation, error) {
	args := m.Called(ctx, userID, image, fileName)
	creation, _ := args.Get(0).(*models.Creation)
	return creation, args.Error(1)
}

func (m *GenerationService) RemoveObject(ctx context.Context, userID string, image []byte, fileName, object string) (*models.Creation, error) {
	args := m.Called(ctx, userID, image, fileName, object)
	creation, _ := args.Get(0).(*models.Creation)
	return creation, args.Error(1)
}

func (m *GenerationService) ReviewResume(ctx context.Context, userID string, resume []byte) (*models.Creation, error) {
	args := m.Called(ctx, userID, resume)
	creation, _ := args.Get(0).(*models.Creation)
	return creation, args.Error(1)
}

var _ service.GenerationService = (*GenerationService)(nil)
