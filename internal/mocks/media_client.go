package mocks

import (
	"context"

	"creation-server/internal/clients"

	"github.com/stretchr/testify/mock"
)

// MediaClient is a mock type for the MediaClient type
type MediaClient struct {
	mock.Mock
}

func (m *MediaClient) TextToImage(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	image, _ := args.Get(0).([]byte)
	return image, args.Error(1)
}

func (m *MediaClient) UploadImage(ctx context.Context, image []byte, fileName string, transformation string) (string, error) {
	args := m.Called(ctx, image, fileName, transformation)
	return args.String(0), args.Error(1)
}

var _ clients.MediaClient = (*MediaClient)(nil)
