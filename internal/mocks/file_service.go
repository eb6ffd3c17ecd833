package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type FileService struct {
	mock.Mock
}

func (m *FileService) UploadDeliveryFile(ctx context.Context, projectID, deliveryID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (string, error) {
	args := m.Called(ctx, projectID, deliveryID, fileName, contentType, size, reader)
	return args.String(0), args.Error(1)
}

func (m *FileService) PresignDownload(ctx context.Context, storagePath, downloadName string) (string, error) {
	args := m.Called(ctx, storagePath, downloadName)
	return args.String(0), args.Error(1)
}

func (m *FileService) Remove(ctx context.Context, storagePath string) error {
	args := m.Called(ctx, storagePath)
	return args.Error(0)
}
