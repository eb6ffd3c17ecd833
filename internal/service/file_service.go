package service

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"studioflow/internal/config"
)

// FileService wraps the object store. Delivery files live in a private
// bucket; downloads go through short-lived presigned URLs so the store is
// never exposed directly.
type FileService interface {
	UploadDeliveryFile(ctx context.Context, projectID, deliveryID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (string, error)
	PresignDownload(ctx context.Context, storagePath, downloadName string) (string, error)
	Remove(ctx context.Context, storagePath string) error
}

type fileService struct {
	minioClient *minio.Client
	cfg         *config.Config
}

func NewFileService(minioClient *minio.Client, cfg *config.Config) FileService {
	return &fileService{
		minioClient: minioClient,
		cfg:         cfg,
	}
}

func (s *fileService) UploadDeliveryFile(ctx context.Context, projectID, deliveryID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (string, error) {
	storagePath := fmt.Sprintf("deliveries/%s/%s/%s", projectID, deliveryID, fileName)

	_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload to object store: %w", err)
	}

	return storagePath, nil
}

func (s *fileService) PresignDownload(ctx context.Context, storagePath, downloadName string) (string, error) {
	reqParams := make(url.Values)
	if downloadName != "" {
		reqParams.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}

	u, err := s.minioClient.PresignedGetObject(ctx, s.cfg.MinIOBucket, storagePath, s.cfg.PresignExpiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u.String(), nil
}

func (s *fileService) Remove(ctx context.Context, storagePath string) error {
	return s.minioClient.RemoveObject(ctx, s.cfg.MinIOBucket, storagePath, minio.RemoveObjectOptions{})
}
