package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/quonaro/portfolio-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MinioAPI is the part of the MinIO client the store calls.
type MinioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type MinioStore struct {
	client    MinioAPI
	bucket    string
	region    string
	publicURL string
	logger    zerolog.Logger
}

func NewMinioStore(settings config.StorageSettings) (*MinioStore, error) {
	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.UseSSL,
		Region: settings.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicURL := settings.PublicURL
	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + settings.Bucket
	}
	store := NewMinioStoreWithClient(client, settings.Bucket, publicURL)
	store.region = settings.Region
	return store, nil
}

func NewMinioStoreWithClient(client MinioAPI, bucket, publicURL string) *MinioStore {
	return &MinioStore{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		logger:    log.With().Str("component", "minioStore").Str("bucket", bucket).Logger(),
	}
}

func (s *MinioStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if size <= 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return PublicURL(s.publicURL, s.bucket, key), nil
}

func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.Info().Msg("bucket created")
	}
	return nil
}
