package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

// BucketService wraps the document object store. Uploaded source files live
// here keyed by their stored-file id; the database only keeps the URL.
type BucketService interface {
	UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (string, error)
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	endpoint := strings.TrimSpace(os.Getenv("MINIO_ENDPOINT"))
	if endpoint == "" {
		return nil, fmt.Errorf("missing env var MINIO_ENDPOINT")
	}
	accessKey := strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY"))
	secretKey := strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY"))
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing env var MINIO_ACCESS_KEY / MINIO_SECRET_KEY")
	}

	bucket := strings.TrimSpace(os.Getenv("MINIO_BUCKET"))
	if bucket == "" {
		bucket = "catalog-documents"
	}

	useSSL := strings.EqualFold(strings.TrimSpace(os.Getenv("MINIO_USE_SSL")), "true")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
		serviceLog.Info("Created object store bucket", "bucket", bucket)
	}

	publicBaseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("MINIO_PUBLIC_BASE_URL")), "/")
	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return &bucketService{
		log:           serviceLog,
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("object key required")
	}

	_, err := bs.client.PutObject(ctx, bs.bucket, key, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		bs.log.Error("Failed to upload object", "key", key, "error", err)
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}
	return bs.GetPublicURL(key), nil
}

func (bs *bucketService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := bs.client.GetObject(ctx, bs.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %q: %w", key, err)
	}
	return obj, nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	if err := bs.client.RemoveObject(ctx, bs.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	return bs.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}
