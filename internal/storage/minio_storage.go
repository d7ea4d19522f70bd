package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"faceauth/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStorage struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinioStorage(cfg config.Config) (Archive, error) {
	endpoint := strings.TrimSpace(cfg.StorageMinioEndpoint)
	if endpoint == "" {
		return nil, errors.New("storage: missing MinIO endpoint")
	}
	accessKey := strings.TrimSpace(cfg.StorageMinioAccessKey)
	secretKey := strings.TrimSpace(cfg.StorageMinioSecretKey)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing MinIO credentials")
	}
	bucket := strings.TrimSpace(cfg.StorageMinioBucket)
	if bucket == "" {
		bucket = "faceauth-samples"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.StorageMinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create MinIO client: %w", err)
	}

	return &minioStorage{
		client: client,
		bucket: bucket,
		prefix: trimPrefix(cfg.StorageMinioPrefix),
	}, nil
}

// EnsureBucket 确保 bucket 存在
func (s *minioStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (s *minioStorage) Save(ctx context.Context, data []byte, key SampleKey) (string, error) {
	if err := checkPayload(ctx, data); err != nil {
		return "", err
	}

	objectName := objectKey(s.prefix, key)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: detectContentType(key.Extension),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return objectName, nil
}

// BucketEnsurer 由需要预先创建 bucket 的后端实现。
type BucketEnsurer interface {
	EnsureBucket(ctx context.Context) error
}

var _ Archive = (*minioStorage)(nil)
var _ BucketEnsurer = (*minioStorage)(nil)
