// Package storage archives raw enrollment samples to a configurable object
// store. The archive is optional and never part of the authentication path.
package storage

import (
	"context"
	"fmt"
	"strings"

	"faceauth/internal/config"
)

const (
	// TypeNone 表示不归档注册样本。
	TypeNone = "none"
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
	// TypeMinio 表示自建 MinIO 存储。
	TypeMinio = "minio"
)

// SampleKey 描述一张注册样本在归档中的位置。
type SampleKey struct {
	UserID    uint
	Sample    int
	Extension string
}

// Archive 持久化注册样本并返回存储后端内的对象键。
type Archive interface {
	Save(ctx context.Context, data []byte, key SampleKey) (string, error)
}

// NewArchive 根据配置实例化归档后端。STORAGE_TYPE=none 时返回 nil。
func NewArchive(cfg config.Config) (Archive, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeNone:
		return nil, nil
	case TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	case TypeMinio:
		return NewMinioStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}

func checkPayload(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return errEmptyPayload
	}
	return ctx.Err()
}
