package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists samples to the local filesystem.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage instance. The directory is created if
// it does not exist.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "datas/samples"
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes the sample to disk and returns its path relative to the base dir.
func (s *LocalStorage) Save(ctx context.Context, data []byte, key SampleKey) (string, error) {
	if err := checkPayload(ctx, data); err != nil {
		return "", err
	}

	relativePath := objectKey("", key)
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o700); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	// 人脸样本属于敏感数据，仅允许属主读取
	if err := os.WriteFile(absPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return relativePath, nil
}

var _ Archive = (*LocalStorage)(nil)
