package storage

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

var errEmptyPayload = errors.New("empty payload")

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

func normalizeExtension(ext string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(ext), ".")
	trimmed = sanitizePathSegment(trimmed)
	if trimmed == "" {
		return "bin"
	}
	return trimmed
}

// buildObjectPath 生成 enrollments/<user>/<yyyy>/<mm>/<dd>/sample-<n>-<nanos>.<ext>
func buildObjectPath(key SampleKey, now time.Time) string {
	now = now.UTC()
	datedir := fmt.Sprintf("%04d/%02d/%02d", now.Year(), now.Month(), now.Day())
	filename := fmt.Sprintf("sample-%d-%d.%s", key.Sample, now.UnixNano(), normalizeExtension(key.Extension))
	return path.Join("enrollments", fmt.Sprintf("%d", key.UserID), datedir, filename)
}

func detectContentType(ext string) string {
	typeName := mime.TypeByExtension("." + normalizeExtension(ext))
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func joinPrefix(prefix, key string) string {
	cleanPrefix := trimPrefix(prefix)
	if cleanPrefix == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleanPrefix, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func objectKey(prefix string, key SampleKey) string {
	return joinPrefix(prefix, buildObjectPath(key, time.Now()))
}
