package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLoggerRecordsEveryEvent(t *testing.T) {
	repo := newMemoryRepo()
	audit, err := NewAuditLogger(repo, "Asia/Jakarta")
	require.NoError(t, err)
	audit.SetClock(func() time.Time { return time.Date(2024, 8, 17, 3, 4, 5, 0, time.UTC) })

	for i := 0; i < 2; i++ {
		got, err := audit.Record(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "2024-08-17 10:04:05", got)
	}
	// no deduplication
	assert.Equal(t, 2, repo.logCount())
}

func TestAuditLoggerSurvivesCancelledContext(t *testing.T) {
	repo := newMemoryRepo()
	audit, err := NewAuditLogger(repo, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = audit.Record(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.logCount())
}

func TestAuditLoggerRejectsUnknownZone(t *testing.T) {
	_, err := NewAuditLogger(newMemoryRepo(), "Mars/Olympus")
	assert.Error(t, err)

	_, err = NewAuditLogger(nil, "")
	assert.Error(t, err)
}
