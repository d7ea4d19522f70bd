package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"faceauth/internal/entity/db"
	"faceauth/internal/model"
)

// LoginTimeLayout is the wall clock format stored in login_logs.
const LoginTimeLayout = "2006-01-02 15:04:05"

// DefaultAuditTimezone is the zone login timestamps are rendered in.
const DefaultAuditTimezone = "Asia/Jakarta"

// AuditLogger appends successful logins to the ledger.
type AuditLogger struct {
	repo     model.Repository
	location *time.Location
	now      func() time.Time
}

// NewAuditLogger 创建审计日志记录器，timezone 为空时使用 Asia/Jakarta
func NewAuditLogger(repo model.Repository, timezone string) (*AuditLogger, error) {
	if repo == nil {
		return nil, errors.New("audit logger requires a repository")
	}
	if timezone == "" {
		timezone = DefaultAuditTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load audit timezone %q: %w", timezone, err)
	}
	return &AuditLogger{repo: repo, location: loc, now: time.Now}, nil
}

// SetClock replaces the time source. Intended for tests.
func (a *AuditLogger) SetClock(now func() time.Time) {
	if now != nil {
		a.now = now
	}
}

// Location returns the zone timestamps are rendered in.
func (a *AuditLogger) Location() *time.Location {
	return a.location
}

// Record writes one login event for userID and returns the stored timestamp.
// Events are never deduplicated.
func (a *AuditLogger) Record(ctx context.Context, userID uint) (string, error) {
	loginTime := a.now().In(a.location).Format(LoginTimeLayout)
	event := &db.LoginLog{UserID: userID, LoginTime: loginTime}
	// 登录已成功，客户端断开也要落库
	if err := a.repo.AppendLoginEvent(context.WithoutCancel(ctx), event); err != nil {
		return "", fmt.Errorf("append login event: %w", err)
	}
	return loginTime, nil
}
