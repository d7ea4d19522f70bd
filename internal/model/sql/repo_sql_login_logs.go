package sql

import (
	"context"
	"fmt"
	"strings"

	"faceauth/internal/entity"
	"faceauth/internal/entity/db"
)

// AppendLoginEvent inserts one audit row. Rows are never updated or deleted.
func (r *GormRepository) AppendLoginEvent(ctx context.Context, event *db.LoginLog) error {
	if err := r.ready(); err != nil {
		return err
	}
	if event == nil || event.UserID == 0 {
		return fmt.Errorf("invalid login event")
	}
	if strings.TrimSpace(event.LoginTime) == "" {
		return fmt.Errorf("login time is empty")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// ListLoginEvents returns the audit ledger newest first.
func (r *GormRepository) ListLoginEvents(ctx context.Context, params *entity.LoginLogQuery) ([]db.LoginLog, *entity.Meta, error) {
	if err := r.ready(); err != nil {
		return nil, nil, err
	}

	var q entity.LoginLogQuery
	if params != nil {
		q = *params
	}
	q.Normalize()

	query := r.db.WithContext(ctx).Model(&db.LoginLog{})
	if q.UserID != 0 {
		query = query.Where("user_id = ?", q.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var logs []db.LoginLog
	if err := query.Order("id DESC").Offset(q.Offset()).Limit(int(q.PageSize)).Find(&logs).Error; err != nil {
		return nil, nil, err
	}
	return logs, r.calculatePagination(total, q.BaseParams), nil
}
