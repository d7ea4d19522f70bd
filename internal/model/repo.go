package model

import (
	"context"

	"faceauth/internal/biometric"
	"faceauth/internal/entity"
	"faceauth/internal/entity/db"
	"faceauth/internal/model/sql"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrAlreadyEnrolled 用户已经注册过人脸
	ErrAlreadyEnrolled = sql.ErrAlreadyEnrolled
)

// Repository 定义模板存储（用户、人脸模板、登录日志）的操作接口
type Repository interface {
	// 用户查询
	FindUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	FindUserForEnrollment(ctx context.Context, identifier string, role entity.Role) (*entity.User, error)
	GetUserByID(ctx context.Context, id uint) (*entity.User, error)
	CreateUser(ctx context.Context, user *db.User) error
	CountUsers(ctx context.Context) (int64, error)

	// 人脸模板，只写一次
	GetTemplate(ctx context.Context, userID uint) (*biometric.Template, error)
	SaveTemplate(ctx context.Context, userID uint, tmpl biometric.Template) error

	// 登录日志，只追加
	AppendLoginEvent(ctx context.Context, event *db.LoginLog) error
	ListLoginEvents(ctx context.Context, params *entity.LoginLogQuery) ([]db.LoginLog, *entity.Meta, error)
}

var _ Repository = (*sql.GormRepository)(nil)
