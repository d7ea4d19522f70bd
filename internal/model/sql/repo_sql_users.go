package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"faceauth/internal/entity"
	"faceauth/internal/entity/converter"
	"faceauth/internal/entity/db"

	"gorm.io/gorm"
)

// userColumns excludes the template blobs, which are only read by GetTemplate.
var userColumns = []string{"user_id", "username", "nis", "role", "password", "created_at", "updated_at"}

// FindUserByIdentifier looks a user up by student number first, then by username.
func (r *GormRepository) FindUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, fmt.Errorf("identifier is empty")
	}

	var user db.User
	err := r.db.WithContext(ctx).Select(userColumns).Where("nis = ?", trimmed).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).Select(userColumns).Where("username = ?", trimmed).First(&user).Error
	}
	if err != nil {
		return nil, err
	}
	return converter.UserFromDB(&user), nil
}

// FindUserForEnrollment keys students on their student number and every
// other role on username plus role.
func (r *GormRepository) FindUserForEnrollment(ctx context.Context, identifier string, role entity.Role) (*entity.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, fmt.Errorf("identifier is empty")
	}

	query := r.db.WithContext(ctx).Select(userColumns)
	if role == entity.RoleStudent {
		query = query.Where("nis = ? AND role = ?", trimmed, string(entity.RoleStudent))
	} else {
		query = query.Where("username = ? AND role = ?", trimmed, string(role))
	}

	var user db.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return converter.UserFromDB(&user), nil
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.User, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var user db.User
	if err := r.db.WithContext(ctx).Select(userColumns).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return converter.UserFromDB(&user), nil
}

// CreateUser persists a new user record. Template slots are never written
// here; SaveTemplate is the only path that populates them.
func (r *GormRepository) CreateUser(ctx context.Context, user *db.User) error {
	if err := r.ready(); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	return r.db.WithContext(ctx).Omit(slotColumns[:]...).Create(user).Error
}

// CountUsers returns total user count.
func (r *GormRepository) CountUsers(ctx context.Context) (int64, error) {
	if err := r.ready(); err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&db.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
