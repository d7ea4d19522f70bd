package sql

import (
	"errors"

	"faceauth/internal/entity"

	"gorm.io/gorm"
)

// ErrAlreadyEnrolled is returned by SaveTemplate when the primary slot is already populated.
var ErrAlreadyEnrolled = errors.New("face template already enrolled")

var errNotInitialised = errors.New("repository not initialised")

// GormRepository implements the template store using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ready() error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return nil
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount int64, params entity.BaseParams) *entity.Meta {
	return &entity.Meta{
		Total:    totalCount,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
}
