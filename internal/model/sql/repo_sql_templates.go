package sql

import (
	"context"
	"fmt"

	"faceauth/internal/biometric"
	"faceauth/internal/entity/db"

	"gorm.io/gorm"
)

var slotColumns = [biometric.SlotCount]string{
	"face_encoding", "face_encoding2", "face_encoding3", "face_encoding4", "face_encoding5",
}

// GetTemplate reads the five template slots. A user without an enrolled
// primary slot yields a nil template.
func (r *GormRepository) GetTemplate(ctx context.Context, userID uint) (*biometric.Template, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var row db.User
	err := r.db.WithContext(ctx).
		Select(append([]string{"user_id"}, slotColumns[:]...)).
		Where("user_id = ?", userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}

	blobs := row.FaceSlots()
	if len(blobs[0]) == 0 {
		return nil, nil
	}

	var tmpl biometric.Template
	for i, blob := range blobs {
		emb, err := biometric.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("decode %s for user %d: %w", slotColumns[i], userID, err)
		}
		tmpl.Slots[i] = emb
	}
	return &tmpl, nil
}

// SaveTemplate writes all five slots in one conditional UPDATE so a
// concurrent reader sees either no template or the complete one. The write
// only applies while the primary slot is still empty.
func (r *GormRepository) SaveTemplate(ctx context.Context, userID uint, tmpl biometric.Template) error {
	if err := r.ready(); err != nil {
		return err
	}

	updates := make(map[string]interface{}, biometric.SlotCount)
	for i, emb := range tmpl.Slots {
		blob, err := emb.MarshalBinary()
		if err != nil {
			return fmt.Errorf("encode slot %d: %w", i+1, err)
		}
		updates[slotColumns[i]] = blob
	}

	result := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("user_id = ? AND face_encoding IS NULL", userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&db.User{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrAlreadyEnrolled
}
