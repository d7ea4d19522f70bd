package db

import "time"

// User 表示持久化的用户账户以及五个人脸特征槽位。
type User struct {
	ID            uint      `gorm:"column:user_id;primarykey" json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Username      string    `gorm:"column:username;type:varchar(100);uniqueIndex;not null" json:"username"`
	NIS           *string   `gorm:"column:nis;type:varchar(50);uniqueIndex" json:"nis,omitempty"`
	Role          string    `gorm:"column:role;type:varchar(20);index;not null" json:"role"`
	PasswordHash  string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	FaceEncoding  []byte    `gorm:"column:face_encoding" json:"-"`
	FaceEncoding2 []byte    `gorm:"column:face_encoding2" json:"-"`
	FaceEncoding3 []byte    `gorm:"column:face_encoding3" json:"-"`
	FaceEncoding4 []byte    `gorm:"column:face_encoding4" json:"-"`
	FaceEncoding5 []byte    `gorm:"column:face_encoding5" json:"-"`
}

// TableName 指定表名。
func (User) TableName() string {
	return "users"
}

// FaceSlots 按槽位顺序返回五个特征 blob。
func (u *User) FaceSlots() [5][]byte {
	return [5][]byte{u.FaceEncoding, u.FaceEncoding2, u.FaceEncoding3, u.FaceEncoding4, u.FaceEncoding5}
}
