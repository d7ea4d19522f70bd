package converter

import (
	"faceauth/internal/entity"
	"faceauth/internal/entity/db"
	"faceauth/internal/entity/dto"
)

// UserFromDB converts a persisted row into the immutable domain value.
func UserFromDB(u *db.User) *entity.User {
	if u == nil {
		return nil
	}
	nis := ""
	if u.NIS != nil {
		nis = *u.NIS
	}
	return &entity.User{
		ID:           u.ID,
		Username:     u.Username,
		NIS:          nis,
		Role:         entity.Role(u.Role),
		PasswordHash: u.PasswordHash,
	}
}

// UserToSummary converts a domain user to dto.UserSummary.
func UserToSummary(u *entity.User, enrolled bool) dto.UserSummary {
	if u == nil {
		return dto.UserSummary{}
	}
	return dto.UserSummary{
		ID:       u.ID,
		Username: u.Username,
		NIS:      u.NIS,
		Role:     string(u.Role),
		Enrolled: enrolled,
	}
}

// LoginLogsToItems converts audit rows to response items.
func LoginLogsToItems(logs []db.LoginLog) []dto.LoginLogItem {
	items := make([]dto.LoginLogItem, len(logs))
	for i, l := range logs {
		items[i] = dto.LoginLogItem{ID: l.ID, UserID: l.UserID, LoginTime: l.LoginTime}
	}
	return items
}
