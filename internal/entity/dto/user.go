package dto

import "faceauth/internal/entity/common"

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID       uint   `json:"user_id"`
	Username string `json:"username"`
	NIS      string `json:"nis,omitempty"`
	Role     string `json:"role"`
	Enrolled bool   `json:"enrolled"`
}

// LoginLogItem is one audit ledger entry.
type LoginLogItem struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	LoginTime string `json:"login_time"`
}

// LoginLogListResponse is the paginated audit ledger.
type LoginLogListResponse struct {
	Items []LoginLogItem `json:"items"`
	Meta  *common.Meta   `json:"meta"`
}
