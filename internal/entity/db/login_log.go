package db

// LoginLog 登录审计记录，只追加不修改。
type LoginLog struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	UserID    uint   `gorm:"column:user_id;index;not null" json:"user_id"`
	LoginTime string `gorm:"column:login_time;type:varchar(19);not null" json:"login_time"`
}

// TableName 指定表名。
func (LoginLog) TableName() string {
	return "login_logs"
}
