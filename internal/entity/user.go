package entity

import (
	"fmt"
	"strings"
)

// Role 用户角色
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// ParseRole 解析角色名称，兼容旧系统的 "siswa"/"guru" 写法
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "student", "siswa":
		return RoleStudent, nil
	case "staff", "guru", "teacher":
		return RoleStaff, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// User is the identity record seen by the authentication flows. It is only
// built by the repository lookups and is never mutated afterwards.
type User struct {
	ID           uint
	Username     string
	NIS          string
	Role         Role
	PasswordHash string
}

// IsAdmin 判断是否为管理员
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LoginLogQuery 登录日志查询参数
type LoginLogQuery struct {
	BaseParams
	UserID uint `json:"user_id" form:"user_id" query:"user_id"`
}
