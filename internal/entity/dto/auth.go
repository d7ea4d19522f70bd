package dto

import "time"

// 响应状态
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusRegister = "register"
)

// LoginRequest 人脸 + 密码登录请求。
type LoginRequest struct {
	ImageBase64 string `json:"image_base64"`
	Identifier  string `json:"identifier"`
	Password    string `json:"password"`
}

// RegisterFaceRequest 人脸注册请求，需要正好五张图片。
type RegisterFaceRequest struct {
	ImageBase64 []string `json:"image_base64"`
	Identifier  string   `json:"identifier"`
	Role        string   `json:"role"`
}

// Envelope 统一响应结构。
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Sample  int    `json:"sample,omitempty"`
}

// LoginResponse 登录成功时额外返回用户信息和会话令牌。
type LoginResponse struct {
	Envelope
	UserID    uint       `json:"user_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	NIS       string     `json:"nis,omitempty"`
	Role      string     `json:"role,omitempty"`
	LoginTime string     `json:"login_time,omitempty"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
