package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = bcrypt.DefaultCost

// HashPassword 对明文密码进行 bcrypt 哈希处理
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), defaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword 验证明文密码是否与存储的哈希匹配。
// 哈希为空、格式错误或比对出错时一律返回 false。
func CheckPassword(hash, candidate string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if strings.TrimSpace(hash) == "" || candidate == "" {
		return false
	}
	// bcrypt 限制输入长度为 72 字节，超长的输入直接拒绝
	if len(candidate) > 72 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
