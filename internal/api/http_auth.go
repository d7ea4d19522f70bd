package api

import (
	"context"
	"net/http"
	"time"

	"faceauth/internal/entity/converter"
	"faceauth/internal/entity/dto"
	"faceauth/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Login 人脸 + 密码登录
func (h *HTTPHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.LoginResponse{Envelope: dto.Envelope{
			Status:  dto.StatusError,
			Message: "Data tidak lengkap",
			Code:    string(service.CodeIncompleteInput),
		}})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := h.authService.Login(ctx, service.LoginRequest{
		Image:      req.ImageBase64,
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if result.Status != service.LoginSuccess {
		c.JSON(http.StatusOK, dto.LoginResponse{Envelope: dto.Envelope{
			Status:  dto.StatusRegister,
			Message: result.Message,
		}})
		return
	}

	user := result.User
	token, expiresAt, err := h.authManager.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to generate token")
		InternalError(c, "failed to create session")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Envelope:  dto.Envelope{Status: dto.StatusSuccess, Message: result.Message},
		UserID:    user.ID,
		Name:      user.Username,
		NIS:       user.NIS,
		Role:      string(user.Role),
		LoginTime: result.LoginTime,
		Token:     token,
		ExpiresAt: &expiresAt,
	})
}

// RegisterFace 注册五张人脸样本
func (h *HTTPHandler) RegisterFace(c *gin.Context) {
	var req dto.RegisterFaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Envelope{
			Status:  dto.StatusError,
			Message: "Data tidak lengkap atau jumlah gambar tidak mencukupi",
			Code:    string(service.CodeIncompleteInput),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	err := h.enrollmentService.Enroll(ctx, service.EnrollRequest{
		Identifier: req.Identifier,
		Role:       req.Role,
		Images:     req.ImageBase64,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Status: dto.StatusSuccess, Message: service.EnrolledMessage})
}

// Me 返回当前会话用户及其人脸注册状态
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tmpl, err := h.repo.GetTemplate(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load template")
		InternalError(c, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, converter.UserToSummary(user, tmpl.Enrolled()))
}
