package api

import (
	"net/http"
	"time"

	"faceauth/internal/auth"
	"faceauth/internal/config"
	"faceauth/internal/metrics"
	"faceauth/internal/model"
	"faceauth/internal/service"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds a single login or enrollment including extraction.
const requestTimeout = 2 * time.Minute

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	authManager *auth.Manager
	metrics     *metrics.Metrics

	// 服务层
	authService       *service.AuthService
	enrollmentService *service.EnrollmentService
}

// NewHTTPHandler 创建 HTTP 处理器实例
func NewHTTPHandler(cfg config.Config, repo model.Repository, authSvc *service.AuthService, enrollSvc *service.EnrollmentService, m *metrics.Metrics) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		authManager:       authManager,
		metrics:           m,
		authService:       authSvc,
		enrollmentService: enrollSvc,
	}, nil
}

// RegisterRoutes 注册全部路由，旧客户端使用的根路径与 /api 前缀同时保留
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	r.POST("/login", h.Login)
	r.POST("/register_face", h.RegisterFace)

	apiGroup := r.Group("/api")
	apiGroup.POST("/login", h.Login)
	apiGroup.POST("/register_face", h.RegisterFace)

	protected := apiGroup.Group("")
	protected.Use(h.AuthMiddleware())
	protected.GET("/me", h.Me)
	protected.GET("/login-logs", h.ListLoginLogs)
}
