package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"faceauth/internal/api"
	"faceauth/internal/biometric"
	"faceauth/internal/config"
	"faceauth/internal/extractor"
	"faceauth/internal/metrics"
	"faceauth/internal/model"
	"faceauth/internal/service"
	"faceauth/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// 初始化logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// 初始化配置
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		return
	}

	repo, closeRepo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		return
	}
	defer func() {
		if err := closeRepo(); err != nil {
			logrus.WithError(err).Warn("failed to close database")
		}
	}()

	if err := model.SeedAdmin(context.Background(), repo, cfg); err != nil {
		logrus.WithError(err).Warn("failed to seed admin user")
	}

	archive, err := storage.NewArchive(cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise sample archive")
		return
	}
	if ensurer, ok := archive.(storage.BucketEnsurer); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := ensurer.EnsureBucket(ctx); err != nil {
			logrus.WithError(err).Warn("failed to prepare sample bucket")
		}
		cancel()
	}

	m := metrics.NewMetrics(cfg.MetricsNamespace)

	remote, err := extractor.NewRemoteExtractor(cfg.ExtractorURL, cfg.ExtractorAPIKey, time.Duration(cfg.ExtractorTimeoutSeconds)*time.Second)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise embedding extractor")
		return
	}
	pool := extractor.NewPool(remote, cfg.ExtractorWorkers, cfg.ExtractorQueue, m)

	audit, err := service.NewAuditLogger(repo, cfg.AuditTimezone)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise audit logger")
		return
	}
	matcher := biometric.NewMatcher(cfg.MatchTolerance, biometric.ParseStrategy(cfg.MatchStrategy))
	authSvc := service.NewAuthService(repo, pool, matcher, audit, m)
	enrollSvc := service.NewEnrollmentService(repo, pool, archive, m)

	httpHandler, err := api.NewHTTPHandler(cfg, repo, authSvc, enrollSvc, m)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		return
	}

	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// 添加中间件
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())

	httpHandler.RegisterRoutes(r)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	logrus.WithFields(logrus.Fields{
		"host":           serverHost,
		"match_strategy": matcher.Strategy,
		"workers":        cfg.ExtractorWorkers,
		"queue":          cfg.ExtractorQueue,
	}).Info("服务器启动")

	// 创建HTTP服务器
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  300 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Error("服务器启动失败")
	}
}

// CORSMiddleware CORS跨域中间件，允许携带凭据，因此回显请求来源而不是使用通配符
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		} else {
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware 日志记录中间件
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		// 处理请求
		c.Next()
		// 记录请求结束
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
