package service

import (
	"context"
	"errors"
	"strings"

	"faceauth/internal/auth"
	"faceauth/internal/biometric"
	"faceauth/internal/entity"
	"faceauth/internal/extractor"
	"faceauth/internal/metrics"
	"faceauth/internal/model"

	"github.com/sirupsen/logrus"
)

// LoginStatus mirrors the status field of the response envelope.
type LoginStatus string

const (
	LoginSuccess  LoginStatus = "success"
	LoginRegister LoginStatus = "register"
)

// LoginRequest carries one face plus password login attempt.
type LoginRequest struct {
	Image      string
	Identifier string
	Password   string
}

// LoginResult is returned for the two non-error outcomes. User and LoginTime
// are only set on success.
type LoginResult struct {
	Status    LoginStatus
	Message   string
	User      *entity.User
	LoginTime string
	Distance  float64
}

// AuthService orchestrates the two-factor login.
type AuthService struct {
	repo      model.Repository
	extractor extractor.Extractor
	matcher   biometric.Matcher
	audit     *AuditLogger
	metrics   *metrics.Metrics
}

// NewAuthService 创建登录编排服务
func NewAuthService(repo model.Repository, ext extractor.Extractor, matcher biometric.Matcher, audit *AuditLogger, m *metrics.Metrics) *AuthService {
	return &AuthService{
		repo:      repo,
		extractor: ext,
		matcher:   matcher,
		audit:     audit,
		metrics:   m,
	}
}

// Login runs lookup, password, template, extraction and match in that order
// and stops at the first failure. Only a match writes to the login ledger.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	result, err := s.login(ctx, req)
	switch {
	case err != nil:
		s.metrics.RecordLogin(string(CodeOf(err)))
	case result != nil:
		s.metrics.RecordLogin(string(result.Status))
	}
	return result, err
}

func (s *AuthService) login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" || strings.TrimSpace(req.Image) == "" {
		return nil, newError(CodeIncompleteInput, msgIncompleteLogin)
	}
	if s.repo == nil || s.extractor == nil || s.audit == nil {
		return nil, internalError(errors.New("auth service not configured"))
	}

	log := logrus.WithField("identifier", identifier)

	user, err := s.repo.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, newError(CodeUserNotFound, msgUserNotFound)
		}
		log.WithError(err).Error("login lookup failed")
		return nil, internalError(err)
	}
	log = log.WithField("user_id", user.ID)

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, newError(CodeInvalidPassword, msgInvalidPassword)
	}

	tmpl, err := s.repo.GetTemplate(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("load template failed")
		return nil, internalError(err)
	}
	if !tmpl.Enrolled() {
		return nil, newError(CodeNoTemplate, msgNoTemplate)
	}

	frame, err := extractor.DecodeImage(req.Image)
	if err != nil {
		return nil, &Error{Code: CodeIncompleteInput, Message: msgInvalidImage, Err: err}
	}
	found, err := s.extractor.Extract(ctx, frame)
	if err != nil {
		return nil, extractionError(log, err)
	}
	live, ok := extractor.FirstEmbedding(found)
	if !ok {
		return nil, newError(CodeNoFaceDetected, msgNoFaceDetected)
	}

	decision := s.matcher.Match(live, tmpl)
	switch decision.Outcome {
	case biometric.OutcomeMatched:
	case biometric.OutcomeNotMatched:
		s.metrics.ObserveDistance(decision.Distance)
		log.WithField("distance", decision.Distance).Info("face not recognised")
		return &LoginResult{Status: LoginRegister, Message: msgNotRecognised, Distance: decision.Distance}, nil
	case biometric.OutcomeNoTemplate:
		return nil, newError(CodeNoTemplate, msgNoTemplate)
	default:
		return nil, newError(CodeNoFaceDetected, msgNoFaceDetected)
	}
	s.metrics.ObserveDistance(decision.Distance)

	loginTime, err := s.audit.Record(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("record login event failed")
		return nil, internalError(err)
	}
	log.WithFields(logrus.Fields{"distance": decision.Distance, "slot": decision.Slot}).Info("login succeeded")

	return &LoginResult{
		Status:    LoginSuccess,
		Message:   msgLoginSuccess,
		User:      user,
		LoginTime: loginTime,
		Distance:  decision.Distance,
	}, nil
}
