package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"faceauth/internal/biometric"
	"faceauth/internal/entity"
	"faceauth/internal/extractor"
	"faceauth/internal/metrics"
	"faceauth/internal/model"
	"faceauth/internal/storage"

	"github.com/sirupsen/logrus"
)

// archiveTimeout bounds the best-effort sample upload after a successful enrollment.
const archiveTimeout = 30 * time.Second

// EnrollRequest carries one face enrollment attempt.
type EnrollRequest struct {
	Identifier string
	Role       string
	Images     []string
}

// EnrollmentService captures the five-sample face template of a user, exactly once.
type EnrollmentService struct {
	repo      model.Repository
	extractor extractor.Extractor
	archive   storage.Archive
	metrics   *metrics.Metrics
}

// NewEnrollmentService 创建注册服务，archive 与 m 均可为 nil
func NewEnrollmentService(repo model.Repository, ext extractor.Extractor, archive storage.Archive, m *metrics.Metrics) *EnrollmentService {
	return &EnrollmentService{
		repo:      repo,
		extractor: ext,
		archive:   archive,
		metrics:   m,
	}
}

// Enroll validates the request, extracts one embedding per sample and stores
// the template atomically. Nothing is written unless all five samples yield a face.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) error {
	err := s.enroll(ctx, req)
	s.metrics.RecordEnrollment(outcomeLabel(err))
	return err
}

func (s *EnrollmentService) enroll(ctx context.Context, req EnrollRequest) error {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || strings.TrimSpace(req.Role) == "" || len(req.Images) != biometric.SlotCount {
		return newError(CodeIncompleteInput, msgIncompleteEnroll)
	}
	for _, img := range req.Images {
		if strings.TrimSpace(img) == "" {
			return newError(CodeIncompleteInput, msgIncompleteEnroll)
		}
	}
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		return &Error{Code: CodeIncompleteInput, Message: msgIncompleteEnroll, Err: err}
	}
	if s.repo == nil || s.extractor == nil {
		return internalError(errors.New("enrollment service not configured"))
	}

	log := logrus.WithFields(logrus.Fields{"identifier": identifier, "role": role})

	user, err := s.repo.FindUserForEnrollment(ctx, identifier, role)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return newError(CodeUserNotFound, msgUserNotFound)
		}
		log.WithError(err).Error("enrollment lookup failed")
		return internalError(err)
	}
	log = log.WithField("user_id", user.ID)

	existing, err := s.repo.GetTemplate(ctx, user.ID)
	if err != nil {
		log.WithError(err).Error("load template failed")
		return internalError(err)
	}
	if existing.Enrolled() {
		return newError(CodeAlreadyEnrolled, msgAlreadyEnrolled)
	}

	embeddings := make([]biometric.Embedding, 0, biometric.SlotCount)
	formats := make([]string, 0, biometric.SlotCount)
	for i, payload := range req.Images {
		sample := i + 1
		frame, err := extractor.DecodeImage(payload)
		if err != nil {
			return &Error{Code: CodeIncompleteInput, Message: msgInvalidImage, Sample: sample, Err: err}
		}
		found, err := s.extractor.Extract(ctx, frame)
		if err != nil {
			return extractionError(log.WithField("sample", sample), err)
		}
		emb, ok := extractor.FirstEmbedding(found)
		if !ok {
			return &Error{Code: CodeNoFaceDetected, Message: msgNoFaceInSample, Sample: sample}
		}
		embeddings = append(embeddings, emb)
		formats = append(formats, frame.Format)
	}

	tmpl, err := biometric.NewTemplate(embeddings)
	if err != nil {
		log.WithError(err).Error("extractor returned malformed embeddings")
		return internalError(err)
	}

	if err := s.repo.SaveTemplate(ctx, user.ID, tmpl); err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyEnrolled):
			return newError(CodeAlreadyEnrolled, msgAlreadyEnrolled)
		case errors.Is(err, model.ErrNotFound):
			return newError(CodeUserNotFound, msgUserNotFound)
		}
		log.WithError(err).Error("save template failed")
		return internalError(err)
	}
	log.Info("face template enrolled")

	s.archiveSamples(ctx, user.ID, req.Images, formats)
	return nil
}

// archiveSamples uploads the raw samples. Failures are logged and never
// surface to the caller since the template is already committed.
func (s *EnrollmentService) archiveSamples(ctx context.Context, userID uint, images []string, formats []string) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	for i, payload := range images {
		log := logrus.WithFields(logrus.Fields{"user_id": userID, "sample": i + 1})
		data, err := extractor.DecodePayload(payload)
		if err != nil {
			log.WithError(err).Warn("skip archiving sample")
			continue
		}
		key := storage.SampleKey{UserID: userID, Sample: i + 1, Extension: formats[i]}
		path, err := s.archive.Save(ctx, data, key)
		if err != nil {
			log.WithError(err).Warn("failed to archive enrollment sample")
			continue
		}
		log.WithField("path", path).Debug("enrollment sample archived")
	}
}

func extractionError(log *logrus.Entry, err error) *Error {
	if errors.Is(err, extractor.ErrPoolBusy) {
		log.Warn("extraction pool saturated")
		return busyError(err)
	}
	log.WithError(err).Error("embedding extraction failed")
	return internalError(err)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	return string(CodeOf(err))
}
