package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/sanitize"
)

type qualificationRepository interface {
	FindByCandidate(ctx context.Context, candidateID string) (*models.QualificationRecord, error)
	ExistsByCandidate(ctx context.Context, candidateID string) (bool, error)
	Create(ctx context.Context, record *models.QualificationRecord) error
}

type qualificationCandidateRepository interface {
	FindByID(ctx context.Context, id string) (*models.Candidate, error)
	SetQualified(ctx context.Context, id string, qualified bool) error
}

// QualificationService records candidate evaluations. A record is immutable
// once written; re-evaluation is rejected.
type QualificationService struct {
	repo       qualificationRepository
	candidates qualificationCandidateRepository
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewQualificationService constructs the qualification service.
func NewQualificationService(repo qualificationRepository, candidates qualificationCandidateRepository, validate *validator.Validate, logger *zap.Logger) *QualificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QualificationService{repo: repo, candidates: candidates, validator: validate, logger: logger}
}

// Qualify evaluates a candidate. Every record is numbered {ROLE}-{random};
// scores at or above the threshold mark the certificate as issued.
func (s *QualificationService) Qualify(ctx context.Context, candidateID string, req models.QualifyRequest) (*models.QualificationRecord, error) {
	if ok, msg := sanitize.ValidateUUID(candidateID, "candidate id"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}

	candidate, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}

	exists, err := s.repo.ExistsByCandidate(ctx, candidateID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check evaluation")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "candidate has already been evaluated")
	}

	// Every evaluation gets a number; the issued flag alone says whether the
	// score earned the certificate.
	number, err := certificateNumber(candidate.RoleType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to number evaluation")
	}
	record := &models.QualificationRecord{
		CandidateID:       candidateID,
		Score:             req.Score,
		Notes:             req.Notes,
		RoleType:          candidate.RoleType,
		CertificateIssued: req.Score >= models.CertificateThreshold,
		CertificateNumber: &number,
		EvaluatedBy:       req.EvaluatedBy,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save evaluation")
	}
	if err := s.candidates.SetQualified(ctx, candidateID, true); err != nil {
		s.logger.Sugar().Errorw("qualified flag update failed", "candidate_id", candidateID, "error", err)
	}
	return record, nil
}

// Get returns the candidate's evaluation record.
func (s *QualificationService) Get(ctx context.Context, candidateID string) (*models.QualificationRecord, error) {
	if ok, msg := sanitize.ValidateUUID(candidateID, "candidate id"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	record, err := s.repo.FindByCandidate(ctx, candidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evaluation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation")
	}
	return record, nil
}

const certificateAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// certificateNumber builds an identifier like NANNY-K7Q2M4XZ.
func certificateNumber(roleType string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate certificate number: %w", err)
	}
	for i, b := range buf {
		buf[i] = certificateAlphabet[int(b)%len(certificateAlphabet)]
	}
	role := strings.ToUpper(strings.TrimSpace(roleType))
	if role == "" {
		role = "GENERAL"
	}
	return role + "-" + string(buf), nil
}
