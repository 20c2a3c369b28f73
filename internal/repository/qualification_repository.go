package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ro-recruiting/back-office-api/internal/models"
)

// QualificationRepository manages persistence for evaluation records.
type QualificationRepository struct {
	db *sqlx.DB
}

// NewQualificationRepository constructs a QualificationRepository.
func NewQualificationRepository(db *sqlx.DB) *QualificationRepository {
	return &QualificationRepository{db: db}
}

const qualificationColumns = `id, candidate_id, score, notes, role_type, certificate_issued, certificate_number, evaluated_by, evaluated_at`

// FindByCandidate fetches the candidate's evaluation record.
func (r *QualificationRepository) FindByCandidate(ctx context.Context, candidateID string) (*models.QualificationRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM qualified_candidates WHERE candidate_id = $1", qualificationColumns)
	var record models.QualificationRecord
	if err := r.db.GetContext(ctx, &record, query, candidateID); err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsByCandidate reports whether the candidate was already evaluated.
func (r *QualificationRepository) ExistsByCandidate(ctx context.Context, candidateID string) (bool, error) {
	const query = `SELECT 1 FROM qualified_candidates WHERE candidate_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, candidateID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check qualification: %w", err)
	}
	return true, nil
}

// Create inserts a new evaluation record.
func (r *QualificationRepository) Create(ctx context.Context, record *models.QualificationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.EvaluatedAt.IsZero() {
		record.EvaluatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO qualified_candidates (id, candidate_id, score, notes, role_type, certificate_issued, certificate_number, evaluated_by, evaluated_at)
        VALUES (:id, :candidate_id, :score, :notes, :role_type, :certificate_issued, :certificate_number, :evaluated_by, :evaluated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create qualification: %w", err)
	}
	return nil
}

// DeleteByCandidate removes the candidate's evaluation record, if any.
func (r *QualificationRepository) DeleteByCandidate(ctx context.Context, candidateID string) error {
	const query = `DELETE FROM qualified_candidates WHERE candidate_id = $1`
	if _, err := r.db.ExecContext(ctx, query, candidateID); err != nil {
		return fmt.Errorf("delete qualification: %w", err)
	}
	return nil
}

// CountCertificates counts evaluations that earned a certificate.
func (r *QualificationRepository) CountCertificates(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM qualified_candidates WHERE certificate_issued = true`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count certificates: %w", err)
	}
	return total, nil
}
