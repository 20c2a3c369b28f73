package models

import "time"

// CertificateThreshold is the minimum evaluation score that earns a
// certificate.
const CertificateThreshold = 7.0

// QualificationRecord stores the outcome of a candidate's evaluation. One
// record per candidate; re-evaluation is rejected.
type QualificationRecord struct {
	ID                string    `db:"id" json:"id"`
	CandidateID       string    `db:"candidate_id" json:"candidate_id"`
	Score             float64   `db:"score" json:"score"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
	RoleType          string    `db:"role_type" json:"role_type"`
	CertificateIssued bool      `db:"certificate_issued" json:"certificate_issued"`
	CertificateNumber *string   `db:"certificate_number" json:"certificate_number,omitempty"`
	EvaluatedBy       string    `db:"evaluated_by" json:"evaluated_by"`
	EvaluatedAt       time.Time `db:"evaluated_at" json:"evaluated_at"`
}

// QualifyRequest is the evaluation payload.
type QualifyRequest struct {
	Score       float64 `json:"score" validate:"min=0,max=10"`
	Notes       *string `json:"notes,omitempty"`
	EvaluatedBy string  `json:"evaluated_by" validate:"required"`
}
