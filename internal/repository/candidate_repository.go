package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ro-recruiting/back-office-api/internal/models"
)

// CandidateRepository manages persistence for candidate records. Values go in
// and come out exactly as stored; field encryption happens above this layer.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository constructs a CandidateRepository.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

const candidateColumns = `id, full_name, birth_date, national_id, id_document, email, phone, whatsapp,
        address, street_number, address_extra, district, city, role_type, status, qualified,
        ficha_generated, profile, created_at, updated_at`

// List returns candidates matching the provided filters. Search matches only
// plaintext columns; encrypted fields are not searchable.
func (r *CandidateRepository) List(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, int, error) {
	base := "FROM candidates"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.RoleType != "" {
		conditions = append(conditions, fmt.Sprintf("role_type = $%d", len(args)+1))
		args = append(args, filter.RoleType)
	}
	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = $%d", len(args)+1))
		args = append(args, strings.ToLower(filter.City))
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Qualified != nil {
		conditions = append(conditions, fmt.Sprintf("qualified = $%d", len(args)+1))
		args = append(args, *filter.Qualified)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(full_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"created_at": "created_at",
		"status":     "status",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", candidateColumns, base, column, order, size, offset)

	var candidates []models.Candidate
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list candidates: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count candidates: %w", err)
	}
	return candidates, total, nil
}

// FindByID fetches a candidate by ID.
func (r *CandidateRepository) FindByID(ctx context.Context, id string) (*models.Candidate, error) {
	query := fmt.Sprintf("SELECT %s FROM candidates WHERE id = $1", candidateColumns)
	var candidate models.Candidate
	if err := r.db.GetContext(ctx, &candidate, query, id); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// Create inserts a new candidate record.
func (r *CandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = now
	}
	candidate.UpdatedAt = now
	const query = `INSERT INTO candidates (id, full_name, birth_date, national_id, id_document, email, phone, whatsapp,
        address, street_number, address_extra, district, city, role_type, status, qualified, ficha_generated, profile, created_at, updated_at)
        VALUES (:id, :full_name, :birth_date, :national_id, :id_document, :email, :phone, :whatsapp,
        :address, :street_number, :address_extra, :district, :city, :role_type, :status, :qualified, :ficha_generated, :profile, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, candidate); err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

// Update modifies an existing candidate.
func (r *CandidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	candidate.UpdatedAt = time.Now().UTC()
	const query = `UPDATE candidates SET full_name = :full_name, birth_date = :birth_date, national_id = :national_id,
        id_document = :id_document, email = :email, phone = :phone, whatsapp = :whatsapp, address = :address,
        street_number = :street_number, address_extra = :address_extra, district = :district, city = :city,
        role_type = :role_type, status = :status, qualified = :qualified, ficha_generated = :ficha_generated,
        profile = :profile, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, candidate); err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	return nil
}

// UpdateStatus sets only the lifecycle status.
func (r *CandidateRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE candidates SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update candidate status: %w", err)
	}
	return nil
}

// SetQualified flips the qualification flag.
func (r *CandidateRepository) SetQualified(ctx context.Context, id string, qualified bool) error {
	const query = `UPDATE candidates SET qualified = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, qualified, time.Now().UTC()); err != nil {
		return fmt.Errorf("set candidate qualified: %w", err)
	}
	return nil
}

// SetFichaGenerated records that a ficha PDF has been produced.
func (r *CandidateRepository) SetFichaGenerated(ctx context.Context, id string) error {
	const query = `UPDATE candidates SET ficha_generated = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("set ficha generated: %w", err)
	}
	return nil
}

// Delete removes a candidate permanently.
func (r *CandidateRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM candidates WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus aggregates candidates per lifecycle status.
func (r *CandidateRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM candidates GROUP BY status`
	rows := []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count candidates by status: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
