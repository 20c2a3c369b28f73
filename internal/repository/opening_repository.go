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

// OpeningRepository manages persistence for job openings and their notes.
type OpeningRepository struct {
	db *sqlx.DB
}

// NewOpeningRepository constructs an OpeningRepository.
func NewOpeningRepository(db *sqlx.DB) *OpeningRepository {
	return &OpeningRepository{db: db}
}

const openingColumns = `id, title, role_type, description, city, district, salary, workload,
        client_name, client_email, client_phone, urgent, status, status_detailed, filled_at, created_at, updated_at`

// List returns openings matching the provided filters. Status filters match
// the detailed status.
func (r *OpeningRepository) List(ctx context.Context, filter models.OpeningFilter) ([]models.JobOpening, int, error) {
	base := "FROM job_openings"
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
		conditions = append(conditions, fmt.Sprintf("status_detailed = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Urgent != nil {
		conditions = append(conditions, fmt.Sprintf("urgent = $%d", len(args)+1))
		args = append(args, *filter.Urgent)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"title":      "title",
		"created_at": "created_at",
		"status":     "status_detailed",
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", openingColumns, base, column, order, size, offset)

	var openings []models.JobOpening
	if err := r.db.SelectContext(ctx, &openings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list openings: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count openings: %w", err)
	}
	return openings, total, nil
}

// FindByID fetches an opening by ID.
func (r *OpeningRepository) FindByID(ctx context.Context, id string) (*models.JobOpening, error) {
	query := fmt.Sprintf("SELECT %s FROM job_openings WHERE id = $1", openingColumns)
	var opening models.JobOpening
	if err := r.db.GetContext(ctx, &opening, query, id); err != nil {
		return nil, err
	}
	return &opening, nil
}

// Create inserts a new opening. The coarse status is derived from the
// detailed one before writing.
func (r *OpeningRepository) Create(ctx context.Context, opening *models.JobOpening) error {
	if opening.ID == "" {
		opening.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if opening.CreatedAt.IsZero() {
		opening.CreatedAt = now
	}
	opening.UpdatedAt = now
	opening.Status = models.CoarseStatus(opening.StatusDetailed)
	const query = `INSERT INTO job_openings (id, title, role_type, description, city, district, salary, workload,
        client_name, client_email, client_phone, urgent, status, status_detailed, filled_at, created_at, updated_at)
        VALUES (:id, :title, :role_type, :description, :city, :district, :salary, :workload,
        :client_name, :client_email, :client_phone, :urgent, :status, :status_detailed, :filled_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, opening); err != nil {
		return fmt.Errorf("create opening: %w", err)
	}
	return nil
}

// Update modifies an existing opening, keeping the coarse status mirrored.
func (r *OpeningRepository) Update(ctx context.Context, opening *models.JobOpening) error {
	opening.UpdatedAt = time.Now().UTC()
	opening.Status = models.CoarseStatus(opening.StatusDetailed)
	const query = `UPDATE job_openings SET title = :title, role_type = :role_type, description = :description,
        city = :city, district = :district, salary = :salary, workload = :workload, client_name = :client_name,
        client_email = :client_email, client_phone = :client_phone, urgent = :urgent, status = :status,
        status_detailed = :status_detailed, filled_at = :filled_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, opening); err != nil {
		return fmt.Errorf("update opening: %w", err)
	}
	return nil
}

// UpdateStatus sets the detailed status and its coarse mirror in one write.
func (r *OpeningRepository) UpdateStatus(ctx context.Context, id, detailed string, filledAt *time.Time) error {
	const query = `UPDATE job_openings SET status_detailed = $2, status = $3, filled_at = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, detailed, models.CoarseStatus(detailed), filledAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("update opening status: %w", err)
	}
	return nil
}

// Delete removes an opening permanently.
func (r *OpeningRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM job_openings WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete opening: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus aggregates openings per detailed status.
func (r *OpeningRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status_detailed, COUNT(*) AS total FROM job_openings GROUP BY status_detailed`
	rows := []struct {
		Status string `db:"status_detailed"`
		Total  int    `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count openings by status: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// CountUrgentActive counts urgent openings that are still being worked.
func (r *OpeningRepository) CountUrgentActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM job_openings WHERE urgent = true AND status_detailed IN ('active', 'in_progress')`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count urgent openings: %w", err)
	}
	return total, nil
}

// AddNote appends a note to an opening.
func (r *OpeningRepository) AddNote(ctx context.Context, note *models.OpeningNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO opening_notes (id, opening_id, category, body, author, created_at)
        VALUES (:id, :opening_id, :category, :body, :author, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("add opening note: %w", err)
	}
	return nil
}

// ListNotes returns an opening's notes, newest first.
func (r *OpeningRepository) ListNotes(ctx context.Context, openingID string) ([]models.OpeningNote, error) {
	const query = `SELECT id, opening_id, category, body, author, created_at
        FROM opening_notes WHERE opening_id = $1 ORDER BY created_at DESC`
	var notes []models.OpeningNote
	if err := r.db.SelectContext(ctx, &notes, query, openingID); err != nil {
		return nil, fmt.Errorf("list opening notes: %w", err)
	}
	return notes, nil
}

// DeleteNotes removes all notes for an opening.
func (r *OpeningRepository) DeleteNotes(ctx context.Context, openingID string) error {
	const query = `DELETE FROM opening_notes WHERE opening_id = $1`
	if _, err := r.db.ExecContext(ctx, query, openingID); err != nil {
		return fmt.Errorf("delete opening notes: %w", err)
	}
	return nil
}
