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

// LinkRepository manages persistence for candidate/opening links.
type LinkRepository struct {
	db *sqlx.DB
}

// NewLinkRepository constructs a LinkRepository.
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// activeCondition is the SQL rendering of the active set: every status that
// models.IsTerminalStatus rejects. Keep the two in sync.
const activeCondition = `process_status NOT IN ('hired', 'rejected', 'cancelled', 'finalized', 'expired')`

const linkColumns = `id, candidate_id, opening_id, process_status, observations, sent_at, interview_at, finalized_at, created_at, updated_at`

const linkDetailColumns = `l.id, l.candidate_id, l.opening_id, l.process_status, l.observations, l.sent_at,
        l.interview_at, l.finalized_at, l.created_at, l.updated_at,
        c.full_name AS candidate_name, c.role_type AS candidate_role_type,
        o.title AS opening_title, o.status_detailed AS opening_status`

// List returns link details matching the provided filters, newest first.
func (r *LinkRepository) List(ctx context.Context, filter models.LinkFilter) ([]models.LinkDetail, int, error) {
	base := `FROM candidate_opening_links l
        JOIN candidates c ON c.id = l.candidate_id
        JOIN job_openings o ON o.id = l.opening_id`
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.CandidateID != "" {
		conditions = append(conditions, fmt.Sprintf("l.candidate_id = $%d", len(args)+1))
		args = append(args, filter.CandidateID)
	}
	if filter.OpeningID != "" {
		conditions = append(conditions, fmt.Sprintf("l.opening_id = $%d", len(args)+1))
		args = append(args, filter.OpeningID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.process_status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "l."+activeCondition)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY l.sent_at DESC LIMIT %d OFFSET %d", linkDetailColumns, base, size, offset)

	var links []models.LinkDetail
	if err := r.db.SelectContext(ctx, &links, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list links: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count links: %w", err)
	}
	return links, total, nil
}

// FindByID fetches a link by ID.
func (r *LinkRepository) FindByID(ctx context.Context, id string) (*models.CandidateOpeningLink, error) {
	query := fmt.Sprintf("SELECT %s FROM candidate_opening_links WHERE id = $1", linkColumns)
	var link models.CandidateOpeningLink
	if err := r.db.GetContext(ctx, &link, query, id); err != nil {
		return nil, err
	}
	return &link, nil
}

// FindActiveByCandidate returns the candidate's active link, or nil when the
// candidate is free.
func (r *LinkRepository) FindActiveByCandidate(ctx context.Context, candidateID string) (*models.CandidateOpeningLink, error) {
	query := fmt.Sprintf("SELECT %s FROM candidate_opening_links WHERE candidate_id = $1 AND %s LIMIT 1", linkColumns, activeCondition)
	var link models.CandidateOpeningLink
	if err := r.db.GetContext(ctx, &link, query, candidateID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active link: %w", err)
	}
	return &link, nil
}

// CountActiveByOpening counts links holding a slot on the opening.
func (r *LinkRepository) CountActiveByOpening(ctx context.Context, openingID string) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM candidate_opening_links WHERE opening_id = $1 AND %s", activeCondition)
	var total int
	if err := r.db.GetContext(ctx, &total, query, openingID); err != nil {
		return 0, fmt.Errorf("count active links by opening: %w", err)
	}
	return total, nil
}

// CountActiveByCandidate counts the candidate's active links excluding the
// given link ID. Used when deciding whether a cascade should release the
// candidate.
func (r *LinkRepository) CountActiveByCandidate(ctx context.Context, candidateID, excludeLinkID string) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM candidate_opening_links WHERE candidate_id = $1 AND id <> $2 AND %s", activeCondition)
	var total int
	if err := r.db.GetContext(ctx, &total, query, candidateID, excludeLinkID); err != nil {
		return 0, fmt.Errorf("count active links by candidate: %w", err)
	}
	return total, nil
}

// ListActiveOlderThan returns active links whose send date is before the
// cutoff. The expiry sweep feeds on this.
func (r *LinkRepository) ListActiveOlderThan(ctx context.Context, cutoff time.Time) ([]models.CandidateOpeningLink, error) {
	query := fmt.Sprintf("SELECT %s FROM candidate_opening_links WHERE sent_at < $1 AND %s ORDER BY sent_at ASC", linkColumns, activeCondition)
	var links []models.CandidateOpeningLink
	if err := r.db.SelectContext(ctx, &links, query, cutoff); err != nil {
		return nil, fmt.Errorf("list stale links: %w", err)
	}
	return links, nil
}

// ListByOpening returns every link on an opening, active or not.
func (r *LinkRepository) ListByOpening(ctx context.Context, openingID string) ([]models.CandidateOpeningLink, error) {
	query := fmt.Sprintf("SELECT %s FROM candidate_opening_links WHERE opening_id = $1 ORDER BY sent_at DESC", linkColumns)
	var links []models.CandidateOpeningLink
	if err := r.db.SelectContext(ctx, &links, query, openingID); err != nil {
		return nil, fmt.Errorf("list links by opening: %w", err)
	}
	return links, nil
}

// Create inserts a new link.
func (r *LinkRepository) Create(ctx context.Context, link *models.CandidateOpeningLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	if link.SentAt.IsZero() {
		link.SentAt = now
	}
	link.UpdatedAt = now
	const query = `INSERT INTO candidate_opening_links (id, candidate_id, opening_id, process_status, observations, sent_at, interview_at, finalized_at, created_at, updated_at)
        VALUES (:id, :candidate_id, :opening_id, :process_status, :observations, :sent_at, :interview_at, :finalized_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	return nil
}

// Update writes every mutable link field. Candidate swaps and deadline
// resets go through here too, so candidate_id and sent_at are included.
func (r *LinkRepository) Update(ctx context.Context, link *models.CandidateOpeningLink) error {
	link.UpdatedAt = time.Now().UTC()
	const query = `UPDATE candidate_opening_links SET candidate_id = :candidate_id, process_status = :process_status,
        observations = :observations, sent_at = :sent_at, interview_at = :interview_at,
        finalized_at = :finalized_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("update link: %w", err)
	}
	return nil
}

// Delete removes a link permanently.
func (r *LinkRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM candidate_opening_links WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountActive counts all links in the active set.
func (r *LinkRepository) CountActive(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM candidate_opening_links WHERE %s", activeCondition)
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count active links: %w", err)
	}
	return total, nil
}

// CountHiredSince counts links hired on or after the given time.
func (r *LinkRepository) CountHiredSince(ctx context.Context, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM candidate_opening_links WHERE process_status = 'hired' AND finalized_at >= $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, since); err != nil {
		return 0, fmt.Errorf("count hired links: %w", err)
	}
	return total, nil
}
