package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/sanitize"
)

// OpeningCapacity is the maximum number of candidates that may be worked on
// one opening at the same time.
const OpeningCapacity = 5

type lifecycleLinkRepository interface {
	List(ctx context.Context, filter models.LinkFilter) ([]models.LinkDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.CandidateOpeningLink, error)
	FindActiveByCandidate(ctx context.Context, candidateID string) (*models.CandidateOpeningLink, error)
	CountActiveByOpening(ctx context.Context, openingID string) (int, error)
	CountActiveByCandidate(ctx context.Context, candidateID, excludeLinkID string) (int, error)
	ListActiveOlderThan(ctx context.Context, cutoff time.Time) ([]models.CandidateOpeningLink, error)
	Create(ctx context.Context, link *models.CandidateOpeningLink) error
	Update(ctx context.Context, link *models.CandidateOpeningLink) error
	Delete(ctx context.Context, id string) error
}

type lifecycleCandidateRepository interface {
	FindByID(ctx context.Context, id string) (*models.Candidate, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type lifecycleOpeningRepository interface {
	FindByID(ctx context.Context, id string) (*models.JobOpening, error)
	UpdateStatus(ctx context.Context, id, detailed string, filledAt *time.Time) error
	AddNote(ctx context.Context, note *models.OpeningNote) error
}

// CreateLinkRequest holds payload for opening a new process.
type CreateLinkRequest struct {
	CandidateID   string     `json:"candidate_id" validate:"required"`
	OpeningID     string     `json:"opening_id" validate:"required"`
	InitialStatus string     `json:"initial_status"`
	Observation   string     `json:"observation"`
	InterviewAt   *time.Time `json:"interview_at,omitempty"`
}

// UpdateLinkRequest holds payload for advancing a process. Nil fields are
// left untouched; every supplied field produces one log line.
type UpdateLinkRequest struct {
	NewCandidateID *string    `json:"new_candidate_id,omitempty"`
	Observation    *string    `json:"observation,omitempty"`
	NewStatus      *string    `json:"new_status,omitempty"`
	InterviewAt    *time.Time `json:"interview_at,omitempty"`
	ResetDeadline  bool       `json:"reset_deadline"`
}

// FinalizeLinkRequest holds payload for closing a process.
type FinalizeLinkRequest struct {
	Outcome string `json:"outcome" validate:"required"`
	Reason  string `json:"reason"`
}

// LifecycleService drives the candidate/opening process state machine: it
// owns link creation preconditions, status cascades onto both parent rows,
// the append-only observation log and expiry.
type LifecycleService struct {
	links      lifecycleLinkRepository
	candidates lifecycleCandidateRepository
	openings   lifecycleOpeningRepository
	logger     *zap.Logger
	metrics    *MetricsService
	now        func() time.Time
}

// WithMetrics attaches process counters. Optional.
func (s *LifecycleService) WithMetrics(metrics *MetricsService) *LifecycleService {
	s.metrics = metrics
	return s
}

// NewLifecycleService constructs the lifecycle service.
func NewLifecycleService(links lifecycleLinkRepository, candidates lifecycleCandidateRepository, openings lifecycleOpeningRepository, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{links: links, candidates: candidates, openings: openings, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// systemLine formats one observation log entry. The log is append-only:
// entries are only ever added at the end, never rewritten.
func systemLine(at time.Time, text string) string {
	return fmt.Sprintf("[SYSTEM - %s] %s", at.UTC().Format("2006-01-02 15:04:05"), text)
}

func appendObservation(existing, line string) string {
	if strings.TrimSpace(existing) == "" {
		return line
	}
	return existing + "\n" + line
}

// List returns link details with pagination metadata.
func (s *LifecycleService) List(ctx context.Context, filter models.LinkFilter) ([]models.LinkDetail, *models.Pagination, error) {
	links, total, err := s.links.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list processes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return links, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one link.
func (s *LifecycleService) Get(ctx context.Context, id string) (*models.CandidateOpeningLink, error) {
	if ok, msg := sanitize.ValidateUUID(id, "link id"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	link, err := s.links.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "process not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load process")
	}
	return link, nil
}

// Create opens a new process for a candidate on an opening. Preconditions are
// checked in a fixed order: duplicate pair, opening capacity, candidate
// exclusivity. Checks are read-then-write; the back office has a handful of
// concurrent operators, not a write-heavy workload.
func (s *LifecycleService) Create(ctx context.Context, req CreateLinkRequest) (*models.CandidateOpeningLink, error) {
	if ok, msg := sanitize.ValidateUUID(req.CandidateID, "candidate id"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	if ok, msg := sanitize.ValidateUUID(req.OpeningID, "opening id"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}

	status := req.InitialStatus
	if status == "" {
		status = models.ProcessStatusSent
	}
	if ok, msg := sanitize.ValidateEnum(status, models.ProcessStatuses, "status"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}
	if models.IsTerminalStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a process cannot start in a terminal status")
	}
	if status == models.ProcessStatusInterviewScheduled && req.InterviewAt == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "interview_at is required when scheduling an interview")
	}

	candidate, err := s.candidates.FindByID(ctx, req.CandidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate")
	}
	opening, err := s.openings.FindByID(ctx, req.OpeningID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "opening not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load opening")
	}

	active, err := s.links.FindActiveByCandidate(ctx, candidate.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check candidate processes")
	}
	if active != nil && active.OpeningID == opening.ID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "candidate is already in process for this opening")
	}

	count, err := s.links.CountActiveByOpening(ctx, opening.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check opening capacity")
	}
	if count >= OpeningCapacity {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("opening already holds %d active candidates", OpeningCapacity))
	}

	if active != nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "candidate is already in an active process on another opening")
	}

	now := s.now()
	observations := systemLine(now, fmt.Sprintf("process opened with status %q", status))
	if note := sanitize.FreeText(req.Observation); note != "" {
		observations = appendObservation(observations, systemLine(now, "note: "+note))
	}
	if req.InterviewAt != nil {
		observations = appendObservation(observations, systemLine(now, "interview scheduled for "+req.InterviewAt.UTC().Format("2006-01-02 15:04")))
	}

	link := &models.CandidateOpeningLink{
		CandidateID:   candidate.ID,
		OpeningID:     opening.ID,
		ProcessStatus: status,
		Observations:  observations,
		SentAt:        now,
		InterviewAt:   req.InterviewAt,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create process")
	}

	if err := s.candidates.UpdateStatus(ctx, candidate.ID, models.CandidateStatusInProcess); err != nil {
		s.logger.Sugar().Errorw("candidate cascade failed", "candidate_id", candidate.ID, "error", err)
	}
	if opening.StatusDetailed == models.OpeningStatusActive {
		if err := s.openings.UpdateStatus(ctx, opening.ID, models.OpeningStatusInProgress, nil); err != nil {
			s.logger.Sugar().Errorw("opening cascade failed", "opening_id", opening.ID, "error", err)
		}
	}
	note := &models.OpeningNote{
		OpeningID: opening.ID,
		Category:  models.NoteCategoryCandidateSent,
		Body:      fmt.Sprintf("Candidate %s sent to this opening", candidate.FullName),
		Author:    "system",
	}
	if err := s.openings.AddNote(ctx, note); err != nil {
		s.logger.Sugar().Errorw("auto note failed", "opening_id", opening.ID, "error", err)
	}
	s.metrics.ObserveProcessOpened()

	return link, nil
}

// Update advances an open process. Each supplied field appends exactly one
// log line; nothing already in the log is touched.
func (s *LifecycleService) Update(ctx context.Context, id string, req UpdateLinkRequest) (*models.CandidateOpeningLink, error) {
	link, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalStatus(link.ProcessStatus) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "process is already finalized")
	}

	now := s.now()

	if req.NewStatus != nil {
		status := *req.NewStatus
		if ok, msg := sanitize.ValidateEnum(status, models.ProcessStatuses, "status"); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, msg)
		}
		if models.IsTerminalStatus(status) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "terminal statuses are set by finalizing the process")
		}
		if status == models.ProcessStatusInterviewScheduled && req.InterviewAt == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "interview_at is required when scheduling an interview")
		}
		if status != link.ProcessStatus {
			link.Observations = appendObservation(link.Observations, systemLine(now, fmt.Sprintf("status changed from %q to %q", link.ProcessStatus, status)))
			link.ProcessStatus = status
		}
	}

	if req.InterviewAt != nil {
		link.InterviewAt = req.InterviewAt
		link.Observations = appendObservation(link.Observations, systemLine(now, "interview scheduled for "+req.InterviewAt.UTC().Format("2006-01-02 15:04")))
	}

	if req.Observation != nil {
		if note := sanitize.FreeText(*req.Observation); note != "" {
			link.Observations = appendObservation(link.Observations, systemLine(now, "note: "+note))
		}
	}

	if req.NewCandidateID != nil && *req.NewCandidateID != link.CandidateID {
		if ok, msg := sanitize.ValidateUUID(*req.NewCandidateID, "candidate id"); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, msg)
		}
		replacement, err := s.candidates.FindByID(ctx, *req.NewCandidateID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "replacement candidate not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load replacement candidate")
		}
		busy, err := s.links.FindActiveByCandidate(ctx, replacement.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check replacement candidate")
		}
		if busy != nil {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "replacement candidate is already in an active process")
		}

		previousID := link.CandidateID
		link.CandidateID = replacement.ID
		link.Observations = appendObservation(link.Observations, systemLine(now, fmt.Sprintf("candidate replaced by %s", replacement.FullName)))

		if err := s.candidates.UpdateStatus(ctx, replacement.ID, models.CandidateStatusInProcess); err != nil {
			s.logger.Sugar().Errorw("candidate cascade failed", "candidate_id", replacement.ID, "error", err)
		}
		s.releaseCandidate(ctx, previousID, link.ID)
	}

	if req.ResetDeadline {
		link.SentAt = now
		link.Observations = appendObservation(link.Observations, systemLine(now, "deadline reset, 90 day window restarted"))
	}

	if err := s.links.Update(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update process")
	}
	return link, nil
}

// Finalize closes a process with a terminal outcome and runs the status
// cascades. Closing an already closed process is rejected so double submits
// surface instead of silently re-running cascades.
func (s *LifecycleService) Finalize(ctx context.Context, id string, req FinalizeLinkRequest) (*models.CandidateOpeningLink, error) {
	if ok, msg := sanitize.ValidateEnum(req.Outcome, models.FinalizeOutcomes, "outcome"); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}

	link, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalStatus(link.ProcessStatus) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "process is already finalized")
	}

	now := s.now()
	closing := fmt.Sprintf("process finalized with outcome %q", req.Outcome)
	if reason := sanitize.FreeText(req.Reason); reason != "" {
		closing += ": " + reason
	}
	link.ProcessStatus = models.StatusForOutcome(req.Outcome)
	link.FinalizedAt = &now
	link.Observations = appendObservation(link.Observations, systemLine(now, closing))

	if err := s.links.Update(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize process")
	}

	if req.Outcome == models.OutcomeHired {
		if err := s.candidates.UpdateStatus(ctx, link.CandidateID, models.CandidateStatusHired); err != nil {
			s.logger.Sugar().Errorw("candidate cascade failed", "candidate_id", link.CandidateID, "error", err)
		}
		if err := s.openings.UpdateStatus(ctx, link.OpeningID, models.OpeningStatusFilled, &now); err != nil {
			s.logger.Sugar().Errorw("opening cascade failed", "opening_id", link.OpeningID, "error", err)
		}
	} else {
		s.releaseCandidate(ctx, link.CandidateID, link.ID)
		s.releaseOpening(ctx, link.OpeningID)
	}
	s.metrics.ObserveProcessClosed(link.ProcessStatus)

	return link, nil
}

// ExpireSweep force-expires active links older than the 90 day window. The
// sweep is per-row and best effort: a failed row is logged and skipped, the
// next sweep picks it up again.
func (s *LifecycleService) ExpireSweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-models.LinkTTL)
	stale, err := s.links.ListActiveOlderThan(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stale processes")
	}

	expired := 0
	for i := range stale {
		link := stale[i]
		now := s.now()
		link.ProcessStatus = models.ProcessStatusExpired
		link.FinalizedAt = &now
		link.Observations = appendObservation(link.Observations, systemLine(now, "process expired automatically after 90 days without conclusion"))

		if err := s.links.Update(ctx, &link); err != nil {
			s.logger.Sugar().Errorw("expire failed", "link_id", link.ID, "error", err)
			continue
		}
		s.releaseCandidate(ctx, link.CandidateID, link.ID)
		s.releaseOpening(ctx, link.OpeningID)
		s.metrics.ObserveProcessClosed(models.ProcessStatusExpired)
		expired++
	}

	if expired > 0 {
		s.logger.Sugar().Infow("expiry sweep finished", "expired", expired)
	}
	return expired, nil
}

// Delete removes a link for good. The row goes first, then the release runs,
// otherwise the active counts still see the deleted link and the parent rows
// keep a stale in-process status pointing at nothing.
func (s *LifecycleService) Delete(ctx context.Context, id string) error {
	link, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.links.Delete(ctx, link.ID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "process not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete process")
	}
	if !models.IsTerminalStatus(link.ProcessStatus) {
		s.releaseCandidate(ctx, link.CandidateID, link.ID)
		s.releaseOpening(ctx, link.OpeningID)
	}
	return nil
}

// releaseCandidate puts a candidate back to available unless another active
// process still holds them.
func (s *LifecycleService) releaseCandidate(ctx context.Context, candidateID, excludeLinkID string) {
	remaining, err := s.links.CountActiveByCandidate(ctx, candidateID, excludeLinkID)
	if err != nil {
		s.logger.Sugar().Errorw("candidate release check failed", "candidate_id", candidateID, "error", err)
		return
	}
	if remaining > 0 {
		return
	}
	if err := s.candidates.UpdateStatus(ctx, candidateID, models.CandidateStatusAvailable); err != nil {
		s.logger.Sugar().Errorw("candidate release failed", "candidate_id", candidateID, "error", err)
	}
}

// releaseOpening returns an in-progress opening to active once it has no
// active links left. Paused, filled and cancelled openings are left alone.
func (s *LifecycleService) releaseOpening(ctx context.Context, openingID string) {
	opening, err := s.openings.FindByID(ctx, openingID)
	if err != nil {
		s.logger.Sugar().Errorw("opening release lookup failed", "opening_id", openingID, "error", err)
		return
	}
	if opening.StatusDetailed != models.OpeningStatusInProgress {
		return
	}
	remaining, err := s.links.CountActiveByOpening(ctx, openingID)
	if err != nil {
		s.logger.Sugar().Errorw("opening release check failed", "opening_id", openingID, "error", err)
		return
	}
	if remaining > 0 {
		return
	}
	if err := s.openings.UpdateStatus(ctx, openingID, models.OpeningStatusActive, nil); err != nil {
		s.logger.Sugar().Errorw("opening release failed", "opening_id", openingID, "error", err)
	}
}
