package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
)

const (
	candID    = "11111111-1111-4111-8111-111111111111"
	candID2   = "22222222-2222-4222-8222-222222222222"
	openID    = "33333333-3333-4333-8333-333333333333"
	openID2   = "44444444-4444-4444-8444-444444444444"
	fillerIDs = "55555555-5555-4555-8555-55555555555"
)

type mockLinkRepo struct {
	links   map[string]models.CandidateOpeningLink
	deleted []string
	nextID  int
}

func newMockLinkRepo() *mockLinkRepo {
	return &mockLinkRepo{links: map[string]models.CandidateOpeningLink{}}
}

func (m *mockLinkRepo) List(ctx context.Context, filter models.LinkFilter) ([]models.LinkDetail, int, error) {
	details := []models.LinkDetail{}
	for _, l := range m.links {
		if filter.OpeningID != "" && l.OpeningID != filter.OpeningID {
			continue
		}
		if filter.ActiveOnly && models.IsTerminalStatus(l.ProcessStatus) {
			continue
		}
		details = append(details, models.LinkDetail{CandidateOpeningLink: l})
	}
	return details, len(details), nil
}

func (m *mockLinkRepo) FindByID(ctx context.Context, id string) (*models.CandidateOpeningLink, error) {
	if l, ok := m.links[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLinkRepo) FindActiveByCandidate(ctx context.Context, candidateID string) (*models.CandidateOpeningLink, error) {
	for _, l := range m.links {
		if l.CandidateID == candidateID && !models.IsTerminalStatus(l.ProcessStatus) {
			link := l
			return &link, nil
		}
	}
	return nil, nil
}

func (m *mockLinkRepo) CountActiveByOpening(ctx context.Context, openingID string) (int, error) {
	count := 0
	for _, l := range m.links {
		if l.OpeningID == openingID && !models.IsTerminalStatus(l.ProcessStatus) {
			count++
		}
	}
	return count, nil
}

func (m *mockLinkRepo) CountActiveByCandidate(ctx context.Context, candidateID, excludeLinkID string) (int, error) {
	count := 0
	for _, l := range m.links {
		if l.CandidateID == candidateID && l.ID != excludeLinkID && !models.IsTerminalStatus(l.ProcessStatus) {
			count++
		}
	}
	return count, nil
}

func (m *mockLinkRepo) ListActiveOlderThan(ctx context.Context, cutoff time.Time) ([]models.CandidateOpeningLink, error) {
	var stale []models.CandidateOpeningLink
	for _, l := range m.links {
		if !models.IsTerminalStatus(l.ProcessStatus) && l.SentAt.Before(cutoff) {
			stale = append(stale, l)
		}
	}
	return stale, nil
}

func (m *mockLinkRepo) Create(ctx context.Context, link *models.CandidateOpeningLink) error {
	if link.ID == "" {
		m.nextID++
		link.ID = fmt.Sprintf("%08d-0000-4000-8000-000000000000", m.nextID)
	}
	m.links[link.ID] = *link
	return nil
}

func (m *mockLinkRepo) Update(ctx context.Context, link *models.CandidateOpeningLink) error {
	m.links[link.ID] = *link
	return nil
}

func (m *mockLinkRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.links[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.links, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCandidateRepo struct {
	candidates map[string]models.Candidate
}

func (m *mockCandidateRepo) FindByID(ctx context.Context, id string) (*models.Candidate, error) {
	if c, ok := m.candidates[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCandidateRepo) UpdateStatus(ctx context.Context, id, status string) error {
	c := m.candidates[id]
	c.Status = status
	m.candidates[id] = c
	return nil
}

type mockOpeningRepo struct {
	openings map[string]models.JobOpening
	notes    []models.OpeningNote
}

func (m *mockOpeningRepo) FindByID(ctx context.Context, id string) (*models.JobOpening, error) {
	if o, ok := m.openings[id]; ok {
		return &o, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockOpeningRepo) UpdateStatus(ctx context.Context, id, detailed string, filledAt *time.Time) error {
	o := m.openings[id]
	o.StatusDetailed = detailed
	o.Status = models.CoarseStatus(detailed)
	o.FilledAt = filledAt
	m.openings[id] = o
	return nil
}

func (m *mockOpeningRepo) AddNote(ctx context.Context, note *models.OpeningNote) error {
	m.notes = append(m.notes, *note)
	return nil
}

func newLifecycleFixture() (*LifecycleService, *mockLinkRepo, *mockCandidateRepo, *mockOpeningRepo) {
	links := newMockLinkRepo()
	candidates := &mockCandidateRepo{candidates: map[string]models.Candidate{
		candID:  {ID: candID, FullName: "Maria Souza", RoleType: "nanny", Status: models.CandidateStatusAvailable},
		candID2: {ID: candID2, FullName: "Ana Lima", RoleType: "cook", Status: models.CandidateStatusAvailable},
	}}
	openings := &mockOpeningRepo{openings: map[string]models.JobOpening{
		openID:  {ID: openID, Title: "Live-in nanny", StatusDetailed: models.OpeningStatusActive, Status: models.OpeningStatusActive},
		openID2: {ID: openID2, Title: "Family cook", StatusDetailed: models.OpeningStatusActive, Status: models.OpeningStatusActive},
	}}
	svc := NewLifecycleService(links, candidates, openings, nil)
	return svc, links, candidates, openings
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err).Code
}

func TestLifecycleCreateCascades(t *testing.T) {
	svc, links, candidates, openings := newLifecycleFixture()

	link, err := svc.Create(context.Background(), CreateLinkRequest{CandidateID: candID, OpeningID: openID, Observation: "strong referral"})
	require.NoError(t, err)

	assert.Equal(t, models.ProcessStatusSent, link.ProcessStatus)
	assert.Contains(t, link.Observations, "[SYSTEM - ")
	assert.Contains(t, link.Observations, "strong referral")

	assert.Equal(t, models.CandidateStatusInProcess, candidates.candidates[candID].Status)
	assert.Equal(t, models.OpeningStatusInProgress, openings.openings[openID].StatusDetailed)
	assert.Equal(t, models.OpeningStatusActive, openings.openings[openID].Status)

	require.Len(t, openings.notes, 1)
	assert.Equal(t, models.NoteCategoryCandidateSent, openings.notes[0].Category)
	assert.Contains(t, openings.notes[0].Body, "Maria Souza")

	assert.Len(t, links.links, 1)
}

func TestLifecycleCreateRejectsDuplicatePair(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()

	_, err := svc.Create(context.Background(), CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	assert.Equal(t, appErrors.ErrConflict.Code, errorCode(t, err))
}

func TestLifecycleCreateRejectsBusyCandidate(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()

	_, err := svc.Create(context.Background(), CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateLinkRequest{CandidateID: candID, OpeningID: openID2})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))
}

func TestLifecycleCreateEnforcesOpeningCapacity(t *testing.T) {
	svc, links, candidates, _ := newLifecycleFixture()

	for i := 0; i < OpeningCapacity; i++ {
		id := fillerIDs + string(rune('0'+i))
		candidates.candidates[id] = models.Candidate{ID: id, FullName: "Filler", Status: models.CandidateStatusAvailable}
		_, err := svc.Create(context.Background(), CreateLinkRequest{CandidateID: id, OpeningID: openID})
		require.NoError(t, err)
	}
	require.Len(t, links.links, OpeningCapacity)

	_, err := svc.Create(context.Background(), CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))

	// A slot frees up once one process closes.
	var anyID string
	for id := range links.links {
		anyID = id
		break
	}
	_, err = svc.Finalize(context.Background(), anyID, FinalizeLinkRequest{Outcome: models.OutcomeRejected})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	assert.NoError(t, err)
}

func TestLifecycleCreateValidation(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateLinkRequest{CandidateID: "not-a-uuid", OpeningID: openID})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID, InitialStatus: models.ProcessStatusHired})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID, InitialStatus: models.ProcessStatusInterviewScheduled})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	ghost := "99999999-9999-4999-8999-999999999999"
	_, err = svc.Create(ctx, CreateLinkRequest{CandidateID: ghost, OpeningID: openID})
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestLifecycleUpdateAppendsWithoutRewriting(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)
	original := link.Observations

	status := models.ProcessStatusInReview
	updated, err := svc.Update(ctx, link.ID, UpdateLinkRequest{NewStatus: &status})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(updated.Observations, original), "existing log must stay untouched")
	assert.Equal(t, strings.Count(original, "[SYSTEM")+1, strings.Count(updated.Observations, "[SYSTEM"))
	assert.Equal(t, models.ProcessStatusInReview, updated.ProcessStatus)

	note := "client asked for references"
	withNote, err := svc.Update(ctx, link.ID, UpdateLinkRequest{Observation: &note})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(withNote.Observations, updated.Observations))
	assert.Contains(t, withNote.Observations, "client asked for references")
}

func TestLifecycleUpdateRejectsTerminalStatusAndFinalizedLink(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	hired := models.ProcessStatusHired
	_, err = svc.Update(ctx, link.ID, UpdateLinkRequest{NewStatus: &hired})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.Finalize(ctx, link.ID, FinalizeLinkRequest{Outcome: models.OutcomeRejected})
	require.NoError(t, err)

	note := "too late"
	_, err = svc.Update(ctx, link.ID, UpdateLinkRequest{Observation: &note})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))
}

func TestLifecycleUpdateCandidateSwap(t *testing.T) {
	svc, links, candidates, _ := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)
	originalSentAt := link.SentAt

	swap := candID2
	updated, err := svc.Update(ctx, link.ID, UpdateLinkRequest{NewCandidateID: &swap, ResetDeadline: true})
	require.NoError(t, err)

	assert.Equal(t, candID2, updated.CandidateID)
	assert.Contains(t, updated.Observations, "candidate replaced by Ana Lima")
	assert.Contains(t, updated.Observations, "deadline reset")
	assert.Equal(t, models.CandidateStatusInProcess, candidates.candidates[candID2].Status)
	assert.Equal(t, models.CandidateStatusAvailable, candidates.candidates[candID].Status)

	// The swap and the restarted window must reach the store, not just the
	// returned value.
	stored := links.links[link.ID]
	assert.Equal(t, candID2, stored.CandidateID)
	assert.True(t, stored.SentAt.After(originalSentAt))
}

func TestLifecycleUpdateRejectsBusyReplacement(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateLinkRequest{CandidateID: candID2, OpeningID: openID2})
	require.NoError(t, err)

	swap := candID2
	_, err = svc.Update(ctx, link.ID, UpdateLinkRequest{NewCandidateID: &swap})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))
}

func TestLifecycleFinalizeHired(t *testing.T) {
	svc, _, candidates, openings := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	closed, err := svc.Finalize(ctx, link.ID, FinalizeLinkRequest{Outcome: models.OutcomeHired, Reason: "client approved"})
	require.NoError(t, err)

	assert.Equal(t, models.ProcessStatusHired, closed.ProcessStatus)
	require.NotNil(t, closed.FinalizedAt)
	assert.Contains(t, closed.Observations, "client approved")

	assert.Equal(t, models.CandidateStatusHired, candidates.candidates[candID].Status)
	assert.Equal(t, models.OpeningStatusFilled, openings.openings[openID].StatusDetailed)
	assert.Equal(t, models.OpeningStatusFilled, openings.openings[openID].Status)
	assert.NotNil(t, openings.openings[openID].FilledAt)
}

func TestLifecycleFinalizeNonHireReleasesBothSides(t *testing.T) {
	svc, _, candidates, openings := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, link.ID, FinalizeLinkRequest{Outcome: models.OutcomeRejected, Reason: "profile mismatch"})
	require.NoError(t, err)

	assert.Equal(t, models.CandidateStatusAvailable, candidates.candidates[candID].Status)
	assert.Equal(t, models.OpeningStatusActive, openings.openings[openID].StatusDetailed)
}

func TestLifecycleFinalizeKeepsOpeningBusyWithSiblings(t *testing.T) {
	svc, _, _, openings := newLifecycleFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateLinkRequest{CandidateID: candID2, OpeningID: openID})
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, first.ID, FinalizeLinkRequest{Outcome: models.OutcomeCancelled})
	require.NoError(t, err)

	assert.Equal(t, models.OpeningStatusInProgress, openings.openings[openID].StatusDetailed)
}

func TestLifecycleFinalizeFoldsSoftOutcomes(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	closed, err := svc.Finalize(ctx, link.ID, FinalizeLinkRequest{Outcome: models.OutcomeWithdrew})
	require.NoError(t, err)
	assert.Equal(t, models.ProcessStatusFinalized, closed.ProcessStatus)
	assert.Contains(t, closed.Observations, `outcome "withdrew"`)
}

func TestLifecycleFinalizeTwiceFails(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, link.ID, FinalizeLinkRequest{Outcome: models.OutcomeHired})
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, link.ID, FinalizeLinkRequest{Outcome: models.OutcomeRejected})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))
}

func TestLifecycleExpireSweepBoundary(t *testing.T) {
	svc, links, candidates, openings := newLifecycleFixture()
	ctx := context.Background()

	fresh, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)
	stale, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID2, OpeningID: openID2})
	require.NoError(t, err)

	// 89 days is inside the window, 91 is past it.
	rewind(links, fresh.ID, 89*24*time.Hour)
	rewind(links, stale.ID, 91*24*time.Hour)

	expired, err := svc.ExpireSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, models.ProcessStatusSent, links.links[fresh.ID].ProcessStatus)
	assert.Equal(t, models.ProcessStatusExpired, links.links[stale.ID].ProcessStatus)
	assert.Contains(t, links.links[stale.ID].Observations, "expired automatically")

	assert.Equal(t, models.CandidateStatusAvailable, candidates.candidates[candID2].Status)
	assert.Equal(t, models.OpeningStatusActive, openings.openings[openID2].StatusDetailed)
	assert.Equal(t, models.CandidateStatusInProcess, candidates.candidates[candID].Status)
}

func TestLifecycleDeleteActiveLinkReleasesBothSides(t *testing.T) {
	svc, links, candidates, openings := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	err = svc.Delete(ctx, link.ID)
	require.NoError(t, err)

	assert.Empty(t, links.links)
	assert.Equal(t, models.CandidateStatusAvailable, candidates.candidates[candID].Status)
	assert.Equal(t, models.OpeningStatusActive, openings.openings[openID].StatusDetailed)
}

func TestLifecycleDeleteMissing(t *testing.T) {
	svc, _, _, _ := newLifecycleFixture()

	err := svc.Delete(context.Background(), "99999999-9999-4999-8999-999999999999")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

// End-to-end: sent, reviewed, interviewed, hired.
func TestLifecycleFullHireScenario(t *testing.T) {
	svc, _, candidates, openings := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)

	review := models.ProcessStatusInReview
	_, err = svc.Update(ctx, link.ID, UpdateLinkRequest{NewStatus: &review})
	require.NoError(t, err)

	interviewAt := time.Now().Add(48 * time.Hour)
	interview := models.ProcessStatusInterviewScheduled
	scheduled, err := svc.Update(ctx, link.ID, UpdateLinkRequest{NewStatus: &interview, InterviewAt: &interviewAt})
	require.NoError(t, err)
	require.NotNil(t, scheduled.InterviewAt)
	assert.True(t, scheduled.InterviewAt.Equal(interviewAt))

	closed, err := svc.Finalize(ctx, link.ID, FinalizeLinkRequest{Outcome: models.OutcomeHired})
	require.NoError(t, err)

	assert.Equal(t, models.ProcessStatusHired, closed.ProcessStatus)
	assert.GreaterOrEqual(t, strings.Count(closed.Observations, "[SYSTEM"), 4)
	assert.Equal(t, models.CandidateStatusHired, candidates.candidates[candID].Status)
	assert.Equal(t, models.OpeningStatusFilled, openings.openings[openID].StatusDetailed)
}

// End-to-end: a forgotten process expires and both sides come back.
func TestLifecycleExpiryScenario(t *testing.T) {
	svc, links, candidates, openings := newLifecycleFixture()
	ctx := context.Background()

	link, err := svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID})
	require.NoError(t, err)
	rewind(links, link.ID, 120*24*time.Hour)

	expired, err := svc.ExpireSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, models.CandidateStatusAvailable, candidates.candidates[candID].Status)
	assert.Equal(t, models.OpeningStatusActive, openings.openings[openID].StatusDetailed)

	// The freed candidate can enter a new process immediately.
	_, err = svc.Create(ctx, CreateLinkRequest{CandidateID: candID, OpeningID: openID2})
	assert.NoError(t, err)
}

func rewind(repo *mockLinkRepo, id string, by time.Duration) {
	link := repo.links[id]
	link.SentAt = link.SentAt.Add(-by)
	repo.links[id] = link
}
