package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ro-recruiting/back-office-api/internal/models"
)

func newLinkMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func linkRow(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "candidate_id", "opening_id", "process_status", "observations", "sent_at", "interview_at", "finalized_at", "created_at", "updated_at"}).
		AddRow(id, "cand-1", "open-1", models.ProcessStatusSent, "", now, nil, nil, now, now)
}

func TestLinkRepositoryFindActiveByCandidate(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM candidate_opening_links WHERE candidate_id = \$1 AND process_status NOT IN`).
		WithArgs("cand-1").
		WillReturnRows(linkRow("link-1"))

	link, err := repo.FindActiveByCandidate(context.Background(), "cand-1")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, "link-1", link.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepositoryFindActiveByCandidateNone(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM candidate_opening_links WHERE candidate_id = \$1 AND process_status NOT IN`).
		WithArgs("cand-free").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	link, err := repo.FindActiveByCandidate(context.Background(), "cand-free")
	require.NoError(t, err)
	assert.Nil(t, link)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepositoryCountActiveByOpening(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidate_opening_links WHERE opening_id = \$1 AND process_status NOT IN`).
		WithArgs("open-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	total, err := repo.CountActiveByOpening(context.Background(), "open-1")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepositoryListActiveOlderThan(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	cutoff := time.Now().Add(-90 * 24 * time.Hour)
	mock.ExpectQuery(`SELECT .+ FROM candidate_opening_links WHERE sent_at < \$1 AND process_status NOT IN .+ ORDER BY sent_at ASC`).
		WithArgs(cutoff).
		WillReturnRows(linkRow("stale-1"))

	links, err := repo.ListActiveOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "stale-1", links[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	mock.ExpectExec("INSERT INTO candidate_opening_links").
		WithArgs(sqlmock.AnyArg(), "cand-1", "open-1", models.ProcessStatusSent, sqlmock.AnyArg(), sqlmock.AnyArg(), nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	link := &models.CandidateOpeningLink{CandidateID: "cand-1", OpeningID: "open-1", ProcessStatus: models.ProcessStatusSent}
	err := repo.Create(context.Background(), link)
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
	assert.False(t, link.SentAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepositoryList(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "candidate_id", "opening_id", "process_status", "observations", "sent_at", "interview_at", "finalized_at", "created_at", "updated_at", "candidate_name", "candidate_role_type", "opening_title", "opening_status"}).
		AddRow("link-1", "cand-1", "open-1", models.ProcessStatusInReview, "", now, nil, nil, now, now, "Maria Souza", "nanny", "Live-in nanny", models.OpeningStatusInProgress)
	mock.ExpectQuery(`SELECT .+ FROM candidate_opening_links l\s+JOIN candidates c ON .+ WHERE 1=1 AND l\.opening_id = \$1 AND l\.process_status NOT IN`).
		WithArgs("open-1").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidate_opening_links l`).
		WithArgs("open-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	links, total, err := repo.List(context.Background(), models.LinkFilter{OpeningID: "open-1", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Maria Souza", links[0].CandidateName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepositoryUpdatePersistsAllMutableFields(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	sent := time.Now().Add(-time.Hour).UTC()
	interview := time.Now().Add(24 * time.Hour).UTC()
	mock.ExpectExec(`UPDATE candidate_opening_links SET candidate_id = \$1, process_status = \$2,\s+observations = \$3, sent_at = \$4, interview_at = \$5,\s+finalized_at = \$6, updated_at = \$7 WHERE id = \$8`).
		WithArgs("cand-2", models.ProcessStatusInterviewScheduled, "swapped", sent, interview, nil, sqlmock.AnyArg(), "link-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	link := &models.CandidateOpeningLink{
		ID:            "link-1",
		CandidateID:   "cand-2",
		OpeningID:     "open-1",
		ProcessStatus: models.ProcessStatusInterviewScheduled,
		Observations:  "swapped",
		SentAt:        sent,
		InterviewAt:   &interview,
	}
	require.NoError(t, repo.Update(context.Background(), link))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newLinkMock(t)
	defer cleanup()
	repo := NewLinkRepository(db)

	mock.ExpectExec("DELETE FROM candidate_opening_links").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
