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

func newCandidateMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func candidateRow(id, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "full_name", "birth_date", "national_id", "id_document", "email", "phone", "whatsapp",
		"address", "street_number", "address_extra", "district", "city", "role_type", "status", "qualified",
		"ficha_generated", "profile", "created_at", "updated_at"}).
		AddRow(id, name, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, "Sao Paulo", "nanny",
			models.CandidateStatusAvailable, false, false, nil, now, now)
}

func TestCandidateRepositoryList(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewCandidateRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM candidates WHERE 1=1 AND role_type = \$1 ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs("nanny").
		WillReturnRows(candidateRow("cand-1", "Maria Souza"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidates WHERE 1=1 AND role_type = \$1`).
		WithArgs("nanny").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	candidates, total, err := repo.List(context.Background(), models.CandidateFilter{RoleType: "nanny"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Maria Souza", candidates[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepositoryFindByIDNullProfile(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewCandidateRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM candidates WHERE id = \$1`).
		WithArgs("cand-1").
		WillReturnRows(candidateRow("cand-1", "Maria Souza"))

	// Candidates registered before the profile buckets existed have a NULL
	// profile column; the scan must not choke on them.
	candidate, err := repo.FindByID(context.Background(), "cand-1")
	require.NoError(t, err)
	assert.Nil(t, candidate.Profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewCandidateRepository(db)

	mock.ExpectExec("INSERT INTO candidates").
		WillReturnResult(sqlmock.NewResult(1, 1))

	candidate := &models.Candidate{FullName: "Maria Souza", RoleType: "nanny", Status: models.CandidateStatusAvailable}
	err := repo.Create(context.Background(), candidate)
	require.NoError(t, err)
	assert.NotEmpty(t, candidate.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewCandidateRepository(db)

	mock.ExpectExec("UPDATE candidates SET status").
		WithArgs("cand-1", models.CandidateStatusInProcess, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "cand-1", models.CandidateStatusInProcess)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewCandidateRepository(db)

	mock.ExpectExec("DELETE FROM candidates").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidateRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newCandidateMock(t)
	defer cleanup()
	repo := NewCandidateRepository(db)

	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow(models.CandidateStatusAvailable, 7).
		AddRow(models.CandidateStatusInProcess, 2)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS total FROM candidates GROUP BY status`).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, counts[models.CandidateStatusAvailable])
	assert.Equal(t, 2, counts[models.CandidateStatusInProcess])
	assert.NoError(t, mock.ExpectationsWereMet())
}
