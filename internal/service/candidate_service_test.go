package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ro-recruiting/back-office-api/internal/models"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/fieldcrypt"
)

type mockCandidateCRUDRepo struct {
	candidates map[string]models.Candidate
	deleted    []string
}

func (m *mockCandidateCRUDRepo) List(ctx context.Context, filter models.CandidateFilter) ([]models.Candidate, int, error) {
	out := []models.Candidate{}
	for _, c := range m.candidates {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *mockCandidateCRUDRepo) FindByID(ctx context.Context, id string) (*models.Candidate, error) {
	if c, ok := m.candidates[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCandidateCRUDRepo) Create(ctx context.Context, candidate *models.Candidate) error {
	if m.candidates == nil {
		m.candidates = map[string]models.Candidate{}
	}
	if candidate.ID == "" {
		candidate.ID = candID
	}
	m.candidates[candidate.ID] = *candidate
	return nil
}

func (m *mockCandidateCRUDRepo) Update(ctx context.Context, candidate *models.Candidate) error {
	m.candidates[candidate.ID] = *candidate
	return nil
}

func (m *mockCandidateCRUDRepo) UpdateStatus(ctx context.Context, id, status string) error {
	c := m.candidates[id]
	c.Status = status
	m.candidates[id] = c
	return nil
}

func (m *mockCandidateCRUDRepo) Delete(ctx context.Context, id string) error {
	delete(m.candidates, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockLinkGuard struct {
	active *models.CandidateOpeningLink
}

func (m *mockLinkGuard) FindActiveByCandidate(ctx context.Context, candidateID string) (*models.CandidateOpeningLink, error) {
	return m.active, nil
}

func testCipher(t *testing.T) *fieldcrypt.Cipher {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := fieldcrypt.New(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	return c
}

func newCandidateFixture(t *testing.T) (*CandidateService, *mockCandidateCRUDRepo, *mockLinkGuard) {
	repo := &mockCandidateCRUDRepo{candidates: map[string]models.Candidate{}}
	guard := &mockLinkGuard{}
	return NewCandidateService(repo, guard, testCipher(t), nil, nil), repo, guard
}

func strPtr(s string) *string { return &s }

func TestCandidateCreateEncryptsAtRestAndDecryptsOnRead(t *testing.T) {
	svc, repo, _ := newCandidateFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCandidateRequest{
		FullName: "Maria Souza",
		RoleType: "nanny",
		Email:    strPtr("maria@example.com"),
		Phone:    strPtr("11999887766"),
		Address:  strPtr("Rua das Flores"),
	})
	require.NoError(t, err)

	// The caller sees plaintext.
	assert.Equal(t, "maria@example.com", *created.Email)

	// The store sees ciphertext only.
	stored := repo.candidates[created.ID]
	assert.True(t, strings.HasPrefix(*stored.Email, fieldcrypt.Prefix))
	assert.True(t, strings.HasPrefix(*stored.Phone, fieldcrypt.Prefix))
	assert.True(t, strings.HasPrefix(*stored.Address, fieldcrypt.Prefix))
	assert.Equal(t, "Maria Souza", stored.FullName)

	loaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", *loaded.Email)
	assert.Equal(t, "11999887766", *loaded.Phone)
}

func TestCandidateCreateValidation(t *testing.T) {
	svc, _, _ := newCandidateFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCandidateRequest{RoleType: "nanny"})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))

	_, err = svc.Create(ctx, CreateCandidateRequest{FullName: "Maria", RoleType: "nanny", Email: strPtr("not-an-email")})
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestCandidateDeleteBlockedByActiveProcess(t *testing.T) {
	svc, repo, guard := newCandidateFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCandidateRequest{FullName: "Maria Souza", RoleType: "nanny"})
	require.NoError(t, err)

	guard.active = &models.CandidateOpeningLink{ID: "some-link", CandidateID: created.ID}
	err = svc.Delete(ctx, created.ID)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))

	guard.active = nil
	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, []string{created.ID}, repo.deleted)
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/5511999887766", WhatsAppLink(&models.Candidate{Whatsapp: strPtr("(11) 99988-7766")}))
	assert.Equal(t, "https://wa.me/5511999887766", WhatsAppLink(&models.Candidate{Phone: strPtr("11999887766")}))
	assert.Equal(t, "", WhatsAppLink(&models.Candidate{}))
	assert.Equal(t, "", WhatsAppLink(&models.Candidate{Whatsapp: strPtr("123")}))
}
