package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ro-recruiting/back-office-api/internal/models"
	"github.com/ro-recruiting/back-office-api/pkg/drive"
)

type mockBackupRepo struct {
	tables   map[string][]map[string]interface{}
	failDump map[string]error
	restored map[string][]map[string]interface{}
}

func (m *mockBackupRepo) DumpTable(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if err, ok := m.failDump[table]; ok {
		return nil, err
	}
	return m.tables[table], nil
}

func (m *mockBackupRepo) RestoreTable(ctx context.Context, table string, rows []map[string]interface{}, batchSize int) (int, error) {
	if m.restored == nil {
		m.restored = map[string][]map[string]interface{}{}
	}
	m.restored[table] = rows
	return len(rows), nil
}

type mockDriveStore struct {
	files   map[string][]byte
	order   []drive.File
	deleted []string
}

func newMockDriveStore() *mockDriveStore {
	return &mockDriveStore{files: map[string][]byte{}}
}

func (m *mockDriveStore) Upload(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	id := "file-" + name
	m.files[id] = data
	m.order = append([]drive.File{{ID: id, Name: name, CreatedAt: time.Now(), Size: int64(len(data))}}, m.order...)
	return id, nil
}

func (m *mockDriveStore) List(ctx context.Context) ([]drive.File, error) {
	return m.order, nil
}

func (m *mockDriveStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := m.files[fileID]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (m *mockDriveStore) Delete(ctx context.Context, fileID string) error {
	delete(m.files, fileID)
	m.deleted = append(m.deleted, fileID)
	for i, f := range m.order {
		if f.ID == fileID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func sampleRows() map[string][]map[string]interface{} {
	return map[string][]map[string]interface{}{
		"candidates": {
			{"id": candID, "full_name": "Maria Souza", "email": "enc:v1:abc"},
		},
		"job_openings": {
			{"id": openID, "title": "Live-in nanny"},
		},
	}
}

func TestBackupCreateAndRestoreRoundTrip(t *testing.T) {
	repo := &mockBackupRepo{tables: sampleRows()}
	store := newMockDriveStore()
	svc := NewBackupService(repo, store, 10, 2, nil)
	ctx := context.Background()

	info, err := svc.Create(ctx, false)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(info.Name, ".json"))

	var envelope models.BackupEnvelope
	require.NoError(t, json.Unmarshal(store.files[info.ID], &envelope))
	assert.Equal(t, models.BackupVersion, envelope.Version)
	// Encrypted columns travel as stored.
	assert.Equal(t, "enc:v1:abc", envelope.Tables["candidates"].Data[0]["email"])

	report, err := svc.Restore(ctx, info.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tables["candidates"].Rows)
	assert.Equal(t, "Maria Souza", repo.restored["candidates"][0]["full_name"])
	// Tables absent from the dump restore as empty, not as errors.
	assert.Equal(t, 0, report.Tables["opening_notes"].Rows)
}

func TestBackupCreateCompressed(t *testing.T) {
	repo := &mockBackupRepo{tables: sampleRows()}
	store := newMockDriveStore()
	svc := NewBackupService(repo, store, 10, 100, nil)
	ctx := context.Background()

	info, err := svc.Create(ctx, true)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(info.Name, ".zip"))
	assert.True(t, strings.HasPrefix(string(store.files[info.ID]), "PK"))

	report, err := svc.Restore(ctx, info.ID, []string{"candidates"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Tables["candidates"].Rows)
	assert.Len(t, report.Tables, 1)
}

func TestBackupDumpFailureIsolated(t *testing.T) {
	repo := &mockBackupRepo{
		tables:   sampleRows(),
		failDump: map[string]error{"candidates": errors.New("table locked")},
	}
	store := newMockDriveStore()
	svc := NewBackupService(repo, store, 10, 100, nil)
	ctx := context.Background()

	info, err := svc.Create(ctx, false)
	require.NoError(t, err)

	var envelope models.BackupEnvelope
	require.NoError(t, json.Unmarshal(store.files[info.ID], &envelope))
	assert.Contains(t, envelope.Tables["candidates"].Error, "table locked")
	assert.Empty(t, envelope.Tables["candidates"].Data)
	assert.Len(t, envelope.Tables["job_openings"].Data, 1)

	// A table that failed to dump refuses to restore.
	report, err := svc.Restore(ctx, info.ID, []string{"candidates"})
	require.NoError(t, err)
	assert.Contains(t, report.Tables["candidates"].Error, "table locked")
}

func TestBackupRetentionPrunes(t *testing.T) {
	repo := &mockBackupRepo{tables: sampleRows()}
	store := newMockDriveStore()
	svc := NewBackupService(repo, store, 2, 100, nil)
	base := time.Now()
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, false)
		require.NoError(t, err)
	}

	files, err := store.List(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(files), 2)
	assert.NotEmpty(t, store.deleted)
}

func TestBackupRestoreRejectsUnknownVersion(t *testing.T) {
	store := newMockDriveStore()
	payload, _ := json.Marshal(models.BackupEnvelope{Version: "99", Tables: map[string]models.TableDump{}})
	id, _ := store.Upload(context.Background(), "backup_x.json", "application/json", payload)

	svc := NewBackupService(&mockBackupRepo{}, store, 10, 100, nil)
	_, err := svc.Restore(context.Background(), id, nil)
	assert.Error(t, err)
}
