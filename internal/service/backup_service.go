package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ro-recruiting/back-office-api/internal/models"
	"github.com/ro-recruiting/back-office-api/internal/repository"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/drive"
)

type backupRepository interface {
	DumpTable(ctx context.Context, table string) ([]map[string]interface{}, error)
	RestoreTable(ctx context.Context, table string, rows []map[string]interface{}, batchSize int) (int, error)
}

type backupStore interface {
	Upload(ctx context.Context, name, mimeType string, data []byte) (string, error)
	List(ctx context.Context) ([]drive.File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	Delete(ctx context.Context, fileID string) error
}

// BackupService exports the whole dataset to the configured Drive folder and
// restores from it. Rows travel raw, so a backup never needs the encryption
// key and a restore never re-encrypts.
type BackupService struct {
	repo      backupRepository
	store     backupStore
	retention int
	batchSize int
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// WithMetrics attaches the backup duration histogram. Optional.
func (s *BackupService) WithMetrics(metrics *MetricsService) *BackupService {
	s.metrics = metrics
	return s
}

// NewBackupService constructs the backup service.
func NewBackupService(repo backupRepository, store backupStore, retention, batchSize int, logger *zap.Logger) *BackupService {
	if retention <= 0 {
		retention = 10
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{repo: repo, store: store, retention: retention, batchSize: batchSize, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Create dumps every tracked table into one envelope and uploads it. A table
// that fails to dump is recorded inside the envelope and skipped; only a
// storage failure aborts the backup.
func (s *BackupService) Create(ctx context.Context, compress bool) (*models.BackupInfo, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveBackup(time.Since(started)) }()

	now := s.now()
	envelope := models.BackupEnvelope{
		Timestamp: now,
		Version:   models.BackupVersion,
		Tables:    make(map[string]models.TableDump, len(repository.BackupTables)),
	}

	for _, table := range repository.BackupTables {
		rows, err := s.repo.DumpTable(ctx, table)
		if err != nil {
			s.logger.Sugar().Errorw("table dump failed", "table", table, "error", err)
			envelope.Tables[table] = models.TableDump{Error: err.Error(), Data: []map[string]interface{}{}}
			continue
		}
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		envelope.Tables[table] = models.TableDump{Data: rows}
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to serialize backup")
	}

	name := "backup_" + now.Format("20060102_150405") + ".json"
	mimeType := "application/json"
	if compress {
		payload, err = zipPayload(name, payload)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compress backup")
		}
		name += ".zip"
		mimeType = "application/zip"
	}

	id, err := s.store.Upload(ctx, name, mimeType, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to upload backup")
	}

	s.prune(ctx)

	return &models.BackupInfo{ID: id, Name: name, CreatedAt: now, Size: int64(len(payload))}, nil
}

// List returns stored backups, newest first.
func (s *BackupService) List(ctx context.Context) ([]models.BackupInfo, error) {
	files, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list backups")
	}
	infos := make([]models.BackupInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, models.BackupInfo{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, Size: f.Size})
	}
	return infos, nil
}

// Restore downloads a backup and replaces the selected tables (all tracked
// tables when the subset is empty). Tables restore independently; one failed
// table does not stop the next.
func (s *BackupService) Restore(ctx context.Context, backupID string, tables []string) (*models.RestoreReport, error) {
	raw, err := s.store.Download(ctx, backupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to download backup")
	}

	payload, err := maybeUnzip(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "backup file is not readable")
	}

	var envelope models.BackupEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "backup file is not a valid envelope")
	}
	if envelope.Version != models.BackupVersion {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported backup version %q", envelope.Version))
	}

	selected := tables
	if len(selected) == 0 {
		selected = repository.BackupTables
	}

	report := &models.RestoreReport{Tables: make(map[string]models.TableRestoreResult, len(selected))}
	for _, table := range selected {
		dump, ok := envelope.Tables[table]
		if !ok {
			report.Tables[table] = models.TableRestoreResult{Error: "table not present in backup"}
			continue
		}
		if dump.Error != "" {
			report.Tables[table] = models.TableRestoreResult{Error: "table was not dumped: " + dump.Error}
			continue
		}
		restored, err := s.repo.RestoreTable(ctx, table, dump.Data, s.batchSize)
		if err != nil {
			s.logger.Sugar().Errorw("table restore failed", "table", table, "error", err)
			report.Tables[table] = models.TableRestoreResult{Error: err.Error()}
			continue
		}
		report.Tables[table] = models.TableRestoreResult{Rows: restored}
	}
	return report, nil
}

// prune removes backups beyond the retention count. Best effort.
func (s *BackupService) prune(ctx context.Context) {
	files, err := s.store.List(ctx)
	if err != nil {
		s.logger.Sugar().Warnw("backup prune listing failed", "error", err)
		return
	}
	if len(files) <= s.retention {
		return
	}
	for _, f := range files[s.retention:] {
		if err := s.store.Delete(ctx, f.ID); err != nil {
			s.logger.Sugar().Warnw("backup prune delete failed", "file", f.Name, "error", err)
		}
	}
}

func zipPayload(name string, payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entry, err := w.Create(name)
	if err != nil {
		return nil, err
	}
	if _, err := entry.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// maybeUnzip returns the first entry of a zip archive, or the input untouched
// when it is not zipped.
func maybeUnzip(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, []byte("PK")) {
		return raw, nil
	}
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}
	if len(reader.File) == 0 {
		return nil, fmt.Errorf("zip archive is empty")
	}
	entry := reader.File[0]
	if !strings.HasSuffix(entry.Name, ".json") {
		return nil, fmt.Errorf("zip entry %q is not a backup", entry.Name)
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
