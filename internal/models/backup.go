package models

import "time"

// BackupVersion tags the envelope format so restore can refuse payloads it
// does not understand.
const BackupVersion = "1"

// TableDump holds one table's rows. A table that failed to dump carries the
// error inline with empty data so the rest of the backup still lands.
type TableDump struct {
	Error string                   `json:"error,omitempty"`
	Data  []map[string]interface{} `json:"data"`
}

// BackupEnvelope is the serialized form of a full data export. Rows travel
// exactly as stored; encrypted columns stay encrypted.
type BackupEnvelope struct {
	Timestamp time.Time            `json:"timestamp"`
	Version   string               `json:"version"`
	Tables    map[string]TableDump `json:"tables"`
}

// BackupInfo describes one stored backup file.
type BackupInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// RestoreReport summarizes a restore run per table.
type RestoreReport struct {
	Tables map[string]TableRestoreResult `json:"tables"`
}

// TableRestoreResult counts rows restored and records a failure without
// aborting the other tables.
type TableRestoreResult struct {
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}
