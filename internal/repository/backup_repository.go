package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// BackupTables lists the tables included in a backup, in restore order
// (parents before children).
var BackupTables = []string{
	"candidates",
	"job_openings",
	"opening_notes",
	"candidate_opening_links",
	"qualified_candidates",
}

// BackupRepository dumps and restores whole tables as raw row maps. Encrypted
// columns travel as stored.
type BackupRepository struct {
	db *sqlx.DB
}

// NewBackupRepository constructs a BackupRepository.
func NewBackupRepository(db *sqlx.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// allowedTable guards the dynamic identifiers below against anything outside
// the fixed backup set.
func allowedTable(table string) bool {
	for _, t := range BackupTables {
		if t == table {
			return true
		}
	}
	return false
}

// DumpTable reads every row of a table into generic maps.
func (r *BackupRepository) DumpTable(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if !allowedTable(table) {
		return nil, fmt.Errorf("dump table: unknown table %q", table)
	}
	rows, err := r.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("dump table %s: %w", table, err)
	}
	defer rows.Close()

	var result []map[string]interface{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan table %s: %w", table, err)
		}
		for key, value := range row {
			if b, ok := value.([]byte); ok {
				row[key] = string(b)
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dump table %s: %w", table, err)
	}
	return result, nil
}

// RestoreTable replaces a table's contents with the given rows, inserting in
// batches inside one transaction. An empty row set just truncates.
func (r *BackupRepository) RestoreTable(ctx context.Context, table string, tableRows []map[string]interface{}, batchSize int) (int, error) {
	if !allowedTable(table) {
		return 0, fmt.Errorf("restore table: unknown table %q", table)
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("restore table %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return 0, fmt.Errorf("clear table %s: %w", table, err)
	}

	restored := 0
	for start := 0; start < len(tableRows); start += batchSize {
		end := start + batchSize
		if end > len(tableRows) {
			end = len(tableRows)
		}
		batch := tableRows[start:end]

		columns := columnsOf(batch[0])
		placeholders := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for _, row := range batch {
			marks := make([]string, len(columns))
			for i, col := range columns {
				marks[i] = fmt.Sprintf("$%d", len(args)+1)
				args = append(args, row[col])
			}
			placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
		restored += len(batch)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("restore table %s: %w", table, err)
	}
	return restored, nil
}

func columnsOf(row map[string]interface{}) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}
