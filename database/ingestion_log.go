package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"recontrack/model"
)

// InsertIngestionLog appends an audit row. The log is append-only; nothing
// updates or deletes entries.
func InsertIngestionLog(db *sqlx.DB, entry model.IngestionLog) error {
	_, err := db.Exec(`
		INSERT INTO ingestion_logs (file_name, file_type, row_count, status, error_message, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.FileName, entry.FileType, entry.RowCount,
		entry.Status, entry.ErrorMessage, entry.IngestedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion log for %s: %w", entry.FileName, err)
	}
	return nil
}

// RecentIngestionLogs returns the newest entries first, capped to limit.
func RecentIngestionLogs(db *sqlx.DB, limit int) ([]model.IngestionLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var items []model.IngestionLog
	err := db.Select(&items, `
		SELECT id, file_name, file_type, row_count, status, error_message, ingested_at
		FROM ingestion_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion logs: %w", err)
	}
	return items, nil
}
