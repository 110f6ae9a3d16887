package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/choretrack/internal/model"
)

// BackupStore records backup history.
type BackupStore struct {
	db *sql.DB
}

func NewBackupStore(db *sql.DB) *BackupStore {
	return &BackupStore{db: db}
}

func (s *BackupStore) Record(objectKey string, sizeBytes int64) (*model.Backup, error) {
	result, err := s.db.Exec(
		`INSERT INTO backups (object_key, size_bytes) VALUES (?, ?)`,
		objectKey, sizeBytes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert backup: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT id, object_key, size_bytes, created_at FROM backups WHERE id = ?`, id)
	var b model.Backup
	if err := row.Scan(&b.ID, &b.ObjectKey, &b.SizeBytes, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("get backup: %w", err)
	}
	return &b, nil
}

// ListRecent returns the most recent backups, newest first.
func (s *BackupStore) ListRecent(limit int) ([]model.Backup, error) {
	rows, err := s.db.Query(
		`SELECT id, object_key, size_bytes, created_at FROM backups ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var backups []model.Backup
	for rows.Next() {
		var b model.Backup
		if err := rows.Scan(&b.ID, &b.ObjectKey, &b.SizeBytes, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}
