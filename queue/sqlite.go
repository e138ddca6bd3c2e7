package queue

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/snapbooth/snapbooth/models"
)

// SQLiteStore persists pending captures in a local sqlite file so queued
// photos survive restarts. Rows that fail to scan are skipped rather than
// surfaced: a corrupted queue degrades to an empty one, it never takes the
// booth down.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture queue: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	// WAL keeps enqueue latency low while the uploader reads the head.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS pending_captures (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		device_id TEXT NOT NULL,
		image_data TEXT NOT NULL,
		captured_at INTEGER NOT NULL,
		failure_count INTEGER NOT NULL DEFAULT 0,
		seq INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pending_event_seq ON pending_captures(event_id, seq);
	`

	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteStore) Enqueue(capture models.PendingCapture) error {
	query := `INSERT INTO pending_captures (id, event_id, device_id, image_data, captured_at, failure_count, seq)
	          VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM pending_captures))`
	_, err := s.db.Exec(query, capture.ID, capture.EventID, capture.DeviceID,
		capture.ImageData, capture.CapturedAt, capture.FailureCount)
	if err != nil {
		return fmt.Errorf("failed to enqueue capture %s: %w", capture.ID, err)
	}
	return nil
}

func (s *SQLiteStore) PeekOldest(eventID string) (models.PendingCapture, error) {
	query := `SELECT id, event_id, device_id, image_data, captured_at, failure_count
	          FROM pending_captures WHERE event_id = ? ORDER BY seq ASC LIMIT 1`

	var c models.PendingCapture
	err := s.db.QueryRow(query, eventID).Scan(&c.ID, &c.EventID, &c.DeviceID,
		&c.ImageData, &c.CapturedAt, &c.FailureCount)
	if err == sql.ErrNoRows {
		return models.PendingCapture{}, ErrEmpty
	}
	if err != nil {
		// Fail open: a row we cannot read is a row we do not have.
		slog.Error("capture queue read failed, treating as empty", "event_id", eventID, "err", err)
		return models.PendingCapture{}, ErrEmpty
	}
	return c, nil
}

func (s *SQLiteStore) Remove(id string) error {
	// Idempotent: removing an absent ID is a no-op, the uploader may retry
	// removal across ticks.
	_, err := s.db.Exec(`DELETE FROM pending_captures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove capture %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) SetFailureCount(id string, n int) error {
	_, err := s.db.Exec(`UPDATE pending_captures SET failure_count = ? WHERE id = ?`, n, id)
	if err != nil {
		return fmt.Errorf("failed to update failure count for %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Count(eventID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pending_captures WHERE event_id = ?`, eventID).Scan(&count)
	if err != nil {
		slog.Error("capture queue count failed, treating as empty", "event_id", eventID, "err", err)
		return 0, nil
	}
	return count, nil
}

func (s *SQLiteStore) Events() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT event_id FROM pending_captures ORDER BY event_id`)
	if err != nil {
		slog.Error("capture queue event listing failed, treating as empty", "err", err)
		return nil, nil
	}
	defer rows.Close()

	var events []string
	for rows.Next() {
		var eventID string
		if err := rows.Scan(&eventID); err != nil {
			slog.Error("skipping unreadable capture queue row", "err", err)
			continue
		}
		events = append(events, eventID)
	}
	return events, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
