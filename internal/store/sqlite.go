package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLiteStore persists activities in an embedded SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLite wraps an open SQLite connection.
func NewSQLite(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// InsertActivity stores a new activity and returns its identifier.
func (s *SQLiteStore) InsertActivity(ctx context.Context, a NewActivity) (int64, error) {
	const q = `
		INSERT INTO activities (user_id, display_name, message_date, message_text)
		VALUES (?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q, a.UserID, a.DisplayName, a.MessageDate.UTC(), a.Text)
	if err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert activity id: %w", err)
	}
	return id, nil
}

// UpdateActivityDuration sets the duration of one activity, scoped to its owner.
func (s *SQLiteStore) UpdateActivityDuration(ctx context.Context, userID, activityID int64, minutes int) error {
	const q = `
		UPDATE activities
		SET duration_minutes = ?
		WHERE id = ? AND user_id = ?`

	res, err := s.db.ExecContext(ctx, q, minutes, activityID, userID)
	if err != nil {
		return fmt.Errorf("update activity duration: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update activity duration: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentActivities returns the user's activities since the given instant,
// oldest first.
func (s *SQLiteStore) RecentActivities(ctx context.Context, userID int64, since time.Time) ([]Activity, error) {
	const q = `
		SELECT id, user_id, display_name, message_date, message_text, duration_minutes, created_at
		FROM activities
		WHERE user_id = ? AND message_date >= ?
		ORDER BY id ASC`

	var out []Activity
	if err := s.db.SelectContext(ctx, &out, q, userID, since.UTC()); err != nil {
		return nil, fmt.Errorf("select recent activities: %w", err)
	}
	return out, nil
}
