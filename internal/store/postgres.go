package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"daylog/internal/logger"
	"log/slog"
)

// PostgresStore persists activities in Postgres.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgres wraps an open Postgres connection.
func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertActivity stores a new activity and returns its identifier.
func (s *PostgresStore) InsertActivity(ctx context.Context, a NewActivity) (int64, error) {
	const q = `
		INSERT INTO activities (user_id, display_name, message_date, message_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	start := time.Now()
	err := s.db.QueryRowxContext(ctx, q, a.UserID, a.DisplayName, a.MessageDate, a.Text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}
	logger.Debug(ctx, "db", "activity.insert",
		slog.Int64("user_id", a.UserID),
		slog.Int64("activity_id", id),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return id, nil
}

// UpdateActivityDuration sets the duration of one activity, scoped to its owner.
func (s *PostgresStore) UpdateActivityDuration(ctx context.Context, userID, activityID int64, minutes int) error {
	const q = `
		UPDATE activities
		SET duration_minutes = $1
		WHERE id = $2 AND user_id = $3`

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
func (s *PostgresStore) RecentActivities(ctx context.Context, userID int64, since time.Time) ([]Activity, error) {
	const q = `
		SELECT id, user_id, display_name, message_date, message_text, duration_minutes, created_at
		FROM activities
		WHERE user_id = $1 AND message_date >= $2
		ORDER BY id ASC`

	var out []Activity
	if err := s.db.SelectContext(ctx, &out, q, userID, since); err != nil {
		return nil, fmt.Errorf("select recent activities: %w", err)
	}
	return out, nil
}
