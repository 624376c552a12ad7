// Package store persists activity records. Two backends implement
// ActivityStore: Postgres for production and SQLite for local use.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"daylog/internal/config"
)

// ErrNotFound is returned when a duration update matches no record.
var ErrNotFound = errors.New("store: activity not found")

// Activity is one logged activity row.
type Activity struct {
	ID              int64     `db:"id"`
	UserID          int64     `db:"user_id"`
	DisplayName     string    `db:"display_name"`
	MessageDate     time.Time `db:"message_date"`
	MessageText     string    `db:"message_text"`
	DurationMinutes *int      `db:"duration_minutes"`
	CreatedAt       time.Time `db:"created_at"`
}

// NewActivity carries the fields required to insert an activity.
type NewActivity struct {
	UserID      int64
	DisplayName string
	MessageDate time.Time
	Text        string
}

// ActivityStore is the persistence boundary used by the conversation core.
// InsertActivity returns the new record's identifier; duration updates
// target that explicit identifier, never "the most recent row".
type ActivityStore interface {
	InsertActivity(ctx context.Context, a NewActivity) (int64, error)
	UpdateActivityDuration(ctx context.Context, userID, activityID int64, minutes int) error
	RecentActivities(ctx context.Context, userID int64, since time.Time) ([]Activity, error)
}

// New selects the store implementation for the configured driver.
func New(driver string, db *sqlx.DB) (ActivityStore, error) {
	switch driver {
	case config.DriverPostgres:
		return NewPostgres(db), nil
	case config.DriverSQLite:
		return NewSQLite(db), nil
	}
	return nil, fmt.Errorf("store: unsupported driver %q", driver)
}
