package store

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE activities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    display_name TEXT NOT NULL,
    message_date DATETIME NOT NULL,
    message_text TEXT NOT NULL,
    duration_minutes INTEGER,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);`

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return NewSQLite(db)
}

func TestSQLiteInsertAndUpdateDuration(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	sentAt := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	first, err := st.InsertActivity(ctx, NewActivity{
		UserID: 7, DisplayName: "Alice", MessageDate: sentAt, Text: "walked the dog",
	})
	require.NoError(t, err)
	second, err := st.InsertActivity(ctx, NewActivity{
		UserID: 7, DisplayName: "Alice", MessageDate: sentAt.Add(time.Hour), Text: "reading",
	})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// The update targets an explicit record, not "most recent".
	require.NoError(t, st.UpdateActivityDuration(ctx, 7, first, 45))

	rows, err := st.RecentActivities(ctx, 7, sentAt.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].DurationMinutes)
	assert.Equal(t, 45, *rows[0].DurationMinutes)
	assert.Nil(t, rows[1].DurationMinutes)
	assert.Equal(t, "walked the dog", rows[0].MessageText)
}

func TestSQLiteUpdateScopedToOwner(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.InsertActivity(ctx, NewActivity{
		UserID: 7, DisplayName: "Alice", MessageDate: time.Now().UTC(), Text: "yoga",
	})
	require.NoError(t, err)

	err = st.UpdateActivityDuration(ctx, 8, id, 30)
	assert.ErrorIs(t, err, ErrNotFound)

	err = st.UpdateActivityDuration(ctx, 7, 9999, 30)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRecentActivitiesWindow(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := st.InsertActivity(ctx, NewActivity{
		UserID: 7, DisplayName: "Alice", MessageDate: base.Add(-2 * time.Hour), Text: "yesterday",
	})
	require.NoError(t, err)
	_, err = st.InsertActivity(ctx, NewActivity{
		UserID: 7, DisplayName: "Alice", MessageDate: base.Add(2 * time.Hour), Text: "today",
	})
	require.NoError(t, err)

	rows, err := st.RecentActivities(ctx, 7, base)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "today", rows[0].MessageText)
}
