package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/julianstephens/habitflow/internal/models"
)

var testNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func setupTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitflow.db")

	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	store := NewStore(dbPath, opts...)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })

	return store
}

// legacySchema is the layout written by pre-versioning releases before
// it had a schema_version table or the later optional columns.
const legacySchema = `
CREATE TABLE habits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    icon TEXT DEFAULT '✓',
    color TEXT DEFAULT '#6366F1',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE habit_completions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    habit_id INTEGER NOT NULL,
    date TEXT NOT NULL,
    completed INTEGER DEFAULT 1,
    FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE,
    UNIQUE(habit_id, date)
);
CREATE TABLE tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    completed INTEGER DEFAULT 0,
    priority TEXT DEFAULT 'medium',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE settings (
    key TEXT PRIMARY KEY,
    value TEXT
);
INSERT INTO habits (name) VALUES ('Read'), ('Walk');
INSERT INTO habit_completions (habit_id, date) VALUES (1, '2024-01-14');
INSERT INTO tasks (title, date, completed, priority) VALUES ('Call mom', '2024-01-14', 1, 'high');
INSERT INTO settings (key, value) VALUES ('theme', 'dark');
`

func TestInitCreatesSchema(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	for _, table := range []string{"habits", "habit_completions", "tasks", "settings", "schema_version"} {
		exists, err := store.tableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, "table %s missing", table)
	}

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, version)
}

func TestInitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "habitflow.db")

	first := NewStore(dbPath)
	require.NoError(t, first.Init(ctx))
	_, err := first.CreateHabit(ctx, "Read", "", "")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := NewStore(dbPath, WithBackupBeforeMigrate(3))
	require.NoError(t, second.Init(ctx))
	defer second.Close()

	habits, err := second.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Read", habits[0].Name)

	// Nothing was pending, so no snapshot was taken
	_, err = os.Stat(filepath.Join(filepath.Dir(dbPath), "backups"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitMigratesLegacyDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "habitflow.db")

	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = raw.Exec(legacySchema)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	store := NewStore(dbPath, WithBackupBeforeMigrate(3), WithClock(func() time.Time { return testNow }))
	require.NoError(t, store.Init(ctx))
	defer store.Close()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, version)

	habits, err := store.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "Read", habits[0].Name)
	assert.Equal(t, 1, habits[0].SortOrder)
	assert.Equal(t, "Walk", habits[1].Name)
	assert.Equal(t, 2, habits[1].SortOrder)
	assert.False(t, habits[0].CreatedAt.IsZero())

	tasks, err := store.TasksForDate(ctx, "2024-01-14")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].StartTime)
	assert.Nil(t, tasks[0].EndTime)

	// The new columns are usable
	_, err = store.CreateTask(ctx, newTask("Run", "2024-01-14", "low", "07:00", "07:30"))
	require.NoError(t, err)

	theme, err := store.GetSetting(ctx, "theme", "")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	done, err := store.CompletedHabitIDs(ctx, "2024-01-14")
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true}, done)

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(dbPath), "backups"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "expected one pre-migration backup")
}

func TestInitNormalizesLegacyPriorities(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "habitflow.db")

	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = raw.Exec(legacySchema + `
INSERT INTO tasks (title, date, priority) VALUES ('Odd', '2024-01-13', 'urgent');
INSERT INTO tasks (title, date, priority) VALUES ('Loud', '2024-01-13', ' High');
INSERT INTO tasks (title, date, priority) VALUES ('Quiet', '2024-01-13', NULL);
`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	store := NewStore(dbPath)
	require.NoError(t, store.Init(ctx))
	defer store.Close()

	var stored []string
	require.NoError(t, store.db.SelectContext(ctx, &stored, "SELECT priority FROM tasks ORDER BY id"))
	assert.Equal(t, []string{"high", "medium", "high", "medium"}, stored)

	tasks, err := store.TasksForDate(ctx, "2024-01-13")
	require.NoError(t, err)
	assert.Equal(t, []string{"Loud", "Odd", "Quiet"}, taskTitles(tasks))
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, models.PriorityMedium, tasks[1].Priority)
}

func TestUnknownStoredPriorityReadsAsMedium(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.db.ExecContext(ctx,
		"INSERT INTO tasks (title, date, priority, created_at) VALUES ('Odd', '2024-01-15', 'urgent', '2024-01-15 08:00:00')")
	require.NoError(t, err)

	tasks, err := store.TasksForDate(ctx, "2024-01-15")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.PriorityMedium, tasks[0].Priority)
}

func TestInitRefusesNewerDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "habitflow.db")

	raw, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = raw.Exec("CREATE TABLE schema_version (version INTEGER NOT NULL); INSERT INTO schema_version (version) VALUES (99);")
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	store := NewStore(dbPath)
	defer store.Close()
	err = store.Init(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestOperationsBeforeInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "habitflow.db"))

	_, err := store.ListHabits(context.Background())
	require.Error(t, err)
	_, err = store.CreateHabit(context.Background(), "Read", "", "")
	require.Error(t, err)
}

func TestCloseLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "habitflow.db"))
	require.NoError(t, store.Init(ctx))

	habit, err := store.CreateHabit(ctx, "Read", "", "")
	require.NoError(t, err)
	_, err = store.ToggleHabitCompletion(ctx, habit.ID, "2024-01-15")
	require.NoError(t, err)
	_, err = store.ListHabits(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Close())
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		src  any
		want time.Time
	}{
		{"sqlite text", "2024-01-15 10:30:00", want},
		{"bytes", []byte("2024-01-15 10:30:00"), want},
		{"rfc3339", "2024-01-15T10:30:00Z", want},
		{"driver time", want.In(time.FixedZone("EST", -5*3600)), want},
		{"null", nil, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dbTime
			require.NoError(t, got.Scan(tt.src))
			assert.True(t, tt.want.Equal(got.Time), "got %v want %v", got.Time, tt.want)
		})
	}

	var bad dbTime
	assert.Error(t, bad.Scan("yesterday"))
	assert.Error(t, bad.Scan(42))
}

func TestDiagnostics(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Ping(ctx))

	latest, err := store.LatestSchemaVersion()
	require.NoError(t, err)
	current, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, latest, current)

	habit, err := store.CreateHabit(ctx, "Read", "", "")
	require.NoError(t, err)
	_, err = store.ToggleHabitCompletion(ctx, habit.ID, "2024-01-15")
	require.NoError(t, err)

	problems, err := store.IntegrityCheck(ctx)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestIntegrityCheckReportsOrphans(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	// Plant an orphan with enforcement off on a dedicated connection
	conn, err := store.db.Connx(ctx)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "INSERT INTO habit_completions (habit_id, date) VALUES (99, '2024-01-15')")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	problems, err := store.IntegrityCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1 foreign key violation(s)"}, problems)
}

func TestIntegrityCheckReportsMissingTable(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.db.ExecContext(ctx, "DROP TABLE settings")
	require.NoError(t, err)

	problems, err := store.IntegrityCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"missing table settings"}, problems)
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.db.ExecContext(ctx, "INSERT INTO habit_completions (habit_id, date) VALUES (99, '2024-01-15')")
	assert.Error(t, err, "foreign_keys pragma should reject orphan completions")
}
