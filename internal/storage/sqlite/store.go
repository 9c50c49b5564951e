package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitflow/internal/backup"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/migration"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/migrations"
)

const driverName = "sqlite"

// connection pragmas applied to every pooled connection
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

var _ storage.Provider = (*Store)(nil)

type Store struct {
	path string
	db   *sqlx.DB

	// writeMu serialises every mutating transaction
	writeMu sync.Mutex
	now     func() time.Time

	backupBeforeMigrate bool
	maxBackups          int
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used for created_at timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithBackupBeforeMigrate snapshots an existing database before pending
// migrations are applied, keeping at most maxBackups snapshots.
func WithBackupBeforeMigrate(maxBackups int) Option {
	return func(s *Store) {
		s.backupBeforeMigrate = true
		s.maxBackups = maxBackups
	}
}

func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreWithDB wraps an already open connection. Migrations are not run.
func NewStoreWithDB(db *sql.DB, opts ...Option) *Store {
	s := NewStore("", opts...)
	s.db = sqlx.NewDb(db, driverName)
	return s
}

// Init opens the database and brings its schema up to date. It is safe to
// call on every startup.
func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	_, statErr := os.Stat(s.path)
	existed := statErr == nil

	db, err := sqlx.Open(driverName, s.path+pragmas)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(ctx, existed); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Store initialized", "path", s.path)
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetPath() string {
	return s.path
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db.DB, subFS), nil
}

func (s *Store) runMigrations(ctx context.Context, existed bool) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}

	if existed && s.backupBeforeMigrate {
		pending, err := runner.PendingMigrations(ctx)
		if err != nil {
			return err
		}
		if len(pending) > 0 {
			mgr := backup.NewManager(s.path, s.maxBackups)
			path, err := mgr.CreateBackup(ctx)
			if err != nil {
				return fmt.Errorf("failed to back up database before migrating: %w", err)
			}
			logger.Info("Backed up database before migrating", "path", path, "pending", len(pending))
		}
	}

	count, err := runner.ApplyMigrations(ctx, func(msg string) {
		logger.Info(msg)
	})
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Applied migrations", "count", count)
	}
	return nil
}

// SchemaVersion reports the version recorded in schema_version
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.GetCurrentVersion(ctx)
}

// LatestSchemaVersion returns the newest embedded migration version
func (s *Store) LatestSchemaVersion() (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.GetLatestVersion()
}

// Ping verifies the database answers queries
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := s.db.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

var requiredTables = []string{"habits", "habit_completions", "tasks", "settings", "schema_version"}

// IntegrityCheck confirms the schema tables exist, runs SQLite's integrity
// and foreign key checks, and returns a description of every problem found.
func (s *Store) IntegrityCheck(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var results []string
	if err := s.db.SelectContext(ctx, &results, "SELECT integrity_check FROM pragma_integrity_check"); err != nil {
		return nil, errors.Storage("integrity check", err)
	}

	var problems []string
	for _, table := range requiredTables {
		exists, err := s.tableExists(ctx, table)
		if err != nil {
			return nil, errors.Storage("integrity check", err)
		}
		if !exists {
			problems = append(problems, fmt.Sprintf("missing table %s", table))
		}
	}
	for _, r := range results {
		if r != "ok" {
			problems = append(problems, r)
		}
	}

	var violations int
	if err := s.db.GetContext(ctx, &violations, "SELECT COUNT(*) FROM pragma_foreign_key_check"); err != nil {
		return nil, errors.Storage("foreign key check", err)
	}
	if violations > 0 {
		problems = append(problems, fmt.Sprintf("%d foreign key violation(s)", violations))
	}

	return problems, nil
}

// tableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func (s *Store) tableExists(ctx context.Context, tableName string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// withTx runs fn inside a transaction holding the write lock. Any error
// from fn rolls the transaction back and is returned as a storage error
// unless it is already classified.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) (err error) {
	if s.db == nil {
		return errors.Storage(op, fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Storage(op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("Rollback failed", "op", op, "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		logger.Debug("Transaction aborted", "op", op, "error", err)
		return errors.Storage(op, err)
	}

	if err = tx.Commit(); err != nil {
		return errors.Storage(op, err)
	}
	return nil
}

// selectAll runs a built query and scans every row into dest
func (s *Store) selectAll(ctx context.Context, op string, dest any, q sq.Sqlizer) error {
	if s.db == nil {
		return errors.Storage(op, fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Storage(op, err)
	}
	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return errors.Storage(op, err)
	}
	return nil
}

// getOne runs a built query expected to return exactly one row
func (s *Store) getOne(ctx context.Context, op string, dest any, q sq.Sqlizer) error {
	if s.db == nil {
		return errors.Storage(op, fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Storage(op, err)
	}
	if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
		return errors.Storage(op, err)
	}
	return nil
}

// execTx runs a built statement inside tx
func execTx(ctx context.Context, tx *sqlx.Tx, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return tx.ExecContext(ctx, query, args...)
}

// getTx runs a built query inside tx and scans a single row into dest
func getTx(ctx context.Context, tx *sqlx.Tx, dest any, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	return tx.GetContext(ctx, dest, query, args...)
}

// dateRange applies inclusive from/to bounds on the date column; empty bounds are open
func dateRange(b sq.SelectBuilder, from, to string) sq.SelectBuilder {
	if from != "" {
		b = b.Where(sq.GtOrEq{"date": from})
	}
	if to != "" {
		b = b.Where(sq.LtOrEq{"date": to})
	}
	return b
}

// timestamp renders t the way SQLite's CURRENT_TIMESTAMP does
func (s *Store) timestamp() (string, time.Time) {
	t := s.now().UTC().Truncate(time.Second)
	return t.Format(constants.TimestampFormat), t
}

// dbTime scans created_at values written either by this package or by
// SQLite's CURRENT_TIMESTAMP, whether the driver hands back text or time.Time.
type dbTime struct {
	time.Time
}

var timestampLayouts = []string{
	constants.TimestampFormat,
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	constants.DateFormat,
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *dbTime) parse(value string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", value)
}
