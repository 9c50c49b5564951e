package constants

const (
	AppName           = "habitflow"
	Version           = "v0.1.0"
	DefaultDBName     = "habitflow.db"
	DefaultConfigName = "config.jsonc"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat matches SQLite's CURRENT_TIMESTAMP text so rows written
	// by older stores and by this one sort together.
	TimestampFormat = "2006-01-02 15:04:05"

	// Habit defaults
	DefaultHabitIcon  = "✓"
	DefaultHabitColor = "#6366F1"

	// Analytics windows
	DashboardStreakWindowDays = 30
	WeekLength                = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitflow-"
	BackupFileSuffix = ".db"

	// Output formats
	OutputText    = "text"
	OutputJSON    = "json"
	OutputYAML    = "yaml"
	DefaultOutput = OutputText

	// Log constants
	LogDirName    = "logs"
	LogFileName   = "habitflow.log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28
)
