package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitflow/internal/cli"
	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/errors"
	"github.com/julianstephens/habitflow/internal/logger"
	"github.com/julianstephens/habitflow/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag

	DataDir  string `help:"Data directory holding the config, database, backups and logs." type:"path" env:"HABITFLOW_DATA_DIR"`
	Database string `help:"Database file, relative to the data directory unless absolute."`
	Debug    bool   `help:"Enable debug logging to stderr." env:"HABITFLOW_DEBUG"`
	Output   string `help:"Output format: text, json, or yaml." short:"o"`

	Init    cli.InitCmd    `cmd:"" help:"Initialize habitflow storage and config."`
	Migrate cli.MigrateCmd `cmd:"" help:"Apply pending schema migrations."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run diagnostics on the database."`

	Habit cli.HabitCmd `cmd:"" help:"Manage habits."`
	Task  cli.TaskCmd  `cmd:"" help:"Manage tasks."`

	Stats   cli.StatsCmd   `cmd:"" help:"Show today's dashboard." default:"1"`
	Week    cli.WeekCmd    `cmd:"" help:"Show completion rates for a week."`
	Report  cli.ReportCmd  `cmd:"" help:"Show the report for a day."`
	Trends  cli.TrendsCmd  `cmd:"" help:"Show daily rates for a month."`
	Streaks cli.StreaksCmd `cmd:"" help:"Show streaks per habit."`
	Summary cli.SummaryCmd `cmd:"" help:"Show the all-time summary."`

	Settings cli.SettingsCmd `cmd:"" help:"Read and write settings."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage database backups."`
	Config   cli.ConfigCmd   `cmd:"" help:"Inspect and write the config file."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit and task tracker with streaks and analytics"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := loadConfig()
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []sqlite.Option
	if cfg.BackupBeforeMigrate {
		opts = append(opts, sqlite.WithBackupBeforeMigrate(cfg.MaxBackups))
	}
	store := sqlite.NewStore(cfg.DatabasePath(), opts...)
	if err := store.Init(appCtx); err != nil {
		errors.Fatal(err)
	}

	err = kctx.Run(cli.NewContext(appCtx, store, cfg))
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}

func loadConfig() (config.Config, error) {
	dataDir := CLI.DataDir
	if dataDir == "" {
		var err error
		if dataDir, err = config.DefaultDataDir(); err != nil {
			return config.Config{}, err
		}
	}

	cfg, _, err := config.Load(dataDir)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.Apply(config.Overrides{
		Database: CLI.Database,
		Debug:    CLI.Debug,
		Output:   CLI.Output,
	})
}
