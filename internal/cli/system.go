package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/logger"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing config file with the defaults."`
}

func (c *InitCmd) Run(ctx *Context) error {
	configPath, written, err := writeDefaultConfig(ctx, c.Force)
	if err != nil {
		return err
	}

	version, err := ctx.Store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	out := map[string]any{
		"database":       ctx.Store.GetPath(),
		"config":         configPath,
		"config_written": written,
		"schema_version": version,
	}
	return ctx.Render(out, func(w io.Writer) error {
		fmt.Fprintf(w, "Initialized habitflow storage at: %s\n", ctx.Store.GetPath())
		if written {
			fmt.Fprintf(w, "Wrote config: %s\n", configPath)
		} else {
			fmt.Fprintf(w, "Using existing config: %s\n", configPath)
		}
		fmt.Fprintf(w, "Schema version: %d\n", version)
		return nil
	})
}

// writeDefaultConfig saves the default config unless one already exists
func writeDefaultConfig(ctx *Context, force bool) (string, bool, error) {
	path := config.Path(ctx.Config.DataDir)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, false, nil
		} else if !os.IsNotExist(err) {
			return "", false, fmt.Errorf("failed to access config: %w", err)
		}
	}

	if err := config.Save(config.Default(ctx.Config.DataDir)); err != nil {
		return "", false, fmt.Errorf("failed to write config: %w", err)
	}
	logger.Info("Wrote config", "path", path)
	return path, true, nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	// Init has already applied pending migrations; confirm the result
	current, err := ctx.Store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	latest, err := ctx.Store.LatestSchemaVersion()
	if err != nil {
		return err
	}
	if current != latest {
		return fmt.Errorf("schema version %d does not match latest migration %d", current, latest)
	}

	return ctx.Render(map[string]int{"schema_version": current, "latest_version": latest}, func(w io.Writer) error {
		fmt.Fprintf(w, "Database is up to date (schema version %d).\n", current)
		return nil
	})
}

type checkStatus string

const (
	checkOK      checkStatus = "ok"
	checkWarning checkStatus = "warning"
	checkFail    checkStatus = "fail"
	checkSkipped checkStatus = "skipped"
)

type checkResult struct {
	Name    string      `json:"name" yaml:"name"`
	Status  checkStatus `json:"status" yaml:"status"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	var results []checkResult
	record := func(name string, err error, failStatus checkStatus) {
		if err != nil {
			results = append(results, checkResult{Name: name, Status: failStatus, Message: err.Error()})
			return
		}
		results = append(results, checkResult{Name: name, Status: checkOK})
	}

	dbErr := ctx.Store.Ping(ctx)
	record("Database reachable", dbErr, checkFail)

	dbChecks := []struct {
		name string
		fn   func(*Context) error
	}{
		{"Schema version", checkSchemaVersion},
		{"Data integrity", checkIntegrity},
	}
	for _, check := range dbChecks {
		if dbErr != nil {
			results = append(results, checkResult{Name: check.name, Status: checkSkipped, Message: "database not reachable"})
			continue
		}
		record(check.name, check.fn(ctx), checkFail)
	}

	record("Backups present", checkBackupsPresent(ctx), checkWarning)
	record("Clock", checkClock(ctx.Now()), checkFail)

	failed := 0
	for _, r := range results {
		if r.Status == checkFail {
			failed++
		}
	}

	err := ctx.Render(results, func(w io.Writer) error {
		fmt.Fprintln(w, "Running diagnostics...")
		fmt.Fprintln(w)
		for _, r := range results {
			fmt.Fprintf(w, "%s %s: %s\n", statusIcon(r.Status), r.Name, r.Status)
			if r.Message != "" {
				fmt.Fprintf(w, "   %s\n", r.Message)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d diagnostic check(s) failed", failed)
	}
	return nil
}

func statusIcon(s checkStatus) string {
	switch s {
	case checkOK:
		return doneStyle.Render("✓")
	case checkWarning:
		return "⚠"
	case checkSkipped:
		return "⊘"
	default:
		return "❌"
	}
}

func checkSchemaVersion(ctx *Context) error {
	current, err := ctx.Store.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	latest, err := ctx.Store.LatestSchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if current < latest {
		return fmt.Errorf("%d pending migration(s), run 'habitflow migrate'", latest-current)
	}
	if current > latest {
		return fmt.Errorf("database version %d is newer than supported version %d", current, latest)
	}
	return nil
}

func checkIntegrity(ctx *Context) error {
	problems, err := ctx.Store.IntegrityCheck(ctx)
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s): %v", len(problems), problems)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := ctx.Backups().ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run 'habitflow backup create'")
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration." default:"1"`
	Init ConfigInitCmd `cmd:"" help:"Write the default config file."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	return ctx.Render(ctx.Config, func(w io.Writer) error {
		fmt.Fprintln(w, title("Configuration"))
		fmt.Fprintln(w, field("Config file", config.Path(ctx.Config.DataDir)))
		fmt.Fprintln(w, field("Data dir", ctx.Config.DataDir))
		fmt.Fprintln(w, field("Database", ctx.Config.DatabasePath()))
		fmt.Fprintln(w, field("Debug", ctx.Config.Debug))
		fmt.Fprintln(w, field("Backup before migrate", ctx.Config.BackupBeforeMigrate))
		fmt.Fprintln(w, field("Max backups", ctx.Config.MaxBackups))
		fmt.Fprintln(w, field("Output", ctx.Config.Output))
		return nil
	})
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(ctx *Context) error {
	path, written, err := writeDefaultConfig(ctx, c.Force)
	if err != nil {
		return err
	}

	return ctx.Render(map[string]any{"path": path, "written": written}, func(w io.Writer) error {
		if written {
			fmt.Fprintf(w, "✓ Wrote config: %s\n", path)
		} else {
			fmt.Fprintf(w, "Config already exists: %s (use --force to overwrite)\n", path)
		}
		return nil
	})
}
