package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/julianstephens/habitflow/internal/backup"
)

type BackupCmd struct {
	Create BackupCreateCmd `cmd:"" help:"Snapshot the database into the backup directory."`
	List   BackupListCmd   `cmd:"" help:"List available backups." default:"1"`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	backupPath, err := ctx.Backups().CreateBackup(ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	return ctx.Render(map[string]string{"path": backupPath}, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ Backup created: %s\n", filepath.Base(backupPath))
		return nil
	})
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if backups == nil {
		backups = []backup.BackupInfo{}
	}

	return ctx.Render(backups, func(w io.Writer) error {
		if len(backups) == 0 {
			fmt.Fprintln(w, "No backups found.")
			fmt.Fprintf(w, "Backups are stored in: %s\n", mgr.GetBackupDir())
			return nil
		}

		fmt.Fprintf(w, "Available backups (%d total, keeping most recent %d):\n\n", len(backups), ctx.Config.MaxBackups)
		for _, b := range backups {
			sizeKB := float64(b.Size) / 1024.0
			fmt.Fprintf(w, "  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
		}
		fmt.Fprintf(w, "\nBackup directory: %s\n", mgr.GetBackupDir())
		return nil
	})
}
