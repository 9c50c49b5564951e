package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitflow/internal/analytics"
	"github.com/julianstephens/habitflow/internal/backup"
	"github.com/julianstephens/habitflow/internal/config"
	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/storage"
	"github.com/julianstephens/habitflow/internal/utils"
)

type Context struct {
	context.Context

	Store     storage.Provider
	Analytics *analytics.Engine
	Config    config.Config
	Out       io.Writer
	Now       func() time.Time
}

// NewContext wires the analytics engine to store and prints to stdout
func NewContext(ctx context.Context, store storage.Provider, cfg config.Config) *Context {
	return &Context{
		Context:   ctx,
		Store:     store,
		Analytics: analytics.New(store),
		Config:    cfg,
		Out:       os.Stdout,
		Now:       time.Now,
	}
}

// Today returns the current calendar day as YYYY-MM-DD
func (c *Context) Today() string {
	return utils.FormatDate(utils.Day(c.Now()))
}

// DateOrToday returns date, or today when date is empty or "today"
func (c *Context) DateOrToday(date string) string {
	if date == "" || date == "today" {
		return c.Today()
	}
	return date
}

// Backups returns a backup manager for the current store
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Store.GetPath(), c.Config.MaxBackups)
}

// Render writes v in the configured output format. Text output is
// delegated to text.
func (c *Context) Render(v any, text func(w io.Writer) error) error {
	switch c.Config.Output {
	case constants.OutputJSON:
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return nil
	case constants.OutputYAML:
		enc := yaml.NewEncoder(c.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return enc.Close()
	default:
		return text(c.Out)
	}
}

// Printf writes to the command output
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}
