// Package config resolves where habitflow keeps its data and how it behaves.
//
// Precedence, highest wins:
//  1. Command line flags and environment (applied by the caller via Apply)
//  2. <data-dir>/config.jsonc
//  3. Defaults
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/errors"
)

// Config holds all configuration options.
type Config struct {
	DataDir             string `json:"data_dir" yaml:"data_dir"`
	Database            string `json:"database" yaml:"database"`
	Debug               bool   `json:"debug" yaml:"debug"`
	BackupBeforeMigrate bool   `json:"backup_before_migrate" yaml:"backup_before_migrate"`
	MaxBackups          int    `json:"max_backups" yaml:"max_backups"`
	Output              string `json:"output" yaml:"output"`
}

// fileConfig is the on-disk shape. Pointers tell unset fields from zero values.
type fileConfig struct {
	Database            *string `json:"database,omitempty"`
	Debug               *bool   `json:"debug,omitempty"`
	BackupBeforeMigrate *bool   `json:"backup_before_migrate,omitempty"`
	MaxBackups          *int    `json:"max_backups,omitempty"`
	Output              *string `json:"output,omitempty"`
}

// Overrides carries values from flags and environment
type Overrides struct {
	Database string
	Debug    bool
	Output   string
}

const fileHeader = "// habitflow configuration (JSON with comments)\n"

// DefaultDataDir returns the per-user data directory, <user config dir>/habitflow
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, constants.AppName), nil
}

// Default returns the default configuration rooted at dataDir.
func Default(dataDir string) Config {
	return Config{
		DataDir:             dataDir,
		Database:            constants.DefaultDBName,
		BackupBeforeMigrate: true,
		MaxBackups:          constants.MaxBackups,
		Output:              constants.DefaultOutput,
	}
}

// Path returns the config file location for dataDir
func Path(dataDir string) string {
	return filepath.Join(dataDir, constants.DefaultConfigName)
}

// Load reads <dataDir>/config.jsonc over the defaults. A missing file is
// not an error. The returned path is empty when no file was read.
func Load(dataDir string) (Config, string, error) {
	cfg := Default(dataDir)
	path := Path(dataDir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, "", nil
		}
		return Config{}, "", fmt.Errorf("failed to read config %s: %w", path, err)
	}

	fc, err := parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg = merge(cfg, fc)

	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

func parse(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(standardized, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.Database != nil {
		base.Database = *overlay.Database
	}
	if overlay.Debug != nil {
		base.Debug = *overlay.Debug
	}
	if overlay.BackupBeforeMigrate != nil {
		base.BackupBeforeMigrate = *overlay.BackupBeforeMigrate
	}
	if overlay.MaxBackups != nil {
		base.MaxBackups = *overlay.MaxBackups
	}
	if overlay.Output != nil {
		base.Output = *overlay.Output
	}
	return base
}

// Apply layers flag and environment values over the loaded configuration
func (c Config) Apply(o Overrides) (Config, error) {
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	return c, c.Validate()
}

// Validate checks the configuration for unusable values
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.Validation("data_dir", "", "must not be empty")
	}
	if c.Database == "" {
		return errors.Validation("database", "", "must not be empty")
	}
	if c.MaxBackups < 1 {
		return errors.Validation("max_backups", strconv.Itoa(c.MaxBackups), "must be at least 1")
	}
	switch c.Output {
	case constants.OutputText, constants.OutputJSON, constants.OutputYAML:
	default:
		return errors.Validation("output", c.Output, "must be one of text, json, yaml")
	}
	return nil
}

// DatabasePath resolves the store location. Relative database names live
// inside the data directory.
func (c Config) DatabasePath() string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(c.DataDir, c.Database)
}

// Save writes the file-backed settings of c to <data-dir>/config.jsonc atomically
func Save(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	fc := fileConfig{
		Database:            &c.Database,
		Debug:               &c.Debug,
		BackupBeforeMigrate: &c.BackupBeforeMigrate,
		MaxBackups:          &c.MaxBackups,
		Output:              &c.Output,
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	buf.Write(data)
	buf.WriteByte('\n')

	path := Path(c.DataDir)
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	return nil
}
