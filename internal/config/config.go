// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete configuration.
type Config struct {
	Codebase CodebaseConfig `mapstructure:"codebase" yaml:"codebase"`
	Search   SearchConfig   `mapstructure:"search" yaml:"search"`
	Limits   LimitsConfig   `mapstructure:"limits" yaml:"limits"`
	Backup   BackupConfig   `mapstructure:"backup" yaml:"backup"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// CodebaseConfig locates the served directory tree.
type CodebaseConfig struct {
	// Root is the directory served to clients. Empty means "<project>/Project",
	// created on demand with a README explaining its purpose.
	Root            string `mapstructure:"root" yaml:"root"`
	CreateIfMissing bool   `mapstructure:"create_if_missing" yaml:"create_if_missing"`
}

// SearchConfig contains search configuration.
type SearchConfig struct {
	// Include is the default comma-joined glob set when the caller passes none.
	Include       string   `mapstructure:"include" yaml:"include"`
	Exclude       []string `mapstructure:"exclude" yaml:"exclude"` // glob patterns always skipped
	MaxResults    int      `mapstructure:"max_results" yaml:"max_results"`
	MaxBlocks     int      `mapstructure:"max_blocks" yaml:"max_blocks"` // matches that carry block context
	CaseSensitive bool     `mapstructure:"case_sensitive" yaml:"case_sensitive"`
}

// LimitsConfig contains resource limits.
type LimitsConfig struct {
	MaxFileSize    int64 `mapstructure:"max_file_size" yaml:"max_file_size"`       // bytes, read/search skip above this
	MaxResultBytes int   `mapstructure:"max_result_bytes" yaml:"max_result_bytes"` // serialized search payload cap
}

// BackupConfig contains snapshot settings.
type BackupConfig struct {
	// Dir holds snapshots and their catalog. Empty means "<state dir>/backups".
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Codebase: CodebaseConfig{
			Root:            "",
			CreateIfMissing: true,
		},
		Search: SearchConfig{
			Include: "**/*.py,**/*.js,**/*.ts,**/*.jsx,**/*.tsx,**/*.java," +
				"**/*.c,**/*.cpp,**/*.h,**/*.hpp,**/*.go,**/*.rs,**/*.rb",
			Exclude: []string{
				"**/node_modules/**", "**/.git/**", "**/vendor/**",
				"**/dist/**", "**/build/**", "**/__pycache__/**",
			},
			MaxResults:    20,
			MaxBlocks:     20,
			CaseSensitive: true,
		},
		Limits: LimitsConfig{
			MaxFileSize:    1024 * 1024,
			MaxResultBytes: 256 * 1024,
		},
		Backup: BackupConfig{
			Dir: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// StateDir returns the path to the .mcp-codebase-browser directory.
func StateDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".mcp-codebase-browser")
}

// ConfigPath returns the path to config.yaml.
func ConfigPath(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), "config.yaml")
}

// CatalogDBPath returns the path to the backup catalog database.
func CatalogDBPath(projectRoot string) string {
	return filepath.Join(StateDir(projectRoot), "backups.db")
}

// BackupDir resolves the snapshot directory for a project.
func BackupDir(projectRoot string, cfg *Config) string {
	if cfg != nil && cfg.Backup.Dir != "" {
		if filepath.IsAbs(cfg.Backup.Dir) {
			return cfg.Backup.Dir
		}
		return filepath.Join(projectRoot, cfg.Backup.Dir)
	}
	return filepath.Join(StateDir(projectRoot), "backups")
}

// CodebaseRoot resolves the served directory for a project.
func CodebaseRoot(projectRoot string, cfg *Config) string {
	if cfg != nil && cfg.Codebase.Root != "" {
		if filepath.IsAbs(cfg.Codebase.Root) {
			return cfg.Codebase.Root
		}
		return filepath.Join(projectRoot, cfg.Codebase.Root)
	}
	return filepath.Join(projectRoot, "Project")
}

// Load loads configuration from the project's config file, falling back to
// defaults.
func Load(projectRoot string) (*Config, []string, error) {
	return LoadFile(ConfigPath(projectRoot))
}

// LoadFile loads configuration from an explicit file path, falling back to
// defaults when the file does not exist.
func LoadFile(configPath string) (*Config, []string, error) {
	cfg := DefaultConfig()
	warnings := []string{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		warnings = append(warnings, "No config file found, using defaults")
		return cfg, warnings, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults for missing values
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 20
	}
	if cfg.Search.MaxBlocks == 0 {
		cfg.Search.MaxBlocks = cfg.Search.MaxResults
	}
	if cfg.Limits.MaxFileSize == 0 {
		cfg.Limits.MaxFileSize = 1024 * 1024
	}
	if cfg.Limits.MaxResultBytes == 0 {
		cfg.Limits.MaxResultBytes = 256 * 1024
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, warnings, nil
}

// Save saves configuration to file.
func Save(projectRoot string, cfg *Config) error {
	stateDir := StateDir(projectRoot)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(ConfigPath(projectRoot))
	v.SetConfigType("yaml")

	v.Set("codebase", cfg.Codebase)
	v.Set("search", cfg.Search)
	v.Set("limits", cfg.Limits)
	v.Set("backup", cfg.Backup)
	v.Set("logging", cfg.Logging)

	return v.WriteConfig()
}

// Validate validates the configuration.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Search.MaxResults < 0 {
		errs = append(errs, fmt.Errorf("search.max_results must not be negative"))
	}
	if cfg.Search.MaxBlocks < 0 {
		errs = append(errs, fmt.Errorf("search.max_blocks must not be negative"))
	}
	if cfg.Limits.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("limits.max_file_size must not be negative"))
	}
	if cfg.Limits.MaxResultBytes < 0 {
		errs = append(errs, fmt.Errorf("limits.max_result_bytes must not be negative"))
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "": true,
	}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", cfg.Logging.Level))
	}

	validFormats := map[string]bool{
		"text": true, "json": true, "": true,
	}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Errorf("invalid log format: %s", cfg.Logging.Format))
	}

	return errs
}
