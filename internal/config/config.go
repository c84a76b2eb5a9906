// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package config loads arc-shelf settings.
//
// Sources, highest precedence first: command-line flags (bound by the cmd
// package), ARC_SHELF_* environment variables, .env files, the config file
// (~/.arc-shelf.yaml or ./.arc-shelf.yaml), then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageCSV    = "csv"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds resolved settings.
type Config struct {
	Storage  string
	DataFile string
	DBFile   string

	Metadata MetadataConfig

	LogLevel  string
	LogFormat string
	Output    string

	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// MetadataConfig configures the book metadata source used by import.
type MetadataConfig struct {
	Endpoint  string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage", StorageCSV)
	v.SetDefault("data_file", "~/.arc-shelf/library.csv")
	v.SetDefault("db_file", "~/.arc-shelf/library.db")
	v.SetDefault("metadata.endpoint", "https://www.googleapis.com/books/v1/volumes")
	v.SetDefault("metadata.user_agent", "arc-shelf/1.0")
	v.SetDefault("metadata.timeout", 10*time.Second)
	v.SetDefault("metadata.cache_ttl", 10*time.Minute)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "auto")
	v.SetDefault("output", "table")
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up. configFile overrides the search.
func New(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("ARC_SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".arc-shelf")
		v.SetConfigType("yaml")
	}
	return v
}

// Load reads .env files and the config file into v and resolves a Config.
// A missing config file is not an error; an unreadable one is.
func Load(v *viper.Viper) (*Config, error) {
	// Missing .env files are expected.
	_ = godotenv.Load()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Storage:  strings.ToLower(v.GetString("storage")),
		DataFile: ExpandHome(v.GetString("data_file")),
		DBFile:   ExpandHome(v.GetString("db_file")),
		Metadata: MetadataConfig{
			Endpoint:  v.GetString("metadata.endpoint"),
			APIKey:    v.GetString("metadata.api_key"),
			UserAgent: v.GetString("metadata.user_agent"),
			Timeout:   v.GetDuration("metadata.timeout"),
			CacheTTL:  v.GetDuration("metadata.cache_ttl"),
		},
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		Output:     v.GetString("output"),
		ConfigFile: v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageCSV, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q (choose csv, sqlite, or memory)", c.Storage)
	}
	if c.Storage == StorageCSV && c.DataFile == "" {
		return errors.New("data_file must be set for csv storage")
	}
	if c.Storage == StorageSQLite && c.DBFile == "" {
		return errors.New("db_file must be set for sqlite storage")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
