// Package config loads bookshelf configuration from command-line flags, environment variables and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage backends understood by the kv package.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Auth    AuthConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects where reading progress and the session slot live.
type StorageConfig struct {
	Backend string // badger, sqlite or memory (default: badger)
	Path    string // data directory (default: ~/Bookshelf/data)
}

// AuthConfig holds login throttling configuration.
type AuthConfig struct {
	LoginRate  float64 // attempts per second refilled (default: 0.2)
	LoginBurst int     // attempts allowed back to back (default: 5)
}

// Overrides carries values parsed from command-line flags. Empty fields fall through
// to the environment.
type Overrides struct {
	Environment string
	LogLevel    string
	DataPath    string
	Backend     string
	LoginRate   string
	LoginBurst  string
	EnvFile     string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env file is fine.
	if err := loadEnvFile(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(o.Environment, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(o.LogLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getConfigValue(o.Backend, "STORAGE_BACKEND", BackendBadger)),
			Path:    getConfigValue(o.DataPath, "DATA_PATH", ""),
		},
		Auth: AuthConfig{
			LoginBurst: getIntConfigValue(o.LoginBurst, "LOGIN_BURST", 5),
		},
	}

	rateStr := getConfigValue(o.LoginRate, "LOGIN_RATE", "0.2")
	loginRate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid login rate %q: %w", rateStr, err)
	}
	cfg.Auth.LoginRate = loginRate

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Storage.Backend {
	case BackendBadger, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be badger, sqlite, or memory)", c.Storage.Backend)
	}

	if c.Storage.Backend != BackendMemory && c.Storage.Path == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Auth.LoginRate <= 0 {
		return fmt.Errorf("invalid login rate: %v (must be positive)", c.Auth.LoginRate)
	}
	if c.Auth.LoginBurst <= 0 {
		return fmt.Errorf("invalid login burst: %d (must be positive)", c.Auth.LoginBurst)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath resolves the data directory, defaulting to ~/Bookshelf/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Bookshelf", "data")

	expanded, err := expandPath(c.Storage.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
// Unparseable values fall back to the default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments). Variables already set win.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
