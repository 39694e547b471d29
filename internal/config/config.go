// =============================================================================
// Itinerary PDF Generator - Configuration Module
// =============================================================================
//
// This module builds the single configuration value that is threaded into
// the assembler and the flight lookup client. Nothing reads the environment
// after Load returns.
//
// LOAD ORDER (later wins):
//   1. Built-in defaults
//   2. Optional YAML file (--config), ${VAR} references expanded
//   3. .env file in the working directory (missing file ignored; never
//      overrides variables that are already set)
//   4. Environment variables
//   5. CLI flags (applied by the caller)
//
// PATHS:
//   Assets, output and log file default to locations under BaseDir.
//   Relative paths from YAML or the environment are resolved against BaseDir.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvBaseDir      = "REISEPLAN_BASE_DIR"
	EnvAssetsDir    = "REISEPLAN_ASSETS_DIR"
	EnvOutputDir    = "REISEPLAN_OUTPUT_DIR"
	EnvFlightAPIKey = "FLIGHT_API_KEY"
	EnvFlightAPIURL = "FLIGHT_API_URL"
	EnvDebug        = "REISEPLAN_DEBUG"
	EnvLogLevel     = "REISEPLAN_LOG_LEVEL"
	EnvLogFile      = "REISEPLAN_LOG_FILE"
)

// Defaults.
const (
	DefaultFlightAPIURL   = "http://api.aviationstack.com/v1/flights"
	DefaultLogLevel       = "INFO"
	DefaultLogFileName    = "reiseplan_generator.log"
	DefaultPageSize       = "A4"
	DefaultMarginMM       = 20
	DefaultLookupTimeout  = 10 * time.Second
	DefaultLookupRate     = 5
	DefaultMaxConcurrency = 4
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// BaseDir anchors the other paths.
	// Default: current working directory
	BaseDir string `yaml:"base_dir"`

	// AssetsDir holds logo.png, airlines/, hotels/ and fonts/.
	// Default: "<base>/assets"
	AssetsDir string `yaml:"assets_dir"`

	// OutputDir receives the generated PDF files.
	// Default: "<base>/output"
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// FLIGHT LOOKUP SETTINGS
	// =========================================================================

	// FlightAPIKey is the access key of the flight-status service. Without
	// it every lookup fails as unauthorized.
	FlightAPIKey string `yaml:"flight_api_key"`

	// FlightAPIURL is the flights endpoint.
	FlightAPIURL string `yaml:"flight_api_url"`

	// LookupTimeout bounds a single lookup request.
	// Default: 10s
	LookupTimeout time.Duration `yaml:"lookup_timeout"`

	// LookupRate is the maximum number of lookup requests per second.
	// Default: 5
	LookupRate float64 `yaml:"lookup_rate"`

	// MaxConcurrency is the number of lookups run in parallel.
	// Set to 1 for sequential lookups.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// Debug forces the DEBUG log level.
	Debug bool `yaml:"debug"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	// Default: "INFO"
	LogLevel string `yaml:"log_level"`

	// LogFile receives a copy of the log output.
	// Default: "<base>/reiseplan_generator.log"
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// PAGE SETTINGS
	// =========================================================================

	// PageSize is the paper size name.
	// Default: "A4"
	PageSize string `yaml:"page_size"`

	// MarginMM is the margin on all four sides, in millimetres.
	// Default: 20
	MarginMM float64 `yaml:"margin_mm"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load builds the configuration. configPath may be empty.
func Load(configPath string) (*Config, error) {
	return load(configPath, ".env")
}

func load(configPath, envFile string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	applyEnv(cfg)

	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides fields with set environment variables.
func applyEnv(cfg *Config) {
	cfg.BaseDir = envOr(EnvBaseDir, cfg.BaseDir)
	cfg.AssetsDir = envOr(EnvAssetsDir, cfg.AssetsDir)
	cfg.OutputDir = envOr(EnvOutputDir, cfg.OutputDir)
	cfg.FlightAPIKey = envOr(EnvFlightAPIKey, cfg.FlightAPIKey)
	cfg.FlightAPIURL = envOr(EnvFlightAPIURL, cfg.FlightAPIURL)
	cfg.LogLevel = envOr(EnvLogLevel, cfg.LogLevel)
	cfg.LogFile = envOr(EnvLogFile, cfg.LogFile)

	if v, ok := os.LookupEnv(EnvDebug); ok {
		cfg.Debug = ParseBool(v)
	}
}

// applyDefaults fills unset fields and anchors relative paths at BaseDir.
func applyDefaults(cfg *Config) error {
	if cfg.BaseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		cfg.BaseDir = wd
	}

	if cfg.AssetsDir == "" {
		cfg.AssetsDir = "assets"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFileName
	}
	cfg.AssetsDir = cfg.Resolve(cfg.AssetsDir)
	cfg.OutputDir = cfg.Resolve(cfg.OutputDir)
	cfg.LogFile = cfg.Resolve(cfg.LogFile)

	if cfg.FlightAPIURL == "" {
		cfg.FlightAPIURL = DefaultFlightAPIURL
	}
	if cfg.LookupTimeout == 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	if cfg.LookupRate == 0 {
		cfg.LookupRate = DefaultLookupRate
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)
	if cfg.PageSize == "" {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MarginMM == 0 {
		cfg.MarginMM = DefaultMarginMM
	}

	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.MarginMM < 0 {
		return fmt.Errorf("margin_mm must not be negative")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1")
	}
	if c.LookupRate < 0 {
		return fmt.Errorf("lookup_rate must not be negative")
	}
	return nil
}

// Resolve makes a path absolute relative to BaseDir.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// ParseBool accepts "true", "1" and "t" in any case.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t":
		return true
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// =============================================================================
// DIRECTORIES
// =============================================================================

// EnsureDirectories creates the output directory and the assets tree.
func (c *Config) EnsureDirectories(assetSubdirs ...string) error {
	dirs := []string{c.OutputDir, c.AssetsDir}
	for _, sub := range assetSubdirs {
		dirs = append(dirs, filepath.Join(c.AssetsDir, sub))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// String renders the configuration with the API key masked.
func (c *Config) String() string {
	key := "(unset)"
	if c.FlightAPIKey != "" {
		key = fmt.Sprintf("set, %d chars", len(c.FlightAPIKey))
	}
	return fmt.Sprintf("base=%s assets=%s output=%s api=%s key=%s level=%s",
		c.BaseDir, c.AssetsDir, c.OutputDir, c.FlightAPIURL, key, c.LogLevel)
}
