package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allEnv = []string{
	EnvBaseDir, EnvAssetsDir, EnvOutputDir, EnvFlightAPIKey,
	EnvFlightAPIURL, EnvDebug, EnvLogLevel, EnvLogFile,
}

// clearEnv unsets every variable Load reads and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allEnv {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	t.Setenv(EnvBaseDir, base)

	cfg, err := load("", "")
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	checks := map[string][2]string{
		"assets":  {cfg.AssetsDir, filepath.Join(base, "assets")},
		"output":  {cfg.OutputDir, filepath.Join(base, "output")},
		"logfile": {cfg.LogFile, filepath.Join(base, DefaultLogFileName)},
		"url":     {cfg.FlightAPIURL, DefaultFlightAPIURL},
		"level":   {cfg.LogLevel, "INFO"},
		"page":    {cfg.PageSize, "A4"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}

	if cfg.MarginMM != 20 || cfg.MaxConcurrency != 4 || cfg.LookupTimeout != 10*time.Second || cfg.LookupRate != 5 {
		t.Errorf("numeric defaults wrong: %+v", cfg)
	}
	if cfg.Debug || cfg.FlightAPIKey != "" {
		t.Errorf("debug=%v key=%q", cfg.Debug, cfg.FlightAPIKey)
	}
}

func TestYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()

	path := filepath.Join(base, "config.yaml")
	yaml := "base_dir: " + base + "\n" +
		"output_dir: pdfs\n" +
		"flight_api_key: ${TEST_REISEPLAN_KEY}\n" +
		"lookup_timeout: 3s\n" +
		"margin_mm: 15\n" +
		"log_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_REISEPLAN_KEY", "from-yaml")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := load(path, "")
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}

	if cfg.OutputDir != filepath.Join(base, "pdfs") {
		t.Errorf("output = %q, want relative to base", cfg.OutputDir)
	}
	if cfg.FlightAPIKey != "from-yaml" {
		t.Errorf("key = %q, want expanded value", cfg.FlightAPIKey)
	}
	if cfg.LookupTimeout != 3*time.Second || cfg.MarginMM != 15 {
		t.Errorf("timeout=%v margin=%v", cfg.LookupTimeout, cfg.MarginMM)
	}
	if cfg.LogLevel != "WARN" {
		t.Errorf("level = %q, env should win over YAML", cfg.LogLevel)
	}
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	t.Setenv(EnvBaseDir, base)
	t.Setenv(EnvLogLevel, "ERROR")

	envFile := filepath.Join(base, ".env")
	content := EnvFlightAPIKey + "=dotenv-key\n" + EnvLogLevel + "=DEBUG\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load("", envFile)
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	if cfg.FlightAPIKey != "dotenv-key" {
		t.Errorf("key = %q, want value from .env", cfg.FlightAPIKey)
	}
	if cfg.LogLevel != "ERROR" {
		t.Errorf("level = %q, want environment value", cfg.LogLevel)
	}
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseDir, t.TempDir())

	if _, err := load("", filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("load() error: %v", err)
	}
}

func TestMissingConfigFile(t *testing.T) {
	clearEnv(t)
	if _, err := load(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseDir, t.TempDir())
	t.Setenv(EnvLogLevel, "loud")

	_, err := load("", "")
	if err == nil || !strings.Contains(err.Error(), "log level") {
		t.Errorf("err = %v, want log level error", err)
	}
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{
		"true": true, "TRUE": true, "1": true, "t": true,
		"false": false, "0": false, "yes": false, "": false,
	} {
		if got := ParseBool(in); got != want {
			t.Errorf("ParseBool(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDebugFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseDir, t.TempDir())
	t.Setenv(EnvDebug, "1")

	cfg, err := load("", "")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug not enabled by REISEPLAN_DEBUG=1")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{
		BaseDir:   base,
		AssetsDir: filepath.Join(base, "assets"),
		OutputDir: filepath.Join(base, "out"),
	}

	if err := cfg.EnsureDirectories("airlines", "hotels", "fonts"); err != nil {
		t.Fatalf("EnsureDirectories() error: %v", err)
	}

	for _, dir := range []string{"out", "assets", "assets/airlines", "assets/hotels", "assets/fonts"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}
}

func TestStringMasksKey(t *testing.T) {
	cfg := &Config{FlightAPIKey: "supersecret"}
	if strings.Contains(cfg.String(), "supersecret") {
		t.Error("API key leaked")
	}
}
