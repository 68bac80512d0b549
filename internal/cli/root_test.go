package cmd_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cmd "github.com/rohmanhakim/consents/internal/cli"
	"github.com/rohmanhakim/consents/internal/config"
)

// TestInitConfigNoFlags tests that InitConfigWithError returns the defaults when no flag is set
func TestInitConfigNoFlags(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	defaultCfg, err := config.WithDefault().Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if cfg.BaseURL() != defaultCfg.BaseURL() {
		t.Errorf("Expected BaseURL %v, got %v", defaultCfg.BaseURL(), cfg.BaseURL())
	}
	if cfg.ListenAddr() != defaultCfg.ListenAddr() {
		t.Errorf("Expected ListenAddr %s, got %s", defaultCfg.ListenAddr(), cfg.ListenAddr())
	}
	if cfg.PageSize() != defaultCfg.PageSize() {
		t.Errorf("Expected PageSize %d, got %d", defaultCfg.PageSize(), cfg.PageSize())
	}
	if cfg.Timeout() != defaultCfg.Timeout() {
		t.Errorf("Expected Timeout %v, got %v", defaultCfg.Timeout(), cfg.Timeout())
	}
	if cfg.MaxAttempt() != defaultCfg.MaxAttempt() {
		t.Errorf("Expected MaxAttempt %d, got %d", defaultCfg.MaxAttempt(), cfg.MaxAttempt())
	}
}

// TestInitConfigFlagOverrides tests that every flag is applied on top of the defaults
func TestInitConfigFlagOverrides(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cmd.SetBaseURLForTest("https://consents.example.org")
	cmd.SetListenAddrForTest(":8081")
	cmd.SetPageSizeForTest(4)
	cmd.SetTimeoutForTest(3 * time.Second)
	cmd.SetMaxAttemptForTest(6)
	cmd.SetRandomSeedForTest(11)
	cmd.SetLogLevelForTest("debug")
	cmd.SetLogFormatForTest("json")

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	baseURL := cfg.BaseURL()
	if baseURL.String() != "https://consents.example.org" {
		t.Errorf("Expected BaseURL https://consents.example.org, got %s", baseURL.String())
	}
	if cfg.ListenAddr() != ":8081" {
		t.Errorf("Expected ListenAddr :8081, got %s", cfg.ListenAddr())
	}
	if cfg.PageSize() != 4 {
		t.Errorf("Expected PageSize 4, got %d", cfg.PageSize())
	}
	if cfg.Timeout() != 3*time.Second {
		t.Errorf("Expected Timeout 3s, got %v", cfg.Timeout())
	}
	if cfg.MaxAttempt() != 6 {
		t.Errorf("Expected MaxAttempt 6, got %d", cfg.MaxAttempt())
	}
	if cfg.RandomSeed() != 11 {
		t.Errorf("Expected RandomSeed 11, got %d", cfg.RandomSeed())
	}
	if cfg.LogLevel() != "debug" || cfg.LogFormat() != "json" {
		t.Errorf("Expected debug/json logging, got %s/%s", cfg.LogLevel(), cfg.LogFormat())
	}
}

// TestInitConfigInvalidFlag tests that invalid flag values surface as ErrInvalidConfig
func TestInitConfigInvalidFlag(t *testing.T) {
	tests := []struct {
		name  string
		apply func()
	}{
		{"unparsable base url", func() { cmd.SetBaseURLForTest("http://[::1") }},
		{"non-http base url", func() { cmd.SetBaseURLForTest("ftp://example.org") }},
		{"unknown log format", func() { cmd.SetLogFormatForTest("xml") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd.ResetFlags()
			defer cmd.ResetFlags()
			tt.apply()

			_, err := cmd.InitConfigWithError()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

// TestInitConfigWithConfigFile tests that the config file is loaded and flags still win
func TestInitConfigWithConfigFile(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	path := filepath.Join(t.TempDir(), "consents.yaml")
	content := "base_url: http://collection:9000\npage_size: 5\nmax_attempt: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cmd.SetConfigFileForTest(path)
	cmd.SetPageSizeForTest(7)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	baseURL := cfg.BaseURL()
	if baseURL.Host != "collection:9000" {
		t.Errorf("Expected host from file, got %s", baseURL.Host)
	}
	if cfg.MaxAttempt() != 2 {
		t.Errorf("Expected MaxAttempt 2 from file, got %d", cfg.MaxAttempt())
	}
	if cfg.PageSize() != 7 {
		t.Errorf("Expected PageSize 7 from flag, got %d", cfg.PageSize())
	}
}

// TestInitConfigMissingConfigFile tests that a missing file is reported
func TestInitConfigMissingConfigFile(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cmd.SetConfigFileForTest(filepath.Join(t.TempDir(), "nope.json"))

	_, err := cmd.InitConfigWithError()
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("Expected ErrFileDoesNotExist, got: %v", err)
	}
}

// TestInitConfigSubmitInterval tests that a zero submit interval disables throttling while unset keeps the default
func TestInitConfigSubmitInterval(t *testing.T) {
	cmd.ResetFlags()
	defer cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.SubmitInterval() != 500*time.Millisecond {
		t.Errorf("Expected default SubmitInterval 500ms, got %v", cfg.SubmitInterval())
	}

	cmd.SetSubmitIntervalForTest(0)
	cfg, err = cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.SubmitInterval() != 0 {
		t.Errorf("Expected SubmitInterval 0, got %v", cfg.SubmitInterval())
	}
}
