package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rohmanhakim/consents/pkg/fileutil"
	"github.com/rohmanhakim/consents/pkg/retry"
	"github.com/rohmanhakim/consents/pkg/timeutil"
	"github.com/spf13/viper"
)

const envPrefix = "CONSENTS"

var supportedExtensions = map[string]struct{}{
	"json": {},
	"yaml": {},
	"yml":  {},
	"toml": {},
}

type Config struct {
	//===============
	// Service
	//===============
	// Base URL of the collection endpoint the client talks to
	baseURL url.URL
	// Address the collection endpoint listens on when served
	listenAddr string
	// Number of records per page, shared by client and server
	pageSize int
	// Minimum gap between two submissions from the same client; 0 disables throttling
	submitInterval time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single request
	timeout time.Duration
	// Randomized variation added on top of each backoff delay
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Logging
	//===============
	logLevel  string
	logFormat string
}

type configDTO struct {
	BaseURL                string        `mapstructure:"base_url"`
	ListenAddr             string        `mapstructure:"listen_addr"`
	PageSize               int           `mapstructure:"page_size"`
	SubmitInterval         time.Duration `mapstructure:"submit_interval"`
	Timeout                time.Duration `mapstructure:"timeout"`
	Jitter                 time.Duration `mapstructure:"jitter"`
	RandomSeed             int64         `mapstructure:"random_seed"`
	MaxAttempt             int           `mapstructure:"max_attempt"`
	BackoffInitialDuration time.Duration `mapstructure:"backoff_initial_duration"`
	BackoffMultiplier      float64       `mapstructure:"backoff_multiplier"`
	BackoffMaxDuration     time.Duration `mapstructure:"backoff_max_duration"`
	LogLevel               string        `mapstructure:"log_level"`
	LogFormat              string        `mapstructure:"log_format"`
}

var configKeys = []string{
	"base_url",
	"listen_addr",
	"page_size",
	"submit_interval",
	"timeout",
	"jitter",
	"random_seed",
	"max_attempt",
	"backoff_initial_duration",
	"backoff_multiplier",
	"backoff_max_duration",
	"log_level",
	"log_format",
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := *WithDefault()

	// Only override if a non-zero value is provided
	if dto.BaseURL != "" {
		u, err := url.Parse(dto.BaseURL)
		if err != nil {
			return Config{}, fmt.Errorf("%w: base_url: %s", ErrInvalidConfig, err.Error())
		}
		cfg.baseURL = *u
	}
	if dto.ListenAddr != "" {
		cfg.listenAddr = dto.ListenAddr
	}
	if dto.PageSize != 0 {
		cfg.pageSize = dto.PageSize
	}
	if dto.SubmitInterval != 0 {
		cfg.submitInterval = dto.SubmitInterval
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.LogFormat != "" {
		cfg.logFormat = dto.LogFormat
	}

	return cfg.Build()
}

// newViper returns a viper instance with every config key bound to its
// CONSENTS_* environment variable.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: bind %s: %s", ErrInvalidConfig, key, err.Error())
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (Config, error) {
	cfgDTO := configDTO{}
	if err := v.Unmarshal(&cfgDTO); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}
	return newConfigFromDTO(cfgDTO)
}

// WithConfigFile loads a JSON, YAML or TOML file (by extension). CONSENTS_*
// environment variables take precedence over file values.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}

	ext := fileutil.GetFileExtension(path)
	if _, ok := supportedExtensions[ext]; !ok {
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrConfigParsingFail, ext)
	}

	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	v.SetConfigFile(path)
	v.SetConfigType(ext)

	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
		}
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	return decode(v)
}

// FromEnvironment builds a config from defaults and CONSENTS_* variables.
func FromEnvironment() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	return decode(v)
}

// WithDefault creates a new Config pointing at a local collection endpoint.
func WithDefault() *Config {
	defaultConfig := Config{
		baseURL:                url.URL{Scheme: "http", Host: "localhost:3000"},
		listenAddr:             ":3000",
		pageSize:               2,
		submitInterval:         500 * time.Millisecond,
		timeout:                10 * time.Second,
		jitter:                 100 * time.Millisecond,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             3,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     2 * time.Second,
		logLevel:               "info",
		logFormat:              "console",
	}
	return &defaultConfig
}

func (c *Config) WithBaseURL(u url.URL) *Config {
	c.baseURL = u
	return c
}

func (c *Config) WithListenAddr(addr string) *Config {
	c.listenAddr = addr
	return c
}

func (c *Config) WithPageSize(size int) *Config {
	c.pageSize = size
	return c
}

func (c *Config) WithSubmitInterval(interval time.Duration) *Config {
	c.submitInterval = interval
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) Build() (Config, error) {
	if c.baseURL.Scheme != "http" && c.baseURL.Scheme != "https" {
		return Config{}, fmt.Errorf("%w: base URL scheme must be http or https, got %q", ErrInvalidConfig, c.baseURL.Scheme)
	}
	if c.baseURL.Host == "" {
		return Config{}, fmt.Errorf("%w: base URL host cannot be empty", ErrInvalidConfig)
	}
	if c.listenAddr == "" {
		return Config{}, fmt.Errorf("%w: listen address cannot be empty", ErrInvalidConfig)
	}
	if c.pageSize < 1 {
		return Config{}, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfig, c.pageSize)
	}
	if c.submitInterval < 0 {
		return Config{}, fmt.Errorf("%w: submit interval cannot be negative", ErrInvalidConfig)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.timeout)
	}
	if c.maxAttempt < 1 {
		return Config{}, fmt.Errorf("%w: max attempt must be positive, got %d", ErrInvalidConfig, c.maxAttempt)
	}
	if c.backoffMultiplier < 1 {
		return Config{}, fmt.Errorf("%w: backoff multiplier must be at least 1, got %v", ErrInvalidConfig, c.backoffMultiplier)
	}
	if c.jitter < 0 {
		return Config{}, fmt.Errorf("%w: jitter cannot be negative", ErrInvalidConfig)
	}
	switch c.logFormat {
	case "console", "json":
	default:
		return Config{}, fmt.Errorf("%w: log format must be console or json, got %q", ErrInvalidConfig, c.logFormat)
	}

	return *c, nil
}

func (c Config) BaseURL() url.URL {
	return c.baseURL
}

func (c Config) ListenAddr() string {
	return c.listenAddr
}

func (c Config) PageSize() int {
	return c.pageSize
}

func (c Config) SubmitInterval() time.Duration {
	return c.submitInterval
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}

// RetryParam assembles the list retry policy from the fetch settings.
func (c Config) RetryParam() retry.RetryParam {
	return retry.NewRetryParam(
		c.jitter,
		c.randomSeed,
		c.maxAttempt,
		timeutil.NewBackoffParam(
			c.backoffInitialDuration,
			c.backoffMultiplier,
			c.backoffMaxDuration,
		),
	)
}
