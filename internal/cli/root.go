package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/rohmanhakim/consents/internal/config"
	"github.com/rohmanhakim/consents/internal/logging"
	"github.com/rohmanhakim/consents/internal/metadata"
	"github.com/rohmanhakim/consents/internal/pagestore"
	"github.com/rohmanhakim/consents/internal/recordsvc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	baseURL        string
	listenAddr     string
	pageSize       int
	submitInterval time.Duration
	timeout        time.Duration
	maxAttempt     int
	jitter         time.Duration
	randomSeed     int64
	logLevel       string
	logFormat      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "consents",
	Short: "Collect and browse user consents.",
	Long: `consents is a small consent-management tool. It serves an in-memory
collection of consent records over HTTP, and browses or extends that
collection page by page from the terminal.

Pages are cached per session: revisiting a page never hits the network,
and a new submission jumps straight to the page that holds it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCommand exposes the command tree, mainly for tests.
func RootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, json/yaml/toml (e.g., /home/myuser/consents.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "base URL of the collection endpoint (default http://localhost:3000)")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen-addr", "", "address to serve the collection endpoint on (default :3000)")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 0, "records per page (default 2)")
	rootCmd.PersistentFlags().DurationVar(&submitInterval, "submit-interval", -1, "minimum gap between submissions per client when serving, 0 disables")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "maximum attempts for a page fetch")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to retry backoff")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
}

// InitConfigWithError reads the config file (or CONSENTS_* environment
// variables when no file is given) and applies flag overrides on top.
func InitConfigWithError() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.WithConfigFile(cfgFile)
	} else {
		cfg, err = config.FromEnvironment()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("error initializing config: %w", err)
	}

	configBuilder := &cfg

	// Override with CLI flag values where provided
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: base url: %s", config.ErrInvalidConfig, err.Error())
		}
		configBuilder = configBuilder.WithBaseURL(*u)
	}

	if listenAddr != "" {
		configBuilder = configBuilder.WithListenAddr(listenAddr)
	}

	if pageSize > 0 {
		configBuilder = configBuilder.WithPageSize(pageSize)
	}

	if submitInterval >= 0 {
		configBuilder = configBuilder.WithSubmitInterval(submitInterval)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}

	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	return configBuilder.Build()
}

func newLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel(), logCfg.Level)
	logCfg.Format = cfg.LogFormat()
	logCfg.Output = out
	return logging.New(logCfg)
}

// newStore wires the HTTP client and a page store from cfg.
func newStore(cfg config.Config, logger zerolog.Logger) (*pagestore.Store, error) {
	recorder := metadata.NewRecorder(logger)
	svc := recordsvc.NewHTTPService(recorder, cfg.BaseURL(), cfg.Timeout(), cfg.RetryParam())
	return pagestore.New(
		svc,
		cfg.PageSize(),
		pagestore.WithLogger(logger),
		pagestore.WithMetadataSink(recorder),
	)
}

func ResetFlags() {
	cfgFile = ""
	baseURL = ""
	listenAddr = ""
	pageSize = 0
	submitInterval = -1
	timeout = 0
	maxAttempt = 0
	jitter = 0
	randomSeed = 0
	logLevel = ""
	logFormat = ""
	listPages = []int{1}
	listJSON = false
	submitName = ""
	submitEmail = ""
	submitConsents = []string{}
	serveEmpty = false
	browseLogFile = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetBaseURLForTest(u string) {
	baseURL = u
}

func SetListenAddrForTest(addr string) {
	listenAddr = addr
}

func SetPageSizeForTest(size int) {
	pageSize = size
}

func SetSubmitIntervalForTest(interval time.Duration) {
	submitInterval = interval
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}

func SetRandomSeedForTest(seed int64) {
	randomSeed = seed
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetLogFormatForTest(format string) {
	logFormat = format
}
