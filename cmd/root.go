package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/macrolens-cli/internal/config"
	"github.com/KaramelBytes/macrolens-cli/internal/source"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int
	flagFREDKey          string

	// Loaded configuration
	cfg *cfgpkg.Global
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "macrolens",
	Short: "macrolens: fetch, forecast and correlate macroeconomic series",
	Long: `macrolens fetches macroeconomic time series (US CPI, the Fed balance sheet,
India CPI) from public APIs, loads additional series from CSV/XLSX files,
projects linear trends, correlates series on a merged calendar and writes
CSV, XLSX and PDF summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.macrolens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max attempts on timeouts/429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagFREDKey, "fred-key", "", "FRED API key (overrides config and MACROLENS_FRED_API_KEY)")

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	if f.Changed("fred-key") {
		cfg.FREDAPIKey = flagFREDKey
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if debug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
}

// newFetcher builds a source fetcher from the effective configuration.
func newFetcher() *source.Fetcher {
	c := effectiveConfig()
	return source.NewFetcher(source.Settings{
		FREDAPIKey:       c.FREDAPIKey,
		FREDBaseURL:      c.FREDBaseURL,
		WorldBankBaseURL: c.WorldBankBaseURL,
		FXBaseURL:        c.FXBaseURL,
		Client: source.ClientOptions{
			Timeout:           c.HTTPTimeout(),
			RetryMaxAttempts:  c.RetryMaxAttempts,
			RetryBaseDelay:    c.RetryBaseDelay(),
			RetryMaxDelay:     c.RetryMaxDelay(),
			RequestsPerSecond: c.RequestsPerSecond,
		},
	}, log)
}

func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Defaults()
	}
	return cfg
}
