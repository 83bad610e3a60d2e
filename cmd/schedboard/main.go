// Package main is the entry point for schedboard, a terminal dashboard that
// compares scheduling algorithms across five chart families.
//
// Commands:
//   - dashboard: interactive TUI with per-chart week selection
//   - export: one-shot export of every chart for a week as HTML pages or a workbook
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/schedboard/internal/clients/scheduledata"
	"github.com/aristath/schedboard/internal/config"
	"github.com/aristath/schedboard/internal/domain"
)

var (
	apiURL   string
	logLevel string
	codec    string
	week     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schedboard",
		Short: "Compare scheduling algorithms in the terminal",
		Long: `schedboard fetches per-algorithm metrics from the scheduling back-end
and draws them as five charts, each with its own week selector.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Scheduling back-end base URL (default: SCHEDBOARD_API_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&codec, "codec", "", "Preferred wire format: json or msgpack (default: SCHEDBOARD_CODEC)")
	rootCmd.PersistentFlags().StringVarP(&week, "week", "w", "", "Week to start on, e.g. \"Week 2\" or 2 (default: SCHEDBOARD_DEFAULT_WEEK)")

	rootCmd.AddCommand(newDashboardCmd(), newExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if codec != "" {
		cfg.Codec = strings.ToLower(codec)
	}
	if week != "" {
		b, err := domain.ParseBucket(week)
		if err != nil {
			return nil, err
		}
		cfg.DefaultBucket = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cfg *config.Config, log zerolog.Logger) *scheduledata.Client {
	return scheduledata.NewClient(cfg.APIURL, cfg.Codec, cfg.FetchTimeout, log)
}
