package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aristath/schedboard/internal/modules/dashboard"
	"github.com/aristath/schedboard/internal/render/terminal"
	"github.com/aristath/schedboard/internal/theme"
	"github.com/aristath/schedboard/pkg/logger"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Run the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout belongs to the program, so logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Output: logFile,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("api_url", cfg.APIURL).
		Str("week", cfg.DefaultBucket.String()).
		Str("codec", cfg.Codec).
		Msg("Starting dashboard")

	opts := dashboard.Options{
		APIURL:       cfg.APIURL,
		MaxWidth:     cfg.MaxWidth,
		MaxHeight:    cfg.MaxHeight,
		FetchTimeout: cfg.FetchTimeout,
	}

	toasts := dashboard.NewToastQueue(dashboard.DefaultToastTTL, log)
	library := terminal.NewLibrary(theme.Default, log)
	panels := dashboard.NewPanels(
		dashboard.DefaultPlans(cfg.AssignmentPlan()),
		cfg.DefaultBucket,
		newClient(cfg, log),
		library,
		toasts,
		opts,
		log,
	)

	p := tea.NewProgram(dashboard.New(panels, toasts, opts, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("Dashboard exited with error")
		return fmt.Errorf("dashboard failed: %w", err)
	}

	log.Info().Msg("Dashboard stopped")
	return nil
}
