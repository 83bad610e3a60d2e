package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/schedboard/internal/config"
	"github.com/aristath/schedboard/internal/export/xlsx"
	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/modules/dashboard"
	"github.com/aristath/schedboard/internal/render/web"
	"github.com/aristath/schedboard/pkg/logger"
)

const (
	formatHTML = "html"
	formatXLSX = "xlsx"
)

var (
	exportFormat string
	exportDir    string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every chart for one week",
		Long: `Fetches all five chart families for the selected week and writes them
either as standalone HTML pages or as one Excel workbook with native charts.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportFormat, "format", "f", formatHTML, "Output format: html or xlsx")
	cmd.Flags().StringVarP(&exportDir, "out", "o", "", "Output directory (default: SCHEDBOARD_EXPORT_DIR)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: os.Stderr,
	})
	logger.SetGlobalLogger(log)

	dir := cfg.ExportDir
	if exportDir != "" {
		if dir, err = filepath.Abs(exportDir); err != nil {
			return fmt.Errorf("failed to resolve output directory: %w", err)
		}
	}

	switch strings.ToLower(exportFormat) {
	case formatHTML:
		return exportHTML(cfg, dir, log)
	case formatXLSX:
		return exportXLSX(cmd.Context(), cfg, dir, log)
	default:
		return fmt.Errorf("invalid format: %s (must be %s or %s)", exportFormat, formatHTML, formatXLSX)
	}
}

// exportHTML runs the dashboard panels headless against the web library, so
// pages go through the same fetch and render lifecycle as the TUI
func exportHTML(cfg *config.Config, dir string, log zerolog.Logger) error {
	library := web.NewLibrary(cfg.EChartsURL, dir, log)
	panels := dashboard.NewPanels(
		dashboard.DefaultPlans(cfg.AssignmentPlan()),
		cfg.DefaultBucket,
		newClient(cfg, log),
		library,
		dashboard.NewLogNotifier(log),
		dashboard.Options{FetchTimeout: cfg.FetchTimeout},
		log,
	)

	dashboard.Paint(panels)

	var errs []error
	for _, p := range panels {
		switch {
		case p.Metric.Err() != nil:
			errs = append(errs, fmt.Errorf("%s: %w", p.Metric.Title(), p.Metric.Err()))
		case p.Chart.Instance() == nil:
			errs = append(errs, fmt.Errorf("%s: %w", p.Metric.Title(), dashboard.ErrRenderInit))
		default:
			fmt.Println(p.Chart.Instance().View())
		}
	}
	return errors.Join(errs...)
}

func exportXLSX(ctx context.Context, cfg *config.Config, dir string, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	svc := charts.NewService(newClient(cfg, log), log)
	svc.SetPlan(cfg.AssignmentPlan())

	specs, err := svc.GetAllSpecs(ctx, cfg.DefaultBucket)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("schedboard-%s.xlsx", strings.ReplaceAll(strings.ToLower(cfg.DefaultBucket.String()), " ", "-")))
	if err := xlsx.NewExporter(log).Export(specs, path); err != nil {
		return err
	}

	fmt.Println("wrote " + path)
	return nil
}
