// Package xlsx exports chart specs to an Excel workbook. Every chart gets a
// sheet holding its data table and a native chart drawn from that table.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/aristath/schedboard/internal/modules/charts"
)

const (
	defaultSheet  = "Sheet1"
	categoryTitle = "Algorithm"
	maxSheetName  = 31
)

// ErrNothingToExport is returned when no specs are given
var ErrNothingToExport = errors.New("no charts to export")

var chartTypes = map[charts.Kind]excelize.ChartType{
	charts.KindLine:      excelize.Line,
	charts.KindBar:       excelize.Col,
	charts.KindDoughnut:  excelize.Doughnut,
	charts.KindPie:       excelize.Pie,
	charts.KindPolarArea: excelize.Radar,
}

// Exporter writes workbooks
type Exporter struct {
	log zerolog.Logger
}

// NewExporter creates a workbook exporter
func NewExporter(log zerolog.Logger) *Exporter {
	return &Exporter{log: log.With().Str("component", "xlsx_export").Logger()}
}

// Export writes specs to a workbook at path
func (e *Exporter) Export(specs []charts.FamilySpec, path string) error {
	f, err := e.build(specs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	e.log.Info().Str("path", path).Int("charts", len(specs)).Msg("Workbook exported")
	return nil
}

// Write streams the workbook to w
func (e *Exporter) Write(w io.Writer, specs []charts.FamilySpec) error {
	f, err := e.build(specs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *Exporter) build(specs []charts.FamilySpec) (*excelize.File, error) {
	if len(specs) == 0 {
		return nil, ErrNothingToExport
	}

	f := excelize.NewFile()
	for _, fs := range specs {
		if err := fs.Spec.Validate(); err != nil {
			f.Close()
			return nil, fmt.Errorf("chart %s: %w", fs.Family, err)
		}
		if err := e.addSheet(f, SheetName(fs)); err != nil {
			f.Close()
			return nil, err
		}
		if err := e.writeSheet(f, SheetName(fs), fs.Spec); err != nil {
			f.Close()
			return nil, fmt.Errorf("chart %s: %w", fs.Family, err)
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

func (e *Exporter) addSheet(f *excelize.File, name string) error {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %s: %w", name, err)
	}
	if idx != -1 {
		return fmt.Errorf("duplicate sheet %s", name)
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	return nil
}

// writeSheet lays the data out as a table: categories down column A and one
// column per series. Missing and non-finite values stay empty.
func (e *Exporter) writeSheet(f *excelize.File, sheet string, spec charts.ChartSpec) error {
	header := make([]interface{}, 0, len(spec.Series)+1)
	header = append(header, categoryTitle)
	for _, s := range spec.Series {
		header = append(header, s.Label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, label := range spec.CategoryLabels {
		row := i + 2
		if err := f.SetCellValue(sheet, cell(1, row), label); err != nil {
			return err
		}
		for si, s := range spec.Series {
			if !charts.Finite(s.Values[i]) {
				continue
			}
			if err := f.SetCellValue(sheet, cell(si+2, row), *s.Values[i]); err != nil {
				return err
			}
		}
	}

	if len(spec.CategoryLabels) == 0 || len(spec.Series) == 0 {
		e.log.Debug().Str("sheet", sheet).Msg("No rows, skipping chart")
		return nil
	}
	return f.AddChart(sheet, cell(len(spec.Series)+3, 1), chartFor(sheet, spec))
}

func chartFor(sheet string, spec charts.ChartSpec) *excelize.Chart {
	last := len(spec.CategoryLabels) + 1
	ref := quoteSheet(sheet)

	series := make([]excelize.ChartSeries, len(spec.Series))
	for si := range spec.Series {
		col, _ := excelize.ColumnNumberToName(si + 2)
		series[si] = excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", ref, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ref, col, col, last),
		}
	}

	chart := &excelize.Chart{
		Type:   chartTypes[spec.Kind],
		Series: series,
		Legend: excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{
			Width:  640,
			Height: 360,
		},
	}
	if spec.Title != "" {
		chart.Title = []excelize.RichTextRun{{Text: spec.Title}}
	}
	if spec.Axis.BeginAtZero && !spec.Kind.IsRadial() {
		zero := 0.0
		chart.YAxis = excelize.ChartAxis{Minimum: &zero}
	}
	return chart
}

// SheetName returns the sheet a family is written to
func SheetName(fs charts.FamilySpec) string {
	name := string(fs.Family)
	if name == "" {
		name = fs.Spec.Title
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
