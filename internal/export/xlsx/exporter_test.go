package xlsx

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
	testingpkg "github.com/aristath/schedboard/internal/testing"
)

func allSpecs() []charts.FamilySpec {
	records := testingpkg.NewRecordFixtures()
	out := make([]charts.FamilySpec, 0, len(charts.Families()))
	for _, f := range charts.Families() {
		out = append(out, charts.FamilySpec{
			Family: f,
			Bucket: domain.Week1,
			Spec:   charts.Build(records, charts.MustPlanFor(f)),
		})
	}
	return out
}

func exportAndOpen(t *testing.T, specs []charts.FamilySpec) *excelize.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charts.xlsx")
	require.NoError(t, NewExporter(zerolog.Nop()).Export(specs, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExport_OneSheetPerChart(t *testing.T) {
	f := exportAndOpen(t, allSpecs())

	assert.Equal(t, []string{"cost", "hours", "money", "order", "assignment"}, f.GetSheetList())
}

func TestExport_DataTable(t *testing.T) {
	f := exportAndOpen(t, allSpecs())

	rows, err := f.GetRows("money")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Algorithm", "Labor Cost", "Late Fine", "Unfinished Fine"}, rows[0])
	assert.Equal(t, "Greedy", rows[1][0])
	assert.Equal(t, "9800", rows[1][1])
	assert.Equal(t, "Simulated Annealing", rows[3][0])

	v, err := f.GetCellValue("cost", "B3")
	require.NoError(t, err)
	assert.Equal(t, "1102.75", v)
}

func TestExport_MissingValuesLeaveEmptyCells(t *testing.T) {
	spec := charts.ChartSpec{
		Kind:           charts.KindLine,
		Title:          "Gaps",
		CategoryLabels: []string{"a", "b"},
		Series: []charts.Series{
			{Label: "s", Values: []*float64{nil, charts.Float(2)}},
		},
	}
	f := exportAndOpen(t, []charts.FamilySpec{{Family: charts.FamilyCost, Spec: spec}})

	v, err := f.GetCellValue("cost", "B2")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = f.GetCellValue("cost", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestExport_NonFiniteValuesLeaveEmptyCells(t *testing.T) {
	spec := charts.ChartSpec{
		Kind:           charts.KindBar,
		Title:          "Edge Values",
		CategoryLabels: []string{"a", "b", "c"},
		Series: []charts.Series{
			{Label: "s", Values: []*float64{charts.Float(math.Inf(1)), charts.Float(math.NaN()), charts.Float(3)}},
		},
	}
	f := exportAndOpen(t, []charts.FamilySpec{{Family: charts.FamilyMoney, Spec: spec}})

	for cell, want := range map[string]string{"B2": "", "B3": "", "B4": "3"} {
		v, err := f.GetCellValue("money", cell)
		require.NoError(t, err)
		assert.Equal(t, want, v, cell)
	}
}

func TestExport_EmptySpec(t *testing.T) {
	empty := charts.Build(nil, charts.MustPlanFor(charts.FamilyOrder))
	f := exportAndOpen(t, []charts.FamilySpec{{Family: charts.FamilyOrder, Spec: empty}})

	rows, err := f.GetRows("order")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Algorithm", "Order Cost"}, rows[0])
}

func TestExport_Errors(t *testing.T) {
	e := NewExporter(zerolog.Nop())

	err := e.Write(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, ErrNothingToExport)

	bad := testingpkg.NewSpecFixture(1, 2)
	bad.CategoryLabels = bad.CategoryLabels[:1]
	err = e.Write(&bytes.Buffer{}, []charts.FamilySpec{{Family: charts.FamilyCost, Spec: bad}})
	assert.ErrorIs(t, err, charts.ErrInvalidSpec)

	dup := allSpecs()[:1]
	dup = append(dup, dup[0])
	err = e.Write(&bytes.Buffer{}, dup)
	assert.ErrorContains(t, err, "duplicate sheet")
}

func TestExport_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(zerolog.Nop()).Write(&buf, allSpecs()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 5)
}

func TestChartFor(t *testing.T) {
	spec := charts.Build(testingpkg.NewRecordFixtures(), charts.MustPlanFor(charts.FamilyHours))
	chart := chartFor("hours", spec)

	assert.Equal(t, excelize.Radar, chart.Type)
	require.Len(t, chart.Series, 2)
	assert.Equal(t, "'hours'!$C$1", chart.Series[1].Name)
	assert.Equal(t, "'hours'!$A$2:$A$4", chart.Series[1].Categories)
	assert.Equal(t, "'hours'!$C$2:$C$4", chart.Series[1].Values)
	assert.Equal(t, "Regular and Overtime Hours", chart.Title[0].Text)
	assert.Nil(t, chart.YAxis.Minimum, "radial charts have no value axis minimum")

	line := chartFor("cost", charts.Build(testingpkg.NewRecordFixtures(), charts.MustPlanFor(charts.FamilyCost)))
	assert.Equal(t, excelize.Line, line.Type)
	require.NotNil(t, line.YAxis.Minimum)
	assert.Equal(t, 0.0, *line.YAxis.Minimum)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "money", SheetName(charts.FamilySpec{Family: charts.FamilyMoney}))
	assert.Equal(t, "a_b", SheetName(charts.FamilySpec{Spec: charts.ChartSpec{Title: "a/b"}}))

	long := SheetName(charts.FamilySpec{Spec: charts.ChartSpec{Title: strings.Repeat("é", 40)}})
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, 31, utf8.RuneCountInString(long))
	assert.Equal(t, strings.Repeat("é", 31), long)
}
