package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/schedboard/internal/domain"
)

func values(t *testing.T, s Series) []float64 {
	t.Helper()
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		require.NotNil(t, v, "value %d of %s is missing", i, s.Label)
		out[i] = *v
	}
	return out
}

func TestBuild_Cost(t *testing.T) {
	records := []domain.MetricRecord{
		domain.NewMetricRecord("A", map[string]float64{domain.FieldScheduleCost: 10}),
		domain.NewMetricRecord("B", map[string]float64{domain.FieldScheduleCost: 20}),
	}

	spec := Build(records, MustPlanFor(FamilyCost))

	assert.Equal(t, KindLine, spec.Kind)
	assert.Equal(t, []string{"A", "B"}, spec.CategoryLabels)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, "Schedule Cost", spec.Series[0].Label)
	assert.Equal(t, []float64{10, 20}, values(t, spec.Series[0]))
	assert.True(t, spec.Axis.BeginAtZero)
	require.NoError(t, spec.Validate())
}

func TestBuild_Money(t *testing.T) {
	records := []domain.MetricRecord{
		domain.NewMetricRecord("A", map[string]float64{
			domain.FieldLaborMoney:     5,
			domain.FieldLateFine:       1,
			domain.FieldUnfinishedFine: 0,
		}),
	}

	spec := MustPlanFor(FamilyMoney).Build(records)

	assert.Equal(t, KindBar, spec.Kind)
	assert.Equal(t, []string{"A"}, spec.CategoryLabels)
	require.Len(t, spec.Series, 3)
	assert.Equal(t, []float64{5}, values(t, spec.Series[0]))
	assert.Equal(t, []float64{1}, values(t, spec.Series[1]))
	assert.Equal(t, []float64{0}, values(t, spec.Series[2]))
	assert.Equal(t, "rgb(119, 185, 242, 0.6)", spec.Series[1].Colors[0])
}

func TestBuild_EmptyInput(t *testing.T) {
	for _, f := range Families() {
		t.Run(string(f), func(t *testing.T) {
			plan := MustPlanFor(f)
			spec := Build(nil, plan)

			require.NoError(t, spec.Validate())
			assert.True(t, spec.IsEmpty())
			assert.Empty(t, spec.CategoryLabels)
			require.Len(t, spec.Series, len(plan.Fields))
			for _, s := range spec.Series {
				assert.Empty(t, s.Values)
			}
		})
	}
}

func TestBuild_SeriesLengthMatchesLabels(t *testing.T) {
	records := []domain.MetricRecord{
		domain.NewMetricRecord("Greedy", map[string]float64{domain.FieldRegularTime: 40}),
		domain.NewMetricRecord("Genetic", map[string]float64{domain.FieldOvertime: 3}),
		domain.NewMetricRecord("Annealing", nil),
	}

	for _, f := range Families() {
		t.Run(string(f), func(t *testing.T) {
			spec := Build(records, MustPlanFor(f))
			require.NoError(t, spec.Validate())
			for _, s := range spec.Series {
				assert.Len(t, s.Values, len(spec.CategoryLabels))
			}
		})
	}
}

func TestBuild_MissingFieldsPassThrough(t *testing.T) {
	records := []domain.MetricRecord{
		domain.NewMetricRecord("Greedy", map[string]float64{domain.FieldRegularTime: 40}),
		domain.NewMetricRecord("Genetic", map[string]float64{domain.FieldOvertime: 3}),
	}

	spec := Build(records, MustPlanFor(FamilyHours))

	assert.Equal(t, KindPolarArea, spec.Kind)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, 40.0, *spec.Series[0].Values[0])
	assert.Nil(t, spec.Series[0].Values[1])
	assert.Nil(t, spec.Series[1].Values[0])
	assert.Equal(t, 3.0, *spec.Series[1].Values[1])
}

func TestBuild_PreservesOrder(t *testing.T) {
	records := []domain.MetricRecord{
		domain.NewMetricRecord("Zeta", map[string]float64{domain.FieldOrderCost: 3}),
		domain.NewMetricRecord("Alpha", map[string]float64{domain.FieldOrderCost: 1}),
		domain.NewMetricRecord("Zeta", map[string]float64{domain.FieldOrderCost: 2}),
	}

	spec := Build(records, MustPlanFor(FamilyOrder))

	assert.Equal(t, []string{"Zeta", "Alpha", "Zeta"}, spec.CategoryLabels)
	assert.Equal(t, []float64{3, 1, 2}, values(t, spec.Series[0]))
}

func TestPlan_WithKind(t *testing.T) {
	base := MustPlanFor(FamilyAssignment)
	pie := base.WithKind(KindPie).WithTitle("Unassigned")

	assert.Equal(t, KindBar, base.Kind)
	assert.Equal(t, DefaultAssignmentTitle, base.Title)
	assert.Equal(t, KindPie, pie.Kind)
	assert.Equal(t, "Unassigned", pie.Title)
}

func TestPlanFor(t *testing.T) {
	tests := []struct {
		family   Family
		kind     Kind
		labels   []string
		endpoint string
	}{
		{FamilyCost, KindLine, []string{"Schedule Cost"}, "getCostData"},
		{FamilyAssignment, KindBar, []string{"% Un-assigned Work"}, "getScheduleData"},
		{FamilyHours, KindPolarArea, []string{"Regular time", "Overtime"}, "getHoursData"},
		{FamilyMoney, KindBar, []string{"Labor Cost", "Late Fine", "Unfinished Fine"}, "getMoneyData"},
		{FamilyOrder, KindDoughnut, []string{"Order Cost"}, "getOrderData"},
	}

	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			plan, err := PlanFor(tt.family)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, plan.Kind)
			assert.Equal(t, tt.endpoint, tt.family.Endpoint())

			labels := make([]string, len(plan.Fields))
			for i, f := range plan.Fields {
				labels[i] = f.Label
				assert.Len(t, f.Colors, 3)
			}
			assert.Equal(t, tt.labels, labels)
		})
	}

	_, err := PlanFor("weather")
	assert.Error(t, err)
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily(" Money ")
	require.NoError(t, err)
	assert.Equal(t, FamilyMoney, f)

	_, err = ParseFamily("payroll")
	assert.Error(t, err)
}

func TestBuild_DoesNotAliasPlanColors(t *testing.T) {
	plan := MustPlanFor(FamilyOrder)
	spec := plan.Build(nil)
	spec.Series[0].Colors[0] = "red"

	assert.Equal(t, "rgb(119, 185, 242)", MustPlanFor(FamilyOrder).Fields[0].Colors[0])
}

func TestBuild_SpecEncodesAsChartJS(t *testing.T) {
	records := []domain.MetricRecord{
		domain.NewMetricRecord("A", map[string]float64{domain.FieldScheduleCost: 10}),
	}
	data, err := json.Marshal(Build(records, MustPlanFor(FamilyCost)))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "line", decoded["type"])
}
