package testing

import (
	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
)

// NewRecordFixtures returns three algorithms carrying every metric field
func NewRecordFixtures() []domain.MetricRecord {
	return []domain.MetricRecord{
		domain.NewMetricRecord("Greedy", map[string]float64{
			domain.FieldScheduleCost:         1250.5,
			domain.FieldRegularTime:          320,
			domain.FieldOvertime:             24,
			domain.FieldLaborMoney:           9800,
			domain.FieldLateFine:             450,
			domain.FieldUnfinishedFine:       0,
			domain.FieldUnassignedPercentage: 12.5,
			domain.FieldOrderCost:            3100,
		}),
		domain.NewMetricRecord("Genetic", map[string]float64{
			domain.FieldScheduleCost:         1102.75,
			domain.FieldRegularTime:          310,
			domain.FieldOvertime:             12,
			domain.FieldLaborMoney:           9400,
			domain.FieldLateFine:             210,
			domain.FieldUnfinishedFine:       150,
			domain.FieldUnassignedPercentage: 8,
			domain.FieldOrderCost:            2950,
		}),
		domain.NewMetricRecord("Simulated Annealing", map[string]float64{
			domain.FieldScheduleCost:         1180,
			domain.FieldRegularTime:          315,
			domain.FieldOvertime:             18,
			domain.FieldLaborMoney:           9650,
			domain.FieldLateFine:             300,
			domain.FieldUnfinishedFine:       75,
			domain.FieldUnassignedPercentage: 10.25,
			domain.FieldOrderCost:            3025,
		}),
	}
}

// NewWeekFixtures returns distinct records per bucket so tests can tell
// which bucket a chart was built from. Week N scales every metric by N.
func NewWeekFixtures() map[domain.Bucket][]domain.MetricRecord {
	base := NewRecordFixtures()
	out := make(map[domain.Bucket][]domain.MetricRecord, len(domain.Buckets()))
	for i, b := range domain.Buckets() {
		scale := float64(i + 1)
		records := make([]domain.MetricRecord, len(base))
		for j, rec := range base {
			metrics := make(map[string]float64, len(rec.Metrics))
			for k, v := range rec.Metrics {
				metrics[k] = v * scale
			}
			records[j] = domain.NewMetricRecord(rec.AlgorithmName, metrics)
		}
		out[b] = records
	}
	return out
}

// NewSpecFixture returns a small valid bar spec
func NewSpecFixture(values ...float64) charts.ChartSpec {
	labels := make([]string, len(values))
	points := make([]*float64, len(values))
	for i, v := range values {
		labels[i] = string(rune('A' + i))
		points[i] = charts.Float(v)
	}
	return charts.ChartSpec{
		Kind:           charts.KindBar,
		Title:          "Fixture",
		Series:         []charts.Series{{Label: "Value", Colors: []string{"rgb(119, 185, 242)"}, Values: points}},
		CategoryLabels: labels,
		Axis:           charts.AxisOptions{BeginAtZero: true},
	}
}
