package charts

import (
	"github.com/aristath/schedboard/internal/domain"
)

// FieldPlan maps one record field to one series
type FieldPlan struct {
	Label  string
	Field  string
	Colors []string
}

// Plan is the extraction strategy for one metric family: which fields become
// which series, and how the resulting chart is drawn.
type Plan struct {
	Family Family
	Title  string
	Kind   Kind
	Fields []FieldPlan
	Axis   AxisOptions
}

// WithKind returns a copy of the plan drawn as kind
func (p Plan) WithKind(kind Kind) Plan {
	p.Kind = kind
	return p
}

// WithTitle returns a copy of the plan with a different title
func (p Plan) WithTitle(title string) Plan {
	p.Title = title
	return p
}

// Build projects records onto the plan
func (p Plan) Build(records []domain.MetricRecord) ChartSpec {
	return Build(records, p)
}

// Build converts records into a ChartSpec in a single pass.
// Each record contributes one category label and one value per planned field,
// in input order. Fields a record does not carry become nil values.
func Build(records []domain.MetricRecord, plan Plan) ChartSpec {
	spec := ChartSpec{
		Kind:           plan.Kind,
		Title:          plan.Title,
		Series:         make([]Series, len(plan.Fields)),
		CategoryLabels: make([]string, 0, len(records)),
		Axis:           plan.Axis,
	}

	for i, f := range plan.Fields {
		spec.Series[i] = Series{
			Label:  f.Label,
			Colors: append([]string(nil), f.Colors...),
			Values: make([]*float64, 0, len(records)),
		}
	}

	for _, rec := range records {
		spec.CategoryLabels = append(spec.CategoryLabels, rec.AlgorithmName)
		for i, f := range plan.Fields {
			spec.Series[i].Values = append(spec.Series[i].Values, rec.Value(f.Field))
		}
	}

	return spec
}
