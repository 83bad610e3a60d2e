// Package charts provides the declarative chart model and the builders that
// turn scheduling metric records into it.
package charts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidSpec is returned by Validate for specs a builder must never produce
var ErrInvalidSpec = errors.New("invalid chart spec")

// Kind is the chart type
type Kind string

const (
	KindLine      Kind = "line"
	KindBar       Kind = "bar"
	KindDoughnut  Kind = "doughnut"
	KindPolarArea Kind = "polarArea"
	KindPie       Kind = "pie"
)

// Kinds returns every supported chart kind
func Kinds() []Kind {
	return []Kind{KindLine, KindBar, KindDoughnut, KindPolarArea, KindPie}
}

// ParseKind accepts Chart.js names ("polarArea") as well as dashed or
// underscored spellings ("polar-area", "polar_area"), case-insensitively.
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for _, k := range Kinds() {
		if strings.ToLower(string(k)) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind: %q", s)
}

// IsValid reports whether k is a supported kind
func (k Kind) IsValid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsRadial reports whether the kind draws segments instead of axes
func (k Kind) IsRadial() bool {
	return k == KindDoughnut || k == KindPie || k == KindPolarArea
}

// AxisOptions holds rendering hints for axis-based charts
type AxisOptions struct {
	BeginAtZero bool
}

// Series is one labeled, colored sequence of values plotted against the
// shared category labels. A nil value is a missing data point.
type Series struct {
	Label  string
	Colors []string
	Values []*float64
}

// ChartData is the part of a spec that can be replaced on a live chart
type ChartData struct {
	Labels []string
	Series []Series
}

// ChartSpec describes one chart: its kind, data and axis hints.
// Index i across CategoryLabels and every Series.Values refers to the same
// source record.
type ChartSpec struct {
	Kind           Kind
	Title          string
	Series         []Series
	CategoryLabels []string
	Axis           AxisOptions
}

// Float returns a pointer to v, for building series values
func Float(v float64) *float64 {
	return &v
}

// Finite reports whether v is present and neither infinite nor NaN.
// Renderers treat anything else as a missing point.
func Finite(v *float64) bool {
	return v != nil && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}

// Validate checks the kind and that every series has one value per label
func (s ChartSpec) Validate() error {
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s.Kind)
	}
	for i, series := range s.Series {
		if len(series.Values) != len(s.CategoryLabels) {
			return fmt.Errorf("%w: series %d (%s) has %d values for %d labels",
				ErrInvalidSpec, i, series.Label, len(series.Values), len(s.CategoryLabels))
		}
	}
	return nil
}

// IsEmpty reports whether the spec has no data points
func (s ChartSpec) IsEmpty() bool {
	return len(s.CategoryLabels) == 0
}

// Data returns a deep copy of the replaceable data
func (s ChartSpec) Data() ChartData {
	return ChartData{Labels: s.CategoryLabels, Series: s.Series}.Clone()
}

// Clone returns a deep copy of the spec
func (s ChartSpec) Clone() ChartSpec {
	data := s.Data()
	return ChartSpec{
		Kind:           s.Kind,
		Title:          s.Title,
		Series:         data.Series,
		CategoryLabels: data.Labels,
		Axis:           s.Axis,
	}
}

// Equal reports whether two specs describe the same chart
func (s ChartSpec) Equal(other ChartSpec) bool {
	return s.Kind == other.Kind &&
		s.Title == other.Title &&
		s.Axis == other.Axis &&
		s.Data().Equal(other.Data())
}

// Clone returns a deep copy of the data
func (d ChartData) Clone() ChartData {
	out := ChartData{
		Labels: append([]string(nil), d.Labels...),
		Series: make([]Series, len(d.Series)),
	}
	if d.Labels == nil {
		out.Labels = []string{}
	}
	for i, s := range d.Series {
		values := make([]*float64, len(s.Values))
		for j, v := range s.Values {
			if v != nil {
				values[j] = Float(*v)
			}
		}
		out.Series[i] = Series{
			Label:  s.Label,
			Colors: append([]string(nil), s.Colors...),
			Values: values,
		}
	}
	return out
}

// Equal compares labels and series, treating nil and empty slices alike
func (d ChartData) Equal(other ChartData) bool {
	if len(d.Labels) != len(other.Labels) || len(d.Series) != len(other.Series) {
		return false
	}
	for i := range d.Labels {
		if d.Labels[i] != other.Labels[i] {
			return false
		}
	}
	for i := range d.Series {
		a, b := d.Series[i], other.Series[i]
		if a.Label != b.Label || len(a.Colors) != len(b.Colors) || len(a.Values) != len(b.Values) {
			return false
		}
		for j := range a.Colors {
			if a.Colors[j] != b.Colors[j] {
				return false
			}
		}
		for j := range a.Values {
			if !sameValue(a.Values[j], b.Values[j]) {
				return false
			}
		}
	}
	return true
}

func sameValue(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Chart.js configuration shape, so a spec can be handed to a browser front-end as-is.
type chartJSConfig struct {
	Type    string         `json:"type"`
	Data    chartJSData    `json:"data"`
	Options chartJSOptions `json:"options"`
}

type chartJSData struct {
	Datasets []chartJSDataset `json:"datasets"`
	Labels   []string         `json:"labels"`
}

type chartJSDataset struct {
	Label           string     `json:"label"`
	BackgroundColor []string   `json:"backgroundColor"`
	Data            []*float64 `json:"data"`
}

type chartJSOptions struct {
	Title  *chartJSTitle `json:"title,omitempty"`
	Scales chartJSScales `json:"scales"`
}

type chartJSTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type chartJSScales struct {
	YAxes []chartJSAxis `json:"yAxes"`
}

type chartJSAxis struct {
	Ticks chartJSTicks `json:"ticks"`
}

type chartJSTicks struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// MarshalJSON encodes the spec as a Chart.js configuration object
func (s ChartSpec) MarshalJSON() ([]byte, error) {
	cfg := chartJSConfig{
		Type: string(s.Kind),
		Data: chartJSData{
			Datasets: make([]chartJSDataset, len(s.Series)),
			Labels:   s.CategoryLabels,
		},
		Options: chartJSOptions{
			Scales: chartJSScales{
				YAxes: []chartJSAxis{{Ticks: chartJSTicks{BeginAtZero: s.Axis.BeginAtZero}}},
			},
		},
	}
	if cfg.Data.Labels == nil {
		cfg.Data.Labels = []string{}
	}
	if s.Title != "" {
		cfg.Options.Title = &chartJSTitle{Display: true, Text: s.Title}
	}
	for i, series := range s.Series {
		values := series.Values
		if values == nil {
			values = []*float64{}
		}
		cfg.Data.Datasets[i] = chartJSDataset{
			Label:           series.Label,
			BackgroundColor: series.Colors,
			Data:            values,
		}
	}
	return json.Marshal(cfg)
}

// UnmarshalJSON decodes a Chart.js configuration object
func (s *ChartSpec) UnmarshalJSON(data []byte) error {
	var cfg chartJSConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	kind, err := ParseKind(cfg.Type)
	if err != nil {
		return err
	}

	spec := ChartSpec{
		Kind:           kind,
		CategoryLabels: cfg.Data.Labels,
		Series:         make([]Series, len(cfg.Data.Datasets)),
	}
	if cfg.Options.Title != nil {
		spec.Title = cfg.Options.Title.Text
	}
	if len(cfg.Options.Scales.YAxes) > 0 {
		spec.Axis.BeginAtZero = cfg.Options.Scales.YAxes[0].Ticks.BeginAtZero
	}
	for i, ds := range cfg.Data.Datasets {
		spec.Series[i] = Series{Label: ds.Label, Colors: ds.BackgroundColor, Values: ds.Data}
	}

	*s = spec
	return nil
}
