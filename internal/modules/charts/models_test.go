package charts

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSpec() ChartSpec {
	return ChartSpec{
		Kind:  KindBar,
		Title: "Labor Cost and Fines",
		Series: []Series{
			{Label: "Labor Cost", Colors: []string{"rgb(119, 185, 242)"}, Values: []*float64{Float(5), nil}},
		},
		CategoryLabels: []string{"Greedy", "Genetic"},
		Axis:           AxisOptions{BeginAtZero: true},
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
		wantErr  bool
	}{
		{input: "line", expected: KindLine},
		{input: "BAR", expected: KindBar},
		{input: "polarArea", expected: KindPolarArea},
		{input: "polar-area", expected: KindPolarArea},
		{input: "polar_area", expected: KindPolarArea},
		{input: "doughnut", expected: KindDoughnut},
		{input: "pie", expected: KindPie},
		{input: "scatter", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, k)
		})
	}
}

func TestKind_IsRadial(t *testing.T) {
	assert.True(t, KindPie.IsRadial())
	assert.True(t, KindDoughnut.IsRadial())
	assert.True(t, KindPolarArea.IsRadial())
	assert.False(t, KindLine.IsRadial())
	assert.False(t, KindBar.IsRadial())
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(Float(0)))
	assert.True(t, Finite(Float(-3.5)))
	assert.False(t, Finite(nil))
	assert.False(t, Finite(Float(math.Inf(1))))
	assert.False(t, Finite(Float(math.Inf(-1))))
	assert.False(t, Finite(Float(math.NaN())))
}

func TestChartSpec_Validate(t *testing.T) {
	spec := sampleSpec()
	require.NoError(t, spec.Validate())

	spec.Series[0].Values = spec.Series[0].Values[:1]
	err := spec.Validate()
	assert.True(t, errors.Is(err, ErrInvalidSpec))

	unknown := sampleSpec()
	unknown.Kind = "radar"
	assert.ErrorIs(t, unknown.Validate(), ErrInvalidSpec)
}

func TestChartSpec_CloneIsDeep(t *testing.T) {
	spec := sampleSpec()
	clone := spec.Clone()
	require.True(t, spec.Equal(clone))

	*clone.Series[0].Values[0] = 99
	clone.CategoryLabels[0] = "Changed"
	clone.Series[0].Colors[0] = "red"

	assert.Equal(t, 5.0, *spec.Series[0].Values[0])
	assert.Equal(t, "Greedy", spec.CategoryLabels[0])
	assert.Equal(t, "rgb(119, 185, 242)", spec.Series[0].Colors[0])
	assert.False(t, spec.Equal(clone))
}

func TestChartData_Equal(t *testing.T) {
	a := sampleSpec().Data()
	b := sampleSpec().Data()
	assert.True(t, a.Equal(b))

	b.Series[0].Values[1] = Float(0)
	assert.False(t, a.Equal(b), "nil and zero are different values")

	empty := ChartData{}
	assert.True(t, empty.Equal(ChartData{Labels: []string{}, Series: []Series{}}))
}

func TestChartSpec_JSON(t *testing.T) {
	data, err := json.Marshal(sampleSpec())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "bar",
		"data": {
			"datasets": [
				{"label": "Labor Cost", "backgroundColor": ["rgb(119, 185, 242)"], "data": [5, null]}
			],
			"labels": ["Greedy", "Genetic"]
		},
		"options": {
			"title": {"display": true, "text": "Labor Cost and Fines"},
			"scales": {"yAxes": [{"ticks": {"beginAtZero": true}}]}
		}
	}`, string(data))

	var decoded ChartSpec
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, sampleSpec().Equal(decoded))
}

func TestChartSpec_UnmarshalRejectsUnknownKind(t *testing.T) {
	var spec ChartSpec
	err := json.Unmarshal([]byte(`{"type":"bubble","data":{"datasets":[],"labels":[]}}`), &spec)
	assert.Error(t, err)
}
