// Package domain provides core domain models and types.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Bucket is a selectable time window used to filter metric records
type Bucket string

const (
	Week1 Bucket = "Week 1"
	Week2 Bucket = "Week 2"
	Week3 Bucket = "Week 3"
	Week4 Bucket = "Week 4"
)

// DefaultBucket is selected when a widget is constructed
const DefaultBucket = Week1

// Buckets returns every selectable bucket in display order
func Buckets() []Bucket {
	return []Bucket{Week1, Week2, Week3, Week4}
}

// IsValid reports whether b is one of the known buckets
func (b Bucket) IsValid() bool {
	for _, known := range Buckets() {
		if b == known {
			return true
		}
	}
	return false
}

// String returns the bucket label
func (b Bucket) String() string {
	return string(b)
}

// ParseBucket accepts "Week 2", "week2", "week-2" or a bare "2"
func ParseBucket(s string) (Bucket, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(normalized)
	normalized = strings.TrimPrefix(normalized, "week")

	for _, b := range Buckets() {
		if strings.TrimPrefix(strings.ToLower(strings.ReplaceAll(string(b), " ", "")), "week") == normalized {
			return b, nil
		}
	}
	return "", fmt.Errorf("invalid bucket: %q (must be one of Week 1..Week 4)", s)
}

// BucketOption is a label/value pair for a bucket selector
type BucketOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BucketOptions returns the options shown by the bucket selector
func BucketOptions() []BucketOption {
	buckets := Buckets()
	options := make([]BucketOption, len(buckets))
	for i, b := range buckets {
		options[i] = BucketOption{Label: string(b), Value: string(b)}
	}
	return options
}

// Metric field names as returned by the scheduling back-end
const (
	FieldAlgorithmName        = "algorithmName"
	FieldScheduleCost         = "scheduleCost"
	FieldRegularTime          = "regularTimeData"
	FieldOvertime             = "overtimeData"
	FieldLaborMoney           = "laborMoney"
	FieldLateFine             = "lateFine"
	FieldUnfinishedFine       = "unfinishedFine"
	FieldUnassignedPercentage = "unassignedPercentage"
	FieldOrderCost            = "orderCost"
)

// MetricRecord is one row returned by the scheduling back-end: the algorithm
// that produced the schedule plus its numeric metrics.
type MetricRecord struct {
	AlgorithmName string
	Metrics       map[string]float64
}

// NewMetricRecord builds a record from name and field/value pairs
func NewMetricRecord(name string, metrics map[string]float64) MetricRecord {
	copied := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		copied[k] = v
	}
	return MetricRecord{AlgorithmName: name, Metrics: copied}
}

// Value returns the metric for field, or nil when the record does not carry it
func (r MetricRecord) Value(field string) *float64 {
	v, ok := r.Metrics[field]
	if !ok {
		return nil
	}
	return &v
}

// Fields returns the flat wire representation of the record
func (r MetricRecord) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, len(r.Metrics)+1)
	fields[FieldAlgorithmName] = r.AlgorithmName
	for k, v := range r.Metrics {
		fields[k] = v
	}
	return fields
}

// MarshalJSON encodes the record as a flat object
func (r MetricRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

// UnmarshalJSON decodes a flat object into the record
func (r *MetricRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	rec, err := RecordFromFields(fields)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// RecordFromFields converts a decoded wire object (JSON or msgpack) into a record.
// Null metrics are treated as absent; non-numeric metrics are rejected.
func RecordFromFields(fields map[string]interface{}) (MetricRecord, error) {
	rec := MetricRecord{Metrics: make(map[string]float64, len(fields))}

	if raw, ok := fields[FieldAlgorithmName]; ok && raw != nil {
		name, ok := raw.(string)
		if !ok {
			return MetricRecord{}, fmt.Errorf("%s must be a string, got %T", FieldAlgorithmName, raw)
		}
		rec.AlgorithmName = name
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == FieldAlgorithmName || fields[k] == nil {
			continue
		}
		v, ok := toFloat(fields[k])
		if !ok {
			return MetricRecord{}, fmt.Errorf("metric %s must be numeric, got %T", k, fields[k])
		}
		rec.Metrics[k] = v
	}

	return rec, nil
}

// toFloat widens every numeric type the JSON and msgpack decoders produce
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
