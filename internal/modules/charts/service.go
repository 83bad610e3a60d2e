package charts

import (
	"context"
	"fmt"

	"github.com/aristath/schedboard/internal/domain"
	"github.com/rs/zerolog"
)

// RecordSource fetches the metric records of one family for one bucket
type RecordSource interface {
	Fetch(ctx context.Context, family Family, bucket domain.Bucket) ([]domain.MetricRecord, error)
}

// FamilySpec is a built chart together with the family and bucket it came from
type FamilySpec struct {
	Family Family
	Bucket domain.Bucket
	Spec   ChartSpec
}

// Service builds chart specs straight from a record source, without any
// widget lifecycle. Used for one-shot exports.
type Service struct {
	source RecordSource
	plans  map[Family]Plan
	log    zerolog.Logger
}

// NewService creates a new charts service using the default plan of every family
func NewService(source RecordSource, log zerolog.Logger) *Service {
	plans := make(map[Family]Plan, len(Families()))
	for _, f := range Families() {
		plans[f] = MustPlanFor(f)
	}
	return &Service{
		source: source,
		plans:  plans,
		log:    log.With().Str("service", "charts").Logger(),
	}
}

// SetPlan overrides the plan used for the plan's family
func (s *Service) SetPlan(plan Plan) {
	s.plans[plan.Family] = plan
}

// GetSpec fetches and builds the chart for one family
func (s *Service) GetSpec(ctx context.Context, family Family, bucket domain.Bucket) (ChartSpec, error) {
	plan, ok := s.plans[family]
	if !ok {
		return ChartSpec{}, fmt.Errorf("no chart plan for family %q", family)
	}

	records, err := s.source.Fetch(ctx, family, bucket)
	if err != nil {
		return ChartSpec{}, fmt.Errorf("failed to fetch %s records: %w", family, err)
	}

	spec := plan.Build(records)
	if err := spec.Validate(); err != nil {
		return ChartSpec{}, fmt.Errorf("failed to build %s chart: %w", family, err)
	}

	s.log.Debug().
		Str("family", string(family)).
		Str("bucket", bucket.String()).
		Int("records", len(records)).
		Msg("Built chart spec")

	return spec, nil
}

// GetAllSpecs builds every family's chart for bucket, in dashboard order.
// The first failure aborts the run.
func (s *Service) GetAllSpecs(ctx context.Context, bucket domain.Bucket) ([]FamilySpec, error) {
	result := make([]FamilySpec, 0, len(Families()))
	for _, f := range Families() {
		spec, err := s.GetSpec(ctx, f, bucket)
		if err != nil {
			return nil, err
		}
		result = append(result, FamilySpec{Family: f, Bucket: bucket, Spec: spec})
	}
	return result, nil
}
