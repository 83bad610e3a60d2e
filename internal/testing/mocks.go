package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/render"
)

// FetchCall records one Fetch invocation
type FetchCall struct {
	Family charts.Family
	Bucket domain.Bucket
}

// MockFetcher is a mock implementation of the record fetcher for testing
type MockFetcher struct {
	mu      sync.RWMutex
	records map[domain.Bucket][]domain.MetricRecord
	errs    map[domain.Bucket]error
	err     error
	calls   []FetchCall
}

// NewMockFetcher creates a new mock fetcher
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		records: make(map[domain.Bucket][]domain.MetricRecord),
		errs:    make(map[domain.Bucket]error),
	}
}

// SetRecords sets the records returned for bucket
func (m *MockFetcher) SetRecords(bucket domain.Bucket, records []domain.MetricRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[bucket] = records
}

// SetBucketError makes fetches for bucket fail
func (m *MockFetcher) SetBucketError(bucket domain.Bucket, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[bucket] = err
}

// SetError makes every fetch fail
func (m *MockFetcher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Fetch returns the configured records or error
func (m *MockFetcher) Fetch(ctx context.Context, family charts.Family, bucket domain.Bucket) ([]domain.MetricRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, FetchCall{Family: family, Bucket: bucket})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if err := m.errs[bucket]; err != nil {
		return nil, err
	}
	return m.records[bucket], nil
}

// Calls returns every Fetch invocation in order
func (m *MockFetcher) Calls() []FetchCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FetchCall(nil), m.calls...)
}

// MockLibrary is a mock drawing library that records loads and constructions
type MockLibrary struct {
	mu           sync.Mutex
	loadErrs     []error // consumed one per Load call
	constructErr error
	loaded       bool
	loadCalls    int
	instances    []*MockInstance
}

// NewMockLibrary creates a new mock library
func NewMockLibrary() *MockLibrary {
	return &MockLibrary{}
}

// FailLoads makes the next len(errs) loads fail with errs, in order
func (m *MockLibrary) FailLoads(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErrs = append(m.loadErrs, errs...)
}

// SetConstructError makes Construct fail
func (m *MockLibrary) SetConstructError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constructErr = err
}

// Load succeeds unless a failure was queued
func (m *MockLibrary) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++

	if len(m.loadErrs) > 0 {
		err := m.loadErrs[0]
		m.loadErrs = m.loadErrs[1:]
		return err
	}
	m.loaded = true
	return nil
}

// Construct returns a new MockInstance holding spec
func (m *MockLibrary) Construct(spec charts.ChartSpec) (render.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return nil, render.ErrNotLoaded
	}
	if m.constructErr != nil {
		return nil, m.constructErr
	}

	inst := &MockInstance{id: len(m.instances) + 1, spec: spec.Clone()}
	m.instances = append(m.instances, inst)
	return inst, nil
}

// LoadCalls returns how many times Load ran
func (m *MockLibrary) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// Instances returns every constructed instance
func (m *MockLibrary) Instances() []*MockInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockInstance(nil), m.instances...)
}

// MockInstance is a live chart that records updates and redraws
type MockInstance struct {
	id        int
	spec      charts.ChartSpec
	updates   int
	redraws   int
	drawn     charts.ChartData
	redrawErr error
}

// UpdateData replaces the held data
func (i *MockInstance) UpdateData(data charts.ChartData) {
	i.updates++
	i.spec.CategoryLabels = data.Labels
	i.spec.Series = data.Series
}

// Redraw snapshots the held data as drawn
func (i *MockInstance) Redraw() error {
	if i.redrawErr != nil {
		return i.redrawErr
	}
	i.redraws++
	i.drawn = i.spec.Data()
	return nil
}

// View returns a one-line summary of the held data
func (i *MockInstance) View() string {
	return fmt.Sprintf("chart#%d %s %v", i.id, i.spec.Kind, i.spec.CategoryLabels)
}

// ID returns the construction order of the instance, starting at 1
func (i *MockInstance) ID() int { return i.id }

// Spec returns the data the instance currently holds
func (i *MockInstance) Spec() charts.ChartSpec { return i.spec.Clone() }

// Updates returns how many times UpdateData ran
func (i *MockInstance) Updates() int { return i.updates }

// Redraws returns how many times Redraw succeeded
func (i *MockInstance) Redraws() int { return i.redraws }

// Drawn returns the data at the last redraw
func (i *MockInstance) Drawn() charts.ChartData { return i.drawn.Clone() }

// SetRedrawError makes Redraw fail
func (i *MockInstance) SetRedrawError(err error) { i.redrawErr = err }

// Notification is one recorded NotifyError call
type Notification struct {
	Title   string
	Message string
}

// MockNotifier records notifications
type MockNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyError records the notification
func (m *MockNotifier) NotifyError(title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, Notification{Title: title, Message: message})
}

// Notifications returns every recorded notification
func (m *MockNotifier) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.notifications...)
}

// ErrLoadFailed is a ready-made library load failure
var ErrLoadFailed = errors.New("failed to fetch chart library asset")
