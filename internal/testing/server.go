// Package testing provides testing utilities and helpers for the schedboard project.
package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/schedboard/internal/domain"
)

// Content types understood by the scheduling back-end
const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// ScheduleServer is a fake scheduling back-end serving
// GET /api/charts/{endpoint}?week=... from in-memory records.
type ScheduleServer struct {
	*httptest.Server

	mu       sync.RWMutex
	records  map[string]map[domain.Bucket][]domain.MetricRecord
	status   int
	failing  map[string]int
	requests []*http.Request
}

// NewScheduleServer starts a fake back-end that is closed with the test
func NewScheduleServer(t *testing.T) *ScheduleServer {
	t.Helper()

	s := &ScheduleServer{
		records: make(map[string]map[domain.Bucket][]domain.MetricRecord),
		status:  http.StatusOK,
		failing: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Get("/api/charts/{endpoint}", s.handleChart)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// SetRecords sets the records served for endpoint and bucket
func (s *ScheduleServer) SetRecords(endpoint string, bucket domain.Bucket, records []domain.MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[endpoint] == nil {
		s.records[endpoint] = make(map[domain.Bucket][]domain.MetricRecord)
	}
	s.records[endpoint][bucket] = records
}

// SetStatus makes every request answer with status and an error body
func (s *ScheduleServer) SetStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetEndpointStatus makes one endpoint answer with status and an error body
func (s *ScheduleServer) SetEndpointStatus(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[endpoint] = status
}

// Requests returns every request received so far
func (s *ScheduleServer) Requests() []*http.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *ScheduleServer) handleChart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Clone(r.Context()))
	status := s.status
	endpoint := chi.URLParam(r, "endpoint")
	byBucket, known := s.records[endpoint]
	if st, ok := s.failing[endpoint]; ok {
		status = st
	}
	s.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !known {
		http.Error(w, "unknown endpoint", http.StatusNotFound)
		return
	}

	bucket, err := domain.ParseBucket(r.URL.Query().Get("week"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := make([]map[string]interface{}, 0, len(byBucket[bucket]))
	for _, rec := range byBucket[bucket] {
		rows = append(rows, rec.Fields())
	}

	if strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack) {
		data, err := msgpack.Marshal(rows)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	_ = json.NewEncoder(w).Encode(rows)
}
