// Package scheduledata provides a client for the scheduling back-end's
// chart-data endpoints. Each endpoint returns one record per scheduling
// algorithm for the requested week.
package scheduledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/schedboard/internal/config"
	"github.com/aristath/schedboard/internal/domain"
	"github.com/aristath/schedboard/internal/modules/charts"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"

	// RequestIDHeader carries a per-request id the back-end can log
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 512
)

// ErrUnexpectedStatus is returned for any non-200 response
var ErrUnexpectedStatus = errors.New("unexpected status from scheduling back-end")

// Client fetches metric records from the scheduling back-end
type Client struct {
	baseURL    string
	codec      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new back-end client. codec selects the preferred wire
// format; JSON responses are always accepted.
func NewClient(baseURL, codec string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		codec:   codec,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "scheduledata").Logger(),
	}
}

// Fetch returns the records of one metric family for one bucket
func (c *Client) Fetch(ctx context.Context, family charts.Family, bucket domain.Bucket) ([]domain.MetricRecord, error) {
	endpoint := family.Endpoint()
	if endpoint == "" {
		return nil, fmt.Errorf("unknown metric family %q", family)
	}

	u := fmt.Sprintf("%s/api/charts/%s?%s", c.baseURL, endpoint, url.Values{"week": {bucket.String()}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", c.accept())
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	rows, err := decode(resp)
	if err != nil {
		return nil, err
	}

	records := make([]domain.MetricRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := domain.RecordFromFields(row)
		if err != nil {
			return nil, fmt.Errorf("invalid record %d: %w", i, err)
		}
		records = append(records, rec)
	}

	c.log.Debug().
		Str("family", string(family)).
		Str("bucket", bucket.String()).
		Str("request_id", requestID).
		Int("records", len(records)).
		Dur("took", time.Since(start)).
		Msg("Fetched chart data")

	return records, nil
}

func (c *Client) accept() string {
	if c.codec == config.CodecMsgpack {
		return contentTypeMsgpack + ", " + contentTypeJSON
	}
	return contentTypeJSON
}

// decode picks the decoder from the response Content-Type. A missing type is
// treated as JSON.
func decode(resp *http.Response) ([]map[string]interface{}, error) {
	mediaType := contentTypeJSON
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("invalid content type %q: %w", ct, err)
		}
		mediaType = mt
	}

	var rows []map[string]interface{}
	switch mediaType {
	case contentTypeMsgpack, "application/x-msgpack":
		if err := msgpack.NewDecoder(resp.Body).Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack response: %w", err)
		}
	case contentTypeJSON:
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported content type %q", mediaType)
	}
	return rows, nil
}
