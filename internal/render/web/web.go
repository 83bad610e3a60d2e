// Package web draws charts as standalone HTML pages with go-echarts.
//
// Load fetches the ECharts script into the output directory once so every
// page written afterwards works offline.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/schedboard/internal/modules/charts"
	"github.com/aristath/schedboard/internal/render"
)

// AssetName is the file the ECharts script is stored under
const AssetName = "echarts.min.js"

// ErrAssetDownload is returned when the ECharts script cannot be fetched
var ErrAssetDownload = errors.New("echarts asset download failed")

// Library writes one HTML page per chart into a directory
type Library struct {
	assetURL string
	dir      string
	client   *http.Client
	log      zerolog.Logger

	mu     sync.Mutex
	loaded bool
	nextID int
}

// NewLibrary creates an unloaded web library writing into dir
func NewLibrary(assetURL, dir string, log zerolog.Logger) *Library {
	return &Library{
		assetURL: assetURL,
		dir:      dir,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log.With().Str("component", "web_renderer").Logger(),
	}
}

// Dir returns the output directory
func (l *Library) Dir() string {
	return l.dir
}

// Load creates the output directory and downloads the ECharts script
func (l *Library) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return nil
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := l.download(ctx); err != nil {
		return err
	}

	l.loaded = true
	l.log.Info().Str("dir", l.dir).Msg("Web renderer loaded")
	return nil
}

func (l *Library) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.assetURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssetDownload, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssetDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAssetDownload, resp.StatusCode)
	}

	path := filepath.Join(l.dir, AssetName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssetDownload, err)
	}
	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssetDownload, err)
	}

	l.log.Debug().Str("url", l.assetURL).Int64("bytes", n).Msg("Downloaded chart script")
	return nil
}

// Construct assigns the chart a stable id and writes its first page
func (l *Library) Construct(spec charts.ChartSpec) (render.Instance, error) {
	l.mu.Lock()
	if !l.loaded {
		l.mu.Unlock()
		return nil, render.ErrNotLoaded
	}
	l.nextID++
	id := fmt.Sprintf("chart-%d", l.nextID)
	l.mu.Unlock()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	p := &Page{
		id:   id,
		path: filepath.Join(l.dir, pageName(id, spec.Title)),
		spec: spec.Clone(),
		log:  l.log,
	}
	if err := p.Redraw(); err != nil {
		return nil, err
	}
	return p, nil
}

func pageName(id, title string) string {
	if s := slug(title); s != "" {
		return id + "-" + s + ".html"
	}
	return id + ".html"
}
