// Package catalog loads and holds the full product list for client-side search.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sortify/sortify/internal/models"
	"github.com/sortify/sortify/internal/storage"
	"go.uber.org/zap"
)

// catalogProduct mirrors the catalog file format: a JSON array of records
// with id, title, price, image, and a nested rating object. Missing rating
// fields default to 0.
type catalogProduct struct {
	ID     json.Number  `json:"id"`
	Title  string       `json:"title"`
	Price  models.Price `json:"price"`
	Image  string       `json:"image"`
	Rating struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// Loader fetches the catalog once at startup and serves an in-memory copy.
// The catalog is swapped atomically on reload so readers never observe a
// partial list. Local file sources can be watched for changes.
type Loader struct {
	source        string // http(s) URL or local file path
	detailBaseURL string
	client        *http.Client
	store         storage.Store // optional; snapshots the last good load
	logger        *zap.Logger

	mu       sync.RWMutex
	products []models.Product
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStore snapshots each successful load so a cold start with an
// unreachable source can fall back to the last good catalog.
func WithStore(s storage.Store) LoaderOption {
	return func(l *Loader) { l.store = s }
}

// WithLogger sets a logger for debug output.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithHTTPClient overrides the HTTP client used for URL sources.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// NewLoader creates a Loader for source, which is either an http(s) URL or a
// local file path. detailBaseURL prefixes product IDs to form detail links.
func NewLoader(source, detailBaseURL string, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:        source,
		detailBaseURL: detailBaseURL,
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses the catalog, replacing the in-memory copy on
// success. Failure leaves the current copy untouched and surfaces the
// underlying status or message; retried only by explicit call.
func (l *Loader) Load(ctx context.Context) error {
	data, err := l.read(ctx)
	if err != nil {
		return err
	}

	var raw []catalogProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]models.Product, 0, len(raw))
	for _, cp := range raw {
		id := cp.ID.String()
		products = append(products, models.Product{
			ID:          id,
			Title:       cp.Title,
			Price:       cp.Price,
			Rating:      cp.Rating.Rate,
			RatingCount: cp.Rating.Count,
			ImageURL:    cp.Image,
			DetailURL:   l.detailBaseURL + id,
		})
	}

	l.mu.Lock()
	l.products = products
	l.mu.Unlock()
	l.logger.Info("catalog loaded", zap.String("source", l.source), zap.Int("products", len(products)))

	if l.store != nil {
		if err := l.store.SaveCatalog(ctx, products); err != nil {
			l.logger.Warn("catalog snapshot failed", zap.Error(err))
		}
	}
	return nil
}

// LoadOrFallback tries Load and, when it fails and a store is configured,
// serves the last snapshotted catalog instead. The original load error is
// returned alongside so callers can still surface it.
func (l *Loader) LoadOrFallback(ctx context.Context) error {
	loadErr := l.Load(ctx)
	if loadErr == nil || l.store == nil {
		return loadErr
	}
	count, err := l.store.CountProducts(ctx)
	if err != nil || count == 0 {
		return loadErr
	}
	products, err := l.store.LoadCatalog(ctx)
	if err != nil || len(products) == 0 {
		return loadErr
	}
	l.mu.Lock()
	l.products = products
	l.mu.Unlock()
	l.logger.Warn("serving snapshotted catalog after load failure",
		zap.Int("products", len(products)), zap.Error(loadErr))
	return nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog fetch: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("catalog fetch returned HTTP %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return data, nil
}

// Products returns a copy of the loaded catalog.
func (l *Loader) Products() []models.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Product(nil), l.products...)
}

// Len returns the number of loaded products.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.products)
}
