package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sortify/sortify/internal/storage"
)

const sampleCatalog = `[
	{"id": 1, "title": "Backpack", "price": 109.95, "image": "img1", "rating": {"rate": 3.9, "count": 120}},
	{"id": 2, "title": "T-Shirt", "price": 22.3, "image": "img2", "rating": {"rate": 4.1, "count": 259}},
	{"id": 3, "title": "Jacket", "price": 55.99}
]`

func TestLoadFromURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCatalog))
	}))
	defer ts.Close()

	loader := NewLoader(ts.URL, "https://shop.example/dp/")
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	products := loader.Products()
	if len(products) != 3 {
		t.Fatalf("got %d products", len(products))
	}
	if products[0].ID != "1" || products[0].Title != "Backpack" {
		t.Errorf("product identity: %+v", products[0])
	}
	if products[0].Price.Amount() != 109.95 {
		t.Errorf("price = %v", products[0].Price.Amount())
	}
	if products[0].Rating != 3.9 || products[0].RatingCount != 120 {
		t.Errorf("rating: %+v", products[0])
	}
	if products[0].DetailURL != "https://shop.example/dp/1" {
		t.Errorf("detail url = %s", products[0].DetailURL)
	}
	// Missing rating object defaults to 0.
	if products[2].Rating != 0 || products[2].RatingCount != 0 {
		t.Errorf("missing rating should default to 0: %+v", products[2])
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0644); err != nil {
		t.Fatal(err)
	}
	loader := NewLoader(path, "https://shop.example/dp/")
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loader.Len() != 3 {
		t.Errorf("Len = %d", loader.Len())
	}
}

func TestLoadSurfacesHTTPStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	loader := NewLoader(ts.URL, "")
	err := loader.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "catalog fetch returned HTTP 404" {
		t.Errorf("error = %q", err.Error())
	}
	if loader.Len() != 0 {
		t.Error("failed load must not populate the catalog")
	}
}

func TestLoadKeepsCurrentCatalogOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	_ = os.WriteFile(path, []byte(sampleCatalog), 0644)

	loader := NewLoader(path, "")
	if err := loader.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Corrupt the file; a reload fails and the loaded copy stays.
	_ = os.WriteFile(path, []byte("{not json"), 0644)
	if err := loader.Load(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
	if loader.Len() != 3 {
		t.Errorf("catalog replaced on failed reload: Len = %d", loader.Len())
	}
}

func TestLoadOrFallbackServesSnapshot(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "sortify.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	// First loader snapshots a successful load.
	path := filepath.Join(t.TempDir(), "data.json")
	_ = os.WriteFile(path, []byte(sampleCatalog), 0644)
	first := NewLoader(path, "", WithStore(store))
	if err := first.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Second loader points at a dead source but falls back to the snapshot.
	second := NewLoader(filepath.Join(t.TempDir(), "missing.json"), "", WithStore(store))
	if err := second.LoadOrFallback(context.Background()); err != nil {
		t.Fatalf("LoadOrFallback: %v", err)
	}
	if second.Len() != 3 {
		t.Errorf("fallback catalog Len = %d", second.Len())
	}
}

func TestLoadOrFallbackWithoutSnapshotReturnsLoadError(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "sortify.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	loader := NewLoader(filepath.Join(t.TempDir(), "missing.json"), "", WithStore(store))
	if err := loader.LoadOrFallback(context.Background()); err == nil {
		t.Error("expected the original load error when no snapshot exists")
	}
}

func TestWatchReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	_ = os.WriteFile(path, []byte(`[{"id": 1, "title": "One", "price": 1}]`), 0644)

	loader := NewLoader(path, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := loader.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := loader.Watch(ctx); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	_ = os.WriteFile(path, []byte(`[{"id": 1, "title": "One", "price": 1}, {"id": 2, "title": "Two", "price": 2}]`), 0644)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if loader.Len() == 2 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("catalog not reloaded: Len = %d", loader.Len())
}

func TestWatchIsNoopForURLSources(t *testing.T) {
	loader := NewLoader("https://example.com/data.json", "")
	if err := loader.Watch(context.Background()); err != nil {
		t.Errorf("Watch on URL source: %v", err)
	}
}
