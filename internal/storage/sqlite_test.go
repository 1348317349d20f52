package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sortify/sortify/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sortify.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestThemeDefaultsToLight(t *testing.T) {
	store := newTestStore(t)
	theme, err := store.GetTheme(context.Background())
	if err != nil {
		t.Fatalf("GetTheme: %v", err)
	}
	if theme != ThemeLight {
		t.Errorf("default theme = %q, want light", theme)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetTheme(ctx, ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, err := store.GetTheme(ctx)
	if err != nil {
		t.Fatalf("GetTheme: %v", err)
	}
	if theme != ThemeDark {
		t.Errorf("theme = %q, want dark", theme)
	}

	// Toggling back overwrites the existing row.
	if err := store.SetTheme(ctx, ThemeLight); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, _ = store.GetTheme(ctx)
	if theme != ThemeLight {
		t.Errorf("theme = %q, want light", theme)
	}
}

func TestSetThemeRejectsUnknownValue(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetTheme(context.Background(), "sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestCatalogSnapshotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	products := []models.Product{
		{ID: "b", Title: "Second", Price: models.Price{Raw: "₹199"}, Rating: 4.2, RatingCount: 10},
		{ID: "a", Title: "First", Price: models.NewPrice(99), Rating: 3.9, RatingCount: 5, ImageURL: "img", DetailURL: "link"},
	}
	if err := store.SaveCatalog(ctx, products); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	loaded, err := store.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("got %d products", len(loaded))
	}
	// Original order, not ID order.
	if loaded[0].ID != "b" || loaded[1].ID != "a" {
		t.Errorf("order lost: %v, %v", loaded[0].ID, loaded[1].ID)
	}
	if loaded[0].Price.Amount() != 199 {
		t.Errorf("price = %v", loaded[0].Price.Amount())
	}
	if loaded[1].ImageURL != "img" || loaded[1].DetailURL != "link" {
		t.Errorf("urls lost: %+v", loaded[1])
	}

	count, err := store.CountProducts(ctx)
	if err != nil {
		t.Fatalf("CountProducts: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d", count)
	}
}

func TestSaveCatalogReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.SaveCatalog(ctx, []models.Product{{ID: "old", Title: "Old"}})
	if err := store.SaveCatalog(ctx, []models.Product{{ID: "new", Title: "New"}}); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	loaded, _ := store.LoadCatalog(ctx)
	if len(loaded) != 1 || loaded[0].ID != "new" {
		t.Errorf("snapshot not replaced: %v", loaded)
	}
}
