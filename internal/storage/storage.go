// Package storage persists client-local state: the theme preference and the
// last good catalog snapshot.
package storage

import (
	"context"

	"github.com/sortify/sortify/internal/models"
)

// Theme values persisted as the user preference.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is the persistence interface for preferences and catalog snapshots.
type Store interface {
	// GetTheme returns the persisted theme flag, or ThemeLight when unset.
	GetTheme(ctx context.Context) (string, error)
	// SetTheme persists the theme flag. Written on every toggle.
	SetTheme(ctx context.Context, theme string) error

	// SaveCatalog replaces the stored catalog snapshot wholesale.
	SaveCatalog(ctx context.Context, products []models.Product) error
	// LoadCatalog returns the stored catalog snapshot in insertion order.
	LoadCatalog(ctx context.Context) ([]models.Product, error)
	// CountProducts returns the number of snapshotted products.
	CountProducts(ctx context.Context) (int64, error)

	Close() error
}
