// SQLite implementation of the Store interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sortify/sortify/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS catalog_products (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		price TEXT,
		rating REAL,
		rating_count INTEGER,
		image_url TEXT,
		detail_url TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_products_id ON catalog_products(id);
	`
	_, err := db.Exec(schema)
	return err
}

const themeKey = "theme"

// GetTheme returns the persisted theme flag, defaulting to light when unset
// or unrecognized.
func (s *SQLiteStore) GetTheme(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, themeKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return ThemeLight, nil
	}
	if err != nil {
		return "", err
	}
	if value != ThemeDark {
		value = ThemeLight
	}
	return value, nil
}

// SetTheme persists the theme flag, rejecting values other than light/dark.
func (s *SQLiteStore) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("invalid theme: %s", theme)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		themeKey, theme,
	)
	return err
}

// SaveCatalog replaces the catalog snapshot in one transaction so readers
// never observe a half-written catalog.
func (s *SQLiteStore) SaveCatalog(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_products`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalog_products (position, id, title, price, rating, rating_count, image_url, detail_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range products {
		if _, err := stmt.ExecContext(ctx, i, p.ID, p.Title, p.Price.Raw, p.Rating, p.RatingCount, p.ImageURL, p.DetailURL); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// LoadCatalog returns the snapshotted catalog in its original order.
func (s *SQLiteStore) LoadCatalog(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, price, rating, rating_count, image_url, detail_url
		 FROM catalog_products ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price.Raw, &p.Rating, &p.RatingCount, &p.ImageURL, &p.DetailURL); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts returns the number of snapshotted products.
func (s *SQLiteStore) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_products`).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
