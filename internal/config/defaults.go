package config

// Defaults for unset configuration values.
const (
	DefaultHost            = "localhost"
	DefaultPort            = 8080
	DefaultDatabasePath    = ".sortify/sortify.db"
	DefaultCatalogSource   = "https://archive.org/download/data_20250826/data.json"
	DefaultDetailBaseURL   = "https://www.amazon.in/dp/"
	DefaultProviderBaseURL = "https://amazon-products-api.vercel.app/api/search"
	DefaultTimeoutSeconds  = 30
)

// ApplyDefaults fills in zero values with defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = DefaultDatabasePath
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = DefaultCatalogSource
	}
	if cfg.Catalog.DetailBaseURL == "" {
		cfg.Catalog.DetailBaseURL = DefaultDetailBaseURL
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = DefaultProviderBaseURL
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = DefaultTimeoutSeconds
	}
	cfg.Ranking.ApplyDefaults()
}
