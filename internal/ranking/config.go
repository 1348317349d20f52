package ranking

// Config holds tunables for the ranking engine.
type Config struct {
	// MaxResults caps how many ranked results a search returns.
	MaxResults int `yaml:"max_results"` // default: 15
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxResults: 15,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.MaxResults == 0 {
		c.MaxResults = defaults.MaxResults
	}
}
