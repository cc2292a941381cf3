package feature

// Config holds feature service settings loadable from the environment.
type Config struct {
	Catalog        string `env:"FEATURE_CATALOG" envDefault:"features.yaml"`
	QueryPrefix    string `env:"FEATURE_QUERY_PREFIX" envDefault:"ff_"`
	KeyPrefix      string `env:"FEATURE_KEY_PREFIX" envDefault:"ff_"`
	MemoryCapacity int    `env:"FEATURE_MEMORY_CAPACITY" envDefault:"1024"`
}

// ServiceOptions converts the config into service options.
func (c Config) ServiceOptions() []ServiceOption {
	opts := make([]ServiceOption, 0, 2)
	if c.KeyPrefix != "" {
		opts = append(opts, WithKeyPrefix(c.KeyPrefix))
	}
	if c.MemoryCapacity > 0 {
		opts = append(opts, WithMemoryCapacity(c.MemoryCapacity))
	}
	return opts
}

// MiddlewareOptions converts the config into middleware options.
func (c Config) MiddlewareOptions() []MiddlewareOption {
	if c.QueryPrefix == "" {
		return nil
	}
	return []MiddlewareOption{WithQueryPrefix(c.QueryPrefix)}
}
