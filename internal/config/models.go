package config

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress  string
	MaxUploadBytes int64
}

// ModelConfig represents the model artifact configuration
type ModelConfig struct {
	Path         string
	MetadataPath string
	Threshold    float64
}

// ScratchConfig represents the scratch storage configuration
type ScratchConfig struct {
	Dir string
}

// CacheConfig represents the result cache configuration
type CacheConfig struct {
	Enabled    bool
	Type       string
	SQLitePath string
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress:  c.GetString("server.listen_address"),
		MaxUploadBytes: c.GetInt64("server.max_upload_bytes"),
	}
}

// GetModel returns the model artifact configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Path:         c.GetString("model.path"),
		MetadataPath: c.GetString("model.metadata_path"),
		Threshold:    c.GetFloat64("model.threshold"),
	}
}

// GetScratch returns the scratch storage configuration
func (c *Config) GetScratch() ScratchConfig {
	return ScratchConfig{
		Dir: c.GetString("scratch.dir"),
	}
}

// GetCache returns the result cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Enabled:    c.GetBool("cache.enabled"),
		Type:       c.GetString("cache.type"),
		SQLitePath: c.GetString("cache.sqlite_path"),
	}
}
