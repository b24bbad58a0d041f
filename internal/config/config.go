package config

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment" validate:"required"`
	Notify     NotifyConfig     `mapstructure:"notify"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// DeveloperMode includes diagnostic payloads in error responses.
	DeveloperMode         bool `mapstructure:"developer_mode"`
	RequestTimeoutSeconds int  `mapstructure:"request_timeout_seconds" validate:"gte=1,lte=600"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the store backend.
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a PostgreSQL connection URL, or a file path for sqlite.
	URL          string `mapstructure:"url"            validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1,lte=100"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,lte=100"`
}

// EnrichmentConfig controls how search results are resolved to records.
type EnrichmentConfig struct {
	// PeerURL is the base URL of a peer instance used for enrichment
	// lookups. Empty means lookups are served locally.
	PeerURL string `mapstructure:"peer_url" validate:"omitempty,url"`
	// Concurrency bounds in-flight enrichment lookups per search. 1 keeps
	// enrichment strictly sequential.
	Concurrency    int `mapstructure:"concurrency"     validate:"gte=1,lte=32"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=1,lte=120"`
}

// NotifyConfig contains webhook notification settings.
type NotifyConfig struct {
	// WebhookURL is the incoming-webhook endpoint. Empty disables delivery.
	WebhookURL     string  `mapstructure:"webhook_url"     validate:"omitempty,url"`
	QueueSize      int     `mapstructure:"queue_size"      validate:"gte=1,lte=10000"`
	WorkerCount    int     `mapstructure:"worker_count"    validate:"gte=1,lte=16"`
	RatePerSecond  float64 `mapstructure:"rate_per_second" validate:"gte=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=1,lte=120"`
}
