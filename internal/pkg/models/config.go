package models

import "time"

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	NSQ      NSQConfig
	Events   EventsConfig
	Store    StoreConfig
	APIKey   APIKeyConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
	Match    MatchConfig
	Rides    RidesConfig
	Pricing  PricingConfig
	Metrics  MetricsConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	RateLimitPerMin int
	RateLimitBurst  int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NSQConfig contains the nsqd address used for publishing
type NSQConfig struct {
	Address string
}

// EventsConfig selects where lifecycle events go: nats, nsq or none
type EventsConfig struct {
	Backend          string
	MaxRetries       int
	BreakerThreshold int           // consecutive publish failures before the breaker opens
	BreakerCooldown  time.Duration // how long publishing is skipped once open
}

// StoreConfig selects the ride store and driver directory backend: memory, redis or postgres
type StoreConfig struct {
	Backend          string
	DirectoryBackend string
}

// APIKeyConfig holds the key required on internal driver endpoints
type APIKeyConfig struct {
	DriverService string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	LogsEnabled bool
	ForwardLogs bool
}

// LoggerConfig contains zap logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// MatchConfig contains matching specific configuration
type MatchConfig struct {
	SearchTimeout      time.Duration // Upper bound on a single search
	MaxReserveAttempts int           // Candidates tried before giving up on a search
}

// RidesConfig contains ride lifecycle specific configuration
type RidesConfig struct {
	AssumedSpeedKmh float64 // Average speed used for duration estimates
	MinDurationMin  int     // Floor applied to duration estimates
}

// PricingConfig points at the fare table file
type PricingConfig struct {
	FareTablePath string
	Table         FareTable
}

// MetricsConfig toggles the prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}
