package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// LedgerConfig holds the ledger's economic parameters. Accounts are plain
// hex addresses; validation happens at engine construction.
type LedgerConfig struct {
	AdminAccount        string        `mapstructure:"admin_account"`
	FeeRecipient        string        `mapstructure:"fee_recipient"`
	SupplyCap           uint64        `mapstructure:"supply_cap"`
	FeeBps              uint64        `mapstructure:"fee_bps"`
	MinInvestment       uint64        `mapstructure:"min_investment"`
	MaxOrderDays        uint64        `mapstructure:"max_order_days"`
	VotingPeriod        time.Duration `mapstructure:"voting_period"`
	ProposalThreshold   uint64        `mapstructure:"proposal_threshold"`
	VotingThreshold     uint64        `mapstructure:"voting_threshold"`
	QuorumBps           uint64        `mapstructure:"quorum_bps"`
	FaucetEnabled       bool          `mapstructure:"faucet_enabled"`
	FaucetAmount        uint64        `mapstructure:"faucet_amount"`
	FaucetCooldown      time.Duration `mapstructure:"faucet_cooldown"`
	DisasterReporters   []string      `mapstructure:"disaster_reporters"`
	PersistenceDisabled bool          `mapstructure:"persistence_disabled"` // demo mode: in-memory only
}

// RateLimitConfig holds inbound request rate limiting configuration.
// A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	ClientTTL         time.Duration `mapstructure:"client_ttl"`
}

// WebhookConfig holds webhook delivery configuration
type WebhookConfig struct {
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout"`
	MaxRetries      uint64        `mapstructure:"max_retries"`
}

// APIConfig holds configuration for the ledger API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Ledger     LedgerConfig    `mapstructure:"ledger"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Webhook    WebhookConfig   `mapstructure:"webhook"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "LEDGER_EVENTS")
	v.SetDefault("ledger.supply_cap", uint64(1_000_000_000_000_000))
	v.SetDefault("ledger.fee_bps", 250)
	v.SetDefault("ledger.min_investment", 100)
	v.SetDefault("ledger.max_order_days", 90)
	v.SetDefault("ledger.voting_period", "168h") // 7 days
	v.SetDefault("ledger.proposal_threshold", 1000)
	v.SetDefault("ledger.voting_threshold", 1)
	v.SetDefault("ledger.quorum_bps", 1000)
	v.SetDefault("ledger.faucet_enabled", false)
	v.SetDefault("ledger.faucet_amount", 10_000)
	v.SetDefault("ledger.faucet_cooldown", "24h")
	v.SetDefault("rate_limit.requests_per_second", 0) // disabled unless configured
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.client_ttl", "10m")
	v.SetDefault("webhook.delivery_timeout", "10s")
	v.SetDefault("webhook.max_retries", 5)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg APIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Ledger.AdminAccount == "" {
		return nil, errors.New("ledger.admin_account is required")
	}
	if cfg.Ledger.FeeRecipient == "" {
		return nil, errors.New("ledger.fee_recipient is required")
	}

	return &cfg, nil
}

// configureViper returns a viper instance with the config file and
// environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("BRICK_LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// Required for viper to map env vars to struct fields when no config file
// exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Ledger
		"ledger.admin_account",
		"ledger.fee_recipient",
		"ledger.supply_cap",
		"ledger.fee_bps",
		"ledger.min_investment",
		"ledger.max_order_days",
		"ledger.voting_period",
		"ledger.proposal_threshold",
		"ledger.voting_threshold",
		"ledger.quorum_bps",
		"ledger.faucet_enabled",
		"ledger.faucet_amount",
		"ledger.faucet_cooldown",
		"ledger.disaster_reporters",
		"ledger.persistence_disabled",
		// Rate limiting
		"rate_limit.requests_per_second",
		"rate_limit.burst",
		"rate_limit.client_ttl",
		// Webhook
		"webhook.delivery_timeout",
		"webhook.max_retries",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // later files override earlier ones
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
