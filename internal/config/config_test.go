package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 20
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  max_reconnects: 5
  reconnect_wait: "5s"
  connection_name: "test-connection"
auth:
  api_keys:
    - key-one
    - key-two
ledger:
  admin_account: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
  fee_recipient: "0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f"
  supply_cap: 5000000
  fee_bps: 100
  voting_period: "72h"
  faucet_enabled: true
  disaster_reporters:
    - "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
rate_limit:
  requests_per_second: 50
  burst: 100
webhook:
  delivery_timeout: "15s"
  max_retries: 3
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 20, cfg.Server.ReadTimeout)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, []string{"key-one", "key-two"}, cfg.Auth.APIKeys)
				assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", cfg.Ledger.AdminAccount)
				assert.Equal(t, uint64(5_000_000), cfg.Ledger.SupplyCap)
				assert.Equal(t, uint64(100), cfg.Ledger.FeeBps)
				assert.Equal(t, 72*time.Hour, cfg.Ledger.VotingPeriod)
				assert.True(t, cfg.Ledger.FaucetEnabled)
				assert.Equal(t, []string{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}, cfg.Ledger.DisasterReporters)
				assert.Equal(t, float64(50), cfg.RateLimit.RequestsPerSecond)
				assert.Equal(t, 100, cfg.RateLimit.Burst)
				assert.Equal(t, 15*time.Second, cfg.Webhook.DeliveryTimeout)
				assert.Equal(t, uint64(3), cfg.Webhook.MaxRetries)
			},
		},
		{
			name: "config with defaults",
			configFile: `
ledger:
  admin_account: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
  fee_recipient: "0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				// Check defaults
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Server.ReadTimeout)
				assert.Equal(t, 120, cfg.Server.IdleTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
				assert.Equal(t, "LEDGER_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, uint64(250), cfg.Ledger.FeeBps)
				assert.Equal(t, uint64(100), cfg.Ledger.MinInvestment)
				assert.Equal(t, uint64(90), cfg.Ledger.MaxOrderDays)
				assert.Equal(t, 168*time.Hour, cfg.Ledger.VotingPeriod)
				assert.Equal(t, uint64(1000), cfg.Ledger.QuorumBps)
				assert.False(t, cfg.Ledger.FaucetEnabled)
				assert.Equal(t, 24*time.Hour, cfg.Ledger.FaucetCooldown)
				assert.Equal(t, float64(0), cfg.RateLimit.RequestsPerSecond)
				assert.Equal(t, 10*time.Minute, cfg.RateLimit.ClientTTL)
				assert.Equal(t, 10*time.Second, cfg.Webhook.DeliveryTimeout)
				assert.Equal(t, uint64(5), cfg.Webhook.MaxRetries)
			},
		},
		{
			name: "missing admin account",
			configFile: `
ledger:
  fee_recipient: "0x23618e81E3f5cdF7f54C3d65f7FBc0aBf5B21E8f"
`,
			expectError: true,
			validate:    nil,
		},
		{
			name: "missing fee recipient",
			configFile: `
ledger:
  admin_account: "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
`,
			expectError: true,
			validate:    nil,
		},
		{
			name: "invalid yaml",
			configFile: `
				server:
				  port: invalid
			`,
			expectError: true,
			validate:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadAPIConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "ledger",
		Password: "secret",
		DBName:   "brick_ledger",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=ledger password=secret dbname=brick_ledger sslmode=require",
		cfg.DSN())
}
