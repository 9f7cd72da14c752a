package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")

	var dsn string
	var err error

	if dbHost != "" {
		dbPort := os.Getenv("TEST_DB_PORT")
		dbUser := os.Getenv("TEST_DB_USER")
		dbPassword := os.Getenv("TEST_DB_PASSWORD")
		dbName := os.Getenv("TEST_DB_NAME")
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)
	} else {
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			terminateContainer(ctx)
			os.Exit(1)
		}
	}

	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	if err := Migrate(testDB); err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	code := m.Run()

	terminateContainer(ctx)
	os.Exit(code)
}

func terminateContainer(ctx context.Context) {
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}
}

// initPGTestDB creates a transaction-isolated store for one test
func initPGTestDB(t *testing.T) Store {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

const testActor = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func sampleOperation(eventID string, balance uint64) OperationInput {
	event := domain.LedgerEvent{
		EventID:   eventID,
		Type:      domain.EventTokenIssued,
		Timestamp: time.Now().UTC(),
		Actor:     domain.NormalizeAccount(testActor),
		Amount:    domain.Uint64Ptr(balance),
	}
	return OperationInput{
		Event: event,
		AccountUpserts: []schema.Account{
			{Address: testActor, Balance: balance},
		},
		KVUpserts: []schema.KeyValueStore{
			{Key: schema.KeyTotalIssued, Value: fmt.Sprintf("%d", balance)},
		},
	}
}

func TestApplyOperation(t *testing.T) {
	ctx := context.Background()

	t.Run("persists journal and materialized rows atomically", func(t *testing.T) {
		s := initPGTestDB(t)

		err := s.ApplyOperation(ctx, sampleOperation("01TESTEVENT00000000000000A", 1000))
		require.NoError(t, err)

		changes, err := s.GetChanges(ctx, ChangesFilter{})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, "01TESTEVENT00000000000000A", changes[0].EventID)
		assert.Equal(t, "token.issued", changes[0].EventType)
		assert.Equal(t, "token", changes[0].Component)

		snapshot, err := s.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Accounts, 1)
		assert.Equal(t, uint64(1000), snapshot.Accounts[0].Balance)
		assert.Equal(t, uint64(1000), snapshot.TotalIssued)
	})

	t.Run("upserts overwrite on replay of the same row", func(t *testing.T) {
		s := initPGTestDB(t)

		require.NoError(t, s.ApplyOperation(ctx, sampleOperation("01TESTEVENT00000000000000B", 1000)))
		require.NoError(t, s.ApplyOperation(ctx, sampleOperation("01TESTEVENT00000000000000C", 2500)))

		snapshot, err := s.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Accounts, 1)
		assert.Equal(t, uint64(2500), snapshot.Accounts[0].Balance)
	})

	t.Run("rejects a duplicate event id", func(t *testing.T) {
		s := initPGTestDB(t)

		require.NoError(t, s.ApplyOperation(ctx, sampleOperation("01TESTEVENT00000000000000D", 1000)))
		err := s.ApplyOperation(ctx, sampleOperation("01TESTEVENT00000000000000D", 2000))
		require.Error(t, err)

		// the failed transaction must not have touched the account row
		snapshot, err := s.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Accounts, 1)
		assert.Equal(t, uint64(1000), snapshot.Accounts[0].Balance)
	})

	t.Run("persists domain rows with ledger-assigned ids", func(t *testing.T) {
		s := initPGTestDB(t)

		now := time.Now().UTC().Truncate(time.Microsecond)
		input := OperationInput{
			Event: domain.LedgerEvent{
				EventID:   "01TESTEVENT00000000000000E",
				Type:      domain.EventPropertyListed,
				Timestamp: now,
				Actor:     domain.NormalizeAccount(testActor),
			},
			PropertyUpsert: &schema.Property{
				ID:              0,
				MetadataPointer: "ipfs://QmTest",
				TotalValuation:  100_000,
				TotalShares:     1_000,
				AvailableShares: 1_000,
				SharePrice:      100,
				Owner:           testActor,
				Type:            string(domain.PropertyResidential),
				Risk:            string(domain.RiskLow),
				CreatedAt:       now,
			},
		}
		require.NoError(t, s.ApplyOperation(ctx, input))

		snapshot, err := s.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Properties, 1)
		assert.Equal(t, uint64(0), snapshot.Properties[0].ID)
		assert.Equal(t, "ipfs://QmTest", snapshot.Properties[0].MetadataPointer)
	})
}

func TestGetChanges(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, s Store) {
		events := []struct {
			id        string
			eventType domain.EventType
		}{
			{"01TESTCHANGE0000000000000A", domain.EventTokenIssued},
			{"01TESTCHANGE0000000000000B", domain.EventTokenTransferred},
			{"01TESTCHANGE0000000000000C", domain.EventOrderCreated},
		}
		for _, e := range events {
			input := OperationInput{
				Event: domain.LedgerEvent{
					EventID:   e.id,
					Type:      e.eventType,
					Timestamp: time.Now().UTC(),
					Actor:     domain.NormalizeAccount(testActor),
				},
			}
			require.NoError(t, s.ApplyOperation(ctx, input))
		}
	}

	t.Run("returns entries in cursor order", func(t *testing.T) {
		s := initPGTestDB(t)
		seed(t, s)

		changes, err := s.GetChanges(ctx, ChangesFilter{})
		require.NoError(t, err)
		require.Len(t, changes, 3)
		assert.Less(t, changes[0].Cursor, changes[1].Cursor)
		assert.Less(t, changes[1].Cursor, changes[2].Cursor)
	})

	t.Run("anchor is exclusive", func(t *testing.T) {
		s := initPGTestDB(t)
		seed(t, s)

		all, err := s.GetChanges(ctx, ChangesFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)

		rest, err := s.GetChanges(ctx, ChangesFilter{Anchor: all[0].Cursor})
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, all[1].EventID, rest[0].EventID)
	})

	t.Run("filters by component and event type", func(t *testing.T) {
		s := initPGTestDB(t)
		seed(t, s)

		orders, err := s.GetChanges(ctx, ChangesFilter{Component: "order"})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "order.created", orders[0].EventType)

		transfers, err := s.GetChanges(ctx, ChangesFilter{EventType: "token.transferred"})
		require.NoError(t, err)
		require.Len(t, transfers, 1)
	})

	t.Run("respects the limit", func(t *testing.T) {
		s := initPGTestDB(t)
		seed(t, s)

		page, err := s.GetChanges(ctx, ChangesFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page, 2)
	})
}

func TestWebhookClients(t *testing.T) {
	ctx := context.Background()

	t.Run("create and list active clients", func(t *testing.T) {
		s := initPGTestDB(t)

		client := &schema.WebhookClient{
			ID:         "466cbd04-9d0b-44ad-9d2c-0e9a1f73d1b1",
			Name:       "indexer",
			URL:        "https://example.com/hook",
			Secret:     "shh",
			EventTypes: datatypes.JSON([]byte(`["order.created"]`)),
			Active:     true,
		}
		require.NoError(t, s.CreateWebhookClient(ctx, client))

		clients, err := s.ListActiveWebhookClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "indexer", clients[0].Name)
	})

	t.Run("deactivated clients drop out of the active list", func(t *testing.T) {
		s := initPGTestDB(t)

		client := &schema.WebhookClient{
			ID:     "cc1e1ca9-6b06-4f54-a51e-0bd5e7a3f52e",
			Name:   "temp",
			URL:    "https://example.com/hook",
			Secret: "shh",
			Active: true,
		}
		require.NoError(t, s.CreateWebhookClient(ctx, client))
		require.NoError(t, s.DeactivateWebhookClient(ctx, client.ID))

		clients, err := s.ListActiveWebhookClients(ctx)
		require.NoError(t, err)
		assert.Empty(t, clients)
	})

	t.Run("deactivating an unknown client fails", func(t *testing.T) {
		s := initPGTestDB(t)

		err := s.DeactivateWebhookClient(ctx, "a6d5acd4-3f9b-4c5a-a3a7-9f2f1c2b7f00")
		assert.ErrorIs(t, err, domain.ErrWebhookClientNotFound)
	})
}
