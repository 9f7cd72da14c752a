package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates all ledger tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Account{},
		&schema.Allowance{},
		&schema.Property{},
		&schema.Holding{},
		&schema.SellOrder{},
		&schema.Proposal{},
		&schema.Vote{},
		&schema.DisasterReport{},
		&schema.InsuranceClaim{},
		&schema.LedgerJournal{},
		&schema.WebhookClient{},
		&schema.KeyValueStore{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, reasonable defaults are used:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// ApplyOperation persists one committed ledger operation atomically
func (s *pgStore) ApplyOperation(ctx context.Context, input OperationInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Append the journal entry. The event ID is unique, so a replay
		// of the same event is a hard error rather than a silent skip.
		metaJSON, err := json.Marshal(input.Event)
		if err != nil {
			return fmt.Errorf("failed to marshal journal meta: %w", err)
		}

		journal := schema.LedgerJournal{
			EventID:   input.Event.EventID,
			EventType: string(input.Event.Type),
			Component: input.Event.Type.Component(),
			Actor:     string(input.Event.Actor),
			ChangedAt: input.Event.Timestamp,
			Meta:      metaJSON,
		}
		if err := tx.Create(&journal).Error; err != nil {
			return fmt.Errorf("failed to create journal entry: %w", err)
		}

		// 2. Upsert account balances touched by the operation
		for i := range input.AccountUpserts {
			account := input.AccountUpserts[i]
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "address"}},
				DoUpdates: clause.AssignmentColumns([]string{"balance", "last_faucet_at", "updated_at"}),
			}).Create(&account).Error; err != nil {
				return fmt.Errorf("failed to upsert account %s: %w", account.Address, err)
			}
		}

		// 3. Upsert allowances
		for i := range input.AllowanceUpserts {
			allowance := input.AllowanceUpserts[i]
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "owner"}, {Name: "spender"}},
				DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
			}).Create(&allowance).Error; err != nil {
				return fmt.Errorf("failed to upsert allowance: %w", err)
			}
		}

		// 4. Upsert the property row
		if input.PropertyUpsert != nil {
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(input.PropertyUpsert).Error; err != nil {
				return fmt.Errorf("failed to upsert property: %w", err)
			}
		}

		// 5. Upsert holdings. Holding rows are never deleted, shares may go to zero.
		for i := range input.HoldingUpserts {
			holding := input.HoldingUpserts[i]
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "property_id"}, {Name: "investor"}},
				DoUpdates: clause.AssignmentColumns([]string{"shares", "amount_paid", "last_acquired_at"}),
			}).Create(&holding).Error; err != nil {
				return fmt.Errorf("failed to upsert holding: %w", err)
			}
		}

		// 6. Upsert the sell order row
		if input.OrderUpsert != nil {
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(input.OrderUpsert).Error; err != nil {
				return fmt.Errorf("failed to upsert sell order: %w", err)
			}
		}

		// 7. Upsert the proposal row
		if input.ProposalUpsert != nil {
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(input.ProposalUpsert).Error; err != nil {
				return fmt.Errorf("failed to upsert proposal: %w", err)
			}
		}

		// 8. Create the vote. The (proposal_id, voter) unique index backs
		// the one-vote-per-account rule, so a conflict is a hard error.
		if input.VoteCreate != nil {
			if err := tx.Omit(clause.Associations).Create(input.VoteCreate).Error; err != nil {
				return fmt.Errorf("failed to create vote: %w", err)
			}
		}

		// 9. Upsert the disaster report row
		if input.ReportUpsert != nil {
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(input.ReportUpsert).Error; err != nil {
				return fmt.Errorf("failed to upsert disaster report: %w", err)
			}
		}

		// 10. Upsert the insurance claim row
		if input.ClaimUpsert != nil {
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(input.ClaimUpsert).Error; err != nil {
				return fmt.Errorf("failed to upsert insurance claim: %w", err)
			}
		}

		// 11. Upsert key value state such as the paused flag and total supply
		for i := range input.KVUpserts {
			kv := input.KVUpserts[i]
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&kv).Error; err != nil {
				return fmt.Errorf("failed to upsert key value %s: %w", kv.Key, err)
			}
		}

		return nil
	})
}

// LoadState reads the full materialized ledger state for engine startup
func (s *pgStore) LoadState(ctx context.Context) (*StateSnapshot, error) {
	snapshot := &StateSnapshot{}

	db := s.db.WithContext(ctx)

	if err := db.Order("address ASC").Find(&snapshot.Accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	if err := db.Find(&snapshot.Allowances).Error; err != nil {
		return nil, fmt.Errorf("failed to load allowances: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Properties).Error; err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Holdings).Error; err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load sell orders: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Proposals).Error; err != nil {
		return nil, fmt.Errorf("failed to load proposals: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Votes).Error; err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Reports).Error; err != nil {
		return nil, fmt.Errorf("failed to load disaster reports: %w", err)
	}
	if err := db.Order("id ASC").Find(&snapshot.Claims).Error; err != nil {
		return nil, fmt.Errorf("failed to load insurance claims: %w", err)
	}

	paused, err := s.getKVBool(ctx, schema.KeyPaused)
	if err != nil {
		return nil, err
	}
	snapshot.Paused = paused

	totalIssued, err := s.getKVUint64(ctx, schema.KeyTotalIssued)
	if err != nil {
		return nil, err
	}
	snapshot.TotalIssued = totalIssued

	return snapshot, nil
}

func (s *pgStore) getKV(ctx context.Context, key string) (string, bool, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key value %s: %w", key, err)
	}
	return kv.Value, true, nil
}

func (s *pgStore) getKVBool(ctx context.Context, key string) (bool, error) {
	value, found, err := s.getKV(ctx, key)
	if err != nil || !found {
		return false, err
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("failed to parse key value %s: %w", key, err)
	}
	return parsed, nil
}

func (s *pgStore) getKVUint64(ctx context.Context, key string) (uint64, error) {
	value, found, err := s.getKV(ctx, key)
	if err != nil || !found {
		return 0, err
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse key value %s: %w", key, err)
	}
	return parsed, nil
}

// GetChanges retrieves journal entries after the given anchor cursor
func (s *pgStore) GetChanges(ctx context.Context, filter ChangesFilter) ([]schema.LedgerJournal, error) {
	query := s.db.WithContext(ctx).Model(&schema.LedgerJournal{}).
		Where("cursor > ?", filter.Anchor)

	if filter.Component != "" {
		query = query.Where("component = ?", filter.Component)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.Actor != "" {
		query = query.Where("actor = ?", string(domain.NormalizeAccount(filter.Actor)))
	}
	if !filter.Since.IsZero() {
		query = query.Where("changed_at >= ?", filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var entries []schema.LedgerJournal
	if err := query.Order("cursor ASC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get changes: %w", err)
	}

	return entries, nil
}

// CreateWebhookClient registers a new webhook client
func (s *pgStore) CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error {
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create webhook client: %w", err)
	}
	return nil
}

// ListActiveWebhookClients retrieves all active webhook clients
func (s *pgStore) ListActiveWebhookClients(ctx context.Context) ([]schema.WebhookClient, error) {
	var clients []schema.WebhookClient
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook clients: %w", err)
	}
	return clients, nil
}

// DeactivateWebhookClient disables delivery for a webhook client
func (s *pgStore) DeactivateWebhookClient(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.WebhookClient{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate webhook client: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrWebhookClientNotFound
	}
	return nil
}
