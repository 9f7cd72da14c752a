package store

import (
	"context"
	"time"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

// Store defines the interface for database operations
type Store interface {
	// ApplyOperation persists one committed ledger operation atomically:
	// the journal entry plus every materialized row the operation touched
	ApplyOperation(ctx context.Context, input OperationInput) error
	// LoadState reads the full materialized ledger state for engine startup
	LoadState(ctx context.Context) (*StateSnapshot, error)
	// GetChanges retrieves journal entries after the given anchor cursor
	GetChanges(ctx context.Context, filter ChangesFilter) ([]schema.LedgerJournal, error)
	// CreateWebhookClient registers a new webhook client
	CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error
	// ListActiveWebhookClients retrieves all active webhook clients
	ListActiveWebhookClients(ctx context.Context) ([]schema.WebhookClient, error)
	// DeactivateWebhookClient disables delivery for a webhook client
	DeactivateWebhookClient(ctx context.Context, id string) error
}

// OperationInput carries the full write set of one ledger operation.
// Nil and empty fields are skipped. Every present field is written in the
// same database transaction as the journal entry.
type OperationInput struct {
	// Event is journaled as the operation's single audit record
	Event domain.LedgerEvent

	AccountUpserts   []schema.Account
	AllowanceUpserts []schema.Allowance
	PropertyUpsert   *schema.Property
	HoldingUpserts   []schema.Holding
	OrderUpsert      *schema.SellOrder
	ProposalUpsert   *schema.Proposal
	VoteCreate       *schema.Vote
	ReportUpsert     *schema.DisasterReport
	ClaimUpsert      *schema.InsuranceClaim
	KVUpserts        []schema.KeyValueStore
}

// StateSnapshot is the materialized ledger state as read at startup
type StateSnapshot struct {
	Accounts    []schema.Account
	Allowances  []schema.Allowance
	Properties  []schema.Property
	Holdings    []schema.Holding
	Orders      []schema.SellOrder
	Proposals   []schema.Proposal
	Votes       []schema.Vote
	Reports     []schema.DisasterReport
	Claims      []schema.InsuranceClaim
	Paused      bool
	TotalIssued uint64
}

// ChangesFilter filters journal entries for the change feed
type ChangesFilter struct {
	// Anchor is an exclusive lower bound on the cursor; 0 starts from the beginning
	Anchor int64
	// Limit caps the number of returned entries
	Limit int
	// Component filters by ledger component when non-empty
	Component string
	// EventType filters by dotted event type when non-empty
	EventType string
	// Actor filters by initiating account when non-empty
	Actor string
	// Since filters by ledger timestamp when non-zero
	Since time.Time
}
