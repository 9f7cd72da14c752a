package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType identifies the kind of ledger mutation an event describes
type EventType string

const (
	EventTokenIssued      EventType = "token.issued"
	EventTokenDestroyed   EventType = "token.destroyed"
	EventTokenTransferred EventType = "token.transferred"
	EventApprovalSet      EventType = "token.approval_set"
	EventLedgerPaused     EventType = "token.paused"
	EventLedgerUnpaused   EventType = "token.unpaused"

	EventPropertyListed    EventType = "property.listed"
	EventPropertyVerified  EventType = "property.verified"
	EventSharesPurchased   EventType = "property.shares_purchased"
	EventIncomeDistributed EventType = "property.income_distributed"

	EventOrderCreated   EventType = "order.created"
	EventOrderFulfilled EventType = "order.fulfilled"
	EventOrderCancelled EventType = "order.cancelled"

	EventProposalCreated  EventType = "governance.proposal_created"
	EventVoteCast         EventType = "governance.vote_cast"
	EventProposalExecuted EventType = "governance.proposal_executed"

	EventDisasterReported EventType = "disaster.reported"
	EventDisasterVerified EventType = "disaster.verified"
	EventClaimSubmitted   EventType = "disaster.claim_submitted"
	EventClaimProcessed   EventType = "disaster.claim_processed"
	EventFundDeposited    EventType = "disaster.fund_deposited"
)

// Component returns the subject prefix of the event type, e.g. "order"
// for "order.fulfilled". Used for message subjects and journal filtering.
func (t EventType) Component() string {
	for i := 0; i < len(t); i++ {
		if t[i] == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}

// LedgerEvent is the observability record emitted after a successful
// mutation, for external indexers and webhook clients. Events are never
// required for correctness.
type LedgerEvent struct {
	// EventID is a ULID, unique and time-sortable
	EventID string `json:"event_id"`
	// Type is the kind of mutation
	Type EventType `json:"type"`
	// Timestamp is the ledger time the mutation committed at
	Timestamp time.Time `json:"timestamp"`
	// Actor is the account that initiated the operation
	Actor Account `json:"actor"`

	// Counterparty is the other account involved, if any (recipient,
	// seller, claimant)
	Counterparty *Account `json:"counterparty,omitempty"`
	// PropertyID references the property involved, if any
	PropertyID *uint64 `json:"property_id,omitempty"`
	// OrderID references the sell order involved, if any
	OrderID *uint64 `json:"order_id,omitempty"`
	// ProposalID references the proposal involved, if any
	ProposalID *uint64 `json:"proposal_id,omitempty"`
	// ReportID references the disaster report involved, if any
	ReportID *uint64 `json:"report_id,omitempty"`
	// ClaimID references the insurance claim involved, if any
	ClaimID *uint64 `json:"claim_id,omitempty"`
	// Amount is the token amount moved or approved, if any
	Amount *uint64 `json:"amount,omitempty"`
	// Shares is the share count involved, if any
	Shares *uint64 `json:"shares,omitempty"`
	// Fee is the protocol fee taken, if any
	Fee *uint64 `json:"fee,omitempty"`
	// Support carries the vote direction on vote_cast events
	Support *bool `json:"support,omitempty"`
	// Passed carries the outcome on proposal_executed events
	Passed *bool `json:"passed,omitempty"`
}

// NewLedgerEvent creates an event with a fresh ULID
func NewLedgerEvent(t EventType, actor Account, at time.Time) LedgerEvent {
	return LedgerEvent{
		EventID:   ulid.Make().String(),
		Type:      t,
		Timestamp: at,
		Actor:     actor,
	}
}

// Uint64Ptr returns a pointer to v, for optional event fields
func Uint64Ptr(v uint64) *uint64 { return &v }

// BoolPtr returns a pointer to v, for optional event fields
func BoolPtr(v bool) *bool { return &v }

// AccountPtr returns a pointer to a, for optional event fields
func AccountPtr(a Account) *Account { return &a }
