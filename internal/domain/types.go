package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Account is a normalized EVM-style address identifying a caller or holder.
type Account string

// IsValidAccount checks if an account string is a well-formed hex address
func IsValidAccount(account string) bool {
	return common.IsHexAddress(account)
}

// NormalizeAccount normalizes an address to its checksummed form
func NormalizeAccount(account string) Account {
	if strings.HasPrefix(account, "0x") || strings.HasPrefix(account, "0X") {
		return Account(common.HexToAddress(account).String())
	}
	return Account(account)
}

func (a Account) String() string {
	return string(a)
}

// Valid checks if the account is a well-formed, non-zero hex address
func (a Account) Valid() bool {
	return common.IsHexAddress(string(a)) && string(a) != ZERO_ADDRESS
}

// PropertyType classifies a listed property
type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyIndustrial  PropertyType = "industrial"
	PropertyMixed       PropertyType = "mixed"
)

// IsValidPropertyType checks if a property type is valid
func IsValidPropertyType(t PropertyType) bool {
	return t == PropertyResidential ||
		t == PropertyCommercial ||
		t == PropertyIndustrial ||
		t == PropertyMixed
}

// RiskLevel classifies a property's investment risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// IsValidRiskLevel checks if a risk level is valid
func IsValidRiskLevel(r RiskLevel) bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// DisasterType classifies a reported incident
type DisasterType string

const (
	DisasterFlood      DisasterType = "flood"
	DisasterFire       DisasterType = "fire"
	DisasterEarthquake DisasterType = "earthquake"
	DisasterStorm      DisasterType = "storm"
	DisasterOther      DisasterType = "other"
)

// IsValidDisasterType checks if a disaster type is valid
func IsValidDisasterType(t DisasterType) bool {
	return t == DisasterFlood ||
		t == DisasterFire ||
		t == DisasterEarthquake ||
		t == DisasterStorm ||
		t == DisasterOther
}

// ClaimStatus represents the lifecycle state of an insurance claim
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
	ClaimPaid     ClaimStatus = "paid"
)

// IsValidClaimStatus checks if a claim status is valid
func IsValidClaimStatus(s ClaimStatus) bool {
	return s == ClaimPending || s == ClaimApproved || s == ClaimRejected || s == ClaimPaid
}

// Property is a listed real-estate asset divided into fungible shares.
// SharePrice is TotalValuation / TotalShares with floor division, so
// TotalShares * SharePrice may undershoot TotalValuation.
type Property struct {
	ID              uint64       `json:"id"`
	MetadataPointer string       `json:"metadata_pointer"` // opaque content-addressed URI, never interpreted
	TotalValuation  uint64       `json:"total_valuation"`
	TotalShares     uint64       `json:"total_shares"`
	AvailableShares uint64       `json:"available_shares"`
	SharePrice      uint64       `json:"share_price"`
	Owner           Account      `json:"owner"`
	Active          bool         `json:"active"`
	Verified        bool         `json:"verified"`
	Type            PropertyType `json:"type"`
	Risk            RiskLevel    `json:"risk"`
	CreatedAt       time.Time    `json:"created_at"`
}

// SoldShares returns the number of shares currently held by investors
func (p *Property) SoldShares() uint64 {
	return p.TotalShares - p.AvailableShares
}

// Holding is one account's position in one property. Holdings are created
// lazily on first acquisition and never removed, so a fully divested
// investor keeps a zero-share record.
type Holding struct {
	PropertyID     uint64    `json:"property_id"`
	Investor       Account   `json:"investor"`
	Shares         uint64    `json:"shares"`
	AmountPaid     uint64    `json:"amount_paid"` // cumulative cost basis
	LastAcquiredAt time.Time `json:"last_acquired_at"`
}

// SellOrder is a resale offer for property shares. Shares are not escrowed
// at creation; the seller's holding is re-checked at fulfilment time.
type SellOrder struct {
	ID            uint64    `json:"id"`
	PropertyID    uint64    `json:"property_id"`
	Seller        Account   `json:"seller"`
	SharesOffered uint64    `json:"shares_offered"`
	PricePerShare uint64    `json:"price_per_share"`
	TotalPrice    uint64    `json:"total_price"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the order's lifetime has elapsed. Expired orders
// are not flushed from storage; read paths filter on this.
func (o *SellOrder) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Open reports whether the order can still be fulfilled at the given time
func (o *SellOrder) Open(now time.Time) bool {
	return o.Active && !o.Expired(now)
}

// Proposal is a governance proposal with a fixed voting window
type Proposal struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Proposer     Account   `json:"proposer"`
	VotesFor     uint64    `json:"votes_for"`
	VotesAgainst uint64    `json:"votes_against"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Executed     bool      `json:"executed"`
	Passed       bool      `json:"passed"`
}

// VotingOpen reports whether votes can still be cast at the given time
func (p *Proposal) VotingOpen(now time.Time) bool {
	return !now.Before(p.StartTime) && now.Before(p.EndTime)
}

// Vote records one account's vote on one proposal. Power is the voter's
// live ledger balance at cast time, not a snapshot at proposal creation.
type Vote struct {
	ProposalID uint64    `json:"proposal_id"`
	Voter      Account   `json:"voter"`
	Support    bool      `json:"support"`
	Power      uint64    `json:"power"`
	CastAt     time.Time `json:"cast_at"`
}

// DisasterReport records an incident affecting a property
type DisasterReport struct {
	ID          uint64       `json:"id"`
	PropertyID  uint64       `json:"property_id"`
	Type        DisasterType `json:"type"`
	Description string       `json:"description"`
	Reporter    Account      `json:"reporter"`
	Verified    bool         `json:"verified"`
	ReportedAt  time.Time    `json:"reported_at"`
}

// InsuranceClaim is a claim against a verified disaster report, paid from
// the shared insurance fund. Approval with a positive payout collapses
// directly to Paid.
type InsuranceClaim struct {
	ID             uint64      `json:"id"`
	PropertyID     uint64      `json:"property_id"`
	ReportID       uint64      `json:"report_id"`
	Claimant       Account     `json:"claimant"`
	ClaimAmount    uint64      `json:"claim_amount"`
	Evidence       string      `json:"evidence"`
	Status         ClaimStatus `json:"status"`
	ApprovedAmount uint64      `json:"approved_amount"`
	SubmittedAt    time.Time   `json:"submitted_at"`
	ProcessedAt    *time.Time  `json:"processed_at,omitempty"`
}
