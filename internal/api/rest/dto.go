package rest

import (
	"github.com/openbrick/brick-ledger/internal/domain"
)

// Request bodies. Mutating endpoints carry the caller identity explicitly;
// verifying that the caller controls the account is the wallet bridge's
// concern, not the ledger's.

type issueRequest struct {
	Caller string `json:"caller" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type destroyRequest struct {
	Caller string `json:"caller" binding:"required"`
	From   string `json:"from" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type transferRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type approveRequest struct {
	Owner   string `json:"owner" binding:"required"`
	Spender string `json:"spender" binding:"required"`
	Amount  uint64 `json:"amount"`
}

type transferFromRequest struct {
	Spender string `json:"spender" binding:"required"`
	Owner   string `json:"owner" binding:"required"`
	To      string `json:"to" binding:"required"`
	Amount  uint64 `json:"amount" binding:"required"`
}

type callerRequest struct {
	Caller string `json:"caller" binding:"required"`
}

type listPropertyRequest struct {
	Caller          string `json:"caller" binding:"required"`
	MetadataPointer string `json:"metadata_pointer" binding:"required"`
	TotalValuation  uint64 `json:"total_valuation" binding:"required"`
	TotalShares     uint64 `json:"total_shares" binding:"required"`
	Type            string `json:"type" binding:"required"`
	Risk            string `json:"risk" binding:"required"`
}

type purchaseRequest struct {
	Buyer      string `json:"buyer" binding:"required"`
	ShareCount uint64 `json:"share_count" binding:"required"`
}

type incomeRequest struct {
	Caller      string `json:"caller" binding:"required"`
	TotalIncome uint64 `json:"total_income" binding:"required"`
}

type createOrderRequest struct {
	Seller        string `json:"seller" binding:"required"`
	PropertyID    uint64 `json:"property_id"`
	ShareCount    uint64 `json:"share_count" binding:"required"`
	PricePerShare uint64 `json:"price_per_share" binding:"required"`
	DurationDays  uint64 `json:"duration_days" binding:"required"`
}

type fulfilOrderRequest struct {
	Buyer      string `json:"buyer" binding:"required"`
	ShareCount uint64 `json:"share_count" binding:"required"`
}

type createProposalRequest struct {
	Proposer    string `json:"proposer" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type castVoteRequest struct {
	Voter   string `json:"voter" binding:"required"`
	Support *bool  `json:"support" binding:"required"`
}

type reportDisasterRequest struct {
	Reporter    string `json:"reporter" binding:"required"`
	PropertyID  uint64 `json:"property_id"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

type submitClaimRequest struct {
	Claimant    string `json:"claimant" binding:"required"`
	PropertyID  uint64 `json:"property_id"`
	ReportID    uint64 `json:"report_id"`
	ClaimAmount uint64 `json:"claim_amount" binding:"required"`
	Evidence    string `json:"evidence"`
}

type processClaimRequest struct {
	Caller         string `json:"caller" binding:"required"`
	Status         string `json:"status" binding:"required"`
	ApprovedAmount uint64 `json:"approved_amount"`
}

type depositRequest struct {
	From   string `json:"from" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type createWebhookClientRequest struct {
	Name       string   `json:"name" binding:"required"`
	URL        string   `json:"url" binding:"required"`
	Secret     string   `json:"secret" binding:"required"`
	EventTypes []string `json:"event_types"`
}

// Response bodies

type idResponse struct {
	ID uint64 `json:"id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type supplyResponse struct {
	TotalIssued uint64 `json:"total_issued"`
	SupplyCap   uint64 `json:"supply_cap"`
	Paused      bool   `json:"paused"`
}

type accountResponse struct {
	Address  domain.Account   `json:"address"`
	Balance  uint64           `json:"balance"`
	Holdings []domain.Holding `json:"holdings"`
}

type allowanceResponse struct {
	Owner   domain.Account `json:"owner"`
	Spender domain.Account `json:"spender"`
	Amount  uint64         `json:"amount"`
}

type executeProposalResponse struct {
	Executed bool `json:"executed"`
	Passed   bool `json:"passed"`
}

type fundResponse struct {
	Balance uint64 `json:"balance"`
}

type webhookClientResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URL        string   `json:"url"`
	EventTypes []string `json:"event_types,omitempty"`
	Active     bool     `json:"active"`
}

type changeEntry struct {
	Cursor    int64          `json:"cursor"`
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Component string         `json:"component"`
	Actor     string         `json:"actor"`
	ChangedAt string         `json:"changed_at"`
	Meta      map[string]any `json:"meta,omitempty"`
}

type changesResponse struct {
	Items      []changeEntry `json:"items"`
	NextAnchor int64         `json:"next_anchor"`
}
