package domain

import "errors"

// Validation errors: malformed or out-of-range input. Terminal for the
// call, no partial effect.
var (
	// ErrInvalidAccount is returned when an address is malformed or zero
	ErrInvalidAccount = errors.New("invalid account address")

	// ErrZeroAmount is returned when an amount or share count is zero
	ErrZeroAmount = errors.New("amount must be positive")

	// ErrAmountOverflow is returned when an amount computation would overflow
	ErrAmountOverflow = errors.New("amount overflows")

	// ErrInvalidPropertyType is returned when a property type is unknown
	ErrInvalidPropertyType = errors.New("invalid property type")

	// ErrInvalidRiskLevel is returned when a risk level is unknown
	ErrInvalidRiskLevel = errors.New("invalid risk level")

	// ErrInvalidDisasterType is returned when a disaster type is unknown
	ErrInvalidDisasterType = errors.New("invalid disaster type")

	// ErrInvalidClaimStatus is returned when a claim decision is not
	// approved or rejected
	ErrInvalidClaimStatus = errors.New("invalid claim status")

	// ErrPropertyNotFound is returned when a property id is unknown
	ErrPropertyNotFound = errors.New("property not found")

	// ErrOrderNotFound is returned when a sell order id is unknown
	ErrOrderNotFound = errors.New("sell order not found")

	// ErrProposalNotFound is returned when a proposal id is unknown
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrReportNotFound is returned when a disaster report id is unknown
	ErrReportNotFound = errors.New("disaster report not found")

	// ErrClaimNotFound is returned when an insurance claim id is unknown
	ErrClaimNotFound = errors.New("insurance claim not found")

	// ErrPropertyInactive is returned when purchasing shares of an
	// unverified or inactive property
	ErrPropertyInactive = errors.New("property is not active")

	// ErrBelowMinimumInvestment is returned when a purchase cost is below
	// the minimum investment floor
	ErrBelowMinimumInvestment = errors.New("purchase below minimum investment")

	// ErrInvalidOrderDuration is returned when a sell order duration is
	// outside the allowed range
	ErrInvalidOrderDuration = errors.New("order duration out of range")

	// ErrOrderInactive is returned when fulfilling or cancelling an order
	// that is already filled or cancelled
	ErrOrderInactive = errors.New("sell order is not active")

	// ErrOrderExpired is returned when fulfilling an order past its expiry
	ErrOrderExpired = errors.New("sell order has expired")

	// ErrSelfTrade is returned when a buyer attempts to fill their own order
	ErrSelfTrade = errors.New("buyer and seller are the same account")

	// ErrEmptyTitle is returned when a proposal title is blank
	ErrEmptyTitle = errors.New("proposal title is empty")

	// ErrVotingClosed is returned when casting a vote outside the window
	ErrVotingClosed = errors.New("voting window is closed")

	// ErrVotingOpen is returned when executing a proposal before its
	// voting window ends
	ErrVotingOpen = errors.New("voting window is still open")

	// ErrAlreadyVoted is returned when an account votes twice on a proposal
	ErrAlreadyVoted = errors.New("account already voted on this proposal")

	// ErrAlreadyExecuted is returned when executing a proposal twice
	ErrAlreadyExecuted = errors.New("proposal already executed")

	// ErrReportNotVerified is returned when a claim references an
	// unverified disaster report
	ErrReportNotVerified = errors.New("disaster report is not verified")

	// ErrReportPropertyMismatch is returned when a claim's property does
	// not match the referenced report's property
	ErrReportPropertyMismatch = errors.New("report references a different property")

	// ErrClaimNotPending is returned when processing a claim that has
	// already been decided
	ErrClaimNotPending = errors.New("claim is not pending")

	// ErrNoSoldShares is returned when distributing income over a property
	// with no shares sold
	ErrNoSoldShares = errors.New("property has no sold shares")

	// ErrWebhookClientNotFound is returned when a webhook client id is unknown
	ErrWebhookClientNotFound = errors.New("webhook client not found")
)

// Authorization errors
var (
	// ErrUnauthorized is returned when the caller lacks the required role
	// or ownership for an operation
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrFaucetDisabled is returned when a non-admin issues tokens and the
	// self-service faucet is off
	ErrFaucetDisabled = errors.New("faucet is disabled")

	// ErrFaucetCooldown is returned when a faucet issue happens within the
	// cooldown window
	ErrFaucetCooldown = errors.New("faucet cooldown not elapsed")
)

// Insufficient-resource errors
var (
	// ErrInsufficientBalance is returned when an account balance is below
	// the requested amount
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned when a spender's allowance is
	// below the requested amount
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrSupplyCapExceeded is returned when issuing past the supply cap
	ErrSupplyCapExceeded = errors.New("supply cap exceeded")

	// ErrBelowProposalThreshold is returned when a proposer's live balance
	// is under the proposal creation threshold
	ErrBelowProposalThreshold = errors.New("balance below proposal threshold")

	// ErrBelowVotingThreshold is returned when a voter's live balance is
	// under the minimum voting threshold
	ErrBelowVotingThreshold = errors.New("balance below voting threshold")

	// ErrSharesUnavailable is returned when a purchase exceeds the
	// property's available shares
	ErrSharesUnavailable = errors.New("not enough shares available")

	// ErrInsufficientFund is returned when the insurance fund cannot cover
	// an approved payout
	ErrInsufficientFund = errors.New("insufficient insurance fund balance")

	// ErrLedgerPaused is returned when transfers are attempted while the
	// ledger is paused
	ErrLedgerPaused = errors.New("ledger is paused")
)

// Consistency errors: detected at the point of use, not assumed from
// creation-time checks.
var (
	// ErrInsufficientShares is returned when a seller's current holding
	// cannot cover an order creation or fulfilment. At fulfilment time this
	// catches orders that over-committed the seller's shares.
	ErrInsufficientShares = errors.New("insufficient shares held")
)
