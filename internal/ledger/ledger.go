// Package ledger implements the fractional-ownership bookkeeping core:
// fungible balances, the property registry, the resale order book,
// governance tallying, and the disaster/insurance registry.
//
// Every mutating operation runs as one exclusive critical section and is
// all-or-nothing: validation and arithmetic happen on staged copies, the
// write set is persisted in a single database transaction, and only then
// is in-memory state updated. A failure at any point leaves the ledger
// exactly as before the call.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openbrick/brick-ledger/internal/adapter"
	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
)

// MaxFeeBps caps the configurable protocol fee rate at 10%.
const MaxFeeBps = 1000

// Config holds the economic parameters fixed at engine construction
type Config struct {
	// Admin is the account allowed to perform privileged operations
	Admin domain.Account
	// FeeRecipient receives the protocol fee cut of purchases and fills
	FeeRecipient domain.Account
	// SupplyCap bounds the total issued fungible supply
	SupplyCap uint64
	// FeeBps is the protocol fee rate in basis points, at most MaxFeeBps
	FeeBps uint64
	// MinInvestment is the floor on a primary purchase cost
	MinInvestment uint64
	// MaxOrderDays bounds sell order lifetimes
	MaxOrderDays uint64
	// VotingPeriod is the fixed proposal voting window
	VotingPeriod time.Duration
	// ProposalThreshold is the minimum live balance to create a proposal
	ProposalThreshold uint64
	// VotingThreshold is the minimum live balance to cast a vote
	VotingThreshold uint64
	// QuorumBps is the minimum participating power as a fraction of supply
	QuorumBps uint64
	// FaucetEnabled allows non-admin self-service issuance
	FaucetEnabled bool
	// FaucetAmount caps a single faucet issue
	FaucetAmount uint64
	// FaucetCooldown is the minimum interval between faucet issues per account
	FaucetCooldown time.Duration
	// DisasterReporters may file disaster reports in addition to the admin
	DisasterReporters []domain.Account
}

// Validate checks the configuration for construction-time errors
func (c *Config) Validate() error {
	if !c.Admin.Valid() {
		return fmt.Errorf("admin account %q: %w", c.Admin, domain.ErrInvalidAccount)
	}
	if !c.FeeRecipient.Valid() {
		return fmt.Errorf("fee recipient %q: %w", c.FeeRecipient, domain.ErrInvalidAccount)
	}
	if c.SupplyCap == 0 {
		return fmt.Errorf("supply cap must be positive")
	}
	if c.FeeBps > MaxFeeBps {
		return fmt.Errorf("fee rate %d exceeds maximum %d bps", c.FeeBps, MaxFeeBps)
	}
	if c.MaxOrderDays == 0 {
		return fmt.Errorf("max order days must be positive")
	}
	if c.VotingPeriod <= 0 {
		return fmt.Errorf("voting period must be positive")
	}
	if c.QuorumBps > domain.BPS_DENOMINATOR {
		return fmt.Errorf("quorum %d exceeds %d bps", c.QuorumBps, domain.BPS_DENOMINATOR)
	}
	for _, r := range c.DisasterReporters {
		if !r.Valid() {
			return fmt.Errorf("disaster reporter %q: %w", r, domain.ErrInvalidAccount)
		}
	}
	return nil
}

// EventSink receives events after a successful mutation. Implementations
// must not block; delivery is best-effort and never affects correctness.
type EventSink func(event domain.LedgerEvent)

// ExecutionHook is invoked after a proposal passes on execute. The ledger
// records the outcome only; acting on the payload is an external concern.
type ExecutionHook func(proposal domain.Proposal)

// Option configures optional collaborators on construction
type Option func(*Ledger)

// WithStore attaches a persistence store. Without one the ledger runs
// purely in memory.
func WithStore(s store.Store) Option {
	return func(l *Ledger) { l.store = s }
}

// WithClock overrides the time source, for tests
func WithClock(c adapter.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithEventSink attaches an event sink
func WithEventSink(sink EventSink) Option {
	return func(l *Ledger) { l.sink = sink }
}

// WithExecutionHook attaches a hook called when a proposal passes
func WithExecutionHook(hook ExecutionHook) Option {
	return func(l *Ledger) { l.execHook = hook }
}

type allowanceKey struct {
	owner   domain.Account
	spender domain.Account
}

type holdingKey struct {
	propertyID uint64
	investor   domain.Account
}

type voteKey struct {
	proposalID uint64
	voter      domain.Account
}

// Ledger is the in-memory authoritative state of all components, guarded
// by one mutex so every public operation is a serialized critical section.
type Ledger struct {
	mu sync.RWMutex

	cfg      Config
	clock    adapter.Clock
	store    store.Store
	sink     EventSink
	execHook ExecutionHook

	// fungible ledger
	balances    map[domain.Account]uint64
	allowances  map[allowanceKey]uint64
	lastFaucet  map[domain.Account]time.Time
	totalIssued uint64
	paused      bool

	// property registry. Properties are indexed by their dense ID.
	properties []*domain.Property
	holdings   map[holdingKey]*domain.Holding
	// append-only indexes, zero-share entries are kept
	propertyInvestors  map[uint64][]domain.Account
	investorProperties map[domain.Account][]uint64

	// order book
	orders      map[uint64]*domain.SellOrder
	orderIDs    []uint64
	nextOrderID uint64

	// governance
	proposals []*domain.Proposal
	votes     map[voteKey]*domain.Vote

	// disaster registry
	reports   []*domain.DisasterReport
	claims    []*domain.InsuranceClaim
	reporters map[domain.Account]bool
}

// New constructs a ledger engine with empty state
func New(cfg Config, opts ...Option) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger config: %w", err)
	}

	l := &Ledger{
		cfg:                cfg,
		clock:              adapter.NewClock(),
		balances:           make(map[domain.Account]uint64),
		allowances:         make(map[allowanceKey]uint64),
		lastFaucet:         make(map[domain.Account]time.Time),
		holdings:           make(map[holdingKey]*domain.Holding),
		propertyInvestors:  make(map[uint64][]domain.Account),
		investorProperties: make(map[domain.Account][]uint64),
		orders:             make(map[uint64]*domain.SellOrder),
		nextOrderID:        1,
		votes:              make(map[voteKey]*domain.Vote),
		reporters:          make(map[domain.Account]bool),
	}
	for _, r := range cfg.DisasterReporters {
		l.reporters[r] = true
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// now returns the ledger timestamp for the current operation
func (l *Ledger) now() time.Time {
	return l.clock.Now().UTC()
}

// isAdmin reports whether the caller holds the admin role
func (l *Ledger) isAdmin(caller domain.Account) bool {
	return caller == l.cfg.Admin
}

// persist writes the operation's write set through the store, if attached.
// Called with the mutex held, before any in-memory mutation.
func (l *Ledger) persist(ctx context.Context, input store.OperationInput) error {
	if l.store == nil {
		return nil
	}
	if err := l.store.ApplyOperation(ctx, input); err != nil {
		return fmt.Errorf("failed to persist %s: %w", input.Event.Type, err)
	}
	return nil
}

// emit hands the event to the sink, if attached
func (l *Ledger) emit(event domain.LedgerEvent) {
	if l.sink != nil {
		l.sink(event)
	}
}

// checked arithmetic. All amounts are uint64; any overflow is a terminal
// validation error for the call.

func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, domain.ErrAmountOverflow
	}
	return sum, nil
}

func mulChecked(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, domain.ErrAmountOverflow
	}
	return product, nil
}

// feeSplit computes the protocol fee and net amount for a cost. The fee is
// floored, so fee + net always equals cost exactly.
func (l *Ledger) feeSplit(cost uint64) (fee, net uint64, err error) {
	scaled, err := mulChecked(cost, l.cfg.FeeBps)
	if err != nil {
		return 0, 0, err
	}
	fee = scaled / domain.BPS_DENOMINATOR
	return fee, cost - fee, nil
}

// balanceSet stages balance mutations for one operation. Reads fall
// through to committed state; nothing is visible outside the operation
// until apply.
type balanceSet struct {
	ledger  *Ledger
	pending map[domain.Account]uint64
	touched []domain.Account
}

func (l *Ledger) newBalanceSet() *balanceSet {
	return &balanceSet{
		ledger:  l,
		pending: make(map[domain.Account]uint64),
	}
}

func (b *balanceSet) get(account domain.Account) uint64 {
	if v, ok := b.pending[account]; ok {
		return v
	}
	return b.ledger.balances[account]
}

func (b *balanceSet) set(account domain.Account, value uint64) {
	if _, ok := b.pending[account]; !ok {
		b.touched = append(b.touched, account)
	}
	b.pending[account] = value
}

func (b *balanceSet) credit(account domain.Account, amount uint64) error {
	next, err := addChecked(b.get(account), amount)
	if err != nil {
		return err
	}
	b.set(account, next)
	return nil
}

func (b *balanceSet) debit(account domain.Account, amount uint64) error {
	current := b.get(account)
	if current < amount {
		return domain.ErrInsufficientBalance
	}
	b.set(account, current-amount)
	return nil
}

func (b *balanceSet) move(from, to domain.Account, amount uint64) error {
	if err := b.debit(from, amount); err != nil {
		return err
	}
	return b.credit(to, amount)
}

// apply commits the staged balances to ledger state
func (b *balanceSet) apply() {
	for account, value := range b.pending {
		b.ledger.balances[account] = value
	}
}
