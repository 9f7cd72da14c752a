package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

var (
	admin        = domain.NormalizeAccount("0x00000000000000000000000000000000000a11ce")
	feeRecipient = domain.NormalizeAccount("0x00000000000000000000000000000000000000fe")
	alice        = domain.NormalizeAccount("0x0000000000000000000000000000000000000aaa")
	bob          = domain.NormalizeAccount("0x0000000000000000000000000000000000000bbb")
	carol        = domain.NormalizeAccount("0x0000000000000000000000000000000000000ccc")
	dave         = domain.NormalizeAccount("0x0000000000000000000000000000000000000ddd")
	oracle       = domain.NormalizeAccount("0x0000000000000000000000000000000000000eee")
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time                  { return c.now }
func (c *fakeClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }
func (c *fakeClock) advance(d time.Duration)         { c.now = c.now.Add(d) }

func testConfig() Config {
	return Config{
		Admin:             admin,
		FeeRecipient:      feeRecipient,
		SupplyCap:         1_000_000_000,
		FeeBps:            250,
		MinInvestment:     100,
		MaxOrderDays:      90,
		VotingPeriod:      7 * 24 * time.Hour,
		ProposalThreshold: 1000,
		VotingThreshold:   1,
		QuorumBps:         1000,
		FaucetAmount:      10_000,
		FaucetCooldown:    24 * time.Hour,
		DisasterReporters: []domain.Account{oracle},
	}
}

func newTestLedger(t *testing.T, mutate func(*Config), opts ...Option) (*Ledger, *fakeClock) {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l, err := New(cfg, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	return l, clock
}

func mint(t *testing.T, l *Ledger, to domain.Account, amount uint64) {
	t.Helper()
	require.NoError(t, l.Issue(context.Background(), admin, to, amount))
}

// listVerified lists a property as alice and verifies it as admin
func listVerified(t *testing.T, l *Ledger, valuation, shares uint64) uint64 {
	t.Helper()
	ctx := context.Background()
	id, err := l.ListProperty(ctx, alice, "ipfs://QmTest", valuation, shares, domain.PropertyResidential, domain.RiskLow)
	require.NoError(t, err)
	require.NoError(t, l.VerifyProperty(ctx, admin, id))
	return id
}

// sumBalances is the conservation check: every balance in the system,
// reserved accounts included
func sumBalances(l *Ledger) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var sum uint64
	for _, b := range l.balances {
		sum += b
	}
	return sum
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: nil, wantErr: false},
		{name: "missing admin", mutate: func(c *Config) { c.Admin = "" }, wantErr: true},
		{name: "zero address admin", mutate: func(c *Config) { c.Admin = domain.Account(domain.ZERO_ADDRESS) }, wantErr: true},
		{name: "bad fee recipient", mutate: func(c *Config) { c.FeeRecipient = "not-an-address" }, wantErr: true},
		{name: "zero supply cap", mutate: func(c *Config) { c.SupplyCap = 0 }, wantErr: true},
		{name: "fee above cap", mutate: func(c *Config) { c.FeeBps = MaxFeeBps + 1 }, wantErr: true},
		{name: "fee at cap", mutate: func(c *Config) { c.FeeBps = MaxFeeBps }, wantErr: false},
		{name: "zero order days", mutate: func(c *Config) { c.MaxOrderDays = 0 }, wantErr: true},
		{name: "zero voting period", mutate: func(c *Config) { c.VotingPeriod = 0 }, wantErr: true},
		{name: "quorum above denominator", mutate: func(c *Config) { c.QuorumBps = domain.BPS_DENOMINATOR + 1 }, wantErr: true},
		{name: "bad reporter", mutate: func(c *Config) { c.DisasterReporters = []domain.Account{"0x123"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			_, err := New(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestConservation drives one of everything through the engine and checks
// that the sum of all balances always equals issued minus destroyed
func TestConservation(t *testing.T) {
	l, clock := newTestLedger(t, nil)
	ctx := context.Background()

	check := func() {
		t.Helper()
		assert.Equal(t, l.TotalIssued(), sumBalances(l))
	}

	mint(t, l, alice, 500_000)
	mint(t, l, bob, 400_000)
	mint(t, l, carol, 100_000)
	check()

	require.NoError(t, l.Transfer(ctx, alice, bob, 12_345))
	check()

	require.NoError(t, l.Destroy(ctx, bob, bob, 45))
	check()

	propertyID := listVerified(t, l, 100_000, 1_000)
	require.NoError(t, l.PurchaseShares(ctx, bob, propertyID, 200))
	check()

	orderID, err := l.CreateSellOrder(ctx, bob, propertyID, 50, 120, 30)
	require.NoError(t, err)
	require.NoError(t, l.FulfilOrder(ctx, carol, orderID, 50))
	check()

	require.NoError(t, l.Transfer(ctx, alice, domain.REGISTRY_ACCOUNT, 1_000))
	require.NoError(t, l.DistributeIncome(ctx, admin, propertyID, 1_000))
	check()

	require.NoError(t, l.DepositInsurance(ctx, alice, 2_000))
	check()

	reportID, err := l.ReportDisaster(ctx, oracle, propertyID, domain.DisasterFlood, "basement flooded")
	require.NoError(t, err)
	require.NoError(t, l.VerifyDisaster(ctx, admin, reportID))
	claimID, err := l.SubmitClaim(ctx, bob, propertyID, reportID, 500, "ipfs://QmEvidence")
	require.NoError(t, err)
	require.NoError(t, l.ProcessClaim(ctx, admin, claimID, domain.ClaimApproved, 500))
	check()

	clock.advance(8 * 24 * time.Hour)
	check()
}

// failingStore aborts every write, for atomicity tests
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (f *failingStore) ApplyOperation(ctx context.Context, input store.OperationInput) error {
	return errStoreDown
}
func (f *failingStore) LoadState(ctx context.Context) (*store.StateSnapshot, error) {
	return nil, errStoreDown
}
func (f *failingStore) GetChanges(ctx context.Context, filter store.ChangesFilter) ([]schema.LedgerJournal, error) {
	return nil, errStoreDown
}
func (f *failingStore) CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error {
	return errStoreDown
}
func (f *failingStore) ListActiveWebhookClients(ctx context.Context) ([]schema.WebhookClient, error) {
	return nil, errStoreDown
}
func (f *failingStore) DeactivateWebhookClient(ctx context.Context, id string) error {
	return errStoreDown
}

// TestPersistFailureLeavesStateUntouched checks that a store failure
// aborts the operation with no visible mutation
func TestPersistFailureLeavesStateUntouched(t *testing.T) {
	l, _ := newTestLedger(t, nil)
	ctx := context.Background()
	mint(t, l, alice, 10_000)

	l.store = &failingStore{}

	err := l.Transfer(ctx, alice, bob, 1_000)
	require.ErrorIs(t, err, errStoreDown)

	assert.Equal(t, uint64(10_000), l.BalanceOf(alice))
	assert.Equal(t, uint64(0), l.BalanceOf(bob))

	err = l.Issue(ctx, admin, bob, 5_000)
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, uint64(10_000), l.TotalIssued())
}

func TestRestoreRoundTrip(t *testing.T) {
	source, clock := newTestLedger(t, nil)
	ctx := context.Background()

	mint(t, source, alice, 300_000)
	mint(t, source, bob, 200_000)
	require.NoError(t, source.Approve(ctx, alice, bob, 9_999))
	propertyID := listVerified(t, source, 100_000, 1_000)
	require.NoError(t, source.PurchaseShares(ctx, bob, propertyID, 300))
	orderID, err := source.CreateSellOrder(ctx, bob, propertyID, 100, 150, 10)
	require.NoError(t, err)
	proposalID, err := source.CreateProposal(ctx, alice, "Reduce fees", "Lower the protocol fee to 1%")
	require.NoError(t, err)
	require.NoError(t, source.CastVote(ctx, bob, proposalID, true))
	reportID, err := source.ReportDisaster(ctx, oracle, propertyID, domain.DisasterFire, "kitchen fire")
	require.NoError(t, err)
	require.NoError(t, source.VerifyDisaster(ctx, admin, reportID))
	claimID, err := source.SubmitClaim(ctx, bob, propertyID, reportID, 750, "")
	require.NoError(t, err)
	require.NoError(t, source.Pause(ctx, admin))

	// Build the snapshot by hand from the source engine, the way LoadState
	// would after every row upsert
	snapshot := &store.StateSnapshot{
		Paused:      source.Paused(),
		TotalIssued: source.TotalIssued(),
	}
	for _, account := range []domain.Account{alice, bob, feeRecipient, domain.REGISTRY_ACCOUNT} {
		snapshot.Accounts = append(snapshot.Accounts, schema.Account{
			Address: string(account),
			Balance: source.BalanceOf(account),
		})
	}
	snapshot.Allowances = append(snapshot.Allowances, schema.Allowance{
		Owner: string(alice), Spender: string(bob), Amount: 9_999,
	})
	for _, p := range source.Properties() {
		property := p
		snapshot.Properties = append(snapshot.Properties, *propertyRow(&property))
	}
	for _, h := range source.InvestorsOf(propertyID) {
		holding := h
		snapshot.Holdings = append(snapshot.Holdings, holdingRow(&holding))
	}
	for _, o := range source.Orders(false) {
		order := o
		snapshot.Orders = append(snapshot.Orders, *orderRow(&order))
	}
	for _, p := range source.Proposals() {
		proposal := p
		snapshot.Proposals = append(snapshot.Proposals, *proposalRow(&proposal))
	}
	vote, ok := source.VoteOf(proposalID, bob)
	require.True(t, ok)
	snapshot.Votes = append(snapshot.Votes, *voteRow(&vote))
	for _, r := range source.Reports() {
		report := r
		snapshot.Reports = append(snapshot.Reports, *reportRow(&report))
	}
	for _, c := range source.Claims() {
		claim := c
		snapshot.Claims = append(snapshot.Claims, *claimRow(&claim))
	}

	restored, err := New(testConfig(), WithClock(clock))
	require.NoError(t, err)
	require.NoError(t, restored.Restore(snapshot))

	assert.Equal(t, source.BalanceOf(alice), restored.BalanceOf(alice))
	assert.Equal(t, source.BalanceOf(bob), restored.BalanceOf(bob))
	assert.Equal(t, uint64(9_999), restored.AllowanceOf(alice, bob))
	assert.Equal(t, source.TotalIssued(), restored.TotalIssued())
	assert.True(t, restored.Paused())

	sourceProperty, err := source.GetProperty(propertyID)
	require.NoError(t, err)
	restoredProperty, err := restored.GetProperty(propertyID)
	require.NoError(t, err)
	assert.Equal(t, sourceProperty, restoredProperty)

	sourceOrder, err := source.GetOrder(orderID)
	require.NoError(t, err)
	restoredOrder, err := restored.GetOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, sourceOrder, restoredOrder)

	restoredVote, ok := restored.VoteOf(proposalID, bob)
	require.True(t, ok)
	assert.Equal(t, vote, restoredVote)

	restoredClaim, err := restored.GetClaim(claimID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimPending, restoredClaim.Status)

	// New orders after restore continue the id sequence
	nextID, err := restored.CreateSellOrder(ctx, bob, propertyID, 10, 100, 5)
	require.NoError(t, err)
	assert.Equal(t, orderID+1, nextID)
}

func TestRestoreRejectsNonDenseIDs(t *testing.T) {
	l, _ := newTestLedger(t, nil)
	err := l.Restore(&store.StateSnapshot{
		Properties: []schema.Property{{ID: 3}},
	})
	assert.Error(t, err)
}
