package ledger

import (
	"github.com/openbrick/brick-ledger/internal/domain"
)

// Read accessors. All return copies of the live records; callers never see
// in-progress mutations because every accessor takes the engine lock.

// BalanceOf returns an account's fungible balance
func (l *Ledger) BalanceOf(account domain.Account) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

// AllowanceOf returns the remaining amount a spender may move from an owner
func (l *Ledger) AllowanceOf(owner, spender domain.Account) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[allowanceKey{owner: owner, spender: spender}]
}

// TotalIssued returns the current total supply
func (l *Ledger) TotalIssued() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalIssued
}

// SupplyCap returns the configured maximum total supply
func (l *Ledger) SupplyCap() uint64 {
	return l.cfg.SupplyCap
}

// Paused reports whether transfers are currently blocked
func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paused
}

// InsuranceFund returns the shared insurance fund balance
func (l *Ledger) InsuranceFund() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[domain.INSURANCE_FUND_ACCOUNT]
}

// GetProperty returns the property with the given id
func (l *Ledger) GetProperty(propertyID uint64) (domain.Property, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, err := l.property(propertyID)
	if err != nil {
		return domain.Property{}, err
	}
	return *p, nil
}

// Properties returns all listed properties in id order
func (l *Ledger) Properties() []domain.Property {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Property, 0, len(l.properties))
	for _, p := range l.properties {
		out = append(out, *p)
	}
	return out
}

// HoldingOf returns an investor's position in a property, if one was ever
// opened. Fully divested positions are returned with zero shares.
func (l *Ledger) HoldingOf(propertyID uint64, investor domain.Account) (domain.Holding, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.holdings[holdingKey{propertyID: propertyID, investor: investor}]
	if !ok {
		return domain.Holding{}, false
	}
	return *h, true
}

// InvestorsOf returns every holding ever opened against a property, in
// first-acquisition order. Zero-share holdings are included.
func (l *Ledger) InvestorsOf(propertyID uint64) []domain.Holding {
	l.mu.RLock()
	defer l.mu.RUnlock()
	investors := l.propertyInvestors[propertyID]
	out := make([]domain.Holding, 0, len(investors))
	for _, investor := range investors {
		if h, ok := l.holdings[holdingKey{propertyID: propertyID, investor: investor}]; ok {
			out = append(out, *h)
		}
	}
	return out
}

// PortfolioOf returns every holding an account ever opened, in
// first-acquisition order
func (l *Ledger) PortfolioOf(investor domain.Account) []domain.Holding {
	l.mu.RLock()
	defer l.mu.RUnlock()
	propertyIDs := l.investorProperties[investor]
	out := make([]domain.Holding, 0, len(propertyIDs))
	for _, propertyID := range propertyIDs {
		if h, ok := l.holdings[holdingKey{propertyID: propertyID, investor: investor}]; ok {
			out = append(out, *h)
		}
	}
	return out
}

// GetOrder returns the sell order with the given id
func (l *Ledger) GetOrder(orderID uint64) (domain.SellOrder, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	o, ok := l.orders[orderID]
	if !ok {
		return domain.SellOrder{}, domain.ErrOrderNotFound
	}
	return *o, nil
}

// Orders returns sell orders in creation order. With openOnly set, orders
// that are inactive or past expiry are filtered out.
func (l *Ledger) Orders(openOnly bool) []domain.SellOrder {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := l.now()
	out := make([]domain.SellOrder, 0, len(l.orderIDs))
	for _, id := range l.orderIDs {
		o := l.orders[id]
		if openOnly && !o.Open(now) {
			continue
		}
		out = append(out, *o)
	}
	return out
}

// OrdersForProperty returns sell orders for one property in creation order
func (l *Ledger) OrdersForProperty(propertyID uint64, openOnly bool) []domain.SellOrder {
	l.mu.RLock()
	defer l.mu.RUnlock()
	now := l.now()
	var out []domain.SellOrder
	for _, id := range l.orderIDs {
		o := l.orders[id]
		if o.PropertyID != propertyID {
			continue
		}
		if openOnly && !o.Open(now) {
			continue
		}
		out = append(out, *o)
	}
	return out
}

// GetProposal returns the proposal with the given id
func (l *Ledger) GetProposal(proposalID uint64) (domain.Proposal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, err := l.proposal(proposalID)
	if err != nil {
		return domain.Proposal{}, err
	}
	return *p, nil
}

// Proposals returns all proposals in id order
func (l *Ledger) Proposals() []domain.Proposal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Proposal, 0, len(l.proposals))
	for _, p := range l.proposals {
		out = append(out, *p)
	}
	return out
}

// VoteOf returns an account's vote on a proposal, if cast
func (l *Ledger) VoteOf(proposalID uint64, voter domain.Account) (domain.Vote, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.votes[voteKey{proposalID: proposalID, voter: voter}]
	if !ok {
		return domain.Vote{}, false
	}
	return *v, true
}

// GetReport returns the disaster report with the given id
func (l *Ledger) GetReport(reportID uint64) (domain.DisasterReport, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, err := l.report(reportID)
	if err != nil {
		return domain.DisasterReport{}, err
	}
	return *r, nil
}

// Reports returns all disaster reports in id order
func (l *Ledger) Reports() []domain.DisasterReport {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.DisasterReport, 0, len(l.reports))
	for _, r := range l.reports {
		out = append(out, *r)
	}
	return out
}

// GetClaim returns the insurance claim with the given id
func (l *Ledger) GetClaim(claimID uint64) (domain.InsuranceClaim, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, err := l.claim(claimID)
	if err != nil {
		return domain.InsuranceClaim{}, err
	}
	return *c, nil
}

// Claims returns all insurance claims in id order
func (l *Ledger) Claims() []domain.InsuranceClaim {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.InsuranceClaim, 0, len(l.claims))
	for _, c := range l.claims {
		out = append(out, *c)
	}
	return out
}
