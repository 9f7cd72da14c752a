package ledger

import (
	"fmt"
	"strconv"
	"time"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

// rows builds account upserts for every balance the operation touched,
// in touch order
func (b *balanceSet) rows() []schema.Account {
	rows := make([]schema.Account, 0, len(b.touched))
	for _, account := range b.touched {
		row := schema.Account{
			Address: string(account),
			Balance: b.pending[account],
		}
		if at, ok := b.ledger.lastFaucet[account]; ok {
			t := at
			row.LastFaucetAt = &t
		}
		rows = append(rows, row)
	}
	return rows
}

func allowanceRow(owner, spender domain.Account, amount uint64) schema.Allowance {
	return schema.Allowance{
		Owner:   string(owner),
		Spender: string(spender),
		Amount:  amount,
	}
}

func propertyRow(p *domain.Property) *schema.Property {
	return &schema.Property{
		ID:              p.ID,
		MetadataPointer: p.MetadataPointer,
		TotalValuation:  p.TotalValuation,
		TotalShares:     p.TotalShares,
		AvailableShares: p.AvailableShares,
		SharePrice:      p.SharePrice,
		Owner:           string(p.Owner),
		Active:          p.Active,
		Verified:        p.Verified,
		Type:            string(p.Type),
		Risk:            string(p.Risk),
		CreatedAt:       p.CreatedAt,
	}
}

func holdingRow(h *domain.Holding) schema.Holding {
	return schema.Holding{
		PropertyID:     h.PropertyID,
		Investor:       string(h.Investor),
		Shares:         h.Shares,
		AmountPaid:     h.AmountPaid,
		LastAcquiredAt: h.LastAcquiredAt,
	}
}

func orderRow(o *domain.SellOrder) *schema.SellOrder {
	return &schema.SellOrder{
		ID:            o.ID,
		PropertyID:    o.PropertyID,
		Seller:        string(o.Seller),
		SharesOffered: o.SharesOffered,
		PricePerShare: o.PricePerShare,
		TotalPrice:    o.TotalPrice,
		Active:        o.Active,
		CreatedAt:     o.CreatedAt,
		ExpiresAt:     o.ExpiresAt,
	}
}

func proposalRow(p *domain.Proposal) *schema.Proposal {
	return &schema.Proposal{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Proposer:     string(p.Proposer),
		VotesFor:     p.VotesFor,
		VotesAgainst: p.VotesAgainst,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
		Executed:     p.Executed,
		Passed:       p.Passed,
	}
}

func voteRow(v *domain.Vote) *schema.Vote {
	return &schema.Vote{
		ProposalID: v.ProposalID,
		Voter:      string(v.Voter),
		Support:    v.Support,
		Power:      v.Power,
		CastAt:     v.CastAt,
	}
}

func reportRow(r *domain.DisasterReport) *schema.DisasterReport {
	return &schema.DisasterReport{
		ID:          r.ID,
		PropertyID:  r.PropertyID,
		Type:        string(r.Type),
		Description: r.Description,
		Reporter:    string(r.Reporter),
		Verified:    r.Verified,
		ReportedAt:  r.ReportedAt,
	}
}

func claimRow(c *domain.InsuranceClaim) *schema.InsuranceClaim {
	return &schema.InsuranceClaim{
		ID:             c.ID,
		ReportID:       c.ReportID,
		PropertyID:     c.PropertyID,
		Claimant:       string(c.Claimant),
		ClaimAmount:    c.ClaimAmount,
		Evidence:       c.Evidence,
		Status:         string(c.Status),
		ApprovedAmount: c.ApprovedAmount,
		SubmittedAt:    c.SubmittedAt,
		ProcessedAt:    c.ProcessedAt,
	}
}

func kvBool(key string, value bool) schema.KeyValueStore {
	return schema.KeyValueStore{Key: key, Value: strconv.FormatBool(value)}
}

func kvUint64(key string, value uint64) schema.KeyValueStore {
	return schema.KeyValueStore{Key: key, Value: strconv.FormatUint(value, 10)}
}

// Restore loads a materialized snapshot into an empty engine. Called once
// at startup, before the engine serves any operation.
func (l *Ledger) Restore(snapshot *store.StateSnapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.balances) != 0 || len(l.properties) != 0 {
		return fmt.Errorf("cannot restore into a non-empty ledger")
	}

	for _, row := range snapshot.Accounts {
		account := domain.Account(row.Address)
		l.balances[account] = row.Balance
		if row.LastFaucetAt != nil {
			l.lastFaucet[account] = *row.LastFaucetAt
		}
	}

	for _, row := range snapshot.Allowances {
		key := allowanceKey{owner: domain.Account(row.Owner), spender: domain.Account(row.Spender)}
		l.allowances[key] = row.Amount
	}

	for i, row := range snapshot.Properties {
		if row.ID != uint64(i) {
			return fmt.Errorf("property ids are not dense: got %d at position %d", row.ID, i)
		}
		l.properties = append(l.properties, &domain.Property{
			ID:              row.ID,
			MetadataPointer: row.MetadataPointer,
			TotalValuation:  row.TotalValuation,
			TotalShares:     row.TotalShares,
			AvailableShares: row.AvailableShares,
			SharePrice:      row.SharePrice,
			Owner:           domain.Account(row.Owner),
			Active:          row.Active,
			Verified:        row.Verified,
			Type:            domain.PropertyType(row.Type),
			Risk:            domain.RiskLevel(row.Risk),
			CreatedAt:       row.CreatedAt,
		})
	}

	// Holding rows are never deleted, so the append-only investor and
	// property indexes are exactly the set of stored rows.
	for _, row := range snapshot.Holdings {
		investor := domain.Account(row.Investor)
		holding := &domain.Holding{
			PropertyID:     row.PropertyID,
			Investor:       investor,
			Shares:         row.Shares,
			AmountPaid:     row.AmountPaid,
			LastAcquiredAt: row.LastAcquiredAt,
		}
		l.holdings[holdingKey{propertyID: row.PropertyID, investor: investor}] = holding
		l.propertyInvestors[row.PropertyID] = append(l.propertyInvestors[row.PropertyID], investor)
		l.investorProperties[investor] = append(l.investorProperties[investor], row.PropertyID)
	}

	for _, row := range snapshot.Orders {
		order := &domain.SellOrder{
			ID:            row.ID,
			PropertyID:    row.PropertyID,
			Seller:        domain.Account(row.Seller),
			SharesOffered: row.SharesOffered,
			PricePerShare: row.PricePerShare,
			TotalPrice:    row.TotalPrice,
			Active:        row.Active,
			CreatedAt:     row.CreatedAt,
			ExpiresAt:     row.ExpiresAt,
		}
		l.orders[order.ID] = order
		l.orderIDs = append(l.orderIDs, order.ID)
		if order.ID >= l.nextOrderID {
			l.nextOrderID = order.ID + 1
		}
	}

	for i, row := range snapshot.Proposals {
		if row.ID != uint64(i) {
			return fmt.Errorf("proposal ids are not dense: got %d at position %d", row.ID, i)
		}
		l.proposals = append(l.proposals, &domain.Proposal{
			ID:           row.ID,
			Title:        row.Title,
			Description:  row.Description,
			Proposer:     domain.Account(row.Proposer),
			VotesFor:     row.VotesFor,
			VotesAgainst: row.VotesAgainst,
			StartTime:    row.StartTime,
			EndTime:      row.EndTime,
			Executed:     row.Executed,
			Passed:       row.Passed,
		})
	}

	for _, row := range snapshot.Votes {
		voter := domain.Account(row.Voter)
		l.votes[voteKey{proposalID: row.ProposalID, voter: voter}] = &domain.Vote{
			ProposalID: row.ProposalID,
			Voter:      voter,
			Support:    row.Support,
			Power:      row.Power,
			CastAt:     row.CastAt,
		}
	}

	for i, row := range snapshot.Reports {
		if row.ID != uint64(i) {
			return fmt.Errorf("report ids are not dense: got %d at position %d", row.ID, i)
		}
		l.reports = append(l.reports, &domain.DisasterReport{
			ID:          row.ID,
			PropertyID:  row.PropertyID,
			Type:        domain.DisasterType(row.Type),
			Description: row.Description,
			Reporter:    domain.Account(row.Reporter),
			Verified:    row.Verified,
			ReportedAt:  row.ReportedAt,
		})
	}

	for i, row := range snapshot.Claims {
		if row.ID != uint64(i) {
			return fmt.Errorf("claim ids are not dense: got %d at position %d", row.ID, i)
		}
		var processedAt *time.Time
		if row.ProcessedAt != nil {
			t := *row.ProcessedAt
			processedAt = &t
		}
		l.claims = append(l.claims, &domain.InsuranceClaim{
			ID:             row.ID,
			PropertyID:     row.PropertyID,
			ReportID:       row.ReportID,
			Claimant:       domain.Account(row.Claimant),
			ClaimAmount:    row.ClaimAmount,
			Evidence:       row.Evidence,
			Status:         domain.ClaimStatus(row.Status),
			ApprovedAmount: row.ApprovedAmount,
			SubmittedAt:    row.SubmittedAt,
			ProcessedAt:    processedAt,
		})
	}

	l.paused = snapshot.Paused
	l.totalIssued = snapshot.TotalIssued

	return nil
}
