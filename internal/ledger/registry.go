package ledger

import (
	"context"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

// ListProperty creates a new property record. Anyone may list; the record
// starts inactive and unverified and cannot sell shares until the admin
// verifies it.
func (l *Ledger) ListProperty(ctx context.Context, caller domain.Account, metadataPointer string, totalValuation, totalShares uint64, propertyType domain.PropertyType, risk domain.RiskLevel) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return 0, domain.ErrInvalidAccount
	}
	if totalValuation == 0 || totalShares == 0 {
		return 0, domain.ErrZeroAmount
	}
	if !domain.IsValidPropertyType(propertyType) {
		return 0, domain.ErrInvalidPropertyType
	}
	if !domain.IsValidRiskLevel(risk) {
		return 0, domain.ErrInvalidRiskLevel
	}

	// Floor division: totalShares * sharePrice may undershoot the valuation
	property := &domain.Property{
		ID:              uint64(len(l.properties)),
		MetadataPointer: metadataPointer,
		TotalValuation:  totalValuation,
		TotalShares:     totalShares,
		AvailableShares: totalShares,
		SharePrice:      totalValuation / totalShares,
		Owner:           caller,
		Active:          false,
		Verified:        false,
		Type:            propertyType,
		Risk:            risk,
		CreatedAt:       l.now(),
	}

	event := domain.NewLedgerEvent(domain.EventPropertyListed, caller, property.CreatedAt)
	event.PropertyID = domain.Uint64Ptr(property.ID)
	event.Shares = domain.Uint64Ptr(totalShares)
	event.Amount = domain.Uint64Ptr(totalValuation)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		PropertyUpsert: propertyRow(property),
	}); err != nil {
		return 0, err
	}

	l.properties = append(l.properties, property)
	l.emit(event)
	return property.ID, nil
}

// VerifyProperty activates a listed property. Admin only, irreversible.
// Verifying an already verified property is a silent no-op.
func (l *Ledger) VerifyProperty(ctx context.Context, caller domain.Account, propertyID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return domain.ErrInvalidAccount
	}
	if !l.isAdmin(caller) {
		return domain.ErrUnauthorized
	}
	property, err := l.property(propertyID)
	if err != nil {
		return err
	}
	if property.Verified && property.Active {
		return nil
	}

	staged := *property
	staged.Active = true
	staged.Verified = true

	event := domain.NewLedgerEvent(domain.EventPropertyVerified, caller, l.now())
	event.PropertyID = domain.Uint64Ptr(propertyID)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		PropertyUpsert: propertyRow(&staged),
	}); err != nil {
		return err
	}

	*property = staged
	l.emit(event)
	return nil
}

// PurchaseShares buys shares of an active property at the listed share
// price. The cost passes through the registry account and is split between
// the protocol fee recipient and the property owner in the same operation;
// funds never rest in the registry.
func (l *Ledger) PurchaseShares(ctx context.Context, buyer domain.Account, propertyID, shareCount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !buyer.Valid() {
		return domain.ErrInvalidAccount
	}
	if shareCount == 0 {
		return domain.ErrZeroAmount
	}
	if l.paused {
		return domain.ErrLedgerPaused
	}
	property, err := l.property(propertyID)
	if err != nil {
		return err
	}
	if !property.Active || !property.Verified {
		return domain.ErrPropertyInactive
	}
	if shareCount > property.AvailableShares {
		return domain.ErrSharesUnavailable
	}

	cost, err := mulChecked(shareCount, property.SharePrice)
	if err != nil {
		return err
	}
	if cost < l.cfg.MinInvestment {
		return domain.ErrBelowMinimumInvestment
	}
	fee, net, err := l.feeSplit(cost)
	if err != nil {
		return err
	}

	balances := l.newBalanceSet()
	if err := balances.move(buyer, domain.REGISTRY_ACCOUNT, cost); err != nil {
		return err
	}
	if fee > 0 {
		if err := balances.move(domain.REGISTRY_ACCOUNT, l.cfg.FeeRecipient, fee); err != nil {
			return err
		}
	}
	if net > 0 {
		if err := balances.move(domain.REGISTRY_ACCOUNT, property.Owner, net); err != nil {
			return err
		}
	}

	now := l.now()
	key := holdingKey{propertyID: propertyID, investor: buyer}
	existing, held := l.holdings[key]

	staged := domain.Holding{PropertyID: propertyID, Investor: buyer}
	if held {
		staged = *existing
	}
	staged.Shares, err = addChecked(staged.Shares, shareCount)
	if err != nil {
		return err
	}
	staged.AmountPaid, err = addChecked(staged.AmountPaid, cost)
	if err != nil {
		return err
	}
	staged.LastAcquiredAt = now

	stagedProperty := *property
	stagedProperty.AvailableShares -= shareCount

	event := domain.NewLedgerEvent(domain.EventSharesPurchased, buyer, now)
	event.PropertyID = domain.Uint64Ptr(propertyID)
	event.Counterparty = domain.AccountPtr(property.Owner)
	event.Shares = domain.Uint64Ptr(shareCount)
	event.Amount = domain.Uint64Ptr(cost)
	event.Fee = domain.Uint64Ptr(fee)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		AccountUpserts: balances.rows(),
		PropertyUpsert: propertyRow(&stagedProperty),
		HoldingUpserts: []schema.Holding{holdingRow(&staged)},
	}); err != nil {
		return err
	}

	balances.apply()
	*property = stagedProperty
	if held {
		*existing = staged
	} else {
		holding := staged
		l.holdings[key] = &holding
		l.propertyInvestors[propertyID] = append(l.propertyInvestors[propertyID], buyer)
		l.investorProperties[buyer] = append(l.investorProperties[buyer], propertyID)
	}
	l.emit(event)
	return nil
}

// DistributeIncome pays rental income pro rata over a property's currently
// sold shares, from the registry account's balance. Admin only. The floor
// division remainder stays in the registry.
func (l *Ledger) DistributeIncome(ctx context.Context, caller domain.Account, propertyID, totalIncome uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return domain.ErrInvalidAccount
	}
	if !l.isAdmin(caller) {
		return domain.ErrUnauthorized
	}
	if totalIncome == 0 {
		return domain.ErrZeroAmount
	}
	if l.paused {
		return domain.ErrLedgerPaused
	}
	property, err := l.property(propertyID)
	if err != nil {
		return err
	}
	sold := property.SoldShares()
	if sold == 0 {
		return domain.ErrNoSoldShares
	}
	if l.balances[domain.REGISTRY_ACCOUNT] < totalIncome {
		return domain.ErrInsufficientBalance
	}

	balances := l.newBalanceSet()
	for _, investor := range l.propertyInvestors[propertyID] {
		holding := l.holdings[holdingKey{propertyID: propertyID, investor: investor}]
		if holding == nil || holding.Shares == 0 {
			continue
		}
		scaled, err := mulChecked(totalIncome, holding.Shares)
		if err != nil {
			return err
		}
		payout := scaled / sold
		if payout == 0 {
			continue
		}
		if err := balances.move(domain.REGISTRY_ACCOUNT, investor, payout); err != nil {
			return err
		}
	}

	event := domain.NewLedgerEvent(domain.EventIncomeDistributed, caller, l.now())
	event.PropertyID = domain.Uint64Ptr(propertyID)
	event.Amount = domain.Uint64Ptr(totalIncome)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		AccountUpserts: balances.rows(),
	}); err != nil {
		return err
	}

	balances.apply()
	l.emit(event)
	return nil
}

// property returns the live property record for an id
func (l *Ledger) property(propertyID uint64) (*domain.Property, error) {
	if propertyID >= uint64(len(l.properties)) {
		return nil, domain.ErrPropertyNotFound
	}
	return l.properties[propertyID], nil
}
