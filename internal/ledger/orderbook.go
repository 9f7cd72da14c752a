package ledger

import (
	"context"
	"time"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

// CreateSellOrder lists shares for resale. Shares are not escrowed: the
// seller's holding is only checked against this order's count here, and
// checked again at every fulfilment. Returns the new order id.
func (l *Ledger) CreateSellOrder(ctx context.Context, seller domain.Account, propertyID, shareCount, pricePerShare, durationDays uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !seller.Valid() {
		return 0, domain.ErrInvalidAccount
	}
	if shareCount == 0 || pricePerShare == 0 {
		return 0, domain.ErrZeroAmount
	}
	if durationDays < 1 || durationDays > l.cfg.MaxOrderDays {
		return 0, domain.ErrInvalidOrderDuration
	}
	if _, err := l.property(propertyID); err != nil {
		return 0, err
	}

	holding := l.holdings[holdingKey{propertyID: propertyID, investor: seller}]
	if holding == nil || holding.Shares < shareCount {
		return 0, domain.ErrInsufficientShares
	}

	totalPrice, err := mulChecked(shareCount, pricePerShare)
	if err != nil {
		return 0, err
	}

	now := l.now()
	order := &domain.SellOrder{
		ID:            l.nextOrderID,
		PropertyID:    propertyID,
		Seller:        seller,
		SharesOffered: shareCount,
		PricePerShare: pricePerShare,
		TotalPrice:    totalPrice,
		Active:        true,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(durationDays) * 24 * time.Hour),
	}

	event := domain.NewLedgerEvent(domain.EventOrderCreated, seller, now)
	event.OrderID = domain.Uint64Ptr(order.ID)
	event.PropertyID = domain.Uint64Ptr(propertyID)
	event.Shares = domain.Uint64Ptr(shareCount)
	event.Amount = domain.Uint64Ptr(totalPrice)

	if err := l.persist(ctx, store.OperationInput{
		Event:       event,
		OrderUpsert: orderRow(order),
	}); err != nil {
		return 0, err
	}

	l.orders[order.ID] = order
	l.orderIDs = append(l.orderIDs, order.ID)
	l.nextOrderID++
	l.emit(event)
	return order.ID, nil
}

// FulfilOrder buys shares from an open sell order, partially or in full.
// The seller's current holding is re-checked here: orders do not escrow
// shares, so a seller who over-committed across orders or divested since
// creation fails at this point, not silently double-sells.
func (l *Ledger) FulfilOrder(ctx context.Context, buyer domain.Account, orderID, shareCount uint64) error {
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
	order, ok := l.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	now := l.now()
	if !order.Active {
		return domain.ErrOrderInactive
	}
	if order.Expired(now) {
		return domain.ErrOrderExpired
	}
	if buyer == order.Seller {
		return domain.ErrSelfTrade
	}
	if shareCount > order.SharesOffered {
		return domain.ErrSharesUnavailable
	}

	sellerKey := holdingKey{propertyID: order.PropertyID, investor: order.Seller}
	sellerHolding := l.holdings[sellerKey]
	if sellerHolding == nil || sellerHolding.Shares < shareCount {
		return domain.ErrInsufficientShares
	}

	cost, err := mulChecked(shareCount, order.PricePerShare)
	if err != nil {
		return err
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
		if err := balances.move(domain.REGISTRY_ACCOUNT, order.Seller, net); err != nil {
			return err
		}
	}

	stagedSeller := *sellerHolding
	stagedSeller.Shares -= shareCount

	buyerKey := holdingKey{propertyID: order.PropertyID, investor: buyer}
	buyerHolding, held := l.holdings[buyerKey]
	stagedBuyer := domain.Holding{PropertyID: order.PropertyID, Investor: buyer}
	if held {
		stagedBuyer = *buyerHolding
	}
	stagedBuyer.Shares, err = addChecked(stagedBuyer.Shares, shareCount)
	if err != nil {
		return err
	}
	stagedBuyer.AmountPaid, err = addChecked(stagedBuyer.AmountPaid, cost)
	if err != nil {
		return err
	}
	stagedBuyer.LastAcquiredAt = now

	stagedOrder := *order
	stagedOrder.SharesOffered -= shareCount
	if stagedOrder.SharesOffered == 0 {
		stagedOrder.Active = false
	}

	event := domain.NewLedgerEvent(domain.EventOrderFulfilled, buyer, now)
	event.OrderID = domain.Uint64Ptr(orderID)
	event.PropertyID = domain.Uint64Ptr(order.PropertyID)
	event.Counterparty = domain.AccountPtr(order.Seller)
	event.Shares = domain.Uint64Ptr(shareCount)
	event.Amount = domain.Uint64Ptr(cost)
	event.Fee = domain.Uint64Ptr(fee)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		AccountUpserts: balances.rows(),
		HoldingUpserts: []schema.Holding{holdingRow(&stagedSeller), holdingRow(&stagedBuyer)},
		OrderUpsert:    orderRow(&stagedOrder),
	}); err != nil {
		return err
	}

	balances.apply()
	*sellerHolding = stagedSeller
	if held {
		*buyerHolding = stagedBuyer
	} else {
		holding := stagedBuyer
		l.holdings[buyerKey] = &holding
		l.propertyInvestors[order.PropertyID] = append(l.propertyInvestors[order.PropertyID], buyer)
		l.investorProperties[buyer] = append(l.investorProperties[buyer], order.PropertyID)
	}
	*order = stagedOrder
	l.emit(event)
	return nil
}

// CancelOrder deactivates an open order. Only the seller or the admin may
// cancel; cancelling an already inactive order fails.
func (l *Ledger) CancelOrder(ctx context.Context, caller domain.Account, orderID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return domain.ErrInvalidAccount
	}
	order, ok := l.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if caller != order.Seller && !l.isAdmin(caller) {
		return domain.ErrUnauthorized
	}
	if !order.Active {
		return domain.ErrOrderInactive
	}

	stagedOrder := *order
	stagedOrder.Active = false

	event := domain.NewLedgerEvent(domain.EventOrderCancelled, caller, l.now())
	event.OrderID = domain.Uint64Ptr(orderID)
	event.PropertyID = domain.Uint64Ptr(order.PropertyID)

	if err := l.persist(ctx, store.OperationInput{
		Event:       event,
		OrderUpsert: orderRow(&stagedOrder),
	}); err != nil {
		return err
	}

	*order = stagedOrder
	l.emit(event)
	return nil
}
