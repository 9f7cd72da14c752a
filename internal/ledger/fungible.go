package ledger

import (
	"context"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

// Issue mints new tokens to an account. The admin may issue any amount up
// to the supply cap. Non-admin callers go through the self-service faucet,
// which must be enabled, issues only to the caller, and is bounded by the
// faucet amount and a per-account cooldown.
func (l *Ledger) Issue(ctx context.Context, caller, to domain.Account, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() || !to.Valid() {
		return domain.ErrInvalidAccount
	}
	if amount == 0 {
		return domain.ErrZeroAmount
	}

	now := l.now()
	faucet := !l.isAdmin(caller)
	if faucet {
		if !l.cfg.FaucetEnabled {
			return domain.ErrFaucetDisabled
		}
		if to != caller || amount > l.cfg.FaucetAmount {
			return domain.ErrUnauthorized
		}
		if last, ok := l.lastFaucet[caller]; ok && now.Sub(last) < l.cfg.FaucetCooldown {
			return domain.ErrFaucetCooldown
		}
	}

	issued, err := addChecked(l.totalIssued, amount)
	if err != nil {
		return err
	}
	if issued > l.cfg.SupplyCap {
		return domain.ErrSupplyCapExceeded
	}

	balances := l.newBalanceSet()
	if err := balances.credit(to, amount); err != nil {
		return err
	}

	event := domain.NewLedgerEvent(domain.EventTokenIssued, caller, now)
	event.Counterparty = domain.AccountPtr(to)
	event.Amount = domain.Uint64Ptr(amount)

	rows := balances.rows()
	if faucet {
		for i := range rows {
			if rows[i].Address == string(to) {
				at := now
				rows[i].LastFaucetAt = &at
			}
		}
	}

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		AccountUpserts: rows,
		KVUpserts:      []schema.KeyValueStore{kvUint64(schema.KeyTotalIssued, issued)},
	}); err != nil {
		return err
	}

	balances.apply()
	l.totalIssued = issued
	if faucet {
		l.lastFaucet[caller] = now
	}
	l.emit(event)
	return nil
}

// Destroy burns tokens from an account. Callers may burn their own
// balance; the admin may burn from any account.
func (l *Ledger) Destroy(ctx context.Context, caller, from domain.Account, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() || !from.Valid() {
		return domain.ErrInvalidAccount
	}
	if amount == 0 {
		return domain.ErrZeroAmount
	}
	if caller != from && !l.isAdmin(caller) {
		return domain.ErrUnauthorized
	}

	balances := l.newBalanceSet()
	if err := balances.debit(from, amount); err != nil {
		return err
	}

	event := domain.NewLedgerEvent(domain.EventTokenDestroyed, caller, l.now())
	event.Counterparty = domain.AccountPtr(from)
	event.Amount = domain.Uint64Ptr(amount)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		AccountUpserts: balances.rows(),
		KVUpserts:      []schema.KeyValueStore{kvUint64(schema.KeyTotalIssued, l.totalIssued-amount)},
	}); err != nil {
		return err
	}

	balances.apply()
	l.totalIssued -= amount
	l.emit(event)
	return nil
}

// Transfer moves tokens from the caller to another account. Blocked while
// the ledger is paused.
func (l *Ledger) Transfer(ctx context.Context, caller, to domain.Account, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() || !to.Valid() {
		return domain.ErrInvalidAccount
	}
	if amount == 0 {
		return domain.ErrZeroAmount
	}
	if l.paused {
		return domain.ErrLedgerPaused
	}

	balances := l.newBalanceSet()
	if err := balances.move(caller, to, amount); err != nil {
		return err
	}

	event := domain.NewLedgerEvent(domain.EventTokenTransferred, caller, l.now())
	event.Counterparty = domain.AccountPtr(to)
	event.Amount = domain.Uint64Ptr(amount)

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

// Approve overwrites the amount a spender may move from the caller's
// balance. A zero amount revokes the allowance.
func (l *Ledger) Approve(ctx context.Context, caller, spender domain.Account, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() || !spender.Valid() {
		return domain.ErrInvalidAccount
	}

	event := domain.NewLedgerEvent(domain.EventApprovalSet, caller, l.now())
	event.Counterparty = domain.AccountPtr(spender)
	event.Amount = domain.Uint64Ptr(amount)

	if err := l.persist(ctx, store.OperationInput{
		Event:            event,
		AllowanceUpserts: []schema.Allowance{allowanceRow(caller, spender, amount)},
	}); err != nil {
		return err
	}

	l.allowances[allowanceKey{owner: caller, spender: spender}] = amount
	l.emit(event)
	return nil
}

// TransferFrom moves tokens from an owner to a recipient on the strength
// of a prior approval, decrementing the caller's allowance. Blocked while
// the ledger is paused.
func (l *Ledger) TransferFrom(ctx context.Context, caller, from, to domain.Account, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() || !from.Valid() || !to.Valid() {
		return domain.ErrInvalidAccount
	}
	if amount == 0 {
		return domain.ErrZeroAmount
	}
	if l.paused {
		return domain.ErrLedgerPaused
	}

	key := allowanceKey{owner: from, spender: caller}
	allowance := l.allowances[key]
	if allowance < amount {
		return domain.ErrInsufficientAllowance
	}

	balances := l.newBalanceSet()
	if err := balances.move(from, to, amount); err != nil {
		return err
	}

	event := domain.NewLedgerEvent(domain.EventTokenTransferred, caller, l.now())
	event.Counterparty = domain.AccountPtr(to)
	event.Amount = domain.Uint64Ptr(amount)

	if err := l.persist(ctx, store.OperationInput{
		Event:            event,
		AccountUpserts:   balances.rows(),
		AllowanceUpserts: []schema.Allowance{allowanceRow(from, caller, allowance-amount)},
	}); err != nil {
		return err
	}

	balances.apply()
	l.allowances[key] = allowance - amount
	l.emit(event)
	return nil
}

// Pause blocks transfers until Unpause. Admin only. Issuance, burning and
// approvals stay available while paused.
func (l *Ledger) Pause(ctx context.Context, caller domain.Account) error {
	return l.setPaused(ctx, caller, true)
}

// Unpause lifts a pause. Admin only.
func (l *Ledger) Unpause(ctx context.Context, caller domain.Account) error {
	return l.setPaused(ctx, caller, false)
}

func (l *Ledger) setPaused(ctx context.Context, caller domain.Account, paused bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return domain.ErrInvalidAccount
	}
	if !l.isAdmin(caller) {
		return domain.ErrUnauthorized
	}
	if l.paused == paused {
		return nil
	}

	eventType := domain.EventLedgerPaused
	if !paused {
		eventType = domain.EventLedgerUnpaused
	}
	event := domain.NewLedgerEvent(eventType, caller, l.now())

	if err := l.persist(ctx, store.OperationInput{
		Event:     event,
		KVUpserts: []schema.KeyValueStore{kvBool(schema.KeyPaused, paused)},
	}); err != nil {
		return err
	}

	l.paused = paused
	l.emit(event)
	return nil
}
