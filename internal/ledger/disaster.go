package ledger

import (
	"context"
	"time"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
)

// ReportDisaster files an incident report against a property. Restricted
// to the admin and the configured reporter allow-list.
func (l *Ledger) ReportDisaster(ctx context.Context, reporter domain.Account, propertyID uint64, disasterType domain.DisasterType, description string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !reporter.Valid() {
		return 0, domain.ErrInvalidAccount
	}
	if !l.isAdmin(reporter) && !l.reporters[reporter] {
		return 0, domain.ErrUnauthorized
	}
	if !domain.IsValidDisasterType(disasterType) {
		return 0, domain.ErrInvalidDisasterType
	}
	if _, err := l.property(propertyID); err != nil {
		return 0, err
	}

	now := l.now()
	report := &domain.DisasterReport{
		ID:          uint64(len(l.reports)),
		PropertyID:  propertyID,
		Type:        disasterType,
		Description: description,
		Reporter:    reporter,
		ReportedAt:  now,
	}

	event := domain.NewLedgerEvent(domain.EventDisasterReported, reporter, now)
	event.ReportID = domain.Uint64Ptr(report.ID)
	event.PropertyID = domain.Uint64Ptr(propertyID)

	if err := l.persist(ctx, store.OperationInput{
		Event:        event,
		ReportUpsert: reportRow(report),
	}); err != nil {
		return 0, err
	}

	l.reports = append(l.reports, report)
	l.emit(event)
	return report.ID, nil
}

// VerifyDisaster confirms a report. Admin only. Verifying an already
// verified report is a silent no-op.
func (l *Ledger) VerifyDisaster(ctx context.Context, caller domain.Account, reportID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return domain.ErrInvalidAccount
	}
	if !l.isAdmin(caller) {
		return domain.ErrUnauthorized
	}
	report, err := l.report(reportID)
	if err != nil {
		return err
	}
	if report.Verified {
		return nil
	}

	staged := *report
	staged.Verified = true

	event := domain.NewLedgerEvent(domain.EventDisasterVerified, caller, l.now())
	event.ReportID = domain.Uint64Ptr(reportID)
	event.PropertyID = domain.Uint64Ptr(report.PropertyID)

	if err := l.persist(ctx, store.OperationInput{
		Event:        event,
		ReportUpsert: reportRow(&staged),
	}); err != nil {
		return err
	}

	*report = staged
	l.emit(event)
	return nil
}

// SubmitClaim files an insurance claim against a verified disaster report
// on the same property. The claim starts Pending.
func (l *Ledger) SubmitClaim(ctx context.Context, claimant domain.Account, propertyID, reportID, claimAmount uint64, evidence string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !claimant.Valid() {
		return 0, domain.ErrInvalidAccount
	}
	if claimAmount == 0 {
		return 0, domain.ErrZeroAmount
	}
	if _, err := l.property(propertyID); err != nil {
		return 0, err
	}
	report, err := l.report(reportID)
	if err != nil {
		return 0, err
	}
	if !report.Verified {
		return 0, domain.ErrReportNotVerified
	}
	if report.PropertyID != propertyID {
		return 0, domain.ErrReportPropertyMismatch
	}

	now := l.now()
	claim := &domain.InsuranceClaim{
		ID:          uint64(len(l.claims)),
		PropertyID:  propertyID,
		ReportID:    reportID,
		Claimant:    claimant,
		ClaimAmount: claimAmount,
		Evidence:    evidence,
		Status:      domain.ClaimPending,
		SubmittedAt: now,
	}

	event := domain.NewLedgerEvent(domain.EventClaimSubmitted, claimant, now)
	event.ClaimID = domain.Uint64Ptr(claim.ID)
	event.ReportID = domain.Uint64Ptr(reportID)
	event.PropertyID = domain.Uint64Ptr(propertyID)
	event.Amount = domain.Uint64Ptr(claimAmount)

	if err := l.persist(ctx, store.OperationInput{
		Event:       event,
		ClaimUpsert: claimRow(claim),
	}); err != nil {
		return 0, err
	}

	l.claims = append(l.claims, claim)
	l.emit(event)
	return claim.ID, nil
}

// ProcessClaim decides a pending claim. Admin only. An approval with a
// positive payout pays the claimant from the insurance fund in the same
// operation and collapses the status straight to Paid; an approval with a
// zero payout stays Approved and a rejection records Rejected.
func (l *Ledger) ProcessClaim(ctx context.Context, caller domain.Account, claimID uint64, newStatus domain.ClaimStatus, approvedAmount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return domain.ErrInvalidAccount
	}
	if !l.isAdmin(caller) {
		return domain.ErrUnauthorized
	}
	if newStatus != domain.ClaimApproved && newStatus != domain.ClaimRejected {
		return domain.ErrInvalidClaimStatus
	}
	claim, err := l.claim(claimID)
	if err != nil {
		return err
	}
	if claim.Status != domain.ClaimPending {
		return domain.ErrClaimNotPending
	}

	now := l.now()
	staged := *claim
	staged.Status = newStatus
	staged.ProcessedAt = timePtr(now)

	balances := l.newBalanceSet()
	payout := newStatus == domain.ClaimApproved && approvedAmount > 0
	if payout {
		if l.paused {
			return domain.ErrLedgerPaused
		}
		if l.balances[domain.INSURANCE_FUND_ACCOUNT] < approvedAmount {
			return domain.ErrInsufficientFund
		}
		if err := balances.move(domain.INSURANCE_FUND_ACCOUNT, claim.Claimant, approvedAmount); err != nil {
			return err
		}
		staged.ApprovedAmount = approvedAmount
		staged.Status = domain.ClaimPaid
	}

	event := domain.NewLedgerEvent(domain.EventClaimProcessed, caller, now)
	event.ClaimID = domain.Uint64Ptr(claimID)
	event.PropertyID = domain.Uint64Ptr(claim.PropertyID)
	event.Counterparty = domain.AccountPtr(claim.Claimant)
	event.Amount = domain.Uint64Ptr(staged.ApprovedAmount)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		AccountUpserts: balances.rows(),
		ClaimUpsert:    claimRow(&staged),
	}); err != nil {
		return err
	}

	balances.apply()
	*claim = staged
	l.emit(event)
	return nil
}

// DepositInsurance moves tokens from the caller into the shared insurance
// fund. Anyone may deposit. Blocked while the ledger is paused.
func (l *Ledger) DepositInsurance(ctx context.Context, caller domain.Account, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return domain.ErrInvalidAccount
	}
	if amount == 0 {
		return domain.ErrZeroAmount
	}
	if l.paused {
		return domain.ErrLedgerPaused
	}

	balances := l.newBalanceSet()
	if err := balances.move(caller, domain.INSURANCE_FUND_ACCOUNT, amount); err != nil {
		return err
	}

	event := domain.NewLedgerEvent(domain.EventFundDeposited, caller, l.now())
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

// report returns the live report record for an id
func (l *Ledger) report(reportID uint64) (*domain.DisasterReport, error) {
	if reportID >= uint64(len(l.reports)) {
		return nil, domain.ErrReportNotFound
	}
	return l.reports[reportID], nil
}

// claim returns the live claim record for an id
func (l *Ledger) claim(claimID uint64) (*domain.InsuranceClaim, error) {
	if claimID >= uint64(len(l.claims)) {
		return nil, domain.ErrClaimNotFound
	}
	return l.claims[claimID], nil
}

func timePtr(t time.Time) *time.Time { return &t }
