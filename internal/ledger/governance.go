package ledger

import (
	"context"
	"strings"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
)

// CreateProposal opens a proposal with a fixed voting window starting now.
// The proposer's live balance must meet the creation threshold.
func (l *Ledger) CreateProposal(ctx context.Context, proposer domain.Account, title, description string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !proposer.Valid() {
		return 0, domain.ErrInvalidAccount
	}
	if strings.TrimSpace(title) == "" {
		return 0, domain.ErrEmptyTitle
	}
	if l.balances[proposer] < l.cfg.ProposalThreshold {
		return 0, domain.ErrBelowProposalThreshold
	}

	now := l.now()
	proposal := &domain.Proposal{
		ID:          uint64(len(l.proposals)),
		Title:       title,
		Description: description,
		Proposer:    proposer,
		StartTime:   now,
		EndTime:     now.Add(l.cfg.VotingPeriod),
	}

	event := domain.NewLedgerEvent(domain.EventProposalCreated, proposer, now)
	event.ProposalID = domain.Uint64Ptr(proposal.ID)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		ProposalUpsert: proposalRow(proposal),
	}); err != nil {
		return 0, err
	}

	l.proposals = append(l.proposals, proposal)
	l.emit(event)
	return proposal.ID, nil
}

// CastVote records a vote with power equal to the voter's live balance at
// cast time. This is deliberately not a snapshot at proposal creation, so
// tokens acquired mid-window count; the tradeoff is recorded with the
// proposal design. One vote per account per proposal.
func (l *Ledger) CastVote(ctx context.Context, voter domain.Account, proposalID uint64, support bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !voter.Valid() {
		return domain.ErrInvalidAccount
	}
	proposal, err := l.proposal(proposalID)
	if err != nil {
		return err
	}
	now := l.now()
	if !proposal.VotingOpen(now) {
		return domain.ErrVotingClosed
	}
	key := voteKey{proposalID: proposalID, voter: voter}
	if _, voted := l.votes[key]; voted {
		return domain.ErrAlreadyVoted
	}
	power := l.balances[voter]
	if power < l.cfg.VotingThreshold {
		return domain.ErrBelowVotingThreshold
	}

	vote := &domain.Vote{
		ProposalID: proposalID,
		Voter:      voter,
		Support:    support,
		Power:      power,
		CastAt:     now,
	}

	staged := *proposal
	if support {
		staged.VotesFor, err = addChecked(staged.VotesFor, power)
	} else {
		staged.VotesAgainst, err = addChecked(staged.VotesAgainst, power)
	}
	if err != nil {
		return err
	}

	event := domain.NewLedgerEvent(domain.EventVoteCast, voter, now)
	event.ProposalID = domain.Uint64Ptr(proposalID)
	event.Amount = domain.Uint64Ptr(power)
	event.Support = domain.BoolPtr(support)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		ProposalUpsert: proposalRow(&staged),
		VoteCreate:     voteRow(vote),
	}); err != nil {
		return err
	}

	*proposal = staged
	l.votes[key] = vote
	l.emit(event)
	return nil
}

// ExecuteProposal records the outcome of a closed proposal. Anyone may
// execute. Quorum is computed against the live total supply: the proposal
// passes when participating power meets quorum and support strictly
// outweighs opposition. The ledger records the outcome only; if an
// execution hook is attached it is invoked for passed proposals.
func (l *Ledger) ExecuteProposal(ctx context.Context, caller domain.Account, proposalID uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !caller.Valid() {
		return false, domain.ErrInvalidAccount
	}
	proposal, err := l.proposal(proposalID)
	if err != nil {
		return false, err
	}
	now := l.now()
	if now.Before(proposal.EndTime) {
		return false, domain.ErrVotingOpen
	}
	if proposal.Executed {
		return false, domain.ErrAlreadyExecuted
	}

	scaled, err := mulChecked(l.totalIssued, l.cfg.QuorumBps)
	if err != nil {
		return false, err
	}
	quorum := scaled / domain.BPS_DENOMINATOR
	participating, err := addChecked(proposal.VotesFor, proposal.VotesAgainst)
	if err != nil {
		return false, err
	}

	staged := *proposal
	staged.Executed = true
	staged.Passed = participating >= quorum && proposal.VotesFor > proposal.VotesAgainst

	event := domain.NewLedgerEvent(domain.EventProposalExecuted, caller, now)
	event.ProposalID = domain.Uint64Ptr(proposalID)
	event.Passed = domain.BoolPtr(staged.Passed)

	if err := l.persist(ctx, store.OperationInput{
		Event:          event,
		ProposalUpsert: proposalRow(&staged),
	}); err != nil {
		return false, err
	}

	*proposal = staged
	l.emit(event)
	if staged.Passed && l.execHook != nil {
		l.execHook(staged)
	}
	return staged.Passed, nil
}

// proposal returns the live proposal record for an id
func (l *Ledger) proposal(proposalID uint64) (*domain.Proposal, error) {
	if proposalID >= uint64(len(l.proposals)) {
		return nil, domain.ErrProposalNotFound
	}
	return l.proposals[proposalID], nil
}
