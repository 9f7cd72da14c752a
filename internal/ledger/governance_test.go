package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrick/brick-ledger/internal/domain"
)

func TestCreateProposal(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, nil)
	mint(t, l, alice, 5_000)
	mint(t, l, bob, 999)

	t.Run("threshold on live balance", func(t *testing.T) {
		id, err := l.CreateProposal(ctx, alice, "Lower fees", "Reduce the protocol fee")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), id)

		// bob is one token short of the 1000 threshold
		_, err = l.CreateProposal(ctx, bob, "More fees", "")
		assert.ErrorIs(t, err, domain.ErrBelowProposalThreshold)

		require.NoError(t, l.Transfer(ctx, alice, bob, 1))
		id, err = l.CreateProposal(ctx, bob, "More fees", "Raise the protocol fee")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
	})

	t.Run("window is fixed at creation", func(t *testing.T) {
		proposal, err := l.GetProposal(0)
		require.NoError(t, err)
		assert.Equal(t, proposal.StartTime.Add(7*24*time.Hour), proposal.EndTime)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := l.CreateProposal(ctx, alice, "   ", "no title")
		assert.ErrorIs(t, err, domain.ErrEmptyTitle)
		_, err = l.CreateProposal(ctx, "nope", "t", "d")
		assert.ErrorIs(t, err, domain.ErrInvalidAccount)
	})
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLedger(t, func(c *Config) { c.VotingThreshold = 100 })
	mint(t, l, alice, 5_000)
	mint(t, l, bob, 2_000)
	mint(t, l, carol, 99)

	proposalID, err := l.CreateProposal(ctx, alice, "Lower fees", "")
	require.NoError(t, err)

	t.Run("power is the live balance at cast time", func(t *testing.T) {
		require.NoError(t, l.CastVote(ctx, bob, proposalID, true))

		vote, ok := l.VoteOf(proposalID, bob)
		require.True(t, ok)
		assert.True(t, vote.Support)
		assert.Equal(t, uint64(2_000), vote.Power)

		// alice moves tokens mid-window; her later vote counts the
		// reduced balance
		require.NoError(t, l.Transfer(ctx, alice, dave, 4_000))
		require.NoError(t, l.CastVote(ctx, alice, proposalID, false))
		vote, ok = l.VoteOf(proposalID, alice)
		require.True(t, ok)
		assert.Equal(t, uint64(1_000), vote.Power)

		proposal, err := l.GetProposal(proposalID)
		require.NoError(t, err)
		assert.Equal(t, uint64(2_000), proposal.VotesFor)
		assert.Equal(t, uint64(1_000), proposal.VotesAgainst)
	})

	t.Run("one vote per account", func(t *testing.T) {
		assert.ErrorIs(t, l.CastVote(ctx, bob, proposalID, false), domain.ErrAlreadyVoted)
	})

	t.Run("voting threshold", func(t *testing.T) {
		assert.ErrorIs(t, l.CastVote(ctx, carol, proposalID, true), domain.ErrBelowVotingThreshold)
	})

	t.Run("window closes", func(t *testing.T) {
		clock.advance(7*24*time.Hour + time.Second)
		assert.ErrorIs(t, l.CastVote(ctx, dave, proposalID, true), domain.ErrVotingClosed)
	})

	t.Run("unknown proposal", func(t *testing.T) {
		assert.ErrorIs(t, l.CastVote(ctx, bob, 99, true), domain.ErrProposalNotFound)
	})
}

// TestExecuteProposalQuorum uses a 1,000,000 supply with 10% quorum:
// 80,000 participating power misses the 100,000 quorum, 110,000 meets it
func TestExecuteProposalQuorum(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, forPower, againstPower uint64) (*Ledger, *fakeClock, uint64) {
		t.Helper()
		l, clock := newTestLedger(t, func(c *Config) {
			c.ProposalThreshold = 0
			c.QuorumBps = 1_000
		})
		mint(t, l, alice, forPower)
		mint(t, l, bob, againstPower)
		mint(t, l, carol, 1_000_000-forPower-againstPower)

		proposalID, err := l.CreateProposal(ctx, alice, "Quorum check", "")
		require.NoError(t, err)
		require.NoError(t, l.CastVote(ctx, alice, proposalID, true))
		require.NoError(t, l.CastVote(ctx, bob, proposalID, false))
		clock.advance(7*24*time.Hour + time.Second)
		return l, clock, proposalID
	}

	t.Run("below quorum fails even with a majority", func(t *testing.T) {
		l, _, proposalID := setup(t, 60_000, 20_000)

		passed, err := l.ExecuteProposal(ctx, dave, proposalID)
		require.NoError(t, err)
		assert.False(t, passed)

		proposal, err := l.GetProposal(proposalID)
		require.NoError(t, err)
		assert.True(t, proposal.Executed)
		assert.False(t, proposal.Passed)
	})

	t.Run("meeting quorum with a majority passes", func(t *testing.T) {
		l, _, proposalID := setup(t, 90_000, 20_000)

		passed, err := l.ExecuteProposal(ctx, dave, proposalID)
		require.NoError(t, err)
		assert.True(t, passed)
	})

	t.Run("quorum met but support not ahead fails", func(t *testing.T) {
		l, _, proposalID := setup(t, 60_000, 60_000)

		passed, err := l.ExecuteProposal(ctx, dave, proposalID)
		require.NoError(t, err)
		assert.False(t, passed)
	})
}

func TestExecuteProposalLifecycle(t *testing.T) {
	ctx := context.Background()
	var executed []domain.Proposal
	l, clock := newTestLedger(t, func(c *Config) {
		c.ProposalThreshold = 0
		c.QuorumBps = 0
	}, WithExecutionHook(func(p domain.Proposal) {
		executed = append(executed, p)
	}))
	mint(t, l, alice, 10_000)

	proposalID, err := l.CreateProposal(ctx, alice, "Hook check", "")
	require.NoError(t, err)
	require.NoError(t, l.CastVote(ctx, alice, proposalID, true))

	// cannot execute while the window is open
	_, err = l.ExecuteProposal(ctx, alice, proposalID)
	assert.ErrorIs(t, err, domain.ErrVotingOpen)

	clock.advance(7*24*time.Hour + time.Second)
	passed, err := l.ExecuteProposal(ctx, bob, proposalID)
	require.NoError(t, err)
	assert.True(t, passed)

	// the hook fires once, with the recorded outcome
	require.Len(t, executed, 1)
	assert.Equal(t, proposalID, executed[0].ID)
	assert.True(t, executed[0].Passed)

	// execute is once only
	_, err = l.ExecuteProposal(ctx, bob, proposalID)
	assert.ErrorIs(t, err, domain.ErrAlreadyExecuted)
	assert.Len(t, executed, 1)
}
