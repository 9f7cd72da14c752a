package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrick/brick-ledger/internal/domain"
)

func TestIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("admin issues up to the cap", func(t *testing.T) {
		l, _ := newTestLedger(t, func(c *Config) { c.SupplyCap = 1_000 })

		require.NoError(t, l.Issue(ctx, admin, alice, 600))
		require.NoError(t, l.Issue(ctx, admin, bob, 400))
		assert.Equal(t, uint64(1_000), l.TotalIssued())

		err := l.Issue(ctx, admin, alice, 1)
		assert.ErrorIs(t, err, domain.ErrSupplyCapExceeded)
		assert.Equal(t, uint64(600), l.BalanceOf(alice))
	})

	t.Run("validation", func(t *testing.T) {
		l, _ := newTestLedger(t, nil)

		assert.ErrorIs(t, l.Issue(ctx, admin, alice, 0), domain.ErrZeroAmount)
		assert.ErrorIs(t, l.Issue(ctx, admin, domain.Account(domain.ZERO_ADDRESS), 10), domain.ErrInvalidAccount)
		assert.ErrorIs(t, l.Issue(ctx, "bogus", alice, 10), domain.ErrInvalidAccount)
	})

	t.Run("non-admin blocked when faucet disabled", func(t *testing.T) {
		l, _ := newTestLedger(t, nil)
		assert.ErrorIs(t, l.Issue(ctx, alice, alice, 100), domain.ErrFaucetDisabled)
	})
}

func TestFaucet(t *testing.T) {
	ctx := context.Background()
	enabled := func(c *Config) { c.FaucetEnabled = true }

	t.Run("self mint within limits", func(t *testing.T) {
		l, _ := newTestLedger(t, enabled)

		require.NoError(t, l.Issue(ctx, alice, alice, 10_000))
		assert.Equal(t, uint64(10_000), l.BalanceOf(alice))
	})

	t.Run("only to self and only up to the faucet amount", func(t *testing.T) {
		l, _ := newTestLedger(t, enabled)

		assert.ErrorIs(t, l.Issue(ctx, alice, bob, 100), domain.ErrUnauthorized)
		assert.ErrorIs(t, l.Issue(ctx, alice, alice, 10_001), domain.ErrUnauthorized)
	})

	t.Run("cooldown", func(t *testing.T) {
		l, clock := newTestLedger(t, enabled)

		require.NoError(t, l.Issue(ctx, alice, alice, 100))
		assert.ErrorIs(t, l.Issue(ctx, alice, alice, 100), domain.ErrFaucetCooldown)

		clock.advance(23 * time.Hour)
		assert.ErrorIs(t, l.Issue(ctx, alice, alice, 100), domain.ErrFaucetCooldown)

		clock.advance(time.Hour)
		assert.NoError(t, l.Issue(ctx, alice, alice, 100))

		// cooldown is per account
		assert.NoError(t, l.Issue(ctx, bob, bob, 100))
	})
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, nil)
	mint(t, l, alice, 1_000)

	t.Run("self burn", func(t *testing.T) {
		require.NoError(t, l.Destroy(ctx, alice, alice, 400))
		assert.Equal(t, uint64(600), l.BalanceOf(alice))
		assert.Equal(t, uint64(600), l.TotalIssued())
	})

	t.Run("admin burns from any account", func(t *testing.T) {
		require.NoError(t, l.Destroy(ctx, admin, alice, 100))
		assert.Equal(t, uint64(500), l.BalanceOf(alice))
	})

	t.Run("third party cannot burn others", func(t *testing.T) {
		assert.ErrorIs(t, l.Destroy(ctx, bob, alice, 1), domain.ErrUnauthorized)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		assert.ErrorIs(t, l.Destroy(ctx, alice, alice, 501), domain.ErrInsufficientBalance)
	})
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, nil)
	mint(t, l, alice, 1_000)

	require.NoError(t, l.Transfer(ctx, alice, bob, 250))
	assert.Equal(t, uint64(750), l.BalanceOf(alice))
	assert.Equal(t, uint64(250), l.BalanceOf(bob))

	assert.ErrorIs(t, l.Transfer(ctx, alice, bob, 751), domain.ErrInsufficientBalance)
	assert.ErrorIs(t, l.Transfer(ctx, alice, bob, 0), domain.ErrZeroAmount)
	assert.ErrorIs(t, l.Transfer(ctx, alice, domain.Account(domain.ZERO_ADDRESS), 1), domain.ErrInvalidAccount)
}

func TestApproveAndTransferFrom(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, nil)
	mint(t, l, alice, 1_000)

	require.NoError(t, l.Approve(ctx, alice, bob, 300))
	assert.Equal(t, uint64(300), l.AllowanceOf(alice, bob))

	// approve overwrites, it does not accumulate
	require.NoError(t, l.Approve(ctx, alice, bob, 200))
	assert.Equal(t, uint64(200), l.AllowanceOf(alice, bob))

	require.NoError(t, l.TransferFrom(ctx, bob, alice, carol, 150))
	assert.Equal(t, uint64(850), l.BalanceOf(alice))
	assert.Equal(t, uint64(150), l.BalanceOf(carol))
	assert.Equal(t, uint64(50), l.AllowanceOf(alice, bob))

	assert.ErrorIs(t, l.TransferFrom(ctx, bob, alice, carol, 51), domain.ErrInsufficientAllowance)

	// allowance ahead of balance still fails on balance
	require.NoError(t, l.Approve(ctx, alice, bob, 10_000))
	assert.ErrorIs(t, l.TransferFrom(ctx, bob, alice, carol, 851), domain.ErrInsufficientBalance)
	// the failed attempt must not consume allowance
	assert.Equal(t, uint64(10_000), l.AllowanceOf(alice, bob))

	// zero approve revokes
	require.NoError(t, l.Approve(ctx, alice, bob, 0))
	assert.ErrorIs(t, l.TransferFrom(ctx, bob, alice, carol, 1), domain.ErrInsufficientAllowance)
}

func TestPause(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, nil)
	mint(t, l, alice, 1_000)
	require.NoError(t, l.Approve(ctx, alice, bob, 500))

	assert.ErrorIs(t, l.Pause(ctx, alice), domain.ErrUnauthorized)

	require.NoError(t, l.Pause(ctx, admin))
	assert.True(t, l.Paused())

	// transfers are blocked
	assert.ErrorIs(t, l.Transfer(ctx, alice, bob, 1), domain.ErrLedgerPaused)
	assert.ErrorIs(t, l.TransferFrom(ctx, bob, alice, carol, 1), domain.ErrLedgerPaused)

	// issuance, burning and approvals are not
	assert.NoError(t, l.Issue(ctx, admin, bob, 10))
	assert.NoError(t, l.Destroy(ctx, bob, bob, 5))
	assert.NoError(t, l.Approve(ctx, alice, bob, 100))

	// pausing twice is a no-op
	assert.NoError(t, l.Pause(ctx, admin))

	require.NoError(t, l.Unpause(ctx, admin))
	assert.False(t, l.Paused())
	assert.NoError(t, l.Transfer(ctx, alice, bob, 1))
}
