package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/txreplay/internal/domain"
)

func TestRegistry_RecordDeposit(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RecordDeposit(1, 1, decimal.NewFromInt(10)))

	assert.ErrorIs(t, r.RecordDeposit(1, 1, decimal.NewFromInt(5)), domain.ErrDuplicateTx)
	assert.ErrorIs(t, r.RecordDeposit(1, 2, decimal.NewFromInt(5)), domain.ErrDuplicateTx)
	assert.ErrorIs(t, r.RecordWithdrawal(1), domain.ErrDuplicateTx)
}

func TestRegistry_WithdrawalIDsAreUniqueButNotDisputable(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RecordWithdrawal(7))

	assert.ErrorIs(t, r.RecordWithdrawal(7), domain.ErrDuplicateTx)
	assert.ErrorIs(t, r.RecordDeposit(7, 1, decimal.NewFromInt(1)), domain.ErrDuplicateTx)

	_, err := r.BeginDispute(7, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownTx)
}

func TestRegistry_DisputeLifecycle(t *testing.T) {
	r := NewRegistry()
	amount := decimal.RequireFromString("12.5")
	require.NoError(t, r.RecordDeposit(1, 1, amount))

	// Resolve before dispute.
	_, err := r.Resolve(1, 1)
	assert.ErrorIs(t, err, domain.ErrNotDisputed)

	// Chargeback before dispute.
	_, err = r.Chargeback(1, 1)
	assert.ErrorIs(t, err, domain.ErrNotDisputed)

	got, err := r.BeginDispute(1, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(amount))

	// Second dispute while disputed.
	_, err = r.BeginDispute(1, 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyDisputed)

	got, err = r.Resolve(1, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(amount))

	// Re-dispute after resolve is allowed.
	_, err = r.BeginDispute(1, 1)
	require.NoError(t, err)

	got, err = r.Chargeback(1, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(amount))

	// Entry is closed permanently.
	_, err = r.BeginDispute(1, 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyChargedBack)
	_, err = r.Resolve(1, 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyChargedBack)
	_, err = r.Chargeback(1, 1)
	assert.ErrorIs(t, err, domain.ErrAlreadyChargedBack)
}

func TestRegistry_UnknownAndMismatchedClients(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RecordDeposit(1, 1, decimal.NewFromInt(10)))

	_, err := r.BeginDispute(99, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownTx)

	_, err = r.BeginDispute(1, 2)
	assert.ErrorIs(t, err, domain.ErrClientMismatch)

	_, err = r.Resolve(1, 2)
	assert.ErrorIs(t, err, domain.ErrClientMismatch)

	_, err = r.Chargeback(1, 2)
	assert.ErrorIs(t, err, domain.ErrClientMismatch)
}

func TestRegistry_Unwind(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RecordDeposit(1, 1, decimal.NewFromInt(10)))

	_, err := r.BeginDispute(1, 1)
	require.NoError(t, err)

	// Simulate the dispatcher unwinding a rejected ledger mutation.
	r.restore(1, domain.DisputeStatusNormal)

	_, err = r.BeginDispute(1, 1)
	assert.NoError(t, err, "restored entry should be disputable again")

	r.remove(2)
	require.NoError(t, r.RecordDeposit(2, 1, decimal.NewFromInt(5)))
	r.remove(2)
	require.NoError(t, r.RecordDeposit(2, 1, decimal.NewFromInt(5)), "removed tx id should be reusable")
}
