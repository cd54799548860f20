package engine

import (
	"github.com/shopspring/decimal"

	"github.com/iho/txreplay/internal/domain"
)

// Ledger owns every account created during a replay. Accounts are created
// lazily on first reference and never deleted. The ledger is exclusively
// owned by the single processing loop and is not safe for concurrent use.
type Ledger struct {
	accounts map[domain.ClientID]*domain.Account

	// rejectOverdrawnDispute makes ApplyHold fail instead of driving the
	// available balance negative when disputed funds were already withdrawn.
	rejectOverdrawnDispute bool
}

// NewLedger creates an empty ledger.
func NewLedger(rejectOverdrawnDispute bool) *Ledger {
	return &Ledger{
		accounts:               make(map[domain.ClientID]*domain.Account),
		rejectOverdrawnDispute: rejectOverdrawnDispute,
	}
}

// GetOrCreate returns the account for client, creating it with zero
// balances if absent.
func (l *Ledger) GetOrCreate(client domain.ClientID) *domain.Account {
	if acc, ok := l.accounts[client]; ok {
		return acc
	}

	acc := domain.NewAccount(client)
	l.accounts[client] = acc

	return acc
}

// ApplyDeposit credits available funds on the client's account.
func (l *Ledger) ApplyDeposit(client domain.ClientID, amount decimal.Decimal) error {
	return l.GetOrCreate(client).Deposit(amount)
}

// ApplyWithdrawal debits available funds on the client's account.
func (l *Ledger) ApplyWithdrawal(client domain.ClientID, amount decimal.Decimal) error {
	return l.GetOrCreate(client).Withdraw(amount)
}

// ApplyHold moves amount from available to held for an opened dispute.
func (l *Ledger) ApplyHold(client domain.ClientID, amount decimal.Decimal) error {
	acc := l.GetOrCreate(client)

	if l.rejectOverdrawnDispute && !acc.Locked && amount.GreaterThan(acc.Available) {
		return domain.ErrOverdrawnDispute
	}

	return acc.Hold(amount)
}

// ApplyRelease moves amount from held back to available for a resolved
// dispute.
func (l *Ledger) ApplyRelease(client domain.ClientID, amount decimal.Decimal) error {
	return l.GetOrCreate(client).Release(amount)
}

// ApplyChargeback removes amount from held and locks the account.
func (l *Ledger) ApplyChargeback(client domain.ClientID, amount decimal.Decimal) error {
	return l.GetOrCreate(client).Chargeback(amount)
}

// Account returns a snapshot of a single account if it exists.
func (l *Ledger) Account(client domain.ClientID) (domain.AccountSnapshot, bool) {
	acc, ok := l.accounts[client]
	if !ok {
		return domain.AccountSnapshot{}, false
	}

	return acc.Snapshot(), true
}

// Snapshot returns one snapshot per known account in one pass. Order is
// not significant.
func (l *Ledger) Snapshot() []domain.AccountSnapshot {
	snaps := make([]domain.AccountSnapshot, 0, len(l.accounts))
	for _, acc := range l.accounts {
		snaps = append(snaps, acc.Snapshot())
	}

	return snaps
}

// Len returns the number of known accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}
