package domain

import "github.com/shopspring/decimal"

// Account is the mutable per-client ledger state. Total is derived from
// available and held and never stored.
type Account struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount creates an account with zero balances.
func NewAccount(client ClientID) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns available + held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits available funds.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}

	a.Available = a.Available.Add(amount)

	return nil
}

// Withdraw debits available funds.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	if amount.GreaterThan(a.Available) {
		return ErrInsufficientFunds
	}

	a.Available = a.Available.Sub(amount)

	return nil
}

// Hold moves amount from available to held for an opened dispute. Available
// may go negative when the disputed funds were already withdrawn.
func (a *Account) Hold(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)

	return nil
}

// Release moves amount from held back to available for a resolved dispute.
func (a *Account) Release(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Available = a.Available.Add(amount)
	a.Held = a.Held.Sub(amount)

	return nil
}

// Chargeback removes amount from held and freezes the account permanently.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Held = a.Held.Sub(amount)
	a.Locked = true

	return nil
}

// Snapshot returns an immutable copy of the account state.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		Client:    a.Client,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}

// AccountSnapshot is the read-only view of an account produced at the end
// of a replay.
type AccountSnapshot struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}
