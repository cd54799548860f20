package engine

import (
	"github.com/shopspring/decimal"

	"github.com/iho/txreplay/internal/domain"
)

// Registry tracks the dispute lifecycle of every applied deposit and
// enforces tx-id uniqueness across all deposits and withdrawals. Only
// deposits are disputable; withdrawal ids are remembered solely so a later
// record cannot reuse them.
type Registry struct {
	entries     map[domain.TxID]*domain.DisputeEntry
	withdrawals map[domain.TxID]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:     make(map[domain.TxID]*domain.DisputeEntry),
		withdrawals: make(map[domain.TxID]struct{}),
	}
}

// RecordDeposit registers an applied deposit in Normal state.
func (r *Registry) RecordDeposit(tx domain.TxID, client domain.ClientID, amount decimal.Decimal) error {
	if r.seen(tx) {
		return domain.ErrDuplicateTx
	}

	r.entries[tx] = &domain.DisputeEntry{
		Tx:     tx,
		Client: client,
		Amount: amount,
		Status: domain.DisputeStatusNormal,
	}

	return nil
}

// RecordWithdrawal registers an applied withdrawal's tx id for uniqueness.
func (r *Registry) RecordWithdrawal(tx domain.TxID) error {
	if r.seen(tx) {
		return domain.ErrDuplicateTx
	}

	r.withdrawals[tx] = struct{}{}

	return nil
}

// BeginDispute transitions a deposit to Disputed and returns the amount the
// ledger must hold.
func (r *Registry) BeginDispute(tx domain.TxID, client domain.ClientID) (decimal.Decimal, error) {
	entry, err := r.lookup(tx, client)
	if err != nil {
		return decimal.Zero, err
	}

	switch entry.Status {
	case domain.DisputeStatusDisputed:
		return decimal.Zero, domain.ErrAlreadyDisputed
	case domain.DisputeStatusChargedBack:
		return decimal.Zero, domain.ErrAlreadyChargedBack
	}

	entry.Status = domain.DisputeStatusDisputed

	return entry.Amount, nil
}

// Resolve transitions a disputed deposit back to Normal and returns the
// amount the ledger must release.
func (r *Registry) Resolve(tx domain.TxID, client domain.ClientID) (decimal.Decimal, error) {
	entry, err := r.lookup(tx, client)
	if err != nil {
		return decimal.Zero, err
	}

	switch entry.Status {
	case domain.DisputeStatusNormal:
		return decimal.Zero, domain.ErrNotDisputed
	case domain.DisputeStatusChargedBack:
		return decimal.Zero, domain.ErrAlreadyChargedBack
	}

	entry.Status = domain.DisputeStatusNormal

	return entry.Amount, nil
}

// Chargeback permanently closes a disputed deposit and returns the amount
// the ledger must reverse. The entry is retained so a second chargeback is
// rejected with ErrAlreadyChargedBack rather than ErrUnknownTx.
func (r *Registry) Chargeback(tx domain.TxID, client domain.ClientID) (decimal.Decimal, error) {
	entry, err := r.lookup(tx, client)
	if err != nil {
		return decimal.Zero, err
	}

	switch entry.Status {
	case domain.DisputeStatusNormal:
		return decimal.Zero, domain.ErrNotDisputed
	case domain.DisputeStatusChargedBack:
		return decimal.Zero, domain.ErrAlreadyChargedBack
	}

	entry.Status = domain.DisputeStatusChargedBack

	return entry.Amount, nil
}

func (r *Registry) lookup(tx domain.TxID, client domain.ClientID) (*domain.DisputeEntry, error) {
	entry, ok := r.entries[tx]
	if !ok {
		return nil, domain.ErrUnknownTx
	}
	if entry.Client != client {
		return nil, domain.ErrClientMismatch
	}

	return entry, nil
}

func (r *Registry) seen(tx domain.TxID) bool {
	if _, ok := r.entries[tx]; ok {
		return true
	}
	_, ok := r.withdrawals[tx]

	return ok
}

// remove drops a deposit entry again. Used by the dispatcher to unwind a
// registration whose ledger mutation was rejected.
func (r *Registry) remove(tx domain.TxID) {
	delete(r.entries, tx)
}

// removeWithdrawal drops a withdrawal id again after a rejected mutation.
func (r *Registry) removeWithdrawal(tx domain.TxID) {
	delete(r.withdrawals, tx)
}

// restore resets an entry's status. Used by the dispatcher to unwind a
// dispute transition whose ledger mutation was rejected.
func (r *Registry) restore(tx domain.TxID, status domain.DisputeStatus) {
	if entry, ok := r.entries[tx]; ok {
		entry.Status = status
	}
}
