package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account. Input guarantees the 16-bit range.
type ClientID uint16

// TxID identifies a deposit or withdrawal transaction. Globally unique
// across both kinds.
type TxID uint32

// Kind is the closed set of transaction record kinds.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind parses a record kind case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdrawal:
		return KindWithdrawal, nil
	case KindDispute:
		return KindDispute, nil
	case KindResolve:
		return KindResolve, nil
	case KindChargeback:
		return KindChargeback, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Record is one transaction record in input order.
//
// Amount is meaningful only for deposits and withdrawals; dispute, resolve
// and chargeback records reference a prior tx id and carry no amount (the
// zero value is ignored for them).
type Record struct {
	Kind   Kind
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}
