package domain

import "errors"

var (
	// Record errors
	ErrMalformedRecord = errors.New("malformed record")
	ErrUnknownKind     = errors.New("unknown record kind")
	ErrMissingAmount   = errors.New("missing required amount")

	// Account errors
	ErrAccountLocked     = errors.New("account is locked")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient available funds")
	ErrAccountNotFound   = errors.New("account not found")

	// Dispute errors
	ErrDuplicateTx        = errors.New("transaction id already used")
	ErrUnknownTx          = errors.New("unknown transaction id")
	ErrClientMismatch     = errors.New("transaction belongs to a different client")
	ErrAlreadyDisputed    = errors.New("transaction is already disputed")
	ErrNotDisputed        = errors.New("transaction is not disputed")
	ErrAlreadyChargedBack = errors.New("transaction was already charged back")
	ErrOverdrawnDispute   = errors.New("disputed funds exceed available balance")
)
