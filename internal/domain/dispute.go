package domain

import "github.com/shopspring/decimal"

// DisputeStatus is the lifecycle state of a disputable deposit.
type DisputeStatus string

const (
	DisputeStatusNormal      DisputeStatus = "normal"
	DisputeStatusDisputed    DisputeStatus = "disputed"
	DisputeStatusChargedBack DisputeStatus = "charged_back"
)

// DisputeEntry tracks a deposit's dispute lifecycle. Entries are created
// for every applied deposit and retained after a chargeback so repeated
// chargebacks can be told apart from unknown transactions.
type DisputeEntry struct {
	Tx     TxID
	Client ClientID
	Amount decimal.Decimal
	Status DisputeStatus
}
