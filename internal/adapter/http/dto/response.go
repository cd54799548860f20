package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/txreplay/internal/domain"
	"github.com/iho/txreplay/internal/engine"
)

// AccountResponse represents an account snapshot in API responses.
type AccountResponse struct {
	Client    uint16          `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// AccountFromSnapshot converts a domain snapshot to a response.
func AccountFromSnapshot(s domain.AccountSnapshot) *AccountResponse {
	return &AccountResponse{
		Client:    uint16(s.Client),
		Available: s.Available,
		Held:      s.Held,
		Total:     s.Total,
		Locked:    s.Locked,
	}
}

// AccountsFromSnapshots converts domain snapshots to responses.
func AccountsFromSnapshots(snaps []domain.AccountSnapshot) []*AccountResponse {
	result := make([]*AccountResponse, len(snaps))
	for i, s := range snaps {
		result[i] = AccountFromSnapshot(s)
	}
	return result
}

// ListAccountsResponse wraps the account list.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// StatsResponse reports replay counters.
type StatsResponse struct {
	Processed uint64 `json:"processed"`
	Applied   uint64 `json:"applied"`
	Rejected  uint64 `json:"rejected"`
	Malformed uint64 `json:"malformed"`
}

// StatsFromEngine converts engine stats to a response.
func StatsFromEngine(s engine.Stats) *StatsResponse {
	return &StatsResponse{
		Processed: s.Processed,
		Applied:   s.Applied,
		Rejected:  s.Rejected,
		Malformed: s.Malformed,
	}
}

// ErrorResponse is the API error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
