package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txreplay/internal/domain"
	"github.com/iho/txreplay/internal/infrastructure/metrics"
)

// RecordSource yields transaction records in input order. Next returns
// io.EOF when the stream is exhausted and an error wrapping
// domain.ErrMalformedRecord for rows that cannot be decoded; any other
// error is fatal to the run.
type RecordSource interface {
	Next() (domain.Record, error)
}

// Stats summarizes one replay.
type Stats struct {
	Processed uint64 `json:"processed"`
	Applied   uint64 `json:"applied"`
	Rejected  uint64 `json:"rejected"`
	Malformed uint64 `json:"malformed"`
}

// Engine applies transaction records one at a time to the ledger and the
// dispute registry. Every rejection is local to its record; the engine
// never stops on one.
type Engine struct {
	ledger   *Ledger
	registry *Registry
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	stats    Stats
}

// Config holds engine construction options.
type Config struct {
	// RejectOverdrawnDispute rejects disputes whose hold would drive the
	// available balance negative.
	RejectOverdrawnDispute bool
	Logger                 zerolog.Logger
	Metrics                *metrics.Metrics
}

// New creates an engine with a fresh ledger and registry.
func New(cfg Config) *Engine {
	return &Engine{
		ledger:   NewLedger(cfg.RejectOverdrawnDispute),
		registry: NewRegistry(),
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Apply applies a single record. A non-nil return means the record was
// rejected and left all state unchanged; it is a per-record signal, not a
// reason to stop the run.
func (e *Engine) Apply(rec domain.Record) error {
	e.stats.Processed++
	known := e.ledger.Len()

	err := e.apply(rec)
	if err != nil {
		e.stats.Rejected++
		e.logger.Debug().
			Str("kind", string(rec.Kind)).
			Uint16("client", uint16(rec.Client)).
			Uint32("tx", uint32(rec.Tx)).
			Str("reason", rejectReason(err)).
			Msg("record rejected")
	} else {
		e.stats.Applied++
	}

	if e.metrics != nil {
		e.metrics.RecordsProcessed.WithLabelValues(string(rec.Kind)).Inc()
		if err != nil {
			e.metrics.RecordsRejected.WithLabelValues(string(rec.Kind), rejectReason(err)).Inc()
		}
		if e.ledger.Len() > known {
			e.metrics.AccountsCreated.Inc()
		}
	}

	return err
}

func (e *Engine) apply(rec domain.Record) error {
	switch rec.Kind {
	case domain.KindDeposit:
		return e.applyDeposit(rec)
	case domain.KindWithdrawal:
		return e.applyWithdrawal(rec)
	case domain.KindDispute:
		return e.applyDispute(rec)
	case domain.KindResolve:
		return e.applyResolve(rec)
	case domain.KindChargeback:
		return e.applyChargeback(rec)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, rec.Kind)
	}
}

func (e *Engine) applyDeposit(rec domain.Record) error {
	if err := e.registry.RecordDeposit(rec.Tx, rec.Client, rec.Amount); err != nil {
		return err
	}

	if err := e.ledger.ApplyDeposit(rec.Client, rec.Amount); err != nil {
		e.registry.remove(rec.Tx)
		return err
	}

	return nil
}

func (e *Engine) applyWithdrawal(rec domain.Record) error {
	if err := e.registry.RecordWithdrawal(rec.Tx); err != nil {
		return err
	}

	if err := e.ledger.ApplyWithdrawal(rec.Client, rec.Amount); err != nil {
		e.registry.removeWithdrawal(rec.Tx)
		return err
	}

	return nil
}

func (e *Engine) applyDispute(rec domain.Record) error {
	amount, err := e.registry.BeginDispute(rec.Tx, rec.Client)
	if err != nil {
		return err
	}

	if err := e.ledger.ApplyHold(rec.Client, amount); err != nil {
		e.registry.restore(rec.Tx, domain.DisputeStatusNormal)
		return err
	}

	if e.metrics != nil {
		e.metrics.DisputesOpened.Inc()
	}

	return nil
}

func (e *Engine) applyResolve(rec domain.Record) error {
	amount, err := e.registry.Resolve(rec.Tx, rec.Client)
	if err != nil {
		return err
	}

	if err := e.ledger.ApplyRelease(rec.Client, amount); err != nil {
		e.registry.restore(rec.Tx, domain.DisputeStatusDisputed)
		return err
	}

	if e.metrics != nil {
		e.metrics.DisputesResolved.Inc()
	}

	return nil
}

func (e *Engine) applyChargeback(rec domain.Record) error {
	amount, err := e.registry.Chargeback(rec.Tx, rec.Client)
	if err != nil {
		return err
	}

	if err := e.ledger.ApplyChargeback(rec.Client, amount); err != nil {
		e.registry.restore(rec.Tx, domain.DisputeStatusDisputed)
		return err
	}

	if e.metrics != nil {
		e.metrics.DisputesChargedBack.Inc()
		e.metrics.AccountsLocked.Inc()
	}

	return nil
}

// Run consumes the source until EOF. Malformed rows and rejected records
// are counted and skipped; only a source failure or context cancellation
// aborts the run.
func (e *Engine) Run(ctx context.Context, src RecordSource) (Stats, error) {
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return e.stats, err
		}

		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, domain.ErrMalformedRecord) {
				e.stats.Malformed++
				e.logger.Warn().Err(err).Msg("skipping malformed row")
				if e.metrics != nil {
					e.metrics.RowsMalformed.Inc()
				}
				continue
			}
			return e.stats, fmt.Errorf("reading record source: %w", err)
		}

		_ = e.Apply(rec)
	}

	if e.metrics != nil {
		e.metrics.ReplayDuration.Observe(time.Since(start).Seconds())
	}

	e.logger.Info().
		Uint64("processed", e.stats.Processed).
		Uint64("applied", e.stats.Applied).
		Uint64("rejected", e.stats.Rejected).
		Uint64("malformed", e.stats.Malformed).
		Int("accounts", e.ledger.Len()).
		Dur("duration", time.Since(start)).
		Msg("replay finished")

	return e.stats, nil
}

// Snapshot returns the final state of every known account. Order is not
// significant.
func (e *Engine) Snapshot() []domain.AccountSnapshot {
	return e.ledger.Snapshot()
}

// Account returns the snapshot of one account if it exists.
func (e *Engine) Account(client domain.ClientID) (domain.AccountSnapshot, bool) {
	return e.ledger.Account(client)
}

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

// rejectReason maps a rejection error to a stable label for logs and
// metrics.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, domain.ErrNonPositiveAmount):
		return "non_positive_amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrDuplicateTx):
		return "duplicate_tx"
	case errors.Is(err, domain.ErrUnknownTx):
		return "unknown_tx"
	case errors.Is(err, domain.ErrClientMismatch):
		return "client_mismatch"
	case errors.Is(err, domain.ErrAlreadyDisputed):
		return "already_disputed"
	case errors.Is(err, domain.ErrNotDisputed):
		return "not_disputed"
	case errors.Is(err, domain.ErrAlreadyChargedBack):
		return "already_charged_back"
	case errors.Is(err, domain.ErrOverdrawnDispute):
		return "overdrawn_dispute"
	default:
		return "other"
	}
}
