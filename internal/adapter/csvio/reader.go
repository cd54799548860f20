package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/txreplay/internal/domain"
)

// Reader decodes transaction records from CSV input with a
// type,client,tx,amount header. Field whitespace is trimmed, the kind is
// case-insensitive, and amounts are rounded to 4 fractional digits.
//
// Rows that cannot be decoded yield an error wrapping
// domain.ErrMalformedRecord; the reader stays usable afterwards so the run
// can skip and continue.
type Reader struct {
	csv  *csv.Reader
	cols map[string]int
	line int
}

// NewReader reads the header row and prepares a streaming record reader.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			// Empty input: a valid stream of zero records.
			return &Reader{csv: cr, cols: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("header is missing %q column", required)
		}
	}

	return &Reader{csv: cr, cols: cols, line: 1}, nil
}

// Next returns the next record, io.EOF at end of input, or a malformed-row
// error for rows that cannot be decoded.
func (r *Reader) Next() (domain.Record, error) {
	if len(r.cols) == 0 {
		return domain.Record{}, io.EOF
	}

	row, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return domain.Record{}, io.EOF
		}
		r.line++
		return domain.Record{}, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedRecord, r.line, err)
	}
	r.line++

	return r.decode(row)
}

func (r *Reader) decode(row []string) (domain.Record, error) {
	kind, err := domain.ParseKind(r.field(row, "type"))
	if err != nil {
		return domain.Record{}, r.malformed(err)
	}

	client, err := strconv.ParseUint(r.field(row, "client"), 10, 16)
	if err != nil {
		return domain.Record{}, r.malformed(fmt.Errorf("client: %v", err))
	}

	tx, err := strconv.ParseUint(r.field(row, "tx"), 10, 32)
	if err != nil {
		return domain.Record{}, r.malformed(fmt.Errorf("tx: %v", err))
	}

	rec := domain.Record{
		Kind:   kind,
		Client: domain.ClientID(client),
		Tx:     domain.TxID(tx),
	}

	if kind == domain.KindDeposit || kind == domain.KindWithdrawal {
		raw := r.field(row, "amount")
		if raw == "" {
			return domain.Record{}, r.malformed(domain.ErrMissingAmount)
		}

		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.Record{}, r.malformed(fmt.Errorf("amount: %v", err))
		}

		rec.Amount = amount.Round(4)
	}

	return rec, nil
}

func (r *Reader) field(row []string, name string) string {
	idx, ok := r.cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func (r *Reader) malformed(err error) error {
	return fmt.Errorf("%w: line %d: %v", domain.ErrMalformedRecord, r.line, err)
}
