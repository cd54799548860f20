package csvio

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/iho/txreplay/internal/domain"
)

// Write renders account snapshots as CSV with amounts fixed to 4
// fractional digits, sorted by client ascending for stable output.
func Write(w io.Writer, snaps []domain.AccountSnapshot) error {
	sorted := make([]domain.AccountSnapshot, len(snaps))
	copy(sorted, snaps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Client < sorted[j].Client })

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for _, s := range sorted {
		row := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			s.Available.StringFixed(4),
			s.Held.StringFixed(4),
			s.Total.StringFixed(4),
			strconv.FormatBool(s.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
