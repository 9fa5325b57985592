package ledger

import (
	"sort"
	"time"
)

// Replay reconstructs quantities by folding movement records. It is a pure
// function of its input so the same record set always yields the same result.

// SortForReplay orders records by movement date, then registration instant.
// The sort is stable so records sharing both keys keep insertion order.
func SortForReplay(records []MovementRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].MovementDate.Equal(records[j].MovementDate) {
			return records[i].MovementDate.Before(records[j].MovementDate)
		}
		return records[i].RegisteredAt.Before(records[j].RegisteredAt)
	})
}

// Fold applies the sign rule over already-ordered records from a zero balance.
// The result may be negative: forced reductions legitimately drive the balance
// below zero and the fold reflects that history rather than clamping it.
func Fold(records []MovementRecord) int64 {
	var balance int64
	for _, r := range records {
		balance += r.Kind.Delta(r.Quantity)
	}
	return balance
}

// FoldAt reconstructs the balance as of refDate: records with a movement date
// strictly after refDate are discarded, the rest are replayed in order.
// Filtering is by business date only; the registration instant never decides
// inclusion.
func FoldAt(records []MovementRecord, refDate time.Time) int64 {
	cutoff := Day(refDate)
	kept := make([]MovementRecord, 0, len(records))
	for _, r := range records {
		if Day(r.MovementDate).After(cutoff) {
			continue
		}
		kept = append(kept, r)
	}
	SortForReplay(kept)
	return Fold(kept)
}
