package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tally/internal/core/id"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestKindDelta(t *testing.T) {
	assert.Equal(t, int64(10), KindEntry.Delta(10))
	assert.Equal(t, int64(10), KindAdjust.Delta(10))
	assert.Equal(t, int64(-10), KindExit.Delta(10))
	assert.Equal(t, int64(-10), KindSale.Delta(10))
	assert.Equal(t, int64(0), KindTransfer.Delta(10))
}

func TestParseKind(t *testing.T) {
	kind, ok := ParseKind("ENTRY")
	assert.True(t, ok)
	assert.Equal(t, KindEntry, kind)

	_, ok = ParseKind("entry")
	assert.False(t, ok)

	_, ok = ParseKind("BOGUS")
	assert.False(t, ok)
}

func TestFoldSignRules(t *testing.T) {
	records := []MovementRecord{
		{Kind: KindEntry, Quantity: 50},
		{Kind: KindExit, Quantity: 10},
		{Kind: KindSale, Quantity: 5},
		{Kind: KindAdjust, Quantity: 3},
		{Kind: KindTransfer, Quantity: 100},
	}
	assert.Equal(t, int64(38), Fold(records))
}

func TestFoldAllowsNegative(t *testing.T) {
	records := []MovementRecord{
		{Kind: KindEntry, Quantity: 2},
		{Kind: KindSale, Quantity: 5},
	}
	assert.Equal(t, int64(-3), Fold(records))
}

func TestSortForReplay(t *testing.T) {
	base := date(2026, 3, 10)
	a := MovementRecord{ID: id.New(), MovementDate: date(2026, 3, 12), RegisteredAt: base}
	b := MovementRecord{ID: id.New(), MovementDate: date(2026, 3, 11), RegisteredAt: base.Add(2 * time.Hour)}
	c := MovementRecord{ID: id.New(), MovementDate: date(2026, 3, 11), RegisteredAt: base.Add(time.Hour)}

	records := []MovementRecord{a, b, c}
	SortForReplay(records)

	assert.Equal(t, []id.ID{c.ID, b.ID, a.ID}, []id.ID{records[0].ID, records[1].ID, records[2].ID})
}

func TestSortForReplayStableOnEqualKeys(t *testing.T) {
	day := date(2026, 3, 11)
	at := day.Add(9 * time.Hour)
	first := MovementRecord{ID: id.New(), MovementDate: day, RegisteredAt: at}
	second := MovementRecord{ID: id.New(), MovementDate: day, RegisteredAt: at}

	records := []MovementRecord{first, second}
	SortForReplay(records)

	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
}

func TestFoldAt(t *testing.T) {
	records := []MovementRecord{
		{Kind: KindEntry, Quantity: 50, MovementDate: date(2026, 3, 1)},
		{Kind: KindExit, Quantity: 10, MovementDate: date(2026, 3, 5)},
		{Kind: KindAdjust, Quantity: 5, MovementDate: date(2026, 3, 9)},
	}

	assert.Equal(t, int64(50), FoldAt(records, date(2026, 3, 1)))
	assert.Equal(t, int64(40), FoldAt(records, date(2026, 3, 5)))
	assert.Equal(t, int64(45), FoldAt(records, date(2026, 3, 9)))
	assert.Equal(t, int64(0), FoldAt(records, date(2026, 2, 28)))
}

func TestFoldAtIgnoresTimeOfDay(t *testing.T) {
	records := []MovementRecord{
		{Kind: KindEntry, Quantity: 7, MovementDate: date(2026, 3, 5)},
	}

	// A reference instant early on the movement's own day still includes it.
	refDate := time.Date(2026, 3, 5, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, int64(7), FoldAt(records, refDate))
}

func TestDay(t *testing.T) {
	in := time.Date(2026, 3, 5, 23, 45, 12, 999, time.FixedZone("X", -3*3600))
	got := Day(in)
	assert.Equal(t, date(2026, 3, 6), got) // -03:00 at 23:45 is already the 6th in UTC
	assert.Equal(t, time.UTC, got.Location())
}
