package appointment

import (
	"sort"
	"time"
)

// DisplayOrder is the column precedence used when presenting appointment rows.
var DisplayOrder = []string{ColAppointmentDay, ColBeginTime, ColLocation, ColProvider, ColFullName}

// SortForDisplay returns a copy of the set ordered by the DisplayOrder
// columns the set carries. Absent values sort last and ties keep their
// incoming order.
func SortForDisplay(s RecordSet) RecordSet {
	var keys []string
	for _, col := range DisplayOrder {
		if s.Has(col) {
			keys = append(keys, col)
		}
	}
	out := RecordSet{
		Columns: s.Columns,
		Records: append([]Record(nil), s.Records...),
	}
	if len(keys) == 0 {
		return out
	}
	sort.SliceStable(out.Records, func(i, j int) bool {
		a, b := &out.Records[i], &out.Records[j]
		for _, col := range keys {
			if c := compareField(a, b, col); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}

func compareField(a, b *Record, col string) int {
	if col == ColAppointmentDay {
		return compareTime(a.AppointmentDate, b.AppointmentDate)
	}
	av, _ := a.Value(col).(string)
	bv, _ := b.Value(col).(string)
	aNil, bNil := a.Value(col) == nil, b.Value(col) == nil
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return 1
	case bNil:
		return -1
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}

func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}
