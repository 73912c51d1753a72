package appointment

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name   string
		aStart time.Time
		aEnd   time.Time
		bStart time.Time
		bEnd   time.Time
		want   bool
	}{
		{"identical windows", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"partial overlap front", at(9, 0), at(10, 0), at(9, 30), at(10, 30), true},
		{"partial overlap back", at(9, 30), at(10, 30), at(9, 0), at(10, 0), true},
		{"contained", at(9, 0), at(11, 0), at(9, 30), at(10, 0), true},
		{"containing", at(9, 30), at(10, 0), at(9, 0), at(11, 0), true},
		{"disjoint before", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
		{"disjoint after", at(10, 0), at(11, 0), at(8, 0), at(9, 0), false},
		{"touching end to start", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching start to end", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"one minute overlap", at(9, 0), at(10, 1), at(10, 0), at(11, 0), true},
	}

	for _, tc := range cases {
		got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
		if got != tc.want {
			t.Errorf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}

		// The predicate is symmetric.
		if Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd) != got {
			t.Errorf("%s: Overlaps is not symmetric", tc.name)
		}
	}
}
