package appointment

import "time"

// Overlaps reports whether the half-open windows [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching endpoints do not overlap:
// [9:00,10:00) and [10:00,11:00) are non-conflicting.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
