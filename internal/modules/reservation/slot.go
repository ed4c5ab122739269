package reservation

import (
	"sort"
	"time"
)

// Operating window and scheduling granularity. The whole system runs in a
// single local timezone.
const (
	OpenHour    = 8
	CloseHour   = 18
	SlotMinutes = 30
)

var validDurations = map[int]bool{
	60:  true,
	90:  true,
	120: true,
	150: true,
	180: true,
}

// ValidateSlot checks a proposed interval against the slot-granularity,
// operating-hours and duration rules. Checks run in a fixed order and the
// first failure wins; the order matches the user-facing error contract.
// Pure function of its inputs.
func ValidateSlot(start, end time.Time, expectedDuration int, now time.Time) error {
	if start.Minute() != 0 && start.Minute() != 30 {
		return ErrStartNotAligned
	}
	if end.Minute() != 0 && end.Minute() != 30 {
		return ErrEndNotAligned
	}
	if start.Hour() < OpenHour || start.Hour() >= CloseHour {
		return ErrStartOutsideHours
	}
	if end.Hour() < OpenHour || end.Hour() > CloseHour {
		return ErrEndOutsideHours
	}
	// 18:xx is only legal as exactly 18:00, the closing instant.
	if end.Hour() == CloseHour && end.Minute() != 0 {
		return ErrEndOutsideHours
	}
	if !validDurations[expectedDuration] {
		return ErrInvalidDuration
	}
	if end.Sub(start) != time.Duration(expectedDuration)*time.Minute {
		return ErrDurationMismatch
	}
	if start.Before(now) {
		return ErrStartInPast
	}
	return nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open: touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CoveredSlotStarts returns every 30-minute boundary t with start <= t < end,
// clamped to [dayStart, dayEnd). The boundary equal to an interval's end is
// never included: a reservation ending at 11:00 does not occupy 11:00.
func CoveredSlotStarts(intervals []TimeRange, dayStart, dayEnd time.Time) []time.Time {
	seen := make(map[time.Time]bool)
	for _, iv := range intervals {
		t := iv.Start
		if t.Before(dayStart) {
			t = dayStart
		}
		end := iv.End
		if end.After(dayEnd) {
			end = dayEnd
		}
		for ; t.Before(end); t = t.Add(SlotMinutes * time.Minute) {
			seen[t] = true
		}
	}

	out := make([]time.Time, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
