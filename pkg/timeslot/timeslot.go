// Package timeslot holds the pure time-of-day algebra the availability and
// booking services are built on. Nothing in here touches I/O: times are
// "HH:MM" strings interpreted as minutes since midnight, dates are
// "YYYY-MM-DD" strings, and all interval comparisons use half-open
// semantics so that back-to-back lessons never conflict.
package timeslot

import (
	"fmt"
	"regexp"
	"time"
)

const DateLayout = "2006-01-02"

// timeRegex accepts strictly HH:MM with a mandatory leading zero,
// hours 00-23 and minutes 00-59.
var timeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Minutes is a time of day expressed as minutes since midnight.
type Minutes int

// Parse converts an "HH:MM" string into minutes since midnight.
// Any other shape, including "9:00" without a leading zero, is rejected.
func Parse(s string) (Minutes, error) {
	if !timeRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q: must be HH:MM in 24-hour format", s)
	}
	var hours, mins int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hours, &mins); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return Minutes(hours*60 + mins), nil
}

// ValidRange reports whether both times parse and end is strictly after start.
func ValidRange(start, end string) bool {
	s, err := Parse(start)
	if err != nil {
		return false
	}
	e, err := Parse(end)
	if err != nil {
		return false
	}
	return e > s
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. A slot ending exactly when another starts
// does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd Minutes) bool {
	return aStart < bEnd && aEnd > bStart
}

// OverlapsHHMM is Overlaps over raw "HH:MM" strings. Malformed input
// counts as no overlap; callers validate formats before conflict checks.
func OverlapsHHMM(aStart, aEnd, bStart, bEnd string) bool {
	as, err := Parse(aStart)
	if err != nil {
		return false
	}
	ae, err := Parse(aEnd)
	if err != nil {
		return false
	}
	bs, err := Parse(bStart)
	if err != nil {
		return false
	}
	be, err := Parse(bEnd)
	if err != nil {
		return false
	}
	return Overlaps(as, ae, bs, be)
}

// Weekday returns the day of week for a "YYYY-MM-DD" date, 0=Sunday.
func Weekday(date string) (int, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", date)
	}
	return int(d.Weekday()), nil
}

// WeeklySlot is one recurring opening in a teacher's week.
type WeeklySlot struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}

// Occurrence is a weekly slot projected onto a concrete calendar date.
type Occurrence struct {
	DayOfWeek int
	Date      string
	StartTime string
	EndTime   string
}

// ProjectOccurrences expands a weekly pattern across [from, to] inclusive.
// Slots keep the order the caller supplied; within one slot the dates run
// ascending. The projection is pure so conflict resolution can be tested
// without a database.
func ProjectOccurrences(slots []WeeklySlot, from, to string) ([]Occurrence, error) {
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: must be YYYY-MM-DD", from)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: must be YYYY-MM-DD", to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", to, from)
	}

	var occurrences []Occurrence
	for _, slot := range slots {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if int(d.Weekday()) != slot.DayOfWeek {
				continue
			}
			occurrences = append(occurrences, Occurrence{
				DayOfWeek: slot.DayOfWeek,
				Date:      d.Format(DateLayout),
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			})
		}
	}
	return occurrences, nil
}
