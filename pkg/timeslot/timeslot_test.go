package timeslot

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Minutes
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "standard morning", input: "09:30", want: 570},
		{name: "last minute of day", input: "23:59", want: 1439},
		{name: "afternoon", input: "14:00", want: 840},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "missing leading zero", input: "9:00", wantErr: true},
		{name: "dash separator", input: "09-00", wantErr: true},
		{name: "trailing garbage", input: "09:00:00", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "whitespace", input: " 09:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd Minutes
		want                       bool
	}{
		{name: "identical ranges overlap", aStart: 840, aEnd: 900, bStart: 840, bEnd: 900, want: true},
		{name: "back to back does not overlap", aStart: 840, aEnd: 900, bStart: 900, bEnd: 960, want: false},
		{name: "back to back other side", aStart: 900, aEnd: 960, bStart: 840, bEnd: 900, want: false},
		{name: "partial overlap", aStart: 840, aEnd: 900, bStart: 870, bEnd: 930, want: true},
		{name: "containment", aStart: 840, aEnd: 960, bStart: 870, bEnd: 900, want: true},
		{name: "disjoint", aStart: 540, aEnd: 600, bStart: 840, bEnd: 900, want: false},
		{name: "one minute intersection", aStart: 840, aEnd: 901, bStart: 900, bEnd: 960, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps(%d,%d,%d,%d) = %v, want %v", tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}

// Every valid range overlaps itself, and never overlaps the range that
// starts exactly where it ends.
func TestOverlapsProperties(t *testing.T) {
	for start := Minutes(0); start < 1380; start += 97 {
		end := start + 60
		if !Overlaps(start, end, start, end) {
			t.Errorf("identical range [%d,%d) must overlap itself", start, end)
		}
		if Overlaps(start, end, end, end+30) {
			t.Errorf("adjacent ranges [%d,%d) and [%d,%d) must not overlap", start, end, end, end+30)
		}
	}
}

func TestValidRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{name: "normal range", start: "14:00", end: "16:00", want: true},
		{name: "one minute range", start: "14:00", end: "14:01", want: true},
		{name: "equal times", start: "14:00", end: "14:00", want: false},
		{name: "inverted", start: "16:00", end: "14:00", want: false},
		{name: "malformed start", start: "25:00", end: "16:00", want: false},
		{name: "malformed end", start: "14:00", end: "16:0", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidRange(tt.start, tt.end); got != tt.want {
				t.Errorf("ValidRange(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestWeekday(t *testing.T) {
	// 2026-01-04 is a Sunday
	tests := []struct {
		date    string
		want    int
		wantErr bool
	}{
		{date: "2026-01-04", want: 0},
		{date: "2026-01-05", want: 1},
		{date: "2026-01-10", want: 6},
		{date: "2026-13-01", wantErr: true},
		{date: "04-01-2026", wantErr: true},
		{date: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Weekday(tt.date)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Weekday(%q) expected error", tt.date)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Weekday(%q) unexpected error: %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("Weekday(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestProjectOccurrences(t *testing.T) {
	slots := []WeeklySlot{
		{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00"}, // Mondays
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00"}, // Wednesdays
	}

	// 2026-01-05 is a Monday; two full weeks.
	occurrences, err := ProjectOccurrences(slots, "2026-01-05", "2026-01-18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Occurrence{
		{DayOfWeek: 1, Date: "2026-01-05", StartTime: "14:00", EndTime: "15:00"},
		{DayOfWeek: 1, Date: "2026-01-12", StartTime: "14:00", EndTime: "15:00"},
		{DayOfWeek: 3, Date: "2026-01-07", StartTime: "10:00", EndTime: "11:00"},
		{DayOfWeek: 3, Date: "2026-01-14", StartTime: "10:00", EndTime: "11:00"},
	}

	if len(occurrences) != len(want) {
		t.Fatalf("expected %d occurrences, got %d: %+v", len(want), len(occurrences), occurrences)
	}
	for i, w := range want {
		if occurrences[i] != w {
			t.Errorf("occurrence %d = %+v, want %+v", i, occurrences[i], w)
		}
	}
}

func TestProjectOccurrencesKeepsSlotOrder(t *testing.T) {
	// Client supplied Wednesday before Monday; projection must not reorder.
	slots := []WeeklySlot{
		{DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00"},
		{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00"},
	}

	occurrences, err := ProjectOccurrences(slots, "2026-01-05", "2026-01-11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occurrences) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
	}
	if occurrences[0].DayOfWeek != 3 || occurrences[1].DayOfWeek != 1 {
		t.Errorf("slot order not preserved: %+v", occurrences)
	}
}

func TestProjectOccurrencesErrors(t *testing.T) {
	slots := []WeeklySlot{{DayOfWeek: 1, StartTime: "14:00", EndTime: "15:00"}}

	if _, err := ProjectOccurrences(slots, "bad-date", "2026-01-11"); err == nil {
		t.Error("expected error for malformed start date")
	}
	if _, err := ProjectOccurrences(slots, "2026-01-11", "2026-01-05"); err == nil {
		t.Error("expected error for inverted date range")
	}

	// A range with no matching weekday yields no occurrences, not an error.
	occurrences, err := ProjectOccurrences(slots, "2026-01-06", "2026-01-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occurrences) != 0 {
		t.Errorf("expected no occurrences, got %+v", occurrences)
	}
}
