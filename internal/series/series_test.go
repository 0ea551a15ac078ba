package series

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midday truncates to midnight",
			in:   time.Date(2025, time.March, 10, 14, 30, 45, 0, time.UTC),
			want: day(2025, time.March, 10),
		},
		{
			name: "non-UTC zone converts first",
			in:   time.Date(2025, time.March, 10, 23, 0, 0, 0, time.FixedZone("plus2", 2*3600)),
			want: day(2025, time.March, 10),
		},
		{
			name: "midnight is unchanged",
			in:   day(2025, time.March, 10),
			want: day(2025, time.March, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("DayStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDays(t *testing.T) {
	from := day(2025, time.February, 26)
	to := day(2025, time.March, 3)

	days := Days(from, to)
	if len(days) != 5 {
		t.Fatalf("Days() returned %d days, want 5", len(days))
	}
	if !days[0].Equal(from) {
		t.Errorf("first day = %v, want %v", days[0], from)
	}
	// Upper bound is exclusive.
	last := day(2025, time.March, 2)
	if !days[len(days)-1].Equal(last) {
		t.Errorf("last day = %v, want %v", days[len(days)-1], last)
	}
}

func TestDays_EmptyRange(t *testing.T) {
	from := day(2025, time.March, 3)
	if got := Days(from, from); len(got) != 0 {
		t.Errorf("Days() over empty range returned %d days, want 0", len(got))
	}
}

func TestInRange(t *testing.T) {
	from := day(2025, time.March, 1)
	to := day(2025, time.March, 8)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"inside", day(2025, time.March, 4), true},
		{"at lower bound", from, true},
		{"at upper bound", to, false},
		{"before", day(2025, time.February, 28), false},
		{"after", day(2025, time.March, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InRange(tt.t, from, to); got != tt.want {
				t.Errorf("InRange(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestFillDaily(t *testing.T) {
	from := day(2025, time.March, 1)
	to := day(2025, time.March, 8)

	counts := map[string]int64{
		"2025-03-02": 4,
		"2025-03-05": 9,
		"2025-02-27": 100, // outside the range, must be dropped
		"2025-03-08": 50,  // at the exclusive bound, must be dropped
	}

	points := FillDaily(from, to, counts)
	if len(points) != 7 {
		t.Fatalf("FillDaily() returned %d points, want 7", len(points))
	}

	var total int64
	for _, p := range points {
		total += p.Count
	}
	if total != 13 {
		t.Errorf("total count = %d, want 13 (out-of-range rows must be dropped)", total)
	}

	if points[0].Date != "2025-03-01" || points[0].Count != 0 {
		t.Errorf("points[0] = %+v, want zero-filled 2025-03-01", points[0])
	}
	if points[1].Count != 4 {
		t.Errorf("points[1].Count = %d, want 4", points[1].Count)
	}
	if points[4].Count != 9 {
		t.Errorf("points[4].Count = %d, want 9", points[4].Count)
	}
}

func TestFillDaily_NoData(t *testing.T) {
	from := day(2025, time.March, 1)
	to := day(2025, time.March, 31)

	points := FillDaily(from, to, nil)
	if len(points) != 30 {
		t.Fatalf("FillDaily() returned %d points, want 30", len(points))
	}
	for i, p := range points {
		if p.Count != 0 {
			t.Errorf("points[%d].Count = %d, want 0", i, p.Count)
		}
	}
}

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     float64
	}{
		{"normal division", 10, 4, 2.5},
		{"zero denominator", 10, 0, 0},
		{"zero numerator", 0, 5, 0},
		{"both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeDiv(tt.num, tt.den); got != tt.want {
				t.Errorf("SafeDiv(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
			}
		})
	}
}
