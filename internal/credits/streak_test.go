package credits

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 14, 30, 0, 0, time.UTC)
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		longest     int
		last        *time.Time
		now         time.Time
		wantStreak  int
		wantLongest int
	}{
		{
			name:       "first report ever",
			current:    0,
			longest:    0,
			last:       nil,
			now:        day(10),
			wantStreak: 1, wantLongest: 1,
		},
		{
			name:    "next-day continuation",
			current: 4, longest: 4,
			last: ptr(day(9)), now: day(10),
			wantStreak: 5, wantLongest: 5,
		},
		{
			name:    "gap resets to one",
			current: 4, longest: 4,
			last: ptr(day(7)), now: day(10),
			wantStreak: 1, wantLongest: 4,
		},
		{
			name:    "broken long streak keeps longest",
			current: 10, longest: 10,
			last: ptr(day(5)), now: day(10),
			wantStreak: 1, wantLongest: 10,
		},
		{
			name:    "same day leaves streak unchanged",
			current: 3, longest: 5,
			last: ptr(day(10)), now: day(10),
			wantStreak: 3, wantLongest: 5,
		},
		{
			name:    "continuation across midnight counts calendar days",
			current: 2, longest: 2,
			last: ptr(time.Date(2026, 8, 9, 23, 59, 0, 0, time.UTC)),
			now:  time.Date(2026, 8, 10, 0, 1, 0, 0, time.UTC),
			wantStreak: 3, wantLongest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStreak(tt.current, tt.longest, tt.last, tt.now)
			if got.Streak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("longest = %d, want %d", got.Longest, tt.wantLongest)
			}
			if got.Multiplier != Multiplier(got.Streak) {
				t.Errorf("multiplier = %d, want %d", got.Multiplier, Multiplier(got.Streak))
			}
		})
	}
}

func TestMultiplierThresholds(t *testing.T) {
	want := map[int]int{1: 1, 2: 1, 3: 2, 6: 2, 7: 3, 10: 3}
	for streak, multiplier := range want {
		if got := Multiplier(streak); got != multiplier {
			t.Errorf("Multiplier(%d) = %d, want %d", streak, got, multiplier)
		}
	}
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		base, multiplier, want int
	}{
		{10, 1, 0},
		{10, 2, 10},
		{25, 3, 50},
	}
	for _, tt := range tests {
		if got := StreakBonus(tt.base, tt.multiplier); got != tt.want {
			t.Errorf("StreakBonus(%d, %d) = %d, want %d", tt.base, tt.multiplier, got, tt.want)
		}
	}
}

func ptr(t time.Time) *time.Time { return &t }
