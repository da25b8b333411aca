package credits

import "time"

// StreakResult is the outcome of advancing a user's streak for one accepted
// submission.
type StreakResult struct {
	Streak     int
	Longest    int
	Multiplier int
}

// NextStreak advances a streak at calendar-day granularity. A submission the
// day after the last one continues the streak, a longer gap resets it to 1,
// and a second submission on the same day leaves it unchanged.
//
// TODO: product has not decided whether same-day repeat reports should ever
// advance the streak; current behavior keeps them neutral.
func NextStreak(current, longest int, lastReport *time.Time, now time.Time) StreakResult {
	streak := current

	switch {
	case lastReport == nil:
		streak = 1
	default:
		switch daysBetween(*lastReport, now) {
		case 0:
			// Same calendar day: no change.
			if streak == 0 {
				streak = 1
			}
		case 1:
			streak++
		default:
			streak = 1
		}
	}

	if streak > longest {
		longest = streak
	}

	return StreakResult{
		Streak:     streak,
		Longest:    longest,
		Multiplier: Multiplier(streak),
	}
}

// Multiplier maps a streak length to its credit multiplier.
func Multiplier(streak int) int {
	switch {
	case streak >= 7:
		return 3
	case streak >= 3:
		return 2
	default:
		return 1
	}
}

// StreakBonus is the extra credit earned on top of base credits for the
// current multiplier.
func StreakBonus(baseCredits, multiplier int) int {
	return baseCredits * (multiplier - 1)
}

// daysBetween counts whole calendar days between two instants, discarding
// time of day.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}
