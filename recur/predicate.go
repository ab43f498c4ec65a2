package recur

import (
	"math"
	"time"
)

// ShouldFireNow reports whether the recurrence condition is satisfied at the
// given instant. It is pure and deterministic: the same settings and instant
// always produce the same answer.
//
// When no ClockTime is set the predicate is true for the whole matching day
// (or the whole matching minute-0 for hourly). De-duplication of repeated
// true evaluations is the lifecycle coordinator's job, not this function's.
func ShouldFireNow(s Settings, at time.Time) bool {
	// Specific dates suppress the periodic date gate entirely, but an
	// explicit time of day still applies.
	if s.SpecificDates.Enabled {
		if !matchesSpecificDate(s.SpecificDates.Dates, at) {
			return false
		}
		return timeGate(s, at)
	}

	return dateGate(s, at) && timeGate(s, at)
}

// dateGate applies the per-frequency calendar gate. Empty day/month sets are
// wildcards. Unknown frequencies never pass.
func dateGate(s Settings, at time.Time) bool {
	switch s.Frequency {
	case Daily:
		return true
	case Weekly:
		return matchesWeekday(s.Weekly.Days, at)
	case Biweekly:
		return matchesWeekday(s.Biweekly.Days, at) &&
			evenWeeksSince(s.Biweekly.ReferenceDate, at)
	case Monthly:
		return len(s.Monthly.Days) == 0 || containsInt(s.Monthly.Days, at.Day())
	case Yearly:
		return yearlyGate(s.Yearly, at)
	case Hourly:
		return !s.Hourly.UseSpecificMinute || at.Minute() == s.Hourly.Minute
	default:
		return false
	}
}

// timeGate applies the time-of-day gate. With a ClockTime set the instant
// must land exactly on the configured hour and minute; without one, only
// hourly mode constrains the instant (top of the hour).
func timeGate(s Settings, at time.Time) bool {
	if t, ok := s.Time.Get(); ok {
		return at.Hour() == t.Hour24() && at.Minute() == t.Minute
	}
	if s.Frequency == Hourly && !s.Hourly.UseSpecificMinute {
		return at.Minute() == 0
	}
	return true
}

func matchesSpecificDate(dates []string, at time.Time) bool {
	return containsString(dates, at.Format(DateLayout))
}

// weekdayToken returns the three-letter token ("Mon".."Sun") for an instant.
func weekdayToken(at time.Time) string {
	return at.Weekday().String()[:3]
}

func matchesWeekday(days []string, at time.Time) bool {
	return len(days) == 0 || containsString(days, weekdayToken(at))
}

// evenWeeksSince reports whether the instant falls in an even-numbered week
// relative to the reference. Week 0 is the reference week, and only even
// weeks (0, 2, 4, ...) fire. Instants before the reference land in negative
// odd weeks and do not fire.
func evenWeeksSince(reference, at time.Time) bool {
	weeks := int(math.Floor(at.Sub(reference).Hours() / (24 * 7)))
	return weeks%2 == 0
}

func yearlyGate(y YearlySettings, at time.Time) bool {
	month := int(at.Month())
	if len(y.Months) > 0 && !containsInt(y.Months, month) {
		return false
	}
	if y.UseSpecificDays {
		days := y.DaysAll
		if !y.ApplyDaysToAll {
			days = y.DaysByMonth[month]
		}
		if len(days) > 0 && !containsInt(days, at.Day()) {
			return false
		}
	}
	return true
}
