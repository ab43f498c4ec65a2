package recur

import (
	"time"

	"github.com/samber/mo"
)

// Search bounds for the day-by-day scans. Weekly patterns repeat within 7
// days and biweekly within 14; monthly day sets can skip short months (a
// 31st configured in January next lands in March), so two months of slack.
const (
	weeklyScanDays   = 14
	biweeklyScanDays = 28
	monthlyScanDays  = 62
	yearlyScanMonths = 12 * 8 // Feb 29 only recurs every fourth year
)

// NextOccurrence computes the first instant strictly after from at which
// ShouldFireNow would be satisfied. It returns None when no future
// occurrence exists: exhausted specific dates, unknown frequencies, or day
// sets that never match a real calendar day (e.g. a garbled weekday token).
func NextOccurrence(s Settings, from time.Time) mo.Option[time.Time] {
	if s.SpecificDates.Enabled {
		return nextSpecificDate(s, from)
	}

	switch s.Frequency {
	case Hourly:
		return mo.Some(nextHourly(s, from))
	case Daily:
		return mo.Some(nextDaily(s, from))
	case Weekly:
		return nextMatchingDay(s, from, weeklyScanDays)
	case Biweekly:
		return nextMatchingDay(s, from, biweeklyScanDays)
	case Monthly:
		return nextMatchingDay(s, from, monthlyScanDays)
	case Yearly:
		return nextYearly(s, from)
	default:
		return mo.None[time.Time]()
	}
}

// NextOccurrences returns up to n future occurrences, each computed from the
// previous one. The result is shorter than n only when the sequence runs out.
func NextOccurrences(s Settings, n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, max(n, 0))
	cur := from
	for len(out) < n {
		next, ok := NextOccurrence(s, cur).Get()
		if !ok {
			break
		}
		out = append(out, next)
		cur = next
	}
	return out
}

// placeOnDay positions the occurrence within a day: the configured clock
// time when set, midnight otherwise.
func placeOnDay(day time.Time, s Settings) time.Time {
	hour, minute := 0, 0
	if t, ok := s.Time.Get(); ok {
		hour, minute = t.Hour24(), t.Minute
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextDaily(s Settings, from time.Time) time.Time {
	slot := placeOnDay(from, s)
	if slot.After(from) {
		return slot
	}
	return placeOnDay(startOfDay(from).AddDate(0, 0, 1), s)
}

// nextMatchingDay scans forward day by day, re-testing the predicate's date
// gate at the placed slot, so weekday, day-of-month and biweekly parity
// rules all apply exactly as they would at evaluation time.
func nextMatchingDay(s Settings, from time.Time, boundDays int) mo.Option[time.Time] {
	start := startOfDay(from)
	for d := 0; d <= boundDays; d++ {
		slot := placeOnDay(start.AddDate(0, 0, d), s)
		if slot.After(from) && dateGate(s, slot) {
			return mo.Some(slot)
		}
	}
	return mo.None[time.Time]()
}

func nextYearly(s Settings, from time.Time) mo.Option[time.Time] {
	monthStart := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	for i := 0; i < yearlyScanMonths; i++ {
		month := monthStart.AddDate(0, i, 0)
		if len(s.Yearly.Months) > 0 && !containsInt(s.Yearly.Months, int(month.Month())) {
			continue
		}

		days := s.Yearly.DaysAll
		if s.Yearly.UseSpecificDays && !s.Yearly.ApplyDaysToAll {
			days = s.Yearly.DaysByMonth[int(month.Month())]
		}
		if !s.Yearly.UseSpecificDays {
			days = nil // wildcard: any day of the month
		}

		for day := 1; day <= daysInMonth(month); day++ {
			if len(days) > 0 && !containsInt(days, day) {
				continue
			}
			slot := placeOnDay(month.AddDate(0, 0, day-1), s)
			if slot.After(from) {
				return mo.Some(slot)
			}
		}
	}
	return mo.None[time.Time]()
}

func daysInMonth(t time.Time) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func nextHourly(s Settings, from time.Time) time.Time {
	minute := 0
	if s.Hourly.UseSpecificMinute {
		minute = s.Hourly.Minute
	}
	slot := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), minute, 0, 0, from.Location())
	if slot.After(from) {
		return slot
	}
	return slot.Add(time.Hour)
}

// nextSpecificDate finds the chronologically smallest configured date
// strictly after from's calendar date. Dates that fail to parse are skipped.
func nextSpecificDate(s Settings, from time.Time) mo.Option[time.Time] {
	today := from.Format(DateLayout)
	best := mo.None[time.Time]()
	for _, ds := range s.SpecificDates.Dates {
		// YYYY-MM-DD strings order lexicographically as dates do.
		if ds <= today {
			continue
		}
		day, err := time.ParseInLocation(DateLayout, ds, from.Location())
		if err != nil {
			continue
		}
		slot := placeOnDay(day, s)
		if b, ok := best.Get(); !ok || slot.Before(b) {
			best = mo.Some(slot)
		}
	}
	return best
}
