package recur

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/mo"
)

// FormatNextOccurrence renders a computed next occurrence relative to now as
// a short string for task rows and previews.
func FormatNextOccurrence(next mo.Option[time.Time], now time.Time) string {
	ts, ok := next.Get()
	if !ok {
		return "No upcoming occurrences"
	}
	if !ts.After(now) {
		return "Overdue"
	}

	until := ts.Sub(now)
	if until < time.Hour {
		minutes := int(math.Round(until.Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("In %d %s", minutes, pluralize("minute", minutes))
	}
	if until < 24*time.Hour {
		hours := int(math.Round(until.Hours()))
		return fmt.Sprintf("In %d %s", hours, pluralize("hour", hours))
	}
	return fmt.Sprintf("Next: %s at %s", ts.Weekday(), ts.Format("3:04 PM"))
}

// BuildSummary renders a one-line description of the settings for the
// recurrence panel. Specific-dates mode overrides the periodic phrasing.
func BuildSummary(s Settings) string {
	if s.SpecificDates.Enabled && len(s.SpecificDates.Dates) > 0 {
		return specificDatesSummary(s)
	}

	var b strings.Builder
	freq := s.Frequency
	if freq == "" {
		freq = Daily
	}
	fmt.Fprintf(&b, "Repeats %s", freq)

	if !s.Indefinitely && s.Count > 0 {
		fmt.Fprintf(&b, " for %d %s", s.Count, pluralize("time", s.Count))
	} else {
		b.WriteString(" indefinitely")
	}

	if t, ok := s.Time.Get(); ok {
		fmt.Fprintf(&b, " at %s", formatClockTime(t))
	}

	if freq == Hourly && s.Hourly.UseSpecificMinute {
		fmt.Fprintf(&b, " every hour at :%02d", s.Hourly.Minute)
	}

	if freq == Weekly && len(s.Weekly.Days) > 0 {
		fmt.Fprintf(&b, " on %s", strings.Join(s.Weekly.Days, ", "))
	}
	if freq == Biweekly && len(s.Biweekly.Days) > 0 {
		fmt.Fprintf(&b, " on %s", strings.Join(s.Biweekly.Days, ", "))
	}

	if freq == Monthly && len(s.Monthly.Days) > 0 {
		fmt.Fprintf(&b, " on %s %s", pluralize("day", len(s.Monthly.Days)), joinInts(s.Monthly.Days))
	}

	if freq == Yearly {
		if len(s.Yearly.Months) > 0 {
			names := make([]string, 0, len(s.Yearly.Months))
			for _, m := range s.Yearly.Months {
				if m >= 1 && m <= 12 {
					names = append(names, time.Month(m).String()[:3])
				}
			}
			fmt.Fprintf(&b, " in %s", strings.Join(names, ", "))
		}
		if s.Yearly.UseSpecificDays && s.Yearly.ApplyDaysToAll && len(s.Yearly.DaysAll) > 0 {
			fmt.Fprintf(&b, " on %s %s", pluralize("day", len(s.Yearly.DaysAll)), joinInts(s.Yearly.DaysAll))
		}
	}

	return b.String()
}

func specificDatesSummary(s Settings) string {
	formatted := make([]string, 0, len(s.SpecificDates.Dates))
	for _, ds := range s.SpecificDates.Dates {
		day, err := time.Parse(DateLayout, ds)
		if err != nil {
			formatted = append(formatted, ds)
			continue
		}
		formatted = append(formatted, day.Format("Mon, Jan 2, 2006"))
	}

	summary := "Specific dates: " + strings.Join(formatted, ", ")
	if t, ok := s.Time.Get(); ok {
		summary += " at " + formatClockTime(t)
	}
	return summary
}

func formatClockTime(t ClockTime) string {
	if t.Military {
		return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	}
	return fmt.Sprintf("%d:%02d %s", t.Hour, t.Minute, t.Meridiem)
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
