// Package recur implements the recurrence scheduling core for cycle-based
// task lists: settings normalization, the should-fire predicate, next
// occurrence calculation and human-readable summaries.
package recur

import (
	"time"

	"github.com/samber/mo"
)

// Frequency identifies the periodic recurrence mode of a task.
type Frequency string

const (
	Hourly   Frequency = "hourly"
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

// DateLayout is the calendar-date format used by specific-dates mode.
const DateLayout = "2006-01-02"

// ClockTime is a time of day in either 12- or 24-hour form. Meridiem is only
// meaningful when Military is false.
type ClockTime struct {
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Military bool   `json:"military"`
	Meridiem string `json:"meridiem,omitempty"` // "AM" or "PM"
}

// Hour24 returns the hour converted to 24-hour form. 12 AM maps to 0,
// 12 PM stays 12, other PM hours gain 12.
func (c ClockTime) Hour24() int {
	if c.Military {
		return c.Hour
	}
	return convert12To24(c.Hour, c.Meridiem)
}

func convert12To24(hour int, meridiem string) int {
	if meridiem == "PM" && hour != 12 {
		return hour + 12
	}
	if meridiem == "AM" && hour == 12 {
		return 0
	}
	return hour
}

// SpecificDatesSettings lists explicit calendar dates (YYYY-MM-DD). When
// enabled it replaces the periodic date gate entirely.
type SpecificDatesSettings struct {
	Enabled bool     `json:"enabled"`
	Dates   []string `json:"dates"`
}

// HourlySettings gates hourly recurrence to a specific minute. Without a
// specific minute, hourly tasks fire at the top of each hour.
type HourlySettings struct {
	UseSpecificMinute bool `json:"useSpecificMinute"`
	Minute            int  `json:"minute"`
}

// WeeklySettings holds weekday tokens ("Mon".."Sun"). An empty set is a
// wildcard meaning any day, not no day.
type WeeklySettings struct {
	Days []string `json:"days"`
}

// BiweeklySettings is the weekly day set plus a reference instant anchoring
// week zero; only even weeks since the reference fire.
type BiweeklySettings struct {
	Days          []string  `json:"days"`
	ReferenceDate time.Time `json:"referenceDate"`
}

// MonthlySettings holds days of month (1-31). Empty means any day.
type MonthlySettings struct {
	Days []int `json:"days"`
}

// YearlySettings selects months (1-12, empty = any) and optionally specific
// days within them. With ApplyDaysToAll the DaysAll set applies to every
// selected month; otherwise DaysByMonth maps month number to its day set.
// An enabled-but-empty resolved day set is a wildcard, same as weekly/monthly.
type YearlySettings struct {
	Months          []int         `json:"months"`
	UseSpecificDays bool          `json:"useSpecificDays"`
	ApplyDaysToAll  bool          `json:"applyDaysToAll"`
	DaysAll         []int         `json:"daysAll"`
	DaysByMonth     map[int][]int `json:"daysByMonth"`
}

// Settings is the full recurrence configuration attached to a task. All
// sub-objects are present after Normalize even when unused for the current
// frequency. Time is optional and its absence is meaningful: a task without
// a time fires whenever it is evaluated on a matching day, while hourly
// tasks fall back to top-of-hour semantics.
type Settings struct {
	Frequency    Frequency            `json:"frequency"`
	Indefinitely bool                 `json:"indefinitely"`
	Count        int                  `json:"count,omitempty"`
	Time         mo.Option[ClockTime] `json:"time"`

	SpecificDates SpecificDatesSettings `json:"specificDates"`
	Hourly        HourlySettings        `json:"hourly"`
	Weekly        WeeklySettings        `json:"weekly"`
	Biweekly      BiweeklySettings      `json:"biweekly"`
	Monthly       MonthlySettings       `json:"monthly"`
	Yearly        YearlySettings        `json:"yearly"`
}

// Normalize fills a possibly-partial Settings with defaults for every
// recurrence mode. It never rejects input: unknown frequencies pass through
// unchanged and are treated as never-firing by the predicate. A missing
// biweekly reference date is stamped with the current instant; callers that
// need a stable anchor should use NormalizeAt.
func Normalize(s Settings) Settings {
	return NormalizeAt(s, time.Now())
}

// NormalizeAt is Normalize with an explicit instant for the biweekly
// reference date default. Normalization is idempotent.
func NormalizeAt(s Settings, now time.Time) Settings {
	if s.Frequency == "" {
		s.Frequency = Daily
	}

	// Count is only meaningful for bounded recurrence; without a positive
	// count the task recurs indefinitely.
	if s.Count <= 0 {
		s.Count = 0
		s.Indefinitely = true
	}

	if t, ok := s.Time.Get(); ok {
		if !t.Military && t.Meridiem == "" {
			t.Meridiem = "AM"
		}
		s.Time = mo.Some(t)
	}

	if s.SpecificDates.Dates == nil {
		s.SpecificDates.Dates = []string{}
	}
	if s.Weekly.Days == nil {
		s.Weekly.Days = []string{}
	}
	if s.Biweekly.Days == nil {
		s.Biweekly.Days = []string{}
	}
	if s.Biweekly.ReferenceDate.IsZero() {
		s.Biweekly.ReferenceDate = now
	}
	if s.Monthly.Days == nil {
		s.Monthly.Days = []int{}
	}
	if s.Yearly.Months == nil {
		s.Yearly.Months = []int{}
	}
	if s.Yearly.DaysAll == nil {
		s.Yearly.DaysAll = []int{}
	}
	if s.Yearly.DaysByMonth == nil {
		s.Yearly.DaysByMonth = map[int][]int{}
	}
	// Without per-month day sets there is nothing for the split mode to
	// apply, so the uniform mode is the default.
	if len(s.Yearly.DaysByMonth) == 0 {
		s.Yearly.ApplyDaysToAll = true
	}

	return s
}

// DefaultSettings returns the settings applied to a task made recurring
// without any explicit configuration: daily, indefinitely, no fixed time.
func DefaultSettings() Settings {
	return NormalizeAt(Settings{}, time.Now())
}

func containsInt(set []int, v int) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(set []string, v string) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}
