package recur

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

// at builds a local-free UTC instant for predicate tests.
func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestShouldFireNow_Daily(t *testing.T) {
	timed := Settings{
		Frequency: Daily,
		Time:      mo.Some(ClockTime{Hour: 2, Minute: 30, Meridiem: "PM"}),
	}

	tests := []struct {
		name     string
		settings Settings
		at       time.Time
		expected bool
	}{
		{name: "No time fires any instant", settings: Settings{Frequency: Daily}, at: at(2025, 1, 15, 16, 42), expected: true},
		{name: "No time fires at midnight too", settings: Settings{Frequency: Daily}, at: at(2025, 1, 15, 0, 0), expected: true},
		{name: "Timed fires at the exact minute", settings: timed, at: at(2025, 1, 15, 14, 30), expected: true},
		{name: "Timed misses one minute later", settings: timed, at: at(2025, 1, 15, 14, 31), expected: false},
		{name: "Timed misses at another hour", settings: timed, at: at(2025, 1, 15, 2, 30), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFireNow(NormalizeAt(tt.settings, tt.at), tt.at))
		})
	}
}

func TestShouldFireNow_Weekly(t *testing.T) {
	nineAM := mo.Some(ClockTime{Hour: 9, Minute: 0, Military: true})

	tests := []struct {
		name     string
		settings Settings
		at       time.Time
		expected bool
	}{
		{
			name:     "Matching weekday",
			settings: Settings{Frequency: Weekly, Weekly: WeeklySettings{Days: []string{"Mon", "Wed"}}},
			at:       at(2025, 1, 15, 10, 0), // Wednesday
			expected: true,
		},
		{
			name:     "Non-matching weekday",
			settings: Settings{Frequency: Weekly, Weekly: WeeklySettings{Days: []string{"Mon", "Wed"}}},
			at:       at(2025, 1, 16, 10, 0), // Thursday
			expected: false,
		},
		{
			name:     "Empty day set is a wildcard",
			settings: Settings{Frequency: Weekly, Time: nineAM},
			at:       at(2025, 1, 16, 9, 0), // Thursday
			expected: true,
		},
		{
			name:     "Wildcard still gated by time",
			settings: Settings{Frequency: Weekly, Time: nineAM},
			at:       at(2025, 1, 16, 9, 1),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFireNow(NormalizeAt(tt.settings, tt.at), tt.at))
		})
	}
}

func TestShouldFireNow_BiweeklyParity(t *testing.T) {
	// Reference: Monday Jan 6 2025 = week 0.
	settings := NormalizeAt(Settings{
		Frequency: Biweekly,
		Biweekly: BiweeklySettings{
			Days:          []string{"Mon"},
			ReferenceDate: at(2025, 1, 6, 0, 0),
		},
	}, at(2025, 1, 6, 0, 0))

	tests := []struct {
		name     string
		at       time.Time
		expected bool
	}{
		{name: "Week 0 fires", at: at(2025, 1, 6, 10, 0), expected: true},
		{name: "Week 1 is odd", at: at(2025, 1, 13, 10, 0), expected: false},
		{name: "Week 2 fires", at: at(2025, 1, 20, 10, 0), expected: true},
		{name: "Week 2 wrong weekday", at: at(2025, 1, 21, 10, 0), expected: false},
		{name: "Week 4 fires", at: at(2025, 2, 3, 10, 0), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFireNow(settings, tt.at))
		})
	}
}

func TestShouldFireNow_Monthly(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		at       time.Time
		expected bool
	}{
		{
			name:     "Matching day of month",
			settings: Settings{Frequency: Monthly, Monthly: MonthlySettings{Days: []int{1, 15}}},
			at:       at(2025, 1, 15, 11, 0),
			expected: true,
		},
		{
			name:     "Non-matching day",
			settings: Settings{Frequency: Monthly, Monthly: MonthlySettings{Days: []int{1, 15}}},
			at:       at(2025, 1, 16, 11, 0),
			expected: false,
		},
		{
			name:     "Empty day set is a wildcard",
			settings: Settings{Frequency: Monthly},
			at:       at(2025, 1, 23, 11, 0),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFireNow(NormalizeAt(tt.settings, tt.at), tt.at))
		})
	}
}

func TestShouldFireNow_Yearly(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		at       time.Time
		expected bool
	}{
		{
			name:     "Matching month, any day",
			settings: Settings{Frequency: Yearly, Yearly: YearlySettings{Months: []int{3}}},
			at:       at(2025, 3, 9, 8, 0),
			expected: true,
		},
		{
			name:     "Non-matching month",
			settings: Settings{Frequency: Yearly, Yearly: YearlySettings{Months: []int{3}}},
			at:       at(2025, 4, 9, 8, 0),
			expected: false,
		},
		{
			name: "Uniform day set across months",
			settings: Settings{Frequency: Yearly, Yearly: YearlySettings{
				Months: []int{3, 6}, UseSpecificDays: true, DaysAll: []int{10},
			}},
			at:       at(2025, 6, 10, 8, 0),
			expected: true,
		},
		{
			name: "Uniform day set rejects other days",
			settings: Settings{Frequency: Yearly, Yearly: YearlySettings{
				Months: []int{3, 6}, UseSpecificDays: true, DaysAll: []int{10},
			}},
			at:       at(2025, 6, 11, 8, 0),
			expected: false,
		},
		{
			name: "Per-month day sets",
			settings: Settings{Frequency: Yearly, Yearly: YearlySettings{
				Months:          []int{3, 6},
				UseSpecificDays: true,
				ApplyDaysToAll:  false,
				DaysByMonth:     map[int][]int{3: {1}, 6: {20}},
			}},
			at:       at(2025, 6, 20, 8, 0),
			expected: true,
		},
		{
			name: "Per-month day set misses",
			settings: Settings{Frequency: Yearly, Yearly: YearlySettings{
				Months:          []int{3, 6},
				UseSpecificDays: true,
				ApplyDaysToAll:  false,
				DaysByMonth:     map[int][]int{3: {1}, 6: {20}},
			}},
			at:       at(2025, 6, 1, 8, 0),
			expected: false,
		},
		{
			name: "Enabled but empty day set is a wildcard",
			settings: Settings{Frequency: Yearly, Yearly: YearlySettings{
				Months: []int{6}, UseSpecificDays: true,
			}},
			at:       at(2025, 6, 27, 8, 0),
			expected: true,
		},
		{
			name:     "Empty month set is a wildcard",
			settings: Settings{Frequency: Yearly},
			at:       at(2025, 8, 2, 8, 0),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFireNow(NormalizeAt(tt.settings, tt.at), tt.at))
		})
	}
}

func TestShouldFireNow_Hourly(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		at       time.Time
		expected bool
	}{
		{name: "Top of hour", settings: Settings{Frequency: Hourly}, at: at(2025, 1, 15, 10, 0), expected: true},
		{name: "Mid-hour misses", settings: Settings{Frequency: Hourly}, at: at(2025, 1, 15, 10, 20), expected: false},
		{
			name:     "Specific minute",
			settings: Settings{Frequency: Hourly, Hourly: HourlySettings{UseSpecificMinute: true, Minute: 15}},
			at:       at(2025, 1, 15, 10, 15),
			expected: true,
		},
		{
			name:     "Specific minute misses top of hour",
			settings: Settings{Frequency: Hourly, Hourly: HourlySettings{UseSpecificMinute: true, Minute: 15}},
			at:       at(2025, 1, 15, 10, 0),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFireNow(NormalizeAt(tt.settings, tt.at), tt.at))
		})
	}
}

func TestShouldFireNow_SpecificDates(t *testing.T) {
	base := Settings{
		// Frequency deliberately set to something that would never match,
		// to prove specific dates suppress the periodic gate.
		Frequency:     Weekly,
		Weekly:        WeeklySettings{Days: []string{"Sat"}},
		SpecificDates: SpecificDatesSettings{Enabled: true, Dates: []string{"2025-01-15", "2025-02-01"}},
	}

	timed := base
	timed.Time = mo.Some(ClockTime{Hour: 8, Minute: 0, Military: true})

	tests := []struct {
		name     string
		settings Settings
		at       time.Time
		expected bool
	}{
		{name: "Matching date, any time", settings: base, at: at(2025, 1, 15, 13, 37), expected: true},
		{name: "Non-matching date", settings: base, at: at(2025, 1, 16, 13, 37), expected: false},
		{name: "Matching date honors time", settings: timed, at: at(2025, 2, 1, 8, 0), expected: true},
		{name: "Matching date, wrong time", settings: timed, at: at(2025, 2, 1, 9, 0), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldFireNow(NormalizeAt(tt.settings, tt.at), tt.at))
		})
	}
}

func TestShouldFireNow_UnknownFrequency(t *testing.T) {
	s := NormalizeAt(Settings{Frequency: "fortnightly"}, at(2025, 1, 15, 0, 0))
	assert.False(t, ShouldFireNow(s, at(2025, 1, 15, 0, 0)))
}
