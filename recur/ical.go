package recur

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

// rruleHorizon bounds RRULE expansion so open-ended rules terminate.
const rruleHorizon = 2 * 365 * 24 * time.Hour

var rruleWeekdays = map[string]rrule.Weekday{
	"Mon": rrule.MO,
	"Tue": rrule.TU,
	"Wed": rrule.WE,
	"Thu": rrule.TH,
	"Fri": rrule.FR,
	"Sat": rrule.SA,
	"Sun": rrule.SU,
}

// ToRRule renders the periodic settings as an RFC 5545 RRULE string (without
// the "RRULE:" prefix) for calendar interop. It returns false for
// specific-dates mode, which maps to RDATE entries instead, and for unknown
// frequencies.
//
// The mapping is lossy where the settings grammar exceeds RFC 5545: a single
// RRULE cannot express per-month day sets, so split yearly configurations
// export their month filter only, and the fires-whenever-checked policy
// collapses to the occurrence instants the rule produces.
func ToRRule(s Settings) (string, bool) {
	if s.SpecificDates.Enabled {
		return "", false
	}

	opt := rrule.ROption{}

	switch s.Frequency {
	case Hourly:
		opt.Freq = rrule.HOURLY
		if s.Hourly.UseSpecificMinute {
			opt.Byminute = []int{s.Hourly.Minute}
		} else {
			opt.Byminute = []int{0}
		}
	case Daily:
		opt.Freq = rrule.DAILY
	case Weekly:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = weekdayOptions(s.Weekly.Days)
	case Biweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
		opt.Byweekday = weekdayOptions(s.Biweekly.Days)
	case Monthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = append([]int{}, s.Monthly.Days...)
	case Yearly:
		opt.Freq = rrule.YEARLY
		opt.Bymonth = append([]int{}, s.Yearly.Months...)
		if s.Yearly.UseSpecificDays && s.Yearly.ApplyDaysToAll {
			opt.Bymonthday = append([]int{}, s.Yearly.DaysAll...)
		}
	default:
		return "", false
	}

	if t, ok := s.Time.Get(); ok && s.Frequency != Hourly {
		opt.Byhour = []int{t.Hour24()}
		opt.Byminute = []int{t.Minute}
	}

	if !s.Indefinitely && s.Count > 0 {
		opt.Count = s.Count
	}

	if _, err := rrule.NewRRule(opt); err != nil {
		return "", false
	}
	return opt.RRuleString(), true
}

func weekdayOptions(days []string) []rrule.Weekday {
	out := make([]rrule.Weekday, 0, len(days))
	for _, day := range days {
		if wd, ok := rruleWeekdays[day]; ok {
			out = append(out, wd)
		}
	}
	return out
}

// RRuleOccurrences expands the settings through the rrule library, as a
// cross-check against the native calculator and for interop previews. For
// specific-dates mode it expands the configured dates directly. At most max
// occurrences within a two-year horizon are returned, all strictly after
// from.
func RRuleOccurrences(s Settings, from time.Time, max int) ([]time.Time, error) {
	if s.SpecificDates.Enabled {
		return specificDateOccurrences(s, from, max), nil
	}

	ruleStr, ok := ToRRule(s)
	if !ok {
		return nil, fmt.Errorf("settings with frequency %q have no RRULE form", s.Frequency)
	}

	// DTSTART anchors the expansion at the starting instant.
	dtstart := from.UTC().Format("20060102T150405Z")
	full := fmt.Sprintf("DTSTART:%s\nRRULE:%s", dtstart, ruleStr)

	set, err := rrule.StrToRRuleSet(full)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE %q: %w", ruleStr, err)
	}

	occurrences := set.Between(from, from.Add(rruleHorizon), false)
	if len(occurrences) > max {
		occurrences = occurrences[:max]
	}
	return occurrences, nil
}

func specificDateOccurrences(s Settings, from time.Time, max int) []time.Time {
	dates := append([]string{}, s.SpecificDates.Dates...)
	sort.Strings(dates)

	out := make([]time.Time, 0, len(dates))
	for _, ds := range dates {
		day, err := time.ParseInLocation(DateLayout, ds, from.Location())
		if err != nil {
			continue
		}
		slot := placeOnDay(day, s)
		if slot.After(from) {
			out = append(out, slot)
		}
		if len(out) >= max {
			break
		}
	}
	return out
}

// TodoItem is one recurring task to export as a VTODO component.
type TodoItem struct {
	UID      string
	Summary  string
	Settings Settings
}

// ExportCalendar builds a VCALENDAR of VTODOs, one per recurring task, with
// RRULE or RDATE properties describing the recurrence. The result encodes
// with go-ical's encoder.
func ExportCalendar(items []TodoItem) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//taskcycle//recurring tasks//EN")

	for _, item := range items {
		todo := &ical.Component{Name: ical.CompToDo, Props: make(ical.Props)}
		todo.Props.SetText(ical.PropUID, item.UID)
		todo.Props.SetText(ical.PropSummary, item.Summary)
		todo.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

		if rule, ok := ToRRule(item.Settings); ok {
			todo.Props.Set(&ical.Prop{Name: ical.PropRecurrenceRule, Value: rule})
		} else if item.Settings.SpecificDates.Enabled {
			if rdate := rdateValue(item.Settings.SpecificDates.Dates); rdate != "" {
				prop := &ical.Prop{Name: ical.PropRecurrenceDates, Value: rdate}
				prop.Params = ical.Params{ical.ParamValue: []string{"DATE"}}
				todo.Props.Set(prop)
			}
		}

		cal.Children = append(cal.Children, todo)
	}

	return cal
}

func rdateValue(dates []string) string {
	values := make([]string, 0, len(dates))
	for _, ds := range dates {
		day, err := time.Parse(DateLayout, ds)
		if err != nil {
			continue
		}
		values = append(values, day.Format("20060102"))
	}
	return strings.Join(values, ",")
}
