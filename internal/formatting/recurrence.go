package formatting

import (
	"fmt"
	"strings"

	"github.com/verdantcrew/crewcal/internal/model"
)

// RecurrenceLabel renders an event's recurrence rule as calendar-tooltip
// text, e.g. "Every week on Monday", "Monthly on the 4th", "Monthly on
// the last Friday". Returns "" for non-recurring events.
func RecurrenceLabel(ev model.AvailabilityEvent) string {
	if ev.Recurrence == nil {
		return ""
	}

	switch *ev.Recurrence {
	case model.RecurrenceEveryWeek:
		return weeklyLabel("Every week", ev.StartDate)
	case model.RecurrenceEveryOtherWeek:
		return weeklyLabel("Every other week", ev.StartDate)
	case model.RecurrenceEveryMonth:
		monthly := ev.MonthlyRecurrence
		if monthly == nil {
			return "Monthly"
		}
		switch monthly.Type {
		case model.MonthlyExactDate:
			return fmt.Sprintf("Monthly on the %s", monthly.MonthlyDate.Ordinal())
		case model.MonthlyWeekAndDay:
			return fmt.Sprintf("Monthly on the %s %s",
				string(monthly.MonthlyWeek), titleCase(string(monthly.MonthlyDayOfWeek)))
		}
		return "Monthly"
	}
	return ""
}

// weeklyLabel appends the weekday derived from the event's start date,
// falling back to the bare prefix when the date does not parse.
func weeklyLabel(prefix, startDate string) string {
	start, err := model.ParseDate(startDate)
	if err != nil {
		return prefix
	}
	return fmt.Sprintf("%s on %s", prefix, start.Weekday())
}

// TimeRangeLabel renders the clock-time span of an event for display:
// "All day" for all-day events, "09:00–12:00" otherwise, trimming the
// seconds the persisted HH:MM:SS form carries.
func TimeRangeLabel(ev model.AvailabilityEvent) string {
	if ev.AllDay {
		return "All day"
	}
	start := trimSeconds(ev.StartTime)
	end := trimSeconds(ev.EndTime)
	switch {
	case start != "" && end != "":
		return start + "–" + end
	case start != "":
		return "From " + start
	case end != "":
		return "Until " + end
	}
	return ""
}

func trimSeconds(t *string) string {
	if t == nil {
		return ""
	}
	parts := strings.Split(*t, ":")
	if len(parts) < 2 {
		return *t
	}
	return parts[0] + ":" + parts[1]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
