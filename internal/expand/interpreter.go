package expand

import (
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/model"
)

// Expander turns base availability events into concrete calendar-date
// instances within a requested window. It is stateless and safe for
// concurrent use; every call recomputes from its inputs.
type Expander struct {
	logger *zap.Logger
}

// NewExpander creates an expander. The logger records events that were
// skipped because of malformed data.
func NewExpander(logger *zap.Logger) *Expander {
	return &Expander{logger: logger}
}

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// OccurrenceDates computes the ascending, duplicate-free sequence of
// calendar dates on which the event occurs within [windowStart, windowEnd]
// (inclusive on both ends). Occurrences never fall before the event's
// start date, and an end date on a recurring event is an inclusive hard
// cutoff. A malformed event contributes no dates: one bad record must not
// abort expansion of the whole collection.
func (x *Expander) OccurrenceDates(ev model.AvailabilityEvent, windowStart, windowEnd time.Time) []time.Time {
	if windowEnd.Before(windowStart) {
		return nil
	}

	start, err := model.ParseDate(ev.StartDate)
	if err != nil {
		x.logger.Warn("skipping event with unparseable start date",
			zap.String("event_id", ev.ID),
			zap.String("start_date", ev.StartDate))
		return nil
	}

	windowStart = truncateToDate(windowStart)
	windowEnd = truncateToDate(windowEnd)

	if ev.Recurrence == nil {
		return x.singleOccurrence(ev, start, windowStart, windowEnd)
	}
	return x.recurringOccurrences(ev, start, windowStart, windowEnd)
}

// singleOccurrence handles the no-recurrence case: the interval
// [start, end ?? start], clipped to the window, one date per day.
func (x *Expander) singleOccurrence(ev model.AvailabilityEvent, start, windowStart, windowEnd time.Time) []time.Time {
	end := start
	if ev.EndDate != nil {
		parsed, err := model.ParseDate(*ev.EndDate)
		if err != nil {
			x.logger.Warn("skipping event with unparseable end date",
				zap.String("event_id", ev.ID),
				zap.String("end_date", *ev.EndDate))
			return nil
		}
		end = parsed
	}

	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// recurringOccurrences interprets the recurrence rule via an RRULE.
// Weekly and bi-weekly rules step from the start date in 7- or 14-day
// increments; monthly rules fire either on an exact day of month (months
// without that day are skipped, never clamped to month end) or on the
// Nth/last weekday of each month.
func (x *Expander) recurringOccurrences(ev model.AvailabilityEvent, start, windowStart, windowEnd time.Time) []time.Time {
	opt := rrule.ROption{Dtstart: start}

	if ev.EndDate != nil {
		until, err := model.ParseDate(*ev.EndDate)
		if err != nil {
			x.logger.Warn("skipping recurring event with unparseable end date",
				zap.String("event_id", ev.ID),
				zap.String("end_date", *ev.EndDate))
			return nil
		}
		opt.Until = until
	}

	switch *ev.Recurrence {
	case model.RecurrenceEveryWeek:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 1
	case model.RecurrenceEveryOtherWeek:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
	case model.RecurrenceEveryMonth:
		monthly := ev.MonthlyRecurrence
		if monthly == nil {
			x.logger.Warn("skipping monthly event without a monthly rule",
				zap.String("event_id", ev.ID))
			return nil
		}
		opt.Freq = rrule.MONTHLY
		opt.Interval = 1
		switch monthly.Type {
		case model.MonthlyExactDate:
			opt.Bymonthday = []int{int(monthly.MonthlyDate)}
		case model.MonthlyWeekAndDay:
			nth, ok := monthly.MonthlyWeek.Nth()
			if !ok {
				x.logger.Warn("skipping monthly event with unknown week selector",
					zap.String("event_id", ev.ID),
					zap.String("monthly_week", string(monthly.MonthlyWeek)))
				return nil
			}
			weekday, ok := monthly.MonthlyDayOfWeek.Time()
			if !ok {
				x.logger.Warn("skipping monthly event with unknown weekday",
					zap.String("event_id", ev.ID),
					zap.String("monthly_day_of_week", string(monthly.MonthlyDayOfWeek)))
				return nil
			}
			wd := rruleWeekdays[weekday]
			opt.Byweekday = []rrule.Weekday{wd.Nth(nth)}
		default:
			x.logger.Warn("skipping monthly event with unknown rule type",
				zap.String("event_id", ev.ID),
				zap.String("monthly_type", string(monthly.Type)))
			return nil
		}
	default:
		x.logger.Warn("skipping event with unknown recurrence",
			zap.String("event_id", ev.ID),
			zap.String("recurrence", string(*ev.Recurrence)))
		return nil
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		x.logger.Warn("skipping event with unbuildable recurrence rule",
			zap.String("event_id", ev.ID),
			zap.Error(err))
		return nil
	}

	return rule.Between(windowStart, windowEnd, true)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
