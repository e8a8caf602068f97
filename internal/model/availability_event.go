package model

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the calendar-date form used everywhere in this app:
// ISO dates with no time component.
const DateLayout = "2006-01-02"

type EventType string

const (
	EventTypeStartsLate          EventType = "starts_late"
	EventTypeEndsEarly           EventType = "ends_early"
	EventTypePersonalAppointment EventType = "personal_appointment"
	EventTypeNotWorking          EventType = "not_working"
	EventTypeVacation            EventType = "vacation"
	EventTypeCustom              EventType = "custom"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeStartsLate, EventTypeEndsEarly, EventTypePersonalAppointment,
		EventTypeNotWorking, EventTypeVacation, EventTypeCustom:
		return true
	}
	return false
}

type Recurrence string

const (
	RecurrenceEveryWeek      Recurrence = "every_week"
	RecurrenceEveryOtherWeek Recurrence = "every_other_week"
	RecurrenceEveryMonth     Recurrence = "every_month"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceEveryWeek, RecurrenceEveryOtherWeek, RecurrenceEveryMonth:
		return true
	}
	return false
}

type Weekday string

const (
	WeekdaySunday    Weekday = "sunday"
	WeekdayMonday    Weekday = "monday"
	WeekdayTuesday   Weekday = "tuesday"
	WeekdayWednesday Weekday = "wednesday"
	WeekdayThursday  Weekday = "thursday"
	WeekdayFriday    Weekday = "friday"
	WeekdaySaturday  Weekday = "saturday"
)

var weekdayNames = map[Weekday]time.Weekday{
	WeekdaySunday:    time.Sunday,
	WeekdayMonday:    time.Monday,
	WeekdayTuesday:   time.Tuesday,
	WeekdayWednesday: time.Wednesday,
	WeekdayThursday:  time.Thursday,
	WeekdayFriday:    time.Friday,
	WeekdaySaturday:  time.Saturday,
}

// Time converts the weekday to its time.Weekday equivalent.
func (w Weekday) Time() (time.Weekday, bool) {
	d, ok := weekdayNames[w]
	return d, ok
}

func (w Weekday) Valid() bool {
	_, ok := weekdayNames[w]
	return ok
}

type MonthlyWeek string

const (
	MonthlyWeekFirst  MonthlyWeek = "first"
	MonthlyWeekSecond MonthlyWeek = "second"
	MonthlyWeekThird  MonthlyWeek = "third"
	MonthlyWeekFourth MonthlyWeek = "fourth"
	MonthlyWeekLast   MonthlyWeek = "last"
)

// Nth returns the 1-based occurrence index within a month, with -1 for
// the last occurrence.
func (w MonthlyWeek) Nth() (int, bool) {
	switch w {
	case MonthlyWeekFirst:
		return 1, true
	case MonthlyWeekSecond:
		return 2, true
	case MonthlyWeekThird:
		return 3, true
	case MonthlyWeekFourth:
		return 4, true
	case MonthlyWeekLast:
		return -1, true
	}
	return 0, false
}

func (w MonthlyWeek) Valid() bool {
	_, ok := w.Nth()
	return ok
}

type MonthlyRecurrenceType string

const (
	MonthlyExactDate  MonthlyRecurrenceType = "exact_date"
	MonthlyWeekAndDay MonthlyRecurrenceType = "week_and_day"
)

// MonthlyRecurrence is the tagged variant describing how a monthly event
// repeats: either on a fixed day of the month, or on the Nth (or last)
// weekday of the month. The tag is validated once at the boundary so
// downstream code can switch on Type without field-presence checks.
type MonthlyRecurrence struct {
	Type             MonthlyRecurrenceType `json:"type"`
	MonthlyDate      MonthDay              `json:"monthly_date,omitempty"`
	MonthlyWeek      MonthlyWeek           `json:"monthly_week,omitempty"`
	MonthlyDayOfWeek Weekday               `json:"monthly_day_of_week,omitempty"`
}

// Validate checks the variant's internal consistency.
func (m MonthlyRecurrence) Validate() error {
	switch m.Type {
	case MonthlyExactDate:
		if !m.MonthlyDate.Valid() {
			return fmt.Errorf("monthly_date must be between 1 and 31, got %d", int(m.MonthlyDate))
		}
	case MonthlyWeekAndDay:
		if !m.MonthlyWeek.Valid() {
			return fmt.Errorf("invalid monthly_week %q", m.MonthlyWeek)
		}
		if !m.MonthlyDayOfWeek.Valid() {
			return fmt.Errorf("invalid monthly_day_of_week %q", m.MonthlyDayOfWeek)
		}
	default:
		return fmt.Errorf("invalid monthly recurrence type %q", m.Type)
	}
	return nil
}

// AvailabilityEvent is the persisted, canonical availability record:
// an absence, late start, or custom event for one team member, with an
// optional weekly/bi-weekly/monthly recurrence rule.
type AvailabilityEvent struct {
	ID                string             `json:"id"`
	TeamMemberID      string             `json:"team_member_id"`
	TeamMemberName    string             `json:"team_member_name,omitempty"`
	EventType         EventType          `json:"event_type"`
	CustomEventName   *string            `json:"custom_event_name,omitempty"`
	StartDate         string             `json:"start_date"`
	EndDate           *string            `json:"end_date,omitempty"`
	StartTime         *string            `json:"start_time,omitempty"`
	EndTime           *string            `json:"end_time,omitempty"`
	AllDay            bool               `json:"all_day"`
	Recurrence        *Recurrence        `json:"recurrence,omitempty"`
	MonthlyRecurrence *MonthlyRecurrence `json:"monthly_recurrence,omitempty"`
	CreatedAt         time.Time          `json:"created_at,omitzero"`
	UpdatedAt         time.Time          `json:"updated_at,omitzero"`
}

// IsRecurring reports whether the event carries a recurrence rule.
func (e *AvailabilityEvent) IsRecurring() bool {
	return e.Recurrence != nil
}

var clockTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)

// Validate enforces the record invariants: a known event type, a parseable
// start date, custom_event_name present iff the type is custom, a monthly
// rule present iff the recurrence is monthly, and no clock times on
// all-day events. Records are validated here, at the persistence boundary;
// the expansion engine assumes validated input.
func (e *AvailabilityEvent) Validate() error {
	if !e.EventType.Valid() {
		return fmt.Errorf("invalid event type %q", e.EventType)
	}
	if e.TeamMemberID == "" {
		return fmt.Errorf("team_member_id is required")
	}
	if _, err := ParseDate(e.StartDate); err != nil {
		return fmt.Errorf("invalid start_date %q", e.StartDate)
	}
	if e.EndDate != nil {
		end, err := ParseDate(*e.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end_date %q", *e.EndDate)
		}
		start, _ := ParseDate(e.StartDate)
		if end.Before(start) {
			return fmt.Errorf("end_date %s is before start_date %s", *e.EndDate, e.StartDate)
		}
	}

	if e.EventType == EventTypeCustom {
		if e.CustomEventName == nil || *e.CustomEventName == "" {
			return fmt.Errorf("custom events require custom_event_name")
		}
	} else if e.CustomEventName != nil {
		return fmt.Errorf("custom_event_name is only allowed on custom events")
	}

	if e.AllDay {
		if e.StartTime != nil || e.EndTime != nil {
			return fmt.Errorf("all-day events must not carry start_time or end_time")
		}
	} else {
		for _, t := range []*string{e.StartTime, e.EndTime} {
			if t != nil && !clockTimePattern.MatchString(*t) {
				return fmt.Errorf("invalid clock time %q, want HH:MM:SS", *t)
			}
		}
	}

	if e.Recurrence == nil {
		if e.MonthlyRecurrence != nil {
			return fmt.Errorf("monthly_recurrence requires recurrence %q", RecurrenceEveryMonth)
		}
		return nil
	}
	if !e.Recurrence.Valid() {
		return fmt.Errorf("invalid recurrence %q", *e.Recurrence)
	}
	if *e.Recurrence == RecurrenceEveryMonth {
		if e.MonthlyRecurrence == nil {
			return fmt.Errorf("recurrence %q requires monthly_recurrence", RecurrenceEveryMonth)
		}
		if err := e.MonthlyRecurrence.Validate(); err != nil {
			return fmt.Errorf("monthly_recurrence: %w", err)
		}
	} else if e.MonthlyRecurrence != nil {
		return fmt.Errorf("monthly_recurrence is only allowed with recurrence %q", RecurrenceEveryMonth)
	}

	return nil
}

// ParseDate parses an ISO calendar date into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a time as an ISO calendar date, dropping any time
// component.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
