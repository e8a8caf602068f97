package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func recPtr(r Recurrence) *Recurrence { return &r }

func validEvent() AvailabilityEvent {
	return AvailabilityEvent{
		ID:           "ev-1",
		TeamMemberID: "tm-1",
		EventType:    EventTypeVacation,
		StartDate:    "2025-08-20",
		AllDay:       true,
	}
}

func TestValidateAcceptsWellFormedEvents(t *testing.T) {
	t.Run("single all-day", func(t *testing.T) {
		ev := validEvent()
		require.NoError(t, ev.Validate())
	})

	t.Run("timed", func(t *testing.T) {
		ev := validEvent()
		ev.AllDay = false
		ev.StartTime = strPtr("09:00:00")
		ev.EndTime = strPtr("12:30:00")
		require.NoError(t, ev.Validate())
	})

	t.Run("custom with name", func(t *testing.T) {
		ev := validEvent()
		ev.EventType = EventTypeCustom
		ev.CustomEventName = strPtr("Equipment pickup")
		require.NoError(t, ev.Validate())
	})

	t.Run("weekly", func(t *testing.T) {
		ev := validEvent()
		ev.Recurrence = recPtr(RecurrenceEveryWeek)
		require.NoError(t, ev.Validate())
	})

	t.Run("monthly exact date", func(t *testing.T) {
		ev := validEvent()
		ev.Recurrence = recPtr(RecurrenceEveryMonth)
		ev.MonthlyRecurrence = &MonthlyRecurrence{
			Type:        MonthlyExactDate,
			MonthlyDate: 20,
		}
		require.NoError(t, ev.Validate())
	})

	t.Run("monthly week and day", func(t *testing.T) {
		ev := validEvent()
		ev.Recurrence = recPtr(RecurrenceEveryMonth)
		ev.MonthlyRecurrence = &MonthlyRecurrence{
			Type:             MonthlyWeekAndDay,
			MonthlyWeek:      MonthlyWeekLast,
			MonthlyDayOfWeek: WeekdayFriday,
		}
		require.NoError(t, ev.Validate())
	})
}

func TestValidateRejectsBrokenEvents(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AvailabilityEvent)
	}{
		{"unknown event type", func(ev *AvailabilityEvent) {
			ev.EventType = "long_lunch"
		}},
		{"missing team member", func(ev *AvailabilityEvent) {
			ev.TeamMemberID = ""
		}},
		{"unparseable start date", func(ev *AvailabilityEvent) {
			ev.StartDate = "08/20/2025"
		}},
		{"end before start", func(ev *AvailabilityEvent) {
			ev.EndDate = strPtr("2025-08-01")
		}},
		{"custom without name", func(ev *AvailabilityEvent) {
			ev.EventType = EventTypeCustom
		}},
		{"custom name on non-custom type", func(ev *AvailabilityEvent) {
			ev.CustomEventName = strPtr("oops")
		}},
		{"times on all-day event", func(ev *AvailabilityEvent) {
			ev.StartTime = strPtr("09:00:00")
		}},
		{"bad clock time", func(ev *AvailabilityEvent) {
			ev.AllDay = false
			ev.StartTime = strPtr("9am")
		}},
		{"unknown recurrence", func(ev *AvailabilityEvent) {
			ev.Recurrence = recPtr("yearly")
		}},
		{"monthly without rule", func(ev *AvailabilityEvent) {
			ev.Recurrence = recPtr(RecurrenceEveryMonth)
		}},
		{"monthly rule without monthly recurrence", func(ev *AvailabilityEvent) {
			ev.Recurrence = recPtr(RecurrenceEveryWeek)
			ev.MonthlyRecurrence = &MonthlyRecurrence{Type: MonthlyExactDate, MonthlyDate: 5}
		}},
		{"monthly rule without recurrence", func(ev *AvailabilityEvent) {
			ev.MonthlyRecurrence = &MonthlyRecurrence{Type: MonthlyExactDate, MonthlyDate: 5}
		}},
		{"monthly rule with bad day", func(ev *AvailabilityEvent) {
			ev.Recurrence = recPtr(RecurrenceEveryMonth)
			ev.MonthlyRecurrence = &MonthlyRecurrence{Type: MonthlyExactDate, MonthlyDate: 42}
		}},
		{"monthly rule with bad weekday", func(ev *AvailabilityEvent) {
			ev.Recurrence = recPtr(RecurrenceEveryMonth)
			ev.MonthlyRecurrence = &MonthlyRecurrence{
				Type:             MonthlyWeekAndDay,
				MonthlyWeek:      MonthlyWeekFirst,
				MonthlyDayOfWeek: "someday",
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := validEvent()
			tc.mutate(&ev)
			assert.Error(t, ev.Validate())
		})
	}
}

func TestInstanceIDRoundTrip(t *testing.T) {
	cases := []InstanceID{
		{BaseID: "ev-1", Date: "2025-08-20"},
		{BaseID: "7e2b0c9a-5d6f-4a13-9a77-52b1f2f6f001", Date: "2025-01-06"},
		{BaseID: "id-with-dashes-inside", Date: "2025-12-31"},
	}
	for _, key := range cases {
		parsed, ok := ParseInstanceID(key.String())
		require.True(t, ok, "id %s", key.String())
		assert.Equal(t, key, parsed)
	}
}

func TestParseInstanceIDRejectsPlainIDs(t *testing.T) {
	for _, id := range []string{"ev-1", "", "2025-08-20", "ev-1-2025-13-99x"} {
		_, ok := ParseInstanceID(id)
		assert.False(t, ok, "id %q", id)
	}
}

func TestParseInstanceIDRejectsImpossibleDates(t *testing.T) {
	_, ok := ParseInstanceID("ev-1-2025-13-40")
	assert.False(t, ok)
}
