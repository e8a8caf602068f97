package expand

import (
	"time"

	"github.com/verdantcrew/crewcal/internal/model"
)

// Materialize builds the event instance for one occurrence date. Recurring
// events get their dates rewritten to the occurrence, a synthesized
// reversible id, and provenance markers pointing back at the series.
// Non-recurring events pass through untouched — original id, original
// multi-day span, no markers — since they are not instances of anything.
// Pure transformation, no side effects.
func Materialize(ev model.AvailabilityEvent, occurrence time.Time) model.EventInstance {
	if ev.Recurrence == nil {
		return model.EventInstance{AvailabilityEvent: ev}
	}

	date := model.FormatDate(occurrence)
	instance := model.EventInstance{
		AvailabilityEvent: ev,
		IsInstance:        true,
		IsRecurring:       true,
		OriginalEventID:   ev.ID,
	}
	instance.StartDate = date
	instance.EndDate = &date
	instance.ID = model.InstanceID{BaseID: ev.ID, Date: date}.String()
	return instance
}
