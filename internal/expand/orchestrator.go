package expand

import (
	"time"

	"github.com/verdantcrew/crewcal/internal/model"
)

// DefaultHorizonDays is the default expansion window length used when a
// caller does not supply an explicit range.
const DefaultHorizonDays = 90

// DefaultRange returns the default expansion window: the reference date
// through 90 days out, inclusive. Callers pass their own notion of "now"
// so the policy stays a pure function of its input.
func DefaultRange(reference time.Time) (time.Time, time.Time) {
	start := truncateToDate(reference)
	return start, start.AddDate(0, 0, DefaultHorizonDays)
}

// ExpandAll fans expansion out over a collection of base events and
// concatenates the results: input-event order first, ascending occurrence
// date within each event. Idempotent and side-effect-free; calling twice
// with the same inputs yields a deep-equal result, so callers re-run it
// after every state change instead of maintaining incremental state.
func (x *Expander) ExpandAll(events []model.AvailabilityEvent, windowStart, windowEnd time.Time) []model.EventInstance {
	instances := make([]model.EventInstance, 0, len(events))
	for _, ev := range events {
		dates := x.OccurrenceDates(ev, windowStart, windowEnd)
		if len(dates) == 0 {
			continue
		}
		if ev.Recurrence == nil {
			// One pass-through instance per non-recurring event,
			// regardless of how many days its span covers.
			instances = append(instances, Materialize(ev, dates[0]))
			continue
		}
		for _, d := range dates {
			instances = append(instances, Materialize(ev, d))
		}
	}
	return instances
}

// MergeUpdate applies an edit to one base event against an
// already-expanded instance list: every instance of the edited series is
// dropped, the surviving base events are reconstructed, the edited base
// is added back, and the full set is re-expanded. Full re-expansion on
// every edit trades a little work for guaranteed consistency; the
// collections involved are small.
func (x *Expander) MergeUpdate(instances []model.EventInstance, updated model.AvailabilityEvent, windowStart, windowEnd time.Time) []model.EventInstance {
	bases := ReconstructBases(instances, updated.ID)
	bases = append(bases, updated)
	return x.ExpandAll(bases, windowStart, windowEnd)
}

// ReconstructBases recovers a base-event set from an expanded instance
// list, excluding the series identified by excludeID. A recurring base is
// rebuilt from its first remaining instance: the series id is restored
// and the synthesized occurrence dates and markers are stripped, leaving
// the first occurrence as the series anchor. Non-recurring events pass
// through untouched.
func ReconstructBases(instances []model.EventInstance, excludeID string) []model.AvailabilityEvent {
	seen := make(map[string]bool)
	bases := make([]model.AvailabilityEvent, 0, len(instances))
	for _, in := range instances {
		if !in.IsInstance {
			if in.ID != excludeID {
				bases = append(bases, in.AvailabilityEvent)
			}
			continue
		}
		seriesID := in.OriginalEventID
		if seriesID == excludeID || seen[seriesID] {
			continue
		}
		seen[seriesID] = true
		base := in.AvailabilityEvent
		base.ID = seriesID
		// The materializer rewrote the end date to the occurrence;
		// clearing it keeps the recurrence open-ended again.
		base.EndDate = nil
		bases = append(bases, base)
	}
	return bases
}

// RemoveSeries drops a base event and every instance derived from it.
func RemoveSeries(instances []model.EventInstance, baseID string) []model.EventInstance {
	kept := make([]model.EventInstance, 0, len(instances))
	for _, in := range instances {
		if in.ID == baseID || in.OriginalEventID == baseID {
			continue
		}
		kept = append(kept, in)
	}
	return kept
}
