package model

import "regexp"

// EventInstance is a transient materialization of an AvailabilityEvent
// onto one concrete calendar date. Instances are derived on every
// expansion and never persisted; edits must be redirected to the base
// event, which updates the whole series.
type EventInstance struct {
	AvailabilityEvent

	// IsInstance, IsRecurring and OriginalEventID are set only on
	// instances synthesized from a recurring base. A non-recurring
	// event passes through expansion unchanged, original id included.
	IsInstance      bool   `json:"is_instance,omitempty"`
	IsRecurring     bool   `json:"is_recurring,omitempty"`
	OriginalEventID string `json:"original_event_id,omitempty"`
}

// Key returns the structured identity of the instance. For synthesized
// instances this is the originating series id plus the occurrence date;
// for pass-through events the base id with its start date.
func (i *EventInstance) Key() InstanceID {
	if i.IsInstance {
		return InstanceID{BaseID: i.OriginalEventID, Date: i.StartDate}
	}
	return InstanceID{BaseID: i.AvailabilityEvent.ID, Date: i.StartDate}
}

// InstanceID identifies one occurrence of a series. It is the structured
// counterpart of the display id: the string form concatenates the two
// parts, but consumers should carry the pair rather than parse strings.
type InstanceID struct {
	BaseID string `json:"base_id"`
	Date   string `json:"date"` // ISO calendar date of the occurrence
}

// String renders the display id, `{baseId}-{YYYY-MM-DD}`.
func (k InstanceID) String() string {
	return k.BaseID + "-" + k.Date
}

var instanceIDSuffix = regexp.MustCompile(`^(.+)-(\d{4}-\d{2}-\d{2})$`)

// ParseInstanceID splits a display id back into its parts. Stripping the
// trailing date suffix recovers the base id exactly, provided base ids do
// not themselves end in a date-shaped suffix. Returns false when the
// string carries no date suffix (i.e. it is a plain base-event id).
func ParseInstanceID(s string) (InstanceID, bool) {
	m := instanceIDSuffix.FindStringSubmatch(s)
	if m == nil {
		return InstanceID{}, false
	}
	if _, err := ParseDate(m[2]); err != nil {
		return InstanceID{}, false
	}
	return InstanceID{BaseID: m[1], Date: m[2]}, true
}
