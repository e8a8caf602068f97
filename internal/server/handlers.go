package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/formatting"
	"github.com/verdantcrew/crewcal/internal/model"
	"github.com/verdantcrew/crewcal/internal/service"
)

// instanceResponse is an expanded instance plus the display labels the
// calendar views render in tooltips.
type instanceResponse struct {
	model.EventInstance
	RecurrenceLabel string `json:"recurrence_label,omitempty"`
	TimeLabel       string `json:"time_label,omitempty"`
}

func (s *Server) listAvailability(w http.ResponseWriter, r *http.Request) {
	from, ok := parseDateQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(w, r, "to")
	if !ok {
		return
	}
	if from.IsZero() != to.IsZero() {
		http.Error(w, "from and to must be supplied together", http.StatusBadRequest)
		return
	}

	instances, err := s.availability.ListExpanded(r.Context(), r.URL.Query().Get("team_member"), from, to)
	if err != nil {
		s.logger.Error("list availability failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]instanceResponse, 0, len(instances))
	for _, in := range instances {
		out = append(out, instanceResponse{
			EventInstance:   in,
			RecurrenceLabel: formatting.RecurrenceLabel(in.AvailabilityEvent),
			TimeLabel:       formatting.TimeRangeLabel(in.AvailabilityEvent),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var event model.AvailabilityEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.availability.CreateEvent(r.Context(), &event); err != nil {
		s.writeServiceError(w, "create event", err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var event model.AvailabilityEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	// The path id wins: editing one occurrence of a series is redirected
	// to the base event, so updates always address the whole series.
	id := r.PathValue("id")
	if key, ok := model.ParseInstanceID(id); ok {
		id = key.BaseID
	}
	event.ID = id

	if err := s.availability.UpdateEvent(r.Context(), &event); err != nil {
		s.writeServiceError(w, "update event", err)
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if key, ok := model.ParseInstanceID(id); ok {
		id = key.BaseID
	}

	if err := s.availability.DeleteEvent(r.Context(), id); err != nil {
		s.writeServiceError(w, "delete event", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTeamMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.availability.TeamMembers(r.Context())
	if err != nil {
		s.logger.Error("list team members failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrTeamMemberNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidEvent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseDateQuery reads an optional ISO date query parameter. A missing
// parameter yields a zero time; a malformed one writes a 400.
func parseDateQuery(w http.ResponseWriter, r *http.Request, key string) (time.Time, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return time.Time{}, true
	}
	t, err := model.ParseDate(v)
	if err != nil {
		http.Error(w, "invalid "+key+" date, want YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return t, true
}
