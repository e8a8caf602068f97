package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/expand"
	"github.com/verdantcrew/crewcal/internal/model"
	"github.com/verdantcrew/crewcal/internal/service"
)

// stubAvailability backs the handlers with an in-memory event set and an
// in-process expander, standing in for the Postgres-backed service.
type stubAvailability struct {
	events  map[string]model.AvailabilityEvent
	members []*model.TeamMember

	lastFrom, lastTo time.Time
	deletedIDs       []string
}

func newStub() *stubAvailability {
	return &stubAvailability{events: make(map[string]model.AvailabilityEvent)}
}

func (s *stubAvailability) ListExpanded(_ context.Context, teamMemberID string, from, to time.Time) ([]model.EventInstance, error) {
	if from.IsZero() || to.IsZero() {
		from, to = expand.DefaultRange(time.Now())
	}
	s.lastFrom, s.lastTo = from, to

	var events []model.AvailabilityEvent
	for _, ev := range s.events {
		if teamMemberID == "" || ev.TeamMemberID == teamMemberID {
			events = append(events, ev)
		}
	}
	return expand.NewExpander(zap.NewNop()).ExpandAll(events, from, to), nil
}

func (s *stubAvailability) CreateEvent(_ context.Context, event *model.AvailabilityEvent) error {
	if err := event.Validate(); err != nil {
		return service.ErrInvalidEvent
	}
	if event.ID == "" {
		event.ID = "generated-id"
	}
	s.events[event.ID] = *event
	return nil
}

func (s *stubAvailability) UpdateEvent(_ context.Context, event *model.AvailabilityEvent) error {
	if _, ok := s.events[event.ID]; !ok {
		return service.ErrEventNotFound
	}
	s.events[event.ID] = *event
	return nil
}

func (s *stubAvailability) DeleteEvent(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return service.ErrEventNotFound
	}
	delete(s.events, id)
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubAvailability) TeamMembers(context.Context) ([]*model.TeamMember, error) {
	return s.members, nil
}

func recPtr(r model.Recurrence) *model.Recurrence { return &r }

func weeklyVacation(id string) model.AvailabilityEvent {
	return model.AvailabilityEvent{
		ID:           id,
		TeamMemberID: "tm-1",
		EventType:    model.EventTypeVacation,
		StartDate:    "2025-01-06",
		AllDay:       true,
		Recurrence:   recPtr(model.RecurrenceEveryWeek),
	}
}

func TestListAvailability(t *testing.T) {
	stub := newStub()
	stub.events["ev-1"] = weeklyVacation("ev-1")
	srv := New(stub, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet,
		"/api/availability?from=2025-01-01&to=2025-01-31", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out []instanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 4)
	assert.Equal(t, "ev-1-2025-01-06", out[0].ID)
	assert.Equal(t, "Every week on Monday", out[0].RecurrenceLabel)
	assert.Equal(t, "All day", out[0].TimeLabel)
}

func TestListAvailabilityDefaultsWindow(t *testing.T) {
	stub := newStub()
	srv := New(stub, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/availability", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, expand.DefaultHorizonDays,
		int(stub.lastTo.Sub(stub.lastFrom).Hours()/24))
}

func TestListAvailabilityRejectsHalfWindow(t *testing.T) {
	srv := New(newStub(), zap.NewNop())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/availability?from=2025-01-01", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAvailabilityRejectsBadDate(t *testing.T) {
	srv := New(newStub(), zap.NewNop())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/availability?from=January&to=2025-01-31", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEvent(t *testing.T) {
	stub := newStub()
	srv := New(stub, zap.NewNop())

	body, _ := json.Marshal(map[string]any{
		"team_member_id": "tm-1",
		"event_type":     "vacation",
		"start_date":     "2025-08-20",
		"all_day":        true,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/availability", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.AvailabilityEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "generated-id", created.ID)
	assert.Contains(t, stub.events, "generated-id")
}

func TestCreateEventNormalizesNumericMonthDay(t *testing.T) {
	stub := newStub()
	srv := New(stub, zap.NewNop())

	// The language parser emits numeric month-days; they normalize to
	// the ordinal form on the way in and out.
	body := []byte(`{
		"team_member_id": "tm-1",
		"event_type": "not_working",
		"start_date": "2025-08-04",
		"all_day": true,
		"recurrence": "every_month",
		"monthly_recurrence": {"type": "exact_date", "monthly_date": 4}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/availability", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"monthly_date":"4th"`)

	stored := stub.events["generated-id"]
	require.NotNil(t, stored.MonthlyRecurrence)
	assert.Equal(t, model.MonthDay(4), stored.MonthlyRecurrence.MonthlyDate)
}

func TestCreateEventRejectsInvalid(t *testing.T) {
	srv := New(newStub(), zap.NewNop())

	body := []byte(`{"team_member_id": "tm-1", "event_type": "nap", "start_date": "2025-08-20"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/availability", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateEventRedirectsInstanceIDToSeries(t *testing.T) {
	stub := newStub()
	stub.events["ev-1"] = weeklyVacation("ev-1")
	srv := New(stub, zap.NewNop())

	updated := weeklyVacation("ev-1")
	updated.EventType = model.EventTypeNotWorking
	body, _ := json.Marshal(updated)

	// Editing one occurrence addresses the whole series.
	req := httptest.NewRequest(http.MethodPut,
		"/api/availability/ev-1-2025-01-13", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.EventTypeNotWorking, stub.events["ev-1"].EventType)
}

func TestUpdateEventNotFound(t *testing.T) {
	srv := New(newStub(), zap.NewNop())

	body, _ := json.Marshal(weeklyVacation("ghost"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPut,
		"/api/availability/ghost", bytes.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEventRedirectsInstanceIDToSeries(t *testing.T) {
	stub := newStub()
	stub.events["ev-1"] = weeklyVacation("ev-1")
	srv := New(stub, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete,
		"/api/availability/ev-1-2025-01-20", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"ev-1"}, stub.deletedIDs)
}

func TestListTeamMembers(t *testing.T) {
	stub := newStub()
	stub.members = []*model.TeamMember{
		{ID: "tm-1", Name: "Alex"},
		{ID: "tm-2", Name: "Sam"},
	}
	srv := New(stub, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/team-members", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var out []*model.TeamMember
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out, 2)
}
