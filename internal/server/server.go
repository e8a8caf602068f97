package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/model"
)

// Availability is the slice of the availability service the HTTP layer
// consumes. The calendar views in the browser are the only clients.
type Availability interface {
	ListExpanded(ctx context.Context, teamMemberID string, from, to time.Time) ([]model.EventInstance, error)
	CreateEvent(ctx context.Context, event *model.AvailabilityEvent) error
	UpdateEvent(ctx context.Context, event *model.AvailabilityEvent) error
	DeleteEvent(ctx context.Context, id string) error
	TeamMembers(ctx context.Context) ([]*model.TeamMember, error)
}

type Server struct {
	availability Availability
	logger       *zap.Logger
	mux          *http.ServeMux
}

func New(availability Availability, logger *zap.Logger) *Server {
	s := &Server{
		availability: availability,
		logger:       logger,
		mux:          http.NewServeMux(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.health)
	s.mux.HandleFunc("GET /api/team-members", s.listTeamMembers)
	s.mux.HandleFunc("GET /api/availability", s.listAvailability)
	s.mux.HandleFunc("POST /api/availability", s.createEvent)
	s.mux.HandleFunc("PUT /api/availability/{id}", s.updateEvent)
	s.mux.HandleFunc("DELETE /api/availability/{id}", s.deleteEvent)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
