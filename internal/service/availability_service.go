package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/expand"
	"github.com/verdantcrew/crewcal/internal/model"
	"github.com/verdantcrew/crewcal/internal/repository"
)

// AvailabilityService owns the availability workflow: CRUD on base events
// through the repositories, expansion into calendar instances through the
// expander. Every edit is followed by a fresh read-and-expand rather than
// incremental bookkeeping, so views always see a consistent picture.
type AvailabilityService struct {
	eventRepo *repository.AvailabilityEventRepository
	teamRepo  *repository.TeamMemberRepository
	expander  *expand.Expander
	logger    *zap.Logger
}

func NewAvailabilityService(
	eventRepo *repository.AvailabilityEventRepository,
	teamRepo *repository.TeamMemberRepository,
	expander *expand.Expander,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		eventRepo: eventRepo,
		teamRepo:  teamRepo,
		expander:  expander,
		logger:    logger,
	}
}

// ListExpanded fetches base events (optionally for one crew member) and
// expands them over [from, to]. A zero window falls back to the default
// 90-day range from today.
func (s *AvailabilityService) ListExpanded(ctx context.Context, teamMemberID string, from, to time.Time) ([]model.EventInstance, error) {
	if from.IsZero() || to.IsZero() {
		from, to = expand.DefaultRange(time.Now())
	}

	var (
		events []model.AvailabilityEvent
		err    error
	)
	if teamMemberID == "" {
		events, err = s.eventRepo.List(ctx)
	} else {
		events, err = s.eventRepo.ListByTeamMember(ctx, teamMemberID)
	}
	if err != nil {
		return nil, fmt.Errorf("list base events: %w", err)
	}

	instances := s.expander.ExpandAll(events, from, to)

	s.logger.Debug("expanded availability events",
		zap.Int("base_events", len(events)),
		zap.Int("instances", len(instances)),
		zap.String("from", model.FormatDate(from)),
		zap.String("to", model.FormatDate(to)))

	return instances, nil
}

// CreateEvent validates and persists a new base event.
func (s *AvailabilityService) CreateEvent(ctx context.Context, event *model.AvailabilityEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	member, err := s.teamRepo.GetByID(ctx, event.TeamMemberID)
	if err != nil {
		return fmt.Errorf("get team member: %w", err)
	}
	if member == nil {
		return ErrTeamMemberNotFound
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return err
	}
	event.TeamMemberName = member.Name

	s.logger.Info("created availability event",
		zap.String("event_id", event.ID),
		zap.String("team_member_id", event.TeamMemberID),
		zap.String("event_type", string(event.EventType)),
		zap.Bool("recurring", event.IsRecurring()))

	return nil
}

// UpdateEvent validates and rewrites a base event. The edit applies to
// the whole series: every occurrence reflects the new fields on the next
// expansion. Per-occurrence edits are not supported.
func (s *AvailabilityService) UpdateEvent(ctx context.Context, event *model.AvailabilityEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	affected, err := s.eventRepo.Update(ctx, event)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}

	s.logger.Info("updated availability event",
		zap.String("event_id", event.ID),
		zap.Bool("recurring", event.IsRecurring()))

	return nil
}

// DeleteEvent removes a base event and, with it, its entire series.
func (s *AvailabilityService) DeleteEvent(ctx context.Context, id string) error {
	affected, err := s.eventRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}

	s.logger.Info("deleted availability event", zap.String("event_id", id))
	return nil
}

// TeamMembers lists all crew members.
func (s *AvailabilityService) TeamMembers(ctx context.Context) ([]*model.TeamMember, error) {
	return s.teamRepo.List(ctx)
}

// PurgeEnded deletes non-recurring events whose span ended more than
// retention ago, keeping the working set small.
func (s *AvailabilityService) PurgeEnded(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	purged, err := s.eventRepo.DeleteEndedBefore(ctx, model.FormatDate(cutoff))
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		s.logger.Info("purged ended availability events",
			zap.Int64("purged", purged),
			zap.String("cutoff", model.FormatDate(cutoff)))
	}

	return purged, nil
}
