package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/model"
	"github.com/verdantcrew/crewcal/internal/repository/base"
)

// AvailabilityEventRepository manages base availability events in the
// database. Only base events are persisted; expanded instances are
// derived on demand and never written back.
type AvailabilityEventRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewAvailabilityEventRepository(pool *pgxpool.Pool, logger *zap.Logger) *AvailabilityEventRepository {
	return &AvailabilityEventRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

const eventColumns = `
	e.id, e.team_member_id, m.name, e.event_type, e.custom_event_name,
	e.start_date, e.end_date, e.start_time, e.end_time, e.all_day,
	e.recurrence, e.monthly_recurrence, e.created_at, e.updated_at
`

// Create inserts a base event, assigning an id when none is set.
func (r *AvailabilityEventRepository) Create(ctx context.Context, event *model.AvailabilityEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	monthly, err := marshalMonthly(event.MonthlyRecurrence)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO availability_events
			(id, team_member_id, event_type, custom_event_name,
			 start_date, end_date, start_time, end_time, all_day,
			 recurrence, monthly_recurrence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err = r.QueryRow(
		ctx,
		query,
		event.ID,
		event.TeamMemberID,
		string(event.EventType),
		event.CustomEventName,
		event.StartDate,
		event.EndDate,
		event.StartTime,
		event.EndTime,
		event.AllDay,
		recurrenceText(event.Recurrence),
		monthly,
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create availability event: %w", err)
	}

	return nil
}

// GetByID fetches one base event, returning nil when absent.
func (r *AvailabilityEventRepository) GetByID(ctx context.Context, id string) (*model.AvailabilityEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM availability_events e
		JOIN team_members m ON m.id = e.team_member_id
		WHERE e.id = $1
	`

	event, err := scanEvent(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get availability event by id: %w", err)
	}

	return event, nil
}

// List returns all base events, ordered by start date then id so
// expansion output is stable across calls.
func (r *AvailabilityEventRepository) List(ctx context.Context) ([]model.AvailabilityEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM availability_events e
		JOIN team_members m ON m.id = e.team_member_id
		ORDER BY e.start_date, e.id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list availability events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListByTeamMember returns all base events for one crew member.
func (r *AvailabilityEventRepository) ListByTeamMember(ctx context.Context, teamMemberID string) ([]model.AvailabilityEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM availability_events e
		JOIN team_members m ON m.id = e.team_member_id
		WHERE e.team_member_id = $1
		ORDER BY e.start_date, e.id
	`

	rows, err := r.Query(ctx, query, teamMemberID)
	if err != nil {
		return nil, fmt.Errorf("list availability events by team member: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// Update rewrites a base event in place. Returns the affected row count
// so the caller can distinguish a missing id.
func (r *AvailabilityEventRepository) Update(ctx context.Context, event *model.AvailabilityEvent) (int64, error) {
	monthly, err := marshalMonthly(event.MonthlyRecurrence)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE availability_events
		SET team_member_id = $2, event_type = $3, custom_event_name = $4,
		    start_date = $5, end_date = $6, start_time = $7, end_time = $8,
		    all_day = $9, recurrence = $10, monthly_recurrence = $11,
		    updated_at = now()
		WHERE id = $1
	`

	affected, err := r.ExecAffected(ctx, query,
		event.ID,
		event.TeamMemberID,
		string(event.EventType),
		event.CustomEventName,
		event.StartDate,
		event.EndDate,
		event.StartTime,
		event.EndTime,
		event.AllDay,
		recurrenceText(event.Recurrence),
		monthly,
	)
	if err != nil {
		return 0, fmt.Errorf("update availability event: %w", err)
	}

	return affected, nil
}

// Delete removes a base event. Derived instances disappear with it on the
// next expansion; nothing else references the row.
func (r *AvailabilityEventRepository) Delete(ctx context.Context, id string) (int64, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM availability_events WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete availability event: %w", err)
	}
	return affected, nil
}

// DeleteEndedBefore removes non-recurring events whose span ended before
// the cutoff date. Recurring events are kept; they stay meaningful
// indefinitely.
func (r *AvailabilityEventRepository) DeleteEndedBefore(ctx context.Context, cutoffDate string) (int64, error) {
	query := `
		DELETE FROM availability_events
		WHERE recurrence IS NULL
		  AND COALESCE(end_date, start_date) < $1
	`

	affected, err := r.ExecAffected(ctx, query, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("delete ended availability events: %w", err)
	}
	return affected, nil
}

func collectEvents(rows pgx.Rows) ([]model.AvailabilityEvent, error) {
	var events []model.AvailabilityEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*model.AvailabilityEvent, error) {
	event := &model.AvailabilityEvent{}
	var (
		eventType  string
		recurrence *string
		monthly    []byte
	)

	err := row.Scan(
		&event.ID,
		&event.TeamMemberID,
		&event.TeamMemberName,
		&eventType,
		&event.CustomEventName,
		&event.StartDate,
		&event.EndDate,
		&event.StartTime,
		&event.EndTime,
		&event.AllDay,
		&recurrence,
		&monthly,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.EventType = model.EventType(eventType)
	if recurrence != nil {
		rec := model.Recurrence(*recurrence)
		event.Recurrence = &rec
	}
	if len(monthly) > 0 {
		parsed := &model.MonthlyRecurrence{}
		if err := json.Unmarshal(monthly, parsed); err != nil {
			return nil, fmt.Errorf("decode monthly recurrence: %w", err)
		}
		event.MonthlyRecurrence = parsed
	}

	return event, nil
}

func recurrenceText(r *model.Recurrence) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func marshalMonthly(m *model.MonthlyRecurrence) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode monthly recurrence: %w", err)
	}
	return data, nil
}
