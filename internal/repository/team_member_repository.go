package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/model"
	"github.com/verdantcrew/crewcal/internal/repository/base"
)

// TeamMemberRepository manages crew members in the database.
type TeamMemberRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewTeamMemberRepository(pool *pgxpool.Pool, logger *zap.Logger) *TeamMemberRepository {
	return &TeamMemberRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create inserts a team member, assigning an id when none is set.
func (r *TeamMemberRepository) Create(ctx context.Context, member *model.TeamMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}

	query := `
		INSERT INTO team_members (id, name)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(ctx, query, member.ID, member.Name).
		Scan(&member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create team member: %w", err)
	}

	return nil
}

// GetByID fetches one team member, returning nil when absent.
func (r *TeamMemberRepository) GetByID(ctx context.Context, id string) (*model.TeamMember, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM team_members
		WHERE id = $1
	`

	member := &model.TeamMember{}
	err := r.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.Name,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get team member by id: %w", err)
	}

	return member, nil
}

// List returns all team members ordered by name.
func (r *TeamMemberRepository) List(ctx context.Context) ([]*model.TeamMember, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM team_members
		ORDER BY name, id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var members []*model.TeamMember
	for rows.Next() {
		member := &model.TeamMember{}
		err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.CreatedAt,
			&member.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, member)
	}

	return members, rows.Err()
}
