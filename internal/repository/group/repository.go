package group

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

const columns = `id, name, trainer_id, age_category, schedule_type, default_tier, is_active, created_at`

type trainingGroupRepository struct {
	db sqlx.ExtContext
}

func NewTrainingGroupRepository(db sqlx.ExtContext) repository.GroupRepository {
	return &trainingGroupRepository{db: db}
}

func (r *trainingGroupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO groups (id, name, trainer_id, age_category, schedule_type, default_tier, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	err := r.db.QueryRowxContext(ctx, query,
		group.ID,
		group.Name,
		group.TrainerID,
		group.AgeCategory,
		group.Schedule,
		group.DefaultTier,
		group.IsActive,
	).Scan(&group.CreatedAt)
	return repository.Wrap(err, "create group")
}

func (r *trainingGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	query := `SELECT ` + columns + ` FROM groups WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &group, query, id); err != nil {
		return nil, repository.Wrap(err, "get group")
	}
	return &group, nil
}

func (r *trainingGroupRepository) GetByTrainer(ctx context.Context, trainerID uuid.UUID) ([]*models.Group, error) {
	groups := []*models.Group{}
	query := `SELECT ` + columns + ` FROM groups WHERE trainer_id = $1 AND is_active = true ORDER BY name`
	if err := sqlx.SelectContext(ctx, r.db, &groups, query, trainerID); err != nil {
		return nil, repository.Wrap(err, "list trainer groups")
	}
	return groups, nil
}

func (r *trainingGroupRepository) UpdateDefaultTier(ctx context.Context, id uuid.UUID, tier models.Tier) error {
	result, err := r.db.ExecContext(ctx, `UPDATE groups SET default_tier = $1 WHERE id = $2`, tier, id)
	if err != nil {
		return repository.Wrap(err, "update group tier")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repository.Wrap(err, "update group tier")
	}
	if rowsAffected == 0 {
		return repository.Wrap(sql.ErrNoRows, "update group tier")
	}
	return nil
}
