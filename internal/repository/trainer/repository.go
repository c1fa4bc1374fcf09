package trainer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

type trainerRepository struct {
	db sqlx.ExtContext
}

func NewTrainerRepository(db sqlx.ExtContext) repository.TrainerRepository {
	return &trainerRepository{db: db}
}

func (r *trainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	query := `
		INSERT INTO trainers (id, full_name, telegram_id, is_admin)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO UPDATE
		SET full_name = EXCLUDED.full_name, is_admin = trainers.is_admin OR EXCLUDED.is_admin
		RETURNING id, is_admin, created_at
	`
	if trainer.ID == uuid.Nil {
		trainer.ID = uuid.New()
	}
	err := r.db.QueryRowxContext(ctx, query,
		trainer.ID, trainer.FullName, trainer.TelegramID, trainer.IsAdmin,
	).Scan(&trainer.ID, &trainer.IsAdmin, &trainer.CreatedAt)
	return repository.Wrap(err, "create trainer")
}

func (r *trainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error) {
	var trainer models.Trainer
	query := `SELECT id, full_name, telegram_id, is_admin, created_at FROM trainers WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &trainer, query, id); err != nil {
		return nil, repository.Wrap(err, "get trainer")
	}
	return &trainer, nil
}

func (r *trainerRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Trainer, error) {
	var trainer models.Trainer
	query := `SELECT id, full_name, telegram_id, is_admin, created_at FROM trainers WHERE telegram_id = $1`
	if err := sqlx.GetContext(ctx, r.db, &trainer, query, telegramID); err != nil {
		return nil, repository.Wrap(err, "get trainer by telegram id")
	}
	return &trainer, nil
}
