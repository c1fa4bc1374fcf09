package memory

import (
	"context"

	"github.com/google/uuid"

	"sambo-academy/internal/models"
)

type trainerRepository struct{ s *Store }

func (r *trainerRepository) Create(ctx context.Context, trainer *models.Trainer) error {
	return r.s.do(func(st *state) error {
		if trainer.TelegramID != nil {
			for id, existing := range st.trainers {
				if existing.TelegramID != nil && *existing.TelegramID == *trainer.TelegramID {
					existing.FullName = trainer.FullName
					existing.IsAdmin = existing.IsAdmin || trainer.IsAdmin
					st.trainers[id] = existing
					trainer.ID = existing.ID
					trainer.IsAdmin = existing.IsAdmin
					trainer.CreatedAt = existing.CreatedAt
					return nil
				}
			}
		}
		if trainer.ID == uuid.Nil {
			trainer.ID = uuid.New()
		}
		trainer.CreatedAt = st.now()
		row := *trainer
		row.TelegramID = clonePtr(trainer.TelegramID)
		st.trainers[row.ID] = row
		return nil
	})
}

func (r *trainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error) {
	var out *models.Trainer
	err := r.s.do(func(st *state) error {
		row, ok := st.trainers[id]
		if !ok {
			return notFound("get trainer")
		}
		out = ptr(row)
		return nil
	})
	return out, err
}

func (r *trainerRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Trainer, error) {
	var out *models.Trainer
	err := r.s.do(func(st *state) error {
		for _, row := range st.trainers {
			if row.TelegramID != nil && *row.TelegramID == telegramID {
				out = ptr(row)
				return nil
			}
		}
		return notFound("get trainer by telegram id")
	})
	return out, err
}
