package trainer_service

import (
	"context"

	"github.com/google/uuid"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
)

type trainerService struct {
	trainerRepo repository.TrainerRepository
}

func NewTrainerService(store repository.Store) service.TrainerService {
	return &trainerService{trainerRepo: store.Trainers()}
}

// RegisterOrUpdate keeps the admin flag of a known trainer unless isAdmin grants it.
func (s *trainerService) RegisterOrUpdate(ctx context.Context, telegramID int64, fullName string, isAdmin bool) (*models.Trainer, error) {
	trainer := &models.Trainer{
		FullName:   fullName,
		TelegramID: &telegramID,
		IsAdmin:    isAdmin,
	}
	if err := s.trainerRepo.Create(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

func (s *trainerService) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Trainer, error) {
	return s.trainerRepo.GetByTelegramID(ctx, telegramID)
}

func (s *trainerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error) {
	return s.trainerRepo.GetByID(ctx, id)
}
