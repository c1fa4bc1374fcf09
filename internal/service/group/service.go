package group_service

import (
	"context"

	"github.com/google/uuid"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
)

type trainingGroupService struct {
	groupRepo   repository.GroupRepository
	studentRepo repository.StudentRepository
}

func NewTrainingGroupService(store repository.Store) service.GroupService {
	return &trainingGroupService{
		groupRepo:   store.Groups(),
		studentRepo: store.Students(),
	}
}

func (s *trainingGroupService) GetGroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func (s *trainingGroupService) GetTrainerGroups(ctx context.Context, trainerID uuid.UUID) ([]*models.Group, error) {
	return s.groupRepo.GetByTrainer(ctx, trainerID)
}

// GetStudents returns active members of the group, bonus members included.
func (s *trainingGroupService) GetStudents(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.studentRepo.ListEligible(ctx, groupID)
}
