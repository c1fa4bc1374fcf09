package access_service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
)

type checker struct {
	store repository.Store
}

func NewChecker(store repository.Store) service.AccessChecker {
	return &checker{store: store}
}

func (c *checker) actor(ctx context.Context, trainerID uuid.UUID) (*models.Trainer, error) {
	trainer, err := c.store.Trainers().GetByID(ctx, trainerID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errors.Wrap(models.ErrForbidden, "unknown trainer")
	}
	return trainer, err
}

func (c *checker) CanAccessGroup(ctx context.Context, trainerID, groupID uuid.UUID) (*models.Group, error) {
	trainer, err := c.actor(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	group, err := c.store.Groups().GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !trainer.Owns(group.TrainerID) {
		return nil, errors.Wrapf(models.ErrForbidden, "group %s", groupID)
	}
	return group, nil
}

func (c *checker) CanAccessStudent(ctx context.Context, trainerID, studentID uuid.UUID) (*models.Student, error) {
	trainer, err := c.actor(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	student, err := c.store.Students().GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !trainer.Owns(student.TrainerID) {
		return nil, errors.Wrapf(models.ErrForbidden, "student %s", studentID)
	}
	return student, nil
}

func (c *checker) RequireAdmin(ctx context.Context, trainerID uuid.UUID) (*models.Trainer, error) {
	trainer, err := c.actor(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if !trainer.IsAdmin {
		return nil, errors.Wrap(models.ErrForbidden, "admin only")
	}
	return trainer, nil
}
