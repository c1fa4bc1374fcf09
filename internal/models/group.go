package models

import (
	"time"

	"github.com/google/uuid"
)

type AgeCategory string

const (
	AgeSenior AgeCategory = "senior"
	AgeJunior AgeCategory = "junior"
)

func (a AgeCategory) Valid() bool {
	return a == AgeSenior || a == AgeJunior
}

// Group - training group of one trainer
type Group struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	Name        string       `db:"name" json:"name"`
	TrainerID   uuid.UUID    `db:"trainer_id" json:"trainer_id"`
	AgeCategory AgeCategory  `db:"age_category" json:"age_category"`
	Schedule    ScheduleType `db:"schedule_type" json:"schedule_type"`
	DefaultTier *Tier        `db:"default_tier" json:"default_tier,omitempty"`
	IsActive    bool         `db:"is_active" json:"is_active"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}
