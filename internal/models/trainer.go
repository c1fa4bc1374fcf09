package models

import (
	"time"

	"github.com/google/uuid"
)

// Trainer owns groups and students. TelegramID links the trainer to the bot.
type Trainer struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"full_name"`
	TelegramID *int64    `db:"telegram_id" json:"telegram_id,omitempty"`
	IsAdmin    bool      `db:"is_admin" json:"is_admin"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (t *Trainer) Owns(trainerID uuid.UUID) bool {
	return t.IsAdmin || t.ID == trainerID
}
