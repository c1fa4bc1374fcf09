package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/samber/lo"
)

type Student struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	FullName           string    `db:"full_name" json:"full_name"`
	BirthDate          time.Time `db:"birth_date" json:"birth_date"`
	GroupID            uuid.UUID `db:"group_id" json:"group_id"`
	AdditionalGroupIDs UUIDArray `db:"additional_group_ids" json:"additional_group_ids"`
	TrainerID          uuid.UUID `db:"trainer_id" json:"trainer_id"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// BelongsTo reports whether the student attends groupID, either as the primary group or as a bonus group.
func (s *Student) BelongsTo(groupID uuid.UUID) bool {
	return s.GroupID == groupID || lo.Contains(s.AdditionalGroupIDs, groupID)
}

// IsBonusGroup is true when the student attends groupID only through the additional membership set.
func (s *Student) IsBonusGroup(groupID uuid.UUID) bool {
	return s.GroupID != groupID && lo.Contains(s.AdditionalGroupIDs, groupID)
}

// UUIDArray maps a postgres uuid[] column.
type UUIDArray []uuid.UUID

func (a *UUIDArray) Scan(src interface{}) error {
	ids := []uuid.UUID{}
	if err := (pq.GenericArray{A: &ids}).Scan(src); err != nil {
		return err
	}
	*a = ids
	return nil
}

func (a UUIDArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return pq.GenericArray{A: []uuid.UUID(a)}.Value()
}
