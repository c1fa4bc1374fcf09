package models

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	StatusPresent     AttendanceStatus = "present"
	StatusAbsent      AttendanceStatus = "absent"
	StatusTransferred AttendanceStatus = "transferred"
)

func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch st := AttendanceStatus(s); st {
	case StatusPresent, StatusAbsent, StatusTransferred:
		return st, true
	}
	return "", false
}

// Attendance is one row per (student, group, session date). A missing row means nothing was recorded.
type Attendance struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	StudentID      uuid.UUID        `db:"student_id" json:"student_id"`
	GroupID        uuid.UUID        `db:"group_id" json:"group_id"`
	SessionDate    time.Time        `db:"session_date" json:"session_date"`
	Status         AttendanceStatus `db:"status" json:"status"`
	SubscriptionID *uuid.UUID       `db:"subscription_id" json:"subscription_id,omitempty"`
	MarkedBy       uuid.UUID        `db:"marked_by" json:"marked_by"`
	Notes          string           `db:"notes" json:"notes"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// MarkItem is one raw entry of a marking batch. StudentID and Status are parsed by the recorder;
// entries that do not parse are skipped. A nil Status clears the record.
type MarkItem struct {
	StudentID string  `json:"student_id"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

type MarkRequest struct {
	GroupID     uuid.UUID  `json:"group_id"`
	SessionDate time.Time  `json:"session_date"`
	MarkedBy    uuid.UUID  `json:"-"`
	Items       []MarkItem `json:"attendances"`
}

// RosterEntry is one eligible student of a group on a given session date.
type RosterEntry struct {
	StudentID    uuid.UUID         `json:"student_id"`
	FullName     string            `json:"full_name"`
	BirthDate    time.Time         `json:"birth_date"`
	Status       *AttendanceStatus `json:"status"`
	AttendanceID *uuid.UUID        `json:"attendance_id"`
	Notes        *string           `json:"notes"`
	IsBonusGroup bool              `json:"is_bonus_group"`
}

type CalendarCell struct {
	Date   time.Time         `json:"date"`
	Day    int               `json:"day"`
	Status *AttendanceStatus `json:"status"`
}

type CalendarRow struct {
	StudentID  uuid.UUID      `json:"student_id"`
	FullName   string         `json:"full_name"`
	Attendance []CalendarCell `json:"attendance"`
}

// Calendar is a month of scheduled sessions of one group joined with recorded attendance.
type Calendar struct {
	GroupID       uuid.UUID     `json:"group_id"`
	GroupName     string        `json:"group_name"`
	Year          int           `json:"year"`
	Month         time.Month    `json:"month"`
	TrainingDates []time.Time   `json:"training_dates"`
	Students      []CalendarRow `json:"students"`
}
