package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

const columns = `id, student_id, group_id, session_date, status, subscription_id, marked_by, notes, created_at`

type attendanceRepository struct {
	db sqlx.ExtContext
}

func NewAttendanceRepository(db sqlx.ExtContext) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	query := `
		INSERT INTO attendances
		(id, student_id, group_id, session_date, status, subscription_id, marked_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	if attendance.ID == uuid.Nil {
		attendance.ID = uuid.New()
	}
	err := r.db.QueryRowxContext(ctx, query,
		attendance.ID,
		attendance.StudentID,
		attendance.GroupID,
		attendance.SessionDate,
		attendance.Status,
		attendance.SubscriptionID,
		attendance.MarkedBy,
		attendance.Notes,
	).Scan(&attendance.CreatedAt)
	return repository.Wrap(err, "create attendance")
}

func (r *attendanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	var attendance models.Attendance
	query := `SELECT ` + columns + ` FROM attendances WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &attendance, query, id); err != nil {
		return nil, repository.Wrap(err, "get attendance")
	}
	return &attendance, nil
}

func (r *attendanceRepository) GetForSession(ctx context.Context, studentID, groupID uuid.UUID, sessionDate time.Time) (*models.Attendance, error) {
	var attendance models.Attendance
	query := `
		SELECT ` + columns + ` FROM attendances
		WHERE student_id = $1 AND group_id = $2 AND session_date = $3
		FOR UPDATE`
	err := sqlx.GetContext(ctx, r.db, &attendance, query, studentID, groupID, models.DateOf(sessionDate))
	if err != nil {
		err = repository.Wrap(err, "get session attendance")
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) Update(ctx context.Context, attendance *models.Attendance) error {
	query := `
		UPDATE attendances
		SET status = $1, notes = $2, marked_by = $3, subscription_id = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		attendance.Status,
		attendance.Notes,
		attendance.MarkedBy,
		attendance.SubscriptionID,
		attendance.ID,
	)
	return expectOne(result, err, "update attendance")
}

func (r *attendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	return expectOne(result, err, "delete attendance")
}

func (r *attendanceRepository) GetByGroupAndRange(ctx context.Context, groupID uuid.UUID, from, to time.Time) ([]*models.Attendance, error) {
	attendances := []*models.Attendance{}
	query := `
		SELECT ` + columns + ` FROM attendances
		WHERE group_id = $1 AND session_date BETWEEN $2 AND $3
		ORDER BY session_date, created_at`
	err := sqlx.SelectContext(ctx, r.db, &attendances, query, groupID, models.DateOf(from), models.DateOf(to))
	if err != nil {
		return nil, repository.Wrap(err, "list group attendance")
	}
	return attendances, nil
}

func (r *attendanceRepository) GetByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error) {
	attendances := []*models.Attendance{}
	query := `SELECT ` + columns + ` FROM attendances WHERE student_id = $1 ORDER BY session_date DESC`
	if err := sqlx.SelectContext(ctx, r.db, &attendances, query, studentID); err != nil {
		return nil, repository.Wrap(err, "list student attendance")
	}
	return attendances, nil
}

func expectOne(result sql.Result, err error, op string) error {
	if err != nil {
		return repository.Wrap(err, op)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repository.Wrap(err, op)
	}
	if rowsAffected == 0 {
		return repository.Wrap(sql.ErrNoRows, op)
	}
	return nil
}
