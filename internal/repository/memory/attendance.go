package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"sambo-academy/internal/models"
)

type attendanceRepository struct{ s *Store }

func copyAttendance(a models.Attendance) *models.Attendance {
	a.SubscriptionID = clonePtr(a.SubscriptionID)
	return &a
}

func sameSession(a models.Attendance, studentID, groupID uuid.UUID, date time.Time) bool {
	return a.StudentID == studentID && a.GroupID == groupID && a.SessionDate.Equal(date)
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	return r.s.do(func(st *state) error {
		if attendance.ID == uuid.Nil {
			attendance.ID = uuid.New()
		}
		attendance.SessionDate = models.DateOf(attendance.SessionDate)
		for _, row := range st.attendance {
			if sameSession(row, attendance.StudentID, attendance.GroupID, attendance.SessionDate) {
				return conflict("create attendance", "attendances_student_group_date_key")
			}
		}
		attendance.CreatedAt = st.now()
		st.attendance[attendance.ID] = *copyAttendance(*attendance)
		return nil
	})
}

func (r *attendanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Attendance, error) {
	var out *models.Attendance
	err := r.s.do(func(st *state) error {
		row, ok := st.attendance[id]
		if !ok {
			return notFound("get attendance")
		}
		out = copyAttendance(row)
		return nil
	})
	return out, err
}

func (r *attendanceRepository) GetForSession(ctx context.Context, studentID, groupID uuid.UUID, sessionDate time.Time) (*models.Attendance, error) {
	var out *models.Attendance
	date := models.DateOf(sessionDate)
	err := r.s.do(func(st *state) error {
		for _, row := range st.attendance {
			if sameSession(row, studentID, groupID, date) {
				out = copyAttendance(row)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *attendanceRepository) Update(ctx context.Context, attendance *models.Attendance) error {
	return r.s.do(func(st *state) error {
		row, ok := st.attendance[attendance.ID]
		if !ok {
			return notFound("update attendance")
		}
		row.Status = attendance.Status
		row.Notes = attendance.Notes
		row.MarkedBy = attendance.MarkedBy
		row.SubscriptionID = clonePtr(attendance.SubscriptionID)
		st.attendance[row.ID] = row
		return nil
	})
}

func (r *attendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.do(func(st *state) error {
		if _, ok := st.attendance[id]; !ok {
			return notFound("delete attendance")
		}
		delete(st.attendance, id)
		return nil
	})
}

func (r *attendanceRepository) list(filter func(models.Attendance) bool) []*models.Attendance {
	out := []*models.Attendance{}
	_ = r.s.do(func(st *state) error {
		for _, row := range st.attendance {
			if filter(row) {
				out = append(out, copyAttendance(row))
			}
		}
		return nil
	})
	return out
}

func (r *attendanceRepository) GetByGroupAndRange(ctx context.Context, groupID uuid.UUID, from, to time.Time) ([]*models.Attendance, error) {
	from, to = models.DateOf(from), models.DateOf(to)
	out := r.list(func(a models.Attendance) bool {
		return a.GroupID == groupID && !a.SessionDate.Before(from) && !a.SessionDate.After(to)
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SessionDate.Equal(out[j].SessionDate) {
			return out[i].SessionDate.Before(out[j].SessionDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *attendanceRepository) GetByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Attendance, error) {
	out := r.list(func(a models.Attendance) bool { return a.StudentID == studentID })
	sort.Slice(out, func(i, j int) bool { return out[i].SessionDate.After(out[j].SessionDate) })
	return out, nil
}
