package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"sambo-academy/internal/models"
)

type studentRepository struct{ s *Store }

func copyStudent(s models.Student) *models.Student {
	s.AdditionalGroupIDs = append(models.UUIDArray{}, s.AdditionalGroupIDs...)
	return &s
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.s.do(func(st *state) error {
		if student.ID == uuid.Nil {
			student.ID = uuid.New()
		}
		if _, ok := st.students[student.ID]; ok {
			return conflict("create student", "students_pkey")
		}
		student.CreatedAt = st.now()
		st.students[student.ID] = *copyStudent(*student)
		return nil
	})
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	var out *models.Student
	err := r.s.do(func(st *state) error {
		row, ok := st.students[id]
		if !ok {
			return notFound("get student")
		}
		out = copyStudent(row)
		return nil
	})
	return out, err
}

func (r *studentRepository) list(filter func(models.Student) bool) ([]*models.Student, error) {
	var out []*models.Student
	err := r.s.do(func(st *state) error {
		for _, row := range st.students {
			if filter(row) {
				out = append(out, copyStudent(row))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, err
}

func (r *studentRepository) ListEligible(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error) {
	return r.list(func(s models.Student) bool {
		return s.IsActive && (s.GroupID == groupID || lo.Contains(s.AdditionalGroupIDs, groupID))
	})
}

func (r *studentRepository) ListActiveByPrimaryGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error) {
	return r.list(func(s models.Student) bool { return s.IsActive && s.GroupID == groupID })
}

func (r *studentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	return r.list(func(models.Student) bool { return true })
}
