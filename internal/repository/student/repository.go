package student

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

const columns = `id, full_name, birth_date, group_id, additional_group_ids, trainer_id, is_active, created_at`

type studentRepository struct {
	db sqlx.ExtContext
}

func NewStudentRepository(db sqlx.ExtContext) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, full_name, birth_date, group_id, additional_group_ids, trainer_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	err := r.db.QueryRowxContext(ctx, query,
		student.ID,
		student.FullName,
		student.BirthDate,
		student.GroupID,
		student.AdditionalGroupIDs,
		student.TrainerID,
		student.IsActive,
	).Scan(&student.CreatedAt)
	return repository.Wrap(err, "create student")
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	query := `SELECT ` + columns + ` FROM students WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &student, query, id); err != nil {
		return nil, repository.Wrap(err, "get student")
	}
	return &student, nil
}

func (r *studentRepository) ListEligible(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error) {
	students := []*models.Student{}
	query := `
		SELECT ` + columns + ` FROM students
		WHERE is_active = true AND (group_id = $1 OR $1 = ANY(additional_group_ids))
		ORDER BY full_name`
	if err := sqlx.SelectContext(ctx, r.db, &students, query, groupID); err != nil {
		return nil, repository.Wrap(err, "list group students")
	}
	return students, nil
}

func (r *studentRepository) ListActiveByPrimaryGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Student, error) {
	students := []*models.Student{}
	query := `SELECT ` + columns + ` FROM students WHERE is_active = true AND group_id = $1 ORDER BY full_name`
	if err := sqlx.SelectContext(ctx, r.db, &students, query, groupID); err != nil {
		return nil, repository.Wrap(err, "list primary group students")
	}
	return students, nil
}

func (r *studentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	students := []*models.Student{}
	query := `SELECT ` + columns + ` FROM students ORDER BY full_name`
	if err := sqlx.SelectContext(ctx, r.db, &students, query); err != nil {
		return nil, repository.Wrap(err, "list students")
	}
	return students, nil
}
