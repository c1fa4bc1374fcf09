package repository

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"sambo-academy/internal/models"
)

const uniqueViolation = "23505"

// Wrap translates driver errors into model errors and annotates them with the operation.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(models.ErrNotFound, op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrapf(models.ErrConflict, "%s: %s", op, pqErr.Constraint)
	}
	return errors.Wrap(err, op)
}
