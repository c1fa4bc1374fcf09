package settings

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
)

type settingsRepository struct {
	db sqlx.ExtContext
}

func NewSettingsRepository(db sqlx.ExtContext) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := sqlx.GetContext(ctx, r.db, &value, `SELECT value FROM settings WHERE key = $1`, key)
	if err != nil {
		err = repository.Wrap(err, "get setting")
		if errors.Is(err, models.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, query, key, value)
	return repository.Wrap(err, "set setting")
}
