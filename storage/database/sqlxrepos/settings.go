package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kwanza/mahudhurio/core/settings"
)

type settingsRepository struct {
	db *sqlx.DB
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *sqlx.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (repo settingsRepository) QuerySettings(ctx context.Context) ([]settings.Setting, error) {
	var sets []settings.Setting
	err := repo.db.SelectContext(ctx, &sets,
		`SELECT key, value, description, updated_at FROM system_setting ORDER BY key`)
	if err != nil {
		return nil, errors.Wrap(err, "querying settings")
	}
	return sets, nil
}

func (repo settingsRepository) UpsertSetting(ctx context.Context, key, value string) (settings.Setting, error) {
	var set settings.Setting
	err := repo.db.QueryRowxContext(ctx, `
		INSERT INTO system_setting (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		RETURNING key, value, description, updated_at`,
		key, value, time.Now().UTC(),
	).StructScan(&set)
	if err != nil {
		return settings.Setting{}, errors.Wrap(err, "upserting setting")
	}
	return set, nil
}
