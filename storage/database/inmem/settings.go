package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/kwanza/mahudhurio/core/settings"
)

type settingsRepository struct {
	db *settingsTable
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) *settingsRepository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) QuerySettings(_ context.Context) ([]settings.Setting, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sets := make([]settings.Setting, 0, len(repo.db.table))
	for _, set := range repo.db.table {
		sets = append(sets, *set)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Key < sets[j].Key })
	return sets, nil
}

func (repo *settingsRepository) UpsertSetting(_ context.Context, key, value string) (settings.Setting, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	set, ok := repo.db.table[key]
	if !ok {
		set = &settings.Setting{Key: key}
		repo.db.table[key] = set
	}
	set.Value = value
	set.UpdatedAt = time.Now().UTC()
	return *set, nil
}
