package settings

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kwanza/mahudhurio/core"
)

// Setting is a system-wide key/value configuration entry.
type Setting struct {
	Key         string    `json:"key" db:"key"`
	Value       string    `json:"value" db:"value"`
	Description string    `json:"description,omitempty" db:"description"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// UpdateSetting is the payload for setting a value.
type UpdateSetting struct {
	Value string `json:"value" validate:"required"`
}

type (
	Repository interface {
		// QuerySettings returns all settings ordered by key.
		QuerySettings(ctx context.Context) ([]Setting, error)
		// UpsertSetting inserts or overwrites the value for a key.
		UpsertSetting(ctx context.Context, key, value string) (Setting, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context) ([]Setting, error) {
	return svc.repo.QuerySettings(ctx)
}

func (svc *Service) Set(ctx context.Context, key, value string) (Setting, error) {
	return svc.repo.UpsertSetting(ctx, core.CleanString(key, true /* lower */), value)
}

func (us UpdateSetting) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}
