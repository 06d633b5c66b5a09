package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
)

type (
	Repository interface {
		// UpsertRecord inserts a Record or, when one already exists for the
		// same (student, date), overwrites its status, marker and notes.
		// The insert-or-update must be atomic at the store level.
		UpsertRecord(ctx context.Context, rec Record) (Record, error)
		// QueryRecords applies AND operation on available QueryFilter fields;
		// results are ordered by date descending, then student name ascending.
		QueryRecords(ctx context.Context, filter QueryFilter) ([]RecordWithStudent, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Mark records an attendance status for (m.StudentID, m.Date); marking the
// same pair again overwrites the previous status. Last write wins.
func (svc *Service) Mark(ctx context.Context, m Mark) (Record, error) {
	now := time.Now().UTC()
	rec := Record{
		StudentID: m.StudentID,
		Date:      m.Date,
		Status:    m.Status,
		MarkedBy:  m.MarkedBy,
		Notes:     m.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.UpsertRecord(ctx, rec)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]RecordWithStudent, error) {
	// a partial range is treated as "no range filter applied"
	if !filter.HasRange() {
		filter.StartDate = Date{}
		filter.EndDate = Date{}
	}
	return svc.repo.QueryRecords(ctx, filter)
}

func (m Mark) Validate(validate *validator.Validate) error {
	return validate.Struct(m)
}
