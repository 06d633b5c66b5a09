package student

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kwanza/mahudhurio/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student ID already exists")
	ErrEmailExists     = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields;
		// results are ordered by name ascending.
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// UpdateStudent only applies the non-nil patch fields.
		UpdateStudent(ctx context.Context, id string, up UpdateStudent) (Student, error)
		// DeleteStudent is a no-op when no student has the given id.
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent, createdBy string) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		StudentID: core.CleanString(ns.StudentID),
		Name:      core.CleanString(ns.Name),
		Email:     core.CleanString(ns.Email, true /* lower */),
		Grade:     core.CleanString(ns.Grade),
		Status:    ns.Status,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if std.Status == "" {
		std.Status = StatusActive
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Search = core.CleanString(filter.Search)
	filter.Status = core.CleanString(filter.Status, true /* lower */)
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateStudent) (Student, error) {
	if up.Email != nil {
		email := core.CleanString(*up.Email, true /* lower */)
		up.Email = &email
	}
	return svc.repo.UpdateStudent(ctx, id, up)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

func (ns NewStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

func (up UpdateStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}
