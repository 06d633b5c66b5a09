package student

import "time"

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Student struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"` // external-facing code, eg. STU001
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Grade     string    `json:"grade" db:"grade"`
	Status    string    `json:"status" db:"status"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Grade     string `json:"grade" validate:"required"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateStudent is a partial patch; nil fields are left untouched.
type UpdateStudent struct {
	StudentID *string `json:"student_id" validate:"omitempty,min=1"`
	Name      *string `json:"name" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Grade     *string `json:"grade" validate:"omitempty,min=1"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// QueryFilter fields AND together when both are provided.
// Search does a case-insensitive substring match on one of
// Student.Name, Student.Email or Student.StudentID.
type QueryFilter struct {
	Search string `json:"search" query:"search"`
	Status string `json:"status" query:"status"`
}
