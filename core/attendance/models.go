package attendance

import "time"

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record holds one attendance status for one student on one calendar date.
type Record struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Date      Date      `json:"attendance_date" db:"attendance_date"`
	Status    string    `json:"status" db:"status"`
	MarkedBy  string    `json:"marked_by" db:"marked_by"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// StudentInfo is the identity projection joined onto a Record.
type StudentInfo struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Grade     string `json:"grade"`
}

// RecordWithStudent augments a Record with the associated student's identity.
// Student is nil when the student row no longer exists.
type RecordWithStudent struct {
	Record
	Student *StudentInfo `json:"student"`
}

// Mark contains information needed to mark (or re-mark) attendance.
type Mark struct {
	StudentID string `json:"studentId" validate:"required"`
	Date      Date   `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
	MarkedBy  string `json:"-"`
	Notes     string `json:"notes"`
}

// QueryFilter fields AND together when provided. The date range only
// participates when BOTH endpoints are set; a partial range is ignored.
type QueryFilter struct {
	Date      Date
	StudentID string
	StartDate Date
	EndDate   Date
}

// HasRange reports whether a complete, inclusive date range was provided.
func (f QueryFilter) HasRange() bool {
	return !f.StartDate.IsZero() && !f.EndDate.IsZero()
}
