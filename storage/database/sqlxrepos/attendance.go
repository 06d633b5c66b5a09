package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kwanza/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

type recordRow struct {
	ID        string          `db:"id"`
	StudentID string          `db:"student_id"`
	Date      attendance.Date `db:"attendance_date"`
	Status    string          `db:"status"`
	MarkedBy  sql.NullString  `db:"marked_by"`
	Notes     string          `db:"notes"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`

	// joined student identity; NULL when the student row is gone
	StudentName  sql.NullString `db:"student_name"`
	StudentCode  sql.NullString `db:"student_code"`
	StudentGrade sql.NullString `db:"student_grade"`
}

func (r recordRow) unpack() attendance.Record {
	return attendance.Record{
		ID:        r.ID,
		StudentID: r.StudentID,
		Date:      r.Date,
		Status:    r.Status,
		MarkedBy:  r.MarkedBy.String,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r recordRow) unpackWithStudent() attendance.RecordWithStudent {
	rec := attendance.RecordWithStudent{Record: r.unpack()}
	if r.StudentName.Valid {
		rec.Student = &attendance.StudentInfo{
			Name:      r.StudentName.String,
			StudentID: r.StudentCode.String,
			Grade:     r.StudentGrade.String,
		}
	}
	return rec
}

const recordColumns = `id, student_id, attendance_date, status, marked_by, notes, created_at, updated_at`

// UpsertRecord is atomic at the store level: two near-simultaneous marks for
// the same (student, date) resolve to last write wins, never two rows.
func (repo attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = uuid.New().String()
	var row recordRow
	err := repo.db.QueryRowxContext(ctx, `
		INSERT INTO attendance_record (id, student_id, attendance_date, status, marked_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (student_id, attendance_date) DO UPDATE SET
			status     = EXCLUDED.status,
			marked_by  = EXCLUDED.marked_by,
			notes      = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING `+recordColumns,
		rec.ID, rec.StudentID, rec.Date, rec.Status, nullStr(rec.MarkedBy), rec.Notes, rec.CreatedAt, rec.UpdatedAt,
	).StructScan(&row)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}
	return row.unpack(), nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.RecordWithStudent, error) {
	query := `
		SELECT ar.id, ar.student_id, ar.attendance_date, ar.status, ar.marked_by, ar.notes,
		       ar.created_at, ar.updated_at,
		       s.name AS student_name, s.student_id AS student_code, s.grade AS student_grade
		FROM attendance_record ar
		LEFT JOIN student s ON s.id = ar.student_id`
	var clauses []string
	var args []interface{}

	if !filter.Date.IsZero() {
		clauses = append(clauses, "ar.attendance_date = $"+strconv.Itoa(len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.StudentID != "" {
		clauses = append(clauses, "ar.student_id = $"+strconv.Itoa(len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.HasRange() {
		clauses = append(clauses,
			"ar.attendance_date BETWEEN $"+strconv.Itoa(len(args)+1)+" AND $"+strconv.Itoa(len(args)+2))
		args = append(args, filter.StartDate, filter.EndDate)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY ar.attendance_date DESC, s.name ASC"

	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	records := make([]attendance.RecordWithStudent, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.unpackWithStudent())
	}
	return records, nil
}
