package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kwanza/mahudhurio/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID        string         `db:"id"`
	StudentID string         `db:"student_id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Grade     string         `db:"grade"`
	Status    string         `db:"status"`
	CreatedBy sql.NullString `db:"created_by"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r studentRow) unpack() student.Student {
	return student.Student{
		ID:        r.ID,
		StudentID: r.StudentID,
		Name:      r.Name,
		Email:     r.Email,
		Grade:     r.Grade,
		Status:    r.Status,
		CreatedBy: r.CreatedBy.String,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const studentColumns = `id, student_id, name, email, grade, status, created_by, created_at, updated_at`

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO student (id, student_id, name, email, grade, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		std.ID, std.StudentID, std.Name, std.Email, std.Grade, std.Status,
		nullStr(std.CreatedBy), std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, trapDuplicateErr(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM student`
	var clauses []string
	var args []interface{}

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		n := strconv.Itoa(len(args) + 1)
		clauses = append(clauses, "(name ILIKE $"+n+" OR email ILIKE $"+n+" OR student_id ILIKE $"+n+")")
		args = append(args, val)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = $"+strconv.Itoa(len(args)+1))
		args = append(args, filter.Status)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name ASC"

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapNoRowsErr(err, student.ErrNotFound, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.unpack())
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+studentColumns+` FROM student WHERE id = $1`, id)
	if err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student by id")
	}
	return row.unpack(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, id string, up student.UpdateStudent) (student.Student, error) {
	var sets []string
	var args []interface{}
	set := func(column string, val interface{}) {
		args = append(args, val)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if up.StudentID != nil {
		set("student_id", *up.StudentID)
	}
	if up.Name != nil {
		set("name", *up.Name)
	}
	if up.Email != nil {
		set("email", *up.Email)
	}
	if up.Grade != nil {
		set("grade", *up.Grade)
	}
	if up.Status != nil {
		set("status", *up.Status)
	}
	if len(sets) == 0 {
		return repo.GetStudentByID(ctx, id)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	query := `UPDATE student SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + studentColumns

	var row studentRow
	if err := repo.db.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, trapDuplicateErr(err, "updating student")
	}
	return row.unpack(), nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	// deleting a missing student is not an error
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id); err != nil {
		return trapNoRowsErr(err, student.ErrNotFound, "deleting student")
	}
	return nil
}
