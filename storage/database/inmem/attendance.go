package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kwanza/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db       *attendanceTable
	students *studentTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance, students: db.student}
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey{studentID: rec.StudentID, date: rec.Date.String()}
	if orig, ok := repo.db.table[key]; ok {
		// overwrite; last write wins
		orig.Status = rec.Status
		orig.MarkedBy = rec.MarkedBy
		orig.Notes = rec.Notes
		orig.UpdatedAt = time.Now().UTC()
		return *orig, nil
	}
	rec.ID = uuid.New().String()
	repo.db.table[key] = &rec
	return rec, nil
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter attendance.QueryFilter) ([]attendance.RecordWithStudent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.RecordWithStudent, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		if !filter.Date.IsZero() && !rec.Date.Equal(filter.Date.Time) {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		if filter.HasRange() && (rec.Date.Before(filter.StartDate.Time) || rec.Date.After(filter.EndDate.Time)) {
			continue
		}
		records = append(records, repo.withStudent(*rec))
	}

	// date descending, then student name ascending
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date.Time) {
			return records[i].Date.After(records[j].Date.Time)
		}
		return studentName(records[i]) < studentName(records[j])
	})
	return records, nil
}

func (repo *attendanceRepository) withStudent(rec attendance.Record) attendance.RecordWithStudent {
	out := attendance.RecordWithStudent{Record: rec}

	repo.students.RLock()
	defer repo.students.RUnlock()
	if std, ok := repo.students.table[rec.StudentID]; ok {
		out.Student = &attendance.StudentInfo{
			Name:      std.Name,
			StudentID: std.StudentID,
			Grade:     std.Grade,
		}
	}
	return out
}

func studentName(rec attendance.RecordWithStudent) string {
	if rec.Student == nil {
		return ""
	}
	return rec.Student.Name
}
