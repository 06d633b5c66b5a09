package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kwanza/mahudhurio/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

// checkUniqueness must be called with the table lock held.
func (repo *studentRepository) checkUniqueness(studentID, email, excludedID string) error {
	for _, std := range repo.db.table {
		if std.ID == excludedID {
			continue
		}
		if studentID != "" && std.StudentID == studentID {
			return student.ErrStudentIDExists
		}
		if email != "" && std.Email == email {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.checkUniqueness(std.StudentID, std.Email, ""); err != nil {
		return student.Student{}, err
	}
	std.ID = uuid.New().String()
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	search := strings.ToLower(filter.Search)
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		if search != "" && !matchesSearch(*std, search) {
			continue
		}
		if filter.Status != "" && std.Status != filter.Status {
			continue
		}
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func matchesSearch(std student.Student, search string) bool {
	return strings.Contains(strings.ToLower(std.Name), search) ||
		strings.Contains(strings.ToLower(std.Email), search) ||
		strings.Contains(strings.ToLower(std.StudentID), search)
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, id string, up student.UpdateStudent) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}

	// only save set fields
	std := *orig
	if up.StudentID != nil {
		std.StudentID = *up.StudentID
	}
	if up.Name != nil {
		std.Name = *up.Name
	}
	if up.Email != nil {
		std.Email = *up.Email
	}
	if up.Grade != nil {
		std.Grade = *up.Grade
	}
	if up.Status != nil {
		std.Status = *up.Status
	}
	if err := repo.checkUniqueness(std.StudentID, std.Email, id); err != nil {
		return student.Student{}, err
	}
	std.UpdatedAt = time.Now().UTC()
	repo.db.table[id] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	// deleting a missing student is not an error
	delete(repo.db.table, id)
	return nil
}
