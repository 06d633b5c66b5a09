// Package inmemdb provides in-memory repository implementations.
// They exist as test doubles only: same contracts, no persistence.
package inmemdb

import (
	"sync"

	"github.com/kwanza/mahudhurio/core/attendance"
	"github.com/kwanza/mahudhurio/core/settings"
	"github.com/kwanza/mahudhurio/core/student"
	"github.com/kwanza/mahudhurio/core/user"
)

type (
	DB struct {
		user       *userTable
		student    *studentTable
		attendance *attendanceTable
		settings   *settingsTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	// attendance rows are keyed by (studentID, date)
	attendanceTable struct {
		sync.RWMutex
		table map[recordKey]*attendance.Record
	}

	recordKey struct {
		studentID string
		date      string
	}

	settingsTable struct {
		sync.RWMutex
		table map[string]*settings.Setting
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		student:    &studentTable{table: make(map[string]*student.Student)},
		attendance: &attendanceTable{table: make(map[recordKey]*attendance.Record)},
		settings:   &settingsTable{table: make(map[string]*settings.Setting)},
	}
	return db, nil
}
