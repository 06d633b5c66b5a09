// Package sqlxrepos implements the core repository contracts over PostgreSQL.
package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kwanza/mahudhurio/core/student"
	"github.com/kwanza/mahudhurio/core/user"
)

// pq unique-constraint violation
const uniqueViolation = "23505"

// duplicateKeyErrs maps violated constraint names to domain sentinels.
var duplicateKeyErrs = map[string]error{
	"user_email_key":         user.ErrEmailExists,
	"student_student_id_key": student.ErrStudentIDExists,
	"student_email_key":      student.ErrEmailExists,
}

// trapDuplicateErr maps a psql unique violation to its domain sentinel.
func trapDuplicateErr(err error, msg string) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		if domErr, ok := duplicateKeyErrs[pqErr.Constraint]; ok {
			return domErr
		}
	}
	return errors.Wrap(err, msg)
}

// trapNoRowsErr maps psql "no rows" to the given domain sentinel.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// nullStr turns an empty string into a SQL NULL; used for nullable UUID columns.
func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
