package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kwanza/mahudhurio/core/attendance"
	"github.com/kwanza/mahudhurio/core/student"
	"github.com/kwanza/mahudhurio/core/user"
)

// seed loads demo data: a default admin account, two teachers, a handful of
// students and attendance for today. Safe to run more than once.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	admin, err := cli.seedUser(ctx, "School Admin", "admin@school.com", "admin123", user.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err = cli.seedUser(ctx, "Jane Mushi", "teacher1@school.com", "teacher123", user.RoleTeacher); err != nil {
		return err
	}
	if _, err = cli.seedUser(ctx, "John Kessy", "teacher2@school.com", "teacher123", user.RoleTeacher); err != nil {
		return err
	}

	students := []student.NewStudent{
		{StudentID: "STU001", Name: "Alice Johnson", Email: "alice.johnson@school.com", Grade: "Grade 5"},
		{StudentID: "STU002", Name: "Bob Smith", Email: "bob.smith@school.com", Grade: "Grade 5"},
		{StudentID: "STU003", Name: "Carol White", Email: "carol.white@school.com", Grade: "Grade 6"},
		{StudentID: "STU004", Name: "David Brown", Email: "david.brown@school.com", Grade: "Grade 6"},
		{StudentID: "STU005", Name: "Emma Davis", Email: "emma.davis@school.com", Grade: "Grade 7"},
	}
	ids := make(map[string]string, len(students)) // student code -> internal ID
	for _, ns := range students {
		std, err := cli.stdSvc.Create(ctx, ns, admin.ID)
		if err != nil {
			if errors.Is(err, student.ErrStudentIDExists) || errors.Is(err, student.ErrEmailExists) {
				// already seeded; look it up for the attendance pass
				if std, err = cli.findStudent(ctx, ns.StudentID); err != nil {
					return err
				}
			} else {
				return fmt.Errorf("seeding student %s: %w", ns.StudentID, err)
			}
		}
		ids[std.StudentID] = std.ID
	}

	// today's attendance for a few students
	today := attendance.Today()
	marks := []attendance.Mark{
		{StudentID: ids["STU001"], Date: today, Status: attendance.StatusPresent},
		{StudentID: ids["STU002"], Date: today, Status: attendance.StatusPresent},
		{StudentID: ids["STU003"], Date: today, Status: attendance.StatusAbsent, Notes: "Sick leave"},
	}
	for _, m := range marks {
		m.MarkedBy = admin.ID
		if _, err = cli.attSvc.Mark(ctx, m); err != nil {
			return fmt.Errorf("seeding attendance: %w", err)
		}
	}

	logger.Println("seed data loaded")
	return nil
}

func (cli *commandLine) findStudent(ctx context.Context, code string) (student.Student, error) {
	matches, err := cli.stdSvc.Query(ctx, student.QueryFilter{Search: code})
	if err != nil {
		return student.Student{}, err
	}
	for _, std := range matches {
		if std.StudentID == code {
			return std, nil
		}
	}
	return student.Student{}, fmt.Errorf("student %s not found", code)
}

func (cli *commandLine) seedUser(ctx context.Context, name, email, pwd, role string) (user.User, error) {
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return user.User{}, err
		}
		usr = user.User{
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Name = name
	usr.Role = role
	usr.Status = user.StatusActive
	if err = usr.SetPassword(pwd); err != nil {
		return user.User{}, err
	}
	return cli.usrSvc.UpdateOrCreate(ctx, usr)
}
