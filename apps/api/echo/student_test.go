package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kwanza/mahudhurio/core/student"
	"github.com/kwanza/mahudhurio/core/user"
)

func Test_studentApi_query(t *testing.T) {
	app := setup(t)
	teacher := app.createUser(t, "Jane Mushi", "teacher1@school.com", "teacher123", user.RoleTeacher)
	token := app.getToken(t, teacher)

	alice := app.createStudent(t, "STU001", "Alice Johnson", "alice@school.com", "Grade 5")
	bob := app.createStudent(t, "STU002", "Bob Smith", "bob@school.com", "Grade 6")

	inactive := student.StatusInactive
	if _, err := app.stdSvc.Update(context.Background(), bob.ID, student.UpdateStudent{Status: &inactive}); err != nil {
		t.Fatalf("updating student failed: %v", err)
	}
	bob.Status = student.StatusInactive

	tests := []httpTest{
		{
			name:     "unauthenticated",
			path:     "/v1/students",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "all students, ordered by name",
			path:     "/v1/students",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []string{alice.ID, bob.ID},
		},
		{
			name:     "search matches name",
			path:     "/v1/students?search=alice",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []string{alice.ID},
		},
		{
			name:     "search matches student code",
			path:     "/v1/students?search=STU002",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []string{bob.ID},
		},
		{
			name:     "status filter",
			path:     "/v1/students?status=inactive",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []string{bob.ID},
		},
		{
			name:     "search and status AND together",
			path:     "/v1/students?search=alice&status=inactive",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode != http.StatusOK {
				return
			}
			var students []student.Student
			if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
				t.Fatalf("unmarshalling response failed: %v", err)
			}
			wantIDs := tt.extra.([]string)
			if len(students) != len(wantIDs) {
				t.Fatalf("got %d students; want %d", len(students), len(wantIDs))
			}
			for i, id := range wantIDs {
				if students[i].ID != id {
					t.Errorf("students[%d].ID = %s; want %s", i, students[i].ID, id)
				}
			}
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)
	admin := app.createUser(t, "School Admin", "admin@school.com", "admin123", user.RoleAdmin)
	teacher := app.createUser(t, "Jane Mushi", "teacher1@school.com", "teacher123", user.RoleTeacher)
	adminToken := app.getToken(t, admin)

	app.createStudent(t, "STU001", "Alice Johnson", "alice@school.com", "Grade 5")

	tests := []httpTest{
		{
			name:     "unauthenticated",
			body:     []byte(`{"student_id": "STU002", "name": "Bob Smith", "email": "bob@school.com", "grade": "Grade 6"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "teacher role denied",
			token:    app.getToken(t, teacher),
			body:     []byte(`{"student_id": "STU002", "name": "Bob Smith", "email": "bob@school.com", "grade": "Grade 6"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "admin creates",
			token:    adminToken,
			body:     []byte(`{"student_id": "STU002", "name": "Bob Smith", "email": "bob@school.com", "grade": "Grade 6"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate student code",
			token:    adminToken,
			body:     []byte(`{"student_id": "STU001", "name": "Carol White", "email": "carol@school.com", "grade": "Grade 6"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: student.ErrStudentIDExists.Error()}),
		},
		{
			name:     "duplicate email",
			token:    adminToken,
			body:     []byte(`{"student_id": "STU003", "name": "Carol White", "email": "alice@school.com", "grade": "Grade 6"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: student.ErrEmailExists.Error()}),
		},
		{
			name:     "missing required fields",
			token:    adminToken,
			body:     []byte(`{"name": "No Code"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid status",
			token:    adminToken,
			body:     []byte(`{"student_id": "STU004", "name": "Dan Brown", "email": "dan@school.com", "grade": "Grade 7", "status": "expelled"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var std student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				if std.ID == "" {
					t.Error("expected a generated ID")
				}
				if std.Status != student.StatusActive {
					t.Errorf("new students must default to active; got %q", std.Status)
				}
				if std.CreatedBy != admin.ID {
					t.Errorf("CreatedBy = %s; want %s", std.CreatedBy, admin.ID)
				}
			}
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	app := setup(t)
	admin := app.createUser(t, "School Admin", "admin@school.com", "admin123", user.RoleAdmin)
	adminToken := app.getToken(t, admin)

	alice := app.createStudent(t, "STU001", "Alice Johnson", "alice@school.com", "Grade 5")
	app.createStudent(t, "STU002", "Bob Smith", "bob@school.com", "Grade 6")

	tests := []httpTest{
		{
			name:     "partial patch leaves other fields alone",
			path:     "/v1/students/" + alice.ID,
			token:    adminToken,
			body:     []byte(`{"grade": "Grade 6"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "unknown student",
			path:     "/v1/students/00000000-0000-0000-0000-000000000000",
			token:    adminToken,
			body:     []byte(`{"grade": "Grade 6"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
		{
			name:     "duplicate student code",
			path:     "/v1/students/" + alice.ID,
			token:    adminToken,
			body:     []byte(`{"student_id": "STU002"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: student.ErrStudentIDExists.Error()}),
		},
		{
			name:     "invalid email",
			path:     "/v1/students/" + alice.ID,
			token:    adminToken,
			body:     []byte(`{"email": "nope"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var std student.Student
				if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				if std.Grade != "Grade 6" {
					t.Errorf("Grade = %q; want %q", std.Grade, "Grade 6")
				}
				if std.Name != alice.Name || std.Email != alice.Email || std.StudentID != alice.StudentID {
					t.Errorf("untouched fields changed: %+v", std)
				}
			}
		})
	}
}

func Test_studentApi_destroy(t *testing.T) {
	app := setup(t)
	admin := app.createUser(t, "School Admin", "admin@school.com", "admin123", user.RoleAdmin)
	teacher := app.createUser(t, "Jane Mushi", "teacher1@school.com", "teacher123", user.RoleTeacher)
	adminToken := app.getToken(t, admin)

	alice := app.createStudent(t, "STU001", "Alice Johnson", "alice@school.com", "Grade 5")

	wantOK := httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, MessageResponse{Message: "Student deleted successfully"}),
	}

	t.Run("teacher role denied", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+alice.ID, app.getToken(t, teacher))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)
	})

	t.Run("admin deletes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+alice.ID, adminToken)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, wantOK, rec)
	})

	t.Run("deleting again is a no-op", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/students/"+alice.ID, adminToken)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, wantOK, rec)
	})
}
