package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kwanza/mahudhurio/core"
	"github.com/kwanza/mahudhurio/core/attendance"
	"github.com/kwanza/mahudhurio/core/dashboard"
	"github.com/kwanza/mahudhurio/core/settings"
	"github.com/kwanza/mahudhurio/core/student"
	"github.com/kwanza/mahudhurio/core/user"
	emailsvc "github.com/kwanza/mahudhurio/services/email"
	logsvc "github.com/kwanza/mahudhurio/services/logger"
	inmemdb "github.com/kwanza/mahudhurio/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server Server
	auth   *auth
	conf   *core.Config

	usrSvc      *user.Service
	stdSvc      *student.Service
	attSvc      *attendance.Service
	settingsSvc *settings.Service
}

func newTestConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Mahudhurio",
		SecretKey:        []byte("secret"),
		DefaultFromEmail: mail.Address{Address: "noreply@localhost"},
		Server: core.ServerConfig{
			Host:               "localhost",
			Port:               8000,
			JWTExpirationDelta: 10 * time.Minute,
		},
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := newTestConfig()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc, conf)
	stdSvc := student.NewService(inmemdb.NewStudentRepository(db))
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db))
	dashSvc := dashboard.NewService(stdSvc, attSvc)
	settingsSvc := settings.NewService(inmemdb.NewSettingsRepository(db))

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	logger.Enable(false)

	server := NewServer(&Options{
		Address:        "localhost:8000",
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		StudentSvc:     stdSvc,
		AttendanceSvc:  attSvc,
		DashboardSvc:   dashSvc,
		SettingsSvc:    settingsSvc,
	})
	return &testApp{
		server:      server,
		auth:        newAuth(conf),
		conf:        conf,
		usrSvc:      usrSvc,
		stdSvc:      stdSvc,
		attSvc:      attSvc,
		settingsSvc: settingsSvc,
	}
}

func (app *testApp) createUser(t *testing.T, name, email, pwd, role string) user.User {
	t.Helper()
	usr, err := app.usrSvc.Create(context.Background(), user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (app *testApp) createStudent(t *testing.T, code, name, email, grade string) student.Student {
	t.Helper()
	std, err := app.stdSvc.Create(context.Background(), student.NewStudent{
		StudentID: code,
		Name:      name,
		Email:     email,
		Grade:     grade,
	}, "test")
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := app.auth.GenerateToken(app.auth.GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// getExpiredToken signs claims whose expiry is already in the past.
func (app *testApp) getExpiredToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := app.auth.GetUserClaims(usr)
	claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	token, err := app.auth.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getExpiredToken() failed: %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
