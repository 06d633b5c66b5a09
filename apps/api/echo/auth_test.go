package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/kwanza/mahudhurio/core/user"
)

func Test_authApi_login(t *testing.T) {
	app := setup(t)
	app.createUser(t, "School Admin", "admin@school.com", "admin123", user.RoleAdmin)

	tests := []httpTest{
		{
			name:     "valid credentials",
			body:     []byte(`{"email": "admin@school.com", "password": "admin123"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "email is normalized",
			body:     []byte(`{"email": " Admin@School.com ", "password": "admin123"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "admin@school.com", "password": "nope"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid email or password"}),
		},
		{
			name:     "unknown email",
			body:     []byte(`{"email": "ghost@school.com", "password": "admin123"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid email or password"}),
		},
		{
			name:     "missing fields",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				if !resp.Success || resp.Token == "" {
					t.Errorf("expected a successful login with a token; got %+v", resp)
				}
				if !hasSessionCookie(rec) {
					t.Error("expected a session cookie to be set")
				}
			} else if hasSessionCookie(rec) {
				t.Error("no session cookie must be set on failed login")
			}
		})
	}
}

func Test_authApi_session(t *testing.T) {
	app := setup(t)
	usr := app.createUser(t, "Jane Mushi", "teacher1@school.com", "teacher123", user.RoleTeacher)

	tests := []httpTest{
		{
			name:     "valid token",
			token:    app.getToken(t, usr),
			wantCode: http.StatusOK,
		},
		{
			name:     "no token",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "expired token",
			token:    app.getExpiredToken(t, usr),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name:     "garbage token",
			token:    "not.a.jwt",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/auth/session", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp SessionResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				if resp.User.ID != usr.ID || resp.User.Email != usr.Email || resp.User.Role != user.RoleTeacher {
					t.Errorf("session user mismatch; got %+v", resp.User)
				}
				if resp.Expires.IsZero() {
					t.Error("expected an absolute session expiry")
				}
			}
		})
	}
}

func Test_authApi_sessionCookieAuth(t *testing.T) {
	app := setup(t)
	usr := app.createUser(t, "Jane Mushi", "teacher1@school.com", "teacher123", user.RoleTeacher)

	// browsers send the token back via the session cookie, not the header
	req, rec := newRequest(http.MethodGet, "/v1/auth/session")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: app.getToken(t, usr)})
	app.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func Test_authApi_logout(t *testing.T) {
	app := setup(t)

	// logging out without a session succeeds all the same
	for i := 0; i < 2; i++ {
		req, rec := newRequest(http.MethodPost, "/v1/auth/logout")
		app.server.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, MessageResponse{Message: "Logged out successfully"}),
		}
		checkCodeAndData(t, tt, rec)

		cleared := false
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == sessionCookieName && cookie.Value == "" && cookie.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Error("expected the session cookie to be cleared")
		}
	}
}

func Test_authApi_signup(t *testing.T) {
	app := setup(t)
	app.createUser(t, "School Admin", "admin@school.com", "admin123", user.RoleAdmin)

	tests := []httpTest{
		{
			name:     "valid signup",
			body:     []byte(`{"name": "John Kessy", "email": "teacher2@school.com", "password": "chui!2026"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "duplicate email",
			body:     []byte(`{"name": "Imposter", "email": "admin@school.com", "password": "chui!2026"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: user.ErrEmailExists.Error()}),
		},
		{
			name:     "password too short",
			body:     []byte(`{"name": "John Kessy", "email": "teacher3@school.com", "password": "ab1"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid email",
			body:     []byte(`{"name": "John Kessy", "email": "not-an-email", "password": "chui!2026"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/signup", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("unmarshalling response failed: %v", err)
				}
				if usr.Role != user.RoleTeacher {
					t.Errorf("new signups must default to the teacher role; got %q", usr.Role)
				}
				if usr.Status != user.StatusActive {
					t.Errorf("new signups must be active; got %q", usr.Status)
				}
				if strings.Contains(rec.Body.String(), "password") {
					t.Error("the password hash must never be serialized")
				}
			}
		})
	}
}

func hasSessionCookie(rec interface{ Result() *http.Response }) bool {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return true
		}
	}
	return false
}
