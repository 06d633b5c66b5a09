package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kwanza/mahudhurio/core/settings"
	"github.com/kwanza/mahudhurio/core/user"
)

func Test_settingsApi(t *testing.T) {
	app := setup(t)
	admin := app.createUser(t, "School Admin", "admin@school.com", "admin123", user.RoleAdmin)
	teacher := app.createUser(t, "Jane Mushi", "teacher1@school.com", "teacher123", user.RoleTeacher)
	adminToken := app.getToken(t, admin)

	wantForbidden := marchallObj(t, httpErr{Error: "permission denied"})

	tests := []httpTest{
		{
			name:     "list unauthenticated",
			method:   http.MethodGet,
			path:     "/v1/settings",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "list as teacher denied",
			method:   http.MethodGet,
			path:     "/v1/settings",
			token:    app.getToken(t, teacher),
			wantCode: http.StatusForbidden,
			wantData: wantForbidden,
		},
		{
			name:     "set as teacher denied",
			method:   http.MethodPut,
			path:     "/v1/settings/school_name",
			token:    app.getToken(t, teacher),
			body:     []byte(`{"value": "Mlimani Primary"}`),
			wantCode: http.StatusForbidden,
			wantData: wantForbidden,
		},
		{
			name:     "empty list",
			method:   http.MethodGet,
			path:     "/v1/settings",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "set a value",
			method:   http.MethodPut,
			path:     "/v1/settings/school_name",
			token:    adminToken,
			body:     []byte(`{"value": "Mlimani Primary"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "overwrite the value",
			method:   http.MethodPut,
			path:     "/v1/settings/school_name",
			token:    adminToken,
			body:     []byte(`{"value": "Mlimani Secondary"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "missing value",
			method:   http.MethodPut,
			path:     "/v1/settings/school_name",
			token:    adminToken,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// upserts must have collapsed to one setting holding the last value
	t.Run("list reflects the last write", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/settings", adminToken)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var stgs []settings.Setting
		if err := json.Unmarshal(rec.Body.Bytes(), &stgs); err != nil {
			t.Fatalf("unmarshalling response failed: %v", err)
		}
		if len(stgs) != 1 {
			t.Fatalf("got %d settings; want 1", len(stgs))
		}
		if stgs[0].Key != "school_name" || stgs[0].Value != "Mlimani Secondary" {
			t.Errorf("got %+v; want school_name = Mlimani Secondary", stgs[0])
		}
	})
}
