package user_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/kwanza/mahudhurio/core"
	"github.com/kwanza/mahudhurio/core/user"
)

func newValidator() *validator.Validate {
	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	return validate
}

func TestNewUser_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		nu      user.NewUser
		wantTag string // empty means valid
	}{
		{
			name: "valid",
			nu:   user.NewUser{Name: "Jane Mushi", Email: "jane@school.com", Password: "chui!2026"},
		},
		{
			name:    "missing email",
			nu:      user.NewUser{Name: "Jane Mushi", Password: "chui!2026"},
			wantTag: "required",
		},
		{
			name:    "bad email",
			nu:      user.NewUser{Name: "Jane Mushi", Email: "nope", Password: "chui!2026"},
			wantTag: "email",
		},
		{
			name:    "unknown role",
			nu:      user.NewUser{Name: "Jane Mushi", Email: "jane@school.com", Password: "chui!2026", Role: "principal"},
			wantTag: "userrole",
		},
		{
			name:    "password too short",
			nu:      user.NewUser{Name: "Jane Mushi", Email: "jane@school.com", Password: "ab!12"},
			wantTag: "pwdminlen",
		},
		{
			name:    "password all numeric",
			nu:      user.NewUser{Name: "Jane Mushi", Email: "jane@school.com", Password: "20260831"},
			wantTag: "pwdnotallnum",
		},
		{
			name:    "password too similar to email",
			nu:      user.NewUser{Name: "Jane Mushi", Email: "jane@school.com", Password: "jane@school.co"},
			wantTag: "pwdtoosim",
		},
		{
			name:    "empty password reported as required only",
			nu:      user.NewUser{Name: "Jane Mushi", Email: "jane@school.com"},
			wantTag: "required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(validate)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}

			var vErrs validator.ValidationErrors
			if !assert.ErrorAs(t, err, &vErrs) {
				return
			}
			tags := make([]string, 0, len(vErrs))
			for _, vErr := range vErrs {
				tags = append(tags, vErr.Tag())
			}
			assert.Contains(t, tags, tt.wantTag)
		})
	}
}

func TestCredentials_Validate(t *testing.T) {
	validate := newValidator()

	assert.NoError(t, user.Credentials{Email: "jane@school.com", Password: "x"}.Validate(validate))
	assert.Error(t, user.Credentials{Email: "jane@school.com"}.Validate(validate))
	assert.Error(t, user.Credentials{Password: "x"}.Validate(validate))
	assert.Error(t, user.Credentials{Email: "nope", Password: "x"}.Validate(validate))
}
