package user_test

import (
	"context"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwanza/mahudhurio/core"
	"github.com/kwanza/mahudhurio/core/user"
	emailsvc "github.com/kwanza/mahudhurio/services/email"
	inmemdb "github.com/kwanza/mahudhurio/storage/database/inmem"
)

func newService(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()

	conf := &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Mahudhurio",
		DefaultFromEmail: mail.Address{Address: "noreply@localhost"},
	}
	db, err := inmemdb.Open()
	require.NoError(t, err)

	repo := inmemdb.NewUserRepository(db)
	emailsvc.ClearSentMessages()
	return user.NewService(repo, emailsvc.NewConsoleServiceMock(conf), conf), repo
}

func TestService_Create(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{
		Name:     "Jane Mushi",
		Email:    " Jane@School.com ",
		Password: "teacher123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "jane@school.com", usr.Email, "email must be normalized")
	assert.Equal(t, user.RoleTeacher, usr.Role, "role defaults to teacher")
	assert.Equal(t, user.StatusActive, usr.Status)
	assert.NotEmpty(t, usr.PasswordHash)
	assert.True(t, strings.HasPrefix(string(usr.PasswordHash), "$2a$"), "passwords are stored as bcrypt hashes")
	assert.NoError(t, usr.CheckPassword("teacher123"))
	assert.Error(t, usr.CheckPassword("Teacher123"))

	require.Len(t, emailsvc.SentMessages, 1, "a welcome email is sent")
	assert.Equal(t, usr.Email, emailsvc.SentMessages[0].To[0].Address)

	_, err = svc.Create(ctx, user.NewUser{
		Name:     "Imposter",
		Email:    "jane@school.com",
		Password: "hunter!23",
	})
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{
		Name:     "Jane Mushi",
		Email:    "jane@school.com",
		Password: "teacher123",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "jane@school.com", "teacher123")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)
	})

	t.Run("email lookup is normalized", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, " Jane@School.com ", "teacher123")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "jane@school.com", "nope")
		assert.ErrorIs(t, err, user.ErrAuthenticationFailed)
	})

	t.Run("unknown email is indistinguishable from a wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@school.com", "teacher123")
		assert.ErrorIs(t, err, user.ErrAuthenticationFailed)
	})

	t.Run("inactive account", func(t *testing.T) {
		usr.Status = user.StatusInactive
		_, err := repo.UpdateOrCreateUser(ctx, usr)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, "jane@school.com", "teacher123")
		assert.ErrorIs(t, err, user.ErrAuthenticationFailed)
	})
}
