package main

import (
	"context"
	"errors"
	"time"

	"github.com/kwanza/mahudhurio/core"
	"github.com/kwanza/mahudhurio/core/user"
)

// addUser updates or creates a user.User keyed on its email.
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return err
		}
		usr = user.User{
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Name = core.CleanString(name)
	usr.Role = user.RoleTeacher
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	usr.Status = user.StatusActive
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrSvc.UpdateOrCreate(ctx, usr); err != nil {
		return err
	}
	return nil
}
