package main

import (
	"context"

	"github.com/trezcool/tuzo/core/user"
)

// addUser creates a new user.User with the given role.
func (cli *commandLine) addUser(uname, pwd, role string) error {
	nu := user.NewUser{
		Username:        uname,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            role,
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	cli.logger.Info("user created", map[string]interface{}{"id": usr.ID, "username": usr.Username, "role": usr.Role})
	return nil
}

// listUsers prints all users.
func (cli *commandLine) listUsers() error {
	users, err := cli.usrSvc.QueryAll(context.Background())
	if err != nil {
		return err
	}
	for _, usr := range users {
		status := "active"
		if !usr.IsActive {
			status = "blocked"
		}
		cli.logger.Info(usr.Username, map[string]interface{}{"id": usr.ID, "role": usr.Role, "status": status})
	}
	return nil
}
