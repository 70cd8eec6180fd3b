package main

import "context"

// seed runs the explicit one-time bootstrap: the demo grade with its
// sections, and the bootstrap admin account from configuration. Both are
// idempotent and do nothing on an already-populated store.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	if err := cli.schSvc.EnsureSeeded(ctx); err != nil {
		return err
	}
	return cli.usrSvc.EnsureDefaultAdmin(ctx, cli.conf.Admin.Username, cli.conf.Admin.Password)
}
