package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/tuzo/core"
	"github.com/trezcool/tuzo/core/school"
	"github.com/trezcool/tuzo/core/user"
	"github.com/trezcool/tuzo/storage/backup"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db     *sqlx.DB
	conf   *core.Config
	logger core.Logger
	usrSvc *user.Service
	schSvc *school.Service
	bkpMgr *backup.Manager
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  seed - seed the demo grade and the bootstrap admin account")
	fmt.Println("  adduser -username USERNAME [-role ROLE] - create a user; the password will be prompted")
	fmt.Println("  resetpassword -username USERNAME - reset a user's password")
	fmt.Println("  users - list all users")
	fmt.Println("  backup - create a store backup")
	fmt.Println("  backups - list available backups")
	fmt.Println("  restorebackup -path PATH - restore the store from a backup")
	fmt.Println("  prunebackups [-keep N] - delete old backups beyond the N most recent")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The new user's username. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", user.RoleClassTeacher, "The new user's role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	restoreCmd := flag.NewFlagSet("restorebackup", flag.ExitOnError)
	restorePath := restoreCmd.String("path", "", "Path of the backup file to restore from.")

	pruneCmd := flag.NewFlagSet("prunebackups", flag.ExitOnError)
	pruneKeep := pruneCmd.Int("keep", cli.conf.Backup.Keep, "Number of most recent backups to keep.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				addUserCmd.Usage()
			}
			return err
		}
		return cli.addUser(*addUserUname, pwd, *addUserRole)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			if err == errHelp {
				resetPasswordCmd.Usage()
			}
			return err
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "users":
		return cli.listUsers()
	case "backup":
		return cli.createBackup()
	case "backups":
		return cli.listBackups()
	case "restorebackup":
		if err := restoreCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *restorePath == "" {
			restoreCmd.Usage()
			return errHelp
		}
		return cli.restoreBackup(*restorePath)
	case "prunebackups":
		if err := pruneCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.pruneBackups(*pruneKeep)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}
