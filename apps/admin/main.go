package main

import (
	"log"
	"os"

	"github.com/trezcool/tuzo/core"
	"github.com/trezcool/tuzo/core/school"
	"github.com/trezcool/tuzo/core/user"
	logsvc "github.com/trezcool/tuzo/services/logger"
	"github.com/trezcool/tuzo/storage/backup"
	"github.com/trezcool/tuzo/storage/database"
	sqliterepos "github.com/trezcool/tuzo/storage/database/sqlite"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewConsoleLogger(std)
	}

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()
	if err = db.Ping(); err != nil {
		logger.Fatal("pinging database", err)
	}

	// start CLI
	cli := commandLine{
		db:     db,
		conf:   conf,
		logger: logger,
		usrSvc: user.NewService(sqliterepos.NewUserRepository(db), logger),
		schSvc: school.NewService(sqliterepos.NewSchoolRepository(db), logger),
		bkpMgr: backup.NewManager(conf, db, logger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}
}
