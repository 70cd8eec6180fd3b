package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug   bool
	Env     string // DEV (default), TEST, QA, PROD
	AppName string
	Build   string

	RollbarToken string

	Database struct {
		Path string
	}

	Backup struct {
		Dir  string
		Keep int
	}

	// bootstrap admin account, seeded once when the store has no users
	Admin struct {
		Username string
		Password string
	}
}

func (c *Config) IsProd() bool { return c.Env == "PROD" }

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Tuzo")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("database.path", "app.db")
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.keep", 10)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:        v.GetBool("debug"),
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
	}
	conf.Database.Path = v.GetString("database.path")
	conf.Backup.Dir = v.GetString("backup.dir")
	conf.Backup.Keep = v.GetInt("backup.keep")
	conf.Admin.Username = v.GetString("admin.username")
	conf.Admin.Password = v.GetString("admin.password")
	return conf
}
