package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PHARMACY"

type Config struct {
	AppEnv   string
	LogLevel string
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	WebDir   string

	DefaultAdmin    string
	DefaultPassword string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Driver  string
	DSN     string
	DataDir string
}

type SessionConfig struct {
	Secret         string
	MaxAge         int
	RememberMaxAge int
	Secure         bool
}

// Load reads an optional .env file and then the process environment.
// Keys are prefixed with PHARMACY_ except APP_ENV and LOG_LEVEL.
func Load() *Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	_ = v.BindEnv("app_env", "APP_ENV")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	cfg := &Config{
		AppEnv:   v.GetString("app_env"),
		LogLevel: v.GetString("log_level"),
		Server: ServerConfig{
			Port:         v.GetInt("port"),
			ReadTimeout:  v.GetDuration("read_timeout"),
			WriteTimeout: v.GetDuration("write_timeout"),
		},
		Database: DatabaseConfig{
			Driver:  v.GetString("db_driver"),
			DSN:     v.GetString("db_dsn"),
			DataDir: v.GetString("data_dir"),
		},
		Session: SessionConfig{
			Secret:         v.GetString("session_secret"),
			MaxAge:         v.GetInt("session_max_age"),
			RememberMaxAge: v.GetInt("remember_max_age"),
			Secure:         v.GetBool("secure_cookies"),
		},
		WebDir:          v.GetString("web_dir"),
		DefaultAdmin:    v.GetString("default_admin"),
		DefaultPassword: v.GetString("default_password"),
	}

	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite3" {
		cfg.Database.DSN = filepath.Join(cfg.Database.DataDir, "apotek.db") + "?_foreign_keys=on"
		os.MkdirAll(cfg.Database.DataDir, 0755)
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "production")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 8080)
	v.SetDefault("read_timeout", 15*time.Second)
	v.SetDefault("write_timeout", 15*time.Second)
	v.SetDefault("db_driver", "sqlite3")
	v.SetDefault("db_dsn", "")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("session_secret", "change-me-in-production-32bytes!")
	v.SetDefault("session_max_age", 86400)       // 24 hours
	v.SetDefault("remember_max_age", 86400*30) // 30 days
	v.SetDefault("secure_cookies", false)
	v.SetDefault("web_dir", "")
	v.SetDefault("default_admin", "")
	v.SetDefault("default_password", "")
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
