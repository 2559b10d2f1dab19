package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Env           string
	LogLevel      string
	Port          int
	DBType        string
	DBDSN         string
	SQLitePath    string
	FileUsers     string
	FileExercises string
	PublicDir     string
	ViewsDir      string
	Location      *time.Location
}

var (
	cfg     *Config
	loadErr error
	once    sync.Once
	v       = viper.New()
)

// BindFlags lets command-line flags override the environment on the next Load.
func BindFlags(fs *pflag.FlagSet) error {
	if err := v.BindPFlag("port", fs.Lookup("port")); err != nil {
		return err
	}
	return v.BindPFlag("storage_backend", fs.Lookup("storage"))
}

// Load reads the process configuration once.
func Load() (*Config, error) {
	once.Do(func() {
		cfg, loadErr = build(v)
	})
	return cfg, loadErr
}

// FromEnv builds a fresh Config from the current environment, ignoring bound flags.
func FromEnv() (*Config, error) {
	return build(viper.New())
}

func build(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	if err := loadDotEnv(v); err != nil {
		return nil, err
	}

	c := &Config{
		Env:           v.GetString("app_env"),
		LogLevel:      v.GetString("log_level"),
		Port:          v.GetInt("port"),
		DBType:        v.GetString("storage_backend"),
		DBDSN:         v.GetString("postgres_dsn"),
		SQLitePath:    v.GetString("sqlite_path"),
		FileUsers:     v.GetString("users_file"),
		FileExercises: v.GetString("exercises_file"),
		PublicDir:     v.GetString("public_dir"),
		ViewsDir:      v.GetString("views_dir"),
	}

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE: %w", err)
	}
	c.Location = loc

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 3000)
	v.SetDefault("storage_backend", "memory")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("sqlite_path", "data/exercises.db")
	v.SetDefault("users_file", "data/users.json")
	v.SetDefault("exercises_file", "data/exercises.json")
	v.SetDefault("public_dir", "public")
	v.SetDefault("views_dir", "views")
	v.SetDefault("timezone", "Local")
}

// loadDotEnv merges a .env file from the working directory when one exists.
// Real environment variables still win over it.
func loadDotEnv(v *viper.Viper) error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read .env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "memory":
	case "file":
		if c.FileUsers == "" || c.FileExercises == "" {
			return errors.New("file storage requires USERS_FILE and EXERCISES_FILE to be set")
		}
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: memory, file, postgres, sqlite (got %q)", c.DBType)
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
