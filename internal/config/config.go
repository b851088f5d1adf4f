package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
)

// Config keys. Each key is also read from the upper-cased environment
// variable of the same name (e.g. SQLITE_DB_PATH).
const (
	KeyPort            = "port"
	KeySQLiteDBPath    = "sqlite_db_path"
	KeyDataBackend     = "data_backend"
	KeyLogLevel        = "log_level"
	KeyWeekStart       = "week_start"
	KeyTimezone        = "timezone"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyRateLimit       = "rate_limit_per_minute"
)

type Config struct {
	// HTTP Server
	Port               string
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int

	// Database
	SQLiteDBPath string

	// Backend selection
	DataBackend string

	// Logging
	LogLevel string

	// Calendar
	WeekStart string
	Timezone  string
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "8081")
	v.SetDefault(KeySQLiteDBPath, "./data/expenses.db")
	v.SetDefault(KeyDataBackend, "sqlite")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyWeekStart, "sunday")
	v.SetDefault(KeyTimezone, "Local")
	v.SetDefault(KeyShutdownTimeout, 30*time.Second)
	v.SetDefault(KeyRateLimit, 60)
	v.AutomaticEnv()
	return v
}

// Load reads configFile (if set) into v and builds the Config. A missing
// config file is an error only when it was named explicitly.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("expensetracker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return &Config{
		Port:               v.GetString(KeyPort),
		ShutdownTimeout:    v.GetDuration(KeyShutdownTimeout),
		RateLimitPerMinute: v.GetInt(KeyRateLimit),
		SQLiteDBPath:       v.GetString(KeySQLiteDBPath),
		DataBackend:        v.GetString(KeyDataBackend),
		LogLevel:           v.GetString(KeyLogLevel),
		WeekStart:          v.GetString(KeyWeekStart),
		Timezone:           v.GetString(KeyTimezone),
	}, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if c.SQLiteDBPath == ":memory:" {
			errors = append(errors, "SQLite database path must be a file, use the memory backend instead of ':memory:'")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if _, err := core.ParseWeekday(c.WeekStart); err != nil {
		errors = append(errors, fmt.Sprintf("invalid week start '%s': must be a weekday name", c.WeekStart))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Calendar returns the window calendar described by WeekStart. Call only
// on a validated config.
func (c *Config) Calendar() core.Calendar {
	day, err := core.ParseWeekday(c.WeekStart)
	if err != nil {
		return core.DefaultCalendar
	}
	return core.Calendar{WeekStart: day}
}

// Location returns the time zone expense dates are taken in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
