package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/weekcal/pkg/dateutil"
)

const (
	defaultDailyHour   = 8
	defaultDailyMinute = 0
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	State    StateConfig    `mapstructure:"state"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
}

// CalendarConfig represents calendar configuration
type CalendarConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA name; all date math happens in this zone
}

// StateConfig represents state storage configuration
type StateConfig struct {
	EventsFile string `mapstructure:"events_file"`
	CursorFile string `mapstructure:"cursor_file"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	DailyTime string `mapstructure:"daily_time"` // Time to print the agenda (HH:MM, calendar timezone)
	LogFile   string `mapstructure:"log_file"`
	LogLevel  string `mapstructure:"log_level"`
}

// Default returns the configuration used when no config file is found
func Default() *Config {
	return &Config{
		State: StateConfig{
			EventsFile: "weekcal-events.yaml",
			CursorFile: "weekcal-week.json",
		},
		Daemon: DaemonConfig{
			DailyTime: "08:00",
			LogLevel:  "info",
		},
	}
}

// Load loads configuration from file. A missing config file yields the
// defaults; a file that exists but cannot be parsed is an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("calendar.timezone", def.Calendar.Timezone)
	v.SetDefault("state.events_file", def.State.EventsFile)
	v.SetDefault("state.cursor_file", def.State.CursorFile)
	v.SetDefault("daemon.daily_time", def.Daemon.DailyTime)
	v.SetDefault("daemon.log_file", def.Daemon.LogFile)
	v.SetDefault("daemon.log_level", def.Daemon.LogLevel)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.weekcal")
		v.AddConfigPath("/etc/weekcal")
	}

	// WEEKCAL_CALENDAR_TIMEZONE etc.
	v.SetEnvPrefix("weekcal")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Calendar.Timezone != "" {
		if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
			return fmt.Errorf("calendar.timezone %q: %w", c.Calendar.Timezone, err)
		}
	}

	if c.State.EventsFile == "" {
		return fmt.Errorf("state.events_file is required")
	}
	if c.State.CursorFile == "" {
		return fmt.Errorf("state.cursor_file is required")
	}

	if c.Daemon.DailyTime != "" {
		if _, _, err := dateutil.ParseClock(c.Daemon.DailyTime); err != nil {
			return fmt.Errorf("daemon.daily_time: %w", err)
		}
	}

	return nil
}

// Location returns the configured timezone, time.Local when unset
func (c *CalendarConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetDailyTime returns the configured agenda time. Default: 08:00
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	if c.DailyTime == "" {
		return defaultDailyHour, defaultDailyMinute
	}

	h, m, err := dateutil.ParseClock(c.DailyTime)
	if err != nil {
		return defaultDailyHour, defaultDailyMinute
	}
	return h, m
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.State.EventsFile = os.ExpandEnv(c.State.EventsFile)
	c.State.CursorFile = os.ExpandEnv(c.State.CursorFile)
	c.Daemon.LogFile = os.ExpandEnv(c.Daemon.LogFile)
}
