// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/codr1/labplanner/internal/layout"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// CalendarConfig holds the pixel metrics the calendar grid is drawn with.
type CalendarConfig struct {
	BaseRowHeight int `yaml:"base_row_height"`
	LaneHeight    int `yaml:"lane_height"`
	DayWidth      int `yaml:"day_width"`
	HeaderHeight  int `yaml:"header_height"`
}

type BookingConfig struct {
	MaxDescriptionLength int    `yaml:"max_description_length"`
	MaxNoteLength        int    `yaml:"max_note_length"`
	TMAPattern           string `yaml:"tma_pattern"`
}

type DefaultsConfig struct {
	TextColor       string `yaml:"text_color"`
	EquipmentStatus string `yaml:"equipment_status"`
	MaxTests        int64  `yaml:"max_tests"`
	Sides           int64  `yaml:"sides"`
	MaxSides        int64  `yaml:"max_sides"`
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		StaticDir              string `yaml:"static_dir"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Calendar CalendarConfig `yaml:"calendar"`
	Booking  BookingConfig  `yaml:"booking"`
	Defaults DefaultsConfig `yaml:"defaults"`

	Scheduler struct {
		OverrideCleanup string `yaml:"override_cleanup"`
	} `yaml:"scheduler"`

	RateLimit struct {
		WritesPerMinute int  `yaml:"writes_per_minute"`
		TrustProxy      bool `yaml:"trust_proxy"`
	} `yaml:"rate_limit"`
}

// Default returns the configuration used when a key is absent from the YAML file.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "Booking Planner"
	cfg.App.Environment = "development"
	cfg.App.Port = 5000
	cfg.App.StaticDir = "static"
	cfg.App.ShutdownTimeoutSeconds = 30
	cfg.Database = DatabaseConfig{Driver: "sqlite", Filename: "data/booking_planner.db"}
	cfg.Calendar = CalendarConfig{BaseRowHeight: 60, LaneHeight: 40, DayWidth: 140, HeaderHeight: 60}
	cfg.Booking = BookingConfig{
		MaxDescriptionLength: 200,
		MaxNoteLength:        500,
		TMAPattern:           `EU-SVA-\d{6}-\d{2}`,
	}
	cfg.Defaults = DefaultsConfig{
		TextColor:       "#ffffff",
		EquipmentStatus: "active",
		MaxTests:        1,
		Sides:           1,
		MaxSides:        8,
	}
	cfg.Scheduler.OverrideCleanup = "15 3 * * *"
	cfg.RateLimit.WritesPerMinute = 120
	return &cfg
}

// Load loads both .env and yaml configuration. Keys missing from the file keep
// their Default values; PORT, ENVIRONMENT and DATABASE_FILENAME override the file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if value, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", value, err)
		}
		c.App.Port = port
	}
	if value, ok := os.LookupEnv("ENVIRONMENT"); ok {
		c.App.Environment = value
	}
	if value, ok := os.LookupEnv("DATABASE_FILENAME"); ok {
		c.Database.Filename = value
	}
	return nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port <= 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Calendar.BaseRowHeight <= 0 || c.Calendar.LaneHeight <= 0 {
		return fmt.Errorf("calendar row and lane heights must be positive")
	}
	if c.Booking.MaxDescriptionLength <= 0 {
		return fmt.Errorf("booking max_description_length must be positive")
	}
	if _, err := regexp.Compile(c.Booking.TMAPattern); err != nil {
		return fmt.Errorf("invalid tma_pattern: %w", err)
	}
	if c.Defaults.MaxTests < 0 || c.Defaults.Sides < 1 {
		return fmt.Errorf("defaults max_tests must be >= 0 and sides >= 1")
	}
	if c.Defaults.MaxSides < 1 || c.Defaults.MaxSides > layout.MaxSides {
		return fmt.Errorf("defaults max_sides must be between 1 and %d", layout.MaxSides)
	}
	if c.Defaults.Sides > c.Defaults.MaxSides {
		return fmt.Errorf("defaults sides must not exceed max_sides")
	}
	if c.Scheduler.OverrideCleanup != "" {
		if _, err := cron.ParseStandard(c.Scheduler.OverrideCleanup); err != nil {
			return fmt.Errorf("invalid scheduler.override_cleanup: %w", err)
		}
	}
	if c.RateLimit.WritesPerMinute < 0 {
		return fmt.Errorf("rate_limit writes_per_minute must not be negative")
	}

	return nil
}
