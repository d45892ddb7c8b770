// Package config loads timeblock settings. TIMEBLOCK_* environment
// variables override the YAML config file, which overrides the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alexanderramin/timeblock/internal/domain"
	"github.com/alexanderramin/timeblock/internal/timewin"
)

const envPrefix = "TIMEBLOCK"

type Config struct {
	Timezone   string           `mapstructure:"timezone"`
	UserID     string           `mapstructure:"user_id"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Scheduling SchedulingConfig `mapstructure:"scheduling"`
	Planner    PlannerConfig    `mapstructure:"planner"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulingConfig drives single-intent proposals.
type SchedulingConfig struct {
	DailyCap       int           `mapstructure:"daily_cap"`
	MaxOccurrences int           `mapstructure:"max_occurrences"`
	Overlap        OverlapConfig `mapstructure:"overlap"`
}

type OverlapConfig struct {
	Mode              string `mapstructure:"mode"`
	MaxOverlapMinutes int    `mapstructure:"max_overlap_minutes"`
	StackablePattern  string `mapstructure:"stackable_pattern"`
}

// PlannerConfig drives the multi-task allocator.
type PlannerConfig struct {
	WorkDays                   []string `mapstructure:"work_days"`
	StartHour                  int      `mapstructure:"start_hour"`
	EndHour                    int      `mapstructure:"end_hour"`
	BreakMinutes               int      `mapstructure:"break_minutes"`
	MinBlockMinutes            int      `mapstructure:"min_block_minutes"`
	ContextSwitchBufferMinutes int      `mapstructure:"context_switch_buffer_minutes"`
	TravelBufferMinutes        int      `mapstructure:"travel_buffer_minutes"`
	ResolveConflicts           string   `mapstructure:"resolve_conflicts"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Timezone: "UTC",
		UserID:   "local",
		Database: DatabaseConfig{Path: filepath.Join(DataDir(), "timeblock.db")},
		Log:      LogConfig{Level: "info", Format: "text"},
		Scheduling: SchedulingConfig{
			DailyCap:       2,
			MaxOccurrences: 20,
			Overlap: OverlapConfig{
				Mode:              string(domain.OverlapNone),
				MaxOverlapMinutes: 15,
				StackablePattern:  "walk|listen|podcast|audiobook|stretch",
			},
		},
		Planner: PlannerConfig{
			WorkDays:                   []string{"mon", "tue", "wed", "thu", "fri"},
			StartHour:                  9,
			EndHour:                    17,
			MinBlockMinutes:            domain.DefaultMinBlockMinutes,
			ContextSwitchBufferMinutes: domain.DefaultContextSwitchBufferMin,
			TravelBufferMinutes:        domain.DefaultTravelBufferMin,
			ResolveConflicts:           string(domain.ConflictPush),
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("user_id", d.UserID)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("scheduling.daily_cap", d.Scheduling.DailyCap)
	v.SetDefault("scheduling.max_occurrences", d.Scheduling.MaxOccurrences)
	v.SetDefault("scheduling.overlap.mode", d.Scheduling.Overlap.Mode)
	v.SetDefault("scheduling.overlap.max_overlap_minutes", d.Scheduling.Overlap.MaxOverlapMinutes)
	v.SetDefault("scheduling.overlap.stackable_pattern", d.Scheduling.Overlap.StackablePattern)

	v.SetDefault("planner.work_days", d.Planner.WorkDays)
	v.SetDefault("planner.start_hour", d.Planner.StartHour)
	v.SetDefault("planner.end_hour", d.Planner.EndHour)
	v.SetDefault("planner.break_minutes", d.Planner.BreakMinutes)
	v.SetDefault("planner.min_block_minutes", d.Planner.MinBlockMinutes)
	v.SetDefault("planner.context_switch_buffer_minutes", d.Planner.ContextSwitchBufferMinutes)
	v.SetDefault("planner.travel_buffer_minutes", d.Planner.TravelBufferMinutes)
	v.SetDefault("planner.resolve_conflicts", d.Planner.ResolveConflicts)
}

// Load reads configuration. An explicit path must exist; without one the
// default config file is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.path", envPrefix+"_DATABASE_PATH", envPrefix+"_DB")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigDir is $XDG_CONFIG_HOME/timeblock, falling back to ~/.config/timeblock.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "timeblock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".timeblock"
	}
	return filepath.Join(home, ".config", "timeblock")
}

// DataDir is $XDG_DATA_HOME/timeblock, falling back to ~/.local/share/timeblock.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "timeblock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".timeblock"
	}
	return filepath.Join(home, ".local", "share", "timeblock")
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return domain.LoadLocation(c.Timezone)
}

// OverlapPolicy converts the scheduling overlap settings.
func (c *Config) OverlapPolicy() domain.OverlapPolicy {
	mode, ok := domain.ParseOverlapMode(c.Scheduling.Overlap.Mode)
	if !ok {
		mode = domain.OverlapNone
	}
	return domain.OverlapPolicy{
		Mode:                 mode,
		MaxOverlapMinutes:    c.Scheduling.Overlap.MaxOverlapMinutes,
		StackableGoalPattern: c.Scheduling.Overlap.StackablePattern,
	}
}

// Preferences converts the planner settings, using the top-level timezone.
func (c *Config) Preferences() domain.PlannerPreferences {
	days := make([]time.Weekday, 0, len(c.Planner.WorkDays))
	for _, d := range c.Planner.WorkDays {
		if wd, ok := timewin.ParseWeekday(d); ok {
			days = append(days, wd)
		}
	}
	minBlock := c.Planner.MinBlockMinutes
	switchBuf := c.Planner.ContextSwitchBufferMinutes
	travelBuf := c.Planner.TravelBufferMinutes
	return domain.PlannerPreferences{
		TimeZone:                   c.Timezone,
		WorkDays:                   days,
		WorkWindow:                 domain.WorkWindow{StartHour: c.Planner.StartHour, EndHour: c.Planner.EndHour},
		BreakMinutes:               c.Planner.BreakMinutes,
		MinBlockMinutes:            &minBlock,
		ContextSwitchBufferMinutes: &switchBuf,
		TravelBufferMinutes:        &travelBuf,
		ResolveConflicts:           domain.ConflictMode(c.Planner.ResolveConflicts),
	}
}
