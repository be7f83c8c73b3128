// Package config provides configuration management for tankmate.
// Configurations are loaded from TOML files with XDG-compliant paths.
package config

import (
	"errors"
	"fmt"
)

// Config holds the complete application configuration.
type Config struct {
	Game     GameConfig     `toml:"game"`
	Check    CheckConfig    `toml:"check"`
	Display  DisplayConfig  `toml:"display"`
	Logging  LoggingConfig  `toml:"logging"`
	Database DatabaseConfig `toml:"database"`
}

// GameConfig says where the installed game keeps its data and saves.
type GameConfig struct {
	// DataDirs are tried in order; the first existing directory wins.
	DataDirs []string `toml:"data_dirs"`
	// SaveDir empty means the platform default, see SaveDir.
	SaveDir string `toml:"save_dir"`
}

// CheckConfig controls how exhibits are checked.
type CheckConfig struct {
	AssumeFullyGrown    bool `toml:"assume_fully_grown"`
	MaxParallelExhibits int  `toml:"max_parallel_exhibits"`
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	ColorScheme ColorScheme `toml:"color_scheme"`
	Color       ColorMode   `toml:"color"`
}

// ColorScheme defines the terminal color palette.
type ColorScheme string

const (
	ColorSchemeReef  ColorScheme = "reef"
	ColorSchemeAbyss ColorScheme = "abyss"
	ColorSchemePlain ColorScheme = "plain"
)

// ColorMode decides when report output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// LoggingConfig controls application logging.
type LoggingConfig struct {
	Level LogLevel `toml:"level"`
	File  string   `toml:"file"`
	JSON  bool     `toml:"json"`
}

// LogLevel defines logging verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// DatabaseConfig controls the SQLite report history.
type DatabaseConfig struct {
	Path          string `toml:"path"`
	RecordReports bool   `toml:"record_reports"`
	// KeepReports bounds the history; 0 keeps everything.
	KeepReports int `toml:"keep_reports"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Game.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("game: %w", err))
	}

	if err := c.Check.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("check: %w", err))
	}

	if err := c.Display.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the game configuration is valid.
func (g *GameConfig) Validate() error {
	var errs []error

	if len(g.DataDirs) == 0 {
		errs = append(errs, errors.New("data_dirs must name at least one directory"))
	}

	for i, dir := range g.DataDirs {
		if dir == "" {
			errs = append(errs, fmt.Errorf("data_dirs[%d] is empty", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the check configuration is valid.
func (c *CheckConfig) Validate() error {
	if c.MaxParallelExhibits < 0 {
		return errors.New("max_parallel_exhibits must be non-negative")
	}
	return nil
}

// Validate checks that the display configuration is valid.
func (d *DisplayConfig) Validate() error {
	var errs []error

	validSchemes := map[ColorScheme]bool{
		ColorSchemeReef:  true,
		ColorSchemeAbyss: true,
		ColorSchemePlain: true,
	}

	if !validSchemes[d.ColorScheme] && d.ColorScheme != "" {
		errs = append(errs, fmt.Errorf("invalid color_scheme: %s", d.ColorScheme))
	}

	validModes := map[ColorMode]bool{
		ColorAuto:   true,
		ColorAlways: true,
		ColorNever:  true,
	}

	if !validModes[d.Color] && d.Color != "" {
		errs = append(errs, fmt.Errorf("invalid color: %s", d.Color))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks that the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	validLevels := map[LogLevel]bool{
		LogLevelDebug: true,
		LogLevelInfo:  true,
		LogLevelWarn:  true,
		LogLevelError: true,
	}

	if !validLevels[l.Level] && l.Level != "" {
		return fmt.Errorf("invalid log level: %s", l.Level)
	}

	return nil
}

// Validate checks that the database configuration is valid.
func (d *DatabaseConfig) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, errors.New("path is required"))
	}

	if d.KeepReports < 0 {
		errs = append(errs, errors.New("keep_reports must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			DataDirs: []string{
				"C:/Program Files (x86)/Steam/steamapps/common/Megaquarium/Megaquarium_Data/GameData",
				"D:/steam/steamapps/common/Megaquarium/Megaquarium_Data/GameData",
				"~/Library/Application Support/Steam/steamapps/common/Megaquarium/Megaquarium.app/Contents/GameData",
				"~/.local/share/Steam/steamapps/common/Megaquarium/Megaquarium_Data/GameData",
			},
			SaveDir: "",
		},
		Check: CheckConfig{
			AssumeFullyGrown:    false,
			MaxParallelExhibits: 4,
		},
		Display: DisplayConfig{
			ColorScheme: ColorSchemeReef,
			Color:       ColorAuto,
		},
		Logging: LoggingConfig{
			Level: LogLevelWarn,
			File:  "",
			JSON:  false,
		},
		Database: DatabaseConfig{
			Path:          "history.db",
			RecordReports: true,
			KeepReports:   500,
		},
	}
}
