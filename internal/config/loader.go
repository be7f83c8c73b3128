package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tankmate/tankmate/internal/util"
)

const (
	// DefaultConfigFileName is the standard configuration file name.
	DefaultConfigFileName = "tankmate.toml"

	// XDGConfigSubdir is the subdirectory under XDG_CONFIG_HOME and
	// XDG_DATA_HOME for tankmate.
	XDGConfigSubdir = "tankmate"
)

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load finds and reads the configuration. An explicit path is used alone;
// otherwise the XDG config path (~/.config/tankmate/tankmate.toml) is tried
// before ./tankmate.toml. When neither exists and createDefault is set, the
// default configuration is written to the first writable location and
// returned.
//
// Returns the loaded configuration and the path it was loaded from; the
// path is empty when an unsaved default is returned.
func Load(explicitPath string, createDefault bool) (*Config, string, error) {
	if explicitPath != "" {
		cfg, err := loadFromFile(explicitPath)
		if err != nil {
			return nil, "", &LoadError{Path: explicitPath, Err: err}
		}
		return cfg, explicitPath, nil
	}

	candidates := searchPaths()
	for _, path := range candidates {
		if !fileExists(path) {
			continue
		}
		cfg, err := loadFromFile(path)
		if err != nil {
			return nil, "", &LoadError{Path: path, Err: err}
		}
		return cfg, path, nil
	}

	if !createDefault {
		return nil, "", errors.New("no configuration file found; searched: " + strings.Join(candidates, ", "))
	}

	cfg := Default()
	for _, path := range candidates {
		if err := Save(cfg, path); err == nil {
			return cfg, path, nil
		}
	}

	// Nowhere writable; run on the in-memory default.
	return cfg, "", nil
}

// searchPaths lists config locations in order of precedence.
func searchPaths() []string {
	var paths []string
	if xdg := xdgConfigPath(); xdg != "" {
		paths = append(paths, xdg)
	}
	return append(paths, filepath.Join(".", DefaultConfigFileName))
}

// loadFromFile reads and parses a TOML configuration file over the defaults,
// so a file only needs the values it changes.
func loadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Save writes a configuration to a TOML file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	header := `# tankmate configuration
#
# This file was auto-generated. Edit as needed.
# data_dirs are tried in order; an empty save_dir uses the game's default.

`
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	return Encode(f, cfg)
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}

// xdgConfigPath returns the XDG-compliant config file path, or "" when
// neither XDG_CONFIG_HOME nor a home directory is available.
func xdgConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, XDGConfigSubdir, DefaultConfigFileName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", XDGConfigSubdir, DefaultConfigFileName)
}

// xdgDataDir returns tankmate's XDG data directory, or "" when unknown.
func xdgDataDir() string {
	xdgData := os.Getenv("XDG_DATA_HOME")
	if xdgData == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgData = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(xdgData, XDGConfigSubdir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigPath returns the configuration file path that would be used.
func ConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	candidates := searchPaths()
	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}

	return candidates[0]
}

// EnsureDataDir creates the directory for the history database and returns
// the database path. Relative paths live under the XDG data directory.
func EnsureDataDir(cfg *Config) (string, error) {
	dbPath := util.ExpandHome(cfg.Database.Path)

	if filepath.IsAbs(dbPath) {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return "", fmt.Errorf("creating database directory: %w", err)
		}
		return dbPath, nil
	}

	if dataDir := xdgDataDir(); dataDir != "" {
		if err := os.MkdirAll(dataDir, 0750); err == nil {
			return filepath.Join(dataDir, dbPath), nil
		}
	}

	return dbPath, nil
}

// EnsureLogDir creates the log directory if needed and returns the log file
// path, or "" when file logging is disabled.
func EnsureLogDir(cfg *Config) (string, error) {
	logPath := util.ExpandHome(cfg.Logging.File)
	if logPath == "" {
		return "", nil
	}

	dir := filepath.Dir(logPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("creating log directory: %w", err)
		}
	}

	return logPath, nil
}

// SaveDir returns the directory holding the game's save files. A configured
// directory wins; otherwise the game's per-platform location is used.
func SaveDir(cfg *Config) (string, error) {
	if cfg.Game.SaveDir != "" {
		return util.ExpandHome(cfg.Game.SaveDir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "Documents", "My Games", "Megaquarium", "Saves"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Megaquarium", "Saves"), nil
	default:
		return "", fmt.Errorf("no default save directory on %s; set game.save_dir", runtime.GOOS)
	}
}
