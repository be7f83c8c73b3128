package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tankmate/tankmate/internal/catalog"
	"github.com/tankmate/tankmate/internal/config"
	"github.com/tankmate/tankmate/internal/database"
	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/report"
	"github.com/tankmate/tankmate/internal/services/aquarium"
)

// env is what every command runs with: the configuration and, once
// asked for, the game data and the report history.
type env struct {
	cfg     *config.Config
	cfgPath string
	logFile *os.File

	data *catalog.GameData
	db   *database.DB
}

// newEnv loads the configuration and sets up logging.
func newEnv(configPath string, debug bool) (*env, error) {
	cfg, cfgPath, err := config.Load(configPath, true)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	e := &env{cfg: cfg, cfgPath: cfgPath}
	if err := e.setupLogging(debug); err != nil {
		return nil, err
	}

	slog.Debug("tankmate starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
	)

	return e, nil
}

func (e *env) setupLogging(debug bool) error {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	} else {
		switch e.cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: logLevel}

	logPath, err := config.EnsureLogDir(e.cfg)
	if err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	var logHandler slog.Handler
	switch {
	case logPath != "":
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		e.logFile = logFile
		logHandler = slog.NewJSONHandler(logFile, opts)
	case e.cfg.Logging.JSON:
		logHandler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(logHandler))
	return nil
}

// loadData reads the game data from the first configured directory that
// exists.
func (e *env) loadData() (*catalog.GameData, error) {
	if e.data != nil {
		return e.data, nil
	}

	dir, err := catalog.FindDataDir(e.cfg.Game.DataDirs)
	if err != nil {
		return nil, err
	}
	data, err := catalog.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading game data: %w", err)
	}

	e.data = data
	return data, nil
}

// openHistory opens and migrates the report history. A history that
// cannot be opened is logged and left closed; checks run without it.
func (e *env) openHistory(ctx context.Context) *database.DB {
	if e.db != nil {
		return e.db
	}

	dbPath, err := config.EnsureDataDir(e.cfg)
	if err != nil {
		slog.Warn("report history disabled", "error", err)
		return nil
	}

	if _, err := os.Stat(dbPath); err == nil {
		recovery, err := database.AttemptRecovery(dbPath)
		if err != nil {
			slog.Warn("report history disabled", "path", dbPath, "error", err)
			return nil
		}
		if recovery.Result == database.RecoveryQuarantined {
			slog.Warn("damaged report history moved aside",
				"path", dbPath,
				"moved_to", recovery.QuarantinedTo,
			)
		}
	}

	db, err := database.Open(dbPath, &e.cfg.Database)
	if err != nil {
		slog.Warn("report history disabled", "path", dbPath, "error", err)
		return nil
	}

	if err := database.Migrate(ctx, db); err != nil {
		slog.Warn("report history disabled", "path", dbPath, "error", err)
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
		return nil
	}

	e.db = db
	return db
}

// service creates the check service. The history is opened only when
// reports are recorded or withHistory asks for it.
func (e *env) service(ctx context.Context, withHistory bool) (*aquarium.Service, error) {
	data, err := e.loadData()
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	if withHistory || e.cfg.Database.RecordReports {
		if db := e.openHistory(ctx); db != nil {
			sqlDB = db.DB
		}
	}

	return aquarium.NewService(data, sqlDB, e.cfg), nil
}

// printer creates a report printer writing to the command's output.
func (e *env) printer(cmd *cobra.Command, raw bool) *report.Printer {
	p := report.NewPrinter(cmd.OutOrStdout(), e.cfg.Display)
	p.SetDebug(raw)
	return p
}

// savePath resolves a save name. Names that are paths need no save
// directory.
func (e *env) savePath(name string) (string, error) {
	dir, err := config.SaveDir(e.cfg)
	if err != nil && !strings.ContainsRune(name, filepath.Separator) && !strings.HasSuffix(name, catalog.SaveExtension) {
		return "", err
	}
	return catalog.SavePath(dir, name), nil
}

// loadAquarium reads the aquarium a command works on: the save when one is
// named, otherwise a YAML description from path, or from stdin when path
// is empty. It returns the aquarium with the subject to record it under.
func (e *env) loadAquarium(cmd *cobra.Command, svc *aquarium.Service, path, save string) (*models.AquariumRef, string, error) {
	if save != "" {
		savePath, err := e.savePath(save)
		if err != nil {
			return nil, "", err
		}
		aq, err := catalog.ReadSave(svc.Data(), savePath)
		if err != nil {
			return nil, "", err
		}
		return aq, filepath.Base(savePath), nil
	}

	var r io.Reader = cmd.InOrStdin()
	subject := "stdin"
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("opening aquarium: %w", err)
		}
		defer f.Close()
		r = f
		subject = filepath.Base(path)
	}

	desc, err := report.ReadAquarium(r)
	if err != nil {
		return nil, "", err
	}
	aq, err := svc.ResolveAquarium(desc)
	if err != nil {
		return nil, "", err
	}

	return aq, subject, nil
}

// close releases the history and the log file.
func (e *env) close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
		e.db = nil
	}
	if e.logFile != nil {
		e.logFile.Close()
		e.logFile = nil
	}
}
