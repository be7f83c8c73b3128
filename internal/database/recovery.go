package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// RecoveryResult indicates the outcome of a recovery attempt.
type RecoveryResult int

const (
	// RecoveryHealthy means the database was missing, healthy or repaired
	// in place.
	RecoveryHealthy RecoveryResult = iota
	// RecoveryQuarantined means the damaged file was moved aside and a fresh
	// history will be created.
	RecoveryQuarantined
)

func (r RecoveryResult) String() string {
	switch r {
	case RecoveryHealthy:
		return "healthy"
	case RecoveryQuarantined:
		return "quarantined"
	default:
		return "unknown"
	}
}

// RecoveryReport contains details about a recovery attempt.
type RecoveryReport struct {
	Result       RecoveryResult
	DatabasePath string
	// QuarantinedTo is where a damaged database was moved.
	QuarantinedTo string
	WALRecovered  bool
	Steps         []RecoveryStep
}

// RecoveryStep is one phase of a recovery attempt.
type RecoveryStep struct {
	Name      string
	Succeeded bool
	Message   string
	Duration  time.Duration
}

// AttemptRecovery makes the history database at dbPath safe to open. A
// failing integrity check is first answered by replaying the WAL; if the
// file is still damaged it is renamed to <path>.corrupted.<timestamp>. The
// report history is not precious, so losing it never stops a check.
func AttemptRecovery(dbPath string) (*RecoveryReport, error) {
	report := &RecoveryReport{DatabasePath: dbPath}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		report.Steps = append(report.Steps, RecoveryStep{
			Name:      "check_exists",
			Succeeded: true,
			Message:   "database does not exist (first run)",
		})
		return report, nil
	}

	check := runRecoveryStep("integrity_check", func() (string, error) {
		return checkDatabaseIntegrity(dbPath)
	})
	report.Steps = append(report.Steps, check)
	if check.Succeeded {
		return report, nil
	}

	slog.Warn("history integrity check failed", "path", dbPath, "error", check.Message)

	if _, err := os.Stat(dbPath + "-wal"); err == nil {
		wal := runRecoveryStep("wal_recovery", func() (string, error) {
			return attemptWALRecovery(dbPath)
		})
		report.Steps = append(report.Steps, wal)

		if wal.Succeeded {
			recheck := runRecoveryStep("post_wal_integrity", func() (string, error) {
				return checkDatabaseIntegrity(dbPath)
			})
			report.Steps = append(report.Steps, recheck)
			if recheck.Succeeded {
				report.WALRecovered = true
				slog.Info("history recovered via WAL replay", "path", dbPath)
				return report, nil
			}
		}
	}

	target := dbPath + ".corrupted." + time.Now().Format("20060102-150405")
	quarantine := runRecoveryStep("quarantine", func() (string, error) {
		if err := os.Rename(dbPath, target); err != nil {
			return "", err
		}
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
		return target, nil
	})
	report.Steps = append(report.Steps, quarantine)
	if !quarantine.Succeeded {
		return report, fmt.Errorf("moving damaged history aside: %s", quarantine.Message)
	}

	report.Result = RecoveryQuarantined
	report.QuarantinedTo = target
	slog.Warn("damaged history moved aside", "path", dbPath, "to", target)

	return report, nil
}

func runRecoveryStep(name string, fn func() (string, error)) RecoveryStep {
	start := time.Now()
	msg, err := fn()

	step := RecoveryStep{Name: name, Duration: time.Since(start), Succeeded: err == nil, Message: msg}
	if err != nil {
		step.Message = err.Error()
	}

	return step
}

// checkDatabaseIntegrity runs SQLite's integrity check on a read-only
// connection.
func checkDatabaseIntegrity(dbPath string) (string, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return "", fmt.Errorf("running integrity check: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var result string
		if err := rows.Scan(&result); err != nil {
			return "", fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating results: %w", err)
	}

	if len(results) == 1 && results[0] == "ok" {
		return "ok", nil
	}

	return "", fmt.Errorf("integrity check failed: %s", strings.Join(results, "; "))
}

// attemptWALRecovery opens the database read-write so SQLite replays the
// WAL, then checkpoints it.
func attemptWALRecovery(dbPath string) (string, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_txlock=immediate", dbPath))
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA wal_checkpoint(RESTART)"); err != nil {
		return "", fmt.Errorf("WAL checkpoint: %w", err)
	}

	return "WAL checkpoint complete", nil
}
