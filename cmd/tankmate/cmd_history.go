package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tankmate/tankmate/internal/database"
	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/services/aquarium"
	"github.com/tankmate/tankmate/internal/tui"
	"github.com/tankmate/tankmate/internal/util"
)

func (c *cli) historyCmd() *cobra.Command {
	var limit, page int
	var kind, search string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded check reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.CheckReportFilter{SubjectTerm: search}
			if kind != "" {
				k := models.ReportKind(kind)
				if !k.Valid() {
					return &usageError{err: fmt.Errorf("invalid report kind %q: must be check, validate or expand", kind)}
				}
				filter.Kind = &k
			}
			if limit < 1 || page < 1 {
				return &usageError{err: errors.New("--limit and --page must be at least 1")}
			}

			svc, err := c.env.service(cmd.Context(), true)
			if err != nil {
				return err
			}

			list, err := svc.History(cmd.Context(), filter, models.Pagination{Page: page, PageSize: limit})
			if err != nil {
				return err
			}

			c.env.printer(cmd, false).History(list, time.Now())
			return nil
		},
	}

	defaults := models.DefaultPagination()
	cmd.Flags().IntVarP(&limit, "limit", "n", defaults.PageSize, "Reports per page")
	cmd.Flags().IntVar(&page, "page", defaults.Page, "Page to show")
	cmd.Flags().StringVar(&kind, "kind", "", "Only show reports of this kind (check, validate, expand)")
	cmd.Flags().StringVar(&search, "search", "", "Only show reports whose subject contains this")

	cmd.AddCommand(c.historyShowCmd(), c.historyBackupCmd(), c.historyStatsCmd())
	return cmd
}

func (c *cli) historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded report with its violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := util.ParseID(args[0])
			if err != nil {
				return &usageError{err: fmt.Errorf("invalid report id %q: %w", args[0], err)}
			}

			svc, err := c.env.service(cmd.Context(), true)
			if err != nil {
				return err
			}

			r, err := svc.Report(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("report %s: %w", id, err)
			}

			c.env.printer(cmd, false).Report(r)
			return nil
		},
	}
}

func (c *cli) historyBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [dir]",
		Short: "Copy the report history into dir",
		Long: `Backup writes a consistent copy of the report history database. Without
dir the copy goes to a backups directory next to the database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := c.env.openHistory(cmd.Context())
			if db == nil {
				return aquarium.ErrNoHistory
			}

			dir := firstArg(args)
			if dir == "" {
				dir = filepath.Join(filepath.Dir(db.Path()), "backups")
			}

			path, err := db.Backup(cmd.Context(), dir)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func (c *cli) historyStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the size and health of the report history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := c.env.service(ctx, true)
			if err != nil {
				return err
			}
			db := c.env.openHistory(ctx)
			if db == nil {
				return aquarium.ErrNoHistory
			}

			if err := db.HealthCheck(ctx); err != nil {
				return fmt.Errorf("report history: %w", err)
			}
			stats, err := db.GetStats(ctx)
			if err != nil {
				return err
			}
			m, err := database.NewMigrator(db)
			if err != nil {
				return err
			}
			version, err := m.CurrentVersion(ctx)
			if err != nil {
				return err
			}
			list, err := svc.History(ctx, models.CheckReportFilter{}, models.Pagination{Page: 1, PageSize: 1})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "path:     %s\n", stats.Path)
			fmt.Fprintf(w, "size:     %s (wal %s)\n", humanize.Bytes(uint64(stats.SizeBytes)), humanize.Bytes(uint64(stats.WALSizeBytes)))
			fmt.Fprintf(w, "pages:    %d, %d free, %s each\n", stats.PageCount, stats.FreePageCount, humanize.Bytes(uint64(stats.PageSize)))
			fmt.Fprintf(w, "journal:  %s\n", stats.JournalMode)
			fmt.Fprintf(w, "schema:   %d\n", version)
			if keep := db.Config().KeepReports; keep > 0 {
				fmt.Fprintf(w, "reports:  %d (keeping %d)\n", list.Total, keep)
			} else {
				fmt.Fprintf(w, "reports:  %d\n", list.Total)
			}
			return nil
		},
	}
}

func (c *cli) browseCmd() *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the validated exhibits of an aquarium",
		Long: `Browse validates an aquarium and opens an interactive browser of its
exhibits and of the report history. The aquarium is read like validate
reads it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.env.service(cmd.Context(), true)
			if err != nil {
				return err
			}

			aq, subject, err := c.env.loadAquarium(cmd, svc, firstArg(args), save)
			if err != nil {
				return err
			}

			tui.Version = Version
			tui.BuildTime = BuildTime

			slog.Info("starting browser", "subject", subject, "exhibits", len(aq.Exhibits))
			if err := tui.Run(cmd.Context(), svc, c.env.cfg, subject, aq); err != nil {
				return fmt.Errorf("browser: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "Read the aquarium from a game save")
	return cmd
}
