package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/bookshelfapp/bookshelf/internal/backup"
)

func newBackupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and restore reading progress",
	}
	cmd.AddCommand(
		newBackupCreateCommand(a),
		newBackupListCommand(a),
		newBackupRestoreCommand(a),
	)
	return cmd
}

func newBackupCreateCommand(a *app) *cobra.Command {
	var opts backup.BackupOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write every reader's progress to an archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := do.Invoke[*backup.Service](a.injector)
			if err != nil {
				return err
			}
			result, err := svc.Create(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(result)
			}
			fmt.Fprintf(a.out, "Backup %s written to %s\n", result.ID, result.Path)
			fmt.Fprintf(a.out, "%d readers, %d books, %d notes, %d bytes\n",
				result.Counts.Users, result.Counts.Records, result.Counts.Notes, result.Size)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "archive path")
	cmd.Flags().BoolVar(&opts.IncludeSession, "include-session", false, "also store the signed-in reader")
	return cmd
}

func newBackupListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archives in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			svc, err := do.Invoke[*backup.Service](a.injector)
			if err != nil {
				return err
			}
			backups, err := svc.List()
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(backups)
			}
			w := a.table()
			fmt.Fprintln(w, "ID\tCREATED\tREADERS\tBOOKS\tPATH")
			for _, b := range backups {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					b.ID, formatTime(b.CreatedAt), b.Counts.Users, b.Counts.Records, b.Path)
			}
			return w.Flush()
		},
	}
}

func newBackupRestoreCommand(a *app) *cobra.Command {
	var (
		mode     string
		strategy string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "restore <archive>",
		Short: "Load progress from an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := do.Invoke[*backup.Service](a.injector)
			if err != nil {
				return err
			}
			result, err := svc.Restore(cmd.Context(), args[0], backup.RestoreOptions{
				Mode:          backup.RestoreMode(mode),
				MergeStrategy: backup.MergeStrategy(strategy),
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(result)
			}

			verb := "Restored"
			if dryRun {
				verb = "Would restore"
			}
			fmt.Fprintf(a.out, "%s %d readers, %d books\n", verb, result.Imported["users"], result.Imported["records"])
			if n := result.Skipped["records"]; n > 0 {
				fmt.Fprintf(a.out, "Skipped %d records for unknown books\n", n)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(a.out, "  %s %s: %s\n", e.EntityType, e.EntityID, e.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(backup.RestoreModeMerge), "full or merge")
	cmd.Flags().StringVar(&strategy, "strategy", "", "merge conflicts: keep_local or keep_backup")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without writing")
	return cmd
}
