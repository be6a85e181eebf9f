package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"phototag/internal/domain"
	appErrors "phototag/internal/errors"
)

func newTagCmd(rt *runtime) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "tag --date=YYYYMMDD|mod FILES...",
		Short: "Write one date into every date field and the file timestamps",
		Long: `Set the EXIF date fields and file timestamps of PNG and JPEG files.

With --date=mod each file keeps its own modification time, which is
copied into the metadata.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := domain.ParseDateSpec(date)
			if err != nil {
				return appErrors.Wrap(appErrors.InvalidDate, "parse", "", err)
			}
			paths, err := rt.collect(args)
			if err != nil {
				return err
			}
			rt.logger.Debug("tag", "date", spec.String(), "files", len(paths))

			return rt.runBatch(cmd, paths, batchJob{
				action: "Tagging",
				verb:   "Processed",
				apply: func(ctx context.Context, path string) (time.Time, error) {
					return rt.editor.Tag(ctx, path, spec)
				},
				success: func(result domain.FileResult) {
					rt.printer.Tagged(result.Path, spec, result.Date)
				},
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", `Date in YYYYMMDD format or "mod" to use the file modification time`)
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newSyncCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sync FILES...",
		Short: "Set every date of a file to the oldest one it carries",
		Long: `Reconcile the EXIF date fields and the modification time of each file
to the oldest date found among them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := rt.collect(args)
			if err != nil {
				return err
			}

			return rt.runBatch(cmd, paths, batchJob{
				action: "Syncing",
				verb:   "Synced",
				apply:  rt.editor.Sync,
				success: func(result domain.FileResult) {
					rt.printer.Synced(result.Path, result.Date)
				},
			})
		},
	}
}

func newShowCmd(rt *runtime) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show FILES...",
		Short: "Display the date fields and file timestamps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := rt.collect(args)
			if err != nil {
				return err
			}

			var records []domain.MetadataRecord
			failed := 0
			for _, path := range paths {
				record, err := rt.editor.Inspect(cmd.Context(), path)
				if err != nil {
					rt.printer.FileError(err)
					failed++
					continue
				}
				if asJSON {
					records = append(records, record)
				} else {
					rt.printer.PrintRecord(record)
				}
			}

			if asJSON {
				if err := rt.printer.PrintRecordsJSON(records); err != nil {
					return appErrors.Wrap(appErrors.IOFailure, "write", "stdout", err)
				}
			}
			if failed > 0 {
				return errFilesFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the records as a JSON array")

	return cmd
}

func newLsCmd(rt *runtime) *cobra.Command {
	var long, byTime, reverse bool

	cmd := &cobra.Command{
		Use:   "ls [-l] [-t] [-r] FILES...",
		Short: "List files with their EXIF DateTime, oldest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := rt.collect(args)
			if err != nil {
				return err
			}
			rows := rt.editor.List(cmd.Context(), paths, reverse)
			rt.printer.PrintTable(rows)
			return nil
		},
	}

	// -l and -t describe the only layout and order there is.
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Long format (always on)")
	cmd.Flags().BoolVarP(&byTime, "time", "t", false, "Sort by time (always on)")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Reverse the sort order")

	return cmd
}
