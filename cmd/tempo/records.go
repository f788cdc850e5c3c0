package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tempo/internal/bootstrap"
	analyticsdto "tempo/internal/modules/analytics/dto"
	"tempo/internal/platform/timefmt"
)

func newRecordCmd(dataDir *string) *cobra.Command {
	record := &cobra.Command{Use: "record", Short: "Manage activity records"}

	var start, end, note string
	add := &cobra.Command{
		Use:   "add <activity>",
		Short: "Add a completed session after the fact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				now := app.Clock.Now()
				from, err := parseWhen(start, now)
				if err != nil {
					return err
				}
				to, err := parseWhen(end, now)
				if err != nil {
					return err
				}
				out, err := app.TrackerCLI.AddRecord(ctx, a.ID, from, to, note)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s (%s) %s\n", a.Name, out.ID, recordLabel(out))
				return nil
			})
		},
	}
	add.Flags().StringVar(&start, "start", "", "session start")
	add.Flags().StringVar(&end, "end", "", "session end")
	add.Flags().StringVar(&note, "note", "", "optional note")
	_ = add.MarkFlagRequired("start")
	_ = add.MarkFlagRequired("end")

	remove := &cobra.Command{
		Use:     "delete <record-id>...",
		Aliases: []string{"rm"},
		Short:   "Delete records by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.TrackerCLI.DeleteRecords(ctx, args); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d record(s)\n", len(args))
				return nil
			})
		},
	}

	latest := &cobra.Command{
		Use:   "latest <activity>",
		Short: "Show the most recent record of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				r, ok := app.TrackerCLI.LatestRecord(ctx, a.ID)
				if !ok {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s has no records\n", a.Name)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.ID, recordLabel(r))
				return nil
			})
		},
	}

	var activityRef, activityType, from, to string
	list := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				filter := analyticsdto.FilterInput{Type: activityType}
				if activityRef != "" {
					a, err := app.TrackerCLI.Resolve(ctx, activityRef)
					if err != nil {
						return err
					}
					filter.ActivityID = a.ID
				}
				now := app.Clock.Now()
				if from != "" {
					t, err := parseWhen(from, now)
					if err != nil {
						return err
					}
					filter.Start = &t
				}
				if to != "" {
					t, err := parseWhen(to, now)
					if err != nil {
						return err
					}
					filter.End = &t
				}
				records, err := app.AnalyticsCLI.Filter(ctx, filter)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no records")
					return nil
				}
				names := map[string]string{}
				for _, a := range app.TrackerCLI.ListActivities(ctx) {
					names[a.ID] = a.Name
				}
				for _, r := range records {
					line := fmt.Sprintf("%s\t%s\t%s", r.ID, names[r.ActivityID], stamp(r.Timestamp))
					if r.Duration != nil {
						line += "\t" + timefmt.Clock(*r.Duration)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&activityRef, "activity", "", "only this activity")
	list.Flags().StringVar(&activityType, "type", "", "only instant or duration activities")
	list.Flags().StringVar(&from, "from", "", "earliest timestamp (inclusive)")
	list.Flags().StringVar(&to, "to", "", "latest timestamp (inclusive)")

	record.AddCommand(add, remove, latest, list)
	return record
}

func newExportCmd(dataDir *string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all records as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				var w io.Writer = cmd.OutOrStdout()
				if outPath != "" && outPath != "-" {
					f, err := os.Create(outPath)
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer f.Close()
					w = f
				}
				rows, err := app.TrackerCLI.ExportCSV(ctx, w)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}
				if outPath != "" && outPath != "-" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d record(s) to %s\n", rows, outPath)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newClearCmd(dataDir *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all activities and records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Delete all activities and records? This cannot be undone. [y/N] ")
				answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.TrackerCLI.Clear(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

// parseWhen accepts RFC3339, local date-times, a clock time for today, or a
// signed duration relative to now such as -30m.
func parseWhen(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("time is required")
	}
	if value == "now" {
		return now, nil
	}
	loc := now.Location()
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			y, m, d := now.Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", value)
}

func optionalTime(value string, now time.Time) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseWhen(value, now)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
