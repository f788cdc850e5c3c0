package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tempo/internal/bootstrap"
	"tempo/internal/platform/timefmt"
)

func newStatsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [activity]",
		Short: "Show statistics for one or all activities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				activityID := ""
				if len(args) == 1 {
					a, err := app.TrackerCLI.Resolve(ctx, args[0])
					if err != nil {
						return err
					}
					activityID = a.ID
				}
				stats, err := app.AnalyticsCLI.Stats(ctx, activityID)
				if err != nil {
					return err
				}
				now := app.Clock.Now()
				w := cmd.OutOrStdout()
				for _, s := range stats {
					last := "never"
					if !s.LastTracked.IsZero() {
						last = timefmt.Relative(s.LastTracked, now)
					}
					_, _ = fmt.Fprintf(w, "%s\n  records: %s  streak: %d day(s)  weekly rate: %.2f/day  last: %s\n",
						s.ActivityName, humanize.Comma(int64(s.RecordCount)), s.Streak, s.CompletionRate, last)
					if s.TotalDuration > 0 {
						_, _ = fmt.Fprintf(w, "  total: %s  avg: %s  longest: %s  shortest: %s\n",
							timefmt.Duration(s.TotalDuration), timefmt.Clock(s.AverageDuration),
							timefmt.Clock(s.LongestSession), timefmt.Clock(s.ShortestSession))
					}
				}
				return nil
			})
		},
	}
}

func newTrendsCmd(dataDir *string) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "trends <activity>",
		Short: "Show per-day counts for the trailing days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				trends, err := app.AnalyticsCLI.Trends(ctx, a.ID, days)
				if err != nil {
					return err
				}
				for _, t := range trends {
					line := fmt.Sprintf("%s\t%s\t%d", t.Day.Format("Mon Jan 2"), strings.Repeat("#", t.Count), t.Count)
					if t.TotalDuration > 0 {
						line += "\t" + timefmt.Duration(t.TotalDuration)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days")
	return cmd
}

func newHoursCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hours <activity>",
		Short: "Show when during the day an activity is tracked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				hours, err := app.AnalyticsCLI.Hours(ctx, a.ID)
				if err != nil {
					return err
				}
				for _, h := range hours {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%02d:00\t%s\t%d\n", h.Hour, strings.Repeat("#", h.Count), h.Count)
				}
				return nil
			})
		},
	}
}

func newSuggestCmd(dataDir *string) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest activities not yet tracked today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				suggestions, err := app.AnalyticsCLI.Suggest(ctx, all)
				if err != nil {
					return err
				}
				if len(suggestions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "everything tracked today")
					return nil
				}
				now := app.Clock.Now()
				for _, s := range suggestions {
					last := "never tracked"
					if !s.LastTracked.IsZero() {
						last = "last " + timefmt.Relative(s.LastTracked, now)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", s.Name, last)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every suggestion instead of the next one")
	return cmd
}

func newOverviewCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show this week's activity and the distribution per activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				overview, err := app.AnalyticsCLI.Overview(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%d activities, %s records\n\nThis week\n", overview.Activities, humanize.Comma(int64(overview.Records)))
				for _, d := range overview.Week {
					_, _ = fmt.Fprintf(w, "  %s\t%s\t%d\n", d.Day.Format("Mon"), strings.Repeat("#", d.Count), d.Count)
				}
				_, _ = fmt.Fprintln(w, "\nDistribution")
				for _, s := range overview.Distribution {
					_, _ = fmt.Fprintf(w, "  %s\t%d\t%.1f%%\n", s.Name, s.Count, s.Percent)
				}
				return nil
			})
		},
	}
}
