package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tempo/internal/bootstrap"
	"tempo/internal/modules/tracker/dto"
	"tempo/internal/platform/timefmt"
)

func newActivityCmd(dataDir *string) *cobra.Command {
	activity := &cobra.Command{Use: "activity", Short: "Manage activities"}

	var activityType, color, icon string
	var remind time.Duration
	var message string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				var notify *dto.NotificationConfig
				if remind > 0 {
					cfg := offsetConfig(remind, message)
					notify = &cfg
				}
				out, err := app.TrackerCLI.AddActivity(ctx, args[0], activityType, color, icon, notify)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) %s\n", out.Name, out.ID, out.Type)
				return nil
			})
		},
	}
	add.Flags().StringVar(&activityType, "type", "instant", "activity type: instant|duration")
	add.Flags().StringVar(&color, "color", "#007AFF", "palette color")
	add.Flags().StringVar(&icon, "icon", "heart", "icon id")
	add.Flags().DurationVar(&remind, "remind", 0, "remind after this long without tracking (e.g. 2h30m)")
	add.Flags().StringVar(&message, "message", "", "custom reminder message")

	list := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				activities := app.TrackerCLI.ListActivities(ctx)
				if len(activities) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no activities")
					return nil
				}
				now := app.Clock.Now()
				for _, a := range activities {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Type, trackingLabel(a, now), lastTrackedLabel(a, now))
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show <activity>",
		Short: "Show one activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				now := app.Clock.Now()
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "id: %s\nname: %s\ntype: %s\ncolor: %s\nicon: %s\n", a.ID, a.Name, a.Type, a.Color, a.Icon)
				_, _ = fmt.Fprintf(w, "status: %s\nlast tracked: %s\n", trackingLabel(a, now), lastTrackedLabel(a, now))
				_, _ = fmt.Fprintf(w, "reminder: %s\n", reminderLabel(a.Notification))
				if latest, ok := app.TrackerCLI.LatestRecord(ctx, a.ID); ok {
					_, _ = fmt.Fprintf(w, "latest record: %s\n", recordLabel(latest))
				}
				return nil
			})
		},
	}

	var newName, newColor, newIcon string
	update := &cobra.Command{
		Use:   "update <activity>",
		Short: "Rename or restyle an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				input := dto.UpdateActivityInput{ID: a.ID, Name: a.Name, Color: a.Color, Icon: a.Icon, Notification: a.Notification}
				if cmd.Flags().Changed("name") {
					input.Name = newName
				}
				if cmd.Flags().Changed("color") {
					input.Color = newColor
				}
				if cmd.Flags().Changed("icon") {
					input.Icon = newIcon
				}
				out, err := app.TrackerCLI.UpdateActivity(ctx, input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", out.Name, out.ID)
				return nil
			})
		},
	}
	update.Flags().StringVar(&newName, "name", "", "new name")
	update.Flags().StringVar(&newColor, "color", "", "new palette color")
	update.Flags().StringVar(&newIcon, "icon", "", "new icon id")

	remove := &cobra.Command{
		Use:     "delete <activity>",
		Aliases: []string{"rm"},
		Short:   "Delete an activity and all of its records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				if err := app.TrackerCLI.DeleteActivity(ctx, a.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", a.Name, a.ID)
				return nil
			})
		},
	}

	activity.AddCommand(add, list, show, update, remove)
	return activity
}

func newTrackCmd(dataDir *string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "track <activity>",
		Short: "Record an instant activity or start a duration session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				when, err := optionalTime(at, app.Clock.Now())
				if err != nil {
					return err
				}
				out, err := app.TrackerCLI.Track(ctx, a.ID, when)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				switch out.Outcome {
				case dto.OutcomeRecorded:
					_, _ = fmt.Fprintf(w, "tracked %s at %s\n", out.Activity.Name, stamp(out.Record.Timestamp))
				case dto.OutcomeStarted:
					_, _ = fmt.Fprintf(w, "started %s at %s\n", out.Activity.Name, stamp(out.Activity.TrackingStartedAt))
				case dto.OutcomeAlreadyTracking:
					_, _ = fmt.Fprintf(w, "%s is already being tracked since %s\n", out.Activity.Name, stamp(out.Activity.TrackingStartedAt))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "when it happened (RFC3339, 2006-01-02 15:04, 15:04 or -30m)")
	return cmd
}

func newStopCmd(dataDir *string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "stop <activity>",
		Short: "Stop a running duration session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				when, err := optionalTime(at, app.Clock.Now())
				if err != nil {
					return err
				}
				out, err := app.TrackerCLI.Stop(ctx, a.ID, when)
				if err != nil {
					return err
				}
				if out.Outcome == dto.OutcomeNotTracking {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is not being tracked\n", out.Activity.Name)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped %s after %s\n", out.Activity.Name, timefmt.Clock(*out.Record.Duration))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "when the session ended")
	return cmd
}

func newReminderCmd(dataDir *string) *cobra.Command {
	reminder := &cobra.Command{Use: "reminder", Short: "Configure inactivity reminders"}

	var hours, minutes, seconds int
	var message string
	set := &cobra.Command{
		Use:   "set <activity>",
		Short: "Remind when an activity has not been tracked for a while",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				cfg := dto.NotificationConfig{Enabled: true, Hours: hours, Minutes: minutes, Seconds: seconds, CustomMessage: message}
				out, err := app.TrackerCLI.SetReminder(ctx, a.ID, cfg)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", out.Name, reminderLabel(out.Notification))
				return nil
			})
		},
	}
	set.Flags().IntVar(&hours, "hours", 0, "hours (0-24)")
	set.Flags().IntVar(&minutes, "minutes", 0, "minutes (0-59)")
	set.Flags().IntVar(&seconds, "seconds", 0, "seconds (0-59)")
	set.Flags().StringVar(&message, "message", "", "custom reminder message")

	off := &cobra.Command{
		Use:   "off <activity>",
		Short: "Turn reminders off for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *dataDir, func(ctx context.Context, app *bootstrap.App) error {
				a, err := app.TrackerCLI.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				cfg := dto.NotificationConfig{}
				if a.Notification != nil {
					cfg = *a.Notification
				}
				cfg.Enabled = false
				if _, err := app.TrackerCLI.SetReminder(ctx, a.ID, cfg); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: reminders off\n", a.Name)
				return nil
			})
		},
	}

	reminder.AddCommand(set, off)
	return reminder
}

func offsetConfig(d time.Duration, message string) dto.NotificationConfig {
	total := int(d / time.Second)
	return dto.NotificationConfig{
		Enabled:       true,
		Hours:         total / 3600,
		Minutes:       total % 3600 / 60,
		Seconds:       total % 60,
		CustomMessage: message,
	}
}

func trackingLabel(a dto.ActivityOutput, now time.Time) string {
	if !a.Tracking {
		return "idle"
	}
	return "tracking " + timefmt.Clock(now.Sub(a.TrackingStartedAt))
}

func lastTrackedLabel(a dto.ActivityOutput, now time.Time) string {
	if a.LastTracked.IsZero() {
		return "never"
	}
	return timefmt.Since(a.LastTracked, now)
}

func reminderLabel(cfg *dto.NotificationConfig) string {
	if cfg == nil || !cfg.Enabled {
		return "off"
	}
	offset := time.Duration(cfg.Hours)*time.Hour + time.Duration(cfg.Minutes)*time.Minute + time.Duration(cfg.Seconds)*time.Second
	label := "after " + timefmt.Duration(offset)
	if msg := strings.TrimSpace(cfg.CustomMessage); msg != "" {
		label += fmt.Sprintf(" (%q)", msg)
	}
	return label
}

func recordLabel(r dto.RecordOutput) string {
	label := stamp(r.Timestamp)
	if r.Duration != nil {
		label += " for " + timefmt.Clock(*r.Duration)
	}
	if r.Note != "" {
		label += " - " + r.Note
	}
	return label
}
