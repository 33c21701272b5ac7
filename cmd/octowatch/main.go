package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"octowatch/internal/bootstrap"
	notifydto "octowatch/internal/modules/notify/dto"
	"octowatch/internal/platform/config"
	"octowatch/internal/ui/banner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var outputDir string

	root := &cobra.Command{
		Use:           "octowatch",
		Short:         "Watch for free-electricity session announcements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&outputDir, "output", "output", "data directory for session stores, history and logs")

	root.AddCommand(newWatchCmd(&outputDir))
	root.AddCommand(newValidateCmd(&outputDir))
	root.AddCommand(newStatusCmd(&outputDir))
	root.AddCommand(newHistoryCmd(&outputDir))
	root.AddCommand(newChannelsCmd(&outputDir))
	root.AddCommand(newNotifyTestCmd(&outputDir))
	root.AddCommand(newTUICmd(&outputDir))
	return root
}

func loadApp(outputDir string) (*bootstrap.App, error) {
	cfg, err := config.New(outputDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newWatchCmd(outputDir *string) *cobra.Command {
	var once bool
	var reprocess bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the poll loop",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()

			_, _ = fmt.Fprint(cmd.OutOrStdout(), banner.Render())
			app.Log.Info("settings loaded", map[string]any{
				"output":   app.Config.OutputDir,
				"source":   app.Config.SourceURL,
				"webhook":  app.Config.MaskedWebhook(),
				"interval": app.Config.Interval.String(),
			})

			if interval <= 0 {
				interval = app.Config.Interval
			}
			return app.Poller.Run(cmd.Context(), interval, once, reprocess)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single iteration and exit")
	cmd.Flags().BoolVar(&reprocess, "reprocess", false, "reset notification flags and replay the announcement sequence")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (defaults to the configured value)")
	return cmd
}

func newValidateCmd(outputDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Re-validate persisted session records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()

			out, err := app.WatchCLI.Reconcile(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checked %d records, corrected %d\n", out.Checked, len(out.Corrected))
			for _, c := range out.Corrected {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s -> %s\n",
					c.Session,
					c.OldStart.Format(time.RFC3339),
					c.NewStart.Format(time.RFC3339),
				)
			}
			return nil
		},
	}
}

func newStatusCmd(outputDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show active and archived sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()

			out, err := app.WatchCLI.Status(context.Background())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "active sessions (%d):\n", len(out.Active))
			for _, s := range out.Active {
				_, _ = fmt.Fprintf(w, "  %s  [%s]  %s - %s\n",
					s.Raw, s.Stage,
					s.StartTime.Format("Mon 2 Jan 15:04"),
					s.EndTime.Format("15:04"),
				)
			}
			_, _ = fmt.Fprintf(w, "archived sessions (%d)\n", len(out.Archived))
			return nil
		},
	}
}

func newHistoryCmd(outputDir *string) *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent notification deliveries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()

			deliveries, err := app.NotifyCLI.History(context.Background(), time.Now().Add(-since))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(deliveries) == 0 {
				_, _ = fmt.Fprintln(w, "no deliveries in window")
				return nil
			}
			for _, d := range deliveries {
				state := "delivered"
				if !d.Delivered {
					state = "failed: " + d.Error
				}
				_, _ = fmt.Fprintf(w, "%s  %-14s  %-10s  %s  (%s)\n",
					d.SentAt.Format("2006-01-02 15:04"), d.Tag, d.Sink, d.Session, state)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&since, "since", 48*time.Hour, "how far back to list deliveries")
	return cmd
}

func newChannelsCmd(outputDir *string) *cobra.Command {
	channels := &cobra.Command{Use: "channels", Short: "Manage notification channel plugins"}

	channels.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured channels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()

			infos, err := app.NotifyCLI.Channels(context.Background())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no channels configured")
				return nil
			}
			for _, info := range infos {
				state := "disabled"
				if info.Enabled {
					state = "enabled"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) %s\n", info.Name, info.Version, state, info.Binary)
			}
			return nil
		},
	})

	channels.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check channel binaries, checksums and handshakes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()

			results, err := app.NotifyCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no channels configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s binary=%t checksum=%t handshake=%t",
					r.Name, r.BinaryReachable, r.ChecksumValid, r.HandshakeOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})
	return channels
}

func newNotifyTestCmd(outputDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-test",
		Short: "Send a test notification through every sink",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()

			out, err := app.NotifyCLI.Dispatch(context.Background(), notifydto.DispatchInput{
				Session: "octowatch connectivity check",
				Tag:     "test",
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "delivered %d of %d sinks\n", out.Delivered, out.Attempted)
			return nil
		},
	}
}

func newTUICmd(outputDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the octowatch terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*outputDir)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}
