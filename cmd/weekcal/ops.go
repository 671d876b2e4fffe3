package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/weekcal/internal/calendar"
	"github.com/username/weekcal/internal/daemon"
	"github.com/username/weekcal/internal/ics"
	"github.com/username/weekcal/internal/notify"
	"go.uber.org/zap"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all events as an iCalendar file (default: stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlanner()
			if err != nil {
				return err
			}
			events := p.Snapshot()

			if len(args) == 0 {
				return ics.Export(events, p.Location(), out)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			if err := ics.Export(events, p.Location(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			logger.Info("Calendar exported",
				zap.String("file", args[0]),
				zap.Int("events", len(events)))
			return nil
		},
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Print the day's agenda every day at daemon.daily_time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlanner()
			if err != nil {
				return err
			}

			hour, minute := cfg.Daemon.GetDailyTime()
			notifier := notify.Multi{notify.NewWriterNotifier(out), notify.NewLogNotifier(logger)}

			d := daemon.NewScheduledDaemon(p, notifier, hour, minute, logger)
			d.SetLoader(func() ([]calendar.Event, error) {
				return calendar.LoadFile(cfg.State.EventsFile)
			})
			return d.Start()
		},
	}
}
