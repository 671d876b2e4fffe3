package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/weekcal/internal/calendar"
	"github.com/username/weekcal/internal/daemon"
	"github.com/username/weekcal/internal/planner"
	"github.com/username/weekcal/pkg/dateutil"
)

const shortIDLen = 8

func weekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show the currently selected week",
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, _, err := openNavigator()
			if err != nil {
				return err
			}
			return showWeek(nav.Week())
		},
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [date]",
		Short: "Show the events of a single day (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cfg.Calendar.Location()
			day := dateutil.Today(loc)
			if len(args) == 1 {
				d, err := dateutil.ParseDate(args[0], loc)
				if err != nil {
					return err
				}
				day = dateutil.DateIn(d, loc)
			}

			p, err := openPlanner()
			if err != nil {
				return err
			}

			instances := p.Day(day, calendar.WeekOf(day, loc))
			printDay(out, day, instances)
			return nil
		},
	}
}

// navCmd builds next/prev/today: move the cursor, persist it, print the week
func navCmd(name, short string, step func(*planner.Navigator) calendar.Week) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nav, csm, err := openNavigator()
			if err != nil {
				return err
			}

			week := step(nav)
			if err := csm.Save(week); err != nil {
				return err
			}
			return showWeek(week)
		},
	}
}

func showWeek(week calendar.Week) error {
	p, err := openPlanner()
	if err != nil {
		return err
	}
	printWeek(out, week, p.Week(week))
	return nil
}

func printWeek(w io.Writer, week calendar.Week, days [7][]calendar.Instance) {
	fmt.Fprintf(w, "Week %s - %s\n",
		week.Start.Format("Jan 2"), week.End.Format("Jan 2, 2006"))

	for i, date := range week.Days() {
		fmt.Fprintln(w)
		printDay(w, date, days[i])
	}
}

func printDay(w io.Writer, day time.Time, instances []calendar.Instance) {
	fmt.Fprintf(w, "%s\n", day.Format("Monday, Jan 2"))
	if len(instances) == 0 {
		fmt.Fprintln(w, "  -")
		return
	}
	for _, inst := range instances {
		fmt.Fprintf(w, "  %s  %-8s  %-8s %s%s\n",
			daemon.FormatRange(inst),
			shortID(inst.Event.ID),
			inst.Event.Category,
			inst.Event.Title,
			recurrenceLabel(inst.Event))
	}
}

func recurrenceLabel(ev calendar.Event) string {
	switch ev.RecurrencePattern {
	case calendar.RecurrenceDaily:
		return " (daily)"
	case calendar.RecurrenceWeekly:
		names := make([]string, 0, len(ev.DaysOfWeek()))
		for _, d := range ev.DaysOfWeek() {
			names = append(names, dayNames[d])
		}
		return " (weekly: " + strings.Join(names, ",") + ")"
	default:
		return ""
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
