package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/weekcal/internal/calendar"
	"github.com/username/weekcal/pkg/dateutil"
	"go.uber.org/zap"
)

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type eventFlags struct {
	title    string
	start    string
	end      string
	duration time.Duration
	category string
	repeat   string
	days     string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Event title")
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "Start (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVarP(&f.end, "end", "e", "", "End (YYYY-MM-DD HH:MM or HH:MM on the start day)")
	cmd.Flags().DurationVarP(&f.duration, "duration", "d", time.Hour, "Duration, used when --end is not given")
	cmd.Flags().StringVar(&f.category, "category", string(calendar.CategoryWork), "work, personal or meeting")
	cmd.Flags().StringVarP(&f.repeat, "repeat", "r", string(calendar.RecurrenceNone), "none, daily or weekly")
	cmd.Flags().StringVar(&f.days, "days", "", "Weekdays of a weekly event, e.g. tue,thu or 2,4")
}

func addCmd() *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cfg.Calendar.Location()

			if f.start == "" {
				return fmt.Errorf("--start is required")
			}
			start, err := dateutil.ParseDate(f.start, loc)
			if err != nil {
				return err
			}
			end, err := resolveEnd(start, f.end, f.duration, loc)
			if err != nil {
				return err
			}
			category, err := calendar.ParseCategory(f.category)
			if err != nil {
				return err
			}
			pattern, err := calendar.ParseRecurrencePattern(f.repeat)
			if err != nil {
				return err
			}

			draft := calendar.EventDraft{
				Title:             f.title,
				StartTime:         start,
				EndTime:           end,
				Category:          category,
				RecurrencePattern: pattern,
			}
			if pattern == calendar.RecurrenceWeekly {
				days, err := weeklyDays(f.days, start, loc)
				if err != nil {
					return err
				}
				draft.WeeklyRecurrence = &calendar.WeeklyRecurrence{DaysOfWeek: days}
			}

			p, err := openPlanner()
			if err != nil {
				return err
			}
			ev, err := p.Create(draft)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "id: %s\n", ev.ID)
			return savePlanner(p)
		},
	}

	f.register(cmd)
	return cmd
}

func editCmd() *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cfg.Calendar.Location()

			p, err := openPlanner()
			if err != nil {
				return err
			}
			ev, ok, err := p.Find(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return noChange(args[0])
			}

			changed := cmd.Flags().Changed
			if changed("title") {
				ev.Title = f.title
			}
			if changed("start") {
				start, err := dateutil.ParseDate(f.start, loc)
				if err != nil {
					return err
				}
				duration := ev.Duration()
				ev.StartTime = start
				ev.EndTime = start.Add(duration)
			}
			if changed("end") || changed("duration") {
				end, err := resolveEnd(ev.StartTime, f.end, f.duration, loc)
				if err != nil {
					return err
				}
				ev.EndTime = end
			}
			if changed("category") {
				if ev.Category, err = calendar.ParseCategory(f.category); err != nil {
					return err
				}
			}
			if changed("repeat") {
				if ev.RecurrencePattern, err = calendar.ParseRecurrencePattern(f.repeat); err != nil {
					return err
				}
			}
			if ev.RecurrencePattern == calendar.RecurrenceWeekly &&
				(changed("days") || len(ev.DaysOfWeek()) == 0) {
				days, err := weeklyDays(f.days, ev.StartTime, loc)
				if err != nil {
					return err
				}
				ev.WeeklyRecurrence = &calendar.WeeklyRecurrence{DaysOfWeek: days}
			}

			if _, err := p.Update(ev); err != nil {
				return err
			}
			return savePlanner(p)
		},
	}

	f.register(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlanner()
			if err != nil {
				return err
			}
			ev, ok, err := p.Find(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return noChange(args[0])
			}

			if !p.Delete(ev.ID) {
				return noChange(ev.ID)
			}
			return savePlanner(p)
		},
	}
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <from-slot> <to-slot>",
		Short: "Drag an event from one hour slot to another",
		Long: `Move an event between hour slots. Slots are written as YYYY-MM-DD_H,
e.g. 2025-01-14_9. Moving one occurrence of a recurring event shifts the
whole series.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cfg.Calendar.Location()

			from, err := calendar.ParseSlot(args[1], loc)
			if err != nil {
				return err
			}
			to, err := calendar.ParseSlot(args[2], loc)
			if err != nil {
				return err
			}

			p, err := openPlanner()
			if err != nil {
				return err
			}
			ev, ok, err := p.Find(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return noChange(args[0])
			}

			_, changed, err := p.Move(ev.ID, from, to)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(out, "No change")
				return nil
			}
			return savePlanner(p)
		},
	}
}

func seedCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add the demo events to the current week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := cfg.Calendar.Location()

			p, err := openPlanner()
			if err != nil {
				return err
			}
			if len(p.Snapshot()) > 0 && !force {
				return fmt.Errorf("%s already has events, use --force to add the samples anyway", cfg.State.EventsFile)
			}

			for _, draft := range calendar.SampleDrafts(calendar.WeekOf(dateutil.Today(loc), loc), loc) {
				if _, err := p.Create(draft); err != nil {
					return err
				}
			}
			return savePlanner(p)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Seed even if events already exist")
	return cmd
}

// noChange reports an unknown id; like a drop on the same slot it is not an error
func noChange(idPrefix string) error {
	logger.Debug("No event matches id", zap.String("id", idPrefix))
	fmt.Fprintln(out, "No change")
	return nil
}

// resolveEnd accepts a full date-time, a clock time on the start day, or
// falls back to start+duration when end is empty
func resolveEnd(start time.Time, end string, duration time.Duration, loc *time.Location) (time.Time, error) {
	if end == "" {
		return start.Add(duration), nil
	}
	if h, m, err := dateutil.ParseClock(end); err == nil {
		d := start.In(loc)
		return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc), nil
	}
	return dateutil.ParseDate(end, loc)
}

// weeklyDays parses the --days value; empty means the weekday of start
func weeklyDays(value string, start time.Time, loc *time.Location) ([]int, error) {
	if strings.TrimSpace(value) == "" {
		return []int{dateutil.Weekday(start.In(loc))}, nil
	}
	return parseDays(value)
}

// parseDays parses a comma separated list of weekday numbers (0=Sunday) or names
func parseDays(value string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}

		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday %d out of range 0-6", n)
			}
			days = append(days, n)
			continue
		}

		found := false
		for i := range dayNames {
			if len(part) >= 2 && strings.HasPrefix(strings.ToLower(time.Weekday(i).String()), part) {
				days = append(days, i)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays in %q", value)
	}
	return days, nil
}
