package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/weekcal/internal/calendar"
	"github.com/username/weekcal/internal/notify"
	"github.com/username/weekcal/internal/planner"
	"github.com/username/weekcal/pkg/dateutil"
	"go.uber.org/zap"
)

// Daemon prints the day's agenda once a day at a fixed time
type Daemon struct {
	planner     *planner.Planner
	notifier    notify.Notifier
	loc         *time.Location
	dailyHour   int // Hour to run the agenda (0-23)
	dailyMinute int // Minute to run the agenda (0-59)
	logger      *zap.Logger
	load        func() ([]calendar.Event, error) // Fresh events before every run, nil keeps the planner as is
	now         func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
	lastRunDate string     // Track last run date to avoid duplicates
	mu          sync.Mutex // Protect against concurrent runs
}

// NewScheduledDaemon creates a new daemon instance with daily schedule
func NewScheduledDaemon(p *planner.Planner, notifier notify.Notifier, dailyHour, dailyMinute int, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		planner:     p,
		notifier:    notifier,
		loc:         p.Location(),
		dailyHour:   dailyHour,
		dailyMinute: dailyMinute,
		logger:      logger,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetLoader makes every run start from the events returned by load
func (d *Daemon) SetLoader(load func() ([]calendar.Event, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.load = load
}

// Start runs the daemon until Stop is called or a termination signal arrives
func (d *Daemon) Start() error {
	scheduler := cron.New(cron.WithLocation(d.loc), cron.WithSeconds())

	spec := dailySpec(d.dailyHour, d.dailyMinute)
	if _, err := scheduler.AddFunc(spec, func() {
		if _, err := d.RunOnce(); err != nil {
			d.logger.Error("Agenda run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule agenda %q: %w", spec, err)
	}

	d.logger.Info("Daemon started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute),
		zap.String("timezone", d.loc.String()))

	// Run immediately if the scheduled time already passed today
	now := d.now().In(d.loc)
	scheduledToday := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.loc)
	if now.After(scheduledToday) {
		d.logger.Info("Scheduled time already passed today, running agenda now",
			zap.Time("scheduled_time", scheduledToday))
		if _, err := d.RunOnce(); err != nil {
			d.logger.Error("Initial agenda run failed", zap.Error(err))
		}
	}

	scheduler.Start()
	d.logger.Info("Next agenda scheduled", zap.Time("next_run", d.NextRun()))

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-d.ctx.Done():
	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		d.Stop()
	}

	<-scheduler.Stop().Done()
	d.logger.Info("Daemon stopped")
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RunOnce notifies today's agenda. It returns the number of instances and
// skips dates it already ran for.
func (d *Daemon) RunOnce() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	today := dateutil.DateIn(d.now(), d.loc)
	todayStr := today.Format("2006-01-02")
	if d.lastRunDate == todayStr {
		d.logger.Debug("Agenda already sent today, skipping",
			zap.String("last_run_date", d.lastRunDate))
		return 0, nil
	}

	if d.load != nil {
		events, err := d.load()
		if err != nil {
			return 0, fmt.Errorf("failed to reload events: %w", err)
		}
		d.planner.Reload(events)
	}

	instances := d.planner.Day(today, calendar.WeekOf(today, d.loc))

	d.notifier.Notify(notify.Notification{
		Kind:        notify.KindInfo,
		Title:       "Agenda for " + today.Format("Mon 2006-01-02"),
		Description: fmt.Sprintf("%d event(s)", len(instances)),
	})
	for _, inst := range instances {
		d.notifier.Notify(notify.Notification{
			Kind:        notify.KindInfo,
			Title:       FormatRange(inst),
			Description: inst.Event.Title,
		})
	}

	d.lastRunDate = todayStr
	d.logger.Info("Agenda sent",
		zap.String("date", todayStr),
		zap.Int("instances", len(instances)))

	return len(instances), nil
}

// NextRun calculates the next scheduled run time
func (d *Daemon) NextRun() time.Time {
	now := d.now().In(d.loc)

	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, d.loc)

	// If target time already passed today, schedule for tomorrow
	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}

	return today
}

// FormatRange renders the instance clock range as HH:MM - HH:MM
func FormatRange(inst calendar.Instance) string {
	return inst.Start.Format("15:04") + " - " + inst.End.Format("15:04")
}

// cron format: second minute hour dom month dow
func dailySpec(hour, minute int) string {
	return fmt.Sprintf("0 %d %d * * *", minute, hour)
}
