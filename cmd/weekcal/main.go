package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/weekcal/internal/calendar"
	"github.com/username/weekcal/internal/config"
	"github.com/username/weekcal/internal/notify"
	"github.com/username/weekcal/internal/planner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	out        io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "weekcal",
		Short:         "Weekly calendar scheduler",
		Long:          "Keep one-time, daily and weekly events and browse them week by week",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ExpandEnvVars()

			if cfg.Daemon.LogFile != "" {
				logger, err = initFileLogger(cfg.Daemon.LogFile, cfg.Daemon.LogLevel)
				if err != nil {
					initLogger(cfg.Daemon.LogLevel) // Fallback to console
				}
			} else {
				initLogger(cfg.Daemon.LogLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(
		weekCmd(),
		dayCmd(),
		navCmd("next", "Show the following week", (*planner.Navigator).Next),
		navCmd("prev", "Show the previous week", (*planner.Navigator).Prev),
		navCmd("today", "Show the week containing today", (*planner.Navigator).Today),
		addCmd(),
		editCmd(),
		deleteCmd(),
		moveCmd(),
		seedCmd(),
		exportCmd(),
		daemonCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openPlanner loads the events file into a planner that reports changes on stdout
func openPlanner() (*planner.Planner, error) {
	events, err := calendar.LoadFile(cfg.State.EventsFile)
	if err != nil {
		return nil, err
	}

	logger.Debug("Events loaded",
		zap.String("file", cfg.State.EventsFile),
		zap.Int("count", len(events)))

	store := calendar.NewStore(events, logger)
	return planner.NewPlanner(store, notify.NewWriterNotifier(out), cfg.Calendar.Location(), logger), nil
}

// savePlanner writes the planner's snapshot back to the events file
func savePlanner(p *planner.Planner) error {
	events := p.Snapshot()
	if err := calendar.SaveFile(cfg.State.EventsFile, events); err != nil {
		return err
	}

	logger.Debug("Events saved",
		zap.String("file", cfg.State.EventsFile),
		zap.Int("count", len(events)))
	return nil
}

// openNavigator restores the displayed week from the cursor file
func openNavigator() (*planner.Navigator, *planner.CursorStateManager, error) {
	nav := planner.NewNavigator(cfg.Calendar.Location())
	csm := planner.NewCursorStateManager(cfg.State.CursorFile, logger)

	if err := csm.Load(); err != nil {
		return nil, nil, fmt.Errorf("failed to load week cursor: %w", err)
	}
	if _, err := csm.Restore(nav); err != nil {
		logger.Warn("Ignoring broken week cursor", zap.Error(err))
		nav.Today()
	}

	return nav, csm, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	return zapLevel
}
