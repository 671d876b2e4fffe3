package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
calendar:
  timezone: UTC
state:
  events_file: /tmp/events.yaml
daemon:
  daily_time: "07:45"
  log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Calendar.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Calendar.Location())
	}
	if cfg.State.EventsFile != "/tmp/events.yaml" {
		t.Errorf("EventsFile = %q", cfg.State.EventsFile)
	}
	if cfg.State.CursorFile != "weekcal-week.json" {
		t.Errorf("CursorFile default = %q", cfg.State.CursorFile)
	}
	if h, m := cfg.Daemon.GetDailyTime(); h != 7 || m != 45 {
		t.Errorf("GetDailyTime() = %d:%d, want 7:45", h, m)
	}
	if cfg.Daemon.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.Daemon.LogLevel)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if cfg.State != def.State || cfg.Daemon != def.Daemon {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, def)
	}
	if cfg.Calendar.Location() != time.Local {
		t.Errorf("Location() without timezone = %v, want Local", cfg.Calendar.Location())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WEEKCAL_CALENDAR_TIMEZONE", "UTC")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Calendar.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC from env", cfg.Calendar.Timezone)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown timezone", "calendar:\n  timezone: Mars/Olympus\n"},
		{"bad daily time", "daemon:\n  daily_time: \"25:00\"\n"},
		{"empty events file", "state:\n  events_file: \"\"\n"},
		{"broken yaml", "calendar: [timezone\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestGetDailyTime_Fallback(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
	}{
		{"", 8, 0},
		{"garbage", 8, 0},
		{"21:30", 21, 30},
	}

	for _, tt := range tests {
		d := DaemonConfig{DailyTime: tt.value}
		if h, m := d.GetDailyTime(); h != tt.wantHour || m != tt.wantMinute {
			t.Errorf("GetDailyTime(%q) = %d:%d, want %d:%d", tt.value, h, m, tt.wantHour, tt.wantMinute)
		}
	}
}
