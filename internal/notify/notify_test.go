package notify

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)

	n.Notify(Notification{Kind: KindSuccess, Title: "Event created!", Description: "Gym"})
	n.Notify(Notification{Kind: KindInfo, Title: "Standup"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Event created! Gym") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " Standup") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	n.Notify(Notification{Kind: KindInfo, Title: "Event updated!", Description: "Review"})
	n.Notify(Notification{Kind: KindError, Title: "Event deleted!", Description: "Review"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0].Message != "Event updated!" || entries[0].ContextMap()["description"] != "Review" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Level != zap.WarnLevel {
		t.Errorf("delete notification level = %v, want warn", entries[1].Level)
	}
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Multi{a, b, Discard}.Notify(Notification{Kind: KindSuccess, Title: "x"})

	if len(a.Sent()) != 1 || len(b.Sent()) != 1 {
		t.Errorf("Multi delivered %d and %d, want 1 each", len(a.Sent()), len(b.Sent()))
	}
}
