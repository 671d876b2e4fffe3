package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Kind selects how a notification is styled by the channel
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindInfo
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindInfo:
		return "info"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a user-facing message about a completed change
type Notification struct {
	Kind        Kind
	Title       string
	Description string
}

// Notifier delivers notifications. Implementations carry no calendar state.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("kind", n.Kind.String()),
		zap.String("description", n.Description),
	}
	if n.Kind == KindError {
		l.logger.Warn(n.Title, fields...)
		return
	}
	l.logger.Info(n.Title, fields...)
}

// WriterNotifier prints one line per notification
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier printing to w
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements Notifier
func (wn *WriterNotifier) Notify(n Notification) {
	wn.mu.Lock()
	defer wn.mu.Unlock()

	if n.Description == "" {
		fmt.Fprintf(wn.w, "%s %s\n", icon(n.Kind), n.Title)
		return
	}
	fmt.Fprintf(wn.w, "%s %s %s\n", icon(n.Kind), n.Title, n.Description)
}

func icon(k Kind) string {
	switch k {
	case KindSuccess:
		return "✅"
	case KindError:
		return "🗑"
	default:
		return "ℹ️"
	}
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

// Notify implements Notifier
func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// Discard drops every notification
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) {}

// Recorder keeps notifications in memory, e.g. for tests
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Notify implements Notifier
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns the notifications received so far
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}
