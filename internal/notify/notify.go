// Package notify renders user-facing notifications.
//
// Notifications are distinct from logs: they are short messages meant for
// the person who triggered a command (the equivalent of an editor toast),
// while logs carry the structured detail.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Notifier shows informational and warning messages to the user.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Info(message string)
	Warn(message string)
}

// Console prints notifications to a writer and mirrors them to a logger.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

// NewConsole returns a Console writing to out (os.Stdout when nil).
// A nil logger disables log mirroring.
func NewConsole(out io.Writer, logger *slog.Logger) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out, logger: logger}
}

// Info prints an informational notification.
func (c *Console) Info(message string) {
	c.print("✅", message)
	if c.logger != nil {
		c.logger.Info(message)
	}
}

// Warn prints a warning notification.
func (c *Console) Warn(message string) {
	c.print("⚠️ ", message)
	if c.logger != nil {
		c.logger.Warn(message)
	}
}

func (c *Console) print(icon, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", icon, message)
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Info(string) {}
func (discard) Warn(string) {}

// Recorder keeps notifications in memory. It is used by tests and by
// callers that want to inspect what would have been shown.
type Recorder struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

// Info records an informational notification.
func (r *Recorder) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, message)
}

// Warn records a warning notification.
func (r *Recorder) Warn(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, message)
}

// Infos returns a copy of the recorded informational messages.
func (r *Recorder) Infos() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.infos...)
}

// Warnings returns a copy of the recorded warnings.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warns...)
}
