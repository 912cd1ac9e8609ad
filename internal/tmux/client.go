// Package tmux drives a tmux server from the command line client. It
// provides the terminal host and the status indicator used by launches.
package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// PaneIDFormat prints the unique pane id (%N) of a pane.
const PaneIDFormat = "#{pane_id}"

// CommandRunner executes tmux commands.
type CommandRunner interface {
	Run(ctx context.Context, args []string) ([]byte, error)
}

// Client executes tmux commands.
type Client struct {
	runner CommandRunner
	logger *slog.Logger
}

// NewClient returns a tmux client using a custom command runner.
func NewClient(runner CommandRunner, logger *slog.Logger) *Client {
	return &Client{runner: runner, logger: logger}
}

// NewExecRunner returns a runner invoking command, which is split with
// shell quoting rules so that values such as "tmux -L work" are accepted.
func NewExecRunner(command string) (CommandRunner, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid tmux command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("tmux command is empty")
	}
	return execRunner{argv: argv}, nil
}

// HasSession reports whether the named session exists.
func (c *Client) HasSession(ctx context.Context, name string) (bool, error) {
	if c == nil || c.runner == nil {
		return false, errors.New("tmux runner unavailable")
	}
	output, err := c.runner.Run(ctx, []string{"has-session", "-t", exactSession(name)})
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		if len(output) > 0 {
			return false, fmt.Errorf("tmux has-session failed: %s", bytes.TrimSpace(output))
		}
		return false, fmt.Errorf("tmux has-session failed: %w", err)
	}
	return true, nil
}

// NewSession creates a detached session whose first window is named
// windowName and returns the id of its pane.
func (c *Client) NewSession(ctx context.Context, sessionName, windowName string) (string, error) {
	args := []string{"new-session", "-d", "-s", sessionName}
	if strings.TrimSpace(windowName) != "" {
		args = append(args, "-n", windowName)
	}
	args = append(args, "-P", "-F", PaneIDFormat)
	return c.runPaneID(ctx, args)
}

// NewWindow creates a window at the end of a session and returns the id of
// its pane. The new window becomes current.
func (c *Client) NewWindow(ctx context.Context, sessionName, windowName string) (string, error) {
	args := []string{"new-window", "-t", exactSession(sessionName) + ":"}
	if strings.TrimSpace(windowName) != "" {
		args = append(args, "-n", windowName)
	}
	args = append(args, "-P", "-F", PaneIDFormat)
	return c.runPaneID(ctx, args)
}

// SelectWindow makes the window containing target current.
func (c *Client) SelectWindow(ctx context.Context, target string) error {
	return c.run(ctx, []string{"select-window", "-t", target})
}

// SelectPane makes target the active pane of its window.
func (c *Client) SelectPane(ctx context.Context, target string) error {
	return c.run(ctx, []string{"select-pane", "-t", target})
}

// SetPaneTitle sets the title of target.
func (c *Client) SetPaneTitle(ctx context.Context, target, title string) error {
	return c.run(ctx, []string{"select-pane", "-t", target, "-T", title})
}

// SplitWindow splits target horizontally. The new pane becomes active.
func (c *Client) SplitWindow(ctx context.Context, target string) error {
	return c.run(ctx, []string{"split-window", "-h", "-t", target})
}

// SelectLayout applies a preset layout to the window containing target.
func (c *Client) SelectLayout(ctx context.Context, target, layout string) error {
	return c.run(ctx, []string{"select-layout", "-t", target, layout})
}

// Display expands format against target.
func (c *Client) Display(ctx context.Context, target, format string) (string, error) {
	args := []string{"display-message", "-p"}
	if strings.TrimSpace(target) != "" {
		args = append(args, "-t", target)
	}
	args = append(args, format)
	output, err := c.runWithOutput(ctx, args)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// SendLiteral types text into target without interpreting key names,
// then presses Enter.
func (c *Client) SendLiteral(ctx context.Context, target, text string) error {
	if err := c.run(ctx, []string{"send-keys", "-t", target, "-l", text}); err != nil {
		return err
	}
	return c.run(ctx, []string{"send-keys", "-t", target, "Enter"})
}

// ListPanes returns the ids of every pane in a session.
func (c *Client) ListPanes(ctx context.Context, sessionName string) ([]string, error) {
	output, err := c.runWithOutput(ctx, []string{"list-panes", "-s", "-t", exactSession(sessionName), "-F", PaneIDFormat})
	if err != nil {
		return nil, err
	}
	var panes []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			panes = append(panes, line)
		}
	}
	return panes, nil
}

// KillPane terminates a pane. Killing the last pane of a session ends the
// session.
func (c *Client) KillPane(ctx context.Context, target string) error {
	return c.run(ctx, []string{"kill-pane", "-t", target})
}

// SetGlobalOption sets a global session option. User options start with @.
func (c *Client) SetGlobalOption(ctx context.Context, name, value string) error {
	return c.run(ctx, []string{"set-option", "-g", name, value})
}

func (c *Client) runPaneID(ctx context.Context, args []string) (string, error) {
	output, err := c.runWithOutput(ctx, args)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(output))
	if !strings.HasPrefix(id, "%") {
		return "", fmt.Errorf("tmux %s returned unexpected pane id %q", args[0], id)
	}
	return id, nil
}

func (c *Client) run(ctx context.Context, args []string) error {
	_, err := c.runWithOutput(ctx, args)
	return err
}

func (c *Client) runWithOutput(ctx context.Context, args []string) ([]byte, error) {
	if c == nil || c.runner == nil {
		return nil, errors.New("tmux runner unavailable")
	}
	if c.logger != nil {
		c.logger.Debug("Running tmux", "args", args)
	}
	output, err := c.runner.Run(ctx, args)
	if err != nil {
		if len(output) > 0 {
			return nil, fmt.Errorf("tmux %s failed: %s", args[0], bytes.TrimSpace(output))
		}
		return nil, fmt.Errorf("tmux %s failed: %w", args[0], err)
	}
	return output, nil
}

// exactSession prevents tmux from prefix-matching a different session.
func exactSession(name string) string {
	return "=" + name
}

// isNoServer reports whether err came from a tmux client that could not
// reach a server.
func isNoServer(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no server running") ||
		strings.Contains(msg, "error connecting to") ||
		errors.Is(err, exec.ErrNotFound)
}

type execRunner struct {
	argv []string
}

func (r execRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	full := append(append([]string(nil), r.argv[1:]...), args...)
	cmd := exec.CommandContext(ctx, r.argv[0], full...)
	return cmd.CombinedOutput()
}
