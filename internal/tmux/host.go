package tmux

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inercia/autorun/internal/launch"
)

// SessionPrefix prefixes the default session name.
const SessionPrefix = "autorun-"

// Host implements launch.Host on top of one tmux session.
//
// Terminals in the tabs layout are windows of that session; the split
// layout adds panes to the current window. Session handles are pane ids.
type Host struct {
	client  *Client
	session string
	// selfPane is the pane running autorun, which is never listed or killed.
	selfPane string
	logger   *slog.Logger
}

var _ launch.Host = (*Host)(nil)

// NewHost returns a host managing the named tmux session.
func NewHost(client *Client, session string, logger *slog.Logger) *Host {
	return &Host{
		client:   client,
		session:  session,
		selfPane: strings.TrimSpace(getenv("TMUX_PANE")),
		logger:   logger,
	}
}

// Sessions lists the panes of the managed session. A missing session has
// no panes.
func (h *Host) Sessions(ctx context.Context) ([]launch.SessionID, error) {
	exists, err := h.client.HasSession(ctx, h.session)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	panes, err := h.client.ListPanes(ctx, h.session)
	if err != nil {
		return nil, err
	}
	ids := make([]launch.SessionID, 0, len(panes))
	for _, p := range panes {
		if p == h.selfPane {
			continue
		}
		ids = append(ids, launch.SessionID(p))
	}
	return ids, nil
}

// Dispose kills a pane.
func (h *Host) Dispose(ctx context.Context, id launch.SessionID) error {
	if string(id) == h.selfPane {
		h.debug("Not disposing own pane", "pane", id)
		return nil
	}
	return h.client.KillPane(ctx, string(id))
}

// Create opens a new window named name, creating the session if needed.
func (h *Host) Create(ctx context.Context, name string) (launch.SessionID, error) {
	exists, err := h.client.HasSession(ctx, h.session)
	if err != nil {
		return "", err
	}

	var pane string
	if exists {
		pane, err = h.client.NewWindow(ctx, h.session, name)
	} else {
		h.debug("Creating tmux session", "session", h.session)
		pane, err = h.client.NewSession(ctx, h.session, name)
	}
	if err != nil {
		return "", err
	}
	if err := h.client.SetPaneTitle(ctx, pane, name); err != nil {
		return "", err
	}
	return launch.SessionID(pane), nil
}

// Show makes the pane's window current and focuses the pane.
func (h *Host) Show(ctx context.Context, id launch.SessionID) error {
	if err := h.client.SelectWindow(ctx, string(id)); err != nil {
		return err
	}
	return h.client.SelectPane(ctx, string(id))
}

// Focused returns the active pane of the session's current window.
func (h *Host) Focused(ctx context.Context) (launch.SessionID, error) {
	pane, err := h.client.Display(ctx, h.activeTarget(), PaneIDFormat)
	if err != nil {
		return "", err
	}
	if pane == "" {
		return "", fmt.Errorf("tmux session %s has no active pane", h.session)
	}
	return launch.SessionID(pane), nil
}

// SendText types text into the pane and presses Enter.
func (h *Host) SendText(ctx context.Context, id launch.SessionID, text string) error {
	return h.client.SendLiteral(ctx, string(id), text)
}

// SplitActive splits the active pane side by side and evens out the
// widths of the row.
func (h *Host) SplitActive(ctx context.Context) error {
	target := h.activeTarget()
	if err := h.client.SplitWindow(ctx, target); err != nil {
		return err
	}
	return h.client.SelectLayout(ctx, target, "even-horizontal")
}

// RenameActive sets the title of the active pane.
func (h *Host) RenameActive(ctx context.Context, name string) error {
	return h.client.SetPaneTitle(ctx, h.activeTarget(), name)
}

// activeTarget addresses the active pane of the session's current window.
func (h *Host) activeTarget() string {
	return exactSession(h.session) + ":"
}

func (h *Host) debug(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}

var getenv = os.Getenv

// SessionName picks the tmux session autorun manages.
//
// A configured name wins. Inside tmux the current session is used.
// Otherwise the name is derived from the workspace root.
func SessionName(ctx context.Context, client *Client, configured, workspaceRoot string) (string, error) {
	if name := strings.TrimSpace(configured); name != "" {
		return name, nil
	}
	if insideTmux() {
		name, err := client.Display(ctx, "", "#{session_name}")
		if err != nil {
			return "", fmt.Errorf("failed to query current tmux session: %w", err)
		}
		if name != "" {
			return name, nil
		}
	}
	return DefaultSessionName(workspaceRoot), nil
}

// DefaultSessionName returns the session name for a workspace root.
func DefaultSessionName(workspaceRoot string) string {
	base := filepath.Base(workspaceRoot)
	if base == "." || base == string(filepath.Separator) || strings.TrimSpace(base) == "" {
		base = "workspace"
	}
	// tmux uses '.' and ':' as target separators.
	base = strings.NewReplacer(".", "-", ":", "-").Replace(base)
	return SessionPrefix + base
}

func insideTmux() bool {
	return strings.TrimSpace(getenv("TMUX")) != ""
}
