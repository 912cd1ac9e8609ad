package tmux

import (
	"context"
	"log/slog"

	"github.com/inercia/autorun/internal/launch"
)

// StatusOption is the global user option holding the indicator text.
// Reference it from status-right as #{@autorun_status}.
const StatusOption = "@autorun_status"

const (
	StatusEnabled  = "▶ autorun"
	StatusDisabled = "⏸ autorun"
)

// Indicator shows the launch-on-start state in the tmux status line.
type Indicator struct {
	client *Client
	logger *slog.Logger
}

var _ launch.Indicator = (*Indicator)(nil)

// NewIndicator returns an indicator backed by client.
func NewIndicator(client *Client, logger *slog.Logger) *Indicator {
	return &Indicator{client: client, logger: logger}
}

// SetLaunchOnStart updates the indicator text. When no tmux server is
// running there is no status line to update and the call succeeds.
func (i *Indicator) SetLaunchOnStart(ctx context.Context, enabled bool) error {
	err := i.client.SetGlobalOption(ctx, StatusOption, StatusText(enabled))
	if isNoServer(err) {
		if i.logger != nil {
			i.logger.Debug("No tmux server, skipping status indicator", "error", err)
		}
		return nil
	}
	return err
}

// StatusText returns the indicator text for a launch-on-start state.
func StatusText(enabled bool) string {
	if enabled {
		return StatusEnabled
	}
	return StatusDisabled
}
