package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inercia/autorun/internal/config"
	"github.com/inercia/autorun/internal/logging"
	"github.com/inercia/autorun/internal/notify"
)

const (
	// DefaultReadyDelay is the pause between establishing a split pane and
	// typing its command. The host exposes no pane-ready signal.
	DefaultReadyDelay = 200 * time.Millisecond

	// DefaultSplitThreshold is the number of split panes above which the
	// orchestrator recommends the tabs layout.
	DefaultSplitThreshold = 3
)

// Result summarizes a launch.
type Result struct {
	// LaunchID identifies this launch in logs.
	LaunchID string
	// Launched lists the names of terminals that received their command.
	Launched []string
	// Disposed is the number of pre-existing sessions closed.
	Disposed int
	// Failures holds one *DisposeError or *TerminalError per failed step.
	Failures []error
}

// Orchestrator creates terminal sessions for a configuration.
// Launches are sequential; callers must not run two launches against the
// same host concurrently.
type Orchestrator struct {
	host     Host
	notifier notify.Notifier
	logger   *slog.Logger

	// ReadyDelay is the pause before typing a command into a split pane.
	ReadyDelay time.Duration
	// SplitThreshold is the pane count above which split layout is discouraged.
	SplitThreshold int

	sleep func(ctx context.Context, d time.Duration) error
	newID func() string
}

// NewOrchestrator creates an orchestrator driving host. A nil notifier
// discards notifications; a nil logger uses the launch component logger.
func NewOrchestrator(host Host, notifier notify.Notifier, logger *slog.Logger) *Orchestrator {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = logging.Launch()
	}
	return &Orchestrator{
		host:           host,
		notifier:       notifier,
		logger:         logger,
		ReadyDelay:     DefaultReadyDelay,
		SplitThreshold: DefaultSplitThreshold,
		sleep:          sleepContext,
		newID:          func() string { return uuid.New().String() },
	}
}

// Launch realizes cfg as running terminal sessions.
//
// Existing sessions are disposed first when cfg.CloseExisting is set. Host
// failures are caught per terminal: they are logged, shown as a warning and
// launching continues with the next terminal. The returned error joins
// every failure and is nil when all terminals launched. An empty terminal
// list returns ErrNoTerminals without touching the host.
func (o *Orchestrator) Launch(ctx context.Context, cfg config.AutorunConfig) (Result, error) {
	res := Result{LaunchID: o.newID()}
	logger := logging.WithLaunch(o.logger, res.LaunchID, string(cfg.Layout))

	if len(cfg.Terminals) == 0 {
		o.notifier.Warn("No terminals configured")
		logger.Info("Nothing to launch")
		return res, ErrNoTerminals
	}

	logger.Info("Launching terminals",
		"count", len(cfg.Terminals),
		"close_existing", cfg.CloseExisting,
		"source", cfg.Source)

	if cfg.CloseExisting {
		o.disposeAll(ctx, logger, &res)
	}

	if cfg.Layout == config.LayoutSplit && len(cfg.Terminals) > o.SplitThreshold {
		o.notifier.Warn(fmt.Sprintf(
			"Split layout with %d terminals may feel cramped; consider the tabs layout or a wider window",
			len(cfg.Terminals)))
	}

	var err error
	switch cfg.Layout {
	case config.LayoutTabs:
		err = o.launchTabs(ctx, logger, cfg.Terminals, &res)
	default:
		err = o.launchSplit(ctx, logger, cfg.Terminals, &res)
	}

	for _, f := range res.Failures {
		o.notifier.Warn(fmt.Sprintf("Failed to %s", describeFailure(f)))
	}
	o.notifier.Info(fmt.Sprintf("Launched %d %s", len(res.Launched), plural(len(res.Launched), "terminal", "terminals")))

	logger.Info("Launch finished",
		"launched", len(res.Launched),
		"failed", len(res.Failures),
		"disposed", res.Disposed)

	if err != nil {
		return res, errors.Join(append(res.Failures, err)...)
	}
	return res, errors.Join(res.Failures...)
}

// disposeAll closes every existing session before anything is created.
func (o *Orchestrator) disposeAll(ctx context.Context, logger *slog.Logger, res *Result) {
	ids, err := o.host.Sessions(ctx)
	if err != nil {
		logger.Warn("Failed to list existing terminals", "error", err)
		res.Failures = append(res.Failures, &DisposeError{Err: err})
		return
	}
	for _, id := range ids {
		if err := o.host.Dispose(ctx, id); err != nil {
			logger.Warn("Failed to dispose terminal", "session", id, "error", err)
			res.Failures = append(res.Failures, &DisposeError{Session: id, Err: err})
			continue
		}
		res.Disposed++
	}
	logger.Debug("Disposed existing terminals", "count", res.Disposed)
}

// launchTabs creates one independent session per terminal, in order.
func (o *Orchestrator) launchTabs(ctx context.Context, logger *slog.Logger, specs []config.TerminalSpec, res *Result) error {
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}

		id, err := o.host.Create(ctx, spec.Name)
		if err != nil {
			o.fail(logger, res, spec, StepCreate, err)
			continue
		}
		if err := o.host.Show(ctx, id); err != nil {
			o.fail(logger, res, spec, StepShow, err)
			continue
		}
		if err := o.host.SendText(ctx, id, spec.Command); err != nil {
			o.fail(logger, res, spec, StepSend, err)
			continue
		}
		o.launched(logger, res, spec, id)
	}
	return nil
}

// launchSplit creates a chain of split panes, each split from the
// previously established active session.
//
// A failed step leaves the previous active session in place so the chain
// continues from it. When no active session exists yet, the next terminal
// starts the chain with a fresh session.
func (o *Orchestrator) launchSplit(ctx context.Context, logger *slog.Logger, specs []config.TerminalSpec, res *Result) error {
	var active SessionID
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if active == "" {
			id, err := o.host.Create(ctx, spec.Name)
			if err != nil {
				o.fail(logger, res, spec, StepCreate, err)
				continue
			}
			if err := o.host.Show(ctx, id); err != nil {
				o.fail(logger, res, spec, StepShow, err)
				continue
			}
			active = id
		} else {
			// Splitting is relative to whichever session has focus.
			if err := o.host.Show(ctx, active); err != nil {
				o.fail(logger, res, spec, StepFocus, err)
				continue
			}
			if err := o.host.SplitActive(ctx); err != nil {
				o.fail(logger, res, spec, StepSplit, err)
				continue
			}
			id, err := o.host.Focused(ctx)
			if err != nil {
				o.fail(logger, res, spec, StepQuery, err)
				continue
			}
			active = id
			if err := o.host.RenameActive(ctx, spec.Name); err != nil {
				o.fail(logger, res, spec, StepRename, err)
				continue
			}
		}

		if err := o.sleep(ctx, o.ReadyDelay); err != nil {
			o.fail(logger, res, spec, StepWait, err)
			return err
		}
		if err := o.host.SendText(ctx, active, spec.Command); err != nil {
			o.fail(logger, res, spec, StepSend, err)
			continue
		}
		o.launched(logger, res, spec, active)
	}
	return nil
}

func (o *Orchestrator) launched(logger *slog.Logger, res *Result, spec config.TerminalSpec, id SessionID) {
	res.Launched = append(res.Launched, spec.Name)
	logger.Debug("Terminal launched", "terminal", spec.Name, "session", id)
}

func (o *Orchestrator) fail(logger *slog.Logger, res *Result, spec config.TerminalSpec, step Step, err error) {
	logger.Error("Terminal launch step failed",
		"terminal", spec.Name,
		"step", step,
		"error", err)
	res.Failures = append(res.Failures, &TerminalError{Name: spec.Name, Step: step, Err: err})
}

func describeFailure(err error) string {
	var te *TerminalError
	if errors.As(err, &te) {
		return fmt.Sprintf("launch terminal %q (%s): %v", te.Name, te.Step, te.Err)
	}
	var de *DisposeError
	if errors.As(err, &de) {
		if de.Session == "" {
			return fmt.Sprintf("list existing terminals: %v", de.Err)
		}
		return fmt.Sprintf("close existing terminal %s: %v", de.Session, de.Err)
	}
	return err.Error()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
