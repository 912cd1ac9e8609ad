package launch

import (
	"errors"
	"fmt"
)

// ErrNoTerminals is returned by Launch when the configuration lists no
// terminals. It is informational: nothing was created or disposed.
var ErrNoTerminals = errors.New("no terminals configured")

// Step names the host action that failed for a terminal.
type Step string

const (
	StepCreate Step = "create"
	StepShow   Step = "show"
	StepFocus  Step = "focus"
	StepSplit  Step = "split"
	StepQuery  Step = "query focused"
	StepRename Step = "rename"
	StepWait   Step = "wait"
	StepSend   Step = "send command"
)

// TerminalError reports a host failure while launching one terminal.
type TerminalError struct {
	Name string
	Step Step
	Err  error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal %q: %s: %v", e.Name, e.Step, e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// DisposeError reports a failure closing a pre-existing session.
type DisposeError struct {
	Session SessionID
	Err     error
}

func (e *DisposeError) Error() string {
	if e.Session == "" {
		return fmt.Sprintf("list existing terminals: %v", e.Err)
	}
	return fmt.Sprintf("dispose terminal %s: %v", e.Session, e.Err)
}

func (e *DisposeError) Unwrap() error {
	return e.Err
}
