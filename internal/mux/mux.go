// Package mux provides an abstraction over terminal multiplexers
// (tmux, WezTerm, kitty).
//
// Every backend exposes the same capability set: create named windows,
// inject keys, capture pane content, and render status indicators.
// Callers must not be able to distinguish backends by behavior alone,
// only through Kind and backend-specific error text.
package mux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Kind identifies a terminal multiplexer backend.
type Kind string

const (
	KindTmux    Kind = "tmux"
	KindWezTerm Kind = "wezterm"
	KindKitty   Kind = "kitty"
)

// String returns the external representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// ParseKind decodes an external kind representation.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindTmux, KindWezTerm, KindKitty:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown multiplexer kind %q (supported: tmux, wezterm, kitty)", s)
	}
}

// DefaultTimeout bounds a single control command against the external
// multiplexer server when the caller's context carries no deadline.
// A wedged server must not hang a caller indefinitely.
var DefaultTimeout = 5 * time.Second

// ErrNotInPane reports that the calling process is not running inside a
// recognized multiplexer pane. It is a usage precondition violation,
// distinct from an external-system fault.
var ErrNotInPane = errors.New("not running inside a multiplexer pane")

// OpError is the failure type for hard backend operations. It carries the
// operation name, the backend kind, and the underlying cause.
type OpError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// WindowRequest describes a window to create. The effective window name is
// Prefix+Name and must be unique among currently open windows, otherwise
// name-addressed operations become ambiguous. AfterWindow is an ordering
// hint, honored best-effort.
type WindowRequest struct {
	Prefix      string
	Name        string
	Dir         string
	AfterWindow string
}

// FullName returns the effective window name.
func (r WindowRequest) FullName() string {
	return r.Prefix + r.Name
}

// Backend abstracts terminal multiplexer operations. Implementations exist
// for tmux, WezTerm, and kitty.
//
// Soft operations (IsRunning, CurrentPaneID, CapturePane, WindowExists)
// collapse any underlying failure to a safe default and never return an
// error. Hard operations fail with *OpError.
type Backend interface {
	// Kind returns the backend kind.
	Kind() Kind

	// IsRunning reports whether the multiplexer server is reachable.
	IsRunning(ctx context.Context) bool

	// CurrentPaneID returns the pane hosting the calling process, or
	// false if the caller is not inside a pane of this backend kind.
	CurrentPaneID(ctx context.Context) (string, bool)

	// CreateWindow creates a window (and its pane) in req.Dir and
	// returns the new pane identity.
	CreateWindow(ctx context.Context, req WindowRequest) (string, error)

	// SendKeys injects text into the target pane as if typed, including
	// submission.
	SendKeys(ctx context.Context, paneID, text string) error

	// CapturePane returns up to maxLines most recent lines of the
	// pane's content, or false on any failure.
	CapturePane(ctx context.Context, paneID string, maxLines int) (string, bool)

	// WindowExists reports whether a window named prefix+name exists.
	WindowExists(ctx context.Context, prefix, name string) bool

	// SelectWindow focuses the window named prefix+name.
	SelectWindow(ctx context.Context, prefix, name string) error

	// KillWindow terminates the window identified by its full name.
	KillWindow(ctx context.Context, fullName string) error

	// SetStatus renders a status indicator into the pane's title.
	// When tab is true the indicator is also reflected on the
	// containing window/tab title.
	SetStatus(ctx context.Context, paneID, text string, tab bool) error

	// ClearStatus removes the indicator. Best-effort for a
	// merely-absent indicator.
	ClearStatus(ctx context.Context, paneID string) error
}

// New creates the adapter for the given backend kind.
func New(kind Kind) Backend {
	switch kind {
	case KindWezTerm:
		return NewWezTerm()
	case KindKitty:
		return NewKitty()
	default:
		return NewTmux()
	}
}

// FromName creates a Backend by external kind name.
func FromName(name string) (Backend, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return New(kind), nil
}

// runner executes one control command and returns its stdout. Adapters hold
// a runner so tests can substitute the external binary.
type runner func(ctx context.Context, name string, args ...string) (string, error)

// runCommand is the production runner. It bounds the command with
// DefaultTimeout when the context has no deadline and folds stderr into the
// returned error.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// lastLines returns up to n trailing lines of s.
func lastLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
