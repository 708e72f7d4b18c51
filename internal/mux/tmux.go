package mux

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Tmux implements the Backend interface over the tmux control CLI.
type Tmux struct {
	run runner
}

// NewTmux creates a new tmux backend.
func NewTmux() *Tmux {
	return &Tmux{run: runCommand}
}

// Kind returns KindTmux.
func (t *Tmux) Kind() Kind {
	return KindTmux
}

func (t *Tmux) tmux(ctx context.Context, args ...string) (string, error) {
	return t.run(ctx, "tmux", args...)
}

func (t *Tmux) opErr(op string, err error) error {
	return &OpError{Op: op, Kind: KindTmux, Err: err}
}

// IsRunning reports whether a tmux server is reachable. Any failure
// collapses to false.
func (t *Tmux) IsRunning(ctx context.Context) bool {
	_, err := t.tmux(ctx, "list-sessions")
	return err == nil
}

// CurrentPaneID returns the caller's pane id (e.g. "%3") from $TMUX_PANE.
// Both $TMUX and $TMUX_PANE must be set; a process merely descended from a
// tmux client but detached from it has neither.
func (t *Tmux) CurrentPaneID(ctx context.Context) (string, bool) {
	if os.Getenv("TMUX") == "" {
		return "", false
	}
	pane := os.Getenv("TMUX_PANE")
	if pane == "" {
		return "", false
	}
	return pane, true
}

// CreateWindow creates a named window without stealing focus and returns
// the new pane id.
func (t *Tmux) CreateWindow(ctx context.Context, req WindowRequest) (string, error) {
	args := []string{"new-window", "-d", "-P", "-F", "#{pane_id}", "-n", req.FullName()}
	if req.Dir != "" {
		args = append(args, "-c", req.Dir)
	}
	if req.AfterWindow != "" && t.WindowExists(ctx, "", req.AfterWindow) {
		args = append(args, "-a", "-t", req.AfterWindow)
	}
	out, err := t.tmux(ctx, args...)
	if err != nil {
		return "", t.opErr("create-window", err)
	}
	pane := strings.TrimSpace(out)
	if pane == "" {
		return "", t.opErr("create-window", fmt.Errorf("no pane id returned for window %q", req.FullName()))
	}
	return pane, nil
}

// SendKeys injects text into the pane literally, followed by Enter to
// submit it.
func (t *Tmux) SendKeys(ctx context.Context, paneID, text string) error {
	if _, err := t.tmux(ctx, "send-keys", "-t", paneID, "-l", text); err != nil {
		return t.opErr("send-keys", err)
	}
	if _, err := t.tmux(ctx, "send-keys", "-t", paneID, "Enter"); err != nil {
		return t.opErr("send-keys", err)
	}
	return nil
}

// CapturePane returns up to maxLines trailing lines of the pane's visible
// content and scrollback. Soft: false on any failure.
func (t *Tmux) CapturePane(ctx context.Context, paneID string, maxLines int) (string, bool) {
	out, err := t.tmux(ctx, "capture-pane", "-p", "-J", "-t", paneID,
		"-S", "-"+strconv.Itoa(maxLines))
	if err != nil {
		return "", false
	}
	return lastLines(out, maxLines), true
}

// WindowExists reports whether a window named prefix+name exists in the
// current session. Defaults to false on any failure.
func (t *Tmux) WindowExists(ctx context.Context, prefix, name string) bool {
	out, err := t.tmux(ctx, "list-windows", "-F", "#{window_name}")
	if err != nil {
		return false
	}
	full := prefix + name
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == full {
			return true
		}
	}
	return false
}

// SelectWindow focuses the window named prefix+name.
func (t *Tmux) SelectWindow(ctx context.Context, prefix, name string) error {
	if _, err := t.tmux(ctx, "select-window", "-t", prefix+name); err != nil {
		return t.opErr("select-window", err)
	}
	return nil
}

// KillWindow terminates the window by its full name.
func (t *Tmux) KillWindow(ctx context.Context, fullName string) error {
	if _, err := t.tmux(ctx, "kill-window", "-t", fullName); err != nil {
		return t.opErr("kill-window", err)
	}
	return nil
}

// SetStatus sets the pane title to text. With tab set, the containing
// window is renamed as well so the indicator shows on the window list.
func (t *Tmux) SetStatus(ctx context.Context, paneID, text string, tab bool) error {
	if _, err := t.tmux(ctx, "select-pane", "-t", paneID, "-T", text); err != nil {
		return t.opErr("set-status", err)
	}
	if tab {
		if _, err := t.tmux(ctx, "rename-window", "-t", paneID, text); err != nil {
			return t.opErr("set-status", err)
		}
	}
	return nil
}

// ClearStatus resets the pane title. An absent pane is not an error.
func (t *Tmux) ClearStatus(ctx context.Context, paneID string) error {
	_, _ = t.tmux(ctx, "select-pane", "-t", paneID, "-T", "")
	return nil
}
