package mux

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WezTerm implements the Backend interface over `wezterm cli`.
//
// A "window" in the shared contract maps to a WezTerm tab holding a single
// pane; the tab title carries the effective window name.
type WezTerm struct {
	run runner
}

// NewWezTerm creates a new WezTerm backend.
func NewWezTerm() *WezTerm {
	return &WezTerm{run: runCommand}
}

// Kind returns KindWezTerm.
func (w *WezTerm) Kind() Kind {
	return KindWezTerm
}

func (w *WezTerm) cli(ctx context.Context, args ...string) (string, error) {
	return w.run(ctx, "wezterm", append([]string{"cli"}, args...)...)
}

func (w *WezTerm) opErr(op string, err error) error {
	return &OpError{Op: op, Kind: KindWezTerm, Err: err}
}

// weztermPane is one entry of `wezterm cli list --format json`.
type weztermPane struct {
	PaneID   int    `json:"pane_id"`
	TabID    int    `json:"tab_id"`
	WindowID int    `json:"window_id"`
	TabTitle string `json:"tab_title"`
}

func (w *WezTerm) list(ctx context.Context) ([]weztermPane, error) {
	out, err := w.cli(ctx, "list", "--format", "json")
	if err != nil {
		return nil, err
	}
	var panes []weztermPane
	if err := json.Unmarshal([]byte(out), &panes); err != nil {
		return nil, fmt.Errorf("parse wezterm list output: %w", err)
	}
	return panes, nil
}

// findByTitle returns the panes whose tab carries the given title.
func findByTitle(panes []weztermPane, title string) []weztermPane {
	var matched []weztermPane
	for _, p := range panes {
		if p.TabTitle == title {
			matched = append(matched, p)
		}
	}
	return matched
}

// IsRunning reports whether the WezTerm mux server answers. Any failure
// collapses to false.
func (w *WezTerm) IsRunning(ctx context.Context) bool {
	_, err := w.list(ctx)
	return err == nil
}

// CurrentPaneID returns the caller's pane id from $WEZTERM_PANE.
func (w *WezTerm) CurrentPaneID(ctx context.Context) (string, bool) {
	pane := os.Getenv("WEZTERM_PANE")
	if pane == "" {
		return "", false
	}
	return pane, true
}

// CreateWindow spawns a new tab in req.Dir, titles it with the effective
// window name, and returns the new pane id. The AfterWindow ordering hint
// is ignored: the CLI offers no tab reordering.
func (w *WezTerm) CreateWindow(ctx context.Context, req WindowRequest) (string, error) {
	args := []string{"spawn"}
	if req.Dir != "" {
		args = append(args, "--cwd", req.Dir)
	}
	out, err := w.cli(ctx, args...)
	if err != nil {
		return "", w.opErr("create-window", err)
	}
	pane := strings.TrimSpace(out)
	if pane == "" {
		return "", w.opErr("create-window", fmt.Errorf("no pane id returned for window %q", req.FullName()))
	}
	if _, err := w.cli(ctx, "set-tab-title", "--pane-id", pane, req.FullName()); err != nil {
		return "", w.opErr("create-window", err)
	}
	return pane, nil
}

// SendKeys pastes text into the pane followed by a newline to submit it.
func (w *WezTerm) SendKeys(ctx context.Context, paneID, text string) error {
	if _, err := w.cli(ctx, "send-text", "--pane-id", paneID, "--no-paste", text+"\n"); err != nil {
		return w.opErr("send-keys", err)
	}
	return nil
}

// CapturePane returns up to maxLines trailing lines of the pane's screen
// and scrollback. Soft: false on any failure.
func (w *WezTerm) CapturePane(ctx context.Context, paneID string, maxLines int) (string, bool) {
	out, err := w.cli(ctx, "get-text", "--pane-id", paneID,
		"--start-line", "-"+strconv.Itoa(maxLines))
	if err != nil {
		return "", false
	}
	return lastLines(out, maxLines), true
}

// WindowExists reports whether a tab titled prefix+name exists. Defaults
// to false on any failure.
func (w *WezTerm) WindowExists(ctx context.Context, prefix, name string) bool {
	panes, err := w.list(ctx)
	if err != nil {
		return false
	}
	return len(findByTitle(panes, prefix+name)) > 0
}

// SelectWindow focuses the tab titled prefix+name.
func (w *WezTerm) SelectWindow(ctx context.Context, prefix, name string) error {
	panes, err := w.list(ctx)
	if err != nil {
		return w.opErr("select-window", err)
	}
	matched := findByTitle(panes, prefix+name)
	if len(matched) == 0 {
		return w.opErr("select-window", fmt.Errorf("window %q not found", prefix+name))
	}
	if _, err := w.cli(ctx, "activate-pane", "--pane-id", strconv.Itoa(matched[0].PaneID)); err != nil {
		return w.opErr("select-window", err)
	}
	return nil
}

// KillWindow terminates every pane of the tab carrying the full name.
func (w *WezTerm) KillWindow(ctx context.Context, fullName string) error {
	panes, err := w.list(ctx)
	if err != nil {
		return w.opErr("kill-window", err)
	}
	matched := findByTitle(panes, fullName)
	if len(matched) == 0 {
		return w.opErr("kill-window", fmt.Errorf("window %q not found", fullName))
	}
	for _, p := range matched {
		if _, err := w.cli(ctx, "kill-pane", "--pane-id", strconv.Itoa(p.PaneID)); err != nil {
			return w.opErr("kill-window", err)
		}
	}
	return nil
}

// SetStatus sets the tab title to text. With tab set, the OS window title
// is updated as well.
func (w *WezTerm) SetStatus(ctx context.Context, paneID, text string, tab bool) error {
	if _, err := w.cli(ctx, "set-tab-title", "--pane-id", paneID, text); err != nil {
		return w.opErr("set-status", err)
	}
	if tab {
		if _, err := w.cli(ctx, "set-window-title", "--pane-id", paneID, text); err != nil {
			return w.opErr("set-status", err)
		}
	}
	return nil
}

// ClearStatus resets the tab title. An absent pane is not an error.
func (w *WezTerm) ClearStatus(ctx context.Context, paneID string) error {
	_, _ = w.cli(ctx, "set-tab-title", "--pane-id", paneID, "")
	return nil
}
