package mux

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Kitty implements the Backend interface over the kitty remote control
// protocol (`kitten @`).
//
// Naming differs from the shared contract: a kitty "tab" is the contract's
// window and a kitty "window" is the contract's pane. The tab title carries
// the effective window name.
type Kitty struct {
	run runner
}

// NewKitty creates a new kitty backend.
func NewKitty() *Kitty {
	return &Kitty{run: runCommand}
}

// Kind returns KindKitty.
func (k *Kitty) Kind() Kind {
	return KindKitty
}

func (k *Kitty) kitten(ctx context.Context, args ...string) (string, error) {
	return k.run(ctx, "kitten", append([]string{"@"}, args...)...)
}

func (k *Kitty) opErr(op string, err error) error {
	return &OpError{Op: op, Kind: KindKitty, Err: err}
}

// kittyOSWindow mirrors the `kitten @ ls` JSON layout.
type kittyOSWindow struct {
	ID   int        `json:"id"`
	Tabs []kittyTab `json:"tabs"`
}

type kittyTab struct {
	ID      int          `json:"id"`
	Title   string       `json:"title"`
	Windows []kittyWindow `json:"windows"`
}

type kittyWindow struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func (k *Kitty) ls(ctx context.Context) ([]kittyOSWindow, error) {
	out, err := k.kitten(ctx, "ls")
	if err != nil {
		return nil, err
	}
	var wins []kittyOSWindow
	if err := json.Unmarshal([]byte(out), &wins); err != nil {
		return nil, fmt.Errorf("parse kitty ls output: %w", err)
	}
	return wins, nil
}

// findTab returns the first tab titled exactly title.
func findTab(wins []kittyOSWindow, title string) (kittyTab, bool) {
	for _, w := range wins {
		for _, tab := range w.Tabs {
			if tab.Title == title {
				return tab, true
			}
		}
	}
	return kittyTab{}, false
}

// titleMatch builds an exact-title kitty match expression. Kitty match
// queries are regular expressions, so the title is quoted and anchored.
func titleMatch(title string) string {
	return "title:^" + regexp.QuoteMeta(title) + "$"
}

// IsRunning reports whether the kitty remote control socket answers. Any
// failure collapses to false.
func (k *Kitty) IsRunning(ctx context.Context) bool {
	_, err := k.ls(ctx)
	return err == nil
}

// CurrentPaneID returns the caller's kitty window id from $KITTY_WINDOW_ID.
func (k *Kitty) CurrentPaneID(ctx context.Context) (string, bool) {
	pane := os.Getenv("KITTY_WINDOW_ID")
	if pane == "" {
		return "", false
	}
	return pane, true
}

// CreateWindow launches a new tab in req.Dir titled with the effective
// window name and returns the new pane id. The AfterWindow ordering hint
// is ignored: the launch command offers no tab position control.
func (k *Kitty) CreateWindow(ctx context.Context, req WindowRequest) (string, error) {
	full := req.FullName()
	args := []string{"launch", "--type=tab", "--tab-title", full, "--title", full}
	if req.Dir != "" {
		args = append(args, "--cwd", req.Dir)
	}
	out, err := k.kitten(ctx, args...)
	if err != nil {
		return "", k.opErr("create-window", err)
	}
	pane := strings.TrimSpace(out)
	if pane == "" {
		return "", k.opErr("create-window", fmt.Errorf("no pane id returned for window %q", full))
	}
	return pane, nil
}

// SendKeys injects text into the pane followed by a carriage return to
// submit it.
func (k *Kitty) SendKeys(ctx context.Context, paneID, text string) error {
	if _, err := k.kitten(ctx, "send-text", "--match", "id:"+paneID, "--", text+"\r"); err != nil {
		return k.opErr("send-keys", err)
	}
	return nil
}

// CapturePane returns up to maxLines trailing lines of the pane's screen
// and scrollback. Soft: false on any failure.
func (k *Kitty) CapturePane(ctx context.Context, paneID string, maxLines int) (string, bool) {
	out, err := k.kitten(ctx, "get-text", "--match", "id:"+paneID, "--extent", "all")
	if err != nil {
		return "", false
	}
	return lastLines(out, maxLines), true
}

// WindowExists reports whether a tab titled prefix+name exists. Defaults
// to false on any failure.
func (k *Kitty) WindowExists(ctx context.Context, prefix, name string) bool {
	wins, err := k.ls(ctx)
	if err != nil {
		return false
	}
	_, ok := findTab(wins, prefix+name)
	return ok
}

// SelectWindow focuses the tab titled prefix+name.
func (k *Kitty) SelectWindow(ctx context.Context, prefix, name string) error {
	full := prefix + name
	if !k.WindowExists(ctx, prefix, name) {
		return k.opErr("select-window", fmt.Errorf("window %q not found", full))
	}
	if _, err := k.kitten(ctx, "focus-tab", "--match", titleMatch(full)); err != nil {
		return k.opErr("select-window", err)
	}
	return nil
}

// KillWindow terminates the tab carrying the full name.
func (k *Kitty) KillWindow(ctx context.Context, fullName string) error {
	wins, err := k.ls(ctx)
	if err != nil {
		return k.opErr("kill-window", err)
	}
	if _, ok := findTab(wins, fullName); !ok {
		return k.opErr("kill-window", fmt.Errorf("window %q not found", fullName))
	}
	if _, err := k.kitten(ctx, "close-tab", "--match", titleMatch(fullName)); err != nil {
		return k.opErr("kill-window", err)
	}
	return nil
}

// SetStatus sets the pane title to text. With tab set, the containing tab
// title is updated as well.
func (k *Kitty) SetStatus(ctx context.Context, paneID, text string, tab bool) error {
	if _, err := k.kitten(ctx, "set-window-title", "--match", "id:"+paneID, "--", text); err != nil {
		return k.opErr("set-status", err)
	}
	if tab {
		tabID, ok := k.tabOfPane(ctx, paneID)
		if !ok {
			return k.opErr("set-status", fmt.Errorf("no tab found for pane %q", paneID))
		}
		if _, err := k.kitten(ctx, "set-tab-title", "--match", "id:"+strconv.Itoa(tabID), "--", text); err != nil {
			return k.opErr("set-status", err)
		}
	}
	return nil
}

// tabOfPane resolves the tab containing the given pane.
func (k *Kitty) tabOfPane(ctx context.Context, paneID string) (int, bool) {
	id, err := strconv.Atoi(paneID)
	if err != nil {
		return 0, false
	}
	wins, lsErr := k.ls(ctx)
	if lsErr != nil {
		return 0, false
	}
	for _, w := range wins {
		for _, tab := range w.Tabs {
			for _, p := range tab.Windows {
				if p.ID == id {
					return tab.ID, true
				}
			}
		}
	}
	return 0, false
}

// ClearStatus resets the pane title to kitty's automatic title. An absent
// pane is not an error.
func (k *Kitty) ClearStatus(ctx context.Context, paneID string) error {
	_, _ = k.kitten(ctx, "set-window-title", "--match", "id:"+paneID)
	return nil
}
