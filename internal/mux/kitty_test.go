package mux

import (
	"context"
	"strings"
	"testing"
)

const kittyLsJSON = `[
  {
    "id": 1,
    "tabs": [
      {"id": 1, "title": "shell", "windows": [{"id": 1, "title": "zsh"}]},
      {"id": 4, "title": "swarm-agent1", "windows": [{"id": 6, "title": "agent"}]}
    ]
  }
]`

func newTestKitty(s *scriptedRunner) *Kitty {
	k := NewKitty()
	k.run = s.run
	return k
}

func TestKittyIsRunning(t *testing.T) {
	s := &scriptedRunner{outs: []string{kittyLsJSON}, errs: []error{nil}}
	if !newTestKitty(s).IsRunning(context.Background()) {
		t.Fatal("expected running")
	}

	k := NewKitty()
	k.run = failingRunner
	if k.IsRunning(context.Background()) {
		t.Fatal("expected not running when ls fails")
	}
}

func TestKittyCurrentPaneID(t *testing.T) {
	t.Setenv("KITTY_WINDOW_ID", "6")
	k := NewKitty()
	pane, ok := k.CurrentPaneID(context.Background())
	if !ok || pane != "6" {
		t.Fatalf("CurrentPaneID = %q, %v", pane, ok)
	}

	t.Setenv("KITTY_WINDOW_ID", "")
	if _, ok := k.CurrentPaneID(context.Background()); ok {
		t.Fatal("expected no pane outside kitty")
	}
}

func TestKittyCreateWindow(t *testing.T) {
	s := &scriptedRunner{outs: []string{"8\n"}, errs: []error{nil}}
	k := newTestKitty(s)

	pane, err := k.CreateWindow(context.Background(), WindowRequest{
		Prefix: "swarm-", Name: "agent3", Dir: "/tmp/repo",
	})
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if pane != "8" {
		t.Fatalf("pane id = %q, want 8", pane)
	}
	args := strings.Join(s.calls[0].args, " ")
	for _, want := range []string{"launch", "--type=tab", "--tab-title swarm-agent3", "--cwd /tmp/repo"} {
		if !strings.Contains(args, want) {
			t.Fatalf("args %q missing %q", args, want)
		}
	}
}

func TestKittySendKeysSubmits(t *testing.T) {
	s := &scriptedRunner{outs: []string{""}, errs: []error{nil}}
	k := newTestKitty(s)

	if err := k.SendKeys(context.Background(), "6", "npm test"); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	args := s.calls[0].args
	if args[len(args)-1] != "npm test\r" {
		t.Fatalf("text %q should carry a trailing carriage return", args[len(args)-1])
	}
}

func TestKittyCapturePaneSoft(t *testing.T) {
	s := &scriptedRunner{outs: []string{"x\ny\nz\n"}, errs: []error{nil}}
	k := newTestKitty(s)

	out, ok := k.CapturePane(context.Background(), "6", 2)
	if !ok || out != "y\nz" {
		t.Fatalf("capture = %q, %v", out, ok)
	}

	k.run = failingRunner
	if _, ok := k.CapturePane(context.Background(), "404", 10); ok {
		t.Fatal("capture of missing pane must return absence, not error")
	}
}

func TestKittyWindowExists(t *testing.T) {
	s := &scriptedRunner{outs: []string{kittyLsJSON, kittyLsJSON}, errs: []error{nil, nil}}
	k := newTestKitty(s)

	if !k.WindowExists(context.Background(), "swarm-", "agent1") {
		t.Fatal("expected window to exist")
	}
	if k.WindowExists(context.Background(), "swarm-", "agent9") {
		t.Fatal("expected window to be absent")
	}

	k.run = failingRunner
	if k.WindowExists(context.Background(), "swarm-", "agent1") {
		t.Fatal("existence check must default to false on failure")
	}
}

func TestKittySelectWindow(t *testing.T) {
	s := &scriptedRunner{outs: []string{kittyLsJSON, ""}, errs: []error{nil, nil}}
	k := newTestKitty(s)

	if err := k.SelectWindow(context.Background(), "swarm-", "agent1"); err != nil {
		t.Fatalf("SelectWindow: %v", err)
	}
	focus := strings.Join(s.calls[1].args, " ")
	if !strings.Contains(focus, "focus-tab") || !strings.Contains(focus, "title:^swarm-agent1$") {
		t.Fatalf("focus args = %q", focus)
	}

	s2 := &scriptedRunner{outs: []string{kittyLsJSON}, errs: []error{nil}}
	if err := newTestKitty(s2).SelectWindow(context.Background(), "swarm-", "missing"); err == nil {
		t.Fatal("expected error for missing window")
	}
}

func TestKittyKillWindow(t *testing.T) {
	s := &scriptedRunner{outs: []string{kittyLsJSON, ""}, errs: []error{nil, nil}}
	k := newTestKitty(s)

	if err := k.KillWindow(context.Background(), "swarm-agent1"); err != nil {
		t.Fatalf("KillWindow: %v", err)
	}
	if s.calls[1].args[0] != "@" || s.calls[1].args[1] != "close-tab" {
		t.Fatalf("unexpected close call: %v", s.calls[1].args)
	}

	s2 := &scriptedRunner{outs: []string{kittyLsJSON}, errs: []error{nil}}
	if err := newTestKitty(s2).KillWindow(context.Background(), "swarm-gone"); err == nil {
		t.Fatal("expected error for missing window")
	}
}

func TestKittySetStatusTabTitle(t *testing.T) {
	// set-window-title, then ls to resolve the tab, then set-tab-title.
	s := &scriptedRunner{outs: []string{"", kittyLsJSON, ""}, errs: []error{nil, nil, nil}}
	k := newTestKitty(s)

	if err := k.SetStatus(context.Background(), "6", "✓ done", true); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	tabCall := strings.Join(s.calls[2].args, " ")
	if !strings.Contains(tabCall, "set-tab-title") || !strings.Contains(tabCall, "id:4") {
		t.Fatalf("tab title args = %q", tabCall)
	}
}

func TestTitleMatchQuotesRegex(t *testing.T) {
	got := titleMatch("swarm-a.b+c")
	if !strings.Contains(got, `a\.b\+c`) {
		t.Fatalf("titleMatch = %q, regex metacharacters must be quoted", got)
	}
}
