package mux

import "os"

// Detect returns the backend kind for the calling process's environment.
// It checks multiplexer-specific environment markers in a fixed order:
// tmux first (a tmux session running inside WezTerm or kitty still sets
// the outer terminal's markers, and the innermost multiplexer owns the
// panes the caller can address), then WezTerm, then kitty.
//
// Detection never fails: when no marker is present it falls back to tmux,
// whose adapter degrades safely (IsRunning reports false).
func Detect() Kind {
	if os.Getenv("TMUX") != "" {
		return KindTmux
	}
	if os.Getenv("WEZTERM_PANE") != "" || os.Getenv("WEZTERM_UNIX_SOCKET") != "" {
		return KindWezTerm
	}
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("KITTY_LISTEN_ON") != "" {
		return KindKitty
	}
	return KindTmux
}
