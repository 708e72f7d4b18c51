package mux

import "testing"

// clearMarkers blanks every multiplexer env marker for the test.
func clearMarkers(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TMUX", "TMUX_PANE",
		"WEZTERM_PANE", "WEZTERM_UNIX_SOCKET",
		"KITTY_WINDOW_ID", "KITTY_LISTEN_ON",
	} {
		t.Setenv(key, "")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Kind
	}{
		{
			name: "tmux marker",
			env:  map[string]string{"TMUX": "/tmp/tmux-1000/default,123,0"},
			want: KindTmux,
		},
		{
			name: "wezterm pane marker",
			env:  map[string]string{"WEZTERM_PANE": "4"},
			want: KindWezTerm,
		},
		{
			name: "wezterm socket marker",
			env:  map[string]string{"WEZTERM_UNIX_SOCKET": "/run/wezterm/gui-sock"},
			want: KindWezTerm,
		},
		{
			name: "kitty window marker",
			env:  map[string]string{"KITTY_WINDOW_ID": "2"},
			want: KindKitty,
		},
		{
			name: "kitty socket marker",
			env:  map[string]string{"KITTY_LISTEN_ON": "unix:/tmp/kitty-1"},
			want: KindKitty,
		},
		{
			// tmux running inside a WezTerm terminal: the innermost
			// multiplexer owns the caller's panes.
			name: "tmux wins over wezterm",
			env: map[string]string{
				"TMUX":         "/tmp/tmux-1000/default,123,0",
				"WEZTERM_PANE": "4",
			},
			want: KindTmux,
		},
		{
			name: "no marker falls back to tmux",
			env:  nil,
			want: KindTmux,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearMarkers(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := Detect(); got != tt.want {
				t.Fatalf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}
