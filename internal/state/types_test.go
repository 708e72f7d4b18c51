package state

import (
	"strings"
	"testing"
)

func TestStatusRoundTrip(t *testing.T) {
	for _, st := range []Status{StatusWorking, StatusWaiting, StatusDone} {
		got, err := ParseStatus(st.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", st, err)
		}
		if got != st {
			t.Fatalf("round trip: got %q, want %q", got, st)
		}
	}
}

func TestParseStatusUnknown(t *testing.T) {
	if _, err := ParseStatus("idle"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if Status("idle").Valid() {
		t.Fatal("unknown status must not be valid")
	}
}

func TestKeyFilenameIsSafe(t *testing.T) {
	key := Key{Backend: "tmux/x", PaneID: "%5"}
	name := key.filename()
	if strings.Contains(name, "/") {
		t.Fatalf("filename %q contains a path separator", name)
	}
	if !strings.HasSuffix(name, ".json") {
		t.Fatalf("filename %q missing .json suffix", name)
	}

	// Distinct keys must map to distinct files.
	other := Key{Backend: "tmux", PaneID: "x__%5"}
	if other.filename() == name {
		t.Fatalf("keys %v and %v collide on %q", key, other, name)
	}
}
