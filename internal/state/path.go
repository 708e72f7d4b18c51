package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir returns the well-known state directory. The registry must
// survive process exit and be readable by unrelated processes (the
// dashboard), so it lives under the user's state home rather than a
// runtime dir.
func DefaultDir() string {
	if dir := os.Getenv("WORKMUX_STATE_DIR"); dir != "" {
		return dir
	}
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "workmux", "agents")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "workmux", "agents")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("workmux-%d", os.Getuid()), "agents")
}
