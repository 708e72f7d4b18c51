// Package state is the durable, cross-process registry of agent panes.
//
// Each agent record lives in its own JSON file under the state directory
// and is replaced atomically on update, so independent agent processes can
// upsert concurrently without corrupting each other's records. Records are
// never deleted here; pruning stale entries is an external sweep.
package state

import (
	"fmt"
	"net/url"
	"time"
)

// Status is the tri-state agent status shown on the dashboard. Transitions
// are driven only by explicit calls, never inferred, and no status is
// terminal.
type Status string

const (
	StatusWorking Status = "working"
	StatusWaiting Status = "waiting"
	StatusDone    Status = "done"
)

// String returns the external representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWorking, StatusWaiting, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus decodes an external status representation.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown agent status %q (supported: working, waiting, done)", s)
	}
	return st, nil
}

// Key identifies an agent pane. Pane ids are unique within one multiplexer
// server, not globally, so the backend kind is part of the identity.
type Key struct {
	Backend string `json:"backend"`
	PaneID  string `json:"pane_id"`
}

func (k Key) String() string {
	return k.Backend + ":" + k.PaneID
}

// filename returns the record file name for the key. Both components are
// path-escaped so ids like tmux's "%5" stay filesystem-safe.
func (k Key) filename() string {
	return url.PathEscape(k.Backend) + "__" + url.PathEscape(k.PaneID) + ".json"
}

// Agent is one persisted registry record.
type Agent struct {
	Key             Key        `json:"key"`
	Workdir         string     `json:"workdir"`
	Status          Status     `json:"status,omitempty"`
	Title           string     `json:"title,omitempty"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
}

// Update describes a partial upsert. Nil fields are left untouched on the
// stored record.
type Update struct {
	Status *Status
	Title  *string
}
