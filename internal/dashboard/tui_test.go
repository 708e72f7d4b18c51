package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/timvw/workmux/internal/mux"
	"github.com/timvw/workmux/internal/state"
)

// newTestModel builds a tuiModel with the given agents and a fixed icon
// table, bypassing config lookup.
func newTestModel(agents []state.Agent) *tuiModel {
	return &tuiModel{
		ctx:     context.Background(),
		styles:  newStyles(DarkTheme()),
		agents:  agents,
		preview: viewport.New(80, 10),
		resolveIcon: func(st state.Status) (string, error) {
			switch st {
			case state.StatusWorking:
				return "W", nil
			case state.StatusWaiting:
				return "?", nil
			default:
				return "D", nil
			}
		},
		width:  120,
		height: 40,
	}
}

func testAgents() []state.Agent {
	changed := time.Now().Add(-3 * time.Minute)
	return []state.Agent{
		{
			Key:             state.Key{Backend: "tmux", PaneID: "%1"},
			Workdir:         "/home/dev/api",
			Status:          state.StatusWorking,
			Title:           "refactor handlers",
			StatusChangedAt: &changed,
		},
		{
			Key:     state.Key{Backend: "tmux", PaneID: "%4"},
			Workdir: "/home/dev/web",
			Status:  state.StatusWaiting,
			Title:   "awaiting review",
		},
	}
}

func TestView_ListsAgents(t *testing.T) {
	m := newTestModel(testAgents())
	out := m.View()

	for _, want := range []string{"refactor handlers", "awaiting review", "tmux:%1", "tmux:%4", "3m"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestView_EmptyRegistry(t *testing.T) {
	m := newTestModel(nil)
	out := m.View()
	if !strings.Contains(out, "no agents registered") {
		t.Errorf("expected empty-registry hint, got:\n%s", out)
	}
}

func TestView_UntitledAgent(t *testing.T) {
	agents := testAgents()
	agents[0].Title = ""
	m := newTestModel(agents)
	if out := m.View(); !strings.Contains(out, "(untitled)") {
		t.Errorf("expected untitled placeholder, got:\n%s", out)
	}
}

func TestUpdate_AgentsMsgClampsCursor(t *testing.T) {
	m := newTestModel(testAgents())
	m.cursor = 1

	_, _ = m.Update(agentsMsg{agents: testAgents()[:1]})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 after shrink", m.cursor)
	}
}

func TestUpdate_AgentsMsgError(t *testing.T) {
	m := newTestModel(nil)
	_, _ = m.Update(agentsMsg{err: context.DeadlineExceeded})
	if !strings.Contains(m.View(), "load failed") {
		t.Error("expected load error in view")
	}
}

func TestKey_Navigation(t *testing.T) {
	m := newTestModel(testAgents())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after j, want 1", m.cursor)
	}
	// j at the bottom stays put
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after j at bottom, want 1", m.cursor)
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if m.cursor != 0 {
		t.Fatalf("cursor = %d after k, want 0", m.cursor)
	}
}

func TestKey_QuitReturnsQuitCmd(t *testing.T) {
	m := newTestModel(testAgents())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected quit message")
	}
}

func TestKey_PreviewToggle(t *testing.T) {
	fake := &previewBackend{content: "pane output here"}
	m := newTestModel(testAgents())
	m.backend = fake

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if !m.showPreview {
		t.Fatal("expected preview enabled after p")
	}
	if cmd == nil {
		t.Fatal("expected a preview load command")
	}
	_, _ = m.Update(cmd())
	if !strings.Contains(m.View(), "pane output here") {
		t.Error("expected captured content in view")
	}
	if fake.captured != "%1" {
		t.Errorf("captured pane = %q, want %%1", fake.captured)
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.showPreview {
		t.Error("expected preview disabled after second p")
	}
}

func TestUpdate_PreviewUnavailable(t *testing.T) {
	m := newTestModel(testAgents())
	m.showPreview = true
	_, _ = m.Update(previewMsg{ok: false})
	if !strings.Contains(m.View(), "unavailable") {
		t.Error("expected unavailable placeholder in preview")
	}
}

func TestIconFor_FallsBackOnError(t *testing.T) {
	m := newTestModel(nil)
	m.resolveIcon = func(state.Status) (string, error) {
		return "", context.Canceled
	}
	if got := m.iconFor(state.StatusWorking); got != "·" {
		t.Errorf("iconFor = %q, want fallback dot", got)
	}
	if got := m.iconFor(state.Status("bogus")); got != "·" {
		t.Errorf("iconFor(bogus) = %q, want fallback dot", got)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{45 * time.Second, "45s"},
		{3 * time.Minute, "3m"},
		{2 * time.Hour, "2h"},
		{50 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// previewBackend is a minimal mux.Backend that serves pane captures.
type previewBackend struct {
	content  string
	captured string
}

func (b *previewBackend) Kind() mux.Kind                                { return mux.KindTmux }
func (b *previewBackend) IsRunning(context.Context) bool                { return true }
func (b *previewBackend) CurrentPaneID(context.Context) (string, bool)  { return "", false }
func (b *previewBackend) CreateWindow(context.Context, mux.WindowRequest) (string, error) {
	return "", nil
}
func (b *previewBackend) SendKeys(context.Context, string, string) error { return nil }
func (b *previewBackend) CapturePane(_ context.Context, paneID string, _ int) (string, bool) {
	b.captured = paneID
	return b.content, true
}
func (b *previewBackend) WindowExists(context.Context, string, string) bool   { return false }
func (b *previewBackend) SelectWindow(context.Context, string, string) error  { return nil }
func (b *previewBackend) KillWindow(context.Context, string) error            { return nil }
func (b *previewBackend) SetStatus(context.Context, string, string, bool) error {
	return nil
}
func (b *previewBackend) ClearStatus(context.Context, string) error { return nil }
