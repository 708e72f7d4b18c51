// Package dashboard renders the shared agent dashboard: every agent pane
// tracked in the registry, its status icon, title, and the age of the last
// status change. The registry is re-read on an interval so updates from
// unrelated agent processes appear without any coordination.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/timvw/workmux/internal/config"
	"github.com/timvw/workmux/internal/mux"
	"github.com/timvw/workmux/internal/state"
)

const previewLines = 40

// Dashboard runs the interactive agent dashboard.
type Dashboard struct {
	Store   *state.Store
	Backend mux.Backend
	Refresh time.Duration // 0 disables auto-refresh
	Theme   Theme
}

// messages
type agentsMsg struct {
	agents []state.Agent
	err    error
}

type previewMsg struct {
	content string
	ok      bool
}

type tickMsg struct{}

// tuiModel implements tea.Model.
type tuiModel struct {
	store   *state.Store
	backend mux.Backend
	ctx     context.Context
	refresh time.Duration
	styles  styles

	agents []state.Agent
	cursor int

	showPreview bool
	preview     viewport.Model

	// resolveIcon is swappable in tests; defaults to the fresh-loading
	// config lookup.
	resolveIcon func(state.Status) (string, error)

	width   int
	height  int
	message string
}

// Run starts the dashboard and blocks until quit.
func (d *Dashboard) Run(ctx context.Context) error {
	m := &tuiModel{
		store:       d.Store,
		backend:     d.Backend,
		ctx:         ctx,
		refresh:     d.Refresh,
		styles:      newStyles(d.Theme),
		preview:     viewport.New(80, 20),
		resolveIcon: config.StatusIcon,
		width:       80,
		height:      24,
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadAgents()}
	if m.refresh > 0 {
		cmds = append(cmds, m.tick())
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) loadAgents() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		agents, err := store.ListAll()
		return agentsMsg{agents: agents, err: err}
	}
}

func (m *tuiModel) loadPreview() tea.Cmd {
	if m.cursor >= len(m.agents) {
		return nil
	}
	backend := m.backend
	paneID := m.agents[m.cursor].Key.PaneID
	ctx := m.ctx
	return func() tea.Msg {
		content, ok := backend.CapturePane(ctx, paneID, previewLines)
		return previewMsg{content: content, ok: ok}
	}
}

func (m *tuiModel) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = msg.Width
		m.preview.Height = maxInt(msg.Height/2-2, 3)
		return m, nil

	case agentsMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("load failed: %v", msg.err)
			return m, nil
		}
		m.agents = msg.agents
		m.message = ""
		if m.cursor >= len(m.agents) {
			m.cursor = maxInt(len(m.agents)-1, 0)
		}
		return m, nil

	case previewMsg:
		if !msg.ok {
			m.preview.SetContent("(pane content unavailable)")
			return m, nil
		}
		m.preview.SetContent(msg.content)
		m.preview.GotoBottom()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{m.loadAgents(), m.tick()}
		if m.showPreview {
			cmds = append(cmds, m.loadPreview())
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.showPreview {
				return m, m.loadPreview()
			}
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.agents)-1 {
			m.cursor++
			if m.showPreview {
				return m, m.loadPreview()
			}
		}
		return m, nil

	case "r":
		return m, m.loadAgents()

	case "p", "enter":
		m.showPreview = !m.showPreview
		if m.showPreview {
			return m, m.loadPreview()
		}
		return m, nil

	case "c":
		// Drop the indicator of the selected agent's pane; the record
		// itself stays for the dashboard.
		if m.cursor < len(m.agents) {
			paneID := m.agents[m.cursor].Key.PaneID
			_ = m.backend.ClearStatus(m.ctx, paneID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *tuiModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("workmux agents"))
	b.WriteString("\n")
	b.WriteString(m.styles.border.Render(strings.Repeat("─", minInt(m.width, 80))))
	b.WriteString("\n")

	if len(m.agents) == 0 {
		b.WriteString(m.styles.dim.Render("no agents registered"))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, a := range m.agents {
		b.WriteString(m.renderRow(i, a, now))
		b.WriteString("\n")
	}

	if m.showPreview {
		b.WriteString(m.styles.border.Render(strings.Repeat("─", minInt(m.width, 80))))
		b.WriteString("\n")
		b.WriteString(m.preview.View())
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString(m.styles.err.Render(m.message))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.dim.Render("↑/↓ navigate · p preview · r refresh · c clear icon · q quit"))
	return b.String()
}

func (m *tuiModel) renderRow(i int, a state.Agent, now time.Time) string {
	cursor := "  "
	if i == m.cursor {
		cursor = m.styles.selected.Render("> ")
	}

	icon := m.iconFor(a.Status)
	title := a.Title
	if title == "" {
		title = "(untitled)"
	}

	age := ""
	if a.StatusChangedAt != nil {
		age = formatAge(now.Sub(*a.StatusChangedAt))
	}

	line := fmt.Sprintf("%s%s %s",
		cursor,
		m.statusStyle(a.Status).Render(icon+" "+string(a.Status)),
		m.styles.text.Render(title),
	)
	meta := m.styles.dim.Render(fmt.Sprintf("  %s  %s  %s", a.Key.String(), a.Workdir, age))
	return lipgloss.JoinHorizontal(lipgloss.Top, line, meta)
}

// iconFor resolves the status glyph, falling back to the raw status name
// when the icon table is unavailable.
func (m *tuiModel) iconFor(st state.Status) string {
	if !st.Valid() {
		return "·"
	}
	glyph, err := m.resolveIcon(st)
	if err != nil || glyph == "" {
		return "·"
	}
	return glyph
}

func (m *tuiModel) statusStyle(st state.Status) lipgloss.Style {
	switch st {
	case state.StatusWorking:
		return m.styles.working
	case state.StatusWaiting:
		return m.styles.waiting
	case state.StatusDone:
		return m.styles.done
	default:
		return m.styles.dim
	}
}

// formatAge renders a duration as a compact age like "45s", "3m", "2h".
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
