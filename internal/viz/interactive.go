package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/wavesim/internal/config"
)

var presetInfo = map[string]string{
	"demo":     "160x160 pond, steady rain",
	"pond":     "one splash, no rain",
	"storm":    "clustered heavy drops",
	"calm":     "slow, heavily damped",
	"undamped": "one splash, rings forever",
}

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// menu picks a preset, then hands over to the live Model.
type menu struct {
	presets []string
	cursor  int
	started bool
	live    Model
	err     error
}

func NewPresetMenu() *menu {
	return &menu{presets: config.ListPresets()}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.started {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.presets)) % len(m.presets)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(m.presets)
	case "enter":
		name := m.presets[m.cursor]
		live, err := NewModel(config.GetPreset(name), name)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.started = live, true
		return m, live.Init()
	}
	return m, nil
}

func (m menu) View() string {
	if m.started {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("WAVESIM") + "\n    " + menuSub.Render("damped wave pond") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuSub.Render(presetInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-10s", name)), menuIdle.Render(presetInfo[name])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + warningStyle().Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" start  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewPresetMenu(), tea.WithAltScreen()).Run()
	return err
}

// RunLive opens the live view directly on cfg.
func RunLive(cfg *config.Config, name string) error {
	m, err := NewModel(cfg, name)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
