package mission

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	missiondto "klangkiosk/internal/modules/mission/dto"
	"klangkiosk/internal/ui/theme"
)

const logLines = 6

// Model renders the Stimmspiel station. It holds no ports: the app model
// feeds it a fresh snapshot every frame and the transitions as they happen.
type Model struct {
	hold   progress.Model
	snap   missiondto.SnapshotOutput
	active bool
	log    []string
	width  int
	height int
}

func New() Model {
	bar := progress.New(progress.WithDefaultGradient())
	return Model{hold: bar}
}

// SetSnapshot replaces the rendered mission state. Called once per frame.
func (m *Model) SetSnapshot(snap missiondto.SnapshotOutput) {
	m.snap = snap
	m.active = true
}

// PushTransitions appends log lines for mission events.
func (m *Model) PushTransitions(transitions []missiondto.TransitionOutput) {
	for _, t := range transitions {
		line := ""
		switch t.Kind {
		case "hit_started":
			line = "Ton getroffen – halten!"
		case "hold_reset":
			line = "Zu früh losgelassen"
		case "target_completed":
			line = fmt.Sprintf("%s geschafft (%.1f s gehalten)", t.Target.Name, float64(t.HeldForMs)/1000)
		case "target_advanced":
			line = "Nächstes Ziel: " + t.Target.Name
		case "endless_entered":
			line = "Alle Ziele geschafft – freies Spiel!"
		default:
			continue
		}
		m.log = append(m.log, line)
	}
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.hold.Width = min(size.Width-8, 60)
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Stimmspiel") + "\n\n")

	if !m.active {
		sb.WriteString(theme.Muted.Render("Keine Mission aktiv. mission:start beginnt eine neue Runde.") + "\n")
		return m.frame(sb.String())
	}

	snap := m.snap
	switch {
	case snap.State == "endless":
		sb.WriteString(theme.Good.Render("Freies Spiel") + "\n\n")
		sb.WriteString(fmt.Sprintf("Alle %d Ziele geschafft!\n\n", snap.TotalTargets))
	case snap.HasTarget:
		accent := theme.Accent(snap.Target.Color)
		sb.WriteString("Ziel " + fmt.Sprintf("%d/%d: ", snap.TargetIndex+1, snap.TotalTargets))
		sb.WriteString(accent.Render(snap.Target.Name))
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("  (%.2f Hz)", snap.Target.FrequencyHz)))
		sb.WriteString("\n\n")
		sb.WriteString(m.hold.ViewAs(snap.HoldProgress) + "\n")
		if snap.AdvancePending {
			sb.WriteString(theme.Good.Render("Geschafft! Gleich geht es weiter …") + "\n")
		}
		sb.WriteString("\n")
	}

	if snap.Voiced {
		sb.WriteString(fmt.Sprintf("Gehört: %.1f Hz\n", snap.LastFrequencyHz))
	} else {
		sb.WriteString(theme.Muted.Render("Gehört: –") + "\n")
	}

	if len(m.log) > 0 {
		sb.WriteString("\n")
		for _, line := range m.log {
			sb.WriteString(theme.Muted.Render(line) + "\n")
		}
	}
	return m.frame(sb.String())
}

func (m Model) frame(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(1, 2).
		Render(content)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
