package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "klangkiosk/internal/modules/stats/dto"
	"klangkiosk/internal/ui/theme"
)

// StatsPort is the slice of the stats usecase this view needs.
type StatsPort interface {
	Overview(ctx context.Context) (statsdto.OverviewOutput, error)
}

type OverviewLoadedMsg struct {
	Overview statsdto.OverviewOutput
	Err      error
}

// Model renders the Statistik station from the play log.
type Model struct {
	port     StatsPort
	view     viewport.Model
	overview statsdto.OverviewOutput
	loaded   bool
	errText  string
	width    int
	height   int
}

func New(port StatsPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	return Model{port: port, view: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh reloads the overview from the store.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		overview, err := m.port.Overview(context.Background())
		return OverviewLoadedMsg{Overview: overview, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = m.width - 4
		m.view.Height = m.height - 2

	case OverviewLoadedMsg:
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		} else {
			m.errText = ""
			m.overview = msg.Overview
			m.loaded = true
		}
		m.view.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Padding(0, 1).
		Render(m.view.View())
}

func (m Model) render() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Statistik") + "\n\n")

	if m.errText != "" {
		sb.WriteString(theme.Bad.Render("Fehler: "+m.errText) + "\n")
		return sb.String()
	}
	if !m.loaded {
		sb.WriteString(theme.Muted.Render("Lade …") + "\n")
		return sb.String()
	}

	sb.WriteString(theme.Hot.Render("Stationen") + "\n")
	if len(m.overview.Totals) == 0 {
		sb.WriteString(theme.Muted.Render("  noch keine Besuche") + "\n")
	}
	for _, total := range m.overview.Totals {
		sb.WriteString(fmt.Sprintf("  %-12s %4d Spiele\n", total.Station, total.Plays))
	}

	sb.WriteString("\n" + theme.Hot.Render("Letzte Stimmspiel-Treffer") + "\n")
	if len(m.overview.RecentRuns) == 0 {
		sb.WriteString(theme.Muted.Render("  noch keine") + "\n")
	}
	for _, run := range m.overview.RecentRuns {
		sb.WriteString(fmt.Sprintf("  %s  %-12s %7.2f Hz  %.1f s gehalten\n",
			run.CompletedAt.Format("15:04"), run.TargetName,
			run.FrequencyHz, float64(run.HeldForMs)/1000))
	}

	sb.WriteString("\n" + theme.Hot.Render("Letzte Spiele") + "\n")
	if len(m.overview.RecentPlays) == 0 {
		sb.WriteString(theme.Muted.Render("  noch keine") + "\n")
	}
	for _, play := range m.overview.RecentPlays {
		sb.WriteString(fmt.Sprintf("  %s  %-12s %s\n",
			play.PlayedAt.Format("15:04"), play.Station, play.Detail))
	}
	return sb.String()
}
