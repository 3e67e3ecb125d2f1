package tonebank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tonedto "klangkiosk/internal/modules/tonebank/dto"
	"klangkiosk/internal/ui/theme"
)

// TonebankPort is the slice of the tonebank usecase this view needs.
type TonebankPort interface {
	List(ctx context.Context) ([]tonedto.ProgramOutput, error)
}

type ProgramsLoadedMsg struct {
	Programs []tonedto.ProgramOutput
	Err      error
}

type programItem struct {
	program tonedto.ProgramOutput
}

func (i programItem) Title() string { return i.program.Title }
func (i programItem) Description() string {
	return fmt.Sprintf("Code %s  %d Töne  %.1f s", i.program.Code, i.program.Steps, float64(i.program.DurationMs)/1000)
}
func (i programItem) FilterValue() string { return i.program.Title }

// playback walks an expanded pulse schedule against wall-clock deadlines.
type playback struct {
	title     string
	pulses    []tonedto.PulseOutput
	startedAt time.Time
	index     int
	done      bool
}

// Model renders the Klangtafel station: the configured programs on the left,
// the running playback on the right.
type Model struct {
	port    TonebankPort
	list    list.Model
	play    *playback
	loading bool
	width   int
	height  int
}

func New(port TonebankPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Klangtafel"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{port: port, list: l, loading: true}
}

func (m Model) Init() tea.Cmd {
	return m.loadProgramsCmd()
}

// StartPlayback begins rendering a resolved scan.
func (m *Model) StartPlayback(scan tonedto.ScanOutput, at time.Time) {
	m.play = &playback{title: scan.Program.Title, pulses: scan.Pulses, startedAt: at}
}

// Advance moves the playback cursor to the pulse covering now. Called once
// per frame by the app model.
func (m *Model) Advance(now time.Time) {
	if m.play == nil || m.play.done {
		return
	}
	elapsed := now.Sub(m.play.startedAt)
	offset := time.Duration(0)
	for i, pulse := range m.play.pulses {
		offset += time.Duration(pulse.DurationMs) * time.Millisecond
		if elapsed < offset {
			m.play.index = i
			return
		}
	}
	m.play.done = true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width*4/10, m.height)

	case ProgramsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Klangtafel — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Programs))
		for i, p := range msg.Programs {
			items[i] = programItem{program: p}
		}
		cmds = append(cmds, m.list.SetItems(items))
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	playW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	playPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(playW - 2).
		Height(m.height - 2).
		Padding(1).
		Render(m.renderPlayback())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, playPane)
}

func (m Model) renderPlayback() string {
	if m.play == nil {
		return theme.Muted.Render("Karte scannen oder ton:scan <code> eingeben")
	}
	var sb strings.Builder
	if m.play.done {
		sb.WriteString(theme.Good.Render(m.play.title+" – fertig!") + "\n\n")
	} else {
		sb.WriteString(theme.Hot.Render("♪ "+m.play.title) + "\n\n")
	}
	for i, pulse := range m.play.pulses {
		label := fmt.Sprintf("%6.1f Hz  %4d ms", pulse.FrequencyHz, pulse.DurationMs)
		if pulse.Rest {
			label = fmt.Sprintf("   Pause   %4d ms", pulse.DurationMs)
		}
		switch {
		case !m.play.done && i == m.play.index:
			sb.WriteString(theme.Hot.Render("▶ "+label) + "\n")
		case m.play.done || i < m.play.index:
			sb.WriteString(theme.Muted.Render("  "+label) + "\n")
		default:
			sb.WriteString("  " + label + "\n")
		}
	}
	return sb.String()
}

func (m Model) loadProgramsCmd() tea.Cmd {
	return func() tea.Msg {
		programs, err := m.port.List(context.Background())
		return ProgramsLoadedMsg{Programs: programs, Err: err}
	}
}
