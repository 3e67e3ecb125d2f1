package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyzerdto "klangkiosk/internal/modules/analyzer/dto"
	missiondto "klangkiosk/internal/modules/mission/dto"
	tonedto "klangkiosk/internal/modules/tonebank/dto"
	"klangkiosk/internal/ui/components"
	"klangkiosk/internal/ui/theme"
	missionview "klangkiosk/internal/ui/views/mission"
	pairsview "klangkiosk/internal/ui/views/pairs"
	statsview "klangkiosk/internal/ui/views/stats"
	tonebankview "klangkiosk/internal/ui/views/tonebank"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type missionPort interface {
	Start(ctx context.Context, input missiondto.StartInput) (missiondto.StartOutput, error)
	Ingest(ctx context.Context, input missiondto.IngestInput) ([]missiondto.TransitionOutput, error)
	Tick(ctx context.Context, at time.Time) ([]missiondto.TransitionOutput, error)
	Snapshot(ctx context.Context) (missiondto.SnapshotOutput, error)
	Reset(ctx context.Context) error
}

type analyzerPort interface {
	Sample(ctx context.Context) (analyzerdto.SampleOutput, error)
	Doctor(ctx context.Context) ([]analyzerdto.DoctorResult, error)
}

type tonebankPort interface {
	List(ctx context.Context) ([]tonedto.ProgramOutput, error)
	Scan(ctx context.Context, code string) (tonedto.ScanOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabMission tabID = iota
	tabTonebank
	tabPairs
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{
	"Stimmspiel", "Klangtafel", "Paare", "Statistik",
}

// ─── async messages ───────────────────────────────────────────────────────────

// frameMsg drives the kiosk loop: one audio sample, one mission step, one
// pairs tick per frame.
type frameMsg struct{ at time.Time }

type scanDoneMsg struct {
	scan tonedto.ScanOutput
	at   time.Time
	err  error
}

type doctorDoneMsg struct {
	results []analyzerdto.DoctorResult
	err     error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Flip    key.Binding
	Move    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Station wechseln")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Hilfe")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "Befehle")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "Beenden")),
		Flip:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Karte umdrehen")),
		Move:    key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←↑↓→", "Karte wählen")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Flip, k.Move},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the frame loop
// that feeds the mission from the analyzer, the global help overlay, and the
// command palette. All business logic is delegated to port interfaces; all
// rendering is delegated to sub-views.
type Model struct {
	mission  missionPort
	analyzer analyzerPort
	tonebank tonebankPort

	targets       []missiondto.TargetInput
	frameInterval time.Duration

	missionView missionview.Model
	toneView    tonebankview.Model
	pairsView   pairsview.Model
	statsView   statsview.Model

	activeTab  tabID
	keys       keyMap
	help       help.Model
	showHelp   bool
	palette    components.Palette
	hasMission bool
	status     string
	width      int
	height     int
}

func NewModel(
	mission missionPort,
	analyzer analyzerPort,
	tonebank tonebankPort,
	pairs pairsview.PairsPort,
	stats statsview.StatsPort,
	targets []missiondto.TargetInput,
	frameRate int,
) Model {
	if frameRate < 1 {
		frameRate = 20
	}
	return Model{
		mission:       mission,
		analyzer:      analyzer,
		tonebank:      tonebank,
		targets:       targets,
		frameInterval: time.Second / time.Duration(frameRate),
		missionView:   missionview.New(),
		toneView:      tonebankview.New(tonebank),
		pairsView:     pairsview.New(pairs),
		statsView:     statsview.New(stats),
		activeTab:     tabMission,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		status:        "bereit",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.toneView.Init(),
		m.statsView.Init(),
		m.nextFrame(),
	)
}

func (m Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{at: t}
	})
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The frame loop keeps running while the palette is open; only key input
	// is intercepted.
	if m.palette.Visible() {
		if frame, ok := msg.(frameMsg); ok {
			return m.stepFrame(frame)
		}
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case frameMsg:
		return m.stepFrame(msg)

	case scanDoneMsg:
		if msg.err != nil {
			m.status = "Scan fehlgeschlagen: " + msg.err.Error()
		} else {
			m.toneView.StartPlayback(msg.scan, msg.at)
			m.activeTab = tabTonebank
			m.status = "Spielt: " + msg.scan.Program.Title
		}

	case doctorDoneMsg:
		if msg.err != nil {
			m.status = "quelle:doctor: " + msg.err.Error()
		} else {
			m.status = doctorSummary(msg.results)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "bereit"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabMission:
		m.missionView, tabCmd = m.missionView.Update(msg)
	case tabTonebank:
		m.toneView, tabCmd = m.toneView.Update(msg)
	case tabPairs:
		m.pairsView, tabCmd = m.pairsView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// stepFrame runs one kiosk frame: sample the capture source, feed the
// mission, fire due deadlines, advance the playback cursor. Everything here
// is in-memory or a single local call, so it stays synchronous; splitting it
// into commands would let frames interleave.
func (m Model) stepFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	if m.hasMission {
		sample, err := m.analyzer.Sample(ctx)
		if err != nil {
			m.status = "Quelle: " + err.Error()
			sample = analyzerdto.SampleOutput{}
		}
		transitions, err := m.mission.Ingest(ctx, missiondto.IngestInput{
			FrequencyHz: sample.FrequencyHz,
			Voiced:      sample.Voiced,
			At:          msg.at,
		})
		if err != nil {
			m.status = "Stimmspiel: " + err.Error()
		}
		m.missionView.PushTransitions(transitions)

		due, err := m.mission.Tick(ctx, msg.at)
		if err == nil {
			m.missionView.PushTransitions(due)
		}

		if snap, err := m.mission.Snapshot(ctx); err == nil {
			m.missionView.SetSnapshot(snap)
		}
	}

	m.pairsView.Tick()
	m.toneView.Advance(msg.at)

	return m, m.nextFrame()
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabMission:
		return m.missionView.View()
	case tabTonebank:
		return m.toneView.View()
	case tabPairs:
		return m.pairsView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "klangkiosk  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasMission {
		left = theme.Hot.Render("● Stimmspiel läuft") + "  " + left
	}
	right := theme.Muted.Render("?:Hilfe  tab:Station  :::Befehle  q:Ende")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "mission:start":
		out, err := m.mission.Start(context.Background(), missiondto.StartInput{Targets: m.targets})
		if err != nil {
			m.status = "mission:start: " + err.Error()
			return m, nil
		}
		m.hasMission = true
		m.activeTab = tabMission
		m.status = fmt.Sprintf("Mission %s: erstes Ziel %s", out.MissionID, out.Target.Name)
		return m, nil

	case "mission:reset":
		// Reset restarts the round with the same targets; the frame loop
		// keeps feeding the fresh controller.
		if err := m.mission.Reset(context.Background()); err != nil {
			m.status = "mission:reset: " + err.Error()
			return m, nil
		}
		m.activeTab = tabMission
		m.status = "Mission neu gestartet"
		return m, nil

	case "ton:scan":
		if len(parts) < 2 {
			m.status = "Nutzung: ton:scan <code>"
			return m, nil
		}
		return m, m.scanCmd(strings.Join(parts[1:], " "))

	case "paare:neu":
		var seed int64
		if len(parts) >= 2 {
			parsed, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				m.status = "ungültiger Seed"
				return m, nil
			}
			seed = parsed
		}
		if err := m.pairsView.Redeal(seed); err != nil {
			m.status = "paare:neu: " + err.Error()
			return m, nil
		}
		m.activeTab = tabPairs
		m.status = "Neues Paare-Spiel"
		return m, nil

	case "stats:refresh":
		m.activeTab = tabStats
		return m, m.statsView.Refresh()

	case "quelle:doctor":
		m.status = "prüfe Quellen …"
		return m, m.doctorCmd()

	default:
		m.status = "unbekannter Befehl: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.missionView, _ = m.missionView.Update(sz)
	m.toneView, _ = m.toneView.Update(sz)
	m.pairsView, _ = m.pairsView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func doctorSummary(results []analyzerdto.DoctorResult) string {
	healthy := 0
	for _, r := range results {
		if r.BinaryReachable && r.ChecksumValid && r.LifecycleOK {
			healthy++
		}
	}
	return fmt.Sprintf("Quellen geprüft: %d/%d in Ordnung", healthy, len(results))
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) scanCmd(code string) tea.Cmd {
	return func() tea.Msg {
		scan, err := m.tonebank.Scan(context.Background(), code)
		return scanDoneMsg{scan: scan, at: time.Now(), err: err}
	}
}

func (m Model) doctorCmd() tea.Cmd {
	return func() tea.Msg {
		results, err := m.analyzer.Doctor(context.Background())
		return doctorDoneMsg{results: results, err: err}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
