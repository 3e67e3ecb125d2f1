package pairs

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pairsdto "klangkiosk/internal/modules/pairs/dto"
	"klangkiosk/internal/ui/theme"
)

const columns = 4

// PairsPort is the slice of the pairs usecase this view needs. All calls are
// in-memory, so the view invokes them synchronously instead of via commands.
type PairsPort interface {
	Deal(ctx context.Context, seed int64) (pairsdto.BoardOutput, error)
	Flip(ctx context.Context, index int) ([]pairsdto.TransitionOutput, error)
	Tick(ctx context.Context) ([]pairsdto.TransitionOutput, error)
	Snapshot(ctx context.Context) (pairsdto.BoardOutput, error)
}

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Surface1).
			Width(10).
			Align(lipgloss.Center)

	cardCursor  = cardStyle.BorderForeground(theme.Lavender)
	cardMatched = cardStyle.BorderForeground(theme.Green)
)

// Model renders the Paare station and drives the board through its port.
type Model struct {
	port   PairsPort
	board  pairsdto.BoardOutput
	dealt  bool
	cursor int
	status string
	width  int
	height int
}

func New(port PairsPort) Model {
	return Model{port: port, status: "paare:neu beginnt ein neues Spiel"}
}

// Redeal shuffles a fresh board. Seed 0 draws a random layout.
func (m *Model) Redeal(seed int64) error {
	board, err := m.port.Deal(context.Background(), seed)
	if err != nil {
		return err
	}
	m.board = board
	m.dealt = true
	m.cursor = 0
	m.status = fmt.Sprintf("Neues Spiel mit %d Paaren", board.TotalPairs)
	return nil
}

// Tick fires the pending flip-back, if due. Called once per frame.
func (m *Model) Tick() {
	if !m.dealt {
		return
	}
	if _, err := m.port.Tick(context.Background()); err != nil {
		return
	}
	// Snapshot every frame keeps the elapsed readout moving.
	m.refresh()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if !m.dealt {
			return m, nil
		}
		total := len(m.board.Cards)
		switch msg.String() {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < total-1 {
				m.cursor++
			}
		case "up", "k":
			if m.cursor-columns >= 0 {
				m.cursor -= columns
			}
		case "down", "j":
			if m.cursor+columns < total {
				m.cursor += columns
			}
		case "enter", " ":
			m.flip()
		}
	}
	return m, nil
}

func (m *Model) flip() {
	events, err := m.port.Flip(context.Background(), m.cursor)
	if err != nil {
		m.status = "Fehler: " + err.Error()
		return
	}
	for _, event := range events {
		switch event.Kind {
		case "pair_matched":
			m.status = "Paar gefunden: " + event.Motif
		case "board_solved":
			m.status = "Alle Paare gefunden!"
		}
	}
	m.refresh()
}

func (m *Model) refresh() {
	board, err := m.port.Snapshot(context.Background())
	if err != nil {
		return
	}
	m.board = board
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Paare") + "\n\n")

	if !m.dealt {
		sb.WriteString(theme.Muted.Render(m.status) + "\n")
		return m.frame(sb.String())
	}

	var rows []string
	var row []string
	for i, card := range m.board.Cards {
		face := "▒▒▒▒"
		style := cardStyle
		switch {
		case card.Matched:
			face = card.Motif
			style = cardMatched
		case card.FaceUp:
			face = card.Motif
		}
		if i == m.cursor && !m.board.Solved {
			style = cardCursor
		}
		row = append(row, style.Render(face))
		if len(row) == columns {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n\n")

	sb.WriteString(fmt.Sprintf("Züge: %d   Paare: %d/%d   Zeit: %.0f s\n",
		m.board.Moves, m.board.MatchedPairs, m.board.TotalPairs,
		float64(m.board.ElapsedMs)/1000))
	if m.board.Solved {
		sb.WriteString(theme.Good.Render("Geschafft! paare:neu mischt neu.") + "\n")
	} else if m.status != "" {
		sb.WriteString(theme.Muted.Render(m.status) + "\n")
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
