package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/beatcut/pkg/beats"
)

// Tap styles
var (
	tapCountStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tapClockStyle = lipgloss.NewStyle().Foreground(colorWhite)
	tapDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// tapRefresh is how often the elapsed clock is redrawn.
const tapRefresh = 100 * time.Millisecond

// tickMsg redraws the elapsed clock.
type tickMsg time.Time

// =============================================================================
// TapModel - Interactive beat capture
// =============================================================================

// TapModel is the bubbletea model for recording beats by key presses.
//
// The clock starts when the model is created; the user starts the music at
// the same moment. Every key press records the elapsed time plus Offset.
// Pressing q records a last beat and finishes, esc or ctrl+c aborts, and
// backspace removes the latest beat.
type TapModel struct {
	Offset  float64
	Beats   beats.Sequence
	Done    bool
	Aborted bool

	start time.Time
	now   func() time.Time
}

// NewTapModel creates a tap model whose clock starts now.
func NewTapModel(offset float64) TapModel {
	return newTapModel(offset, time.Now)
}

func newTapModel(offset float64, now func() time.Time) TapModel {
	return TapModel{Offset: offset, start: now(), now: now}
}

func (m TapModel) elapsed() float64 {
	return m.now().Sub(m.start).Seconds()
}

func (m TapModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tapRefresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m TapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.Aborted = true
			return m, tea.Quit
		case "backspace":
			if len(m.Beats) > 0 {
				m.Beats = m.Beats[:len(m.Beats)-1]
			}
			return m, nil
		case "q":
			m.Beats = append(m.Beats, m.Offset+m.elapsed())
			m.Done = true
			return m, tea.Quit
		default:
			m.Beats = append(m.Beats, m.Offset+m.elapsed())
			return m, nil
		}
	case tickMsg:
		if m.Done || m.Aborted {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m TapModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tap the beat"))
	b.WriteString("\n")
	b.WriteString(tapDimStyle.Render("any key: beat  backspace: undo  q: last beat and save  esc: abort"))
	b.WriteString("\n\n")

	b.WriteString(tapClockStyle.Render(fmt.Sprintf("%8.2fs", m.Offset+m.elapsed())))
	b.WriteString("  ")
	b.WriteString(tapCountStyle.Render(fmt.Sprintf("%d beats", len(m.Beats))))

	if len(m.Beats) > 0 {
		b.WriteString(tapDimStyle.Render(fmt.Sprintf("  last %.2fs", m.Beats.End())))
	}
	if len(m.Beats) > 1 {
		st := beats.Summarize(m.Beats)
		b.WriteString(tapDimStyle.Render(fmt.Sprintf("  ~%.0f bpm", st.BPM)))
	}
	b.WriteString("\n")
	return b.String()
}
