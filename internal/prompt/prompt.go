// Package prompt asks for the season number when it was not given as a flag.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user leaves the prompt without an answer.
var ErrCancelled = errors.New("season prompt cancelled")

const label = "Enter ESEA season number: "

type seasonModel struct {
	input     textinput.Model
	season    int
	problem   string
	done      bool
	cancelled bool
}

func newSeasonModel() seasonModel {
	ti := textinput.New()
	ti.Prompt = label
	ti.Placeholder = "48"
	ti.CharLimit = 6
	ti.Width = 8
	ti.Focus()
	return seasonModel{input: ti}
}

func (m seasonModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m seasonModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			n, err := parseSeason(m.input.Value())
			if err != nil {
				m.problem = err.Error()
				return m, nil
			}
			m.season = n
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m seasonModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.problem != "" {
		b.WriteString(m.problem)
		b.WriteString("\n")
	}
	return b.String()
}

func parseSeason(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a season number", s)
	}
	return n, nil
}

// Season runs the prompt on in/out until a positive whole number is entered.
func Season(ctx context.Context, in io.Reader, out io.Writer) (int, error) {
	p := tea.NewProgram(newSeasonModel(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("season prompt: %w", err)
	}
	m, ok := final.(seasonModel)
	if !ok || !m.done {
		return 0, ErrCancelled
	}
	return m.season, nil
}
