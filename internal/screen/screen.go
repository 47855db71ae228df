// Package screen is the interactive terminal converter: three inputs, a
// result box and an error line, driven by a session.
package screen

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amirasaad/fxconvert/pkg/session"
)

const (
	fieldAmount = iota
	fieldFrom
	fieldTo
	fieldCount
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	danger = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	muted  = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Width(8).Foreground(muted)
	errorStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(muted).Italic(true).MarginTop(1)
	amountStyle = lipgloss.NewStyle().Bold(true)
)

var resultStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(accent).
	Padding(0, 2).
	MarginTop(1)

var labels = [fieldCount]string{"Amount", "From", "To"}

// resultMsg carries the session state after a lookup finished.
type resultMsg session.Snapshot

// Model is the bubbletea model of the converter screen.
type Model struct {
	ctx     context.Context
	session *session.Session
	inputs  [fieldCount]textinput.Model
	focus   int
	spinner spinner.Model
	snap    session.Snapshot
}

// New creates the screen with the defaults 1 CAD -> USD.
func New(ctx context.Context, s *session.Session) Model {
	m := Model{ctx: ctx, session: s, snap: s.Snapshot()}
	defaults := [fieldCount]string{"1", "CAD", "USD"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.SetValue(defaults[i])
		ti.Prompt = "› "
		ti.PromptStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
		ti.Cursor.Style = lipgloss.NewStyle().Foreground(accent)
		if i == fieldAmount {
			ti.CharLimit = 32
			ti.Placeholder = "1"
		} else {
			ti.CharLimit = 3
			ti.Placeholder = "ISO code"
		}
		m.inputs[i] = ti
	}
	m.inputs[fieldAmount].Focus()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(accent)
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m.cycle(1), nil
		case "shift+tab", "up":
			return m.cycle(-1), nil
		case "enter":
			return m.submit()
		}

	case resultMsg:
		m.snap = session.Snapshot(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.snap.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) cycle(step int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + step + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

// submit ignores Enter while a lookup is in flight.
func (m Model) submit() (Model, tea.Cmd) {
	snap, run, err := m.session.Start(
		m.inputs[fieldFrom].Value(),
		m.inputs[fieldTo].Value(),
		m.inputs[fieldAmount].Value(),
	)
	if errors.Is(err, session.ErrBusy) {
		return m, nil
	}
	m.snap = snap
	if run == nil {
		return m, nil
	}
	ctx := m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return resultMsg(run(ctx))
	})
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Currency Converter"))
	b.WriteString("\n")
	for i := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	switch {
	case m.snap.Loading():
		b.WriteString("\n" + m.spinner.View() + " Fetching exchange rate...\n")
	case m.snap.Result != nil:
		b.WriteString(resultStyle.Render(ResultText(m.snap)))
		b.WriteString("\n")
	}
	if msg := m.snap.Message(); msg != "" {
		b.WriteString("\n" + errorStyle.Render(msg) + "\n")
	}

	b.WriteString(helpStyle.Render("enter convert • tab next field • esc quit"))
	b.WriteString("\n")
	return b.String()
}

// ResultText renders a finished conversion as two lines:
// "{amount} {base} = {converted} {dest}" and "Conversion Rate: {rate}".
func ResultText(snap session.Snapshot) string {
	r := snap.Result
	if r == nil {
		return ""
	}
	amount := strconv.FormatFloat(r.Amount, 'f', -1, 64)
	return amountStyle.Render(amount+" "+r.Base+" = "+r.Converted+" "+r.Dest) +
		"\nConversion Rate: " + r.Rate
}

// Run shows the screen until the user quits.
func Run(ctx context.Context, s *session.Session, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(ctx, s), opts...).Run()
	return err
}
