package screen

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infra_provider "github.com/amirasaad/fxconvert/infra/provider"
	"github.com/amirasaad/fxconvert/pkg/conversion"
	"github.com/amirasaad/fxconvert/pkg/session"
)

func newModel(t *testing.T) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := conversion.NewEngine(infra_provider.NewStatic(map[string]float64{
		"USD": 1,
		"CAD": 1.25,
		"INR": 83.2,
	}), logger)
	return New(context.Background(), session.New(engine, logger))
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// drain runs cmd and every command it batches, feeding their messages back
// into the model. Blink and spinner ticks are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case resultMsg:
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNew_Defaults(t *testing.T) {
	m := newModel(t)
	assert.Equal(t, "1", m.inputs[fieldAmount].Value())
	assert.Equal(t, "CAD", m.inputs[fieldFrom].Value())
	assert.Equal(t, "USD", m.inputs[fieldTo].Value())
	assert.True(t, m.inputs[fieldAmount].Focused())
	assert.NotNil(t, m.Init())
}

func TestEnter_ConvertsDefaults(t *testing.T) {
	m := newModel(t)

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.snap.Loading())
	assert.Contains(t, m.View(), "Fetching exchange rate")

	m = drain(t, m, cmd)
	require.NotNil(t, m.snap.Result)
	assert.Equal(t, "0.8000", m.snap.Result.Rate)
	assert.Equal(t, "0.80", m.snap.Result.Converted)

	view := m.View()
	assert.Contains(t, view, "1 CAD = 0.80 USD")
	assert.Contains(t, view, "Conversion Rate: 0.8000")
}

func TestEnter_IgnoredWhileLoading(t *testing.T) {
	m := newModel(t)

	next, first := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	id := m.snap.SubmissionID

	next, second := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	assert.Nil(t, second)
	assert.Equal(t, id, m.snap.SubmissionID)

	m = drain(t, m, first)
	assert.NotNil(t, m.snap.Result)
}

func TestEnter_InvalidInputShowsMessage(t *testing.T) {
	m := newModel(t)
	m.inputs[fieldFrom].SetValue("ca")

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Nil(t, m.snap.Result)
	assert.Contains(t, m.View(), conversion.MsgInvalidCurrencyCode)

	m.inputs[fieldFrom].SetValue("CAD")
	m.inputs[fieldAmount].SetValue("abc")
	next, _ = m.Update(key(tea.KeyEnter))
	m = next.(Model)
	assert.Contains(t, m.View(), conversion.MsgInvalidAmount)
}

func TestEnter_UnknownCurrencyClearsResult(t *testing.T) {
	m := newModel(t)
	next, cmd := m.Update(key(tea.KeyEnter))
	m = drain(t, next.(Model), cmd)
	require.NotNil(t, m.snap.Result)

	m.inputs[fieldTo].SetValue("XXX")
	next, cmd = m.Update(key(tea.KeyEnter))
	m = drain(t, next.(Model), cmd)

	assert.Nil(t, m.snap.Result)
	view := m.View()
	assert.Contains(t, view, conversion.MsgRequestFailed)
	assert.NotContains(t, view, "Conversion Rate")
}

func TestTab_CyclesFocus(t *testing.T) {
	m := newModel(t)
	for _, want := range []int{fieldFrom, fieldTo, fieldAmount} {
		next, _ := m.Update(key(tea.KeyTab))
		m = next.(Model)
		assert.Equal(t, want, m.focus)
		assert.True(t, m.inputs[want].Focused())
	}

	next, _ := m.Update(key(tea.KeyShiftTab))
	m = next.(Model)
	assert.Equal(t, fieldTo, m.focus)
}

func TestTyping_GoesToFocusedField(t *testing.T) {
	m := newModel(t)
	next, _ := m.Update(key(tea.KeyTab))
	m = next.(Model)
	m.inputs[fieldFrom].SetValue("")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("inr")})
	m = next.(Model)
	assert.Equal(t, "inr", m.inputs[fieldFrom].Value())
	assert.Equal(t, "1", m.inputs[fieldAmount].Value())
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newModel(t)
		_, cmd := m.Update(key(k))
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestResultText(t *testing.T) {
	assert.Empty(t, ResultText(session.Snapshot{}))
	text := ResultText(session.Snapshot{Result: &conversion.Result{
		Rate: "0.0120", Converted: "1.20", Base: "INR", Dest: "USD", Amount: 100,
	}})
	assert.Contains(t, text, "100 INR = 1.20 USD")
	assert.Contains(t, text, "Conversion Rate: 0.0120")
}
