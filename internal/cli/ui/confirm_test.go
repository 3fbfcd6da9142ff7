package ui

import (
	"context"
	"dropletbot/internal/clock"
	"dropletbot/internal/confirm"
	"dropletbot/internal/domain"
	"dropletbot/internal/droplet"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExecutor struct{ calls int }

func (s *stubExecutor) Execute(context.Context, domain.Action) droplet.Result {
	s.calls++
	return droplet.Result{OK: true, Message: "Action initiated successfully."}
}

func newModel(t *testing.T) (ConfirmModel, *confirm.Manager, *clock.Fake, *stubExecutor) {
	t.Helper()
	exec := &stubExecutor{}
	clk := clock.NewFake(time.Unix(1000, 0))
	workflows := confirm.NewManager(exec, clk, confirm.DefaultTimeout)
	w := workflows.Request(domain.Reboot(), "operator")
	return NewConfirmModel(context.Background(), workflows, w), workflows, clk, exec
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModelShowsPromptAndCountdown(t *testing.T) {
	m, _, _, _ := newModel(t)

	view := m.View()
	assert.Contains(t, view, "Are you sure you want to reboot the droplet?")
	assert.Contains(t, view, "Expires in 30s")

	next, _ := m.Update(tickMsg(time.Unix(1010, 0)))
	assert.Contains(t, next.View(), "Expires in 20s")
}

func TestConfirmModelConfirm(t *testing.T) {
	m, workflows, _, exec := newModel(t)

	next, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	model := next.(ConfirmModel)
	assert.True(t, model.running)
	assert.Equal(t, confirm.Confirmed, model.workflow.State())
	assert.Equal(t, 0, workflows.Pending())

	result := runWorkflow(context.Background(), workflows, model.workflow)()
	final, _ := model.Update(result)
	outcome, ok := final.(ConfirmModel).Outcome()
	assert.True(t, ok)
	assert.Equal(t, "Action initiated successfully.", outcome)
	assert.Equal(t, 1, exec.calls)
}

func TestConfirmModelCancel(t *testing.T) {
	m, _, _, exec := newModel(t)

	next, _ := m.Update(key("n"))
	outcome, ok := next.(ConfirmModel).Outcome()

	assert.False(t, ok)
	assert.Equal(t, "Action canceled.", outcome)
	assert.Equal(t, 0, exec.calls)
}

func TestConfirmModelExpiry(t *testing.T) {
	m, _, clk, exec := newModel(t)

	clk.Advance(confirm.DefaultTimeout)
	next, _ := m.Update(waitForWorkflow(m.workflow)())
	model := next.(ConfirmModel)
	outcome, _ := model.Outcome()
	assert.Contains(t, outcome, "Nothing was done")

	after, cmd := model.Update(key("y"))
	assert.Nil(t, cmd)
	afterOutcome, _ := after.(ConfirmModel).Outcome()
	assert.Equal(t, outcome, afterOutcome)
	assert.Equal(t, 0, exec.calls)
}
