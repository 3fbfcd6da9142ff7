package ui

import (
	"context"
	"dropletbot/internal/confirm"
	"dropletbot/internal/droplet"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tickMsg time.Time

type workflowDoneMsg struct{}

type resultMsg droplet.Result

// ConfirmModel is the terminal version of the Confirm/Cancel prompt. It drives the
// same workflow the Discord buttons do, so the timeout and single-fire rules apply.
type ConfirmModel struct {
	ctx       context.Context
	workflows *confirm.Manager
	workflow  *confirm.Workflow
	deadline  time.Time
	now       time.Time
	spinner   spinner.Model
	running   bool
	finished  bool
	ok        bool
	outcome   string
}

func NewConfirmModel(ctx context.Context, workflows *confirm.Manager, w *confirm.Workflow) ConfirmModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(keyStyle))
	return ConfirmModel{
		ctx:       ctx,
		workflows: workflows,
		workflow:  w,
		deadline:  w.CreatedAt.Add(workflows.Timeout()),
		now:       w.CreatedAt,
		spinner:   s,
	}
}

func (m ConfirmModel) Init() tea.Cmd {
	return tea.Batch(tick(), waitForWorkflow(m.workflow))
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForWorkflow(w *confirm.Workflow) tea.Cmd {
	return func() tea.Msg {
		<-w.Done()
		return workflowDoneMsg{}
	}
}

func runWorkflow(ctx context.Context, workflows *confirm.Manager, w *confirm.Workflow) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(workflows.Run(ctx, w))
	}
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.running || m.finished {
			return m, nil
		}
		switch msg.String() {
		case "y", "Y", "enter":
			w, err := m.workflows.Accept(m.workflow.ID, m.workflow.RequestedBy)
			if err != nil {
				return m.finish(false, "This confirmation has expired.")
			}
			m.running = true
			return m, tea.Batch(m.spinner.Tick, runWorkflow(m.ctx, m.workflows, w))
		case "n", "N", "esc", "q", "ctrl+c":
			text, err := m.workflows.Cancel(m.workflow.ID, m.workflow.RequestedBy)
			if err != nil {
				return m.finish(false, "This confirmation has expired.")
			}
			return m.finish(false, text)
		}

	case tickMsg:
		m.now = time.Time(msg)
		if m.finished {
			return m, nil
		}
		return m, tick()

	case workflowDoneMsg:
		if m.workflow.State() == confirm.Expired {
			return m.finish(false, "No answer within the time limit. Nothing was done.")
		}

	case resultMsg:
		return m.finish(msg.OK, msg.Message)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ConfirmModel) finish(ok bool, outcome string) (tea.Model, tea.Cmd) {
	m.running = false
	m.finished = true
	m.ok = ok
	m.outcome = outcome
	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	title := titleStyle.Render("DROPLET ACTION")

	if m.finished {
		style := errorStyle
		if m.ok {
			style = successStyle
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, baseStyle.Render(style.Render(m.outcome))) + "\n"
	}

	if m.running {
		body := fmt.Sprintf("%s Sending %s...", m.spinner.View(), m.workflow.Action)
		return lipgloss.JoinVertical(lipgloss.Left, title, baseStyle.Render(body)) + "\n"
	}

	remaining := m.deadline.Sub(m.now).Round(time.Second)
	if remaining < 0 {
		remaining = 0
	}
	help := fmt.Sprintf("%s confirm  %s cancel", keyStyle.Render("[y]"), keyStyle.Render("[n]"))
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.workflow.Prompt(),
		descStyle.Render(fmt.Sprintf("Expires in %s", remaining)),
		"",
		help,
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, baseStyle.Render(body)) + "\n"
}

// Outcome is the text shown when the prompt closed and whether the action succeeded.
func (m ConfirmModel) Outcome() (string, bool) {
	return m.outcome, m.ok
}

func RunConfirm(ctx context.Context, workflows *confirm.Manager, w *confirm.Workflow) (string, bool, error) {
	p := tea.NewProgram(NewConfirmModel(ctx, workflows, w))
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	outcome, ok := final.(ConfirmModel).Outcome()
	return outcome, ok, nil
}
