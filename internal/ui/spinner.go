package ui

// spinner.go provides a blocking spinner for the one-shot commands
// (list, export, delete) that run outside the gallery screen.

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user presses ctrl+c while a spinner runs
var ErrInterrupted = errors.New("interrupted")

// actionDoneMsg signals the action completed
type actionDoneMsg struct {
	err error
}

// blockingSpinnerModel runs a spinner while an action executes
type blockingSpinnerModel struct {
	spinner spinner.Model
	title   string
	action  func(context.Context) error
	ctx     context.Context
	cancel  context.CancelFunc
	done    bool
	err     error
}

// RunWithSpinner executes action while displaying a spinner and returns the
// action's error. ctrl+c cancels the context handed to the action.
//
// Example:
//
//	var records []models.ImageRecord
//	err := RunWithSpinner(ctx, "Fetching images...", func(ctx context.Context) error {
//	    var err error
//	    records, err = client.FetchAll(ctx)
//	    return err
//	})
func RunWithSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	return runWithSpinner(ctx, title, action)
}

func runWithSpinner(ctx context.Context, title string, action func(context.Context) error, opts ...tea.ProgramOption) error {
	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := blockingSpinnerModel{
		spinner: NewAppSpinner(),
		title:   title,
		action:  action,
		ctx:     actx,
		cancel:  cancel,
	}

	p := tea.NewProgram(m, opts...)
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("spinner program error: %w", err)
	}

	final := finalModel.(blockingSpinnerModel)
	return final.err
}

func (m blockingSpinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runAction(),
	)
}

func (m blockingSpinnerModel) runAction() tea.Cmd {
	ctx, action := m.ctx, m.action
	return func() tea.Msg {
		return actionDoneMsg{err: action(ctx)}
	}
}

func (m blockingSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrInterrupted
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m blockingSpinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), RenderNormal(m.title))
}

