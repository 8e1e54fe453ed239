package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/filippoints/filippoints-cli/internal/screen"
	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
)

// programDispatcher forwards completions to a running program. Post never
// blocks; sends to a program that has exited are discarded by bubbletea.
type programDispatcher struct {
	mu      sync.Mutex
	program *tea.Program
}

func (d *programDispatcher) bind(p *tea.Program) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.program = p
}

// Post implements screen.Dispatcher
func (d *programDispatcher) Post(fn func()) {
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p == nil {
		return
	}
	go p.Send(completionMsg{fn: fn})
}

// Run shows the screen until the user quits or picks a person. The screen is
// closed before Run returns, so no completion outlives it.
func Run(
	ctx context.Context,
	mode screen.Mode,
	manager pkgsync.Manager,
	opts ...screen.Option,
) (*Model, error) {
	dispatcher := &programDispatcher{}
	m, err := New(ctx, mode, manager, dispatcher, opts...)
	if err != nil {
		return nil, err
	}
	defer m.screen.Close()

	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	dispatcher.bind(program)

	if _, err := program.Run(); err != nil {
		return m, fmt.Errorf("running screen: %w", err)
	}
	return m, nil
}
