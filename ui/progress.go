// Package ui renders an optional live progress display for long runs, fed by
// pipeline completion events.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"dicomsar/pipeline"
)

type finishedMsg struct{}

type progressModel struct {
	done       int64
	discovered int64
	modified   int64
	errored    int64
	lastPath   string
	lastStatus pipeline.Status

	// cancel stops the pipeline; the display itself stays up until every
	// in-flight job has reported.
	cancel func()
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pipeline.Event:
		m.done = msg.Done
		m.discovered = msg.Discovered
		m.lastPath = msg.Path
		m.lastStatus = msg.Status
		switch msg.Status {
		case pipeline.Modified:
			m.modified++
		case pipeline.Failed:
			m.errored++
		}
		return m, nil

	case finishedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && m.cancel != nil {
			m.cancel()
		}
		return m, nil
	}
	return m, nil
}

func (m progressModel) View() string {
	output := fmt.Sprintf(
		"processing %d/%d files (modified %d, errors %d)\n",
		m.done, m.discovered, m.modified, m.errored,
	)
	if m.lastPath != "" {
		output += fmt.Sprintf("last: %s [%s]\n", m.lastPath, m.lastStatus)
	}
	return output
}

// Progress owns the running display. Send feeds it events from the pipeline
// collector; Stop quits the display and waits for the terminal to be
// restored.
type Progress struct {
	program  *tea.Program
	finished chan struct{}
}

// NewProgress builds the display. cancel is invoked when the user presses
// ctrl+c while the display owns the terminal.
func NewProgress(cancel func()) *Progress {
	return &Progress{
		program:  tea.NewProgram(progressModel{cancel: cancel}),
		finished: make(chan struct{}),
	}
}

// Start runs the display in the background.
func (p *Progress) Start() {
	go func() {
		defer close(p.finished)
		_ = p.program.Start()
	}()
}

// Send delivers one pipeline event to the display.
func (p *Progress) Send(ev pipeline.Event) {
	p.program.Send(ev)
}

// Stop quits the display and blocks until it has shut down.
func (p *Progress) Stop() {
	p.program.Send(finishedMsg{})
	<-p.finished
}
