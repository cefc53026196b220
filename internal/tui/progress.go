package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/fragdyn/internal/dynamo"
)

const barWidth = 30

// WorkFunc is a cancellable computation that reports its progress.
type WorkFunc func(ctx context.Context, progress dynamo.ProgressFunc) error

type progressMsg dynamo.Progress

type doneMsg struct{ err error }

type tickMsg time.Time

type model struct {
	title  string
	cancel context.CancelFunc
	stages []dynamo.Progress
	frame  int
	start  time.Time
	done   bool
	err    error
}

func newModel(title string, cancel context.CancelFunc) model {
	return model{title: title, cancel: cancel, start: time.Now()}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			m.done = true
			m.err = dynamo.Canceled(context.Canceled)
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case progressMsg:
		m.record(dynamo.Progress(msg))
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

// record keeps the latest report of each stage in first-seen order.
func (m *model) record(p dynamo.Progress) {
	for i := range m.stages {
		if m.stages[i].Stage == p.Stage {
			m.stages[i] = p
			return
		}
	}
	m.stages = append(m.stages, p)
}

func (m model) View() string {
	var b strings.Builder

	status := spinner(m.frame)
	if m.done {
		status = "✓"
		if m.err != nil {
			status = Failure.Render("✗")
		}
	}
	b.WriteString(fmt.Sprintf("%s %s  %s\n", status, Title.Render(m.title),
		Subtle.Render(time.Since(m.start).Round(100*time.Millisecond).String())))

	for _, p := range m.stages {
		frac := 0.0
		if p.Total > 0 {
			frac = float64(p.Step) / float64(p.Total)
		}
		b.WriteString(fmt.Sprintf("  %-10s %s %s %s\n",
			Label.Render(p.Stage),
			Bar(frac, barWidth),
			Subtle.Render(fmt.Sprintf("%d/%d", p.Step, p.Total)),
			Value.Render(fmt.Sprintf("%.4g", p.Value))))
	}

	if !m.done {
		b.WriteString(Subtle.Render("  ctrl+c to cancel") + "\n")
	}
	return b.String()
}

// Run executes work while drawing its progress on stderr. Quitting the view
// cancels the work; Run returns once work has returned.
func Run(ctx context.Context, title string, work WorkFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(title, cancel), tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	errc := make(chan error, 1)
	go func() {
		err := work(ctx, func(pr dynamo.Progress) { p.Send(progressMsg(pr)) })
		errc <- err
		p.Send(doneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		if werr := <-errc; werr != nil {
			return werr
		}
		return err
	}
	return <-errc
}
