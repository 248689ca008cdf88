package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kincut/kincut/pkg/kinship"
	"github.com/kincut/kincut/pkg/pipeline"
)

// defaultWatchEvery throttles progress updates when the user did not
// choose a reporting period.
const defaultWatchEvery = 25

// watchProgressMsg carries one engine progress update into the TUI.
type watchProgressMsg struct {
	processed, total, cut, queued int
}

// watchDoneMsg ends the TUI with the pipeline outcome.
type watchDoneMsg struct {
	result *pipeline.Result
	err    error
}

// watchModel renders live traversal progress: processed fraction, current
// cut size, and scheduler queue length.
type watchModel struct {
	msgs   chan tea.Msg
	last   watchProgressMsg
	frame  int
	frames []string

	result *pipeline.Result
	err    error
}

func newWatchModel(msgs chan tea.Msg) watchModel {
	return watchModel{
		msgs:   msgs,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

func (m watchModel) Init() tea.Cmd { return m.wait() }

// wait blocks on the next message from the pipeline goroutine.
func (m watchModel) wait() tea.Cmd {
	return func() tea.Msg { return <-m.msgs }
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchProgressMsg:
		m.last = msg
		m.frame++
		return m, m.wait()
	case watchDoneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.result != nil || m.err != nil {
		return ""
	}
	if m.last.total == 0 {
		return styleIconSpinner.Render(m.frames[0]) + StyleDim.Render(" parsing pedigree...") + "\n"
	}
	pct := 100 * float64(m.last.processed) / float64(m.last.total)
	return fmt.Sprintf("%s %s %s\n",
		styleIconSpinner.Render(m.frames[m.frame%len(m.frames)]),
		StyleValue.Render(fmt.Sprintf("%d/%d processed (%.1f%%)", m.last.processed, m.last.total, pct)),
		StyleDim.Render(fmt.Sprintf("· cut %d · queue %d", m.last.cut, m.last.queued)))
}

// runWatched executes the pipeline while displaying live progress. The
// reporter drops updates rather than stalling the engine when the UI lags.
func runWatched(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	msgs := make(chan tea.Msg, 64)

	if opts.ReportEvery == 0 {
		opts.ReportEvery = defaultWatchEvery
	}
	opts.Reporter = kinship.ReporterFunc(func(processed, total, cut, queued int) {
		select {
		case msgs <- watchProgressMsg{processed, total, cut, queued}:
		default:
		}
	})

	go func() {
		result, err := runner.Execute(ctx, opts)
		msgs <- watchDoneMsg{result: result, err: err}
	}()

	p := tea.NewProgram(newWatchModel(msgs), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m := final.(watchModel)
	return m.result, m.err
}
