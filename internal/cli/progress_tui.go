package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/resub/resub/internal/pipeline"
	"github.com/resub/resub/internal/scheduler"
)

var (
	tuiPathStyle  = lipgloss.NewStyle().Faint(true)
	tuiStatStyle  = lipgloss.NewStyle().Bold(true)
	tuiErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// eventMsg wraps a pipeline.Event for delivery into the Bubble Tea update loop.
type eventMsg pipeline.Event

// jobDoneMsg carries the Scheduler's final result.
type jobDoneMsg struct {
	stats pipeline.JobStats
	err   error
}

// progressModel is the Bubble Tea model driving the interactive run view.
type progressModel struct {
	bar progress.Model

	phase             pipeline.Phase
	processedFiles    int
	totalFiles        int
	modifiedFiles     int
	totalReplacements int
	currentPath       string
	errors            int

	done  bool
	stats pipeline.JobStats
	err   error
}

func newProgressModel() progressModel {
	return progressModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		phase: pipeline.PhaseDiscovering,
	}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case eventMsg:
		switch msg.Kind {
		case pipeline.EventPhaseChange:
			m.phase = msg.PhaseChange
		case pipeline.EventProgress:
			p := msg.Progress
			m.processedFiles = p.ProcessedFiles
			m.totalFiles = p.TotalFiles
			m.modifiedFiles = p.ModifiedFiles
			m.totalReplacements = p.TotalReplacements
			m.currentPath = p.CurrentPath
		case pipeline.EventFileResult:
			if msg.FileResult.Status == pipeline.StatusError {
				m.errors++
			}
		}
		return m, nil
	case jobDoneMsg:
		m.done = true
		m.stats = msg.stats
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}

	ratio := 0.0
	if m.totalFiles > 0 {
		ratio = float64(m.processedFiles) / float64(m.totalFiles)
	}

	var b []byte
	b = append(b, fmt.Sprintf("%s\n", tuiStatStyle.Render(string(m.phase)))...)
	b = append(b, m.bar.ViewAs(ratio)...)
	b = append(b, '\n')
	b = append(b, fmt.Sprintf("%d/%d files  %d modified  %d replacements",
		m.processedFiles, m.totalFiles, m.modifiedFiles, m.totalReplacements)...)
	if m.errors > 0 {
		b = append(b, tuiErrorStyle.Render(fmt.Sprintf("  %d errors", m.errors))...)
	}
	b = append(b, '\n')
	b = append(b, tuiPathStyle.Render(m.currentPath)...)
	b = append(b, '\n')
	return string(b)
}

// runWithProgressTUI runs the Job through an interactive Bubble Tea progress
// view, feeding every Scheduler event into the model as it arrives.
func runWithProgressTUI(ctx context.Context, sched *scheduler.Scheduler, job pipeline.JobConfig) (pipeline.JobStats, error) {
	p := tea.NewProgram(newProgressModel())

	go func() {
		stats, err := sched.Run(ctx, job, func(ev pipeline.Event) {
			p.Send(eventMsg(ev))
		})
		p.Send(jobDoneMsg{stats: stats, err: err})
	}()

	finalModel, runErr := p.Run()
	if runErr != nil {
		return pipeline.JobStats{}, runErr
	}

	m, _ := finalModel.(progressModel)
	return m.stats, m.err
}
