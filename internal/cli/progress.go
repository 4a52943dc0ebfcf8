package cli

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"styleforge/internal/models"
	"styleforge/internal/service"
)

const (
	pollInterval = 250 * time.Millisecond
	sweepCycle   = 3 * time.Second
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status     lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Hint       lipgloss.Color
	ProgressBg lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:     lipgloss.Color("#5FAFD7"), // light blue
	Success:    lipgloss.Color("#00D787"), // green
	Error:      lipgloss.Color("#FF005F"), // red
	Hint:       lipgloss.Color("#6C6C6C"), // dim gray
	ProgressBg: lipgloss.Color("#3A3A3A"), // dark gray
}

// Style functions for dynamic theming
func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// tickMsg triggers polling the task status
type tickMsg time.Time

// taskUpdateMsg carries the updated task record
type taskUpdateMsg struct {
	rec models.TaskRecord
	err error
}

// progressModel is the bubbletea model for task progress. Tasks have no
// progress counts, so the bar sweeps as an activity indicator.
type progressModel struct {
	registry *service.Registry
	taskID   string
	rec      models.TaskRecord
	progress progress.Model
	theme    Theme
	started  time.Time
	done     bool
	quitting bool
	err      error
}

// newProgressModel creates a new progress model.
func newProgressModel(reg *service.Registry, taskID string) progressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return progressModel{
		registry: reg,
		taskID:   taskID,
		progress: prog,
		theme:    defaultTheme,
		started:  time.Now(),
	}
}

// Init returns the initial command (start polling).
func (m progressModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		// Fetch task status
		return m, m.fetchTask()

	case taskUpdateMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("failed to fetch task status: %w", msg.err)
			m.done = true
			return m, tea.Quit
		}

		m.rec = msg.rec

		switch m.rec.State {
		case models.TaskStateCompleted:
			m.done = true
			return m, tea.Quit
		case models.TaskStateFailed:
			m.done = true
			if m.rec.Error != nil {
				m.err = fmt.Errorf("%s: %s", m.rec.Error.Kind, m.rec.Error.Message)
			} else {
				m.err = fmt.Errorf("task failed with unknown error")
			}
			return m, tea.Quit
		}

		// Continue polling for pending and running tasks
		return m, tickCmd()

	case progress.FrameMsg:
		// Update progress bar animation
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m progressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m progressModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	if m.rec.ID == "" {
		return "Loading task status...\n"
	}

	// No determinate progress to show, so sweep the bar over a fixed cycle
	elapsed := time.Since(m.started)
	pct := float64(elapsed%sweepCycle) / float64(sweepCycle)

	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", m.rec.State))
	bar := m.progress.ViewAs(pct)
	timer := fmt.Sprintf("%s %s", m.rec.Kind, elapsed.Round(time.Second))

	hint := m.theme.hintStyle().Render("Press Ctrl+C to stop waiting")

	return fmt.Sprintf("%s %s %s\n%s\n", status, bar, timer, hint)
}

// finalView renders the completion message.
func (m progressModel) finalView() string {
	if m.quitting {
		msg := fmt.Sprintf("\nStopped waiting on task %s.\nUse 'styleforge tasks %s' to check its last recorded state.\n",
			m.taskID, m.taskID)
		return m.theme.hintStyle().Render(msg)
	}

	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Task failed: %s\n", m.err))
	}

	output := m.theme.completedStyle().Render("✓ Completed") + "\n"
	if m.rec.ResultRef != nil {
		output += fmt.Sprintf("  Result: %s\n", *m.rec.ResultRef)
	}
	output += fmt.Sprintf("  Duration: %s\n", m.rec.UpdatedAt.Sub(m.rec.CreatedAt).Round(time.Second))
	return output
}

// fetchTask reads the current task state from the in-process registry.
// Runs as a command to keep Update() non-blocking.
func (m progressModel) fetchTask() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.registry.Get(m.taskID)
		return taskUpdateMsg{rec: rec, err: err}
	}
}

// tickCmd returns a command that sends a tick after the poll interval.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// awaitTask blocks until the task reaches a terminal state, rendering the
// interactive progress view unless --wait=false. Returns the final task
// record; a failed task comes back as an error. When the user stops waiting
// the returned record is non-terminal and the caller should print nothing
// further.
func awaitTask(task *service.Task) (models.TaskRecord, error) {
	if waitFlag {
		return runTaskProgress(registry, task.ID)
	}
	return pollTask(registry, task.ID)
}

// runTaskProgress runs the interactive progress UI for a task.
func runTaskProgress(reg *service.Registry, taskID string) (models.TaskRecord, error) {
	p := tea.NewProgram(newProgressModel(reg, taskID))

	finalModel, err := p.Run()
	if err != nil {
		return models.TaskRecord{}, fmt.Errorf("progress UI error: %w", err)
	}

	m, ok := finalModel.(progressModel)
	if !ok {
		return models.TaskRecord{}, fmt.Errorf("unexpected progress model type")
	}
	if m.quitting {
		return m.rec, nil
	}
	if m.err != nil {
		return m.rec, m.err
	}
	return m.rec, nil
}

// pollTask waits for a terminal state without any UI.
func pollTask(reg *service.Registry, taskID string) (models.TaskRecord, error) {
	for {
		rec, err := reg.Get(taskID)
		if err != nil {
			return models.TaskRecord{}, err
		}
		if rec.State.Terminal() {
			if rec.State == models.TaskStateFailed {
				if rec.Error != nil {
					return rec, fmt.Errorf("task %s failed: %s: %s", taskID, rec.Error.Kind, rec.Error.Message)
				}
				return rec, fmt.Errorf("task %s failed", taskID)
			}
			return rec, nil
		}
		time.Sleep(pollInterval)
	}
}
