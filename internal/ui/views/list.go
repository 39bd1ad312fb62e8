package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/zenith/internal/model"
	"github.com/dori/zenith/internal/store"
	"github.com/dori/zenith/internal/ui/theme"
)

// ListView shows all tasks split into pending and completed sections, with
// an incremental search box over title and description.
type ListView struct {
	store  *store.Store
	width  int
	height int

	search    textinput.Model
	searching bool

	visible    []model.Task // filtered snapshot, pending first
	pending    int          // count of pending tasks at the head of visible
	cursor     int
	stepCursor int
	expanded   map[string]bool // task id -> steps unfolded

	statusMsg string
}

// NewListView creates a new list view
func NewListView(st *store.Store) ListView {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 120

	return ListView{
		store:    st,
		search:   search,
		expanded: make(map[string]bool),
	}
}

// tasksReloadedMsg asks the view to re-derive rows from the store.
type tasksReloadedMsg struct{}

// Init initializes the list view
func (v ListView) Init() tea.Cmd {
	return func() tea.Msg { return tasksReloadedMsg{} }
}

// SetSize sets the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	return v
}

// reload re-derives the visible rows from the store snapshot.
func (v *ListView) reload() {
	tasks := model.Filter(v.store.Tasks(), v.search.Value())
	pending, completed := model.Partition(tasks)
	v.visible = append(append([]model.Task{}, pending...), completed...)
	v.pending = len(pending)
	if v.cursor >= len(v.visible) {
		v.cursor = len(v.visible) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Update handles messages
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksReloadedMsg:
		v.reload()
		return v, nil

	case tea.KeyMsg:
		if v.searching {
			switch msg.String() {
			case "enter":
				v.searching = false
				v.search.Blur()
				return v, nil
			case "esc":
				v.searching = false
				v.search.Blur()
				v.search.SetValue("")
				v.reload()
				return v, nil
			}
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			v.reload()
			return v, cmd
		}

		switch msg.String() {
		case "j", "down":
			if v.cursor < len(v.visible)-1 {
				v.cursor++
			}
			return v, nil

		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil

		case "g":
			v.cursor = 0
			return v, nil

		case "G":
			v.cursor = len(v.visible) - 1
			if v.cursor < 0 {
				v.cursor = 0
			}
			return v, nil

		case "/":
			v.searching = true
			v.search.Focus()
			return v, textinput.Blink

		case "a":
			return v, openForm(nil, time.Now())

		case "enter":
			if t := v.current(); t != nil {
				return v, openForm(t, t.DueDate)
			}
			return v, nil

		case "tab":
			if t := v.current(); t != nil {
				v.store.ToggleComplete(t.ID)
				v.reload()
			}
			return v, nil

		case "d":
			if t := v.current(); t != nil {
				v.store.Delete(t.ID)
				v.statusMsg = fmt.Sprintf("Deleted %q", t.Title)
				v.reload()
			}
			return v, nil

		case " ":
			if t := v.current(); t != nil && len(t.Steps) > 0 {
				v.expanded[t.ID] = !v.expanded[t.ID]
				v.stepCursor = 0
			}
			return v, nil

		case "J":
			if t := v.current(); t != nil && v.expanded[t.ID] && v.stepCursor < len(t.Steps)-1 {
				v.stepCursor++
			}
			return v, nil

		case "K":
			if v.stepCursor > 0 {
				v.stepCursor--
			}
			return v, nil

		case "x":
			// Toggle the step under the step cursor; completed tasks keep
			// their steps frozen
			if t := v.current(); t != nil && v.expanded[t.ID] && !t.IsCompleted {
				if v.stepCursor < len(t.Steps) {
					v.store.ToggleStep(t.ID, t.Steps[v.stepCursor].ID)
					v.reload()
				}
			}
			return v, nil
		}
	}

	return v, nil
}

func (v ListView) current() *model.Task {
	if v.cursor < 0 || v.cursor >= len(v.visible) {
		return nil
	}
	t := v.visible[v.cursor]
	return &t
}

func openForm(task *model.Task, date time.Time) tea.Cmd {
	return func() tea.Msg { return OpenFormRequest{Task: task, Date: date} }
}

// View renders the task list
func (v ListView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	now := time.Now()

	var lines []string

	searchBox := styles.Input
	if v.searching {
		searchBox = styles.InputFocused
	}
	lines = append(lines, searchBox.Width(min(v.width-4, 50)).Render(v.search.View()))

	lines = append(lines, styles.PanelTitle.Render("Pending Tasks"))
	if v.pending == 0 {
		empty := "You have no pending tasks. Great job!"
		if v.search.Value() != "" {
			empty = "No pending tasks match your search."
		}
		lines = append(lines, styles.Label.Render("  "+empty))
	}
	for i := 0; i < v.pending; i++ {
		lines = append(lines, v.renderTask(v.visible[i], i == v.cursor, now)...)
	}

	lines = append(lines, "")
	lines = append(lines, styles.PanelTitle.Render("Completed Tasks"))
	if v.pending == len(v.visible) {
		empty := "No tasks completed yet."
		if v.search.Value() != "" {
			empty = "No completed tasks match your search."
		}
		lines = append(lines, styles.Label.Render("  "+empty))
	}
	for i := v.pending; i < len(v.visible); i++ {
		lines = append(lines, v.renderTask(v.visible[i], i == v.cursor, now)...)
	}

	if v.statusMsg != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}

	return v.viewport(lines)
}

// viewport trims the rendered lines to the view height, keeping the
// cursor's task on screen.
func (v ListView) viewport(lines []string) string {
	if len(lines) <= v.height {
		return strings.Join(lines, "\n")
	}
	// Rough scroll: keep a window that starts near the cursor's row.
	start := 0
	if v.cursor > v.height/2 {
		start = v.cursor - v.height/2
	}
	if start+v.height > len(lines) {
		start = len(lines) - v.height
	}
	return strings.Join(lines[start:start+v.height], "\n")
}

func (v ListView) renderTask(task model.Task, selected bool, now time.Time) []string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	checkbox := "☐"
	if task.IsCompleted {
		checkbox = "☑"
	}

	titleStyle := styles.TaskNormal
	if task.IsCompleted {
		titleStyle = styles.TaskDone
	}
	if selected {
		titleStyle = titleStyle.Background(t.Highlight)
	}

	priority := lipgloss.NewStyle().
		Foreground(priorityColor(task.Priority)).
		Bold(true).
		Render(fmt.Sprintf("[%s]", task.Priority))

	due := styles.DueDate.Render(task.DueDate.Format("Jan 2, 2006"))
	overdue := ""
	if task.IsOverdue(now) {
		overdue = " " + lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("Missed")
	}

	line := fmt.Sprintf("%s %s %s  %s%s", checkbox, priority, titleStyle.Render(task.Title), due, overdue)
	lines := []string{line}

	if task.Description != "" {
		lines = append(lines, "    "+styles.Label.Render(task.Description))
	}

	if task.Progress > 0 || len(task.Steps) > 0 {
		bar := renderProgressBar(task.Progress, 16)
		lines = append(lines, fmt.Sprintf("    %s %s",
			bar, styles.Label.Render(fmt.Sprintf("%d%%", task.Progress))))
	}

	if v.expanded[task.ID] {
		for i, step := range task.Steps {
			mark := "☐"
			stepStyle := lipgloss.NewStyle().Foreground(t.Foreground)
			if step.IsCompleted {
				mark = "☑"
				stepStyle = stepStyle.Strikethrough(true).Foreground(t.Subtle)
			}
			cursor := "  "
			if selected && i == v.stepCursor {
				cursor = "> "
			}
			lines = append(lines, fmt.Sprintf("    %s%s %s", cursor, mark, stepStyle.Render(step.Text)))
		}
	}

	return lines
}

func priorityColor(p model.Priority) lipgloss.Color {
	t := theme.Current.Theme
	switch p {
	case model.PriorityHigh:
		return t.PriorityHigh
	case model.PriorityLow:
		return t.PriorityLow
	default:
		return t.PriorityMedium
	}
}

func renderProgressBar(progress, width int) string {
	t := theme.Current.Theme
	filled := progress * width / 100
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(t.Progress).Render(bar)
}

// IsInputMode returns whether the view is in input mode
func (v ListView) IsInputMode() bool {
	return v.searching
}
