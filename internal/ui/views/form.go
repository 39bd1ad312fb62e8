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

// OpenFormRequest asks the root model to show the task form. Task is nil
// when adding; Date seeds the due date for new tasks.
type OpenFormRequest struct {
	Task *model.Task
	Date time.Time
}

// FormClosed is emitted when the form is dismissed.
type FormClosed struct {
	Saved bool
}

const dueDateLayout = "2006-01-02"

// Form fields, in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldProgress
	fieldStepInput
	fieldSteps
	fieldCount
)

// FormView is the add/edit form for a single task.
type FormView struct {
	store  *store.Store
	width  int
	height int

	editing *model.Task // nil when adding

	title       textinput.Model
	description textinput.Model
	dueDate     textinput.Model
	stepInput   textinput.Model
	priority    model.Priority
	steps       []model.Step
	progress    int

	focus      int
	stepCursor int
	errMsg     string
}

// NewFormView creates a form, empty for adding (due date seeded from date)
// or pre-filled from the task being edited.
func NewFormView(st *store.Store, task *model.Task, date time.Time) FormView {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 120
	title.Focus()

	description := textinput.New()
	description.Placeholder = "Description"
	description.CharLimit = 500

	dueDate := textinput.New()
	dueDate.Placeholder = dueDateLayout
	dueDate.CharLimit = len(dueDateLayout)

	stepInput := textinput.New()
	stepInput.Placeholder = "Add a new step"
	stepInput.CharLimit = 120

	v := FormView{
		store:       st,
		editing:     task,
		title:       title,
		description: description,
		dueDate:     dueDate,
		stepInput:   stepInput,
		priority:    model.PriorityMedium,
	}

	if task != nil {
		v.title.SetValue(task.Title)
		v.description.SetValue(task.Description)
		v.dueDate.SetValue(task.DueDate.Format(dueDateLayout))
		v.priority = task.Priority
		v.steps = append([]model.Step(nil), task.Steps...)
		v.progress = task.Progress
	} else {
		v.dueDate.SetValue(date.Format(dueDateLayout))
	}

	return v
}

// Init initializes the form view
func (v FormView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v FormView) SetSize(width, height int) FormView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v FormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, closeForm(false)

		case "ctrl+s":
			return v.save()

		case "tab", "shift+tab":
			v.errMsg = ""
			if msg.String() == "tab" {
				v.focus = (v.focus + 1) % fieldCount
			} else {
				v.focus = (v.focus + fieldCount - 1) % fieldCount
			}
			// The manual progress slider exists only while there are no
			// steps; with steps present, progress is derived
			if v.focus == fieldProgress && len(v.steps) > 0 {
				if msg.String() == "tab" {
					v.focus = fieldStepInput
				} else {
					v.focus = fieldPriority
				}
			}
			if v.focus == fieldSteps && len(v.steps) == 0 {
				v.focus = fieldTitle
			}
			v.syncFocus()
			return v, nil
		}

		switch v.focus {
		case fieldPriority:
			switch msg.String() {
			case "left", "h":
				v.priority = cyclePriority(v.priority, -1)
				return v, nil
			case "right", "l":
				v.priority = cyclePriority(v.priority, 1)
				return v, nil
			}

		case fieldProgress:
			switch msg.String() {
			case "left", "h":
				v.progress = max(0, v.progress-5)
				return v, nil
			case "right", "l":
				v.progress = min(100, v.progress+5)
				return v, nil
			}

		case fieldStepInput:
			if msg.String() == "enter" {
				text := strings.TrimSpace(v.stepInput.Value())
				if text != "" {
					v.steps = append(v.steps, model.Step{
						ID:   store.NewID(),
						Text: text,
					})
					v.stepInput.SetValue("")
				}
				return v, nil
			}

		case fieldSteps:
			switch msg.String() {
			case "up", "k":
				if v.stepCursor > 0 {
					v.stepCursor--
				}
				return v, nil
			case "down", "j":
				if v.stepCursor < len(v.steps)-1 {
					v.stepCursor++
				}
				return v, nil
			case "d":
				if len(v.steps) > 0 {
					v.steps = append(v.steps[:v.stepCursor], v.steps[v.stepCursor+1:]...)
					if v.stepCursor >= len(v.steps) && v.stepCursor > 0 {
						v.stepCursor--
					}
					if len(v.steps) == 0 {
						v.focus = fieldStepInput
						v.syncFocus()
					}
				}
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	switch v.focus {
	case fieldTitle:
		v.title, cmd = v.title.Update(msg)
	case fieldDescription:
		v.description, cmd = v.description.Update(msg)
	case fieldDueDate:
		v.dueDate, cmd = v.dueDate.Update(msg)
	case fieldStepInput:
		v.stepInput, cmd = v.stepInput.Update(msg)
	}
	return v, cmd
}

func (v FormView) save() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(v.title.Value())
	if title == "" {
		v.errMsg = "Title is required"
		return v, nil
	}

	due, err := time.ParseInLocation(dueDateLayout, strings.TrimSpace(v.dueDate.Value()), time.Local)
	if err != nil {
		v.errMsg = fmt.Sprintf("Due date must look like %s", dueDateLayout)
		return v, nil
	}

	description := strings.TrimSpace(v.description.Value())
	steps := append([]model.Step(nil), v.steps...)

	if v.editing == nil {
		v.store.Create(store.Draft{
			Title:       title,
			Description: description,
			DueDate:     due,
			Priority:    v.priority,
			Steps:       steps,
			Progress:    v.progress,
		})
	} else {
		priority := v.priority
		progress := v.progress
		v.store.Update(v.editing.ID, store.Patch{
			Title:       &title,
			Description: &description,
			DueDate:     &due,
			Priority:    &priority,
			Steps:       &steps,
			Progress:    &progress,
		})
	}

	return v, closeForm(true)
}

func closeForm(saved bool) tea.Cmd {
	return func() tea.Msg { return FormClosed{Saved: saved} }
}

func (v *FormView) syncFocus() {
	v.title.Blur()
	v.description.Blur()
	v.dueDate.Blur()
	v.stepInput.Blur()
	switch v.focus {
	case fieldTitle:
		v.title.Focus()
	case fieldDescription:
		v.description.Focus()
	case fieldDueDate:
		v.dueDate.Focus()
	case fieldStepInput:
		v.stepInput.Focus()
	}
}

func cyclePriority(p model.Priority, dir int) model.Priority {
	order := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}
	for i, candidate := range order {
		if candidate == p {
			return order[(i+dir+len(order))%len(order)]
		}
	}
	return model.PriorityMedium
}

// View renders the form
func (v FormView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	heading := "Add New Task"
	if v.editing != nil {
		heading = "Edit Task"
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(heading))
	b.WriteString("\n")

	b.WriteString(v.renderInput("Title", v.title, fieldTitle))
	b.WriteString(v.renderInput("Description", v.description, fieldDescription))
	b.WriteString(v.renderInput("Due Date", v.dueDate, fieldDueDate))

	// Priority selector
	var priorities []string
	for _, p := range []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh} {
		s := lipgloss.NewStyle().Padding(0, 1).Foreground(priorityColor(p))
		if p == v.priority {
			s = s.Reverse(true).Bold(true)
		}
		priorities = append(priorities, s.Render(string(p)))
	}
	b.WriteString(v.renderField("Priority", strings.Join(priorities, " "), fieldPriority))

	// Progress slider, manual only while there are no steps
	if len(v.steps) == 0 {
		bar := renderProgressBar(v.progress, 20)
		b.WriteString(v.renderField("Progress", fmt.Sprintf("%s %d%%", bar, v.progress), fieldProgress))
	} else {
		derived := deriveProgress(v.steps)
		b.WriteString(v.renderField("Progress", fmt.Sprintf("%s %d%% (from steps)",
			renderProgressBar(derived, 20), derived), -1))
	}

	b.WriteString(v.renderInput("Steps to Achieve", v.stepInput, fieldStepInput))

	for i, step := range v.steps {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(t.Foreground)
		if v.focus == fieldSteps && i == v.stepCursor {
			cursor = "> "
			style = style.Bold(true)
		}
		b.WriteString(fmt.Sprintf("%s%s\n", cursor, style.Render(step.Text)))
	}

	if v.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Error).Render(v.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(styles.Label.Render("tab: next field • ctrl+s: save • esc: cancel"))

	return styles.Panel.Width(min(v.width-4, 64)).Render(b.String())
}

func (v FormView) renderInput(label string, input textinput.Model, field int) string {
	return v.renderField(label, input.View(), field)
}

func (v FormView) renderField(label, content string, field int) string {
	styles := theme.Current.Styles
	labelStyle := styles.Label
	if field >= 0 && v.focus == field {
		labelStyle = styles.PanelTitle.Padding(0)
	}
	return fmt.Sprintf("%s\n%s\n", labelStyle.Render(label), content)
}

func deriveProgress(steps []model.Step) int {
	t := model.Task{Steps: steps}
	return t.StepProgress()
}

// IsInputMode returns whether the view is in input mode
func (v FormView) IsInputMode() bool {
	return true
}
