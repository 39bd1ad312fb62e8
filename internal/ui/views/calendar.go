package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/zenith/internal/model"
	"github.com/dori/zenith/internal/store"
	"github.com/dori/zenith/internal/ui/theme"
)

// CalendarView shows a month grid with markers on days that have tasks
// due, and the selected day's tasks beside it. The selected day seeds the
// default due date when adding a task from here.
type CalendarView struct {
	store  *store.Store
	width  int
	height int

	// Current month being displayed
	year  int
	month time.Month

	// Selected day
	selectedDay int

	// Day-of-month -> tasks due that day, current month only
	tasksByDay map[int][]model.Task
	counts     map[model.DayKey]int
}

// NewCalendarView creates a new calendar view
func NewCalendarView(st *store.Store) CalendarView {
	now := time.Now()
	return CalendarView{
		store:       st,
		year:        now.Year(),
		month:       now.Month(),
		selectedDay: now.Day(),
		tasksByDay:  make(map[int][]model.Task),
	}
}

// Init initializes the calendar view
func (v CalendarView) Init() tea.Cmd {
	return func() tea.Msg { return tasksReloadedMsg{} }
}

// SetSize sets the view dimensions
func (v CalendarView) SetSize(width, height int) CalendarView {
	v.width = width
	v.height = height
	return v
}

// reload rebuilds the per-day index from the store snapshot.
func (v *CalendarView) reload() {
	tasks := v.store.Tasks()
	v.counts = model.CountByDay(tasks)
	v.tasksByDay = make(map[int][]model.Task)
	for _, t := range tasks {
		if t.DueDate.Year() == v.year && t.DueDate.Month() == v.month {
			day := t.DueDate.Day()
			v.tasksByDay[day] = append(v.tasksByDay[day], t)
		}
	}
}

// SelectedDate returns the currently selected calendar day.
func (v CalendarView) SelectedDate() time.Time {
	return time.Date(v.year, v.month, v.selectedDay, 0, 0, 0, 0, time.Local)
}

// Update handles messages
func (v CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksReloadedMsg:
		v.reload()
		return v, nil

	case tea.KeyMsg:
		daysInMonth := v.daysInMonth()

		switch msg.String() {
		// Navigate days
		case "h", "left":
			if v.selectedDay > 1 {
				v.selectedDay--
			}
			return v, v.selected()

		case "l", "right":
			if v.selectedDay < daysInMonth {
				v.selectedDay++
			}
			return v, v.selected()

		case "k", "up":
			if v.selectedDay > 7 {
				v.selectedDay -= 7
			}
			return v, v.selected()

		case "j", "down":
			if v.selectedDay+7 <= daysInMonth {
				v.selectedDay += 7
			}
			return v, v.selected()

		// Navigate months
		case "H", "pgup":
			v.month--
			if v.month < 1 {
				v.month = 12
				v.year--
			}
			v.clampSelectedDay()
			v.reload()
			return v, v.selected()

		case "L", "pgdown":
			v.month++
			if v.month > 12 {
				v.month = 1
				v.year++
			}
			v.clampSelectedDay()
			v.reload()
			return v, v.selected()

		case "t": // Today
			now := time.Now()
			v.year = now.Year()
			v.month = now.Month()
			v.selectedDay = now.Day()
			v.reload()
			return v, v.selected()

		case "g":
			v.selectedDay = 1
			return v, v.selected()

		case "G":
			v.selectedDay = daysInMonth
			return v, v.selected()

		case "a":
			return v, openForm(nil, v.SelectedDate())
		}
	}

	return v, nil
}

func (v CalendarView) selected() tea.Cmd {
	date := v.SelectedDate()
	return func() tea.Msg { return DateSelected{Date: date} }
}

// DateSelected carries the calendar's current day selection.
type DateSelected struct {
	Date time.Time
}

// daysInMonth returns the number of days in the current month
func (v CalendarView) daysInMonth() int {
	return time.Date(v.year, v.month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// clampSelectedDay ensures selected day is valid for current month
func (v *CalendarView) clampSelectedDay() {
	daysInMonth := v.daysInMonth()
	if v.selectedDay > daysInMonth {
		v.selectedDay = daysInMonth
	}
}

// View renders the calendar
func (v CalendarView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme

	// Split into two panels: calendar (left) and task list (right)
	calWidth := 28 // Fixed width for calendar grid
	listWidth := v.width - calWidth - 4

	calendar := v.renderCalendar(calWidth)
	taskList := v.renderTaskList(listWidth)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, calendar, taskList)

	hints := lipgloss.NewStyle().Foreground(t.Subtle).Render(
		"h/j/k/l: navigate days • H/L: change month • t: today • a: add on day",
	)

	return lipgloss.JoinVertical(lipgloss.Left, panels, hints)
}

// renderCalendar renders the calendar grid
func (v CalendarView) renderCalendar(width int) string {
	t := theme.Current.Theme

	monthName := fmt.Sprintf("%s %d", v.month.String(), v.year)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(width).
		Align(lipgloss.Center)

	dayLabelStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Width(4).
		Align(lipgloss.Center)

	var lines []string
	lines = append(lines, headerStyle.Render(monthName))
	lines = append(lines, dayLabelStyle.Render("Su Mo Tu We Th Fr Sa"))

	firstDay := time.Date(v.year, v.month, 1, 0, 0, 0, 0, time.Local)
	startWeekday := int(firstDay.Weekday()) // 0 = Sunday
	daysInMonth := v.daysInMonth()

	now := time.Now()
	isCurrentMonth := v.year == now.Year() && v.month == now.Month()
	today := now.Day()

	var week []string
	for i := 0; i < startWeekday; i++ {
		week = append(week, "   ")
	}

	for day := 1; day <= daysInMonth; day++ {
		dayStyle := lipgloss.NewStyle().Width(3).Align(lipgloss.Center)

		hasTasks := v.counts[model.DayKey{Year: v.year, Month: v.month, Day: day}] > 0
		isSelected := day == v.selectedDay
		isToday := isCurrentMonth && day == today

		if isSelected {
			dayStyle = dayStyle.Background(t.Highlight).Bold(true)
		}
		if isToday {
			dayStyle = dayStyle.Foreground(t.Primary)
		}
		if hasTasks && !isSelected {
			dayStyle = dayStyle.Foreground(t.Info)
		}

		dayStr := fmt.Sprintf("%2d", day)
		if hasTasks {
			dayStr += "•"
		} else {
			dayStr += " "
		}

		week = append(week, dayStyle.Render(dayStr))

		if (startWeekday+day)%7 == 0 {
			lines = append(lines, strings.Join(week, ""))
			week = nil
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, "   ")
		}
		lines = append(lines, strings.Join(week, ""))
	}

	content := strings.Join(lines, "\n")
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return boxStyle.Render(content)
}

// renderTaskList renders the task list for the selected day
func (v CalendarView) renderTaskList(width int) string {
	t := theme.Current.Theme
	now := time.Now()

	date := v.SelectedDate()
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(width)

	header := headerStyle.Render(date.Format("Monday, January 2"))

	tasks := v.tasksByDay[v.selectedDay]

	var lines []string
	lines = append(lines, header)
	lines = append(lines, "")

	if len(tasks) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true).
			Render("No tasks due this day"))
	} else {
		for _, task := range tasks {
			checkbox := "☐"
			if task.IsCompleted {
				checkbox = "☑"
			}

			priorityChar := lipgloss.NewStyle().
				Foreground(priorityColor(task.Priority)).
				Render("●")

			title := task.Title
			maxLen := width - 10
			if maxLen > 3 && len(title) > maxLen {
				title = title[:maxLen-3] + "..."
			}

			taskStyle := lipgloss.NewStyle().Foreground(t.Foreground)
			if task.IsCompleted {
				taskStyle = taskStyle.Strikethrough(true).Foreground(t.Subtle)
			} else if task.IsOverdue(now) {
				taskStyle = taskStyle.Foreground(t.Error)
			}

			line := fmt.Sprintf("%s %s %s", checkbox, priorityChar, taskStyle.Render(title))
			if task.Progress > 0 {
				line += lipgloss.NewStyle().Foreground(t.Subtle).
					Render(fmt.Sprintf(" (%d%%)", task.Progress))
			}
			lines = append(lines, line)
		}
	}

	content := strings.Join(lines, "\n")
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(width)

	return boxStyle.Render(content)
}

// IsInputMode returns whether the view is in input mode
func (v CalendarView) IsInputMode() bool {
	return false
}
