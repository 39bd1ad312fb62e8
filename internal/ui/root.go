package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/zenith/internal/app"
	"github.com/dori/zenith/internal/notify"
	"github.com/dori/zenith/internal/ui/theme"
	"github.com/dori/zenith/internal/ui/views"
)

// reminderRefresh is how often the UI re-renders to catch tasks crossing
// their due date while nothing else is happening.
const reminderRefresh = time.Minute

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView  View
	loginView    views.LoginView
	listView     views.ListView
	calendarView views.CalendarView
	formView     views.FormView
	returnView   View // view to restore when the form closes
	helpVisible  bool

	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	current := ViewList
	if !application.Store.LoggedIn() {
		current = ViewLogin
	}

	return RootModel{
		app:          application,
		keys:         DefaultKeyMap(),
		help:         h,
		currentView:  current,
		loginView:    views.NewLoginView(),
		listView:     views.NewListView(application.Store),
		calendarView: views.NewCalendarView(application.Store),
		returnView:   ViewList,
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{reminderTick()}
	if m.currentView == ViewLogin {
		cmds = append(cmds, m.loginView.Init())
	} else {
		cmds = append(cmds, m.listView.Init())
	}
	return tea.Batch(cmds...)
}

func reminderTick() tea.Cmd {
	return tea.Tick(reminderRefresh, func(at time.Time) tea.Msg {
		return ReminderTickMsg{At: at}
	})
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.loginView = m.loginView.SetSize(m.width, contentHeight)
		m.listView = m.listView.SetSize(m.width, contentHeight)
		m.calendarView = m.calendarView.SetSize(m.width, contentHeight)
		m.formView = m.formView.SetSize(m.width, contentHeight)

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		// Global keybindings
		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			// ctrl+t always works (unlikely to type)
			m.cycleTheme()
			return m, nil
		}

		// Skip other global keys when in input mode
		if isInputMode {
			break // Fall through to view delegation
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil

		case key.Matches(msg, m.keys.ListView):
			if m.currentView != ViewLogin && m.currentView != ViewForm {
				m.currentView = ViewList
				return m, m.listView.Init() // Reload tasks when switching
			}

		case key.Matches(msg, m.keys.CalendarView):
			if m.currentView != ViewLogin && m.currentView != ViewForm {
				m.currentView = ViewCalendar
				return m, m.calendarView.Init()
			}

		case key.Matches(msg, m.keys.Logout):
			if m.currentView != ViewLogin {
				m.app.Store.Logout()
				m.currentView = ViewLogin
				m.loginView = views.NewLoginView()
				return m, m.loginView.Init()
			}

		case key.Matches(msg, m.keys.Notifications):
			return m, m.requestNotifications()
		}

	case views.LoginSubmitted:
		m.app.Store.Login(msg.Username)
		m.currentView = ViewList
		m.statusMsg = fmt.Sprintf("Welcome, %s!", msg.Username)
		return m, m.listView.Init()

	case views.OpenFormRequest:
		m.returnView = m.currentView
		m.formView = views.NewFormView(m.app.Store, msg.Task, msg.Date).
			SetSize(m.width, m.height-4)
		m.currentView = ViewForm
		return m, m.formView.Init()

	case views.FormClosed:
		m.currentView = m.returnView
		if msg.Saved {
			m.statusMsg = "Task saved"
		}
		// Re-derive both task views from the mutated store
		return m, tea.Batch(m.listView.Init(), m.calendarView.Init())

	case views.DateSelected:
		m.statusMsg = msg.Date.Format("Monday, January 2, 2006")
		return m, nil

	case ReminderTickMsg:
		// Nothing to mutate; re-render picks up overdue transitions made
		// by the background scanner since the last frame
		return m, reminderTick()

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	// Delegate to current view
	switch m.currentView {
	case ViewLogin:
		newLoginView, cmd := m.loginView.Update(msg)
		m.loginView = newLoginView.(views.LoginView)
		cmds = append(cmds, cmd)
	case ViewList:
		newListView, cmd := m.listView.Update(msg)
		m.listView = newListView.(views.ListView)
		cmds = append(cmds, cmd)
	case ViewCalendar:
		newCalendarView, cmd := m.calendarView.Update(msg)
		m.calendarView = newCalendarView.(views.CalendarView)
		cmds = append(cmds, cmd)
	case ViewForm:
		newFormView, cmd := m.formView.Update(msg)
		m.formView = newFormView.(views.FormView)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.IsInputMode()
	case ViewList:
		return m.listView.IsInputMode()
	case ViewCalendar:
		return m.calendarView.IsInputMode()
	case ViewForm:
		return m.formView.IsInputMode()
	}
	return false
}

// requestNotifications asks the desktop for notification permission and
// reports the outcome in the status line.
func (m RootModel) requestNotifications() tea.Cmd {
	switch m.app.Notifier.Request() {
	case notify.PermissionGranted:
		return func() tea.Msg { return StatusMsg{Message: "Reminders enabled"} }
	case notify.PermissionUnsupported:
		return func() tea.Msg { return StatusMsg{Message: "Notifications are not available on this system"} }
	default:
		return func() tea.Msg { return StatusMsg{Message: "Notifications are disabled"} }
	}
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	var sections []string

	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer
	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}
	var content string

	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewLogin:
			content = m.loginView.View()
		case ViewList:
			content = m.listView.View()
		case ViewCalendar:
			content = m.calendarView.View()
		case ViewForm:
			content = m.formView.View()
		default:
			content = styles.Panel.Render("View not implemented")
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("Zenith To-Do")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))

	var rightSide string
	if user := m.app.Store.User(); user != "" {
		rightSide = viewStyle.Render(fmt.Sprintf("Welcome, %s", user))
	} else {
		rightSide = viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))
	}

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string

	switch m.currentView {
	case ViewLogin:
		line1 = key("enter", "sign in") + sep + key("ctrl+c", "quit")

	case ViewList:
		if m.listView.IsInputMode() {
			line1 = key("enter", "confirm") + sep + key("esc", "cancel")
		} else {
			line1 = key("a", "add") + sep +
				key("enter", "edit") + sep +
				key("tab", "done") + sep +
				key("d", "del") + sep +
				key("space", "steps") + sep +
				key("/", "search")
			line2 = key("J/K/x", "step nav/toggle") + sep +
				key("1/2", "views") + sep +
				key("C-l", "logout") + sep +
				key("?", "help")
		}

	case ViewCalendar:
		line1 = key("h/j/k/l", "days") + sep +
			key("H/L", "months") + sep +
			key("t", "today") + sep +
			key("a", "add on day")
		line2 = key("1/2", "views") + sep +
			key("ctrl+t", "theme") + sep +
			key("?", "help")

	case ViewForm:
		line1 = key("tab", "next field") + sep +
			key("ctrl+s", "save") + sep +
			key("esc", "cancel")

	default:
		line1 = key("1/2", "views") + sep + key("?", "help")
	}

	// A standing nudge until desktop reminders are allowed
	if m.currentView != ViewLogin && m.app.Notifier.Permission() == notify.PermissionNotRequested {
		nudge := key("N", "enable reminders")
		if line2 == "" {
			line2 = nudge
		} else {
			line2 += sep + nudge
		}
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder

	b.WriteString(titleStyle.Render("Zenith Help"))
	b.WriteString("\n\n")

	section := func(title string, entries [][]string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, kv := range entries {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	section("Navigation", [][]string{
		{"↑/k ↓/j", "Navigate up/down"},
		{"g / G", "Go to top/bottom"},
		{"1 / 2", "Switch between list and calendar"},
	})

	section("Task Actions", [][]string{
		{"a", "Add new task"},
		{"enter", "Edit task"},
		{"tab", "Toggle done/pending"},
		{"d", "Delete task"},
		{"/", "Search tasks"},
	})

	section("Steps", [][]string{
		{"space", "Expand/collapse steps"},
		{"J / K", "Move between steps"},
		{"x", "Toggle step done"},
	})

	section("Calendar", [][]string{
		{"h/j/k/l", "Move between days"},
		{"H / L", "Previous/next month"},
		{"t", "Jump to today"},
	})

	section("Session", [][]string{
		{"N", "Enable desktop reminders"},
		{"ctrl+l", "Log out"},
		{"ctrl+t", "Cycle theme"},
		{"q / ctrl+c", "Quit"},
	})

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? to close"))

	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
