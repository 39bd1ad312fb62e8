package ui

import "time"

// View represents the current active view
type View int

const (
	ViewLogin View = iota
	ViewList
	ViewCalendar
	ViewForm
	ViewHelp
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewLogin:
		return "Login"
	case ViewList:
		return "Tasks"
	case ViewCalendar:
		return "Calendar"
	case ViewForm:
		return "Task"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// ReminderTickMsg refreshes overdue markers between mutations
type ReminderTickMsg struct {
	At time.Time
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
