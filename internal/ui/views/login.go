package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/zenith/internal/ui/theme"
)

// LoginSubmitted is emitted when the user enters a username. There is no
// validation beyond trimming; presence of a username is the whole session.
type LoginSubmitted struct {
	Username string
}

// LoginView asks for a display username before the main views open.
type LoginView struct {
	input  textinput.Model
	width  int
	height int
}

// NewLoginView creates the login prompt.
func NewLoginView() LoginView {
	ti := textinput.New()
	ti.Placeholder = "Your Name"
	ti.CharLimit = 64
	ti.Focus()
	return LoginView{input: ti}
}

// Init initializes the login view
func (v LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v LoginView) SetSize(width, height int) LoginView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" {
			username := strings.TrimSpace(v.input.Value())
			if username == "" {
				return v, nil
			}
			return v, func() tea.Msg { return LoginSubmitted{Username: username} }
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the login prompt
func (v LoginView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Render("Welcome to Zenith To-Do")
	subtitle := styles.Subtitle.Render("Enter a username to get started.")
	input := styles.InputFocused.Width(36).Render(v.input.View())
	hint := styles.Label.Render("enter: sign in")

	card := lipgloss.JoinVertical(lipgloss.Center, title, subtitle, "", input, "", hint)
	panel := styles.Panel.Render(card)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, panel)
}

// IsInputMode returns whether the view is in input mode
func (v LoginView) IsInputMode() bool {
	return true
}
