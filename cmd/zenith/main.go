package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/zenith/internal/app"
	"github.com/dori/zenith/internal/model"
	"github.com/dori/zenith/internal/store"
	"github.com/dori/zenith/internal/ui"
	"github.com/dori/zenith/internal/ui/theme"
)

var (
	version = "0.1.0"
)

func main() {
	// Subcommand handling
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "version":
			fmt.Printf("zenith v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	// Parse flags for TUI mode
	configFlag := flag.String("config", "", "Path to config file")
	themeFlag := flag.String("theme", "", "Theme name (nord, dracula, gruvbox, catppuccin)")
	flag.Parse()

	if err := runTUI(*configFlag, *themeFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `zenith - A personal task manager with reminders

Usage:
  zenith                    Start the TUI
  zenith add <task>         Quick add a task
  zenith version            Show version
  zenith help               Show this help

Quick Add Syntax:
  zenith add "Buy groceries"
  zenith add "Review draft !high due:tomorrow"

  Priority:  !low !medium !high
  Due date:  due:today due:tomorrow due:friday due:2024-01-15

TUI Options:
  --config <path>   Config file (default ~/.config/zenith/config.toml)
  --theme <name>    Theme (nord, dracula, gruvbox, catppuccin)

Keybindings:
  Navigation:   ↑/↓ or j/k    Move cursor
                g/G           Go to top/bottom
                1/2           List / calendar view

  Actions:      a             Add new task
                enter         Edit task
                tab           Toggle done
                d             Delete task
                space         Expand steps
                /             Search

  Session:      N             Enable desktop reminders
                ctrl+l        Log out
                ?             Help
                q             Quit

For more info: https://github.com/dori/zenith`

	fmt.Println(help)
}

func handleAdd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: zenith add <task>")
		fmt.Fprintln(os.Stderr, "Example: zenith add \"Buy groceries !high due:tomorrow\"")
		os.Exit(1)
	}

	text := strings.Join(args, " ")
	draft := parseQuickAdd(text)

	if draft.Title == "" {
		fmt.Fprintln(os.Stderr, "Task title is empty")
		os.Exit(1)
	}

	// Full bootstrap: the store rewrites the whole collection on create,
	// so the instance lock applies to quick add too
	application, err := app.New("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	task := application.Store.Create(draft)

	fmt.Printf("Created: %s\n", task.Title)
	fmt.Printf("Due: %s\n", formatDueDate(task.DueDate))
	if task.Priority != model.PriorityMedium {
		fmt.Printf("Priority: %s\n", task.Priority)
	}
}

func parseQuickAdd(text string) store.Draft {
	draft := store.Draft{
		Priority: model.PriorityMedium,
		DueDate:  endOfDay(time.Now()),
	}

	words := strings.Fields(text)
	var titleParts []string

	for _, word := range words {
		switch {
		// Priority (!low, !high, etc.)
		case strings.HasPrefix(word, "!"):
			switch strings.ToLower(strings.TrimPrefix(word, "!")) {
			case "low", "l":
				draft.Priority = model.PriorityLow
			case "medium", "med", "m":
				draft.Priority = model.PriorityMedium
			case "high", "hi", "h":
				draft.Priority = model.PriorityHigh
			default:
				titleParts = append(titleParts, word)
			}

		// Due date (due:tomorrow, due:friday, due:2024-01-15)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			dateStr := strings.TrimPrefix(strings.ToLower(word), "due:")
			if parsed := parseNaturalDate(dateStr); parsed != nil {
				draft.DueDate = *parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	draft.Title = strings.Join(titleParts, " ")
	return draft
}

func parseNaturalDate(s string) *time.Time {
	now := time.Now()
	today := endOfDay(now)

	switch strings.ToLower(s) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "monday", "mon":
		return nextWeekday(time.Monday)
	case "tuesday", "tue":
		return nextWeekday(time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(time.Thursday)
	case "friday", "fri":
		return nextWeekday(time.Friday)
	case "saturday", "sat":
		return nextWeekday(time.Saturday)
	case "sunday", "sun":
		return nextWeekday(time.Sunday)
	case "nextweek":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	// Try parsing as date
	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
		"Jan 2",
		"Jan 2, 2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			// If no year, use current year
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 23, 59, 59, 0, now.Location())
			}
			return &t
		}
	}

	return nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func nextWeekday(day time.Weekday) *time.Time {
	now := time.Now()
	today := endOfDay(now)

	daysUntil := int(day - now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	t := today.AddDate(0, 0, daysUntil)
	return &t
}

func formatDueDate(t time.Time) string {
	now := time.Now()

	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today"
	}

	tomorrow := now.AddDate(0, 0, 1)
	if t.Year() == tomorrow.Year() && t.YearDay() == tomorrow.YearDay() {
		return "tomorrow"
	}

	if t.Year() == now.Year() {
		return t.Format("Mon, Jan 2")
	}

	return t.Format("Jan 2, 2006")
}

func runTUI(configPath, themeName string) error {
	application, err := app.New(configPath)
	if err != nil {
		return err
	}
	defer application.Close()

	// CLI flag wins over the config file
	name := application.Config.Theme
	if themeName != "" {
		name = themeName
	}
	if t, ok := theme.ByName(name); ok {
		theme.SetTheme(t)
	}

	application.StartScanner()

	p := tea.NewProgram(
		ui.NewRootModel(application),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
