package model

import (
	"strings"
	"time"
)

// Derived views over a task collection. These are pure functions: they are
// recomputed from the store's snapshot on demand and never persisted.

// Filter returns the tasks whose title or description contains query,
// case-insensitively. An empty query returns the input unfiltered.
func Filter(tasks []Task, query string) []Task {
	if query == "" {
		return tasks
	}
	q := strings.ToLower(query)
	var out []Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// Partition splits tasks into (pending, completed) by IsCompleted,
// preserving the relative order of the input in both halves.
func Partition(tasks []Task) (pending, completed []Task) {
	for _, t := range tasks {
		if t.IsCompleted {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, completed
}

// DayKey identifies a calendar day, ignoring time of day.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the DayKey for an instant.
func DayOf(t time.Time) DayKey {
	return DayKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// CountByDay maps each calendar day to the number of tasks due that day.
// All tasks count, regardless of completion or any active search filter.
func CountByDay(tasks []Task) map[DayKey]int {
	counts := make(map[DayKey]int)
	for _, t := range tasks {
		counts[DayOf(t.DueDate)]++
	}
	return counts
}
