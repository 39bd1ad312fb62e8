package model

import (
	"math"
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight returns a numeric weight for sorting by priority
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

// Step is a single sub-step of a task. It has no lifecycle of its own;
// it lives and dies with its parent task.
type Step struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// Task represents a todo item
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	IsCompleted bool      `json:"isCompleted"`
	Priority    Priority  `json:"priority"`
	Steps       []Step    `json:"steps"`
	Progress    int       `json:"progress"`
}

// IsOverdue returns true if the task is past its due instant and not done.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

// IsDueToday returns true if the task is due on now's calendar day.
func (t *Task) IsDueToday(now time.Time) bool {
	return t.DueDate.Year() == now.Year() &&
		t.DueDate.YearDay() == now.YearDay()
}

// StepProgress derives the completion percentage from the task's steps.
// A task with no steps derives to 0.
func (t *Task) StepProgress() int {
	if len(t.Steps) == 0 {
		return 0
	}
	completed := 0
	for _, s := range t.Steps {
		if s.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(t.Steps))))
}
