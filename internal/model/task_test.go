package model

import (
	"testing"
	"time"
)

func TestIsOverdue(t *testing.T) {
	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task := Task{ID: "t1", Title: "Walk dog", DueDate: due}

	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if task.IsOverdue(before) {
		t.Error("task should not be overdue before its due instant")
	}

	after := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !task.IsOverdue(after) {
		t.Error("task should be overdue after its due instant")
	}

	task.IsCompleted = true
	if task.IsOverdue(after) {
		t.Error("completed task should never be overdue")
	}
}

func TestIsDueToday(t *testing.T) {
	task := Task{DueDate: time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)}

	sameDay := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	if !task.IsDueToday(sameDay) {
		t.Error("expected due today on the same calendar day")
	}

	nextDay := time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC)
	if task.IsDueToday(nextDay) {
		t.Error("did not expect due today on the next day")
	}

	// Same year day, different year
	otherYear := time.Date(2023, 3, 15, 8, 0, 0, 0, time.UTC)
	if task.IsDueToday(otherYear) {
		t.Error("did not expect due today in a different year")
	}
}

func TestStepProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no steps", 0, 0, 0},
		{"one of four", 1, 4, 25},
		{"two of four", 2, 4, 50},
		{"all done", 4, 4, 100},
		{"one of three rounds", 1, 3, 33},
		{"two of three rounds", 2, 3, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{}
			for i := 0; i < tt.total; i++ {
				task.Steps = append(task.Steps, Step{
					ID:          string(rune('a' + i)),
					IsCompleted: i < tt.completed,
				})
			}
			if got := task.StepProgress(); got != tt.want {
				t.Errorf("StepProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}
