package store

import (
	"testing"
	"time"

	"github.com/dori/zenith/internal/model"
)

func baseTask() model.Task {
	return model.Task{
		ID:          "t1",
		Title:       "Original",
		Description: "Original description",
		DueDate:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Priority:    model.PriorityLow,
		Steps:       []model.Step{},
		Progress:    10,
	}
}

func TestPatchNilFieldsRetain(t *testing.T) {
	task := baseTask()
	Patch{}.apply(&task)

	want := baseTask()
	if task.Title != want.Title || task.Description != want.Description ||
		!task.DueDate.Equal(want.DueDate) || task.Priority != want.Priority ||
		task.Progress != want.Progress {
		t.Errorf("empty patch changed the task: %+v", task)
	}
}

func TestPatchOverwritesFields(t *testing.T) {
	task := baseTask()

	title := "Renamed"
	due := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	priority := model.PriorityHigh
	Patch{Title: &title, DueDate: &due, Priority: &priority}.apply(&task)

	if task.Title != "Renamed" {
		t.Errorf("title = %q", task.Title)
	}
	if !task.DueDate.Equal(due) {
		t.Errorf("due = %v", task.DueDate)
	}
	if task.Priority != model.PriorityHigh {
		t.Errorf("priority = %s", task.Priority)
	}
	// Untouched field retained
	if task.Description != "Original description" {
		t.Errorf("description changed: %q", task.Description)
	}
}

func TestPatchInvalidPriorityIgnored(t *testing.T) {
	task := baseTask()
	bogus := model.Priority("Critical")
	Patch{Priority: &bogus}.apply(&task)
	if task.Priority != model.PriorityLow {
		t.Errorf("invalid priority applied: %s", task.Priority)
	}
}

func TestPatchStepsMakeProgressDerived(t *testing.T) {
	task := baseTask()

	steps := []model.Step{
		{ID: "s1", IsCompleted: true},
		{ID: "s2"},
	}
	manual := 90
	Patch{Steps: &steps, Progress: &manual}.apply(&task)

	// With steps present the manual value loses
	if task.Progress != 50 {
		t.Errorf("progress = %d, want 50 derived from steps", task.Progress)
	}
}

func TestPatchManualProgressWithoutSteps(t *testing.T) {
	task := baseTask()

	manual := 70
	Patch{Progress: &manual}.apply(&task)
	if task.Progress != 70 {
		t.Errorf("progress = %d, want 70", task.Progress)
	}

	// Clamped to the valid range
	over := 250
	Patch{Progress: &over}.apply(&task)
	if task.Progress != 100 {
		t.Errorf("progress = %d, want clamped 100", task.Progress)
	}
	under := -5
	Patch{Progress: &under}.apply(&task)
	if task.Progress != 0 {
		t.Errorf("progress = %d, want clamped 0", task.Progress)
	}
}

func TestPatchClearingStepsRestoresManualProgress(t *testing.T) {
	task := baseTask()
	task.Steps = []model.Step{{ID: "s1", IsCompleted: true}}
	task.Progress = 100

	empty := []model.Step{}
	manual := 40
	Patch{Steps: &empty, Progress: &manual}.apply(&task)

	if len(task.Steps) != 0 {
		t.Fatalf("steps not cleared: %v", task.Steps)
	}
	if task.Progress != 40 {
		t.Errorf("progress = %d, want manual 40 once steps are gone", task.Progress)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	st, _ := newTestStore(t)
	title := "x"
	if st.Update("nope", Patch{Title: &title}) {
		t.Error("expected false for unknown id")
	}
}
