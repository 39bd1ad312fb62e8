package store

import (
	"time"

	"github.com/dori/zenith/internal/model"
)

// Patch describes a partial task update. A nil field retains the existing
// value; a non-nil field overwrites it. This replaces the shallow-merge
// convention of loosely typed stores with explicit semantics.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *model.Priority
	Steps       *[]model.Step
	Progress    *int
}

// apply merges the patch into t. Progress derivation is authoritative:
// whenever the merged task has steps, progress comes from the step
// completion ratio, and a manual Progress value is honored only while the
// step list is empty.
func (p Patch) apply(t *model.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil && p.Priority.Valid() {
		t.Priority = *p.Priority
	}
	if p.Steps != nil {
		t.Steps = *p.Steps
		if t.Steps == nil {
			t.Steps = []model.Step{}
		}
	}

	if len(t.Steps) > 0 {
		t.Progress = t.StepProgress()
	} else if p.Progress != nil {
		t.Progress = clampProgress(*p.Progress)
	}
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
