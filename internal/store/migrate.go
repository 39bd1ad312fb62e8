package store

import (
	"encoding/json"
	"time"

	"github.com/dori/zenith/internal/model"
)

// legacyTask mirrors model.Task but keeps the optional fields nullable so a
// record written before steps, progress, or priority existed can be told
// apart from one carrying explicit zero values.
type legacyTask struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     time.Time      `json:"dueDate"`
	IsCompleted bool           `json:"isCompleted"`
	Priority    model.Priority `json:"priority"`
	Steps       []model.Step   `json:"steps"`
	Progress    *int           `json:"progress"`
}

// migrateTasks decodes the persisted collection, filling in fields that
// legacy records lack: priority defaults to Medium, steps to an empty list,
// progress to 0. The pass covers the whole collection and is idempotent;
// migrated reports whether any record actually needed it, in which case the
// caller should write the collection back.
func migrateTasks(raw []byte) (tasks []model.Task, migrated bool, err error) {
	var records []legacyTask
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, err
	}

	for _, r := range records {
		if r.Steps == nil || r.Progress == nil {
			migrated = true
		}
	}

	tasks = make([]model.Task, 0, len(records))
	for _, r := range records {
		t := model.Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			DueDate:     r.DueDate,
			IsCompleted: r.IsCompleted,
			Priority:    r.Priority,
			Steps:       r.Steps,
			Progress:    0,
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		if t.Steps == nil {
			t.Steps = []model.Step{}
		}
		if r.Progress != nil {
			t.Progress = *r.Progress
		}
		tasks = append(tasks, t)
	}
	return tasks, migrated, nil
}
