package store

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dori/zenith/internal/model"
	"github.com/dori/zenith/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	st := New(kv, log.New(io.Discard))
	if err := st.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	return st, kv
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 12, 0, 0, 0, time.UTC)
}

func TestCreateSortsByDueDate(t *testing.T) {
	st, _ := newTestStore(t)

	st.Create(Draft{Title: "c", DueDate: day(3, 5)})
	st.Create(Draft{Title: "a", DueDate: day(3, 1)})
	st.Create(Draft{Title: "b", DueDate: day(3, 3)})

	var titles []string
	for _, task := range st.Tasks() {
		titles = append(titles, task.Title)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

func TestCreateSortIsStable(t *testing.T) {
	st, _ := newTestStore(t)

	due := day(3, 1)
	first := st.Create(Draft{Title: "first", DueDate: due})
	second := st.Create(Draft{Title: "second", DueDate: due})

	tasks := st.Tasks()
	if tasks[0].ID != first.ID || tasks[1].ID != second.ID {
		t.Errorf("equal due dates should keep insertion order, got %q then %q",
			tasks[0].Title, tasks[1].Title)
	}
}

func TestCreateDefaults(t *testing.T) {
	st, _ := newTestStore(t)

	task := st.Create(Draft{Title: "x", DueDate: day(1, 1), Priority: "Bogus"})
	if task.Priority != model.PriorityMedium {
		t.Errorf("invalid priority should default to Medium, got %s", task.Priority)
	}
	if task.Steps == nil {
		t.Error("steps should never be nil after create")
	}
	if task.IsCompleted {
		t.Error("new task should start pending")
	}
	if task.ID == "" {
		t.Error("create should assign an id")
	}
}

func TestCreateDerivesProgressFromSteps(t *testing.T) {
	st, _ := newTestStore(t)

	task := st.Create(Draft{
		Title:    "x",
		DueDate:  day(1, 1),
		Progress: 80, // ignored, steps win
		Steps: []model.Step{
			{ID: "s1", IsCompleted: true},
			{ID: "s2"},
		},
	})
	if task.Progress != 50 {
		t.Errorf("progress = %d, want 50 derived from steps", task.Progress)
	}
}

func TestToggleStepRecomputesProgress(t *testing.T) {
	st, _ := newTestStore(t)

	task := st.Create(Draft{
		Title:   "x",
		DueDate: day(1, 1),
		Steps: []model.Step{
			{ID: "s1"}, {ID: "s2"}, {ID: "s3"}, {ID: "s4"},
		},
	})

	if !st.ToggleStep(task.ID, "s1") {
		t.Fatal("ToggleStep returned false for a known step")
	}
	if got := st.Task(task.ID).Progress; got != 25 {
		t.Errorf("progress after one toggle = %d, want 25", got)
	}

	st.ToggleStep(task.ID, "s2")
	if got := st.Task(task.ID).Progress; got != 50 {
		t.Errorf("progress after two toggles = %d, want 50", got)
	}

	// Untoggling goes back down
	st.ToggleStep(task.ID, "s2")
	if got := st.Task(task.ID).Progress; got != 25 {
		t.Errorf("progress after untoggle = %d, want 25", got)
	}
}

func TestToggleStepUnknownIDs(t *testing.T) {
	st, _ := newTestStore(t)
	task := st.Create(Draft{Title: "x", DueDate: day(1, 1), Steps: []model.Step{{ID: "s1"}}})

	if st.ToggleStep("nope", "s1") {
		t.Error("expected false for unknown task")
	}
	if st.ToggleStep(task.ID, "nope") {
		t.Error("expected false for unknown step")
	}
}

func TestToggleCompleteAndDelete(t *testing.T) {
	st, _ := newTestStore(t)
	task := st.Create(Draft{Title: "x", DueDate: day(1, 1)})

	if !st.ToggleComplete(task.ID) {
		t.Fatal("ToggleComplete returned false")
	}
	if !st.Task(task.ID).IsCompleted {
		t.Error("task should be completed")
	}
	if st.ToggleComplete("nope") {
		t.Error("expected false for unknown id")
	}

	if !st.Delete(task.ID) {
		t.Fatal("Delete returned false")
	}
	if st.Task(task.ID) != nil {
		t.Error("task still present after delete")
	}
	if st.Delete(task.ID) {
		t.Error("second delete should return false")
	}
}

func TestLoginLogout(t *testing.T) {
	st, kv := newTestStore(t)

	st.Login("ada")
	if !st.LoggedIn() || st.User() != "ada" {
		t.Fatalf("expected logged in as ada, got %q", st.User())
	}

	st.Create(Draft{Title: "x", DueDate: day(1, 1)})
	st.MarkNotified("some-task")

	st.Logout()
	if st.LoggedIn() {
		t.Error("still logged in after logout")
	}
	if len(st.Tasks()) != 0 {
		t.Error("tasks survive logout")
	}
	if st.IsNotified("some-task") {
		t.Error("notified set survives logout")
	}

	// Persisted state is cleared too, not just memory
	raw, ok, _ := kv.Get(storage.KeyUser)
	if !ok || string(raw) != "null" {
		t.Errorf("persisted user = %q, want null", raw)
	}
	raw, _, _ = kv.Get(storage.KeyTasks)
	if string(raw) != "[]" {
		t.Errorf("persisted tasks = %q, want []", raw)
	}
}

func TestLoadRestoresState(t *testing.T) {
	st, kv := newTestStore(t)
	st.Login("ada")
	created := st.Create(Draft{Title: "x", DueDate: day(1, 1)})
	st.MarkNotified(created.ID)

	// Fresh store over the same KV sees everything
	st2 := New(kv, log.New(io.Discard))
	if err := st2.Load(); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	if st2.User() != "ada" {
		t.Errorf("user = %q, want ada", st2.User())
	}
	if got := st2.Task(created.ID); got == nil || got.Title != "x" {
		t.Errorf("task not restored: %v", got)
	}
	if !st2.IsNotified(created.ID) {
		t.Error("notified set not restored")
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	kv := storage.NewMemory()
	kv.Set(storage.KeyUser, []byte("{not json"))
	kv.Set(storage.KeyTasks, []byte("{not json"))
	kv.Set(storage.KeyNotified, []byte("{not json"))

	st := New(kv, log.New(io.Discard))
	if err := st.Load(); err != nil {
		t.Fatalf("malformed values should not fail the load: %v", err)
	}
	if st.LoggedIn() || len(st.Tasks()) != 0 {
		t.Error("expected zero state after malformed load")
	}
}

func TestPersistFailureKeepsInMemoryEffect(t *testing.T) {
	st, kv := newTestStore(t)

	kv.SetErr = errors.New("disk full")
	task := st.Create(Draft{Title: "x", DueDate: day(1, 1)})

	if st.Task(task.ID) == nil {
		t.Error("in-memory effect lost on persist failure")
	}
	if _, ok, _ := kv.Get(storage.KeyTasks); ok {
		t.Error("nothing should have been written")
	}

	// Next successful mutation writes the full current state
	kv.SetErr = nil
	st.Create(Draft{Title: "y", DueDate: day(1, 2)})

	raw, ok, _ := kv.Get(storage.KeyTasks)
	if !ok {
		t.Fatal("tasks not persisted after error cleared")
	}
	var persisted []model.Task
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("Failed to decode persisted tasks: %v", err)
	}
	if len(persisted) != 2 {
		t.Errorf("persisted %d tasks, want 2", len(persisted))
	}
}

func TestTasksReturnsSnapshot(t *testing.T) {
	st, _ := newTestStore(t)
	st.Create(Draft{Title: "x", DueDate: day(1, 1)})

	snap := st.Tasks()
	snap[0].Title = "mutated"

	if st.Tasks()[0].Title != "x" {
		t.Error("mutating the snapshot leaked into the store")
	}
}
