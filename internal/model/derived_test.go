package model

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func sampleTasks() []Task {
	return []Task{
		{ID: "1", Title: "Buy milk", Description: "Whole milk from the corner shop"},
		{ID: "2", Title: "Walk dog", Description: "Around the park"},
		{ID: "3", Title: "File taxes", Description: "Before the deadline", IsCompleted: true},
	}
}

func TestFilter(t *testing.T) {
	tasks := sampleTasks()

	got := Filter(tasks, "buy milk")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("Filter(buy milk) = %v, want task 1", got)
	}

	// Matches against description too
	got = Filter(tasks, "PARK")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("Filter(PARK) = %v, want task 2", got)
	}

	got = Filter(tasks, "")
	if len(got) != len(tasks) {
		t.Fatalf("empty query should return all tasks, got %d", len(got))
	}

	got = Filter(tasks, "no such thing")
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestPartition(t *testing.T) {
	tasks := sampleTasks()
	pending, completed := Partition(tasks)

	if len(pending) != 2 {
		t.Errorf("expected 2 pending, got %d", len(pending))
	}
	if len(completed) != 1 || completed[0].ID != "3" {
		t.Errorf("expected task 3 completed, got %v", completed)
	}
	// Relative order preserved
	if pending[0].ID != "1" || pending[1].ID != "2" {
		t.Errorf("pending order changed: %v", pending)
	}
}

func TestCountByDay(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 12, 0, 0, 0, time.UTC)
	}
	tasks := []Task{
		{ID: "1", DueDate: day(1)},
		{ID: "2", DueDate: day(1).Add(3 * time.Hour)}, // same day, different time
		{ID: "3", DueDate: day(2), IsCompleted: true}, // completed still counts
	}

	counts := CountByDay(tasks)
	if counts[DayKey{2024, time.June, 1}] != 2 {
		t.Errorf("June 1 = %d, want 2", counts[DayKey{2024, time.June, 1}])
	}
	if counts[DayKey{2024, time.June, 2}] != 1 {
		t.Errorf("June 2 = %d, want 1", counts[DayKey{2024, time.June, 2}])
	}
	if len(counts) != 2 {
		t.Errorf("expected 2 distinct days, got %d", len(counts))
	}
}

func genTask(t *rapid.T) Task {
	return Task{
		ID:          rapid.StringMatching(`[a-z0-9]{8}`).Draw(t, "id"),
		Title:       rapid.StringN(0, 20, 20).Draw(t, "title"),
		Description: rapid.StringN(0, 40, 40).Draw(t, "description"),
		DueDate:     time.Unix(rapid.Int64Range(0, 4e9).Draw(t, "due"), 0),
		IsCompleted: rapid.Bool().Draw(t, "done"),
	}
}

func TestPartitionProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := rapid.SliceOfN(rapid.Custom(genTask), 0, 30).Draw(t, "tasks")
		pending, completed := Partition(tasks)

		if len(pending)+len(completed) != len(tasks) {
			t.Fatalf("partition lost tasks: %d + %d != %d",
				len(pending), len(completed), len(tasks))
		}
		for _, task := range pending {
			if task.IsCompleted {
				t.Fatalf("completed task %q in pending half", task.ID)
			}
		}
		for _, task := range completed {
			if !task.IsCompleted {
				t.Fatalf("pending task %q in completed half", task.ID)
			}
		}
	})
}

func TestFilterProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := rapid.SliceOfN(rapid.Custom(genTask), 0, 30).Draw(t, "tasks")
		query := rapid.StringN(0, 10, 10).Draw(t, "query")

		got := Filter(tasks, query)
		// Filtering is a subset: never grows the input
		if len(got) > len(tasks) {
			t.Fatalf("filter grew the collection: %d > %d", len(got), len(tasks))
		}
		// Filtering twice with the same query is a no-op
		again := Filter(got, query)
		if len(again) != len(got) {
			t.Fatalf("filter not idempotent: %d != %d", len(again), len(got))
		}
	})
}

func TestStepProgressBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		task := Task{}
		n := rapid.IntRange(0, 50).Draw(t, "steps")
		for i := 0; i < n; i++ {
			task.Steps = append(task.Steps, Step{
				IsCompleted: rapid.Bool().Draw(t, "done"),
			})
		}
		p := task.StepProgress()
		if p < 0 || p > 100 {
			t.Fatalf("progress %d out of range", p)
		}
		if n == 0 && p != 0 {
			t.Fatalf("no steps should derive 0, got %d", p)
		}
	})
}
