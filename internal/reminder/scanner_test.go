package reminder

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dori/zenith/internal/notify"
	"github.com/dori/zenith/internal/storage"
	"github.com/dori/zenith/internal/store"
)

// fakeCapability records displayed notifications behind a settable
// permission state.
type fakeCapability struct {
	permission notify.Permission
	displayed  []string
	displayErr error
}

func (f *fakeCapability) Permission() notify.Permission { return f.permission }

func (f *fakeCapability) Request() notify.Permission {
	f.permission = notify.PermissionGranted
	return f.permission
}

func (f *fakeCapability) Display(title, body string) error {
	if f.displayErr != nil {
		return f.displayErr
	}
	f.displayed = append(f.displayed, body)
	return nil
}

func newTestScanner(t *testing.T, capability notify.Capability, now time.Time) (*Scanner, *store.Store) {
	t.Helper()
	st := store.New(storage.NewMemory(), log.New(io.Discard))
	if err := st.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	s := New(st, capability, log.New(io.Discard),
		WithClock(func() time.Time { return now }))
	return s, st
}

func TestCheckFiresOnceForOverdueTask(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	capability := &fakeCapability{permission: notify.PermissionGranted}
	s, st := newTestScanner(t, capability, now)

	st.Create(store.Draft{
		Title:   "Walk dog",
		DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})

	if fired := s.Check(); fired != 1 {
		t.Fatalf("first check fired %d, want 1", fired)
	}
	if len(capability.displayed) != 1 {
		t.Fatalf("displayed %d notifications, want 1", len(capability.displayed))
	}
	if want := `Your task "Walk dog" is overdue.`; capability.displayed[0] != want {
		t.Errorf("body = %q, want %q", capability.displayed[0], want)
	}

	// Same tick conditions again: suppressed by the notified set
	if fired := s.Check(); fired != 0 {
		t.Errorf("second check fired %d, want 0", fired)
	}
}

func TestCheckSkipsTasksNotYetDue(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	capability := &fakeCapability{permission: notify.PermissionGranted}
	s, st := newTestScanner(t, capability, now)

	st.Create(store.Draft{
		Title:   "Later today",
		DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})

	if fired := s.Check(); fired != 0 {
		t.Errorf("fired %d before the due instant, want 0", fired)
	}
}

func TestCheckSkipsTasksOverdueFromOtherDays(t *testing.T) {
	// Past due, but its due day has already gone by: the list view shows
	// it as missed, the scanner stays quiet.
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	capability := &fakeCapability{permission: notify.PermissionGranted}
	s, st := newTestScanner(t, capability, now)

	st.Create(store.Draft{
		Title:   "Yesterday's task",
		DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})

	if fired := s.Check(); fired != 0 {
		t.Errorf("fired %d for a task due yesterday, want 0", fired)
	}
}

func TestCheckSkipsCompletedTasks(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	capability := &fakeCapability{permission: notify.PermissionGranted}
	s, st := newTestScanner(t, capability, now)

	task := st.Create(store.Draft{
		Title:   "Done already",
		DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	st.ToggleComplete(task.ID)

	if fired := s.Check(); fired != 0 {
		t.Errorf("fired %d for a completed task, want 0", fired)
	}
}

func TestCheckWithoutPermissionSuppressesButKeepsEligible(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	capability := &fakeCapability{permission: notify.PermissionNotRequested}
	s, st := newTestScanner(t, capability, now)

	task := st.Create(store.Draft{
		Title:   "Walk dog",
		DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})

	if fired := s.Check(); fired != 0 {
		t.Fatalf("fired %d without permission, want 0", fired)
	}
	if st.IsNotified(task.ID) {
		t.Fatal("task marked notified while suppressed")
	}

	// Permission granted mid-session: the task fires on the next tick
	capability.Request()
	if fired := s.Check(); fired != 1 {
		t.Errorf("fired %d after granting permission, want 1", fired)
	}
}

func TestCheckMarksNotifiedEvenWhenDisplayFails(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	capability := &fakeCapability{
		permission: notify.PermissionGranted,
		displayErr: io.ErrUnexpectedEOF,
	}
	s, st := newTestScanner(t, capability, now)

	task := st.Create(store.Draft{
		Title:   "Walk dog",
		DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})

	s.Check()
	if !st.IsNotified(task.ID) {
		t.Error("a failed display should still mark the task, not retry forever")
	}
}

func TestNotifiedSetSurvivesReload(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	capability := &fakeCapability{permission: notify.PermissionGranted}

	kv := storage.NewMemory()
	st := store.New(kv, log.New(io.Discard))
	if err := st.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	st.Create(store.Draft{
		Title:   "Walk dog",
		DueDate: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})

	s := New(st, capability, log.New(io.Discard),
		WithClock(func() time.Time { return now }))
	if fired := s.Check(); fired != 1 {
		t.Fatalf("fired %d, want 1", fired)
	}

	// Simulated restart: new store and scanner over the same KV
	st2 := store.New(kv, log.New(io.Discard))
	if err := st2.Load(); err != nil {
		t.Fatalf("Failed to reload store: %v", err)
	}
	s2 := New(st2, capability, log.New(io.Discard),
		WithClock(func() time.Time { return now }))
	if fired := s2.Check(); fired != 0 {
		t.Errorf("fired %d after restart, want 0", fired)
	}
}
