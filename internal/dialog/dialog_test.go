package dialog

import (
	"sync"
	"testing"
)

func TestTracker_DefaultIsNone(t *testing.T) {
	tr := NewTracker()
	if got := tr.Get(1); got.Phase != PhaseNone {
		t.Errorf("Phase = %v, want PhaseNone", got.Phase)
	}
}

func TestTracker_SetGetClear(t *testing.T) {
	tr := NewTracker()

	tr.Set(1, State{Phase: PhaseNewTaskDeadline, Text: "Buy milk", Priority: "high"})
	got := tr.Get(1)
	if got.Phase != PhaseNewTaskDeadline || got.Text != "Buy milk" || got.Priority != "high" {
		t.Errorf("got %+v", got)
	}

	tr.Clear(1)
	if got := tr.Get(1); got.Phase != PhaseNone {
		t.Errorf("Phase after Clear = %v, want PhaseNone", got.Phase)
	}
}

func TestTracker_SetOverwrites(t *testing.T) {
	tr := NewTracker()

	tr.Set(1, State{Phase: PhaseNewTaskDeadline, Text: "old", Priority: "low"})
	tr.Set(1, State{Phase: PhaseNewTaskText})

	got := tr.Get(1)
	if got.Phase != PhaseNewTaskText {
		t.Errorf("Phase = %v, want PhaseNewTaskText", got.Phase)
	}
	if got.Text != "" || got.Priority != "" {
		t.Errorf("stale scratch survived overwrite: %+v", got)
	}
}

func TestTracker_OwnersIsolated(t *testing.T) {
	tr := NewTracker()

	tr.Set(1, State{Phase: PhaseNewTaskText})
	tr.Set(2, State{Phase: PhaseEditText, TaskID: 7})

	if got := tr.Get(1); got.Phase != PhaseNewTaskText || got.TaskID != 0 {
		t.Errorf("owner 1 state = %+v", got)
	}
	if got := tr.Get(2); got.Phase != PhaseEditText || got.TaskID != 7 {
		t.Errorf("owner 2 state = %+v", got)
	}

	tr.Clear(1)
	if got := tr.Get(2); got.Phase != PhaseEditText {
		t.Errorf("clearing owner 1 touched owner 2: %+v", got)
	}
}

func TestTracker_ConcurrentOwners(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(owner int64) {
			defer wg.Done()
			tr.Set(owner, State{Phase: PhaseNewTaskText, TaskID: owner})
			if got := tr.Get(owner); got.TaskID != owner {
				t.Errorf("owner %d read %+v", owner, got)
			}
			tr.Clear(owner)
		}(i)
	}
	wg.Wait()
}
