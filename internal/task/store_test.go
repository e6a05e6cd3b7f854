package task

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndList(t *testing.T) {
	s := newTestStore(t)

	id, err := s.Create(1, "Buy milk", "2025-01-01", PriorityHigh, "")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}

	tasks, err := s.List(1, StatusPending)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("len = %d, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Text != "Buy milk" || got.Status != StatusPending || got.Priority != PriorityHigh {
		t.Errorf("got %+v", got)
	}
	if got.DueAt != "" {
		t.Errorf("DueAt = %q, want empty", got.DueAt)
	}
	if got.CreatedOn != "2025-01-01" {
		t.Errorf("CreatedOn = %q", got.CreatedOn)
	}
}

func TestList_FiltersByStatus(t *testing.T) {
	s := newTestStore(t)

	id1, _ := s.Create(1, "a", "2025-01-01", PriorityLow, "")
	id2, _ := s.Create(1, "b", "2025-01-01", PriorityLow, "")
	if err := s.UpdateStatus(id1, StatusDone); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}

	pending, err := s.List(1, StatusPending)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != id2 {
		t.Errorf("pending = %+v, want only task %d", pending, id2)
	}
	for _, got := range pending {
		if got.Status != StatusPending {
			t.Errorf("pending list contains status %q", got.Status)
		}
	}
}

func TestList_IsolatedByOwner(t *testing.T) {
	s := newTestStore(t)

	_, _ = s.Create(1, "mine", "2025-01-01", PriorityNone, "")
	_, _ = s.Create(2, "yours", "2025-01-01", PriorityNone, "")

	tasks, err := s.List(1, StatusPending)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "mine" {
		t.Errorf("owner 1 sees %+v", tasks)
	}
}

func TestListGroupedByDate(t *testing.T) {
	s := newTestStore(t)

	id1, _ := s.Create(1, "a", "2025-01-01", PriorityNone, "")
	id2, _ := s.Create(1, "b", "2025-01-02", PriorityNone, "")
	id3, _ := s.Create(1, "c", "2025-01-02", PriorityNone, "")
	for _, id := range []int64{id1, id2, id3} {
		if err := s.UpdateStatus(id, StatusDone); err != nil {
			t.Fatalf("UpdateStatus error: %v", err)
		}
	}

	grouped, err := s.ListGroupedByDate(1, StatusDone)
	if err != nil {
		t.Fatalf("ListGroupedByDate error: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("groups = %d, want 2", len(grouped))
	}
	if len(grouped["2025-01-01"]) != 1 || len(grouped["2025-01-02"]) != 2 {
		t.Errorf("grouped = %+v", grouped)
	}
	if grouped["2025-01-02"][0].Text != "b" || grouped["2025-01-02"][1].Text != "c" {
		t.Errorf("group order = %+v", grouped["2025-01-02"])
	}
}

func TestListGroupedByDate_Empty(t *testing.T) {
	s := newTestStore(t)

	grouped, err := s.ListGroupedByDate(1, StatusDone)
	if err != nil {
		t.Fatalf("ListGroupedByDate error: %v", err)
	}
	if len(grouped) != 0 {
		t.Errorf("grouped = %+v, want empty", grouped)
	}
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	s := newTestStore(t)

	id, _ := s.Create(1, "a", "2025-01-01", PriorityNone, "")
	for i := 0; i < 2; i++ {
		if err := s.UpdateStatus(id, StatusDone); err != nil {
			t.Fatalf("UpdateStatus #%d error: %v", i+1, err)
		}
		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if got.Status != StatusDone {
			t.Errorf("Status = %q, want done", got.Status)
		}
	}
}

func TestUpdate_AbsentIDIsNoop(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpdateStatus(9999, StatusDone); err != nil {
		t.Errorf("UpdateStatus absent id error: %v", err)
	}
	if err := s.UpdateText(9999, "x"); err != nil {
		t.Errorf("UpdateText absent id error: %v", err)
	}
}

func TestUpdateFields(t *testing.T) {
	s := newTestStore(t)

	id, _ := s.Create(1, "old", "2025-01-01", PriorityLow, "")

	if err := s.UpdateText(id, "new"); err != nil {
		t.Fatalf("UpdateText error: %v", err)
	}
	if err := s.UpdatePriority(id, PriorityHigh); err != nil {
		t.Fatalf("UpdatePriority error: %v", err)
	}
	if err := s.UpdateDue(id, "2025-12-25 14:30"); err != nil {
		t.Fatalf("UpdateDue error: %v", err)
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Text != "new" || got.Priority != PriorityHigh || got.DueAt != "2025-12-25 14:30" {
		t.Errorf("got %+v", got)
	}

	// Clearing the deadline is distinct from never having one
	if err := s.UpdateDue(id, ""); err != nil {
		t.Fatalf("UpdateDue clear error: %v", err)
	}
	got, _ = s.Get(id)
	if got.DueAt != "" {
		t.Errorf("DueAt = %q after clear", got.DueAt)
	}
}

func TestParsePriority(t *testing.T) {
	for _, valid := range []string{"high", "medium", "low"} {
		if _, ok := ParsePriority(valid); !ok {
			t.Errorf("ParsePriority(%q) not ok", valid)
		}
	}
	for _, invalid := range []string{"", "urgent", "HIGH"} {
		if _, ok := ParsePriority(invalid); ok {
			t.Errorf("ParsePriority(%q) unexpectedly ok", invalid)
		}
	}
}

func TestMaintain(t *testing.T) {
	s := newTestStore(t)
	if err := s.Maintain(); err != nil {
		t.Errorf("Maintain error: %v", err)
	}
}
