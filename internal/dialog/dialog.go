// Package dialog tracks per-owner conversation state for multi-step
// interactions. All reads and writes go through Tracker so the
// one-dialog-per-owner invariant holds in one place.
package dialog

import "sync"

// Phase is the step an owner's dialog is waiting on.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseNewTaskText
	PhaseNewTaskPriority
	PhaseNewTaskDeadline
	PhaseEditText
	PhaseEditPriority
	PhaseEditDeadline
)

// State is the scratch collected so far in an in-progress dialog. It is
// replaced wholesale on every phase transition and discarded on
// completion.
type State struct {
	Phase    Phase
	Text     string // task text collected in the add flow
	Priority string // priority chosen in the add flow
	TaskID   int64  // target task for edit flows
}

// Tracker holds at most one State per owner. Starting a new dialog
// overwrites whatever was in progress for that owner.
type Tracker struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[int64]State)}
}

// Get returns the owner's current state, PhaseNone if absent.
func (t *Tracker) Get(ownerID int64) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[ownerID]
}

// Set replaces the owner's state.
func (t *Tracker) Set(ownerID int64, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[ownerID] = s
}

// Clear ends the owner's dialog.
func (t *Tracker) Clear(ownerID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, ownerID)
}
