package inmemory

import (
	"maps"
	"sync"
)

type ActionCounts struct {
	OK     uint64 `json:"ok"`
	Failed uint64 `json:"failed"`
}

type Snapshot struct {
	ActionTotal      uint64                  `json:"action_total"`
	ActionSuccess    uint64                  `json:"action_success"`
	ActionFailure    uint64                  `json:"action_failure"`
	ByAction         map[string]ActionCounts `json:"by_action"`
	InventoryChanges uint64                  `json:"inventory_changes"`
}

// Recorder keeps process-local counters for the /ops/kpi endpoint.
type Recorder struct {
	mu       sync.Mutex
	byAction map[string]ActionCounts
	changes  uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]ActionCounts{},
	}
}

func (r *Recorder) RecordAction(action string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byAction[action]
	if ok {
		c.OK++
	} else {
		c.Failed++
	}
	r.byAction[action] = c
}

func (r *Recorder) RecordInventoryChange() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ByAction:         maps.Clone(r.byAction),
		InventoryChanges: r.changes,
	}
	for _, c := range r.byAction {
		out.ActionSuccess += c.OK
		out.ActionFailure += c.Failed
	}
	out.ActionTotal = out.ActionSuccess + out.ActionFailure
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
