// Package metrics holds helpers shared by the metrics adapters.
package metrics

import "homestead/internal/app/ports"

// Fanout forwards every observation to each non-nil recorder.
type Fanout []ports.GameMetrics

func NewFanout(recorders ...ports.GameMetrics) Fanout {
	out := make(Fanout, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (f Fanout) RecordAction(action string, ok bool) {
	for _, r := range f {
		r.RecordAction(action, ok)
	}
}

func (f Fanout) RecordInventoryChange() {
	for _, r := range f {
		r.RecordInventoryChange()
	}
}
