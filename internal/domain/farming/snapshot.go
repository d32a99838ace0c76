package farming

import (
	"cmp"
	"fmt"
	"slices"

	"homestead/internal/domain/item"
)

// PlotRecord is one non-default cell of one scene, as handed to persistence.
type PlotRecord struct {
	Scene SceneKey  `json:"scene"`
	Cell  Cell      `json:"cell"`
	State PlotState `json:"state"`
	Seed  item.ID   `json:"seed,omitempty"`
}

// Snapshot lists every recorded cell of every scene in a stable order.
func (t *Tracker) Snapshot() []PlotRecord {
	out := make([]PlotRecord, 0)
	for scene, m := range t.scenes {
		for cell, p := range m {
			out = append(out, PlotRecord{Scene: scene, Cell: cell, State: p.state, Seed: p.seed})
		}
	}
	sortRecords(out)
	return out
}

// Plots lists the recorded cells of the current scene.
func (t *Tracker) Plots() []PlotRecord {
	m := t.stateMap()
	out := make([]PlotRecord, 0, len(m))
	for cell, p := range m {
		out = append(out, PlotRecord{Scene: t.scene, Cell: cell, State: p.state, Seed: p.seed})
	}
	sortRecords(out)
	return out
}

// Restore replaces all stored plot state. The current scene stays active and,
// when bound, is repainted from the restored records.
func (t *Tracker) Restore(records []PlotRecord) error {
	scenes := make(map[SceneKey]map[Cell]plot)
	for _, r := range records {
		if !r.State.Valid() {
			return fmt.Errorf("restore plot %s %v: invalid state %d", r.Scene, r.Cell, int(r.State))
		}
		if r.State == Untilled {
			continue
		}
		m, ok := scenes[r.Scene]
		if !ok {
			m = make(map[Cell]plot)
			scenes[r.Scene] = m
		}
		p := plot{state: r.State}
		if r.State.HasCrop() {
			p.seed = r.Seed
		}
		m[r.Cell] = p
	}

	if t.bound {
		for cell := range t.stateMap() {
			if _, kept := scenes[t.scene][cell]; !kept {
				t.paint(cell, plot{})
			}
		}
	}
	t.scenes = scenes
	if t.bound {
		t.BindScene(t.binding)
	}
	return nil
}

func sortRecords(rs []PlotRecord) {
	slices.SortFunc(rs, func(a, b PlotRecord) int {
		return cmp.Or(
			cmp.Compare(a.Scene, b.Scene),
			cmp.Compare(a.Cell.Y, b.Cell.Y),
			cmp.Compare(a.Cell.X, b.Cell.X),
		)
	})
}
