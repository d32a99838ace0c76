package memory

import (
	"slices"
	"sync"

	"homestead/internal/app/ports"
)

type Store struct {
	mu    sync.RWMutex
	saves map[string]ports.SaveRecord
}

func NewStore() *Store {
	return &Store{
		saves: make(map[string]ports.SaveRecord),
	}
}

// SeedSave installs rec as the owner's save, bypassing the repository.
func (s *Store) SeedSave(rec ports.SaveRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[rec.OwnerID] = cloneSave(rec)
}

func cloneSave(rec ports.SaveRecord) ports.SaveRecord {
	rec.Slots = slices.Clone(rec.Slots)
	rec.Plots = slices.Clone(rec.Plots)
	return rec
}
