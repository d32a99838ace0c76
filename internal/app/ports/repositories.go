package ports

import (
	"context"
	"time"
)

type SlotRecord struct {
	Index    int
	ItemID   string
	Quantity int
}

type PlotRecord struct {
	Scene  string
	X      int
	Y      int
	State  string
	SeedID string
}

// SaveRecord is the full persisted game state of one owner: every inventory
// slot and every non-default plot of every scene.
type SaveRecord struct {
	OwnerID  string
	Capacity int
	Scene    string
	Slots    []SlotRecord
	Plots    []PlotRecord
	SavedAt  time.Time
}

type SaveRepository interface {
	GetByOwnerID(ctx context.Context, ownerID string) (SaveRecord, error)
	Save(ctx context.Context, record SaveRecord) error
}
