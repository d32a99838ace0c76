package memory

import (
	"context"

	"homestead/internal/app/ports"
)

// SaveRepo expects callers to hold the store lock through TxManager.
type SaveRepo struct {
	store *Store
}

func NewSaveRepo(store *Store) SaveRepo {
	return SaveRepo{store: store}
}

func (r SaveRepo) GetByOwnerID(_ context.Context, ownerID string) (ports.SaveRecord, error) {
	rec, ok := r.store.saves[ownerID]
	if !ok {
		return ports.SaveRecord{}, ports.ErrNotFound
	}
	return cloneSave(rec), nil
}

func (r SaveRepo) Save(_ context.Context, record ports.SaveRecord) error {
	r.store.saves[record.OwnerID] = cloneSave(record)
	return nil
}
