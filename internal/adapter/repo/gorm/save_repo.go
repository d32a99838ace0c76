package gormrepo

import (
	"context"
	"errors"
	"time"

	"homestead/internal/adapter/repo/gorm/model"
	"homestead/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveRepo struct {
	db *gorm.DB
}

func NewSaveRepo(db *gorm.DB) SaveRepo {
	return SaveRepo{db: db}
}

func (r SaveRepo) GetByOwnerID(ctx context.Context, ownerID string) (ports.SaveRecord, error) {
	db := dbFrom(ctx, r.db)
	var game model.SaveGame
	if err := db.Where("owner_id = ?", ownerID).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SaveRecord{}, ports.ErrNotFound
		}
		return ports.SaveRecord{}, err
	}

	var slots []model.InventorySlot
	if err := db.Where("owner_id = ?", ownerID).Order("slot_index ASC").Find(&slots).Error; err != nil {
		return ports.SaveRecord{}, err
	}
	var plots []model.FarmPlot
	if err := db.Where("owner_id = ?", ownerID).Order("scene ASC, y ASC, x ASC").Find(&plots).Error; err != nil {
		return ports.SaveRecord{}, err
	}

	rec := ports.SaveRecord{
		OwnerID:  game.OwnerID,
		Capacity: int(game.Capacity),
		Scene:    game.Scene,
		SavedAt:  game.SavedAt,
		Slots:    make([]ports.SlotRecord, 0, len(slots)),
		Plots:    make([]ports.PlotRecord, 0, len(plots)),
	}
	for _, s := range slots {
		rec.Slots = append(rec.Slots, ports.SlotRecord{Index: int(s.SlotIndex), ItemID: s.ItemID, Quantity: int(s.Quantity)})
	}
	for _, p := range plots {
		rec.Plots = append(rec.Plots, ports.PlotRecord{Scene: p.Scene, X: int(p.X), Y: int(p.Y), State: p.State, SeedID: p.SeedID})
	}
	return rec, nil
}

// Save upserts the header row and rewrites the owner's slots and plots.
// Run it inside a transaction so readers never see a half-written save.
func (r SaveRepo) Save(ctx context.Context, record ports.SaveRecord) error {
	db := dbFrom(ctx, r.db)
	game := model.SaveGame{
		OwnerID:   record.OwnerID,
		Capacity:  int32(record.Capacity),
		Scene:     record.Scene,
		SavedAt:   record.SavedAt,
		UpdatedAt: time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"capacity", "scene", "saved_at", "updated_at"}),
	}).Create(&game).Error
	if err != nil {
		return err
	}

	if err := db.Where("owner_id = ?", record.OwnerID).Delete(&model.InventorySlot{}).Error; err != nil {
		return err
	}
	if err := db.Where("owner_id = ?", record.OwnerID).Delete(&model.FarmPlot{}).Error; err != nil {
		return err
	}

	if len(record.Slots) > 0 {
		rows := make([]model.InventorySlot, 0, len(record.Slots))
		for _, s := range record.Slots {
			rows = append(rows, model.InventorySlot{
				OwnerID:   record.OwnerID,
				SlotIndex: int32(s.Index),
				ItemID:    s.ItemID,
				Quantity:  int32(s.Quantity),
			})
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}
	if len(record.Plots) > 0 {
		rows := make([]model.FarmPlot, 0, len(record.Plots))
		for _, p := range record.Plots {
			rows = append(rows, model.FarmPlot{
				OwnerID: record.OwnerID,
				Scene:   p.Scene,
				X:       int32(p.X),
				Y:       int32(p.Y),
				State:   p.State,
				SeedID:  p.SeedID,
			})
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}
