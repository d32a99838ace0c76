package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"homestead/internal/app/items"
	"homestead/internal/app/ports"
	"homestead/internal/domain/farming"
	"homestead/internal/domain/inventory"
	"homestead/internal/domain/item"
)

var ErrInvalidRequest = errors.New("invalid session request")

type UseCase struct {
	TxManager ports.TxManager
	Saves     ports.SaveRepository
	Catalog   *item.Catalog
	Items     *items.Service
	Tracker   *farming.Tracker
	Scenes    ports.SceneProvider
	Logger    *slog.Logger
	Now       func() time.Time
}

type Request struct {
	OwnerID string `json:"owner_id"`
}

type SaveResponse struct {
	OwnerID string    `json:"owner_id"`
	Slots   int       `json:"slots"`
	Plots   int       `json:"plots"`
	SavedAt time.Time `json:"saved_at"`
}

type LoadResponse struct {
	OwnerID  string           `json:"owner_id"`
	Scene    farming.SceneKey `json:"scene"`
	Bound    bool             `json:"bound"`
	Capacity int              `json:"capacity"`
	Plots    int              `json:"plots"`
	SavedAt  time.Time        `json:"saved_at"`
}

// Save writes the occupied inventory slots and every recorded plot of every
// scene, replacing the owner's previous save.
func (u UseCase) Save(ctx context.Context, req Request) (SaveResponse, error) {
	owner := strings.TrimSpace(req.OwnerID)
	if owner == "" {
		return SaveResponse{}, ErrInvalidRequest
	}
	rec := ports.SaveRecord{
		OwnerID:  owner,
		Capacity: u.Items.Capacity(),
		Scene:    string(u.Tracker.Scene()),
		SavedAt:  u.now(),
	}
	for i, s := range u.Items.Slots() {
		if s.IsEmpty() {
			continue
		}
		rec.Slots = append(rec.Slots, ports.SlotRecord{Index: i, ItemID: string(s.Def.ID), Quantity: s.Quantity})
	}
	for _, p := range u.Tracker.Snapshot() {
		rec.Plots = append(rec.Plots, ports.PlotRecord{
			Scene:  string(p.Scene),
			X:      p.Cell.X,
			Y:      p.Cell.Y,
			State:  p.State.String(),
			SeedID: string(p.Seed),
		})
	}

	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.Saves.Save(txCtx, rec)
	})
	if err != nil {
		return SaveResponse{}, fmt.Errorf("save session %s: %w", owner, err)
	}
	u.logger().InfoContext(ctx, "session saved", "owner", owner, "slots", len(rec.Slots), "plots", len(rec.Plots))
	return SaveResponse{OwnerID: owner, Slots: len(rec.Slots), Plots: len(rec.Plots), SavedAt: rec.SavedAt}, nil
}

// Load decodes the whole save before touching live state, so a bad save
// leaves the running session as it was.
func (u UseCase) Load(ctx context.Context, req Request) (LoadResponse, error) {
	owner := strings.TrimSpace(req.OwnerID)
	if owner == "" {
		return LoadResponse{}, ErrInvalidRequest
	}
	var rec ports.SaveRecord
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		got, err := u.Saves.GetByOwnerID(txCtx, owner)
		if err != nil {
			return err
		}
		rec = got
		return nil
	})
	if err != nil {
		return LoadResponse{}, fmt.Errorf("load session %s: %w", owner, err)
	}

	inv, err := u.decodeInventory(rec)
	if err != nil {
		return LoadResponse{}, err
	}
	plots, err := decodePlots(rec.Plots)
	if err != nil {
		return LoadResponse{}, err
	}
	u.clearVisuals()
	if err := u.Tracker.Restore(plots); err != nil {
		return LoadResponse{}, fmt.Errorf("%w: %v", ports.ErrCorruptSave, err)
	}
	u.Items.Replace(inv)

	scene := farming.SceneKey(rec.Scene)
	if scene == "" {
		scene = u.Tracker.Scene()
	}
	u.Tracker.ActivateScene(scene)
	if u.Scenes != nil {
		if b, ok := u.Scenes.Binding(scene); ok {
			u.Tracker.BindScene(b)
		}
	}
	u.logger().InfoContext(ctx, "session loaded", "owner", owner, "scene", string(scene), "plots", len(plots))
	return LoadResponse{
		OwnerID:  owner,
		Scene:    scene,
		Bound:    u.Tracker.Bound(),
		Capacity: inv.Capacity(),
		Plots:    len(plots),
		SavedAt:  rec.SavedAt,
	}, nil
}

// clearVisuals wipes every painted cell the tracker knows about, including
// scenes that are not bound right now. Restore only repaints the bound one.
func (u UseCase) clearVisuals() {
	if u.Scenes == nil {
		return
	}
	for _, p := range u.Tracker.Snapshot() {
		b, ok := u.Scenes.Binding(p.Scene)
		if !ok {
			continue
		}
		if b.Overlay != nil {
			b.Overlay.SetVisual(p.Cell, "")
		}
		if b.Planted != nil {
			b.Planted.SetVisual(p.Cell, "")
		}
	}
}

func (u UseCase) decodeInventory(rec ports.SaveRecord) (*inventory.Inventory, error) {
	capacity := rec.Capacity
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity %d", ports.ErrCorruptSave, capacity)
	}
	slots := make([]item.Stack, capacity)
	for _, s := range rec.Slots {
		if s.Index < 0 || s.Index >= capacity {
			return nil, fmt.Errorf("%w: slot %d outside capacity %d", ports.ErrCorruptSave, s.Index, capacity)
		}
		if s.Quantity <= 0 {
			continue
		}
		def, err := u.Catalog.Resolve(item.ID(s.ItemID))
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", s.Index, err)
		}
		slots[s.Index] = item.Stack{Def: def, Quantity: s.Quantity}
	}
	inv, err := inventory.FromSlots(slots)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrCorruptSave, err)
	}
	return inv, nil
}

func decodePlots(in []ports.PlotRecord) ([]farming.PlotRecord, error) {
	out := make([]farming.PlotRecord, 0, len(in))
	for _, p := range in {
		state, err := farming.ParsePlotState(p.State)
		if err != nil {
			return nil, fmt.Errorf("%w: plot %s %d,%d: %v", ports.ErrCorruptSave, p.Scene, p.X, p.Y, err)
		}
		out = append(out, farming.PlotRecord{
			Scene: farming.SceneKey(p.Scene),
			Cell:  farming.Cell{X: p.X, Y: p.Y},
			State: state,
			Seed:  item.ID(p.SeedID),
		})
	}
	return out, nil
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now().UTC()
	}
	return u.Now()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
