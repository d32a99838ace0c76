package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"homestead/internal/adapter/repo/memory"
	"homestead/internal/adapter/world/runtime"
	"homestead/internal/app/items"
	"homestead/internal/app/ports"
	"homestead/internal/domain/farming"
	"homestead/internal/domain/inventory"
	"homestead/internal/domain/item"
	"homestead/internal/domain/world"
)

type game struct {
	uc      UseCase
	store   *memory.Store
	scenes  *runtime.Provider
	catalog *item.Catalog
}

func newGame(t *testing.T, store *memory.Store) game {
	t.Helper()
	catalog, err := item.NewCatalog(
		item.Definition{ID: "wheat", DisplayName: "Wheat", MaxStack: 99},
		item.Definition{ID: "seed_wheat", DisplayName: "Wheat Seed", MaxStack: 10, PlantVisual: "crop_wheat", Yield: "wheat"},
	)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	scenes, err := runtime.NewProvider([]runtime.SceneDef{
		{Key: "Farm", Rows: []string{"ddd", "ddd"}, Legend: map[string]world.TileKind{"d": world.TileDirt}, Farmable: true, TilledToken: "soil"},
		{Key: "House", Rows: []string{"f"}, Legend: map[string]world.TileKind{"f": world.TileFloor}},
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	tracker, err := farming.NewTracker(farming.Config{
		MaxInteractDistance: 1.6,
		Tillable:            farming.NewTillableSet(farming.Terrain(world.TileDirt)),
		Seeds:               catalog,
	}, "Farm")
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	b, _ := scenes.Binding("Farm")
	tracker.BindScene(b)
	return game{
		uc: UseCase{
			TxManager: memory.NewTxManager(store),
			Saves:     memory.NewSaveRepo(store),
			Catalog:   catalog,
			Items:     items.NewService(inventory.New(4)),
			Tracker:   tracker,
			Scenes:    scenes,
			Now:       func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		},
		store:   store,
		scenes:  scenes,
		catalog: catalog,
	}
}

func TestSaveLoad_RestoresInventoryAndPlots(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	g := newGame(t, store)
	seed, _ := g.catalog.Lookup("seed_wheat")
	g.uc.Items.Add(seed, 3)
	if err := g.uc.Items.Move(0, 2); err != nil {
		t.Fatalf("move: %v", err)
	}
	p := farming.Vec2{X: 1.5, Y: 0.5}
	if !g.uc.Tracker.TryTill(p, p) {
		t.Fatalf("till failed")
	}
	if !g.uc.Tracker.TryPlant(p, p, seed, 1, g.uc.Items) {
		t.Fatalf("plant failed")
	}

	saved, err := g.uc.Save(ctx, Request{OwnerID: "p1"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Slots != 1 || saved.Plots != 1 {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	fresh := newGame(t, store)
	fresh.uc.Tracker.ActivateScene("House")
	loaded, err := fresh.uc.Load(ctx, Request{OwnerID: "p1"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Scene != "Farm" || !loaded.Bound || loaded.Capacity != 4 || loaded.Plots != 1 {
		t.Fatalf("unexpected load response: %+v", loaded)
	}
	slot := fresh.uc.Items.Slots()[2]
	if slot.ItemID() != "seed_wheat" || slot.Quantity != 2 {
		t.Fatalf("slot 2: got %s x%d", slot.ItemID(), slot.Quantity)
	}
	if got := fresh.uc.Tracker.GetState(farming.Cell{X: 1, Y: 0}); got != farming.Planted {
		t.Fatalf("state: got %v want Planted", got)
	}
	scene, _ := fresh.scenes.Scene("Farm")
	if got, _ := scene.Planted.VisualAt(farming.Cell{X: 1, Y: 0}); got != "crop_wheat" {
		t.Fatalf("crop visual not repainted, got %q", got)
	}
	if got, _ := scene.Overlay.VisualAt(farming.Cell{X: 1, Y: 0}); got != "soil" {
		t.Fatalf("overlay not repainted, got %q", got)
	}
}

func TestLoad_MissingSave(t *testing.T) {
	g := newGame(t, memory.NewStore())
	if _, err := g.uc.Load(context.Background(), Request{OwnerID: "ghost"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := g.uc.Load(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestLoad_BadSaveLeavesSessionUntouched(t *testing.T) {
	cases := []struct {
		name string
		rec  ports.SaveRecord
		want error
	}{
		{
			name: "unknown item",
			rec:  ports.SaveRecord{OwnerID: "p1", Capacity: 2, Slots: []ports.SlotRecord{{Index: 0, ItemID: "mystery", Quantity: 1}}},
			want: item.ErrUnknownItem,
		},
		{
			name: "slot outside capacity",
			rec:  ports.SaveRecord{OwnerID: "p1", Capacity: 2, Slots: []ports.SlotRecord{{Index: 5, ItemID: "wheat", Quantity: 1}}},
			want: ports.ErrCorruptSave,
		},
		{
			name: "over max stack",
			rec:  ports.SaveRecord{OwnerID: "p1", Capacity: 2, Slots: []ports.SlotRecord{{Index: 0, ItemID: "seed_wheat", Quantity: 11}}},
			want: ports.ErrCorruptSave,
		},
		{
			name: "bad plot state",
			rec:  ports.SaveRecord{OwnerID: "p1", Capacity: 2, Plots: []ports.PlotRecord{{Scene: "Farm", State: "flooded"}}},
			want: ports.ErrCorruptSave,
		},
		{
			name: "zero capacity",
			rec:  ports.SaveRecord{OwnerID: "p1"},
			want: ports.ErrCorruptSave,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewStore()
			store.SeedSave(tc.rec)
			g := newGame(t, store)
			wheat, _ := g.catalog.Lookup("wheat")
			g.uc.Items.Add(wheat, 7)
			g.uc.Tracker.SetState(farming.Cell{}, farming.Tilled)

			_, err := g.uc.Load(context.Background(), Request{OwnerID: "p1"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if got := g.uc.Items.Count(wheat); got != 7 {
				t.Fatalf("inventory changed on failed load: %d", got)
			}
			if got := g.uc.Tracker.GetState(farming.Cell{}); got != farming.Tilled {
				t.Fatalf("plots changed on failed load: %v", got)
			}
		})
	}
}

func TestLoad_ClearsVisualsOfInactiveScenes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SeedSave(ports.SaveRecord{OwnerID: "p1", Capacity: 2, Scene: "House"})
	g := newGame(t, store)

	p := farming.Vec2{X: 0.5, Y: 0.5}
	if !g.uc.Tracker.TryTill(p, p) {
		t.Fatalf("till failed")
	}
	g.uc.Tracker.ActivateScene("House")

	if _, err := g.uc.Load(ctx, Request{OwnerID: "p1"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	farm, _ := g.scenes.Scene("Farm")
	if farm.Overlay.Len() != 0 {
		t.Fatalf("farm overlay kept %d stale visuals", farm.Overlay.Len())
	}
	if got := g.uc.Tracker.Scene(); got != "House" {
		t.Fatalf("scene: got %q want House", got)
	}
}
