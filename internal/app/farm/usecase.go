package farm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"homestead/internal/app/items"
	"homestead/internal/app/ports"
	"homestead/internal/domain/farming"
	"homestead/internal/domain/item"
)

var (
	ErrInvalidRequest           = errors.New("invalid farm request")
	ErrSceneNotBound            = errors.New("scene not bound")
	ErrActionPreconditionFailed = errors.New("action precondition failed")
)

const (
	ActionTill    = "till"
	ActionPlant   = "plant"
	ActionWater   = "water"
	ActionHarvest = "harvest"
)

type UseCase struct {
	Tracker  *farming.Tracker
	Items    *items.Service
	Catalog  *item.Catalog
	Scenes   ports.SceneProvider
	Metrics  ports.GameMetrics
	Logger   *slog.Logger
	SeedCost int
}

type InteractRequest struct {
	Target farming.Vec2 `json:"target"`
	Actor  farming.Vec2 `json:"actor"`
}

type PlantRequest struct {
	Target farming.Vec2 `json:"target"`
	Actor  farming.Vec2 `json:"actor"`
	SeedID item.ID      `json:"seed_id"`
}

type PlotResponse struct {
	Scene farming.SceneKey  `json:"scene"`
	Cell  farming.Cell      `json:"cell"`
	State farming.PlotState `json:"state"`
}

type HarvestResponse struct {
	PlotResponse
	Seed      item.ID `json:"seed"`
	Yield     item.ID `json:"yield,omitempty"`
	Added     int     `json:"added"`
	Remainder int     `json:"remainder"`
}

type EnterSceneRequest struct {
	Scene farming.SceneKey `json:"scene"`
}

type EnterSceneResponse struct {
	Scene farming.SceneKey `json:"scene"`
	Bound bool             `json:"bound"`
	Plots int              `json:"plots"`
}

type PlotsResponse struct {
	Scene farming.SceneKey     `json:"scene"`
	Bound bool                 `json:"bound"`
	Plots []farming.PlotRecord `json:"plots"`
}

func (u UseCase) Till(ctx context.Context, req InteractRequest) (PlotResponse, error) {
	ok := u.Tracker.TryTill(req.Target, req.Actor)
	return u.finish(ctx, ActionTill, req.Target, ok)
}

// Plant spends SeedCost seeds from the inventory. The tracker only advances
// the plot after the seeds were taken.
func (u UseCase) Plant(ctx context.Context, req PlantRequest) (PlotResponse, error) {
	if strings.TrimSpace(string(req.SeedID)) == "" {
		return PlotResponse{}, ErrInvalidRequest
	}
	seed, err := u.Catalog.Resolve(req.SeedID)
	if err != nil {
		return PlotResponse{}, err
	}
	ok := u.Tracker.TryPlant(req.Target, req.Actor, seed, u.seedCost(), u.Items)
	return u.finish(ctx, ActionPlant, req.Target, ok)
}

func (u UseCase) Water(ctx context.Context, req InteractRequest) (PlotResponse, error) {
	ok := u.Tracker.TryWater(req.Target, req.Actor)
	return u.finish(ctx, ActionWater, req.Target, ok)
}

// Harvest clears a watered crop and adds its yield. A yield the inventory
// cannot hold is reported as remainder, the plot stays harvested.
func (u UseCase) Harvest(ctx context.Context, req InteractRequest) (HarvestResponse, error) {
	seedID, ok := u.Tracker.TryHarvest(req.Target, req.Actor)
	plot, err := u.finish(ctx, ActionHarvest, req.Target, ok)
	if err != nil {
		return HarvestResponse{}, err
	}
	resp := HarvestResponse{PlotResponse: plot, Seed: seedID}

	seed, found := u.Catalog.Lookup(seedID)
	if !found || seed.Yield == "" {
		return resp, nil
	}
	yield, found := u.Catalog.Lookup(seed.Yield)
	if !found {
		return resp, nil
	}
	qty := seed.YieldQty
	if qty <= 0 {
		qty = 1
	}
	_, remainder := u.Items.Add(yield, qty)
	resp.Yield = yield.ID
	resp.Added = qty - remainder
	resp.Remainder = remainder
	if remainder > 0 {
		u.logger().WarnContext(ctx, "harvest yield did not fit", "item", string(yield.ID), "remainder", remainder)
	}
	return resp, nil
}

// EnterScene makes key the active scene and binds its layers when the scene
// has any. Scenes without farm layers stay unbound.
func (u UseCase) EnterScene(ctx context.Context, req EnterSceneRequest) (EnterSceneResponse, error) {
	key := farming.SceneKey(strings.TrimSpace(string(req.Scene)))
	if key == "" {
		return EnterSceneResponse{}, ErrInvalidRequest
	}
	u.Tracker.ActivateScene(key)
	if u.Scenes != nil {
		if b, ok := u.Scenes.Binding(key); ok {
			u.Tracker.BindScene(b)
		}
	}
	resp := EnterSceneResponse{Scene: key, Bound: u.Tracker.Bound(), Plots: len(u.Tracker.Plots())}
	u.logger().InfoContext(ctx, "scene entered", "scene", string(key), "bound", resp.Bound, "plots", resp.Plots)
	return resp, nil
}

func (u UseCase) Plots(_ context.Context) PlotsResponse {
	return PlotsResponse{
		Scene: u.Tracker.Scene(),
		Bound: u.Tracker.Bound(),
		Plots: u.Tracker.Plots(),
	}
}

// finish records the outcome of a tracker operation. Attempts on an unbound
// scene count as failures and surface as ErrSceneNotBound.
func (u UseCase) finish(ctx context.Context, action string, target farming.Vec2, ok bool) (PlotResponse, error) {
	if u.Metrics != nil {
		u.Metrics.RecordAction(action, ok)
	}
	cell, bound := u.Tracker.CellAt(target)
	if !bound {
		u.logger().DebugContext(ctx, "farm action", "action", action, "ok", ok, "scene", string(u.Tracker.Scene()), "bound", false)
		return PlotResponse{}, fmt.Errorf("%w: %s", ErrSceneNotBound, u.Tracker.Scene())
	}
	state := u.Tracker.GetState(cell)
	u.logger().DebugContext(ctx, "farm action", "action", action, "ok", ok, "x", cell.X, "y", cell.Y, "state", state.String())
	if !ok {
		return PlotResponse{}, fmt.Errorf("%w: %s at %d,%d (%s)", ErrActionPreconditionFailed, action, cell.X, cell.Y, state)
	}
	return PlotResponse{Scene: u.Tracker.Scene(), Cell: cell, State: state}, nil
}

func (u UseCase) seedCost() int {
	if u.SeedCost <= 0 {
		return 1
	}
	return u.SeedCost
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}
