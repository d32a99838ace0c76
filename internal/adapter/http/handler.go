package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"homestead/internal/adapter/world/runtime"
	"homestead/internal/app/farm"
	"homestead/internal/app/items"
	"homestead/internal/app/ports"
	"homestead/internal/app/session"
	"homestead/internal/domain/farming"
	"homestead/internal/domain/inventory"
	"homestead/internal/domain/item"
	"homestead/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Handler exposes one game session over HTTP. Every route that reads or
// mutates the session runs under Serial, since the domain objects are not
// safe for concurrent use.
type Handler struct {
	InventoryUC items.UseCase
	FarmUC      farm.UseCase
	SessionUC   session.UseCase
	Scenes      *runtime.Provider
	KPI         kpiSnapshotProvider
	Metrics     http.Handler
	OwnerID     string
	CORSOrigin  string
	Serial      *sync.Mutex
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigin))

	inv := s.Group("/api/inventory")
	inv.GET("", h.inventory)
	inv.POST("/add", h.inventoryAdd)
	inv.POST("/remove", h.inventoryRemove)
	inv.POST("/move", h.inventoryMove)

	f := s.Group("/api/farm")
	f.POST("/till", h.till)
	f.POST("/plant", h.plant)
	f.POST("/water", h.water)
	f.POST("/harvest", h.harvest)
	f.GET("/plots", h.plots)

	sc := s.Group("/api/scene")
	sc.POST("/enter", h.enterScene)
	sc.GET("/visuals", h.sceneVisuals)

	sess := s.Group("/api/session")
	sess.POST("/save", h.save)
	sess.POST("/load", h.load)

	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

func (h Handler) serialize() func() {
	if h.Serial == nil {
		return func() {}
	}
	h.Serial.Lock()
	return h.Serial.Unlock
}

func (h Handler) inventory(c context.Context, ctx *app.RequestContext) {
	defer h.serialize()()
	ctx.JSON(consts.StatusOK, h.InventoryUC.View(c))
}

func (h Handler) inventoryAdd(c context.Context, ctx *app.RequestContext) {
	var body items.AddRequest
	if !bindJSON(ctx, &body) {
		return
	}
	defer h.serialize()()
	resp, err := h.InventoryUC.Add(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) inventoryRemove(c context.Context, ctx *app.RequestContext) {
	var body items.RemoveRequest
	if !bindJSON(ctx, &body) {
		return
	}
	defer h.serialize()()
	resp, err := h.InventoryUC.Remove(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) inventoryMove(c context.Context, ctx *app.RequestContext) {
	var body items.MoveRequest
	if !bindJSON(ctx, &body) {
		return
	}
	defer h.serialize()()
	resp, err := h.InventoryUC.Move(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) till(c context.Context, ctx *app.RequestContext) {
	h.interact(c, ctx, h.FarmUC.Till)
}

func (h Handler) water(c context.Context, ctx *app.RequestContext) {
	h.interact(c, ctx, h.FarmUC.Water)
}

func (h Handler) interact(c context.Context, ctx *app.RequestContext, op func(context.Context, farm.InteractRequest) (farm.PlotResponse, error)) {
	var body farm.InteractRequest
	if !bindJSON(ctx, &body) {
		return
	}
	defer h.serialize()()
	resp, err := op(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) plant(c context.Context, ctx *app.RequestContext) {
	var body farm.PlantRequest
	if !bindJSON(ctx, &body) {
		return
	}
	defer h.serialize()()
	resp, err := h.FarmUC.Plant(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) harvest(c context.Context, ctx *app.RequestContext) {
	var body farm.InteractRequest
	if !bindJSON(ctx, &body) {
		return
	}
	defer h.serialize()()
	resp, err := h.FarmUC.Harvest(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) plots(c context.Context, ctx *app.RequestContext) {
	defer h.serialize()()
	ctx.JSON(consts.StatusOK, h.FarmUC.Plots(c))
}

func (h Handler) enterScene(c context.Context, ctx *app.RequestContext) {
	var body farm.EnterSceneRequest
	if !bindJSON(ctx, &body) {
		return
	}
	if h.Scenes != nil && !h.Scenes.Has(body.Scene) {
		writeError(ctx, runtime.ErrUnknownScene)
		return
	}
	defer h.serialize()()
	resp, err := h.FarmUC.EnterScene(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type visualsResponse struct {
	Scene   farming.SceneKey `json:"scene"`
	Overlay []world.Visual   `json:"overlay"`
	Planted []world.Visual   `json:"planted"`
}

// sceneVisuals reports what the paint layers of a scene currently show.
// Without ?scene it reports the active scene.
func (h Handler) sceneVisuals(_ context.Context, ctx *app.RequestContext) {
	if h.Scenes == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "scene provider not configured")
		return
	}
	defer h.serialize()()
	key := farming.SceneKey(strings.TrimSpace(string(ctx.Query("scene"))))
	if key == "" {
		key = h.FarmUC.Tracker.Scene()
	}
	sc, err := h.Scenes.Scene(key)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, visualsResponse{
		Scene:   sc.Key,
		Overlay: sc.Overlay.Visuals(),
		Planted: sc.Planted.Visuals(),
	})
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	var body session.Request
	if !bindJSON(ctx, &body) {
		return
	}
	h.defaultOwner(&body)
	defer h.serialize()()
	resp, err := h.SessionUC.Save(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) load(c context.Context, ctx *app.RequestContext) {
	var body session.Request
	if !bindJSON(ctx, &body) {
		return
	}
	h.defaultOwner(&body)
	defer h.serialize()()
	resp, err := h.SessionUC.Load(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) defaultOwner(req *session.Request) {
	if strings.TrimSpace(req.OwnerID) == "" {
		req.OwnerID = h.OwnerID
	}
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func bindJSON(ctx *app.RequestContext, out any) bool {
	if err := decodeJSON(ctx, out); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return false
	}
	return true
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, items.ErrInvalidRequest),
		errors.Is(err, farm.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, item.ErrUnknownItem):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_item", err.Error())
	case errors.Is(err, inventory.ErrSlotOutOfRange):
		writeErrorBody(ctx, consts.StatusBadRequest, "slot_out_of_range", err.Error())
	case errors.Is(err, items.ErrInventoryFull):
		writeErrorBody(ctx, consts.StatusConflict, "INVENTORY_FULL", err.Error())
	case errors.Is(err, items.ErrInsufficientItems):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_items", err.Error())
	case errors.Is(err, farm.ErrSceneNotBound):
		writeErrorBody(ctx, consts.StatusConflict, "scene_not_bound", err.Error())
	case errors.Is(err, farm.ErrActionPreconditionFailed):
		writeErrorBody(ctx, consts.StatusConflict, "action_precondition_failed", err.Error())
	case errors.Is(err, runtime.ErrUnknownScene):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_scene", err.Error())
	case errors.Is(err, ports.ErrCorruptSave):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "corrupt_save", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
