package farming

import (
	"errors"
	"fmt"
	"log/slog"

	"homestead/internal/domain/item"
)

// DefaultInteractDistance is the reach used when configuration leaves it unset.
const DefaultInteractDistance = 1.6

var ErrInvalidInteractDistance = errors.New("interact max distance must be positive")

// SeedLookup resolves the definition of a planted seed when crop visuals are
// re-derived from stored state.
type SeedLookup interface {
	Lookup(id item.ID) (*item.Definition, bool)
}

type Config struct {
	MaxInteractDistance float64
	Tillable            TillableSet
	Seeds               SeedLookup
	Logger              *slog.Logger
}

type plot struct {
	state PlotState
	seed  item.ID
	crop  Token
}

// Tracker records plot state per scene and keeps the bound scene's visual
// layers in sync with it. A cell missing from a scene map is Untilled.
type Tracker struct {
	cfg       Config
	maxDistSq float64
	log       *slog.Logger

	scenes  map[SceneKey]map[Cell]plot
	scene   SceneKey
	binding SceneBinding
	bound   bool
}

func NewTracker(cfg Config, initial SceneKey) (*Tracker, error) {
	if cfg.MaxInteractDistance <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidInteractDistance, cfg.MaxInteractDistance)
	}
	if cfg.Tillable == nil {
		cfg.Tillable = TillableSet{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		cfg:       cfg,
		maxDistSq: cfg.MaxInteractDistance * cfg.MaxInteractDistance,
		log:       logger.With("component", "farming"),
		scenes:    make(map[SceneKey]map[Cell]plot),
		scene:     initial,
	}, nil
}

func (t *Tracker) Scene() SceneKey { return t.scene }

func (t *Tracker) Bound() bool { return t.bound }

// ActivateScene switches the current scene and drops the surfaces of the
// previous one. Operations fail until BindScene is called again.
func (t *Tracker) ActivateScene(key SceneKey) {
	t.scene = key
	t.Unbind()
}

func (t *Tracker) Unbind() {
	t.binding = SceneBinding{}
	t.bound = false
}

// BindScene attaches the active scene's surfaces and repaints every recorded
// cell of that scene from stored state.
func (t *Tracker) BindScene(b SceneBinding) {
	t.binding = b
	t.bound = true
	for cell, p := range t.stateMap() {
		t.paint(cell, p)
	}
}

func (t *Tracker) GetState(cell Cell) PlotState {
	return t.stateMap()[cell].state
}

// SetState writes state unconditionally; transition rules live in the Try
// operations. A crop's seed survives only while the cell still has a crop.
// Crop states paint the cell's stored crop visual, or the binding's default
// planted token when no seed was recorded; TryPlant records the seed and
// paints its own visual.
func (t *Tracker) SetState(cell Cell, state PlotState) {
	m := t.stateMap()
	p := m[cell]
	p.state = state
	if !state.HasCrop() {
		p.seed = ""
		p.crop = ""
	}
	t.write(cell, p)
}

func (t *Tracker) TryTill(worldPoint, actor Vec2) bool {
	cell, ok := t.reach("till", worldPoint, actor)
	if !ok {
		return false
	}
	if t.GetState(cell) != Untilled {
		return false
	}
	if !t.tillable(cell) {
		return false
	}
	t.SetState(cell, Tilled)
	return true
}

// TryPlant consumes cost units of seed from remover and plants the cell.
// Nothing is consumed unless every gate passes, and the plot is untouched
// unless the removal succeeds.
func (t *Tracker) TryPlant(worldPoint, actor Vec2, seed *item.Definition, cost int, remover SeedRemover) bool {
	if seed == nil || remover == nil || cost <= 0 {
		return false
	}
	cell, ok := t.reach("plant", worldPoint, actor)
	if !ok {
		return false
	}
	if t.GetState(cell) != Tilled {
		return false
	}
	if !t.tillable(cell) {
		return false
	}
	if !remover.TryRemove(seed, cost) {
		return false
	}
	t.write(cell, plot{state: Planted, seed: seed.ID, crop: Token(seed.PlantVisual)})
	return true
}

func (t *Tracker) TryWater(worldPoint, actor Vec2) bool {
	cell, ok := t.reach("water", worldPoint, actor)
	if !ok {
		return false
	}
	if t.GetState(cell) != Planted {
		return false
	}
	t.SetState(cell, Watered)
	return true
}

// TryHarvest returns a watered cell to Tilled and reports the seed that was
// growing there so the caller can grant its yield.
func (t *Tracker) TryHarvest(worldPoint, actor Vec2) (item.ID, bool) {
	cell, ok := t.reach("harvest", worldPoint, actor)
	if !ok {
		return "", false
	}
	p := t.stateMap()[cell]
	if p.state != Watered {
		return "", false
	}
	t.SetState(cell, Tilled)
	return p.seed, true
}

// CellAt projects a world point through the bound terrain surface.
func (t *Tracker) CellAt(worldPoint Vec2) (Cell, bool) {
	if !t.bound || t.binding.Base == nil {
		return Cell{}, false
	}
	return t.binding.Base.CellOf(worldPoint), true
}

// reach runs the shared binding and range gates and returns the target cell.
func (t *Tracker) reach(op string, worldPoint, actor Vec2) (Cell, bool) {
	if !t.bound || t.binding.Base == nil || t.binding.Overlay == nil {
		t.log.Warn("scene not bound", "op", op, "scene", string(t.scene))
		return Cell{}, false
	}
	cell := t.binding.Base.CellOf(worldPoint)
	center := t.binding.Base.CenterOf(cell)
	if center.Sub(actor).LenSq() > t.maxDistSq {
		return Cell{}, false
	}
	return cell, true
}

func (t *Tracker) tillable(cell Cell) bool {
	terrain, ok := t.binding.Base.TerrainAt(cell)
	return ok && t.cfg.Tillable.IsTillable(terrain)
}

func (t *Tracker) write(cell Cell, p plot) {
	m := t.stateMap()
	if p.state == Untilled {
		delete(m, cell)
	} else {
		m[cell] = p
	}
	if t.bound {
		t.paint(cell, p)
	}
}

func (t *Tracker) paint(cell Cell, p plot) {
	if t.binding.Overlay != nil {
		var tok Token
		if p.state.IsTilled() {
			tok = t.binding.TilledToken
		}
		t.binding.Overlay.SetVisual(cell, tok)
	}
	if t.binding.Planted != nil {
		var tok Token
		if p.state.HasCrop() {
			tok = t.cropToken(p)
		}
		t.binding.Planted.SetVisual(cell, tok)
	}
}

func (t *Tracker) cropToken(p plot) Token {
	if p.crop != "" {
		return p.crop
	}
	if t.cfg.Seeds != nil && p.seed != "" {
		if def, ok := t.cfg.Seeds.Lookup(p.seed); ok && def.PlantVisual != "" {
			return Token(def.PlantVisual)
		}
	}
	return t.binding.PlantedToken
}

func (t *Tracker) stateMap() map[Cell]plot {
	m, ok := t.scenes[t.scene]
	if !ok {
		m = make(map[Cell]plot)
		t.scenes[t.scene] = m
	}
	return m
}
