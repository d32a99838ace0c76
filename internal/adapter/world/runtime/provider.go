package runtime

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"homestead/internal/domain/farming"
	"homestead/internal/domain/world"
)

var ErrUnknownScene = errors.New("unknown scene")

// SceneDef describes one scene's tilemap. Only farmable scenes expose a
// farming binding.
type SceneDef struct {
	Key          farming.SceneKey
	CellSize     float64
	Origin       farming.Vec2
	Legend       map[string]world.TileKind
	Rows         []string
	Farmable     bool
	TilledToken  farming.Token
	PlantedToken farming.Token
}

type Scene struct {
	Key      farming.SceneKey
	Grid     *world.Grid
	Overlay  *world.PaintLayer
	Planted  *world.PaintLayer
	Farmable bool
	tilled   farming.Token
	crop     farming.Token
}

// Provider owns the in-process tilemaps of every configured scene. The layers
// outlive scene switches, so a tracker rebinding them repaints onto the same
// surfaces.
type Provider struct {
	scenes map[farming.SceneKey]*Scene
	keys   []farming.SceneKey
}

func NewProvider(defs []SceneDef) (*Provider, error) {
	p := &Provider{scenes: make(map[farming.SceneKey]*Scene, len(defs))}
	var errs []error
	for _, def := range defs {
		key := farming.SceneKey(strings.TrimSpace(string(def.Key)))
		if key == "" {
			errs = append(errs, errors.New("scene key is required"))
			continue
		}
		if _, dup := p.scenes[key]; dup {
			errs = append(errs, fmt.Errorf("duplicate scene %q", key))
			continue
		}
		cellSize := def.CellSize
		if cellSize <= 0 {
			cellSize = 1
		}
		grid, err := world.ParseGrid(def.Rows, def.Legend, cellSize, def.Origin)
		if err != nil {
			errs = append(errs, fmt.Errorf("scene %q: %w", key, err))
			continue
		}
		p.scenes[key] = &Scene{
			Key:      key,
			Grid:     grid,
			Overlay:  world.NewPaintLayer(),
			Planted:  world.NewPaintLayer(),
			Farmable: def.Farmable,
			tilled:   def.TilledToken,
			crop:     def.PlantedToken,
		}
		p.keys = append(p.keys, key)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return p, nil
}

func (p *Provider) Binding(key farming.SceneKey) (farming.SceneBinding, bool) {
	s, ok := p.scenes[key]
	if !ok || !s.Farmable {
		return farming.SceneBinding{}, false
	}
	return farming.SceneBinding{
		Base:         s.Grid,
		Overlay:      s.Overlay,
		Planted:      s.Planted,
		TilledToken:  s.tilled,
		PlantedToken: s.crop,
	}, true
}

func (p *Provider) Scene(key farming.SceneKey) (*Scene, error) {
	s, ok := p.scenes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, key)
	}
	return s, nil
}

func (p *Provider) Has(key farming.SceneKey) bool {
	_, ok := p.scenes[key]
	return ok
}

// Keys returns scene keys in configuration order.
func (p *Provider) Keys() []farming.SceneKey {
	return slices.Clone(p.keys)
}
