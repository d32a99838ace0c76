package farming

import (
	"fmt"
	"strings"

	"homestead/internal/domain/item"
)

type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

type SceneKey string

// Terrain is the opaque tile identity reported by a terrain surface.
type Terrain string

// Token is a visual handed to a paint surface. The empty token clears.
type Token string

type PlotState int

const (
	Untilled PlotState = iota
	Tilled
	Planted
	Watered
)

var plotStateNames = [...]string{"untilled", "tilled", "planted", "watered"}

func (s PlotState) Valid() bool { return s >= Untilled && s <= Watered }

func (s PlotState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("PlotState(%d)", int(s))
	}
	return plotStateNames[s]
}

// IsTilled reports whether the soil under the cell is worked, which is true
// for every state past Untilled.
func (s PlotState) IsTilled() bool { return s >= Tilled && s.Valid() }

func (s PlotState) HasCrop() bool { return s == Planted || s == Watered }

func ParsePlotState(raw string) (PlotState, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, n := range plotStateNames {
		if n == name {
			return PlotState(i), nil
		}
	}
	return Untilled, fmt.Errorf("unknown plot state %q", raw)
}

func (s PlotState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid plot state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *PlotState) UnmarshalText(b []byte) error {
	v, err := ParsePlotState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// TerrainSurface is the base tilemap of a scene.
type TerrainSurface interface {
	CellOf(p Vec2) Cell
	CenterOf(c Cell) Vec2
	TerrainAt(c Cell) (Terrain, bool)
}

// PaintSurface is a visual layer. SetVisual is idempotent and last write wins.
type PaintSurface interface {
	SetVisual(c Cell, t Token)
}

// SeedRemover is the inventory capability planting consumes.
type SeedRemover interface {
	TryRemove(def *item.Definition, qty int) bool
}

type TillableSet map[Terrain]struct{}

func NewTillableSet(terrains ...Terrain) TillableSet {
	s := make(TillableSet, len(terrains))
	for _, t := range terrains {
		s[t] = struct{}{}
	}
	return s
}

func (s TillableSet) IsTillable(t Terrain) bool {
	if t == "" {
		return false
	}
	_, ok := s[t]
	return ok
}

// SceneBinding carries the live surfaces of the active scene. The tracker
// holds these references until the next bind, unbind or scene change.
type SceneBinding struct {
	Base         TerrainSurface
	Overlay      PaintSurface
	Planted      PaintSurface
	TilledToken  Token
	PlantedToken Token
}
