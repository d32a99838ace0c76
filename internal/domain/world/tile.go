package world

import (
	"fmt"
	"math"

	"homestead/internal/domain/farming"
)

type TileKind string

const (
	TileGrass TileKind = "grass"
	TileDirt  TileKind = "dirt"
	TileSoil  TileKind = "soil"
	TileWater TileKind = "water"
	TileRock  TileKind = "rock"
	TileTree  TileKind = "tree"
	TilePath  TileKind = "path"
	TileFloor TileKind = "floor"
)

type Tile struct {
	X    int      `json:"x"`
	Y    int      `json:"y"`
	Kind TileKind `json:"kind"`
}

// Grid is a square-celled base tilemap. Cell (0,0) spans [Origin, Origin+CellSize).
type Grid struct {
	cellSize float64
	origin   farming.Vec2
	tiles    map[farming.Cell]TileKind
}

func NewGrid(cellSize float64, origin farming.Vec2) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{cellSize: cellSize, origin: origin, tiles: make(map[farming.Cell]TileKind)}
}

// ParseGrid builds a grid from text rows. The first row is the top of the
// map, so row r lands on y = len(rows)-1-r. Spaces and '.' are empty cells.
func ParseGrid(rows []string, legend map[string]TileKind, cellSize float64, origin farming.Vec2) (*Grid, error) {
	g := NewGrid(cellSize, origin)
	for r, row := range rows {
		y := len(rows) - 1 - r
		for x, ch := range []rune(row) {
			if ch == ' ' || ch == '.' {
				continue
			}
			kind, ok := legend[string(ch)]
			if !ok {
				return nil, fmt.Errorf("grid row %d col %d: no legend entry for %q", r, x, ch)
			}
			g.SetTile(farming.Cell{X: x, Y: y}, kind)
		}
	}
	return g, nil
}

func (g *Grid) CellSize() float64 { return g.cellSize }

func (g *Grid) SetTile(c farming.Cell, kind TileKind) {
	if kind == "" {
		delete(g.tiles, c)
		return
	}
	g.tiles[c] = kind
}

func (g *Grid) CellOf(p farming.Vec2) farming.Cell {
	return farming.Cell{
		X: int(math.Floor((p.X - g.origin.X) / g.cellSize)),
		Y: int(math.Floor((p.Y - g.origin.Y) / g.cellSize)),
	}
}

func (g *Grid) CenterOf(c farming.Cell) farming.Vec2 {
	return farming.Vec2{
		X: g.origin.X + (float64(c.X)+0.5)*g.cellSize,
		Y: g.origin.Y + (float64(c.Y)+0.5)*g.cellSize,
	}
}

func (g *Grid) TerrainAt(c farming.Cell) (farming.Terrain, bool) {
	kind, ok := g.tiles[c]
	if !ok {
		return "", false
	}
	return farming.Terrain(kind), true
}

func (g *Grid) Len() int { return len(g.tiles) }
