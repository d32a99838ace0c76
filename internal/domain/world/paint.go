package world

import (
	"cmp"
	"slices"

	"homestead/internal/domain/farming"
)

type Visual struct {
	Cell  farming.Cell  `json:"cell"`
	Token farming.Token `json:"token"`
}

// PaintLayer is an in-memory visual layer over a grid.
type PaintLayer struct {
	visuals map[farming.Cell]farming.Token
}

func NewPaintLayer() *PaintLayer {
	return &PaintLayer{visuals: make(map[farming.Cell]farming.Token)}
}

func (l *PaintLayer) SetVisual(c farming.Cell, t farming.Token) {
	if t == "" {
		delete(l.visuals, c)
		return
	}
	l.visuals[c] = t
}

func (l *PaintLayer) VisualAt(c farming.Cell) (farming.Token, bool) {
	t, ok := l.visuals[c]
	return t, ok
}

func (l *PaintLayer) Len() int { return len(l.visuals) }

func (l *PaintLayer) Visuals() []Visual {
	out := make([]Visual, 0, len(l.visuals))
	for c, t := range l.visuals {
		out = append(out, Visual{Cell: c, Token: t})
	}
	slices.SortFunc(out, func(a, b Visual) int {
		return cmp.Or(cmp.Compare(a.Cell.Y, b.Cell.Y), cmp.Compare(a.Cell.X, b.Cell.X))
	})
	return out
}
