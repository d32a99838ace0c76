package item

import "errors"

type ID string

// Definition is an immutable catalog entry. Definitions are owned by a
// Catalog and must not be modified after the catalog is built.
type Definition struct {
	ID          ID     `yaml:"id" json:"id"`
	DisplayName string `yaml:"display_name" json:"display_name"`
	MaxStack    int    `yaml:"max_stack" json:"max_stack"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`

	// PlantVisual is the visual token painted on the crop layer when this
	// item is planted. Empty falls back to the scene's default crop token.
	PlantVisual string `yaml:"plant_visual" json:"plant_visual,omitempty"`
	// Yield names the item granted when a crop grown from this item is
	// harvested. YieldQty defaults to 1.
	Yield    ID  `yaml:"yield" json:"yield,omitempty"`
	YieldQty int `yaml:"yield_qty" json:"yield_qty,omitempty"`
}

var (
	ErrUnknownItem       = errors.New("unknown item")
	ErrInvalidDefinition = errors.New("invalid item definition")
)

func (d *Definition) Same(other *Definition) bool {
	if d == nil || other == nil {
		return false
	}
	return d == other || d.ID == other.ID
}

// Stack is a slot value. A zero Stack is the canonical empty slot.
type Stack struct {
	Def      *Definition
	Quantity int
}

func (s Stack) IsEmpty() bool {
	return s.Def == nil || s.Quantity <= 0
}

func (s Stack) SpaceLeft() int {
	if s.Def == nil {
		return 0
	}
	return max(0, s.Def.MaxStack-s.Quantity)
}

func (s Stack) ItemID() ID {
	if s.IsEmpty() {
		return ""
	}
	return s.Def.ID
}
