package inventory

import (
	"errors"
	"fmt"

	"homestead/internal/domain/item"
)

const DefaultCapacity = 10

var (
	ErrSlotOutOfRange = errors.New("slot index out of range")
	ErrInvalidSlot    = errors.New("invalid slot contents")
)

// Inventory is a fixed-capacity, ordered sequence of item stacks. Slot order
// matters for display only; counting is order independent.
type Inventory struct {
	slots []item.Stack
}

func New(capacity int) *Inventory {
	capacity = max(1, capacity)
	return &Inventory{slots: make([]item.Stack, capacity)}
}

// FromSlots rebuilds an inventory from a saved slot sequence. Every occupied
// slot must respect its definition's max stack.
func FromSlots(slots []item.Stack) (*Inventory, error) {
	inv := New(len(slots))
	for i, s := range slots {
		if s.IsEmpty() {
			continue
		}
		if s.Quantity > s.Def.MaxStack {
			return nil, fmt.Errorf("%w: slot %d holds %d %s, max %d", ErrInvalidSlot, i, s.Quantity, s.Def.ID, s.Def.MaxStack)
		}
		inv.slots[i] = s
	}
	return inv, nil
}

func (inv *Inventory) Capacity() int {
	return len(inv.slots)
}

// Slots returns a copy of the slot sequence.
func (inv *Inventory) Slots() []item.Stack {
	out := make([]item.Stack, len(inv.slots))
	copy(out, inv.slots)
	return out
}

func (inv *Inventory) Slot(i int) (item.Stack, error) {
	if !inv.inRange(i) {
		return item.Stack{}, ErrSlotOutOfRange
	}
	return inv.slots[i], nil
}

func (inv *Inventory) Count(def *item.Definition) int {
	if def == nil {
		return 0
	}
	total := 0
	for _, s := range inv.slots {
		if !s.IsEmpty() && s.Def.Same(def) {
			total += s.Quantity
		}
	}
	return total
}

// TryAdd places qty units of def, first topping up existing stacks of def in
// slot order, then filling empty slots in slot order. It reports whether any
// unit was placed and how many could not be.
func (inv *Inventory) TryAdd(def *item.Definition, qty int) (bool, int) {
	remainder := qty
	if def == nil || qty <= 0 || def.MaxStack <= 0 {
		return false, remainder
	}

	for i := 0; i < len(inv.slots) && remainder > 0; i++ {
		s := inv.slots[i]
		if s.IsEmpty() || !s.Def.Same(def) || s.SpaceLeft() == 0 {
			continue
		}
		move := min(s.SpaceLeft(), remainder)
		s.Quantity += move
		inv.slots[i] = s
		remainder -= move
	}

	for i := 0; i < len(inv.slots) && remainder > 0; i++ {
		if !inv.slots[i].IsEmpty() {
			continue
		}
		move := min(def.MaxStack, remainder)
		inv.slots[i] = item.Stack{Def: def, Quantity: move}
		remainder -= move
	}

	return remainder < qty, remainder
}

// TryRemove takes qty units of def or nothing at all.
func (inv *Inventory) TryRemove(def *item.Definition, qty int) bool {
	if def == nil || qty <= 0 {
		return false
	}
	if inv.Count(def) < qty {
		return false
	}

	toRemove := qty
	for i := 0; i < len(inv.slots) && toRemove > 0; i++ {
		s := inv.slots[i]
		if s.IsEmpty() || !s.Def.Same(def) {
			continue
		}
		take := min(s.Quantity, toRemove)
		s.Quantity -= take
		toRemove -= take
		if s.Quantity <= 0 {
			s = item.Stack{}
		}
		inv.slots[i] = s
	}
	return true
}

// Move merges the stack at from into to when both hold the same item and to
// has room, and swaps the two slots otherwise.
func (inv *Inventory) Move(from, to int) error {
	if !inv.inRange(from) || !inv.inRange(to) {
		return fmt.Errorf("%w: move %d -> %d with capacity %d", ErrSlotOutOfRange, from, to, len(inv.slots))
	}
	if from == to {
		return nil
	}

	a := inv.slots[from]
	b := inv.slots[to]
	if !a.IsEmpty() && !b.IsEmpty() && a.Def.Same(b.Def) && b.SpaceLeft() > 0 {
		move := min(a.Quantity, b.SpaceLeft())
		b.Quantity += move
		a.Quantity -= move
		if a.Quantity <= 0 {
			a = item.Stack{}
		}
		inv.slots[from] = a
		inv.slots[to] = b
		return nil
	}

	inv.slots[from] = b
	inv.slots[to] = a
	return nil
}

func (inv *Inventory) inRange(i int) bool {
	return i >= 0 && i < len(inv.slots)
}
