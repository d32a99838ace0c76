package inventory

import (
	"errors"
	"reflect"
	"testing"

	"homestead/internal/domain/item"
)

func seedDef() *item.Definition {
	return &item.Definition{ID: "seed_wheat", DisplayName: "Wheat Seed", MaxStack: 10}
}

func stoneDef() *item.Definition {
	return &item.Definition{ID: "stone", DisplayName: "Stone", MaxStack: 5}
}

func TestNew_ClampsCapacityToOne(t *testing.T) {
	for _, c := range []int{0, -3} {
		if got := New(c).Capacity(); got != 1 {
			t.Fatalf("New(%d) capacity: got=%d want=1", c, got)
		}
	}
}

func TestTryAdd_FillsSlotsAndReportsRemainder(t *testing.T) {
	seed := seedDef()
	inv := New(3)

	added, remainder := inv.TryAdd(seed, 35)
	if !added {
		t.Fatalf("expected add success")
	}
	if got, want := remainder, 5; got != want {
		t.Fatalf("remainder mismatch: got=%d want=%d", got, want)
	}
	for i, s := range inv.Slots() {
		if s.Quantity != 10 || !s.Def.Same(seed) {
			t.Fatalf("slot %d: expected full seed stack, got %+v", i, s)
		}
	}
}

func TestTryAdd_RemainderMatchesCapacityTimesMaxStack(t *testing.T) {
	seed := seedDef()
	const capacity = 4
	for _, qty := range []int{1, 9, 10, 11, 39, 40, 41, 100} {
		inv := New(capacity)
		added, remainder := inv.TryAdd(seed, qty)
		if !added {
			t.Fatalf("qty=%d: expected add success", qty)
		}
		if got, want := remainder, max(0, qty-capacity*seed.MaxStack); got != want {
			t.Fatalf("qty=%d: remainder got=%d want=%d", qty, got, want)
		}
		if got, want := inv.Count(seed), qty-remainder; got != want {
			t.Fatalf("qty=%d: count got=%d want=%d", qty, got, want)
		}
	}
}

func TestTryAdd_TopsUpExistingStacksBeforeEmptySlots(t *testing.T) {
	seed, stone := seedDef(), stoneDef()
	inv := New(4)
	inv.TryAdd(stone, 1)
	inv.TryAdd(seed, 4)
	if err := inv.Move(1, 3); err != nil {
		t.Fatalf("move: %v", err)
	}

	if _, remainder := inv.TryAdd(seed, 8); remainder != 0 {
		t.Fatalf("expected everything placed, remainder=%d", remainder)
	}
	slots := inv.Slots()
	if got, want := slots[3].Quantity, 10; got != want {
		t.Fatalf("existing stack should be topped up first: got=%d want=%d", got, want)
	}
	if got, want := slots[1].Quantity, 2; got != want {
		t.Fatalf("overflow should land in first empty slot: got=%d want=%d", got, want)
	}
	if !slots[2].IsEmpty() {
		t.Fatalf("expected slot 2 untouched, got %+v", slots[2])
	}
}

func TestTryAdd_DoesNotCompactPartialStacks(t *testing.T) {
	seed := seedDef()
	inv, err := FromSlots([]item.Stack{
		{Def: seed, Quantity: 3},
		{Def: seed, Quantity: 4},
		{},
	})
	if err != nil {
		t.Fatalf("FromSlots: %v", err)
	}
	inv.TryAdd(seed, 1)
	slots := inv.Slots()
	if slots[0].Quantity != 4 || slots[1].Quantity != 4 {
		t.Fatalf("expected only first stack topped up, got %d/%d", slots[0].Quantity, slots[1].Quantity)
	}
}

func TestTryAdd_RejectsInvalidArguments(t *testing.T) {
	inv := New(2)
	before := inv.Slots()
	if added, remainder := inv.TryAdd(nil, 3); added || remainder != 3 {
		t.Fatalf("nil def: got added=%v remainder=%d", added, remainder)
	}
	if added, _ := inv.TryAdd(seedDef(), 0); added {
		t.Fatalf("zero qty should fail")
	}
	if added, _ := inv.TryAdd(seedDef(), -2); added {
		t.Fatalf("negative qty should fail")
	}
	if !reflect.DeepEqual(before, inv.Slots()) {
		t.Fatalf("invalid add mutated inventory")
	}
}

func TestTryAdd_FullInventoryAddsNothing(t *testing.T) {
	seed, stone := seedDef(), stoneDef()
	inv := New(1)
	inv.TryAdd(stone, 5)
	added, remainder := inv.TryAdd(seed, 3)
	if added || remainder != 3 {
		t.Fatalf("expected nothing placed, got added=%v remainder=%d", added, remainder)
	}
}

func TestTryRemove_IsAllOrNothing(t *testing.T) {
	seed := seedDef()
	inv := New(3)
	_, remainder := inv.TryAdd(seed, 25)
	if remainder != 0 {
		t.Fatalf("expected 25 seeds to fit, remainder=%d", remainder)
	}
	slots := inv.Slots()
	if slots[0].Quantity != 10 || slots[1].Quantity != 10 || slots[2].Quantity != 5 {
		t.Fatalf("unexpected layout: %d/%d/%d", slots[0].Quantity, slots[1].Quantity, slots[2].Quantity)
	}

	before := inv.Slots()
	if inv.TryRemove(seed, 30) {
		t.Fatalf("expected remove of 30 to fail with 25 held")
	}
	if !reflect.DeepEqual(before, inv.Slots()) {
		t.Fatalf("failed remove mutated inventory")
	}

	if !inv.TryRemove(seed, 25) {
		t.Fatalf("expected remove of 25 to succeed")
	}
	for i, s := range inv.Slots() {
		if s != (item.Stack{}) {
			t.Fatalf("slot %d should be reset to empty, got %+v", i, s)
		}
	}
}

func TestTryRemove_WalksSlotsInOrder(t *testing.T) {
	seed, stone := seedDef(), stoneDef()
	inv, _ := FromSlots([]item.Stack{
		{Def: seed, Quantity: 4},
		{Def: stone, Quantity: 2},
		{Def: seed, Quantity: 6},
	})
	if !inv.TryRemove(seed, 7) {
		t.Fatalf("expected remove success")
	}
	slots := inv.Slots()
	if !slots[0].IsEmpty() {
		t.Fatalf("expected first seed slot emptied, got %+v", slots[0])
	}
	if got, want := slots[2].Quantity, 3; got != want {
		t.Fatalf("second seed slot: got=%d want=%d", got, want)
	}
	if got, want := inv.Count(stone), 2; got != want {
		t.Fatalf("stone untouched: got=%d want=%d", got, want)
	}
}

func TestTryRemove_RejectsInvalidArguments(t *testing.T) {
	inv := New(1)
	inv.TryAdd(seedDef(), 3)
	if inv.TryRemove(nil, 1) || inv.TryRemove(seedDef(), 0) || inv.TryRemove(seedDef(), -1) {
		t.Fatalf("invalid remove should fail")
	}
	if got := inv.Count(seedDef()); got != 3 {
		t.Fatalf("count changed: %d", got)
	}
}

func TestMove_SameIndexIsNoOp(t *testing.T) {
	inv := New(3)
	inv.TryAdd(seedDef(), 12)
	before := inv.Slots()
	for i := 0; i < inv.Capacity(); i++ {
		if err := inv.Move(i, i); err != nil {
			t.Fatalf("Move(%d,%d): %v", i, i, err)
		}
	}
	if !reflect.DeepEqual(before, inv.Slots()) {
		t.Fatalf("Move(i,i) mutated inventory")
	}
}

func TestMove_MergesSameItemUpToMaxStack(t *testing.T) {
	seed := seedDef()
	inv, _ := FromSlots([]item.Stack{
		{Def: seed, Quantity: 7},
		{Def: seed, Quantity: 6},
	})
	if err := inv.Move(0, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	slots := inv.Slots()
	if got, want := slots[1].Quantity, 10; got != want {
		t.Fatalf("destination: got=%d want=%d", got, want)
	}
	if got, want := slots[0].Quantity, 3; got != want {
		t.Fatalf("source: got=%d want=%d", got, want)
	}
	if got, want := inv.Count(seed), 13; got != want {
		t.Fatalf("total not conserved: got=%d want=%d", got, want)
	}
}

func TestMove_MergeEmptiesSourceSlot(t *testing.T) {
	seed := seedDef()
	inv, _ := FromSlots([]item.Stack{
		{Def: seed, Quantity: 2},
		{Def: seed, Quantity: 5},
	})
	if err := inv.Move(0, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	slots := inv.Slots()
	if slots[0] != (item.Stack{}) {
		t.Fatalf("source should be canonical empty, got %+v", slots[0])
	}
	if got, want := slots[1].Quantity, 7; got != want {
		t.Fatalf("destination: got=%d want=%d", got, want)
	}
}

func TestMove_SwapsDifferentItemsAndFullDestination(t *testing.T) {
	seed, stone := seedDef(), stoneDef()
	inv, _ := FromSlots([]item.Stack{
		{Def: seed, Quantity: 3},
		{Def: stone, Quantity: 2},
		{Def: seed, Quantity: 10},
		{},
	})

	if err := inv.Move(0, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	slots := inv.Slots()
	if !slots[0].Def.Same(stone) || slots[0].Quantity != 2 || !slots[1].Def.Same(seed) || slots[1].Quantity != 3 {
		t.Fatalf("expected swap of different items, got %+v %+v", slots[0], slots[1])
	}

	if err := inv.Move(1, 2); err != nil {
		t.Fatalf("move: %v", err)
	}
	slots = inv.Slots()
	if slots[1].Quantity != 10 || slots[2].Quantity != 3 {
		t.Fatalf("expected swap into full destination, got %d/%d", slots[1].Quantity, slots[2].Quantity)
	}

	if err := inv.Move(2, 3); err != nil {
		t.Fatalf("move: %v", err)
	}
	slots = inv.Slots()
	if !slots[2].IsEmpty() || slots[3].Quantity != 3 {
		t.Fatalf("expected move into empty slot, got %+v %+v", slots[2], slots[3])
	}
}

func TestMove_OutOfRangeReportsError(t *testing.T) {
	inv := New(2)
	inv.TryAdd(seedDef(), 1)
	before := inv.Slots()
	for _, tc := range [][2]int{{-1, 0}, {0, 2}, {5, 5}} {
		if err := inv.Move(tc[0], tc[1]); !errors.Is(err, ErrSlotOutOfRange) {
			t.Fatalf("Move(%d,%d): expected ErrSlotOutOfRange, got %v", tc[0], tc[1], err)
		}
	}
	if !reflect.DeepEqual(before, inv.Slots()) {
		t.Fatalf("out of range move mutated inventory")
	}
}

func TestFromSlots_RejectsOverfullStack(t *testing.T) {
	_, err := FromSlots([]item.Stack{{Def: stoneDef(), Quantity: 6}})
	if !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
}

func TestCount_NeverExceedsCapacityTimesMaxStack(t *testing.T) {
	stone := stoneDef()
	inv := New(3)
	for i := 0; i < 10; i++ {
		inv.TryAdd(stone, 4)
		if got, limit := inv.Count(stone), inv.Capacity()*stone.MaxStack; got > limit {
			t.Fatalf("count %d exceeds limit %d", got, limit)
		}
	}
	for i, s := range inv.Slots() {
		if s.Quantity > stone.MaxStack {
			t.Fatalf("slot %d exceeds max stack: %d", i, s.Quantity)
		}
	}
}
