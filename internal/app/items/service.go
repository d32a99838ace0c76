package items

import (
	"log/slog"

	"homestead/internal/app/ports"
	"homestead/internal/domain/inventory"
	"homestead/internal/domain/item"
)

// Service owns the player's inventory and is its only mutation path. Every
// successful mutation fires one payload-free change signal; observers re-read
// the slots they care about.
type Service struct {
	inv       *inventory.Inventory
	log       *slog.Logger
	metrics   ports.GameMetrics
	observers []observer
	nextID    int
}

type observer struct {
	id int
	fn func()
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m ports.GameMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(inv *inventory.Inventory, opts ...Option) *Service {
	if inv == nil {
		inv = inventory.New(inventory.DefaultCapacity)
	}
	s := &Service{inv: inv, log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.log = s.log.With("component", "inventory")
	return s
}

func (s *Service) Capacity() int { return s.inv.Capacity() }

func (s *Service) Slots() []item.Stack { return s.inv.Slots() }

func (s *Service) Count(def *item.Definition) int { return s.inv.Count(def) }

// Add places what fits and reports the rest; dropping the remainder is the
// caller's decision.
func (s *Service) Add(def *item.Definition, qty int) (bool, int) {
	added, remainder := s.inv.TryAdd(def, qty)
	if added {
		s.changed()
	}
	if remainder > 0 && def != nil {
		s.log.Debug("inventory could not hold all items", "item", string(def.ID), "requested", qty, "remainder", remainder)
	}
	return added, remainder
}

// AddAll reports success only when every unit was placed. Units that did fit
// stay in the inventory either way.
func (s *Service) AddAll(def *item.Definition, qty int) bool {
	added, remainder := s.Add(def, qty)
	return added && remainder == 0
}

func (s *Service) TryRemove(def *item.Definition, qty int) bool {
	ok := s.inv.TryRemove(def, qty)
	if ok {
		s.changed()
	}
	return ok
}

// Move always counts as a change when the indices are valid, swaps of two
// empty slots included.
func (s *Service) Move(from, to int) error {
	if err := s.inv.Move(from, to); err != nil {
		return err
	}
	s.changed()
	return nil
}

// Replace swaps in a freshly loaded inventory.
func (s *Service) Replace(inv *inventory.Inventory) {
	if inv == nil {
		return
	}
	s.inv = inv
	s.changed()
}

// Subscribe registers fn for change signals and returns its cancel func.
func (s *Service) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) changed() {
	if s.metrics != nil {
		s.metrics.RecordInventoryChange()
	}
	for _, o := range s.observers {
		o.fn()
	}
}
