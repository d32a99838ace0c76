package item

import (
	"errors"
	"fmt"
	"strings"
)

type Catalog struct {
	defs  map[ID]*Definition
	order []ID
}

func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[ID]*Definition, len(defs))}
	var errs []error
	for _, d := range defs {
		d.ID = ID(strings.TrimSpace(string(d.ID)))
		if d.ID == "" {
			errs = append(errs, fmt.Errorf("%w: empty id", ErrInvalidDefinition))
			continue
		}
		if d.MaxStack <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s max_stack must be positive, got %d", ErrInvalidDefinition, d.ID, d.MaxStack))
			continue
		}
		if d.YieldQty < 0 {
			errs = append(errs, fmt.Errorf("%w: %s yield_qty must not be negative", ErrInvalidDefinition, d.ID))
			continue
		}
		if _, dup := c.defs[d.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate id %s", ErrInvalidDefinition, d.ID))
			continue
		}
		def := d
		c.defs[d.ID] = &def
		c.order = append(c.order, d.ID)
	}
	for _, id := range c.order {
		y := c.defs[id].Yield
		if y == "" {
			continue
		}
		if _, ok := c.defs[y]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s yields unknown item %s", ErrInvalidDefinition, id, y))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Lookup(id ID) (*Definition, bool) {
	if c == nil {
		return nil, false
	}
	d, ok := c.defs[id]
	return d, ok
}

func (c *Catalog) Resolve(id ID) (*Definition, error) {
	d, ok := c.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	return d, nil
}

// All returns definitions in declaration order.
func (c *Catalog) All() []*Definition {
	if c == nil {
		return nil
	}
	out := make([]*Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
