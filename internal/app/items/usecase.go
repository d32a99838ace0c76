package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homestead/internal/domain/item"
)

var (
	ErrInvalidRequest    = errors.New("invalid inventory request")
	ErrInventoryFull     = errors.New("inventory full")
	ErrInsufficientItems = errors.New("insufficient items")
)

type UseCase struct {
	Catalog *item.Catalog
	Service *Service
}

type SlotView struct {
	Index       int     `json:"index"`
	ItemID      item.ID `json:"item_id,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Quantity    int     `json:"quantity"`
	MaxStack    int     `json:"max_stack,omitempty"`
}

type ViewResponse struct {
	Capacity int        `json:"capacity"`
	Slots    []SlotView `json:"slots"`
}

type AddRequest struct {
	ItemID item.ID `json:"item_id"`
	Qty    int     `json:"qty"`
}

type AddResponse struct {
	Added     int          `json:"added"`
	Remainder int          `json:"remainder"`
	Inventory ViewResponse `json:"inventory"`
}

type RemoveRequest struct {
	ItemID item.ID `json:"item_id"`
	Qty    int     `json:"qty"`
}

type MoveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (u UseCase) View(_ context.Context) ViewResponse {
	slots := u.Service.Slots()
	out := ViewResponse{Capacity: len(slots), Slots: make([]SlotView, 0, len(slots))}
	for i, s := range slots {
		v := SlotView{Index: i}
		if !s.IsEmpty() {
			v.ItemID = s.Def.ID
			v.DisplayName = s.Def.DisplayName
			v.Icon = s.Def.Icon
			v.Quantity = s.Quantity
			v.MaxStack = s.Def.MaxStack
		}
		out.Slots = append(out.Slots, v)
	}
	return out
}

func (u UseCase) Add(ctx context.Context, req AddRequest) (AddResponse, error) {
	def, err := u.resolve(req.ItemID, req.Qty)
	if err != nil {
		return AddResponse{}, err
	}
	added, remainder := u.Service.Add(def, req.Qty)
	if !added {
		return AddResponse{}, fmt.Errorf("%w: no room for %s", ErrInventoryFull, def.ID)
	}
	return AddResponse{Added: req.Qty - remainder, Remainder: remainder, Inventory: u.View(ctx)}, nil
}

func (u UseCase) Remove(ctx context.Context, req RemoveRequest) (ViewResponse, error) {
	def, err := u.resolve(req.ItemID, req.Qty)
	if err != nil {
		return ViewResponse{}, err
	}
	if !u.Service.TryRemove(def, req.Qty) {
		return ViewResponse{}, fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientItems, req.Qty, def.ID, u.Service.Count(def))
	}
	return u.View(ctx), nil
}

func (u UseCase) Move(ctx context.Context, req MoveRequest) (ViewResponse, error) {
	if err := u.Service.Move(req.From, req.To); err != nil {
		return ViewResponse{}, err
	}
	return u.View(ctx), nil
}

func (u UseCase) resolve(id item.ID, qty int) (*item.Definition, error) {
	if strings.TrimSpace(string(id)) == "" || qty <= 0 {
		return nil, ErrInvalidRequest
	}
	return u.Catalog.Resolve(id)
}
