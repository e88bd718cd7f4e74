package services

import (
	"context"
	"order_queue/internal/models"
	"order_queue/internal/repository"

	"github.com/google/uuid"
)

type RemovalReason string

const (
	RemovedNotFound RemovalReason = "NOT_FOUND"
	RemovedInactive RemovalReason = "INACTIVE"
)

// CartLine is a client-held cart entry. Name is only used for display when
// the item no longer exists.
type CartLine struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
	Name       string    `json:"name,omitempty"`
}

// ActiveCartItem carries catalog name and price, never the client's.
type ActiveCartItem struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	ImageURL   *string   `json:"image_url"`
	Quantity   int       `json:"quantity"`
}

type RemovedCartItem struct {
	MenuItemID uuid.UUID     `json:"menu_item_id"`
	Name       string        `json:"name"`
	Reason     RemovalReason `json:"reason"`
}

type CartResult struct {
	Active  []ActiveCartItem  `json:"active"`
	Removed []RemovedCartItem `json:"removed"`
}

type CartService interface {
	RefreshCartItems(ctx context.Context, lines []CartLine) (*CartResult, error)
}

type cartService struct {
	menuRepo repository.MenuItemRepository
}

func NewCartService(menuRepo repository.MenuItemRepository) CartService {
	return &cartService{menuRepo: menuRepo}
}

// RefreshCartItems puts every line in exactly one of Active or Removed, in
// input order, using a single catalog lookup.
func (s *cartService) RefreshCartItems(ctx context.Context, lines []CartLine) (*CartResult, error) {
	result := &CartResult{
		Active:  []ActiveCartItem{},
		Removed: []RemovedCartItem{},
	}
	if len(lines) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}

	items, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, internalError("failed to load menu items", err)
	}
	byID := make(map[uuid.UUID]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	for _, line := range lines {
		item, ok := byID[line.MenuItemID]
		switch {
		case !ok:
			result.Removed = append(result.Removed, RemovedCartItem{
				MenuItemID: line.MenuItemID,
				Name:       line.Name,
				Reason:     RemovedNotFound,
			})
		case !item.IsActive:
			result.Removed = append(result.Removed, RemovedCartItem{
				MenuItemID: line.MenuItemID,
				Name:       item.Name,
				Reason:     RemovedInactive,
			})
		default:
			result.Active = append(result.Active, ActiveCartItem{
				MenuItemID: item.ID,
				Name:       item.Name,
				PriceCents: item.PriceCents,
				ImageURL:   item.ImageURL,
				Quantity:   line.Quantity,
			})
		}
	}
	return result, nil
}
