package services

import (
	"context"
	"errors"
	"log"
	"order_queue/internal/models"
	"order_queue/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MenuItemInput struct {
	Name                string
	PriceCents          int
	ImageURL            *string
	ImagePlaceholderURL *string
	Badges              []models.Badge
	IsActive            *bool
}

// MenuItemPatch holds the fields to change; nil means unchanged.
// An empty image URL clears it.
type MenuItemPatch struct {
	Name                *string
	PriceCents          *int
	ImageURL            *string
	ImagePlaceholderURL *string
	Badges              *[]models.Badge
	IsActive            *bool
}

// PublicMenu is what customers see: the open session (if any) and the active items.
type PublicMenu struct {
	Session *models.Session   `json:"session"`
	Items   []models.MenuItem `json:"items"`
}

type MenuService interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetActiveMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetPublicMenu(ctx context.Context) (*PublicMenu, error)
	CreateMenuItem(ctx context.Context, input MenuItemInput) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, patch MenuItemPatch) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	ReorderMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
}

type menuService struct {
	menuRepo    repository.MenuItemRepository
	sessionRepo repository.SessionRepository
	cache       Cache
	cacheTTL    time.Duration
}

// NewMenuService builds the catalog. cache may be nil.
func NewMenuService(menuRepo repository.MenuItemRepository, sessionRepo repository.SessionRepository, cache Cache, cacheTTL time.Duration) MenuService {
	return &menuService{
		menuRepo:    menuRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

func (s *menuService) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, internalError("failed to list menu items", err)
	}
	return items, nil
}

func (s *menuService) GetActiveMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.menuRepo.ListActive(ctx)
	if err != nil {
		return nil, internalError("failed to list active menu items", err)
	}
	return items, nil
}

func (s *menuService) GetPublicMenu(ctx context.Context) (*PublicMenu, error) {
	if s.cache != nil {
		var cached PublicMenu
		if err := s.cache.GetCache(ctx, publicMenuCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	menu := &PublicMenu{}
	session, err := s.sessionRepo.GetActive(ctx)
	switch {
	case err == nil:
		menu.Session = session
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internalError("failed to load active session", err)
	}

	menu.Items, err = s.GetActiveMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, publicMenuCacheKey, menu, s.cacheTTL); err != nil {
			log.Printf("Failed to cache public menu: %v", err)
		}
	}
	return menu, nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, input MenuItemInput) (*models.MenuItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.PriceCents < 0 {
		return nil, newError(KindInvalidArgument, "Price must be a non-negative integer.")
	}

	item := &models.MenuItem{
		Name:                name,
		PriceCents:          input.PriceCents,
		ImageURL:            emptyToNil(input.ImageURL),
		ImagePlaceholderURL: emptyToNil(input.ImagePlaceholderURL),
		Badges:              models.Badges(input.Badges),
		IsActive:            true,
	}
	if item.Badges == nil {
		item.Badges = models.Badges{}
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, internalError("failed to create menu item", err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, id uuid.UUID, patch MenuItemPatch) (*models.MenuItem, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		updates["name"] = name
	}
	if patch.PriceCents != nil {
		if *patch.PriceCents < 0 {
			return nil, newError(KindInvalidArgument, "Price must be a non-negative integer.")
		}
		updates["price_cents"] = *patch.PriceCents
	}
	if patch.ImageURL != nil {
		updates["image_url"] = emptyToNil(patch.ImageURL)
	}
	if patch.ImagePlaceholderURL != nil {
		updates["image_placeholder_url"] = emptyToNil(patch.ImagePlaceholderURL)
	}
	if patch.Badges != nil {
		badges := models.Badges(*patch.Badges)
		if badges == nil {
			badges = models.Badges{}
		}
		updates["badges"] = badges
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
	}

	item, err := s.menuRepo.Update(ctx, id, updates)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, internalError("failed to update menu item", err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.menuRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrMenuItemNotFound
	case errors.Is(err, repository.ErrInUse):
		return nil, ErrMenuItemInUse
	case err != nil:
		return nil, internalError("failed to delete menu item", err)
	}
	s.invalidate(ctx)
	return item, nil
}

// ReorderMenuItems ranks ids in the given order; items not listed keep their rank.
func (s *menuService) ReorderMenuItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, newError(KindInvalidArgument, "ids must not contain duplicates.")
		}
		seen[id] = true
	}

	items, err := s.menuRepo.Reorder(ctx, ids)
	if err != nil {
		return nil, internalError("failed to reorder menu items", err)
	}
	s.invalidate(ctx)
	return items, nil
}

func (s *menuService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCache(ctx, publicMenuCacheKey); err != nil {
		log.Printf("Failed to invalidate public menu cache: %v", err)
	}
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
