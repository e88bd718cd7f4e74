package handlers

import (
	"net/http"
	"order_queue/internal/models"
	"order_queue/internal/services"
	"order_queue/internal/validation"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type MenuHandler struct {
	menuService services.MenuService
	validate    *validatorv10.Validate
}

func NewMenuHandler(menuService services.MenuService, validate *validatorv10.Validate) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		validate:    validate,
	}
}

// List returns every item, inactive ones included.
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.menuService.ListMenuItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *MenuHandler) Create(c *gin.Context) {
	var req validation.CreateMenuItemRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	item, err := h.menuService.CreateMenuItem(c.Request.Context(), services.MenuItemInput{
		Name:                req.Name,
		PriceCents:          *req.PriceCents,
		ImageURL:            req.ImageURL,
		ImagePlaceholderURL: req.ImagePlaceholderURL,
		Badges:              toBadges(req.Badges),
		IsActive:            req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *MenuHandler) Update(c *gin.Context) {
	id, ok := pathID(c, services.ErrMenuItemNotFound)
	if !ok {
		return
	}

	var req validation.UpdateMenuItemRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	patch := services.MenuItemPatch{
		Name:                req.Name,
		PriceCents:          req.PriceCents,
		ImageURL:            req.ImageURL,
		ImagePlaceholderURL: req.ImagePlaceholderURL,
		IsActive:            req.IsActive,
	}
	if req.Badges != nil {
		badges := toBadges(*req.Badges)
		patch.Badges = &badges
	}

	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *MenuHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, services.ErrMenuItemNotFound)
	if !ok {
		return
	}

	item, err := h.menuService.DeleteMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *MenuHandler) Reorder(c *gin.Context) {
	var req validation.ReorderMenuItemsRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		ids[i] = uuid.MustParse(raw)
	}

	items, err := h.menuService.ReorderMenuItems(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func toBadges(in []validation.Badge) []models.Badge {
	out := make([]models.Badge, len(in))
	for i, b := range in {
		out[i] = models.Badge{Label: b.Label, Color: b.Color}
	}
	return out
}
