package handlers

import (
	"net/http"
	"order_queue/internal/events"
	"order_queue/internal/services"
	"order_queue/internal/validation"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PublicHandler serves customers: no account, orders tracked by credential.
type PublicHandler struct {
	sessionService services.SessionService
	menuService    services.MenuService
	cartService    services.CartService
	orderService   services.OrderService
	subscriber     events.Subscriber
	validate       *validatorv10.Validate
}

func NewPublicHandler(
	sessionService services.SessionService,
	menuService services.MenuService,
	cartService services.CartService,
	orderService services.OrderService,
	subscriber events.Subscriber,
	validate *validatorv10.Validate,
) *PublicHandler {
	return &PublicHandler{
		sessionService: sessionService,
		menuService:    menuService,
		cartService:    cartService,
		orderService:   orderService,
		subscriber:     subscriber,
		validate:       validate,
	}
}

func (h *PublicHandler) GetActiveSession(c *gin.Context) {
	session, err := h.sessionService.GetActiveSession(c.Request.Context())
	if err != nil {
		if services.KindOf(err) == services.KindNoActiveSession {
			c.JSON(http.StatusOK, gin.H{"open": false, "session": nil})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": true, "session": session})
}

func (h *PublicHandler) GetMenu(c *gin.Context) {
	menu, err := h.menuService.GetPublicMenu(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, menu)
}

func (h *PublicHandler) RefreshCart(c *gin.Context) {
	var req validation.CartRefreshRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	lines := make([]services.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.CartLine{
			MenuItemID: uuid.MustParse(item.MenuItemID),
			Quantity:   item.Quantity,
			Name:       item.Name,
		})
	}

	result, err := h.cartService.RefreshCartItems(c.Request.Context(), lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PublicHandler) CreateOrder(c *gin.Context) {
	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	input := services.CreateOrderInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         make([]services.CartLine, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, services.CartLine{
			MenuItemID: uuid.MustParse(item.MenuItemID),
			Quantity:   item.Quantity,
			Name:       item.Name,
		})
	}

	result, err := h.orderService.CreatePublicOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Order == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   services.NoActiveItemsMessage,
			"removed": result.Removed,
		})
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PublicHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}

	tracked, err := h.orderService.GetPublicOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracked)
}

// StreamOrder pushes a fresh snapshot of one order each time it changes.
// The tracking credential must belong to the order.
func (h *PublicHandler) StreamOrder(c *gin.Context) {
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	view, err := h.orderService.GetTrackedOrder(ctx, id, c.Query("credential"))
	if err != nil {
		respondError(c, err)
		return
	}

	streamEvents(c, h.subscriber, func() {
		c.SSEvent("order", view)
	}, func(event events.OrderEvent) bool {
		if event.OrderID != id {
			return true
		}
		tracked, err := h.orderService.GetPublicOrder(ctx, id)
		if err != nil {
			return false
		}
		c.SSEvent("order", tracked.Order)
		return true
	})
}
