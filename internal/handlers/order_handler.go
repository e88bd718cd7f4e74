package handlers

import (
	"net/http"
	"order_queue/internal/events"
	"order_queue/internal/middleware"
	"order_queue/internal/models"
	"order_queue/internal/services"
	"order_queue/internal/validation"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// OrderHandler is the staff queue.
type OrderHandler struct {
	orderService services.OrderService
	subscriber   events.Subscriber
	validate     *validatorv10.Validate
}

func NewOrderHandler(orderService services.OrderService, subscriber events.Subscriber, validate *validatorv10.Validate) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		subscriber:   subscriber,
		validate:     validate,
	}
}

func (h *OrderHandler) ListActive(c *gin.Context) {
	orders, err := h.orderService.ListActiveSessionOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Assign(c *gin.Context) {
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}

	principal := middleware.CurrentPrincipal(c)
	order, err := h.orderService.AssignOrderToUser(c.Request.Context(), id, principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}

	var req validation.UpdateStatusRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	principal := middleware.CurrentPrincipal(c)
	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(req.Status), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) Unassign(c *gin.Context) {
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}

	principal := middleware.CurrentPrincipal(c)
	order, err := h.orderService.UnassignOrder(c.Request.Context(), id, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Stream forwards every order event to the staff board.
func (h *OrderHandler) Stream(c *gin.Context) {
	streamEvents(c, h.subscriber, nil, func(event events.OrderEvent) bool {
		c.SSEvent(string(event.Type), event)
		return true
	})
}
