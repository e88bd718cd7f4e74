package handlers

import (
	"log"
	"net/http"
	"order_queue/internal/models"
	"order_queue/internal/services"

	"github.com/gin-gonic/gin"
)

var (
	errOrderNotReady = &services.Error{Kind: services.KindInvalidArgument, Message: "Order is not ready."}
	errNoPhone       = &services.Error{Kind: services.KindInvalidArgument, Message: "Order has no customer phone."}
)

// WhatsAppHandler exposes the customer notification log and lets admins
// resend a ready message by hand.
type WhatsAppHandler struct {
	notificationService services.NotificationService
	orderService        services.OrderService
}

func NewWhatsAppHandler(notificationService services.NotificationService, orderService services.OrderService) *WhatsAppHandler {
	return &WhatsAppHandler{
		notificationService: notificationService,
		orderService:        orderService,
	}
}

func (h *WhatsAppHandler) ListNotifications(c *gin.Context) {
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}

	if _, err := h.orderService.GetPublicOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	notifications, err := h.notificationService.ListForOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *WhatsAppHandler) ResendReady(c *gin.Context) {
	id, ok := pathID(c, services.ErrOrderNotFound)
	if !ok {
		return
	}

	tracked, err := h.orderService.GetPublicOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	order := tracked.Order
	if order.Status != string(models.OrderReady) {
		respondError(c, errOrderNotReady)
		return
	}
	if order.CustomerPhone == nil || *order.CustomerPhone == "" {
		respondError(c, errNoPhone)
		return
	}

	if err := h.notificationService.NotifyOrderReady(c.Request.Context(), *order); err != nil {
		log.Printf("Resend ready notification for order %s failed: %v", order.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send notification."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification sent."})
}
