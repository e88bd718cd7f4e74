package handlers

import (
	"net/http"
	"order_queue/internal/middleware"
	"order_queue/internal/services"
	"order_queue/internal/validation"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

type InviteHandler struct {
	inviteService services.InviteService
	validate      *validatorv10.Validate
}

func NewInviteHandler(inviteService services.InviteService, validate *validatorv10.Validate) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		validate:      validate,
	}
}

func (h *InviteHandler) Create(c *gin.Context) {
	var req validation.CreateInviteRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	invite, err := h.inviteService.CreateInvite(c.Request.Context(), middleware.CurrentPrincipal(c), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invite": invite})
}
