package handlers

import (
	"net/http"
	"order_queue/internal/services"
	"order_queue/internal/validation"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

type SessionHandler struct {
	sessionService services.SessionService
	validate       *validatorv10.Validate
}

func NewSessionHandler(sessionService services.SessionService, validate *validatorv10.Validate) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validate:       validate,
	}
}

func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.sessionService.ListSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req validation.CreateSessionRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *SessionHandler) Activate(c *gin.Context) {
	id, ok := pathID(c, services.ErrSessionNotFound)
	if !ok {
		return
	}

	session, err := h.sessionService.ActivateSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := pathID(c, services.ErrSessionNotFound)
	if !ok {
		return
	}

	session, err := h.sessionService.CloseSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}
