package handlers

import (
	"net/http"
	"order_queue/internal/middleware"
	"order_queue/internal/services"
	"order_queue/internal/validation"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	userService services.UserService
	validate    *validatorv10.Validate
}

func NewAuthHandler(userService services.UserService, validate *validatorv10.Validate) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validate:    validate,
	}
}

// Signup redeems an invite code and returns a session token for the new account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req validation.SignupRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	result, err := h.userService.Signup(c.Request.Context(), services.SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	result, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	user, err := h.userService.GetProfile(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req validation.UpdateProfileRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	principal := middleware.CurrentPrincipal(c)
	user, err := h.userService.UpdateProfile(c.Request.Context(), principal.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
