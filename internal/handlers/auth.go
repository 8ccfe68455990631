package handlers

import (
	"errors"
	"net/http"

	"github.com/pawell24/TimeTracker/internal/dto"
	"github.com/pawell24/TimeTracker/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, email confirmation and login.
type AuthHandler struct {
	userSvc *service.UserService
	baseURL string
}

// NewAuthHandler returns a new AuthHandler. baseURL is used to build the
// confirmation link returned on registration.
func NewAuthHandler(userSvc *service.UserService, baseURL string) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, baseURL: baseURL}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, token, err := h.userSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "user with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Email:       user.Email,
		ConfirmLink: h.baseURL + "/api/v1/auth/confirm?token=" + token,
	})
}

// Confirm godoc
// @Summary      Confirm user email
// @Tags         auth
// @Produce      json
// @Param        token  query     string  true  "Confirmation token"
// @Success      200    {object}  map[string]bool
// @Failure      404    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /auth/confirm [get]
func (h *AuthHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if err := h.userSvc.ConfirmEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidConfirmToken) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Login godoc
// @Summary      Log in and get an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.userSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogin) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{AccessToken: token})
}
