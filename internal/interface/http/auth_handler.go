package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskhub/taskhub-api/internal/application"
	"github.com/taskhub/taskhub-api/internal/domain/entity"
	"github.com/taskhub/taskhub-api/internal/interface/middleware"
	"github.com/taskhub/taskhub-api/pkg/response"
	"github.com/taskhub/taskhub-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
	Env    string
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, env string) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Env: env}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"token": token, "user": userJSON(u)}, "registered")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}

	u, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "user": userJSON(u)}, "login successful")
}

// GetProfile GET /api/auth/profile (auth required)
func (h *AuthHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		handleServiceError(c, h.Logger, h.Env, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": userJSON(u)}, "profile")
}

// userJSON projects a user for responses; the password hash never leaves.
func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"name":      u.Name,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}
