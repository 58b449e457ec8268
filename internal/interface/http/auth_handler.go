package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/interface/middleware"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

type AuthHandler struct {
	Svc       *application.AuthService
	Logger    *logrus.Logger
	Cookies   *helpers.Manager
	CookieTTL time.Duration
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.Manager, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies, CookieTTL: cookieTTL}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,signuprole"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateDetailsRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

// sendToken sets the token cookie and returns the token in the body.
func (h *AuthHandler) sendToken(c *gin.Context, status int, s *application.Session) {
	exp := s.Expires
	if h.CookieTTL > 0 {
		exp = time.Now().Add(h.CookieTTL)
	}
	h.Cookies.SetToken(c, s.Token, exp)
	response.Token(c, status, s.Token)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: entity.Role(req.Role),
	}, baseURL(c)+"/api/v1/auth/confirmemail")
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, s)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, s)
}

// Logout overwrites the cookie and revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxToken)); err != nil {
		fail(c, err)
		return
	}
	h.Cookies.SetSentinel(c)
	response.Success(c, http.StatusOK, gin.H{})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req updateDetailsRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.Svc.UpdateDetails(c.Request.Context(), u, application.DetailsInput{Name: req.Name, Email: req.Email})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req updatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Svc.UpdatePassword(c.Request.Context(), u, req.CurrentPassword, req.NewPassword)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, s)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email, baseURL(c)+"/api/v1/auth/resetpassword"); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Email sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Svc.ResetPassword(c.Request.Context(), c.Param("resettoken"), req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, s)
}
