package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

// UserHandler is the admin account surface.
type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,pwd"`
	Role     *string `json:"role" binding:"omitempty,role"`
}

func (h *UserHandler) List(c *gin.Context) {
	listFrom(c, func(spec query.Spec) (query.Result, error) { return h.Svc.List(c.Request.Context(), spec) })
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.UserInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: entity.Role(req.Role),
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	p := application.UserPatch{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		p.Role = &role
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
