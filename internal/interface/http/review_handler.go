package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

type ReviewHandler struct {
	Svc *application.ReviewService
}

func NewReviewHandler(svc *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{Svc: svc}
}

type reviewRequest struct {
	Title  string `json:"title" binding:"required,max=100"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,rating"`
}

type reviewPatchRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1,max=100"`
	Text   *string `json:"text" binding:"omitempty,min=1"`
	Rating *int    `json:"rating" binding:"omitempty,rating"`
}

func (h *ReviewHandler) List(c *gin.Context) {
	if id := c.Param("id"); id != "" {
		items, err := h.Svc.ListByBootcamp(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		response.List(c, len(items), nil, items)
		return
	}
	listFrom(c, func(spec query.Spec) (query.Result, error) { return h.Svc.List(c.Request.Context(), spec) })
}

func (h *ReviewHandler) Get(c *gin.Context) {
	r, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, r)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), u, c.Param("id"), application.ReviewInput{
		Title: req.Title, Text: req.Text, Rating: req.Rating,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, r)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req reviewPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.Svc.Update(c.Request.Context(), u, c.Param("id"), application.ReviewPatch{
		Title: req.Title, Text: req.Text, Rating: req.Rating,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, r)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), u, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
