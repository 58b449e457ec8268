package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

type CourseHandler struct {
	Svc *application.CourseService
}

func NewCourseHandler(svc *application.CourseService) *CourseHandler {
	return &CourseHandler{Svc: svc}
}

type courseRequest struct {
	Title                string   `json:"title" binding:"required,max=100"`
	Description          string   `json:"description" binding:"required"`
	Weeks                int      `json:"weeks" binding:"required,gt=0"`
	Tuition              *float64 `json:"tuition" binding:"required,gte=0"`
	MinimumSkill         string   `json:"minimumSkill" binding:"required,skill"`
	ScholarshipAvailable bool     `json:"scholarshipAvailable"`
}

type coursePatchRequest struct {
	Title                *string  `json:"title" binding:"omitempty,min=1,max=100"`
	Description          *string  `json:"description" binding:"omitempty,min=1"`
	Weeks                *int     `json:"weeks" binding:"omitempty,gt=0"`
	Tuition              *float64 `json:"tuition" binding:"omitempty,gte=0"`
	MinimumSkill         *string  `json:"minimumSkill" binding:"omitempty,skill"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

// List serves both /courses (filtered, paginated) and
// /bootcamps/:id/courses (every course of one bootcamp).
func (h *CourseHandler) List(c *gin.Context) {
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

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req courseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.Svc.Create(c.Request.Context(), u, c.Param("id"), application.CourseInput{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              *req.Tuition,
		MinimumSkill:         entity.SkillLevel(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipAvailable,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req coursePatchRequest
	if !bindJSON(c, &req) {
		return
	}
	p := application.CoursePatch{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		ScholarshipAvailable: req.ScholarshipAvailable,
	}
	if req.MinimumSkill != nil {
		skill := entity.SkillLevel(*req.MinimumSkill)
		p.MinimumSkill = &skill
	}
	course, err := h.Svc.Update(c.Request.Context(), u, c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
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
