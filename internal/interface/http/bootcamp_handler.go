package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

type BootcampHandler struct {
	Svc *application.BootcampService
}

func NewBootcampHandler(svc *application.BootcampService) *BootcampHandler {
	return &BootcampHandler{Svc: svc}
}

type bootcampRequest struct {
	Name          string   `json:"name" binding:"required,max=50"`
	Description   string   `json:"description" binding:"required,max=500"`
	Website       string   `json:"website" binding:"omitempty,http_url"`
	Phone         string   `json:"phone" binding:"omitempty,phone"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Address       string   `json:"address" binding:"required"`
	Careers       []string `json:"careers" binding:"required,min=1,dive,career"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGI      bool     `json:"acceptGi"`
}

type bootcampPatchRequest struct {
	Name          *string   `json:"name" binding:"omitempty,min=1,max=50"`
	Description   *string   `json:"description" binding:"omitempty,min=1,max=500"`
	Website       *string   `json:"website" binding:"omitempty,http_url"`
	Phone         *string   `json:"phone" binding:"omitempty,phone"`
	Email         *string   `json:"email" binding:"omitempty,email"`
	Address       *string   `json:"address" binding:"omitempty,min=1"`
	Careers       *[]string `json:"careers" binding:"omitempty,min=1,dive,career"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGI      *bool     `json:"acceptGi"`
}

func (h *BootcampHandler) List(c *gin.Context) {
	listFrom(c, func(spec query.Spec) (query.Result, error) { return h.Svc.List(c.Request.Context(), spec) })
}

func (h *BootcampHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *BootcampHandler) Create(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req bootcampRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), u, application.BootcampInput{
		Name:          req.Name,
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGI:      req.AcceptGI,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *BootcampHandler) Update(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	var req bootcampPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), u, c.Param("id"), application.BootcampPatch{
		Name:          req.Name,
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGI:      req.AcceptGI,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *BootcampHandler) Delete(c *gin.Context) {
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

// InRadius lists bootcamps within :distance miles of :zipcode.
func (h *BootcampHandler) InRadius(c *gin.Context) {
	items, err := h.Svc.InRadius(c.Request.Context(), c.Param("zipcode"), c.Param("distance"))
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, len(items), nil, items)
}

func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
	u, ok := actor(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, apperror.BadRequest("Please upload a file"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, apperror.Internal("Problem with file upload", err))
		return
	}
	defer f.Close()

	name, err := h.Svc.UploadPhoto(c.Request.Context(), u, c.Param("id"), &application.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, name)
}

// Search runs a free-text query against the bootcamp index.
func (h *BootcampHandler) Search(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, err)
		return
	}
	response.List(c, len(hits), nil, hits)
}
