package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/application"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

// EmailHandler serves the links mailed to users.
type EmailHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewEmailHandler(svc *application.AuthService, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Svc: svc, Logger: logger}
}

// Confirm marks the account holding ?token= as email-confirmed.
func (h *EmailHandler) Confirm(c *gin.Context) {
	u, err := h.Svc.ConfirmEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		fail(c, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithField("user_id", u.ID).Info("email confirmed")
	}
	response.Message(c, http.StatusOK, "Email confirmed", u)
}
