package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the success envelope shared by every endpoint.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ListBody is returned by collection endpoints.
type ListBody struct {
	Success    bool `json:"success"`
	Count      int  `json:"count"`
	Pagination any  `json:"pagination,omitempty"`
	Data       any  `json:"data"`
}

// TokenBody is returned when a token cookie is issued.
type TokenBody struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the failure envelope written by the terminal error stage.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func Success(c *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Body{Success: true, Data: data})
}

func Message(c *gin.Context, status int, message string, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Body{Success: true, Message: message, Data: data})
}

// List writes a collection; pagination is omitted when nil.
func List(c *gin.Context, count int, pagination any, data any) {
	c.JSON(http.StatusOK, ListBody{Success: true, Count: count, Pagination: pagination, Data: data})
}

func Token(c *gin.Context, status int, token string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, TokenBody{Success: true, Token: token})
}

func Error(message string) ErrorBody {
	return ErrorBody{Success: false, Error: message}
}
