package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgNoText     = "No text provided"
	msgUnexpected = "An unexpected error occurred"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
