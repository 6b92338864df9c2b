package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/taskhub-api/pkg/response"
)

// Healthz GET /api/healthz
func Healthz(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
}
