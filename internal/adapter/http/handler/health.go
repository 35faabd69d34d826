package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"userapp/internal/core/model/response"
)

// HealthHandler serves liveness and service-info endpoints. Liveness is
// unconditional; it never touches the store.
type HealthHandler struct {
	version     string
	environment string
}

func NewHealthHandler(version, environment string) *HealthHandler {
	return &HealthHandler{
		version:     version,
		environment: environment,
	}
}

// Health reports liveness. Always 200.
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

// Info describes the service and its endpoints.
//
// GET /
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, response.InfoResponse{
		Message:     "Users CRUD API Server",
		Version:     h.version,
		Environment: h.environment,
		Endpoints: map[string]string{
			"health": "/health",
			"users":  "/api/users",
		},
	})
}
