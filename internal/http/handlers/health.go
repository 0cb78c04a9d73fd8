package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-backend/internal/http/response"
)

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

func (hh *HealthHandler) Health(c *gin.Context) {
	response.OK(c, http.StatusOK, "ok", gin.H{
		"name":   "lms-backend",
		"uptime": time.Since(hh.startedAt).Round(time.Second).String(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
