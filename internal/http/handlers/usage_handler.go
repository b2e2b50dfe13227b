package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gkatsarova/planzy-sub001/internal/http/middleware"
)

type UsageHandler struct {
	quota Quota
}

func NewUsageHandler(quota Quota) *UsageHandler {
	return &UsageHandler{quota: quota}
}

// Get handles GET /api/usage.
func (h *UsageHandler) Get(c *gin.Context) {
	remaining, err := h.quota.Remaining(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"remaining": remaining})
}
