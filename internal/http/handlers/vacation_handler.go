package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gkatsarova/planzy-sub001/internal/http/middleware"
)

type VacationHandler struct {
	planner  Planner
	quota    Quota
	notifier Notifier
}

func NewVacationHandler(planner Planner, quota Quota, notifier Notifier) *VacationHandler {
	return &VacationHandler{planner: planner, quota: quota, notifier: notifier}
}

type planReq struct {
	Text        string `json:"text"`
	DeviceToken string `json:"deviceToken"`
}

// Plan handles POST /api/vacations/plan.
// A failed push notification is recorded on the gin context and does not fail the request.
func (h *VacationHandler) Plan(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "missing text")
		return
	}
	uid := middleware.CallerUID(c)
	if !checkQuota(c, h.quota, uid) {
		return
	}

	plan, err := h.planner.Plan(c.Request.Context(), req.Text)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !chargeQuota(c, h.quota, uid) {
		return
	}
	if h.notifier != nil && req.DeviceToken != "" {
		if err := h.notifier.PlanReady(c.Request.Context(), req.DeviceToken, plan); err != nil {
			_ = c.Error(err)
		}
	}
	writeJSON(c, http.StatusOK, plan)
}
