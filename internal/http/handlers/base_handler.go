// README: Base handler utilities (JSON helpers, error mapping, service contracts).
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gkatsarova/planzy-sub001/internal/intent"
	"github.com/gkatsarova/planzy-sub001/internal/modules/aiusage"
	"github.com/gkatsarova/planzy-sub001/internal/service"
)

// IntentParser is implemented by *intent.Parser.
type IntentParser interface {
	ParseIntent(ctx context.Context, text string) intent.Result
	ParseBatch(ctx context.Context, texts []string, concurrency int) []intent.Result
}

// Planner is implemented by *service.VacationPlanner.
type Planner interface {
	Plan(ctx context.Context, text string) (*service.VacationPlan, error)
}

// Notifier is implemented by *notify.PlanNotifier.
type Notifier interface {
	PlanReady(ctx context.Context, deviceToken string, plan *service.VacationPlan) error
}

// Quota is implemented by *aiusage.Service.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
	Remaining(ctx context.Context, uid string) (int, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, intent.ErrExtraction):
		return http.StatusBadGateway, "entity extraction failed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeServiceError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	writeError(c, status, msg)
}

// checkQuota rejects callers with no tokens left. A nil quota means unlimited.
func checkQuota(c *gin.Context, quota Quota, uid string) bool {
	if quota == nil {
		return true
	}
	remaining, err := quota.Remaining(c.Request.Context(), uid)
	if err == nil && remaining <= 0 {
		err = aiusage.ErrInsufficientTokens
	}
	if err != nil {
		writeServiceError(c, err)
		return false
	}
	return true
}

// chargeQuota consumes one token after a successful parse, so failed
// extractions and timeouts are free.
func chargeQuota(c *gin.Context, quota Quota, uid string) bool {
	if quota == nil {
		return true
	}
	if err := quota.UseToken(c.Request.Context(), uid); err != nil {
		writeServiceError(c, err)
		return false
	}
	return true
}
