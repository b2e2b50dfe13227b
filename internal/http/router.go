// README: HTTP router registration (gin).
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gkatsarova/planzy-sub001/internal/http/handlers"
	"github.com/gkatsarova/planzy-sub001/internal/http/middleware"
	"github.com/gkatsarova/planzy-sub001/internal/infra"
)

// RequestTimeout bounds every /api request.
const RequestTimeout = 15 * time.Second

type RouterDeps struct {
	Parser           handlers.IntentParser
	Planner          handlers.Planner
	Quota            handlers.Quota    // nil disables quota checks and /api/usage
	Notifier         handlers.Notifier // nil disables plan push notifications
	Verifier         infra.TokenVerifier
	BatchConcurrency int
	Logger           *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier), middleware.Timeout(RequestTimeout))

	intentHandler := handlers.NewIntentHandler(deps.Parser, deps.Quota, deps.BatchConcurrency)
	api.POST("/intents/parse", intentHandler.Parse)
	api.POST("/intents/batch", intentHandler.Batch)

	if deps.Planner != nil {
		vacationHandler := handlers.NewVacationHandler(deps.Planner, deps.Quota, deps.Notifier)
		api.POST("/vacations/plan", vacationHandler.Plan)
	}

	if deps.Quota != nil {
		usageHandler := handlers.NewUsageHandler(deps.Quota)
		api.GET("/usage", usageHandler.Get)
	}

	return r
}
