package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhub/taskhub-api/internal/container"
	handlers "github.com/taskhub/taskhub-api/internal/interface/http"
	"github.com/taskhub/taskhub-api/internal/interface/middleware"
)

// OpsModule registers liveness and, when enabled, expvar debug metrics.
type OpsModule struct{}

func NewOpsModule() *OpsModule { return &OpsModule{} }

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", handlers.Healthz)

	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
