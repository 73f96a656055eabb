package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockverse/internal/pkg/log/acess_log"
	"stockverse/internal/pkg/logger"
	"stockverse/internal/pkg/metrics"
)

// Controller é qualquer módulo que registra rotas sob /api.
type Controller interface {
	Routes(routes gin.IRouter)
}

type Deps struct {
	Env         string
	Log         *zap.Logger
	Metrics     *metrics.HTTPMetrics
	AccessLog   *acess_log.Service
	Identity    acess_log.Identity
	Controllers []Controller
}

func SetupRouter(d Deps) *gin.Engine {
	switch d.Env {
	case "prod":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "dev", "":
		gin.SetMode(gin.DebugMode)
	default:
		d.Log.Warn("[ROUTES] app.env inválido, usando modo dev", zap.String("env", d.Env))
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	SetupApiRoutes(r, d)
	return r
}

// SetupApiRoutes monta /api com o log de acesso e as rotas de cada módulo.
func SetupApiRoutes(r *gin.Engine, d Deps) {
	route := r.Group("/api", d.AccessLog.Middleware(d.Identity))
	for _, ctrl := range d.Controllers {
		ctrl.Routes(route)
	}
}
