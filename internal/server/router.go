package server

import (
	"github.com/gin-gonic/gin"

	"github.com/gdpranavl/SanjeevanAI/internal/cases"
	"github.com/gdpranavl/SanjeevanAI/internal/iam"
	"github.com/gdpranavl/SanjeevanAI/internal/prescriptions"
	"github.com/gdpranavl/SanjeevanAI/pkg/config"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
)

// Dependencies carries everything the router wires together. The rate
// limiter is owned by the caller so its cleanup goroutine can be
// stopped on shutdown; a nil RateLimiter disables rate limiting.
type Dependencies struct {
	Config               *config.Config
	Logger               *logger.Logger
	Metrics              *monitoring.MetricsCollector
	Health               *monitoring.HealthManager
	RateLimiter          *RateLimiter
	CaseHandlers         *cases.Handlers
	PrescriptionHandlers *prescriptions.Handlers
	AuthHandlers         *iam.Handlers
}

// NewRouter assembles the gin engine: global middleware, public and
// authenticated route groups, health and metrics endpoints.
func NewRouter(deps *Dependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(CORS())
	router.Use(monitoring.HTTPMiddleware(deps.Metrics, deps.Logger))

	if deps.RateLimiter != nil {
		router.Use(RateLimit(deps.RateLimiter))
	}

	router.GET(deps.Config.Monitoring.HealthPath, deps.Health.GinHandler())
	if deps.Config.Monitoring.Enabled {
		router.GET(deps.Config.Monitoring.MetricsPath, gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	authed := router.Group("/api/v1")
	authed.Use(AuthRequired(&deps.Config.JWT, deps.Logger))

	deps.AuthHandlers.RegisterRoutes(v1)
	deps.CaseHandlers.RegisterRoutes(v1, authed)
	deps.PrescriptionHandlers.RegisterRoutes(v1, authed)

	return router
}
