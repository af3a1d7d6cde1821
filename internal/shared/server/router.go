package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recruit-backend/internal/analyses"
	"recruit-backend/internal/applications"
	"recruit-backend/internal/services/health"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
)

const analysisRunGroup = "ANALYSIS_RUN"

// RouterDeps holds the handlers and shared dependencies the router mounts.
type RouterDeps struct {
	Config             config.Config
	Logger             *zap.Logger
	Health             *health.Service
	AnalysisHandler    *analyses.Handler
	ApplicationHandler *applications.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := deps.Config.RateLimit

	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateLimitGroup,
			Throttles: map[string]middleware.Throttle{
				analysisRunGroup: {PerSecond: rl.AnalysisPerSecond, Burst: rl.AnalysisBurst},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup puts synchronous analysis runs in their own bucket.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analyses/retry/:applicationId" {
		return analysisRunGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
