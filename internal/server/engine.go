package server

import (
	"net/http"

	"github.com/avbinvest/staffsync/internal/config"
	"github.com/avbinvest/staffsync/internal/observability"
	"github.com/avbinvest/staffsync/internal/observability/logger"
	"github.com/avbinvest/staffsync/internal/observability/metrics"
	"github.com/avbinvest/staffsync/internal/observability/tracing"
	"github.com/avbinvest/staffsync/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewEngine assembles the shared middleware chain both services run behind.
func NewEngine(cfg config.Config, obs observability.Config, m *metrics.Metrics) *gin.Engine {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(tracing.GinMiddleware())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Debug:           obs.Debug(),
		ErrorClassifier: ClassifyError,
	}))
	r.Use(metrics.GinMiddleware(m))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.AppName,
			"version": cfg.AppVersion,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// RateLimitMiddleware guards membership mutation endpoints. The caller key is
// the client address; when the limiter is disabled the middleware is a
// pass-through.
func RateLimitMiddleware(limiter *ratelimit.MutationLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis trouble must not take the write path down.
			c.Next()
			return
		}
		if !res.Allowed {
			c.Header("Retry-After", res.RetryAfter.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{Error: errorDetail{
				Type:    "rate_limited",
				Message: "too many membership mutations, retry later",
			}})
			return
		}
		c.Next()
	}
}
