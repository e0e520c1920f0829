package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avbinvest/staffsync/internal/config"
	orgdomain "github.com/avbinvest/staffsync/internal/organization/domain"
	persondomain "github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/avbinvest/staffsync/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterPersonRoutes mounts the person service API. Membership mutation
// endpoints sit behind the rate limiter.
func RegisterPersonRoutes(r *gin.Engine, svc persondomain.Service, limiter *ratelimit.MutationLimiter) {
	h := &personHandler{svc: svc}
	limited := RateLimitMiddleware(limiter)

	api := r.Group("/api/persons")
	api.GET("", h.List)
	api.POST("", h.Create)
	api.POST("/by-ids", h.ListByIDs)
	api.GET("/:id", h.GetByID)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)
	api.POST("/:id/organization", limited, h.AddMembership)
	api.DELETE("/:id/organization", limited, h.RemoveMembership)
}

// RegisterOrganizationRoutes mounts the organization service API.
func RegisterOrganizationRoutes(r *gin.Engine, svc orgdomain.Service, limiter *ratelimit.MutationLimiter) {
	h := &organizationHandler{svc: svc}
	limited := RateLimitMiddleware(limiter)

	api := r.Group("/api/organizations")
	api.GET("", h.List)
	api.POST("", h.Create)
	api.GET("/:id", h.GetByID)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)
	api.POST("/:id/members", limited, h.AddMember)
	api.DELETE("/:id/members/:personId", limited, h.RemoveMember)
}

// Run ties the HTTP server to the fx lifecycle.
func Run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
