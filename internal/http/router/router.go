// Package router builds the gin engine: global middleware, health check and
// the route groups modules mount themselves on.
package router

import (
	"net/http"
	"time"

	apphttp "usittel_backend/internal/http"
	"usittel_backend/platform/apperr"
	"usittel_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New creates the HTTP engine for the given application.
func New(app *apphttp.App) *gin.Engine {
	cfg := app.Config
	log := app.Logger

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(cfg)))

	engine.GET("/api/health", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"status": "ok"})
	})

	perMinute := cfg.GetRateLimitPerMinute()
	limiter := httpkit.NewIPRateLimiter(rate.Limit(float64(perMinute)/60.0), perMinute, log)

	v1 := engine.Group("/api/v1")
	v1.Use(limiter.RateLimit())

	routerCtx := &apphttp.RouterContext{Public: v1}
	if cfg.IsAdminEnabled() {
		routerCtx.Admin = v1.Group("/admin", httpkit.AuthRequired(cfg), httpkit.RequireRole("admin"))
	} else {
		log.Info("admin routes disabled: JWT_ACCESS_SECRET not configured")
	}

	for _, m := range app.Modules {
		m.RegisterRoutes(routerCtx)
	}
	log.Info("routes mounted", "modules", app.ModuleNames(), "admin", routerCtx.Admin != nil)

	engine.NoRoute(func(c *gin.Context) {
		httpkit.HandleError(c, apperr.NotFound("route not found"))
	})

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.RequestIDHeader, "X-Session-ID"},
		ExposeHeaders:    []string{httpkit.RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}
