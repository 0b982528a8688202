// Package http is the contract between the router and the bounded context
// modules: modules get route groups and mount their own handlers.
package http

import "github.com/gin-gonic/gin"

// Module is a bounded context with HTTP routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext holds the groups a module can mount on.
type RouterContext struct {
	// Public is /api/v1, rate limited per client IP.
	Public *gin.RouterGroup
	// Admin is /api/v1/admin behind a JWT with the admin role. Nil when no
	// JWT secret is configured.
	Admin *gin.RouterGroup
}
