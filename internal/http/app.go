package http

import (
	"usittel_backend/platform/config"
	"usittel_backend/platform/logger"
)

// RouterConfig is the part of the configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	IsAdminEnabled() bool
}

// App is what the composition root hands to the router.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Modules []Module
}

// ModuleNames lists the modules in mount order.
func (a *App) ModuleNames() []string {
	names := make([]string, 0, len(a.Modules))
	for _, m := range a.Modules {
		names = append(names, m.Name())
	}
	return names
}
