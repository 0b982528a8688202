// Command api serves the coverage widget backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"usittel_backend/internal/adapters"
	"usittel_backend/internal/coverage"
	"usittel_backend/internal/demand"
	"usittel_backend/internal/events"
	apphttp "usittel_backend/internal/http"
	"usittel_backend/internal/http/router"
	"usittel_backend/platform/config"
	"usittel_backend/platform/logger"
	"usittel_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewInMemoryBus(log)
	defer bus.Wait()

	// demand only listens on the bus; coverage reads it back for the admin stats
	demandModule := demand.NewModule(log)
	demandModule.RegisterHandlers(bus)

	coverageModule, err := coverage.NewModule(cfg, bus, adapters.NewDemandReaderAdapter(demandModule.Tracker()), validator.New(), log)
	if err != nil {
		return fmt.Errorf("coverage module: %w", err)
	}
	coverageModule.Prewarm(ctx)

	engine := router.New(&apphttp.App{
		Config:  cfg,
		Logger:  log,
		Modules: []apphttp.Module{coverageModule},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr, "env", cfg.Env)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
