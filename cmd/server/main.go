package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"square-mapper/api"
	"square-mapper/app"
	"square-mapper/config"
	"square-mapper/handlers"
	"square-mapper/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	a, err := app.Open(cfg)
	if err != nil {
		logging.Error("failed to open map", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	clientManager := handlers.NewClientManager()
	clientManager.BroadcastMapEvents(a.MapService)

	router := api.NewRouter(api.Config{
		Addr:        ":" + cfg.Port,
		BaseURL:     "/api",
		Controllers: []api.Controller{api.NewMapController(a.MapService)},
		WebSocket:   handlers.NewWebSocketHandler(a.MapService, clientManager),
	})
	srv := router.Server()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info("server starting", "addr", srv.Addr, "map", a.MapService.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown failed", "err", err)
	}
	if err := a.MapService.Persist(); err != nil {
		logging.Warn("final save failed", "err", err)
	}
}
