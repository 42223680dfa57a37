package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/tournamate/rosterd/internal/httpapi"
	"github.com/tournamate/rosterd/internal/periodicjobs"
	"github.com/tournamate/rosterd/pkg/cache"
	"github.com/tournamate/rosterd/pkg/config"
	"github.com/tournamate/rosterd/pkg/logger"
	"github.com/tournamate/rosterd/pkg/roster"
	"github.com/tournamate/rosterd/pkg/store"
)

func main() {
	if err := run(); err != nil {
		logger.Logger(context.Background()).WithError(err).Fatal("rosterd stopped")
	}
}

func run() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "default"
	}

	cfg, err := config.LoadConfig(env)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	registry := cache.NewRegistry()
	c, err := registry.Open(&cfg.Cache)
	if err != nil {
		return err
	}
	defer func() {
		if err := registry.Close(); err != nil {
			log.WithError(err).Warn("failed to close cache")
		}
	}()

	strategy, err := roster.ParseStrategy(cfg.Roster.WriteMode)
	if err != nil {
		return err
	}

	// shared between request handlers and the periodic jobs
	cacheMutex := &sync.RWMutex{}
	coordinator := roster.NewCoordinator(store.New(c), strategy, cacheMutex)

	if cfg.Roster.ReconcileOnStartup {
		if _, err := coordinator.Reconcile(logger.WithRequestId(ctx, "startup")); err != nil {
			return err
		}
	}

	mgr := periodicjobs.NewPeriodicTaskManager()
	periodicjobs.NewRosterReconcileJob(coordinator, cfg.Roster.ReconcileInterval).AddToPeriodicTaskManager(mgr)
	mgr.Start(ctx)

	if !log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Players:        coordinator,
		Teams:          coordinator,
		Reconciler:     coordinator,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           nethttp.Middleware(opentracing.GlobalTracer(), router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"address":   srv.Addr,
			"cache":     cfg.Cache.Driver,
			"writeMode": strategy,
		}).Info("rosterd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			stop()
			mgr.Wait()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)

	stop()
	mgr.Wait()
	return err
}
