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
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/soaringjerry/Persona/internal/api"
	"github.com/soaringjerry/Persona/internal/middleware"
	"github.com/soaringjerry/Persona/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, log := rt.cfg, rt.log

	if cfg.UsesDevSecret() {
		log.Warn("using the built-in development jwt secret; set PERSONA_JWT_SECRET")
	}
	keys, err := middleware.NewTokenKeys(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	auth := services.NewAuthService(cfg.Auth.AdminPasswordHash, keys.SignAdminToken, cfg.Auth.TokenTTL)
	if !auth.Enabled() {
		log.Info("admin login disabled; set PERSONA_ADMIN_PASSWORD_HASH to enable")
	}

	if log.Core().Enabled(zap.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Results:   rt.results,
		Share:     services.NewShareService(rt.results, keys, cfg.Server.BaseURL, cfg.Share.TTL, log.Named("share")),
		Auth:      auth,
		Analytics: services.NewAnalyticsService(rt.results, rt.bank),
		Export:    services.NewExportService(rt.results),
		Keys:      keys,
		Log:       log.Named("http"),
		Build:     api.BuildInfo{Commit: cfg.Server.Commit, BuildTime: cfg.Server.BuildTime},
		Frontend:  api.Frontend{StaticDir: cfg.Server.StaticDir, DevURL: cfg.Server.DevFrontendURL},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("persona server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.Int("questions", rt.bank.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
