package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	server "lokvista_admin/internal/adapters/http_server"
	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/app"
	"lokvista_admin/internal/shared"
	"lokvista_admin/internal/wiring"
)

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	deps, err := wiring.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer deps.Close(context.Background())

	q := app.NewQueryService(deps.Store, deps.Store, deps.Cache, cfg.CacheTTL, cfg.LookupWorkers)
	review := app.NewReviewService(deps.Store, deps.Notifier, deps.Audit, deps.Cache)
	hotels := app.NewHotelService(deps.Store, deps.Notifier, deps.Audit, deps.Cache)
	desc := app.NewDescriptionService(deps.Describer)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:          q,
		Review:     review,
		Hotels:     hotels,
		Desc:       desc,
		Dispatcher: deps.Mailer,
		Audit:      deps.Audit,
	}, server.Auth([]byte(cfg.JWTSecret)))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("notify", cfg.NotifyMode).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
