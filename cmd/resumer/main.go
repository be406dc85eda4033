package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/app"
	"lokvista_admin/internal/domain"
	"lokvista_admin/internal/shared"
	"lokvista_admin/internal/wiring"
)

// resumer finishes approvals that stopped before the notified stage.
func main() {
	os.Exit(run())
}

func run() int {
	limit := flag.Int("limit", 500, "max submissions to resume in one run")
	flag.Parse()

	_ = godotenv.Load()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "resumer")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := wiring.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer deps.Close(context.Background())

	stuck, err := deps.Store.ListStuckApprovals(ctx, *limit)
	if err != nil {
		log.Error().Err(err).Msg("list stuck approvals failed")
		return 1
	}
	log.Info().Int("pending", len(stuck)).Int("workers", cfg.ResumeWorkers).Msg("resumer starting")

	// the resumer acts as its own admin in the decision log
	ctx = domain.WithActor(ctx, "resumer")
	review := app.NewReviewService(deps.Store, deps.Notifier, deps.Audit, deps.Cache)

	workers := cfg.ResumeWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, sub := range stuck {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("stopping early")
			break
		}

		wg.Add(1)
		go func(id string, from domain.ApprovalStage) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := review.Resume(ctx, id)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("submission", id).Str("stage", string(from)).Err(err).Msg("resume failed")
				return
			}
			log.Info().Str("submission", id).Str("stage", string(from)).Bool("notified", res.Notified).Msg("resume ok")
		}(sub.ID, sub.ApprovalStage)
	}

	wg.Wait()
	log.Info().Int("total", len(stuck)).Int32("failed", failed.Load()).Msg("resume completed")
	if failed.Load() > 0 {
		return 1
	}
	return 0
}
